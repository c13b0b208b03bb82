package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de validación de una línea de despacho.
// Pending → Approved o Pending → Rejected (terminal). El rechazo elimina
// el registro; los movimientos de inventario quedan como traza durable.
const (
	ValidationStatePending  = "PENDING"
	ValidationStateApproved = "APPROVED"
	ValidationStateRejected = "REJECTED"
)

// Proveedor de la pieza usada en el servicio.
const (
	PartSupplierCompany    = "COMPANY"    // pieza de la empresa: consume stock del técnico
	PartSupplierTechnician = "TECHNICIAN" // pieza propia del técnico
	PartSupplierClient     = "CLIENT"     // pieza aportada por el cliente
)

// DispatchLine representa un evento de servicio atendido por un técnico.
// Los campos de costo/ingreso se calculan una sola vez al crear el lote;
// aprobada y agrupada en un pago, la línea es inmutable.
type DispatchLine struct {
	ID               string
	TechnicianID     string
	ServiceDate      time.Time
	Location         string // texto original; la normalización ocurre en el LotKey
	BatchID          string
	LotPositionIndex int
	ServiceID        string // referencia al catálogo de servicios
	HoursWorked      decimal.Decimal
	OvertimeHours    decimal.Decimal
	AssignedCost     decimal.Decimal // pago al técnico
	BilledRevenue    decimal.Decimal // facturación al cliente
	PartID           *string
	PartSupplier     string // COMPANY, TECHNICIAN o CLIENT; vacío si no hay pieza
	PartCost         decimal.Decimal
	ValidationState  string
	Paid             bool
	PaymentID        *string
	CreatedAt        time.Time
	CreatedBy        string
}
