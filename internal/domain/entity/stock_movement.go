package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementKindINBOUND     = "INBOUND"     // entrada (bodega → técnico)
	MovementKindRETURN      = "RETURN"      // devolución (técnico → bodega)
	MovementKindCONSUMPTION = "CONSUMPTION" // consumo en un servicio
	MovementKindADJUSTMENT  = "ADJUSTMENT"  // ajuste de conteo físico
)

// StockMovement representa un movimiento de inventario. Append-only: es la
// fuente de verdad desde la cual los saldos son reconstruibles.
type StockMovement struct {
	ID               string
	ItemID           string
	Kind             string
	Quantity         int64           // delta con signo: positivo entrada, negativo salida
	UnitCostSnapshot decimal.Decimal // costo unitario de la pieza al momento del movimiento
	OwnerID          string          // técnico dueño del saldo afectado
	LinkedDispatchID *string         // opcional: línea de despacho que originó el consumo
	Notes            string
	CreatedAt        time.Time
	CreatedBy        string // actor que ejecutó la operación
}
