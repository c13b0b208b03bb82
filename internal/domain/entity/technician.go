package entity

import "github.com/shopspring/decimal"

// TechnicianRateProfile representa las tarifas de pago de un técnico.
type TechnicianRateProfile struct {
	TechnicianID        string
	Name                string
	BaseRatePerVisit    decimal.Decimal // visita principal del lote
	AdditionalVisitRate decimal.Decimal // visitas adicionales en el mismo lote
	OvertimeHourlyRate  decimal.Decimal // por hora sobre la franquicia
}
