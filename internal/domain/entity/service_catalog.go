package entity

import "github.com/shopspring/decimal"

// ServiceCatalogEntry representa un tipo de servicio del catálogo con sus
// tarifas de facturación y las banderas que gobiernan la atribución de costos.
type ServiceCatalogEntry struct {
	ID                     string
	Code                   string
	Name                   string
	BaseRevenueRate        decimal.Decimal // facturación de la visita principal
	AdditionalRevenueRate  decimal.Decimal // facturación de visitas adicionales en el mismo lote
	BaseCostRate           decimal.Decimal
	AdditionalCostRate     decimal.Decimal
	OvertimeHourlyCostRate decimal.Decimal
	FranchiseHours         decimal.Decimal // horas incluidas antes de contar sobretiempo
	PayTechnician          bool            // false: el servicio no genera pago al técnico
	FullPaymentRegardless  bool            // paga tarifa base sin importar la posición en el lote (y no ocupa cupo)
	IsReturnExchange       bool            // cambio/devolución: factura 0 salvo pieza aportada por el cliente
}
