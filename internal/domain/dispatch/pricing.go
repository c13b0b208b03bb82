package dispatch

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
)

// Servicios de dominio puros para la atribución de costos e ingresos por
// línea. El motor de lotes (application/dispatch) orquesta; aquí vive la
// aritmética, sin estado ni persistencia.

// Occupies indica si una línea con este servicio ocupa cupo en su lote.
// Las líneas con pago completo sin importar posición no ocupan cupo.
func Occupies(catalog *entity.ServiceCatalogEntry) bool {
	return !catalog.FullPaymentRegardless
}

// AssignCost calcula el pago al técnico para una línea.
// slotZero indica que la línea ocupa la posición 0 de su lote; solo esa
// posición recibe el sobretiempo del lote.
func AssignCost(
	catalog *entity.ServiceCatalogEntry,
	profile *entity.TechnicianRateProfile,
	slotZero bool,
	overtimePay decimal.Decimal,
) decimal.Decimal {
	if !catalog.PayTechnician {
		return decimal.Zero
	}
	if catalog.FullPaymentRegardless {
		// Paga tarifa base completa sin ocupar cupo ni recibir sobretiempo.
		return profile.BaseRatePerVisit
	}
	if slotZero {
		return profile.BaseRatePerVisit.Add(overtimePay)
	}
	return profile.AdditionalVisitRate
}

// BillRevenue calcula la facturación al cliente para una línea.
// Regla de excepción: un servicio de cambio/devolución factura 0, salvo que
// la pieza sea aportada por el cliente (entonces factura tarifa base completa
// y, al ser pieza del cliente, no suma ingreso por pieza).
func BillRevenue(
	catalog *entity.ServiceCatalogEntry,
	slotZero bool,
	partSupplier string,
	partPrice decimal.Decimal,
) decimal.Decimal {
	if catalog.IsReturnExchange {
		if partSupplier == entity.PartSupplierClient {
			return catalog.BaseRevenueRate
		}
		return decimal.Zero
	}
	serviceRevenue := catalog.AdditionalRevenueRate
	if slotZero || catalog.FullPaymentRegardless {
		serviceRevenue = catalog.BaseRevenueRate
	}
	if partSupplier == entity.PartSupplierCompany {
		return serviceRevenue.Add(partPrice)
	}
	return serviceRevenue
}

// WeightedAverageCost implementa el costo promedio ponderado al ingresar stock.
// NuevoCosto = ((CantActual * CostoActual) + (CantEntrada * CostoEntrada)) / (CantActual + CantEntrada)
func WeightedAverageCost(currentQty int64, currentCost decimal.Decimal, incomingQty int64, incomingCost decimal.Decimal) decimal.Decimal {
	current := decimal.NewFromInt(currentQty)
	incoming := decimal.NewFromInt(incomingQty)
	sum := current.Add(incoming)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := current.Mul(currentCost).Add(incoming.Mul(incomingCost))
	return num.Div(sum)
}
