package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part representa una pieza consumible del catálogo maestro.
// UnitCost es promedio ponderado calculado desde los ingresos; ReorderPoint
// dispara la alerta de stock bajo por técnico.
type Part struct {
	ID           string
	SKU          string // código único
	Name         string
	UnitCost     decimal.Decimal // costo promedio ponderado (inicia en 0)
	UnitPrice    decimal.Decimal // precio facturado al cliente
	ReorderPoint int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
