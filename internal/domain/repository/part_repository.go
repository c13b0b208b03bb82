package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
)

// PartRepository define el puerto de persistencia para el maestro de piezas (DIP).
type PartRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Part, error)
	UpdateCost(ctx context.Context, partID string, cost decimal.Decimal) error
}
