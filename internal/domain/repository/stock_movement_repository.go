package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el historial
// de movimientos (append-only).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// SumDeltas suma los deltas comprometidos del par (técnico, pieza);
	// soporta la verificación saldo ≡ Σ movimientos.
	SumDeltas(ctx context.Context, ownerID, itemID string) (int64, error)
	ListByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByOwner(ctx context.Context, ownerID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
