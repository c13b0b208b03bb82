package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/fieldservice-pro/internal/domain"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/repository"
)

var _ repository.PartRepository = (*PartRepo)(nil)

// PartRepo implementación del maestro de piezas sobre PostgreSQL (usable con pool o tx).
type PartRepo struct {
	q Querier
}

// NewPartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

// GetByID obtiene una pieza por ID; nil si no existe.
func (r *PartRepo) GetByID(ctx context.Context, id string) (*entity.Part, error) {
	query := `
		SELECT id, sku, name, unit_cost, unit_price, reorder_point, created_at, updated_at
		FROM parts WHERE id = $1`
	var p entity.Part
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SKU, &p.Name, &p.UnitCost, &p.UnitPrice, &p.ReorderPoint, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part: %w", err)
	}
	return &p, nil
}

// UpdateCost actualiza el costo promedio ponderado de la pieza.
func (r *PartRepo) UpdateCost(ctx context.Context, partID string, cost decimal.Decimal) error {
	query := `UPDATE parts SET unit_cost = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, partID, cost)
	if err != nil {
		return fmt.Errorf("update part cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update part cost: %w", domain.ErrNotFound)
	}
	return nil
}
