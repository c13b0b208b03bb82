package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// Los movimientos son append-only: solo INSERT y lecturas.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, item_id, kind, quantity, unit_cost_snapshot, owner_id, linked_dispatch_id, notes, created_at, created_by`

// Create persiste un movimiento de inventario.
func (r *StockMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.ItemID, movement.Kind, movement.Quantity,
		movement.UnitCostSnapshot, movement.OwnerID, movement.LinkedDispatchID,
		movement.Notes, movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID; nil si no existe.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// SumDeltas suma los deltas comprometidos del par (técnico, pieza). El saldo
// materializado debe coincidir siempre con este valor.
func (r *StockMovementRepo) SumDeltas(ctx context.Context, ownerID, itemID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_movements WHERE owner_id = $1 AND item_id = $2`
	var sum int64
	if err := r.q.QueryRow(ctx, query, ownerID, itemID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum movement deltas: %w", err)
	}
	return sum, nil
}

// ListByItem lista movimientos de una pieza en un rango de fechas.
func (r *StockMovementRepo) ListByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(ctx, "item_id", itemID, from, to, limit, offset)
}

// ListByOwner lista movimientos de un técnico en un rango de fechas.
func (r *StockMovementRepo) ListByOwner(ctx context.Context, ownerID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(ctx, "owner_id", ownerID, from, to, limit, offset)
}

func (r *StockMovementRepo) list(ctx context.Context, column, value string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE ` + column + ` = $1`
	args := []any{value}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.ItemID, &m.Kind, &m.Quantity, &m.UnitCostSnapshot,
		&m.OwnerID, &m.LinkedDispatchID, &m.Notes, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
