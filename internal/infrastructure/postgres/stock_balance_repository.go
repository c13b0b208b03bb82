package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/fieldservice-pro/internal/domain"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo implementación de StockBalanceRepository sobre PostgreSQL
// (usable con pool o tx).
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

// Get obtiene el saldo actual; nil si la fila no existe.
func (r *StockBalanceRepo) Get(ctx context.Context, ownerID, itemID string) (*entity.StockBalance, error) {
	query := `
		SELECT owner_id, item_id, quantity, updated_at
		FROM stock_balances WHERE owner_id = $1 AND item_id = $2`
	var b entity.StockBalance
	err := r.q.QueryRow(ctx, query, ownerID, itemID).Scan(
		&b.OwnerID, &b.ItemID, &b.Quantity, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock balance: %w", err)
	}
	return &b, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE);
// nil si la fila aún no existe (el caller decide insertar).
func (r *StockBalanceRepo) GetForUpdate(ctx context.Context, ownerID, itemID string) (*entity.StockBalance, error) {
	query := `
		SELECT owner_id, item_id, quantity, updated_at
		FROM stock_balances WHERE owner_id = $1 AND item_id = $2
		FOR UPDATE`
	var b entity.StockBalance
	err := r.q.QueryRow(ctx, query, ownerID, itemID).Scan(
		&b.OwnerID, &b.ItemID, &b.Quantity, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock balance for update: %w", err)
	}
	return &b, nil
}

// Insert crea la fila de saldo. En una carrera de creación exactamente un
// insert gana; el perdedor recibe domain.ErrDuplicate (23505) y debe re-leer.
func (r *StockBalanceRepo) Insert(ctx context.Context, balance *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (owner_id, item_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, balance.OwnerID, balance.ItemID, balance.Quantity, balance.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock balance: %w", err)
	}
	return nil
}

// Update sobreescribe la cantidad de una fila ya bloqueada por GetForUpdate.
func (r *StockBalanceRepo) Update(ctx context.Context, balance *entity.StockBalance) error {
	query := `
		UPDATE stock_balances SET quantity = $3, updated_at = $4
		WHERE owner_id = $1 AND item_id = $2`
	tag, err := r.q.Exec(ctx, query, balance.OwnerID, balance.ItemID, balance.Quantity, balance.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock balance: %w", domain.ErrNotFound)
	}
	return nil
}
