package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/fieldservice-pro/internal/domain"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/repository"
)

var _ repository.StockAlertRepository = (*StockAlertRepo)(nil)

// StockAlertRepo implementación sobre PostgreSQL. Se usa atado al pool: las
// alertas se emiten después del commit de la mutación que las generó, de modo
// que un INSERT fallido nunca deja abortada la transacción de la mutación.
type StockAlertRepo struct {
	q Querier
}

// NewStockAlertRepository construye el adaptador.
func NewStockAlertRepository(q Querier) *StockAlertRepo {
	return &StockAlertRepo{q: q}
}

// CreateIfAbsent crea la alerta salvo que exista una no leída para el mismo
// par (técnico, pieza). El índice único parcial sobre alertas no leídas hace
// la operación idempotente: el duplicado se descarta con ON CONFLICT.
func (r *StockAlertRepo) CreateIfAbsent(ctx context.Context, alert *entity.StockAlert) error {
	query := `
		INSERT INTO stock_alerts (id, owner_id, item_id, quantity, read, created_at)
		VALUES ($1, $2, $3, $4, false, $5)
		ON CONFLICT DO NOTHING`
	_, err := r.q.Exec(ctx, query, alert.ID, alert.OwnerID, alert.ItemID, alert.Quantity, alert.CreatedAt)
	if err != nil {
		return fmt.Errorf("create stock alert: %w", err)
	}
	return nil
}

// ListUnreadByOwner lista las alertas pendientes de un técnico.
func (r *StockAlertRepo) ListUnreadByOwner(ctx context.Context, ownerID string) ([]*entity.StockAlert, error) {
	query := `
		SELECT id, owner_id, item_id, quantity, read, created_at
		FROM stock_alerts WHERE owner_id = $1 AND NOT read
		ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list unread stock alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAlert
	for rows.Next() {
		var a entity.StockAlert
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.ItemID, &a.Quantity, &a.Read, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock alert: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// MarkRead marca la alerta como leída; el par queda libre para una nueva alerta.
func (r *StockAlertRepo) MarkRead(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE stock_alerts SET read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark stock alert read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("mark stock alert read: %w", domain.ErrNotFound)
	}
	return nil
}
