package repository

import (
	"context"

	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
)

// StockAlertRepository define el puerto para alertas de stock bajo.
type StockAlertRepository interface {
	// CreateIfAbsent crea la alerta salvo que ya exista una no leída para el
	// mismo par (técnico, pieza). Señalización idempotente.
	CreateIfAbsent(ctx context.Context, alert *entity.StockAlert) error
	ListUnreadByOwner(ctx context.Context, ownerID string) ([]*entity.StockAlert, error)
	MarkRead(ctx context.Context, id string) error
}
