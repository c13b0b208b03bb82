package repository

import (
	"context"

	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
)

// StockBalanceRepository define el puerto para el saldo materializado por
// (técnico, pieza). Usado dentro de transacciones para garantizar consistencia.
type StockBalanceRepository interface {
	// Get lectura simple; nil si la fila no existe.
	Get(ctx context.Context, ownerID, itemID string) (*entity.StockBalance, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); nil si no existe.
	GetForUpdate(ctx context.Context, ownerID, itemID string) (*entity.StockBalance, error)
	// Insert crea la fila; domain.ErrDuplicate si otro insert concurrente ganó.
	Insert(ctx context.Context, balance *entity.StockBalance) error
	// Update sobreescribe la cantidad de una fila ya bloqueada.
	Update(ctx context.Context, balance *entity.StockBalance) error
}
