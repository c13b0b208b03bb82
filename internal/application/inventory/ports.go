package inventory

import (
	"context"

	"github.com/tu-usuario/fieldservice-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el libro de
// inventario. Las alertas de stock bajo no participan: se emiten tras el
// commit sobre el repositorio atado al pool (ver LedgerUseCase.EmitAlert).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		balanceRepo repository.StockBalanceRepository,
		movRepo repository.StockMovementRepository,
		partRepo repository.PartRepository,
	) error) error
}
