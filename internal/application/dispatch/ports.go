package dispatch

import (
	"context"
	"time"

	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los
// repositorios de despacho e inventario. La creación de un lote (N líneas +
// hasta N consumos) compromete completa o no compromete nada.
type TxRunner interface {
	RunDispatch(ctx context.Context, fn func(
		lineRepo repository.DispatchLineRepository,
		balanceRepo repository.StockBalanceRepository,
		movRepo repository.StockMovementRepository,
		partRepo repository.PartRepository,
	) error) error
}

// InventoryUseCase interfaz para integrar el motor de lotes con el libro de
// inventario. ConsumeInTx ejecuta el consumo usando los repositorios del
// caller (misma transacción); si retorna error (ej: InsufficientStockError),
// el caller debe hacer rollback del lote completo. La alerta pendiente que
// retorna (nil si no aplica) debe emitirse con EmitAlert después del commit
// del lote; emitirla dentro de la transacción dejaría la tx abortada si el
// INSERT de la alerta falla.
type InventoryUseCase interface {
	ConsumeInTx(
		ctx context.Context,
		balanceRepo repository.StockBalanceRepository,
		movRepo repository.StockMovementRepository,
		partRepo repository.PartRepository,
		ownerID, itemID string,
		quantity int64,
		actor, notes string,
		linkedDispatchID *string,
		now time.Time,
	) (*entity.StockAlert, error)
	// EmitAlert emite una alerta pendiente fuera de la transacción;
	// fire-and-forget, acepta nil como no-op.
	EmitAlert(ctx context.Context, alert *entity.StockAlert)
}

// Notifier emite notificaciones al creador de una línea (canal lateral;
// un fallo al emitir no debe fallar la operación de negocio).
type Notifier interface {
	NotifyRejection(ctx context.Context, recipientID, lineID, reason string) error
}
