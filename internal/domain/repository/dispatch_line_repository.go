package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/dispatch"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
)

// DispatchLineRepository define el puerto de persistencia para líneas de despacho.
type DispatchLineRepository interface {
	Create(ctx context.Context, line *entity.DispatchLine) error
	GetByID(ctx context.Context, id string) (*entity.DispatchLine, error)
	// CountOccupyingByLotKey cuenta las líneas ya persistidas bajo la clave de
	// lote cuya entrada de catálogo ocupa cupo (no FullPaymentRegardless).
	// Independiente del lote de envío: ambos caminos de evaluación la usan.
	CountOccupyingByLotKey(ctx context.Context, key dispatch.LotKey) (int, error)
	ListByBatch(ctx context.Context, batchID string) ([]*entity.DispatchLine, error)
	UpdateValidationState(ctx context.Context, id, state string) error
	// Delete elimina físicamente la línea (rechazo: conjunto activo limpio;
	// la traza durable son los movimientos de inventario).
	Delete(ctx context.Context, id string) error
	// SumPayableByTechnician suma AssignedCost de líneas aprobadas, no pagadas
	// y no vinculadas a un pago.
	SumPayableByTechnician(ctx context.Context, technicianID string) (decimal.Decimal, error)
}
