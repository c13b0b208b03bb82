package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/fieldservice-pro/internal/domain"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/dispatch"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/repository"
	"github.com/tu-usuario/fieldservice-pro/pkg/logger"
)

// maxCreateAttempts acota el reintento de la carrera de creación de saldo.
// Superarlo es ErrConcurrencyExhausted (contención extrema, excepcional).
const maxCreateAttempts = 3

// LedgerUseCase ejecuta las mutaciones del libro de inventario de forma
// transaccional, con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
// Cada mutación escribe exactamente un movimiento inmutable; los saldos
// materializados siempre son reconstruibles sumando los deltas.
//
// alertRepo va atado al pool, no a la transacción de la mutación: en
// PostgreSQL una sentencia fallida deja la transacción abortada (25P02) y el
// commit posterior falla aunque el caller haya descartado el error. Por eso
// las alertas se calculan dentro de la tx pero se emiten después del commit.
type LedgerUseCase struct {
	txRunner         TxRunner
	alertRepo        repository.StockAlertRepository
	defaultThreshold int64
	log              *logger.Logger
}

// NewLedgerUseCase construye el caso de uso. defaultThreshold aplica cuando
// la pieza no define punto de reorden propio.
func NewLedgerUseCase(txRunner TxRunner, alertRepo repository.StockAlertRepository, defaultThreshold int64, log *logger.Logger) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:         txRunner,
		alertRepo:        alertRepo,
		defaultThreshold: defaultThreshold,
		log:              log,
	}
}

// TransferInInput entrada para un ingreso de stock al técnico.
// UnitAcquisitionCost opcional: si viene, actualiza el costo maestro de la
// pieza al promedio ponderado.
type TransferInInput struct {
	OwnerID             string
	ItemID              string
	Quantity            int64
	Actor               string
	Notes               string
	UnitAcquisitionCost *decimal.Decimal
}

// ConsumeInput entrada para un consumo o devolución de stock.
type ConsumeInput struct {
	OwnerID          string
	ItemID           string
	Quantity         int64
	Actor            string
	Notes            string
	LinkedDispatchID *string
}

// AdjustInput entrada para un ajuste de conteo físico a una cantidad absoluta.
type AdjustInput struct {
	OwnerID     string
	ItemID      string
	NewQuantity int64
	Actor       string
	Notes       string
}

// TransferIn aumenta el saldo del técnico en Quantity y, si viene costo de
// adquisición, recalcula el costo promedio ponderado de la pieza.
func (uc *LedgerUseCase) TransferIn(ctx context.Context, in TransferInInput) error {
	if err := validatePair(in.OwnerID, in.ItemID); err != nil {
		return err
	}
	if in.Quantity <= 0 {
		return &domain.ValidationError{Field: "quantity", Reason: "debe ser positiva"}
	}
	if in.UnitAcquisitionCost != nil && in.UnitAcquisitionCost.LessThan(decimal.Zero) {
		return &domain.ValidationError{Field: "unitAcquisitionCost", Reason: "no puede ser negativo"}
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		balanceRepo repository.StockBalanceRepository,
		movRepo repository.StockMovementRepository,
		partRepo repository.PartRepository,
	) error {
		part, err := getPart(ctx, partRepo, in.ItemID)
		if err != nil {
			return err
		}
		newQty, err := uc.applyDelta(ctx, balanceRepo, in.OwnerID, in.ItemID, in.Quantity, now)
		if err != nil {
			return err
		}
		snapshot := part.UnitCost
		if in.UnitAcquisitionCost != nil {
			// Promedio ponderado sobre el saldo previo al ingreso.
			// Gap conocido: esta actualización del costo maestro solo está
			// protegida por el lock del par (técnico, pieza); ingresos
			// concurrentes de la misma pieza a técnicos distintos pueden
			// perder una actualización. Se preserva tal cual (ver DESIGN.md).
			prior := newQty - in.Quantity
			newCost := dispatch.WeightedAverageCost(prior, part.UnitCost, in.Quantity, *in.UnitAcquisitionCost)
			if err := partRepo.UpdateCost(ctx, in.ItemID, newCost); err != nil {
				return err
			}
			snapshot = *in.UnitAcquisitionCost
		}
		return movRepo.Create(ctx, &entity.StockMovement{
			ID:               uuid.New().String(),
			ItemID:           in.ItemID,
			Kind:             entity.MovementKindINBOUND,
			Quantity:         in.Quantity,
			UnitCostSnapshot: snapshot,
			OwnerID:          in.OwnerID,
			Notes:            in.Notes,
			CreatedAt:        now,
			CreatedBy:        in.Actor,
		})
	})
}

// Consume disminuye el saldo del técnico; falla con InsufficientStockError si
// el resultado sería negativo (nunca consumo parcial).
func (uc *LedgerUseCase) Consume(ctx context.Context, in ConsumeInput) error {
	if err := validateDecrement(in); err != nil {
		return err
	}
	now := time.Now()
	var alert *entity.StockAlert
	err := uc.txRunner.Run(ctx, func(
		balanceRepo repository.StockBalanceRepository,
		movRepo repository.StockMovementRepository,
		partRepo repository.PartRepository,
	) error {
		var err error
		alert, err = uc.ConsumeInTx(ctx, balanceRepo, movRepo, partRepo,
			in.OwnerID, in.ItemID, in.Quantity, in.Actor, in.Notes, in.LinkedDispatchID, now)
		return err
	})
	if err != nil {
		return err
	}
	uc.EmitAlert(ctx, alert)
	return nil
}

// ConsumeInTx ejecuta el consumo usando los repositorios del caller (misma
// transacción). El motor de lotes lo usa para que N líneas + N consumos
// comprometan o reviertan juntos. Si retorna error, el caller debe hacer
// rollback. La alerta pendiente (nil si no aplica) debe emitirse con
// EmitAlert después del commit, nunca dentro de la transacción.
func (uc *LedgerUseCase) ConsumeInTx(
	ctx context.Context,
	balanceRepo repository.StockBalanceRepository,
	movRepo repository.StockMovementRepository,
	partRepo repository.PartRepository,
	ownerID, itemID string,
	quantity int64,
	actor, notes string,
	linkedDispatchID *string,
	now time.Time,
) (*entity.StockAlert, error) {
	in := ConsumeInput{
		OwnerID:          ownerID,
		ItemID:           itemID,
		Quantity:         quantity,
		Actor:            actor,
		Notes:            notes,
		LinkedDispatchID: linkedDispatchID,
	}
	if err := validateDecrement(in); err != nil {
		return nil, err
	}
	part, err := getPart(ctx, partRepo, in.ItemID)
	if err != nil {
		return nil, err
	}
	newQty, err := uc.applyDelta(ctx, balanceRepo, in.OwnerID, in.ItemID, -in.Quantity, now)
	if err != nil {
		return nil, err
	}
	if err := movRepo.Create(ctx, &entity.StockMovement{
		ID:               uuid.New().String(),
		ItemID:           in.ItemID,
		Kind:             entity.MovementKindCONSUMPTION,
		Quantity:         -in.Quantity,
		UnitCostSnapshot: part.UnitCost,
		OwnerID:          in.OwnerID,
		LinkedDispatchID: in.LinkedDispatchID,
		Notes:            in.Notes,
		CreatedAt:        now,
		CreatedBy:        in.Actor,
	}); err != nil {
		return nil, err
	}
	return uc.lowStockAlert(part, in.OwnerID, newQty, now), nil
}

// ReturnToSource devuelve stock del técnico a la bodega: disminución simétrica
// con la misma guarda de saldo negativo.
func (uc *LedgerUseCase) ReturnToSource(ctx context.Context, in ConsumeInput) error {
	if err := validateDecrement(in); err != nil {
		return err
	}
	now := time.Now()
	var alert *entity.StockAlert
	err := uc.txRunner.Run(ctx, func(
		balanceRepo repository.StockBalanceRepository,
		movRepo repository.StockMovementRepository,
		partRepo repository.PartRepository,
	) error {
		part, err := getPart(ctx, partRepo, in.ItemID)
		if err != nil {
			return err
		}
		newQty, err := uc.applyDelta(ctx, balanceRepo, in.OwnerID, in.ItemID, -in.Quantity, now)
		if err != nil {
			return err
		}
		if err := movRepo.Create(ctx, &entity.StockMovement{
			ID:               uuid.New().String(),
			ItemID:           in.ItemID,
			Kind:             entity.MovementKindRETURN,
			Quantity:         -in.Quantity,
			UnitCostSnapshot: part.UnitCost,
			OwnerID:          in.OwnerID,
			Notes:            in.Notes,
			CreatedAt:        now,
			CreatedBy:        in.Actor,
		}); err != nil {
			return err
		}
		alert = uc.lowStockAlert(part, in.OwnerID, newQty, now)
		return nil
	})
	if err != nil {
		return err
	}
	uc.EmitAlert(ctx, alert)
	return nil
}

// AdjustTo lleva el saldo a una cantidad absoluta: delta = nueva − actual,
// aplicado como entrada o salida según el signo. Delta cero no muta nada.
func (uc *LedgerUseCase) AdjustTo(ctx context.Context, in AdjustInput) error {
	if err := validatePair(in.OwnerID, in.ItemID); err != nil {
		return err
	}
	if in.NewQuantity < 0 {
		return &domain.ValidationError{Field: "newQuantity", Reason: "no puede ser negativa"}
	}
	now := time.Now()
	var alert *entity.StockAlert
	err := uc.txRunner.Run(ctx, func(
		balanceRepo repository.StockBalanceRepository,
		movRepo repository.StockMovementRepository,
		partRepo repository.PartRepository,
	) error {
		part, err := getPart(ctx, partRepo, in.ItemID)
		if err != nil {
			return err
		}
		balance, err := balanceRepo.GetForUpdate(ctx, in.OwnerID, in.ItemID)
		if err != nil {
			return err
		}
		var current int64
		if balance != nil {
			current = balance.Quantity
		}
		delta := in.NewQuantity - current
		if delta == 0 {
			return nil
		}
		newQty, err := uc.applyDelta(ctx, balanceRepo, in.OwnerID, in.ItemID, delta, now)
		if err != nil {
			return err
		}
		if err := movRepo.Create(ctx, &entity.StockMovement{
			ID:               uuid.New().String(),
			ItemID:           in.ItemID,
			Kind:             entity.MovementKindADJUSTMENT,
			Quantity:         delta,
			UnitCostSnapshot: part.UnitCost,
			OwnerID:          in.OwnerID,
			Notes:            in.Notes,
			CreatedAt:        now,
			CreatedBy:        in.Actor,
		}); err != nil {
			return err
		}
		if delta < 0 {
			alert = uc.lowStockAlert(part, in.OwnerID, newQty, now)
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.EmitAlert(ctx, alert)
	return nil
}

// applyDelta lee el saldo bajo lock, calcula la cantidad resultante y la
// escribe. Si la fila no existe la crea con insert optimista: el perdedor de
// una carrera de creación detecta domain.ErrDuplicate, re-lee bajo lock y
// re-aplica su delta como update normal. Reintento acotado a maxCreateAttempts.
func (uc *LedgerUseCase) applyDelta(
	ctx context.Context,
	balanceRepo repository.StockBalanceRepository,
	ownerID, itemID string,
	delta int64,
	now time.Time,
) (int64, error) {
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		balance, err := balanceRepo.GetForUpdate(ctx, ownerID, itemID)
		if err != nil {
			return 0, err
		}
		if balance == nil {
			if delta < 0 {
				return 0, &domain.InsufficientStockError{ItemID: itemID, OwnerID: ownerID, Shortfall: -delta}
			}
			err := balanceRepo.Insert(ctx, &entity.StockBalance{
				OwnerID:   ownerID,
				ItemID:    itemID,
				Quantity:  delta,
				UpdatedAt: now,
			})
			if errors.Is(err, domain.ErrDuplicate) {
				continue // otro insert ganó la carrera; re-leer la fila bajo lock
			}
			if err != nil {
				return 0, err
			}
			return delta, nil
		}
		newQty := balance.Quantity + delta
		if newQty < 0 {
			return 0, &domain.InsufficientStockError{ItemID: itemID, OwnerID: ownerID, Shortfall: -newQty}
		}
		balance.Quantity = newQty
		balance.UpdatedAt = now
		if err := balanceRepo.Update(ctx, balance); err != nil {
			return 0, err
		}
		return newQty, nil
	}
	uc.log.Error().
		Str("owner_id", ownerID).
		Str("item_id", itemID).
		Msg("carrera de creación de saldo no resuelta tras reintentos")
	return 0, fmt.Errorf("%w: crear saldo %s/%s", domain.ErrConcurrencyExhausted, ownerID, itemID)
}

// lowStockAlert construye la alerta pendiente si el saldo quedó en o bajo el
// umbral; nil si no corresponde. Cálculo puro: la escritura ocurre en
// EmitAlert, después del commit de la mutación.
func (uc *LedgerUseCase) lowStockAlert(part *entity.Part, ownerID string, quantity int64, now time.Time) *entity.StockAlert {
	threshold := part.ReorderPoint
	if threshold <= 0 {
		threshold = uc.defaultThreshold
	}
	if quantity > threshold {
		return nil
	}
	return &entity.StockAlert{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		ItemID:    part.ID,
		Quantity:  quantity,
		CreatedAt: now,
	}
}

// EmitAlert emite una alerta pendiente sobre el repositorio atado al pool.
// Debe llamarse después del commit de la mutación que la generó: un INSERT
// fallido dentro de esa transacción la dejaría abortada (25P02) y el commit
// fallaría aunque el error se descarte. Canal lateral fire-and-forget: el
// fallo se registra y nunca se propaga. Acepta nil como no-op.
func (uc *LedgerUseCase) EmitAlert(ctx context.Context, alert *entity.StockAlert) {
	if alert == nil {
		return
	}
	if err := uc.alertRepo.CreateIfAbsent(ctx, alert); err != nil {
		uc.log.Warn().
			Err(err).
			Str("owner_id", alert.OwnerID).
			Str("item_id", alert.ItemID).
			Msg("no se pudo emitir alerta de stock bajo")
	}
}

func getPart(ctx context.Context, partRepo repository.PartRepository, itemID string) (*entity.Part, error) {
	part, err := partRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, fmt.Errorf("%w: pieza %s", domain.ErrNotFound, itemID)
	}
	return part, nil
}

func validatePair(ownerID, itemID string) error {
	if ownerID == "" {
		return &domain.ValidationError{Field: "ownerId", Reason: "requerido"}
	}
	if itemID == "" {
		return &domain.ValidationError{Field: "itemId", Reason: "requerido"}
	}
	return nil
}

func validateDecrement(in ConsumeInput) error {
	if err := validatePair(in.OwnerID, in.ItemID); err != nil {
		return err
	}
	if in.Quantity <= 0 {
		return &domain.ValidationError{Field: "quantity", Reason: "debe ser positiva"}
	}
	return nil
}
