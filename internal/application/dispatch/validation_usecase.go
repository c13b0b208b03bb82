package dispatch

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/fieldservice-pro/internal/domain"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/repository"
	"github.com/tu-usuario/fieldservice-pro/pkg/logger"
)

// ValidationUseCase gobierna la máquina de estados de las líneas de despacho:
// Pending → Approved o Pending → Rejected (terminal). Solo líneas aprobadas,
// no pagadas y sin pago vinculado entran al saldo pagable del técnico.
type ValidationUseCase struct {
	lineRepo repository.DispatchLineRepository
	notifier Notifier
	log      *logger.Logger
}

// NewValidationUseCase construye el caso de uso.
func NewValidationUseCase(lineRepo repository.DispatchLineRepository, notifier Notifier, log *logger.Logger) *ValidationUseCase {
	return &ValidationUseCase{
		lineRepo: lineRepo,
		notifier: notifier,
		log:      log,
	}
}

// Approve marca la línea como elegible para agrupación de pago.
func (uc *ValidationUseCase) Approve(ctx context.Context, lineID, actor string) error {
	line, err := uc.pendingLine(ctx, lineID)
	if err != nil {
		return err
	}
	if err := uc.lineRepo.UpdateValidationState(ctx, line.ID, entity.ValidationStateApproved); err != nil {
		return err
	}
	uc.log.Info().
		Str("line_id", line.ID).
		Str("actor", actor).
		Msg("línea de despacho aprobada")
	return nil
}

// Reject elimina físicamente la línea y notifica al creador con el motivo.
// Decisión deliberada: conjunto activo limpio en vez de borrado lógico; la
// traza durable de lo ocurrido son los movimientos de inventario.
func (uc *ValidationUseCase) Reject(ctx context.Context, lineID, actor, reason string) error {
	if reason == "" {
		return &domain.ValidationError{Field: "reason", Reason: "el rechazo requiere motivo"}
	}
	line, err := uc.pendingLine(ctx, lineID)
	if err != nil {
		return err
	}
	if err := uc.lineRepo.Delete(ctx, line.ID); err != nil {
		return err
	}
	// Canal lateral: el fallo de la notificación no revierte el rechazo.
	if err := uc.notifier.NotifyRejection(ctx, line.CreatedBy, line.ID, reason); err != nil {
		uc.log.Warn().
			Err(err).
			Str("line_id", line.ID).
			Str("recipient", line.CreatedBy).
			Msg("no se pudo notificar el rechazo")
	}
	uc.log.Info().
		Str("line_id", line.ID).
		Str("actor", actor).
		Str("reason", reason).
		Msg("línea de despacho rechazada y eliminada")
	return nil
}

// PayableBalance suma el costo asignado de las líneas aprobadas, no pagadas
// y no vinculadas a un registro de pago.
func (uc *ValidationUseCase) PayableBalance(ctx context.Context, technicianID string) (decimal.Decimal, error) {
	if technicianID == "" {
		return decimal.Zero, &domain.ValidationError{Field: "technicianId", Reason: "requerido"}
	}
	return uc.lineRepo.SumPayableByTechnician(ctx, technicianID)
}

func (uc *ValidationUseCase) pendingLine(ctx context.Context, lineID string) (*entity.DispatchLine, error) {
	if lineID == "" {
		return nil, &domain.ValidationError{Field: "lineId", Reason: "requerido"}
	}
	line, err := uc.lineRepo.GetByID(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
	}
	if line.ValidationState != entity.ValidationStatePending {
		return nil, fmt.Errorf("%w: la línea %s está en estado %s", domain.ErrConflict, lineID, line.ValidationState)
	}
	return line, nil
}
