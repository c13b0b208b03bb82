package dispatch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/fieldservice-pro/internal/domain"
	domdispatch "github.com/tu-usuario/fieldservice-pro/internal/domain/dispatch"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/money"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/repository"
	"github.com/tu-usuario/fieldservice-pro/pkg/logger"
)

// BatchHeader datos logísticos compartidos por todas las líneas de un envío.
type BatchHeader struct {
	TechnicianID string
	ServiceDate  time.Time
	Location     string
	StartTime    string // HH:MM, opcional
	EndTime      string // HH:MM, opcional
}

// LineInput una línea de servicio del envío, en el orden recibido.
type LineInput struct {
	ServiceID    string
	PartID       *string
	PartSupplier string // requerido si PartID viene
	Notes        string
}

// BatchUseCase convierte un envío de líneas de servicio en líneas de despacho
// persistidas con costo e ingreso calculados, consumiendo inventario cuando
// la pieza es de la empresa. Todo el envío compromete en una transacción o nada.
type BatchUseCase struct {
	txRunner       TxRunner
	inventoryUC    InventoryUseCase
	technicianRepo repository.TechnicianRepository
	catalogRepo    repository.ServiceCatalogRepository
	partRepo       repository.PartRepository
	log            *logger.Logger
}

// NewBatchUseCase construye el motor de lotes.
func NewBatchUseCase(
	txRunner TxRunner,
	inventoryUC InventoryUseCase,
	technicianRepo repository.TechnicianRepository,
	catalogRepo repository.ServiceCatalogRepository,
	partRepo repository.PartRepository,
	log *logger.Logger,
) *BatchUseCase {
	return &BatchUseCase{
		txRunner:       txRunner,
		inventoryUC:    inventoryUC,
		technicianRepo: technicianRepo,
		catalogRepo:    catalogRepo,
		partRepo:       partRepo,
		log:            log,
	}
}

// consumptionRequest consumo pendiente de una línea con pieza de la empresa.
type consumptionRequest struct {
	itemID string
	lineID string
}

// CreateBatch valida el envío, calcula horas y sobretiempo una vez por lote,
// atribuye costo/ingreso por línea según la posición en el lote y persiste
// todo en una sola transacción. Cualquier fallo de validación o de stock
// revierte el lote completo: lotes parciales nunca son observables.
func (uc *BatchUseCase) CreateBatch(ctx context.Context, actor string, header BatchHeader, lines []LineInput) ([]*entity.DispatchLine, error) {
	if err := validateHeader(header); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, &domain.ValidationError{Field: "lines", Reason: "el envío no tiene líneas"}
	}

	// Perfil de tarifas del técnico
	profile, err := uc.technicianRepo.GetProfile(ctx, header.TechnicianID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: técnico %s", domain.ErrNotFound, header.TechnicianID)
	}

	// Catálogo y piezas por línea (fuera de la tx, solo lectura)
	catalogByID := make(map[string]*entity.ServiceCatalogEntry)
	partsByID := make(map[string]*entity.Part)
	for i := range lines {
		line := &lines[i]
		if line.ServiceID == "" {
			return nil, &domain.ValidationError{Field: "serviceId", Reason: fmt.Sprintf("requerido (línea %d)", i)}
		}
		if _, ok := catalogByID[line.ServiceID]; !ok {
			cat, err := uc.catalogRepo.GetByID(ctx, line.ServiceID)
			if err != nil {
				return nil, err
			}
			if cat == nil {
				return nil, fmt.Errorf("%w: servicio %s", domain.ErrNotFound, line.ServiceID)
			}
			catalogByID[line.ServiceID] = cat
		}
		if line.PartID != nil {
			switch line.PartSupplier {
			case entity.PartSupplierCompany, entity.PartSupplierTechnician, entity.PartSupplierClient:
			default:
				return nil, &domain.ValidationError{Field: "partSupplier", Reason: fmt.Sprintf("valor desconocido %q (línea %d)", line.PartSupplier, i)}
			}
			if _, ok := partsByID[*line.PartID]; !ok {
				part, err := uc.partRepo.GetByID(ctx, *line.PartID)
				if err != nil {
					return nil, err
				}
				if part == nil {
					return nil, fmt.Errorf("%w: pieza %s", domain.ErrNotFound, *line.PartID)
				}
				partsByID[*line.PartID] = part
			}
		} else if line.PartSupplier != "" {
			return nil, &domain.ValidationError{Field: "partSupplier", Reason: fmt.Sprintf("sin pieza referenciada (línea %d)", i)}
		}
	}

	// Horas y sobretiempo: una vez por lote. La franquicia la define el
	// catálogo de la primera línea (todas comparten la misma visita).
	hoursWorked, err := domdispatch.ComputeHours(header.StartTime, header.EndTime)
	if err != nil {
		return nil, err
	}
	franchise := catalogByID[lines[0].ServiceID].FranchiseHours
	overtimeHours := domdispatch.OvertimeHours(hoursWorked, franchise)
	overtimePay := overtimeHours.Mul(profile.OvertimeHourlyRate).Round(2)

	now := time.Now()
	batchID := uuid.New().String()
	key := domdispatch.LotKeyFor(header.ServiceDate, header.Location, header.TechnicianID)

	var created []*entity.DispatchLine
	var pendingAlerts []*entity.StockAlert
	err = uc.txRunner.RunDispatch(ctx, func(
		lineRepo repository.DispatchLineRepository,
		balanceRepo repository.StockBalanceRepository,
		movRepo repository.StockMovementRepository,
		partRepo repository.PartRepository,
	) error {
		// Posición de lote: hermanas ya persistidas bajo la misma clave
		// (independiente del lote de envío) que ocupan cupo, más las
		// ocupantes anteriores de este mismo envío.
		occupied, err := lineRepo.CountOccupyingByLotKey(ctx, key)
		if err != nil {
			return err
		}

		var consumptions []consumptionRequest
		for i := range lines {
			in := &lines[i]
			catalog := catalogByID[in.ServiceID]
			occupies := domdispatch.Occupies(catalog)
			slotZero := occupies && occupied == 0

			cost := domdispatch.AssignCost(catalog, profile, slotZero, overtimePay).Round(2)
			partPrice := decimal.Zero
			partCost := decimal.Zero
			if in.PartID != nil {
				part := partsByID[*in.PartID]
				partPrice = part.UnitPrice
				partCost = part.UnitCost
			}
			revenue := domdispatch.BillRevenue(catalog, slotZero, in.PartSupplier, partPrice).Round(2)
			if err := money.CheckRoundTrip(cost); err != nil {
				return err
			}
			if err := money.CheckRoundTrip(revenue); err != nil {
				return err
			}

			lineOvertime := decimal.Zero
			if slotZero {
				lineOvertime = overtimeHours
			}
			line := &entity.DispatchLine{
				ID:               uuid.New().String(),
				TechnicianID:     header.TechnicianID,
				ServiceDate:      header.ServiceDate,
				Location:         header.Location,
				BatchID:          batchID,
				LotPositionIndex: occupied,
				ServiceID:        in.ServiceID,
				HoursWorked:      hoursWorked,
				OvertimeHours:    lineOvertime,
				AssignedCost:     cost,
				BilledRevenue:    revenue,
				PartID:           in.PartID,
				PartSupplier:     in.PartSupplier,
				PartCost:         partCost,
				ValidationState:  entity.ValidationStatePending,
				CreatedAt:        now,
				CreatedBy:        actor,
			}
			if err := lineRepo.Create(ctx, line); err != nil {
				return err
			}
			created = append(created, line)

			if occupies {
				occupied++
			}
			if in.PartID != nil && in.PartSupplier == entity.PartSupplierCompany {
				consumptions = append(consumptions, consumptionRequest{itemID: *in.PartID, lineID: line.ID})
			}
		}

		// Consumos en orden de pieza para acotar riesgo de deadlock cuando el
		// envío toca varios pares (técnico, pieza).
		sort.Slice(consumptions, func(i, j int) bool { return consumptions[i].itemID < consumptions[j].itemID })
		for _, c := range consumptions {
			lineID := c.lineID
			alert, err := uc.inventoryUC.ConsumeInTx(
				ctx, balanceRepo, movRepo, partRepo,
				header.TechnicianID, c.itemID, 1,
				actor, "consumo de servicio", &lineID, now,
			)
			if err != nil {
				return err
			}
			if alert != nil {
				pendingAlerts = append(pendingAlerts, alert)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Alertas de stock bajo tras el commit: si el lote revierte, no se emiten.
	for _, alert := range pendingAlerts {
		uc.inventoryUC.EmitAlert(ctx, alert)
	}
	uc.log.Info().
		Str("batch_id", batchID).
		Str("technician_id", header.TechnicianID).
		Int("lines", len(created)).
		Msg("lote de despacho creado")
	return created, nil
}

// CreateSingle evalúa una línea individual en tiempo real (camino de
// aprobación de registro único). Delegar en CreateBatch con un envío de una
// línea garantiza por construcción que ambos caminos consultan la misma
// clave de lote y el mismo conteo de hermanas.
func (uc *BatchUseCase) CreateSingle(ctx context.Context, actor string, header BatchHeader, line LineInput) (*entity.DispatchLine, error) {
	lines, err := uc.CreateBatch(ctx, actor, header, []LineInput{line})
	if err != nil {
		return nil, err
	}
	return lines[0], nil
}

func validateHeader(header BatchHeader) error {
	if header.TechnicianID == "" {
		return &domain.ValidationError{Field: "technicianId", Reason: "requerido"}
	}
	if header.ServiceDate.IsZero() {
		return &domain.ValidationError{Field: "serviceDate", Reason: "requerida"}
	}
	if header.Location == "" {
		return &domain.ValidationError{Field: "location", Reason: "requerida"}
	}
	if (header.StartTime == "") != (header.EndTime == "") {
		return &domain.ValidationError{Field: "startTime", Reason: "inicio y fin deben venir juntos o ninguno"}
	}
	return nil
}
