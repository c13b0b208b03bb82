package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/fieldservice-pro/internal/domain"
	domdispatch "github.com/tu-usuario/fieldservice-pro/internal/domain/dispatch"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/repository"
)

var _ repository.DispatchLineRepository = (*DispatchLineRepo)(nil)

// DispatchLineRepo implementación sobre PostgreSQL (usable con pool o tx).
// Además de la ubicación original guarda location_norm, calculada con la
// única función de normalización del dominio, para que el conteo por clave
// de lote sea idéntico en todos los caminos de evaluación.
type DispatchLineRepo struct {
	q Querier
}

// NewDispatchLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDispatchLineRepository(q Querier) *DispatchLineRepo {
	return &DispatchLineRepo{q: q}
}

const lineColumns = `id, technician_id, service_date, location, location_norm, batch_id,
	lot_position_index, service_id, hours_worked, overtime_hours, assigned_cost,
	billed_revenue, part_id, part_supplier, part_cost, validation_state, paid,
	payment_id, created_at, created_by`

// Create persiste una línea de despacho.
func (r *DispatchLineRepo) Create(ctx context.Context, line *entity.DispatchLine) error {
	query := `
		INSERT INTO dispatch_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	partSupplier := (*string)(nil)
	if line.PartSupplier != "" {
		partSupplier = &line.PartSupplier
	}
	_, err := r.q.Exec(ctx, query,
		line.ID, line.TechnicianID, line.ServiceDate, line.Location,
		domdispatch.NormalizeLocation(line.Location), line.BatchID,
		line.LotPositionIndex, line.ServiceID, line.HoursWorked, line.OvertimeHours,
		line.AssignedCost, line.BilledRevenue, line.PartID, partSupplier,
		line.PartCost, line.ValidationState, line.Paid, line.PaymentID,
		line.CreatedAt, line.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create dispatch line: %w", err)
	}
	return nil
}

// GetByID obtiene una línea por ID; nil si no existe.
func (r *DispatchLineRepo) GetByID(ctx context.Context, id string) (*entity.DispatchLine, error) {
	query := `SELECT ` + lineColumns + ` FROM dispatch_lines WHERE id = $1`
	l, err := scanLine(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dispatch line: %w", err)
	}
	return l, nil
}

// CountOccupyingByLotKey cuenta las líneas persistidas bajo la clave de lote
// cuya entrada de catálogo ocupa cupo (no full_payment_regardless).
func (r *DispatchLineRepo) CountOccupyingByLotKey(ctx context.Context, key domdispatch.LotKey) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM dispatch_lines dl
		JOIN service_catalog sc ON sc.id = dl.service_id
		WHERE dl.service_date = $1::date
		  AND dl.location_norm = $2
		  AND dl.technician_id = $3
		  AND NOT sc.full_payment_regardless`
	var count int
	err := r.q.QueryRow(ctx, query, key.ServiceDate, key.Location, key.TechnicianID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count occupying by lot key: %w", err)
	}
	return count, nil
}

// ListByBatch lista las líneas de un lote de envío en orden de creación.
func (r *DispatchLineRepo) ListByBatch(ctx context.Context, batchID string) ([]*entity.DispatchLine, error) {
	query := `SELECT ` + lineColumns + ` FROM dispatch_lines WHERE batch_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("list dispatch lines by batch: %w", err)
	}
	defer rows.Close()
	var list []*entity.DispatchLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dispatch line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// UpdateValidationState cambia el estado de validación de la línea.
func (r *DispatchLineRepo) UpdateValidationState(ctx context.Context, id, state string) error {
	query := `UPDATE dispatch_lines SET validation_state = $2 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, state)
	if err != nil {
		return fmt.Errorf("update validation state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update validation state: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete elimina físicamente la línea (rechazo).
func (r *DispatchLineRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM dispatch_lines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dispatch line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete dispatch line: %w", domain.ErrNotFound)
	}
	return nil
}

// SumPayableByTechnician suma el costo asignado de líneas aprobadas, no
// pagadas y sin pago vinculado.
func (r *DispatchLineRepo) SumPayableByTechnician(ctx context.Context, technicianID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(assigned_cost), 0)
		FROM dispatch_lines
		WHERE technician_id = $1
		  AND validation_state = $2
		  AND NOT paid
		  AND payment_id IS NULL`
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, query, technicianID, entity.ValidationStateApproved).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum payable by technician: %w", err)
	}
	return sum, nil
}

func scanLine(row pgx.Row) (*entity.DispatchLine, error) {
	var l entity.DispatchLine
	var locationNorm string
	var partSupplier *string
	err := row.Scan(
		&l.ID, &l.TechnicianID, &l.ServiceDate, &l.Location, &locationNorm,
		&l.BatchID, &l.LotPositionIndex, &l.ServiceID, &l.HoursWorked,
		&l.OvertimeHours, &l.AssignedCost, &l.BilledRevenue, &l.PartID,
		&partSupplier, &l.PartCost, &l.ValidationState, &l.Paid, &l.PaymentID,
		&l.CreatedAt, &l.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	if partSupplier != nil {
		l.PartSupplier = *partSupplier
	}
	return &l, nil
}
