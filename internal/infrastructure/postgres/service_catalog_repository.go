package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/repository"
)

var _ repository.ServiceCatalogRepository = (*ServiceCatalogRepo)(nil)

// ServiceCatalogRepo implementación del catálogo de servicios sobre PostgreSQL.
type ServiceCatalogRepo struct {
	q Querier
}

// NewServiceCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceCatalogRepository(q Querier) *ServiceCatalogRepo {
	return &ServiceCatalogRepo{q: q}
}

// GetByID obtiene una entrada del catálogo; nil si no existe.
func (r *ServiceCatalogRepo) GetByID(ctx context.Context, id string) (*entity.ServiceCatalogEntry, error) {
	query := `
		SELECT id, code, name, base_revenue_rate, additional_revenue_rate,
		       base_cost_rate, additional_cost_rate, overtime_hourly_cost_rate,
		       franchise_hours, pay_technician, full_payment_regardless, is_return_exchange
		FROM service_catalog WHERE id = $1`
	var e entity.ServiceCatalogEntry
	err := r.q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Code, &e.Name, &e.BaseRevenueRate, &e.AdditionalRevenueRate,
		&e.BaseCostRate, &e.AdditionalCostRate, &e.OvertimeHourlyCostRate,
		&e.FranchiseHours, &e.PayTechnician, &e.FullPaymentRegardless, &e.IsReturnExchange,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service catalog entry: %w", err)
	}
	return &e, nil
}
