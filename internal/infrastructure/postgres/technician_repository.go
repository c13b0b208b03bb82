package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/repository"
)

var _ repository.TechnicianRepository = (*TechnicianRepo)(nil)

// TechnicianRepo implementación del perfil de tarifas sobre PostgreSQL.
type TechnicianRepo struct {
	q Querier
}

// NewTechnicianRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTechnicianRepository(q Querier) *TechnicianRepo {
	return &TechnicianRepo{q: q}
}

// GetProfile obtiene el perfil de tarifas de un técnico; nil si no existe.
func (r *TechnicianRepo) GetProfile(ctx context.Context, technicianID string) (*entity.TechnicianRateProfile, error) {
	query := `
		SELECT technician_id, name, base_rate_per_visit, additional_visit_rate, overtime_hourly_rate
		FROM technician_rate_profiles WHERE technician_id = $1`
	var p entity.TechnicianRateProfile
	err := r.q.QueryRow(ctx, query, technicianID).Scan(
		&p.TechnicianID, &p.Name, &p.BaseRatePerVisit, &p.AdditionalVisitRate, &p.OvertimeHourlyRate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get technician rate profile: %w", err)
	}
	return &p, nil
}
