package repository

import (
	"context"

	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
)

// TechnicianRepository define el puerto de consulta del perfil de tarifas.
type TechnicianRepository interface {
	GetProfile(ctx context.Context, technicianID string) (*entity.TechnicianRateProfile, error)
}
