package repository

import (
	"context"

	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
)

// ServiceCatalogRepository define el puerto de consulta del catálogo de servicios.
type ServiceCatalogRepository interface {
	GetByID(ctx context.Context, id string) (*entity.ServiceCatalogEntry, error)
}
