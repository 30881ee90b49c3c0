package repository

import (
	"context"

	"barberbook/internal/domain"

	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// List returns active services, optionally limited to one barbershop.
func (r *ServiceRepository) List(ctx context.Context, barbershopID int64) ([]domain.Service, error) {
	q := r.db.WithContext(ctx).Where("activo = ?", true)
	if barbershopID > 0 {
		q = q.Where("barberia_id = ?", barbershopID)
	}

	var services []domain.Service
	err := q.Order("barberia_id ASC, nombre ASC").Find(&services).Error
	return services, err
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	return r.db.WithContext(ctx).Create(s).Error
}
