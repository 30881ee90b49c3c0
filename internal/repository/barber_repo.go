package repository

import (
	"context"

	"barberbook/internal/domain"

	"gorm.io/gorm"
)

type BarberRepository struct {
	db *gorm.DB
}

func NewBarberRepository(db *gorm.DB) *BarberRepository {
	return &BarberRepository{db: db}
}

// GetByUserID returns the barber extension row of a user, with the user.
func (r *BarberRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Barber, error) {
	var b domain.Barber
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("usuario_id = ?", userID).
		First(&b).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BarberRepository) ListByBarbershop(ctx context.Context, barbershopID int64) ([]domain.Barber, error) {
	var barbers []domain.Barber
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("barberia_id = ? AND activo = ?", barbershopID, true).
		Order("id ASC").
		Find(&barbers).Error
	return barbers, err
}
