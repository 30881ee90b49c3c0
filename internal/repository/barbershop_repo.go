package repository

import (
	"context"

	"barberbook/internal/domain"

	"gorm.io/gorm"
)

type BarbershopRepository struct {
	db *gorm.DB
}

func NewBarbershopRepository(db *gorm.DB) *BarbershopRepository {
	return &BarbershopRepository{db: db}
}

func (r *BarbershopRepository) List(ctx context.Context) ([]domain.Barbershop, error) {
	var shops []domain.Barbershop
	err := r.db.WithContext(ctx).Order("nombre ASC, id ASC").Find(&shops).Error
	return shops, err
}

// GetByID loads the barbershop with its active services and active barbers.
func (r *BarbershopRepository) GetByID(ctx context.Context, id int64) (*domain.Barbershop, error) {
	var shop domain.Barbershop
	err := r.db.WithContext(ctx).
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Where("activo = ?", true).Order("nombre ASC")
		}).
		Preload("Barbers", "activo = ?", true).
		Preload("Barbers.User").
		First(&shop, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &shop, nil
}

func (r *BarbershopRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Barbershop{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *BarbershopRepository) Create(ctx context.Context, shop *domain.Barbershop) error {
	return r.db.WithContext(ctx).Create(shop).Error
}
