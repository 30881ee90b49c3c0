package catalog

import (
	"context"

	"barberbook/internal/domain"
)

type BarbershopRepository interface {
	List(ctx context.Context) ([]domain.Barbershop, error)
	GetByID(ctx context.Context, id int64) (*domain.Barbershop, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type BarberRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Barber, error)
	ListByBarbershop(ctx context.Context, barbershopID int64) ([]domain.Barber, error)
}

type ServiceRepository interface {
	List(ctx context.Context, barbershopID int64) ([]domain.Service, error)
}

type HairstyleRepository interface {
	List(ctx context.Context, tag string) ([]domain.Hairstyle, error)
}
