package catalog

import (
	"context"
	"errors"

	"barberbook/internal/domain"
	"barberbook/internal/repository"
)

// Service serves the read-only catalogue: barbershops, barbers, services
// and the hairstyle gallery.
type Service struct {
	shops      BarbershopRepository
	barbers    BarberRepository
	services   ServiceRepository
	hairstyles HairstyleRepository
}

func NewService(
	shops BarbershopRepository,
	barbers BarberRepository,
	services ServiceRepository,
	hairstyles HairstyleRepository,
) *Service {
	return &Service{
		shops:      shops,
		barbers:    barbers,
		services:   services,
		hairstyles: hairstyles,
	}
}

func (s *Service) ListBarbershops(ctx context.Context) ([]domain.Barbershop, error) {
	shops, err := s.shops.List(ctx)
	if err != nil {
		return nil, err
	}
	if shops == nil {
		shops = []domain.Barbershop{}
	}
	return shops, nil
}

func (s *Service) GetBarbershop(ctx context.Context, id int64) (*domain.Barbershop, error) {
	shop, err := s.shops.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBarbershopNotFound
	}
	return shop, err
}

func (s *Service) ListBarbers(ctx context.Context, barbershopID int64) ([]domain.Barber, error) {
	ok, err := s.shops.Exists(ctx, barbershopID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBarbershopNotFound
	}

	barbers, err := s.barbers.ListByBarbershop(ctx, barbershopID)
	if err != nil {
		return nil, err
	}
	if barbers == nil {
		barbers = []domain.Barber{}
	}
	return barbers, nil
}

func (s *Service) GetBarberProfile(ctx context.Context, userID int64) (*domain.Barber, error) {
	b, err := s.barbers.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBarberNotFound
	}
	return b, err
}

// ListServices returns active services; barbershopID 0 means all shops.
func (s *Service) ListServices(ctx context.Context, barbershopID int64) ([]domain.Service, error) {
	services, err := s.services.List(ctx, barbershopID)
	if err != nil {
		return nil, err
	}
	if services == nil {
		services = []domain.Service{}
	}
	return services, nil
}

func (s *Service) ListHairstyles(ctx context.Context, tag string) ([]domain.Hairstyle, error) {
	styles, err := s.hairstyles.List(ctx, tag)
	if err != nil {
		return nil, err
	}
	if styles == nil {
		styles = []domain.Hairstyle{}
	}
	return styles, nil
}
