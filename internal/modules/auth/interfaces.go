package auth

import (
	"context"

	"barberbook/internal/domain"
)

// UserRepository is the part of the user store the auth service uses.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	CreateBarber(ctx context.Context, u *domain.User, b *domain.Barber) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u *domain.User) error
}

type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}
