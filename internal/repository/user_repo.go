package repository

import (
	"context"
	"strings"
	"time"

	"barberbook/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// CreateBarber stores the user and its barber extension row atomically.
func (r *UserRepository) CreateBarber(ctx context.Context, u *domain.User, b *domain.Barber) error {
	u.Email = normalizeEmail(u.Email)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var shops int64
		if err := tx.Model(&domain.Barbershop{}).Where("id = ?", b.BarbershopID).Count(&shops).Error; err != nil {
			return err
		}
		if shops == 0 {
			return ErrNotFound
		}

		if err := tx.Create(u).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateEmail
			}
			return err
		}
		b.UserID = u.ID
		return tx.Create(b).Error
	})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", normalizeEmail(email)).
		First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("LOWER(email) = ?", normalizeEmail(email)).
		Count(&n).Error
	return n > 0, err
}

// Update writes the mutable profile columns only.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"nombre":       u.Name,
		"telefono":     u.Phone,
		"avatar":       u.AvatarURL,
		"forma_rostro": u.FaceShape,
		"updated_at":   now,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	u.UpdatedAt = now
	return nil
}
