package auth

import "barberbook/internal/domain"

type RegisterRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=120"`
	Email     string `json:"email" validate:"required,email,max=190"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	Role      string `json:"role" validate:"omitempty,oneof=client barber"`
	Phone     string `json:"phone" validate:"omitempty,max=40"`
	AvatarURL string `json:"avatar" validate:"omitempty,url"`
	FaceShape string `json:"face_shape" validate:"omitempty,max=40"`

	// Barber registration only.
	BarbershopID int64  `json:"barbershop_id" validate:"omitempty,gt=0"`
	Specialty    string `json:"specialty" validate:"omitempty,max=150"`
	Description  string `json:"description"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries the editable profile fields; nil leaves a
// field unchanged.
type UpdateProfileRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=120"`
	Phone     *string `json:"phone" validate:"omitempty,max=40"`
	AvatarURL *string `json:"avatar" validate:"omitempty,max=2048"`
	FaceShape *string `json:"face_shape" validate:"omitempty,max=40"`
}

type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}
