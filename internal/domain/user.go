package domain

import "time"

type UserRole string

const (
	RoleClient UserRole = "client"
	RoleBarber UserRole = "barber"
)

func (r UserRole) Valid() bool {
	return r == RoleClient || r == RoleBarber
}

type User struct {
	ID           int64     `json:"id" gorm:"column:id;primaryKey"`
	Name         string    `json:"name" gorm:"column:nombre;size:120;not null"`
	Email        string    `json:"email" gorm:"column:email;size:190;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	AvatarURL    string    `json:"avatar,omitempty" gorm:"column:avatar;type:text"`
	Role         UserRole  `json:"role" gorm:"column:rol;size:20;not null;default:'client'"`
	Phone        string    `json:"phone,omitempty" gorm:"column:telefono;size:40"`
	FaceShape    string    `json:"face_shape,omitempty" gorm:"column:forma_rostro;size:40"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string { return "usuarios" }
