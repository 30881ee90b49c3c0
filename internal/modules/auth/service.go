package auth

import (
	"context"
	"errors"
	"strings"

	"barberbook/internal/domain"
	"barberbook/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Service contains the registration, login and profile logic.
type Service struct {
	users      UserRepository
	tokens     TokenIssuer
	log        logrus.FieldLogger
	bcryptCost int
}

func NewService(users UserRepository, tokens TokenIssuer, log logrus.FieldLogger) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		log:        log,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Register creates a client or barber account and returns it with a token.
// Barbers get their barberos row in the same transaction.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, string, error) {
	role := domain.UserRole(req.Role)
	if role == "" {
		role = domain.RoleClient
	}
	if role == domain.RoleBarber && req.BarbershopID <= 0 {
		return nil, "", ErrBarbershopRequired
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         role,
		Phone:        req.Phone,
		AvatarURL:    req.AvatarURL,
		FaceShape:    req.FaceShape,
	}

	if role == domain.RoleBarber {
		err = s.users.CreateBarber(ctx, user, &domain.Barber{
			BarbershopID: req.BarbershopID,
			Specialty:    req.Specialty,
			Description:  req.Description,
			Active:       true,
		})
	} else {
		err = s.users.Create(ctx, user)
	}
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return nil, "", ErrEmailAlreadyExists
	case errors.Is(err, repository.ErrNotFound):
		return nil, "", ErrBarbershopNotFound
	case err != nil:
		return nil, "", err
	}

	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user registered")
	return user, token, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.FaceShape != nil {
		user.FaceShape = *req.FaceShape
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
