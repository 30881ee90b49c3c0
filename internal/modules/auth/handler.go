package auth

import (
	"errors"
	"net/http"
	"strconv"

	"barberbook/internal/middleware"
	"barberbook/internal/pkg/response"
	"barberbook/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts register and login; limited, when non-nil,
// throttles them.
func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup, limited ...gin.HandlerFunc) {
	authGroup := api.Group("/auth", limited...)
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	profile := protected.Group("/auth/profile")
	{
		profile.GET("/:id", h.GetProfile)
		profile.PUT("/:id", h.UpdateProfile)
	}
}

func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request fields", errs)
		return false
	}
	return true
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, token, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
		case errors.Is(err, ErrBarbershopRequired):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request fields",
				map[string]string{"barbershop_id": "required"})
		case errors.Is(err, ErrBarbershopNotFound):
			response.Error(c, http.StatusBadRequest, "BARBERSHOP_NOT_FOUND", "Barbershop does not exist")
		default:
			response.Internal(c, "REGISTRATION_FAILED", err)
		}
		return
	}

	response.Success(c, http.StatusCreated, AuthResponse{User: user, Token: token})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		response.Internal(c, "LOGIN_FAILED", err)
		return
	}

	response.Success(c, http.StatusOK, AuthResponse{User: user, Token: token})
}

// profileSubject parses :id and enforces that it is the caller.
func profileSubject(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user id")
		return 0, false
	}
	if id != middleware.UserID(c) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can only access your own profile")
		return 0, false
	}
	return id, true
}

func (h *Handler) GetProfile(c *gin.Context) {
	id, ok := profileSubject(c)
	if !ok {
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		response.Internal(c, "PROFILE_FAILED", err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	id, ok := profileSubject(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		response.Internal(c, "PROFILE_UPDATE_FAILED", err)
		return
	}
	response.Success(c, http.StatusOK, user)
}
