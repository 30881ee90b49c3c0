package appointment

import (
	"errors"
	"net/http"
	"strconv"

	"barberbook/internal/domain"
	"barberbook/internal/middleware"
	"barberbook/internal/pkg/response"
	"barberbook/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/appointments")
	{
		g.POST("", h.Create)
		g.GET("/user/:userId", h.ListForClient)
		g.GET("/barber/:barberUserId", middleware.BarberOnly(), h.ListForBarber)
		g.GET("/:citaId", h.Get)
		g.PUT("/:citaId/status", middleware.BarberOnly(), h.UpdateStatus)
		g.PUT("/:citaId/cancel", h.Cancel)
		g.PUT("/:citaId/payment-status", middleware.BarberOnly(), h.ConfirmPayment)
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
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

func handleError(c *gin.Context, err error) {
	var terr *domain.TransitionError
	switch {
	case errors.As(err, &terr):
		response.ErrorWithDetails(c, http.StatusConflict, "ILLEGAL_TRANSITION", terr.Error(),
			gin.H{"from": terr.From, "to": terr.To})
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "Status must be one of Aceptada, Rechazada, Completada, Cancelada_Barbero")
	case errors.Is(err, ErrInvalidService):
		response.Error(c, http.StatusBadRequest, "INVALID_SERVICE", "Every service must be an active service of the barbershop")
	case errors.Is(err, ErrInvalidBarber):
		response.Error(c, http.StatusBadRequest, "INVALID_BARBER", "Barber does not work at this barbershop")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Appointment not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this appointment")
	case errors.Is(err, ErrAlreadyPaid):
		response.Error(c, http.StatusConflict, "PAYMENT_NOT_PENDING", "Payment was already settled")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "Appointment was modified by another request")
	default:
		response.Internal(c, "APPOINTMENT_ERROR", err)
	}
}

// Create handles POST /api/appointments.
func (h *Handler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	a, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, a)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c, "citaId")
	if !ok {
		return
	}
	a, err := h.service.Get(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

func (h *Handler) ListForClient(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	list, err := h.service.ListForClient(c.Request.Context(), middleware.UserID(c), userID, c.Query("order"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) ListForBarber(c *gin.Context) {
	barberID, ok := parseID(c, "barberUserId")
	if !ok {
		return
	}
	list, err := h.service.ListForBarber(c.Request.Context(), middleware.UserID(c), barberID, c.Query("order"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// UpdateStatus handles PUT /api/appointments/:citaId/status for barbers.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "citaId")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	a, err := h.service.UpdateStatus(c.Request.Context(), id, middleware.UserID(c), req.Status)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "citaId")
	if !ok {
		return
	}
	a, err := h.service.Cancel(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

// ConfirmPayment handles PUT /api/appointments/:citaId/payment-status.
func (h *Handler) ConfirmPayment(c *gin.Context) {
	id, ok := parseID(c, "citaId")
	if !ok {
		return
	}
	var req ConfirmPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	a, err := h.service.ConfirmPayment(c.Request.Context(), id, middleware.UserID(c), req.PaymentMethod)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}
