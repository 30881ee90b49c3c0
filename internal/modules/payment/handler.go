package payment

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"barberbook/internal/middleware"
	"barberbook/internal/pkg/response"
	"barberbook/internal/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.POST("/appointments/:citaId/request-payment-url", middleware.ClientOnly(), h.RequestPaymentURL)
}

// RegisterPublicRoutes mounts the gateway callback. guards run before the
// handler, typically the callback token check.
func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup, guards ...gin.HandlerFunc) {
	chain := append(append([]gin.HandlerFunc{}, guards...), h.Callback)
	api.POST("/appointments/libelula-callback", chain...)
	api.GET("/appointments/libelula-callback", chain...)
}

func (h *Handler) RequestPaymentURL(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("citaId"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid citaId")
		return
	}

	var req RequestPaymentURLRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request fields", errs)
		return
	}

	out, err := h.service.RequestPaymentURL(c.Request.Context(), id, middleware.UserID(c), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var gerr *GatewayError
	switch {
	case errors.Is(err, ErrIdentityRequired):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "ci or nit is required")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Appointment not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this appointment")
	case errors.Is(err, ErrNotAccepted):
		response.Error(c, http.StatusBadRequest, "APPOINTMENT_NOT_ACCEPTED", "Appointment must be accepted before payment")
	case errors.Is(err, ErrAlreadyPaid):
		response.Error(c, http.StatusBadRequest, "ALREADY_PAID", "Appointment is already paid")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "Appointment was modified by another request")
	case errors.As(err, &gerr):
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "PAYMENT_GATEWAY_ERROR", gerr.Message)
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "PAYMENT_GATEWAY_ERROR", "Could not create payment, try again later")
	}
}

// Callback handles the Libélula notification. Once a transaction id is
// present the gateway always gets 200.
func (h *Handler) Callback(c *gin.Context) {
	p := readCallback(c)
	if p.TransactionID == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", ErrTransactionID.Error())
		return
	}

	outcome := h.service.HandleCallback(c.Request.Context(), p)
	response.Success(c, http.StatusOK, CallbackResponse{Received: true, Outcome: outcome})
}

// readCallback looks for each field in the query string, then the form body,
// then a JSON body. Spanish aliases are accepted.
func readCallback(c *gin.Context) CallbackPayload {
	var raw []byte
	if c.Request.Body != nil && strings.Contains(c.ContentType(), "json") {
		raw, _ = io.ReadAll(io.LimitReader(c.Request.Body, 64<<10))
	}

	lookup := func(keys ...string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(c.Query(k)); v != "" {
				return v
			}
		}
		if raw == nil {
			for _, k := range keys {
				if v := strings.TrimSpace(c.PostForm(k)); v != "" {
					return v
				}
			}
			return ""
		}
		for _, k := range keys {
			if v := gjson.GetBytes(raw, k); v.Exists() && v.String() != "" {
				return strings.TrimSpace(v.String())
			}
		}
		return ""
	}

	return CallbackPayload{
		TransactionID: lookup("transaction_id", "id_transaccion"),
		ErrorCode:     lookup("error", "codigo_error"),
		Message:       lookup("message", "mensaje"),
	}
}
