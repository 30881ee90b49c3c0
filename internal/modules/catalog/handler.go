package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"barberbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup) {
	shops := api.Group("/barbershops")
	{
		shops.GET("", h.ListBarbershops)
		shops.GET("/:id", h.GetBarbershop)
		shops.GET("/:id/barbers", h.ListBarbers)
	}
	api.GET("/barbers/profile/:userId", h.GetBarberProfile)
	api.GET("/services", h.ListServices)
	api.GET("/servicios", h.ListServices)
	api.GET("/styles/hairstyles", h.ListHairstyles)
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBarbershopNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Barbershop not found")
	case errors.Is(err, ErrBarberNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Barber not found")
	default:
		response.Internal(c, "CATALOG_ERROR", err)
	}
}

func (h *Handler) ListBarbershops(c *gin.Context) {
	shops, err := h.service.ListBarbershops(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, shops)
}

func (h *Handler) GetBarbershop(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	shop, err := h.service.GetBarbershop(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, shop)
}

func (h *Handler) ListBarbers(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	barbers, err := h.service.ListBarbers(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, barbers)
}

func (h *Handler) GetBarberProfile(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	barber, err := h.service.GetBarberProfile(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, barber)
}

// ListServices handles GET /api/services and /api/servicios with an
// optional barbershop_id filter.
func (h *Handler) ListServices(c *gin.Context) {
	var shopID int64
	if raw := c.Query("barbershop_id"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v <= 0 {
			response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid barbershop_id")
			return
		}
		shopID = v
	}

	services, err := h.service.ListServices(c.Request.Context(), shopID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, services)
}

func (h *Handler) ListHairstyles(c *gin.Context) {
	styles, err := h.service.ListHairstyles(c.Request.Context(), c.Query("tag"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, styles)
}
