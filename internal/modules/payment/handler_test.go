package payment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"barberbook/internal/domain"
	"barberbook/internal/middleware"
	"barberbook/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func callbackRouter(f *fixture, secret string) *gin.Engine {
	r := gin.New()
	api := r.Group("/api")
	NewHandler(f.svc).RegisterPublicRoutes(api, middleware.CallbackToken(secret, logger.Discard()))
	return r
}

func protectedRouter(f *fixture, userID int64, role domain.UserRole) *gin.Engine {
	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", string(role))
		c.Next()
	})
	NewHandler(f.svc).RegisterProtectedRoutes(api)
	return r
}

func TestCallback_SourcesAndAliases(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		target      string
		contentType string
		body        string
		wantTarget  domain.PaymentStatus
	}{
		{"query", http.MethodGet, "/api/appointments/libelula-callback?transaction_id=TX&error=0", "", "", domain.PaymentPaid},
		{"query aliases", http.MethodGet, "/api/appointments/libelula-callback?id_transaccion=TX&codigo_error=3", "", "", domain.PaymentFailed},
		{"form", http.MethodPost, "/api/appointments/libelula-callback", "application/x-www-form-urlencoded",
			url.Values{"id_transaccion": {"TX"}, "error": {"0"}, "mensaje": {"ok"}}.Encode(), domain.PaymentPaid},
		{"json numeric error", http.MethodPost, "/api/appointments/libelula-callback", "application/json",
			`{"transaction_id":"TX","error":0,"message":"ok"}`, domain.PaymentPaid},
		{"json alias", http.MethodPost, "/api/appointments/libelula-callback", "application/json",
			`{"id_transaccion":"TX","codigo_error":"99"}`, domain.PaymentFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(Options{})
			f.store.On("ApplyGatewayResult", mock.Anything, "TX", tt.wantTarget).Return(nil, false, nil)

			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			callbackRouter(f, "").ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			f.store.AssertExpectations(t)
		})
	}
}

func TestCallback_MissingTransactionID(t *testing.T) {
	f := newFixture(Options{})

	w := httptest.NewRecorder()
	callbackRouter(f, "").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/appointments/libelula-callback?error=0", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.store.AssertNotCalled(t, "ApplyGatewayResult", mock.Anything, mock.Anything, mock.Anything)
}

func TestCallback_TokenCheckedFirst(t *testing.T) {
	f := newFixture(Options{})
	r := callbackRouter(f, "s3cret")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/appointments/libelula-callback?token=wrong", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	f.store.On("ApplyGatewayResult", mock.Anything, "TX", domain.PaymentPaid).Return(nil, false, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/appointments/libelula-callback?token=s3cret&transaction_id=TX&error=0", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCallback_StoreErrorStillOK(t *testing.T) {
	f := newFixture(Options{})
	f.store.On("ApplyGatewayResult", mock.Anything, "TX", domain.PaymentPaid).Return(nil, false, assert.AnError)

	w := httptest.NewRecorder()
	callbackRouter(f, "").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/appointments/libelula-callback?transaction_id=TX&error=0", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data CallbackResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Data.Outcome)
}

func TestRequestPaymentURLHandler_Errors(t *testing.T) {
	t.Run("ci or nit required", func(t *testing.T) {
		f := newFixture(Options{})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/appointments/7/request-payment-url", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		protectedRouter(f, 1, domain.RoleClient).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("barbers cannot request", func(t *testing.T) {
		f := newFixture(Options{})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/appointments/7/request-payment-url", strings.NewReader(`{"ci":"1"}`))
		protectedRouter(f, 2, domain.RoleBarber).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("gateway message surfaces", func(t *testing.T) {
		f := newFixture(Options{})
		f.store.On("GetByID", mock.Anything, int64(7)).Return(acceptedAppointment(), nil)
		f.users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1, Name: "Ana"}, nil)
		f.store.On("ServiceLines", mock.Anything, int64(7)).Return(nil, nil)
		f.gateway.On("RegisterDebt", mock.Anything, mock.Anything).Return(nil, &GatewayError{Message: "appkey invalida"})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/appointments/7/request-payment-url", strings.NewReader(`{"ci":"1234567"}`))
		req.Header.Set("Content-Type", "application/json")
		protectedRouter(f, 1, domain.RoleClient).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "appkey invalida")
	})
}
