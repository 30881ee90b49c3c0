package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"barberbook/internal/config"
	"barberbook/internal/database"
	"barberbook/internal/domain"
	"barberbook/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	t       *testing.T
	db      *gorm.DB
	router  *gin.Engine
	gateway *httptest.Server
	debts   atomic.Int32
	shop    domain.Barbershop
}

func newTestServer(t *testing.T, secret string) *testServer {
	t.Helper()

	db, err := database.Connect(":memory:", database.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrate(db))

	ts := &testServer{t: t, db: db}
	ts.gateway = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		n := ts.debts.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"error":0,"existe_error":false,"id_transaccion":"TX-%d","url_pasarela_pagos":"https://pay.example/TX-%d","qr_simple_url":"https://qr.example/TX-%d"}`, n, n, n)
	}))
	t.Cleanup(ts.gateway.Close)

	cfg := &config.Config{
		AppEnv:                "test",
		JWTSecret:             "test-secret",
		JWTTTL:                time.Hour,
		LibelulaAPIKey:        "app-key",
		LibelulaBaseURL:       ts.gateway.URL,
		LibelulaTimeout:       time.Second,
		LibelulaWebhookSecret: secret,
		PublicBaseURL:         "https://api.example.com",
		AppReturnURL:          "barberbook://payment-result",
	}
	ts.router = NewRouter(Deps{Config: cfg, DB: db, Log: logger.Discard()})

	ts.shop = domain.Barbershop{Name: "Central"}
	require.NoError(t, db.Create(&ts.shop).Error)
	require.NoError(t, db.Create(&domain.Service{ID: 3, BarbershopID: ts.shop.ID, Name: "Corte", Price: 25, Active: true}).Error)
	require.NoError(t, db.Create(&domain.Service{ID: 5, BarbershopID: ts.shop.ID, Name: "Barba", Price: 15, Active: true}).Error)
	return ts
}

func (ts *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	ts.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(ts.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w.Code, env
}

func (ts *testServer) register(body gin.H) (int64, string) {
	ts.t.Helper()
	code, env := ts.do(http.MethodPost, "/api/auth/register", "", body)
	require.Equal(ts.t, http.StatusCreated, code, env.Error.Message)

	var out struct {
		User  domain.User `json:"user"`
		Token string      `json:"token"`
	}
	require.NoError(ts.t, json.Unmarshal(env.Data, &out))
	return out.User.ID, out.Token
}

func (ts *testServer) appointment(id int64) domain.Appointment {
	ts.t.Helper()
	var a domain.Appointment
	require.NoError(ts.t, ts.db.First(&a, id).Error)
	return a
}

func TestEndToEnd_BookAcceptPay(t *testing.T) {
	ts := newTestServer(t, "")

	clientID, clientToken := ts.register(gin.H{
		"name": "Ana María Pérez", "email": "ana@example.com", "password": "secret1",
	})
	barberID, barberToken := ts.register(gin.H{
		"name": "Beto Barber", "email": "beto@example.com", "password": "secret1",
		"role": "barber", "barbershop_id": ts.shop.ID,
	})

	code, env := ts.do(http.MethodPost, "/api/appointments", clientToken, gin.H{
		"client_id":     clientID,
		"barbershop_id": ts.shop.ID,
		"barber_id":     barberID,
		"date":          "2025-06-01",
		"time":          "10:30",
		"service_ids":   []int64{3, 5},
		"total_amount":  40.00,
	})
	require.Equal(t, http.StatusCreated, code, env.Error.Message)

	var created domain.Appointment
	require.NoError(t, json.Unmarshal(env.Data, &created))
	stored := ts.appointment(created.ID)
	assert.Equal(t, 40.0, stored.TotalAmount)
	assert.Equal(t, domain.AppointmentPending, stored.Status)
	assert.Equal(t, domain.PaymentPending, stored.PaymentStatus)

	var joins int64
	require.NoError(t, ts.db.Model(&domain.AppointmentService{}).Where("cita_id = ?", created.ID).Count(&joins).Error)
	assert.Equal(t, int64(2), joins)

	citaPath := fmt.Sprintf("/api/appointments/%d", created.ID)

	code, _ = ts.do(http.MethodPost, citaPath+"/request-payment-url", clientToken, gin.H{"ci": "1234567"})
	assert.Equal(t, http.StatusBadRequest, code, "payment before acceptance")

	code, env = ts.do(http.MethodPut, citaPath+"/status", barberToken, gin.H{"status": "Aceptada"})
	require.Equal(t, http.StatusOK, code, env.Error.Message)
	assert.Equal(t, domain.AppointmentAccepted, ts.appointment(created.ID).Status)

	code, env = ts.do(http.MethodPost, citaPath+"/request-payment-url", clientToken, gin.H{"ci": "1234567"})
	require.Equal(t, http.StatusOK, code, env.Error.Message)

	code, env = ts.do(http.MethodPost, citaPath+"/request-payment-url", clientToken, gin.H{"ci": "1234567"})
	require.Equal(t, http.StatusOK, code, env.Error.Message)
	assert.Equal(t, int32(1), ts.debts.Load(), "pending debt is reused")

	var pay struct {
		TransactionID string `json:"transaction_id"`
		PaymentURL    string `json:"payment_url"`
		QRURL         string `json:"qr_url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &pay))
	assert.Equal(t, "TX-1", pay.TransactionID)
	assert.Equal(t, "https://pay.example/TX-1", pay.PaymentURL)
	assert.Equal(t, "https://qr.example/TX-1", pay.QRURL)
	stored = ts.appointment(created.ID)
	require.NotNil(t, stored.LibelulaTransactionID)
	assert.Equal(t, "TX-1", *stored.LibelulaTransactionID)

	code, _ = ts.do(http.MethodPost, "/api/appointments/libelula-callback", "", gin.H{"transaction_id": "TX-1", "error": "0"})
	require.Equal(t, http.StatusOK, code)

	paid := ts.appointment(created.ID)
	assert.Equal(t, domain.PaymentPaid, paid.PaymentStatus)
	require.NotNil(t, paid.PaymentConfirmedAt)

	code, _ = ts.do(http.MethodPost, "/api/appointments/libelula-callback", "", gin.H{"transaction_id": "TX-1", "error": "0"})
	assert.Equal(t, http.StatusOK, code)
	again := ts.appointment(created.ID)
	assert.Equal(t, paid.PaymentStatus, again.PaymentStatus)
	assert.True(t, paid.PaymentConfirmedAt.Equal(*again.PaymentConfirmedAt))
	assert.True(t, paid.UpdatedAt.Equal(again.UpdatedAt))

	code, _ = ts.do(http.MethodPost, citaPath+"/request-payment-url", clientToken, gin.H{"ci": "1234567"})
	assert.Equal(t, http.StatusBadRequest, code, "already paid")
	assert.Equal(t, int32(1), ts.debts.Load())

	code, env = ts.do(http.MethodGet, fmt.Sprintf("/api/appointments/user/%d", clientID), clientToken, nil)
	require.Equal(t, http.StatusOK, code)
	var views []domain.AppointmentView
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Corte, Barba", views[0].ServiceNames)
	assert.Equal(t, "Central", views[0].BarbershopName)
}

func TestEndToEnd_FailedThenPaid(t *testing.T) {
	ts := newTestServer(t, "hook-secret")

	clientID, clientToken := ts.register(gin.H{"name": "Ana", "email": "ana@example.com", "password": "secret1"})
	barberID, barberToken := ts.register(gin.H{
		"name": "Beto", "email": "beto@example.com", "password": "secret1",
		"role": "barber", "barbershop_id": ts.shop.ID,
	})

	code, env := ts.do(http.MethodPost, "/api/appointments", clientToken, gin.H{
		"client_id": clientID, "barbershop_id": ts.shop.ID, "barber_id": barberID,
		"date": "2025-06-02", "time": "09:00", "service_ids": []int64{3}, "total_amount": 25,
	})
	require.Equal(t, http.StatusCreated, code, env.Error.Message)
	var created domain.Appointment
	require.NoError(t, json.Unmarshal(env.Data, &created))
	citaPath := fmt.Sprintf("/api/appointments/%d", created.ID)

	code, _ = ts.do(http.MethodPut, citaPath+"/status", barberToken, gin.H{"status": "Aceptada"})
	require.Equal(t, http.StatusOK, code)
	code, _ = ts.do(http.MethodPost, citaPath+"/request-payment-url", clientToken, gin.H{"nit": "1020304"})
	require.Equal(t, http.StatusOK, code)

	code, env = ts.do(http.MethodGet, "/api/appointments/libelula-callback?transaction_id=TX-1&error=0", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "INVALID_CALLBACK_TOKEN", env.Error.Code)
	assert.Equal(t, domain.PaymentPending, ts.appointment(created.ID).PaymentStatus)

	code, _ = ts.do(http.MethodGet, "/api/appointments/libelula-callback?token=hook-secret&transaction_id=TX-1&error=7", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, domain.PaymentFailed, ts.appointment(created.ID).PaymentStatus)

	code, env = ts.do(http.MethodPost, citaPath+"/request-payment-url", clientToken, gin.H{"nit": "1020304"})
	require.Equal(t, http.StatusOK, code, env.Error.Message)
	retried := ts.appointment(created.ID)
	assert.Equal(t, domain.PaymentPending, retried.PaymentStatus)
	assert.Equal(t, "TX-2", *retried.LibelulaTransactionID)

	code, _ = ts.do(http.MethodGet, "/api/appointments/libelula-callback?token=hook-secret&id_transaccion=TX-2&codigo_error=0", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, domain.PaymentPaid, ts.appointment(created.ID).PaymentStatus)

	code, env = ts.do(http.MethodPut, citaPath+"/payment-status", barberToken, gin.H{"payment_method": "efectivo"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "PAYMENT_NOT_PENDING", env.Error.Code)
}

func TestRouter_AuthAndHealth(t *testing.T) {
	ts := newTestServer(t, "")

	code, env := ts.do(http.MethodGet, "/api/appointments/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "AUTH_HEADER_MISSING", env.Error.Code)

	code, _ = ts.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = ts.do(http.MethodGet, "/api/barbershops", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = ts.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "barberbook_http_requests_total")
}

func TestRouter_CallbackIsNeverThrottled(t *testing.T) {
	ts := newTestServer(t, "")

	codes := map[int]int{}
	for i := 0; i < 30; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/appointments/libelula-callback?transaction_id=TX-%d&error=0", i), nil)
		req.RemoteAddr = "203.0.113.7:4000"
		ts.router.ServeHTTP(w, req)
		codes[w.Code]++
	}

	assert.Equal(t, map[int]int{http.StatusOK: 30}, codes)
}

func TestRouter_LoginLimitIgnoresForwardedFor(t *testing.T) {
	ts := newTestServer(t, "")

	codes := map[int]int{}
	for i := 0; i < 40; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			bytes.NewBufferString(`{"email":"ana@example.com","password":"wrong-password"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))
		req.RemoteAddr = "203.0.113.7:4000"
		ts.router.ServeHTTP(w, req)
		codes[w.Code]++
	}

	assert.Positive(t, codes[http.StatusTooManyRequests])
}
