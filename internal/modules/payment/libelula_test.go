package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibelulaClient_RegisterDebt(t *testing.T) {
	var got DebtRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, registerDebtPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":0,"existe_error":false,"mensaje":"ok",
			"id_transaccion":"TX-1","url_pasarela_pagos":"https://pay/TX-1","qr_simple_url":"https://qr/TX-1"}`))
	}))
	defer srv.Close()

	client := NewLibelulaClient(srv.URL+"/", "app-key", time.Second)
	res, err := client.RegisterDebt(context.Background(), DebtRequest{
		DebtID:   "CITA-1-1",
		Currency: currencyBOB,
		Lines:    []DebtLine{{Concept: "Corte", Quantity: 1, UnitPrice: 25}},
	})

	require.NoError(t, err)
	assert.Equal(t, "TX-1", res.TransactionID)
	assert.Equal(t, "https://pay/TX-1", res.PaymentURL)
	assert.Equal(t, "https://qr/TX-1", res.QRURL)
	assert.Equal(t, "app-key", got.AppKey)
	assert.Equal(t, "CITA-1-1", got.DebtID)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 25.0, got.Lines[0].UnitPrice)
}

func TestLibelulaClient_RequiresAppKey(t *testing.T) {
	client := NewLibelulaClient("http://127.0.0.1:1", "", time.Second)

	_, err := client.RegisterDebt(context.Background(), DebtRequest{})
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)
}

func TestLibelulaClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewLibelulaClient(url, "k", time.Second).RegisterDebt(context.Background(), DebtRequest{})

	require.Error(t, err)
	var gerr *GatewayError
	assert.False(t, errors.As(err, &gerr))
}

func TestParseDebtResponse(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"boolean flag", 200, `{"existe_error":true,"mensaje":"appkey invalida"}`, "appkey invalida"},
		{"numeric error", 200, `{"error":1,"mensaje":"deuda duplicada"}`, "deuda duplicada"},
		{"string error", 200, `{"error":"E12","message":"bad ci"}`, "bad ci"},
		{"http status", 502, `{}`, "payment gateway error"},
		{"missing transaction", 200, `{"error":0}`, "gateway response has no transaction"},
		{"not json", 200, `<html>`, "invalid gateway response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseDebtResponse(tt.status, []byte(tt.body))

			var gerr *GatewayError
			require.True(t, errors.As(err, &gerr))
			assert.Equal(t, tt.wantMsg, gerr.Message)
		})
	}
}

func TestParseDebtResponse_EnglishKeys(t *testing.T) {
	res, err := parseDebtResponse(200, []byte(`{"error":"0","transaction_id":"T","payment_url":"u"}`))

	require.NoError(t, err)
	assert.Equal(t, "T", res.TransactionID)
	assert.Equal(t, "u", res.PaymentURL)
	assert.Empty(t, res.QRURL)
}
