package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const registerDebtPath = "/rest/deuda/registrar"

var ErrGatewayNotConfigured = errors.New("libelula api key is not configured")

// GatewayError is a debt registration the gateway answered but refused.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("libelula rejected debt (status %d): %s", e.StatusCode, e.Message)
}

// DebtLine is one item of lineas_detalle_deuda.
type DebtLine struct {
	Concept   string  `json:"concepto"`
	Quantity  int     `json:"cantidad"`
	UnitPrice float64 `json:"costo_unitario"`
}

// DebtRequest is the body of POST /rest/deuda/registrar.
type DebtRequest struct {
	AppKey          string     `json:"appkey"`
	Email           string     `json:"email_cliente"`
	DebtID          string     `json:"identificador_deuda"`
	Description     string     `json:"descripcion"`
	CallbackURL     string     `json:"callback_url"`
	ReturnURL       string     `json:"url_retorno"`
	CustomerName    string     `json:"nombre_cliente"`
	CustomerSurname string     `json:"apellido_cliente"`
	CI              string     `json:"ci,omitempty"`
	NIT             string     `json:"nit,omitempty"`
	BusinessName    string     `json:"razon_social,omitempty"`
	Currency        string     `json:"moneda"`
	Lines           []DebtLine `json:"lineas_detalle_deuda"`
}

type DebtResult struct {
	TransactionID string
	PaymentURL    string
	QRURL         string
}

// LibelulaClient registers debts with the Libélula gateway. One request per
// call, no retries.
type LibelulaClient struct {
	baseURL string
	appKey  string
	http    *http.Client
}

func NewLibelulaClient(baseURL, appKey string, timeout time.Duration) *LibelulaClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &LibelulaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		appKey:  appKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *LibelulaClient) RegisterDebt(ctx context.Context, req DebtRequest) (*DebtResult, error) {
	if c.appKey == "" {
		return nil, ErrGatewayNotConfigured
	}
	req.AppKey = c.appKey

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode debt: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+registerDebtPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build debt request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("libelula request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read libelula response: %w", err)
	}
	return parseDebtResponse(resp.StatusCode, raw)
}

// parseDebtResponse accepts both the numeric and the boolean error flags the
// gateway has used ("error": 0, "existe_error": false).
func parseDebtResponse(status int, raw []byte) (*DebtResult, error) {
	if !gjson.ValidBytes(raw) {
		return nil, &GatewayError{StatusCode: status, Message: "invalid gateway response"}
	}
	doc := gjson.ParseBytes(raw)

	message := firstString(doc, "mensaje", "message", "error_message")
	failed := status >= http.StatusBadRequest || doc.Get("existe_error").Bool()
	if e := doc.Get("error"); e.Exists() {
		switch e.Type {
		case gjson.True:
			failed = true
		case gjson.Number:
			failed = failed || e.Int() != 0
		case gjson.String:
			failed = failed || (e.String() != "" && e.String() != "0")
		}
	}

	result := &DebtResult{
		TransactionID: firstString(doc, "id_transaccion", "transaction_id"),
		PaymentURL:    firstString(doc, "url_pasarela_pagos", "payment_url"),
		QRURL:         firstString(doc, "qr_simple_url", "qr_url"),
	}
	if !failed && (result.TransactionID == "" || result.PaymentURL == "") {
		failed = true
		if message == "" {
			message = "gateway response has no transaction"
		}
	}
	if failed {
		if message == "" {
			message = "payment gateway error"
		}
		return nil, &GatewayError{StatusCode: status, Message: message}
	}
	return result, nil
}

func firstString(doc gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := doc.Get(p); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
