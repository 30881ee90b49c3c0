package payment

type RequestPaymentURLRequest struct {
	CI    string `json:"ci" validate:"omitempty,max=20"`
	NIT   string `json:"nit" validate:"omitempty,max=20"`
	Email string `json:"email" validate:"omitempty,email"`
}

type PaymentURLResponse struct {
	AppointmentID int64  `json:"appointment_id"`
	TransactionID string `json:"transaction_id"`
	PaymentURL    string `json:"payment_url"`
	QRURL         string `json:"qr_url,omitempty"`
}

// CallbackPayload is the normalised gateway notification.
type CallbackPayload struct {
	TransactionID string
	ErrorCode     string
	Message       string
}

type CallbackResponse struct {
	Received bool   `json:"received"`
	Outcome  string `json:"outcome"`
}
