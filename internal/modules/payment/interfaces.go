package payment

import (
	"context"

	"barberbook/internal/domain"
	"barberbook/internal/repository"
)

type appointmentStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ServiceLines(ctx context.Context, id int64) ([]repository.ServiceLine, error)
	RecordPaymentRequest(ctx context.Context, id int64, transactionID, paymentURL, qrURL string) error
	ApplyGatewayResult(ctx context.Context, transactionID string, target domain.PaymentStatus) (*domain.Appointment, bool, error)
}

type userReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Gateway registers debts with the external payment provider.
type Gateway interface {
	RegisterDebt(ctx context.Context, req DebtRequest) (*DebtResult, error)
}

type Notifier interface {
	AppointmentChanged(a *domain.Appointment)
}
