package appointment

import (
	"context"

	"barberbook/internal/domain"
)

// AppointmentRepository defines the persistence operations on citas.
type AppointmentRepository interface {
	CreateWithServices(ctx context.Context, a *domain.Appointment) error
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateStatusForBarber(ctx context.Context, id, barberID int64, target domain.AppointmentStatus) (*domain.Appointment, error)
	CancelForClient(ctx context.Context, id, clientID int64) (*domain.Appointment, error)
	ConfirmManualPayment(ctx context.Context, id, barberID int64, method string) (*domain.Appointment, error)
	ListForClient(ctx context.Context, clientID int64, ascending bool) ([]domain.AppointmentView, error)
	ListForBarber(ctx context.Context, barberID int64, ascending bool) ([]domain.AppointmentView, error)
}

// Notifier receives every applied change of a cita.
type Notifier interface {
	AppointmentChanged(a *domain.Appointment)
}
