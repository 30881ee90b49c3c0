package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"barberbook/internal/domain"
	"barberbook/internal/pkg/metrics"
	"barberbook/internal/repository"

	"github.com/sirupsen/logrus"
)

type Service struct {
	repo   AppointmentRepository
	notify Notifier
	log    logrus.FieldLogger
}

func NewService(repo AppointmentRepository, notify Notifier, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, notify: notify, log: log}
}

// mapRepoError translates repository sentinels into module errors. Illegal
// transitions pass through unchanged.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrNotOwner):
		return ErrForbidden
	case errors.Is(err, repository.ErrConflict):
		return ErrConflict
	case errors.Is(err, repository.ErrInvalidService):
		return ErrInvalidService
	case errors.Is(err, repository.ErrInvalidBarber):
		return ErrInvalidBarber
	}
	return err
}

func (s *Service) changed(a *domain.Appointment) {
	if s.notify != nil {
		s.notify.AppointmentChanged(a)
	}
}

// Create books a cita for the calling client.
func (s *Service) Create(ctx context.Context, callerID int64, req CreateAppointmentRequest) (*domain.Appointment, error) {
	if req.ClientID != callerID {
		return nil, ErrForbidden
	}

	a := &domain.Appointment{
		ClientID:     req.ClientID,
		BarbershopID: req.BarbershopID,
		BarberID:     req.BarberID,
		Date:         req.Date,
		Time:         req.Time,
		TotalAmount:  *req.TotalAmount,
		ClientNotes:  strings.TrimSpace(req.Notes),
		ServiceIDs:   req.ServiceIDs,
	}
	if err := s.repo.CreateWithServices(ctx, a); err != nil {
		return nil, mapRepoError(err)
	}

	metrics.AppointmentsCreated.Inc()
	s.log.WithFields(logrus.Fields{
		"appointment_id": a.ID,
		"client_id":      a.ClientID,
		"barber_id":      a.BarberID,
		"services":       len(a.ServiceIDs),
	}).Info("appointment created")
	s.changed(a)
	return a, nil
}

// UpdateStatus applies a barber decision on one of the barber's citas.
func (s *Service) UpdateStatus(ctx context.Context, id, barberID int64, status string) (*domain.Appointment, error) {
	target := domain.AppointmentStatus(status)
	if !target.Valid() || !target.BarberSettable() {
		return nil, ErrInvalidStatus
	}

	a, err := s.repo.UpdateStatusForBarber(ctx, id, barberID, target)
	if err != nil {
		return nil, mapRepoError(err)
	}

	metrics.AppointmentTransitions.WithLabelValues(string(target)).Inc()
	s.log.WithFields(logrus.Fields{"appointment_id": id, "barber_id": barberID, "status": target}).Info("appointment status updated")
	s.changed(a)
	return a, nil
}

// Cancel lets the client withdraw a pending or accepted cita.
func (s *Service) Cancel(ctx context.Context, id, clientID int64) (*domain.Appointment, error) {
	a, err := s.repo.CancelForClient(ctx, id, clientID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	metrics.AppointmentTransitions.WithLabelValues(string(a.Status)).Inc()
	s.log.WithFields(logrus.Fields{"appointment_id": id, "client_id": clientID}).Info("appointment cancelled by client")
	s.changed(a)
	return a, nil
}

// Get returns a cita to its client or its barber.
func (s *Service) Get(ctx context.Context, id, callerID int64) (*domain.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if a.ClientID != callerID && a.BarberID != callerID {
		return nil, ErrForbidden
	}
	return a, nil
}

// parseOrder maps ?order= to ascending; empty keeps the view default.
func parseOrder(order string, defaultAscending bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "":
		return defaultAscending, nil
	case "asc":
		return true, nil
	case "desc":
		return false, nil
	}
	return false, fmt.Errorf("%w: order must be asc or desc", ErrValidation)
}

// ListForClient lists a client's citas, newest first unless order is given.
func (s *Service) ListForClient(ctx context.Context, callerID, clientID int64, order string) ([]domain.AppointmentView, error) {
	if callerID != clientID {
		return nil, ErrForbidden
	}
	asc, err := parseOrder(order, false)
	if err != nil {
		return nil, err
	}
	return s.repo.ListForClient(ctx, clientID, asc)
}

// ListForBarber lists a barber's agenda, oldest first unless order is given.
func (s *Service) ListForBarber(ctx context.Context, callerID, barberID int64, order string) ([]domain.AppointmentView, error) {
	if callerID != barberID {
		return nil, ErrForbidden
	}
	asc, err := parseOrder(order, true)
	if err != nil {
		return nil, err
	}
	return s.repo.ListForBarber(ctx, barberID, asc)
}

// ConfirmPayment records a payment the barber collected in person.
func (s *Service) ConfirmPayment(ctx context.Context, id, barberID int64, method string) (*domain.Appointment, error) {
	a, err := s.repo.ConfirmManualPayment(ctx, id, barberID, strings.TrimSpace(method))
	if err != nil {
		err = mapRepoError(err)
		outcome := "error"
		switch {
		case errors.Is(err, ErrConflict):
			outcome, err = "conflict", ErrAlreadyPaid
		case errors.Is(err, ErrForbidden):
			outcome = "forbidden"
		case errors.Is(err, ErrNotFound):
			outcome = "not_found"
		}
		metrics.ManualConfirmations.WithLabelValues(outcome).Inc()
		return nil, err
	}

	metrics.ManualConfirmations.WithLabelValues("paid").Inc()
	s.log.WithFields(logrus.Fields{"appointment_id": id, "barber_id": barberID, "method": a.PaymentMethod}).Info("manual payment confirmed")
	s.changed(a)
	return a, nil
}
