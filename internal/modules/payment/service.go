package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"barberbook/internal/domain"
	"barberbook/internal/pkg/metrics"
	"barberbook/internal/repository"

	"github.com/sirupsen/logrus"
)

const (
	currencyBOB  = "BOB"
	callbackPath = "/api/appointments/libelula-callback"
)

// Options carries the URLs and secret embedded in every debt.
type Options struct {
	PublicBaseURL string
	ReturnURL     string
	WebhookSecret string
}

type Service struct {
	appointments appointmentStore
	users        userReader
	gateway      Gateway
	notify       Notifier
	log          logrus.FieldLogger
	opts         Options
	now          func() time.Time
}

func NewService(
	appointments appointmentStore,
	users userReader,
	gateway Gateway,
	notify Notifier,
	log logrus.FieldLogger,
	opts Options,
) *Service {
	return &Service{
		appointments: appointments,
		users:        users,
		gateway:      gateway,
		notify:       notify,
		log:          log,
		opts:         opts,
		now:          time.Now,
	}
}

func (s *Service) callbackURL() string {
	u := strings.TrimRight(s.opts.PublicBaseURL, "/") + callbackPath
	if s.opts.WebhookSecret != "" {
		u += "?token=" + url.QueryEscape(s.opts.WebhookSecret)
	}
	return u
}

// splitName treats the last token as the surname. A single token fills both.
func splitName(full string) (name, surname string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], parts[0]
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

// RequestPaymentURL registers a debt for an accepted cita and stores the
// gateway references on it.
func (s *Service) RequestPaymentURL(ctx context.Context, id, callerID int64, req RequestPaymentURLRequest) (*PaymentURLResponse, error) {
	ci := strings.TrimSpace(req.CI)
	nit := strings.TrimSpace(req.NIT)
	if ci == "" && nit == "" {
		return nil, ErrIdentityRequired
	}

	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if a.ClientID != callerID {
		return nil, ErrForbidden
	}
	if a.Status != domain.AppointmentAccepted {
		return nil, ErrNotAccepted
	}
	if a.PaymentStatus == domain.PaymentPaid {
		return nil, ErrAlreadyPaid
	}

	// A pending debt is reused so callbacks for its QR still match the row.
	previous := ""
	if a.LibelulaTransactionID != nil {
		previous = *a.LibelulaTransactionID
	}
	if previous != "" && a.PaymentStatus == domain.PaymentPending && a.LibelulaPaymentURL != "" {
		s.log.WithFields(logrus.Fields{"appointment_id": a.ID, "transaction_id": previous}).
			Info("reusing pending payment url")
		return &PaymentURLResponse{
			AppointmentID: a.ID,
			TransactionID: previous,
			PaymentURL:    a.LibelulaPaymentURL,
			QRURL:         a.LibelulaQRURL,
		}, nil
	}

	client, err := s.users.GetByID(ctx, a.ClientID)
	if err != nil {
		return nil, fmt.Errorf("load client: %w", err)
	}
	lines, err := s.appointments.ServiceLines(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load services: %w", err)
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = client.Email
	}
	name, surname := splitName(client.Name)

	debt := DebtRequest{
		Email:           email,
		DebtID:          fmt.Sprintf("CITA-%d-%d", a.ID, s.now().UnixMilli()),
		Description:     fmt.Sprintf("Cita #%d %s %s", a.ID, a.Date, a.Time),
		CallbackURL:     s.callbackURL(),
		ReturnURL:       s.opts.ReturnURL,
		CustomerName:    name,
		CustomerSurname: surname,
		CI:              ci,
		NIT:             nit,
		Currency:        currencyBOB,
		Lines:           make([]DebtLine, 0, len(lines)),
	}
	if nit != "" {
		debt.BusinessName = strings.TrimSpace(client.Name)
	}
	for _, l := range lines {
		debt.Lines = append(debt.Lines, DebtLine{Concept: l.Name, Quantity: 1, UnitPrice: l.Price})
	}
	if len(debt.Lines) == 0 {
		debt.Lines = append(debt.Lines, DebtLine{Concept: debt.Description, Quantity: 1, UnitPrice: a.TotalAmount})
	}

	log := s.log.WithFields(logrus.Fields{"appointment_id": a.ID, "debt_id": debt.DebtID})
	if previous != "" {
		log.WithField("replaced_transaction_id", previous).Warn("replacing failed payment with a new debt")
	}

	result, err := s.gateway.RegisterDebt(ctx, debt)
	if err != nil {
		var gerr *GatewayError
		if errors.As(err, &gerr) {
			metrics.GatewayRequests.WithLabelValues("rejected").Inc()
		} else {
			metrics.GatewayRequests.WithLabelValues("error").Inc()
		}
		log.WithError(err).Error("libelula debt registration failed")
		return nil, err
	}
	metrics.GatewayRequests.WithLabelValues("ok").Inc()

	if err := s.appointments.RecordPaymentRequest(ctx, a.ID, result.TransactionID, result.PaymentURL, result.QRURL); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("store payment request: %w", err)
	}

	log.WithField("transaction_id", result.TransactionID).Info("payment url issued")
	return &PaymentURLResponse{
		AppointmentID: a.ID,
		TransactionID: result.TransactionID,
		PaymentURL:    result.PaymentURL,
		QRURL:         result.QRURL,
	}, nil
}

// HandleCallback applies a gateway notification. The returned outcome is one
// of paid, failed, ignored or error; none of them is surfaced to the gateway
// as a failure.
func (s *Service) HandleCallback(ctx context.Context, p CallbackPayload) string {
	target := domain.PaymentFailed
	if strings.TrimSpace(p.ErrorCode) == "0" {
		target = domain.PaymentPaid
	}

	log := s.log.WithFields(logrus.Fields{
		"transaction_id": p.TransactionID,
		"error_code":     p.ErrorCode,
		"message":        p.Message,
	})

	a, matched, err := s.appointments.ApplyGatewayResult(ctx, p.TransactionID, target)
	outcome := "ignored"
	switch {
	case err != nil:
		outcome = "error"
		log.WithError(err).Error("libelula callback could not be applied")
	case !matched:
		log.Warn("libelula callback matched no pending payment")
	default:
		outcome = "paid"
		if target == domain.PaymentFailed {
			outcome = "failed"
		}
		log.WithField("appointment_id", a.ID).Infof("libelula callback applied: %s", target)
		if s.notify != nil {
			s.notify.AppointmentChanged(a)
		}
	}

	metrics.PaymentCallbacks.WithLabelValues(outcome).Inc()
	return outcome
}
