package domain

import (
	"errors"
	"fmt"
)

var ErrIllegalTransition = errors.New("illegal status transition")

// TransitionError carries the rejected move. It matches ErrIllegalTransition.
type TransitionError struct {
	Kind string
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s status cannot move from %s to %s", e.Kind, e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentPending: {
		AppointmentAccepted,
		AppointmentRejected,
		AppointmentCancelledBarber,
		AppointmentCancelledClient,
	},
	AppointmentAccepted: {
		AppointmentCompleted,
		AppointmentCancelledBarber,
		AppointmentCancelledClient,
	},
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentPaid, PaymentFailed},
	PaymentFailed:  {PaymentPending, PaymentPaid},
}

var allAppointmentStatuses = []AppointmentStatus{
	AppointmentPending,
	AppointmentAccepted,
	AppointmentRejected,
	AppointmentCompleted,
	AppointmentCancelledBarber,
	AppointmentCancelledClient,
}

var allPaymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid, PaymentFailed}

func (s AppointmentStatus) Valid() bool {
	for _, v := range allAppointmentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s AppointmentStatus) Terminal() bool {
	return len(appointmentTransitions[s]) == 0
}

// CanTransition reports whether an appointment may move from s to next.
func (s AppointmentStatus) CanTransition(next AppointmentStatus) bool {
	for _, v := range appointmentTransitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

func (s AppointmentStatus) ValidateTransition(next AppointmentStatus) error {
	if !s.CanTransition(next) {
		return &TransitionError{Kind: "appointment", From: string(s), To: string(next)}
	}
	return nil
}

// BarberSettable lists the targets a barber may request.
func (s AppointmentStatus) BarberSettable() bool {
	switch s {
	case AppointmentAccepted, AppointmentRejected, AppointmentCompleted, AppointmentCancelledBarber:
		return true
	}
	return false
}

// AppointmentSourcesFor returns every status that may legally move to target.
// Repositories use it as the guard of conditional updates.
func AppointmentSourcesFor(target AppointmentStatus) []AppointmentStatus {
	out := make([]AppointmentStatus, 0, 2)
	for _, from := range allAppointmentStatuses {
		if from.CanTransition(target) {
			out = append(out, from)
		}
	}
	return out
}

func (s PaymentStatus) Valid() bool {
	for _, v := range allPaymentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s PaymentStatus) Terminal() bool {
	return len(paymentTransitions[s]) == 0
}

func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	for _, v := range paymentTransitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

func (s PaymentStatus) ValidateTransition(next PaymentStatus) error {
	if !s.CanTransition(next) {
		return &TransitionError{Kind: "payment", From: string(s), To: string(next)}
	}
	return nil
}

func PaymentSourcesFor(target PaymentStatus) []PaymentStatus {
	out := make([]PaymentStatus, 0, 2)
	for _, from := range allPaymentStatuses {
		if from.CanTransition(target) {
			out = append(out, from)
		}
	}
	return out
}

func AllAppointmentStatuses() []AppointmentStatus {
	return append([]AppointmentStatus(nil), allAppointmentStatuses...)
}

func AllPaymentStatuses() []PaymentStatus {
	return append([]PaymentStatus(nil), allPaymentStatuses...)
}
