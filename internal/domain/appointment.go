package domain

import "time"

type AppointmentStatus string

const (
	AppointmentPending         AppointmentStatus = "Pendiente"
	AppointmentAccepted        AppointmentStatus = "Aceptada"
	AppointmentRejected        AppointmentStatus = "Rechazada"
	AppointmentCompleted       AppointmentStatus = "Completada"
	AppointmentCancelledBarber AppointmentStatus = "Cancelada_Barbero"
	AppointmentCancelledClient AppointmentStatus = "Cancelada_cliente"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pendiente"
	PaymentPaid    PaymentStatus = "Pagado"
	PaymentFailed  PaymentStatus = "Fallido"
)

// Appointment is a cita. Exactly one appointment status and one payment
// status at any time; both only move along the tables in transitions.go.
type Appointment struct {
	ID            int64             `json:"id" gorm:"column:id;primaryKey"`
	ClientID      int64             `json:"client_id" gorm:"column:cliente_id;index;not null"`
	BarbershopID  int64             `json:"barbershop_id" gorm:"column:barberia_id;index;not null"`
	BarberID      int64             `json:"barber_id" gorm:"column:barbero_id;index;not null"`
	Date          string            `json:"date" gorm:"column:fecha;size:10;not null"`
	Time          string            `json:"time" gorm:"column:hora;size:5;not null"`
	TotalAmount   float64           `json:"total_amount" gorm:"column:monto_total;not null"`
	Status        AppointmentStatus `json:"status" gorm:"column:estado_cita;size:30;not null"`
	PaymentStatus PaymentStatus     `json:"payment_status" gorm:"column:estado_pago;size:20;not null"`
	PaymentMethod string            `json:"payment_method,omitempty" gorm:"column:metodo_pago;size:50"`
	ClientNotes   string            `json:"notes,omitempty" gorm:"column:notas_cliente;type:text"`

	LibelulaTransactionID *string `json:"libelula_transaction_id,omitempty" gorm:"column:libelula_transaction_id;size:120;index"`
	LibelulaPaymentURL    string  `json:"libelula_payment_url,omitempty" gorm:"column:libelula_payment_url;type:text"`
	LibelulaQRURL         string  `json:"libelula_qr_url,omitempty" gorm:"column:libelula_qr_url;type:text"`

	PaymentConfirmedAt *time.Time `json:"payment_confirmed_at,omitempty" gorm:"column:fecha_pago_confirmado"`
	CreatedAt          time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt          time.Time  `json:"updated_at" gorm:"column:updated_at"`

	ServiceIDs []int64 `json:"service_ids,omitempty" gorm:"-"`
}

func (Appointment) TableName() string { return "citas" }

// AppointmentService is one row of the cita/servicio join, one unit per row.
type AppointmentService struct {
	AppointmentID int64 `gorm:"column:cita_id;primaryKey;autoIncrement:false"`
	ServiceID     int64 `gorm:"column:servicio_id;primaryKey;autoIncrement:false"`
}

func (AppointmentService) TableName() string { return "cita_servicios" }

// AppointmentView is the denormalised row returned by the listing endpoints.
type AppointmentView struct {
	Appointment
	BarbershopName string `json:"barbershop_name" gorm:"column:barbershop_name"`
	BarberName     string `json:"barber_name" gorm:"column:barber_name"`
	ClientName     string `json:"client_name" gorm:"column:client_name"`
	ServiceNames   string `json:"services" gorm:"-"`
}
