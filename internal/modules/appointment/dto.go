package appointment

type CreateAppointmentRequest struct {
	ClientID     int64    `json:"client_id" validate:"required,gt=0"`
	BarbershopID int64    `json:"barbershop_id" validate:"required,gt=0"`
	BarberID     int64    `json:"barber_id" validate:"required,gt=0"`
	Date         string   `json:"date" validate:"required,ymd"`
	Time         string   `json:"time" validate:"required,hhmm"`
	ServiceIDs   []int64  `json:"service_ids" validate:"required,min=1,unique,dive,gt=0"`
	TotalAmount  *float64 `json:"total_amount" validate:"required,gte=0"`
	Notes        string   `json:"notes" validate:"max=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ConfirmPaymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,max=50"`
}
