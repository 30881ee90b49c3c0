package repository

import (
	"context"
	"strings"
	"time"

	"barberbook/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ServiceLine is one service of a cita as billed to the gateway.
type ServiceLine struct {
	ID    int64   `gorm:"column:id"`
	Name  string  `gorm:"column:nombre"`
	Price float64 `gorm:"column:precio"`
}

type AppointmentRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db, now: time.Now}
}

var forUpdate = clause.Locking{Strength: "UPDATE"}

func appointmentStatuses(in []domain.AppointmentStatus) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

func paymentStatuses(in []domain.PaymentStatus) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// CreateWithServices inserts the cita and one join row per service in a
// single transaction. The barber must be an active barber of the barbershop
// and every service an active service of it; otherwise nothing is written.
func (r *AppointmentRepository) CreateWithServices(ctx context.Context, a *domain.Appointment) error {
	ids := uniqueIDs(a.ServiceIDs)
	if len(ids) == 0 {
		return ErrInvalidService
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var barbers int64
		if err := tx.Model(&domain.Barber{}).
			Where("usuario_id = ? AND barberia_id = ? AND activo = ?", a.BarberID, a.BarbershopID, true).
			Count(&barbers).Error; err != nil {
			return err
		}
		if barbers == 0 {
			return ErrInvalidBarber
		}

		var services int64
		if err := tx.Model(&domain.Service{}).
			Where("id IN ? AND barberia_id = ? AND activo = ?", ids, a.BarbershopID, true).
			Count(&services).Error; err != nil {
			return err
		}
		if int(services) != len(ids) {
			return ErrInvalidService
		}

		a.Status = domain.AppointmentPending
		a.PaymentStatus = domain.PaymentPending
		if err := tx.Create(a).Error; err != nil {
			if isForeignKeyViolation(err) {
				return ErrNotFound
			}
			return err
		}

		rows := make([]domain.AppointmentService, 0, len(ids))
		for _, sid := range ids {
			rows = append(rows, domain.AppointmentService{AppointmentID: a.ID, ServiceID: sid})
		}
		if err := tx.Create(&rows).Error; err != nil {
			if isForeignKeyViolation(err) {
				return ErrInvalidService
			}
			return err
		}
		a.ServiceIDs = ids
		return nil
	})
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	var a domain.Appointment
	db := r.db.WithContext(ctx)
	if err := db.First(&a, id).Error; err != nil {
		return nil, notFound(err)
	}
	if err := db.Model(&domain.AppointmentService{}).
		Where("cita_id = ?", id).
		Order("servicio_id ASC").
		Pluck("servicio_id", &a.ServiceIDs).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ServiceLines returns the services booked on a cita, one unit each.
func (r *AppointmentRepository) ServiceLines(ctx context.Context, id int64) ([]ServiceLine, error) {
	var lines []ServiceLine
	err := r.db.WithContext(ctx).
		Table("cita_servicios cs").
		Select("s.id, s.nombre, s.precio").
		Joins("JOIN servicios s ON s.id = cs.servicio_id").
		Where("cs.cita_id = ?", id).
		Order("s.id ASC").
		Scan(&lines).Error
	return lines, err
}

// UpdateStatusForBarber moves a cita owned by barberID to target.
func (r *AppointmentRepository) UpdateStatusForBarber(ctx context.Context, id, barberID int64, target domain.AppointmentStatus) (*domain.Appointment, error) {
	return r.transition(ctx, id, target, func(a *domain.Appointment) bool {
		return a.BarberID == barberID
	})
}

// CancelForClient moves a cita owned by clientID to Cancelada_cliente.
func (r *AppointmentRepository) CancelForClient(ctx context.Context, id, clientID int64) (*domain.Appointment, error) {
	return r.transition(ctx, id, domain.AppointmentCancelledClient, func(a *domain.Appointment) bool {
		return a.ClientID == clientID
	})
}

// transition locks the row, checks ownership and the transition table, then
// applies an update guarded on the current status still being a legal source.
func (r *AppointmentRepository) transition(
	ctx context.Context,
	id int64,
	target domain.AppointmentStatus,
	owns func(*domain.Appointment) bool,
) (*domain.Appointment, error) {
	var out domain.Appointment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a domain.Appointment
		if err := tx.Clauses(forUpdate).First(&a, id).Error; err != nil {
			return notFound(err)
		}
		if !owns(&a) {
			return ErrNotOwner
		}
		if err := a.Status.ValidateTransition(target); err != nil {
			return err
		}

		now := r.now().UTC()
		res := tx.Model(&domain.Appointment{}).
			Where("id = ? AND estado_cita IN ?", id, appointmentStatuses(domain.AppointmentSourcesFor(target))).
			Updates(map[string]interface{}{
				"estado_cita": string(target),
				"updated_at":  now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}

		a.Status = target
		a.UpdatedAt = now
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmManualPayment marks a cita as paid by the barber who owns it. The
// update only applies while the payment is still Pendiente.
func (r *AppointmentRepository) ConfirmManualPayment(ctx context.Context, id, barberID int64, method string) (*domain.Appointment, error) {
	var out domain.Appointment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a domain.Appointment
		if err := tx.Clauses(forUpdate).First(&a, id).Error; err != nil {
			return notFound(err)
		}
		if a.BarberID != barberID {
			return ErrNotOwner
		}

		now := r.now().UTC()
		res := tx.Model(&domain.Appointment{}).
			Where("id = ? AND estado_pago = ?", id, string(domain.PaymentPending)).
			Updates(map[string]interface{}{
				"estado_pago":           string(domain.PaymentPaid),
				"metodo_pago":           method,
				"fecha_pago_confirmado": now,
				"updated_at":            now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}

		a.PaymentStatus = domain.PaymentPaid
		a.PaymentMethod = method
		a.PaymentConfirmedAt = &now
		a.UpdatedAt = now
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RecordPaymentRequest stores the gateway references of a new debt. A Fallido
// payment goes back to Pendiente.
func (r *AppointmentRepository) RecordPaymentRequest(ctx context.Context, id int64, transactionID, paymentURL, qrURL string) error {
	res := r.db.WithContext(ctx).Model(&domain.Appointment{}).
		Where("id = ? AND estado_cita = ? AND estado_pago IN ?",
			id,
			string(domain.AppointmentAccepted),
			[]string{string(domain.PaymentPending), string(domain.PaymentFailed)},
		).
		Updates(map[string]interface{}{
			"libelula_transaction_id": transactionID,
			"libelula_payment_url":    paymentURL,
			"libelula_qr_url":         qrURL,
			"estado_pago":             string(domain.PaymentPending),
			"updated_at":              r.now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// ApplyGatewayResult sets the payment status of the cita carrying the gateway
// transaction id. matched is false when no row was in a legal source state,
// which covers unknown ids and repeated callbacks.
func (r *AppointmentRepository) ApplyGatewayResult(ctx context.Context, transactionID string, target domain.PaymentStatus) (*domain.Appointment, bool, error) {
	var (
		out     domain.Appointment
		matched bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := r.now().UTC()
		updates := map[string]interface{}{
			"estado_pago": string(target),
			"updated_at":  now,
		}
		if target == domain.PaymentPaid {
			updates["fecha_pago_confirmado"] = now
		}

		res := tx.Model(&domain.Appointment{}).
			Where("libelula_transaction_id = ? AND estado_pago IN ?", transactionID, paymentStatuses(domain.PaymentSourcesFor(target))).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		matched = true
		return tx.Where("libelula_transaction_id = ?", transactionID).First(&out).Error
	})
	if err != nil {
		return nil, false, err
	}
	if !matched {
		return nil, false, nil
	}
	return &out, true, nil
}

func (r *AppointmentRepository) ListForClient(ctx context.Context, clientID int64, ascending bool) ([]domain.AppointmentView, error) {
	return r.list(ctx, "c.cliente_id", clientID, ascending)
}

func (r *AppointmentRepository) ListForBarber(ctx context.Context, barberID int64, ascending bool) ([]domain.AppointmentView, error) {
	return r.list(ctx, "c.barbero_id", barberID, ascending)
}

func (r *AppointmentRepository) list(ctx context.Context, column string, id int64, ascending bool) ([]domain.AppointmentView, error) {
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}

	db := r.db.WithContext(ctx)
	views := make([]domain.AppointmentView, 0)
	err := db.Table("citas c").
		Select("c.*, b.nombre AS barbershop_name, ub.nombre AS barber_name, uc.nombre AS client_name").
		Joins("JOIN barberias b ON b.id = c.barberia_id").
		Joins("JOIN usuarios ub ON ub.id = c.barbero_id").
		Joins("JOIN usuarios uc ON uc.id = c.cliente_id").
		Where(column+" = ?", id).
		Order("c.fecha " + dir + ", c.hora " + dir + ", c.id " + dir).
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return views, nil
	}

	ids := make([]int64, len(views))
	for i := range views {
		ids[i] = views[i].ID
	}

	var rows []struct {
		CitaID     int64  `gorm:"column:cita_id"`
		ServicioID int64  `gorm:"column:servicio_id"`
		Nombre     string `gorm:"column:nombre"`
	}
	if err := db.Table("cita_servicios cs").
		Select("cs.cita_id, cs.servicio_id, s.nombre").
		Joins("JOIN servicios s ON s.id = cs.servicio_id").
		Where("cs.cita_id IN ?", ids).
		Order("cs.cita_id ASC, s.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	names := make(map[int64][]string, len(views))
	serviceIDs := make(map[int64][]int64, len(views))
	for _, row := range rows {
		names[row.CitaID] = append(names[row.CitaID], row.Nombre)
		serviceIDs[row.CitaID] = append(serviceIDs[row.CitaID], row.ServicioID)
	}
	for i := range views {
		views[i].ServiceNames = strings.Join(names[views[i].ID], ", ")
		views[i].ServiceIDs = serviceIDs[views[i].ID]
	}
	return views, nil
}
