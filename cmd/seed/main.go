package main

import (
	"fmt"
	"time"

	"barberbook/internal/config"
	"barberbook/internal/database"
	"barberbook/internal/domain"
	"barberbook/internal/pkg/logger"
	"barberbook/internal/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "text").WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.DatabaseURL, database.Options{Log: log})
	if err != nil {
		log.WithError(err).Fatal("DB connection failed")
	}
	defer database.Close(db)

	log.Info("Running AutoMigrate...")
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("AutoMigrate failed")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		// Cleanup old data in foreign key order
		log.Info("Cleaning old data...")
		for _, table := range []string{"cita_servicios", "citas", "peinados", "servicios", "barberos", "barberias", "usuarios"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clean %s: %w", table, err)
			}
		}
		return seed(tx, log)
	})
	if err != nil {
		log.WithError(err).Fatal("seed failed")
	}

	log.Info("Seed completed")
	log.Info("Test accounts:")
	log.Info("Clients: cliente1@barberbook.bo ... cliente3@barberbook.bo / client123")
	log.Info("Barbers: barbero1@barberbook.bo ... barbero4@barberbook.bo / barber123")
}

func hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(h), err
}

type infoLogger interface {
	Infof(format string, args ...interface{})
}

func seed(tx *gorm.DB, log infoLogger) error {
	// ================== BARBERSHOPS ==================
	shops := []domain.Barbershop{
		{Name: "Barbería Central", Address: "Av. 16 de Julio 1490, La Paz", OpeningTime: "09:00", ClosingTime: "20:00", WorkingDays: "Lunes a Sábado"},
		{Name: "El Bigote Clásico", Address: "Calle Sucre 245, Cochabamba", OpeningTime: "10:00", ClosingTime: "21:00", WorkingDays: "Martes a Domingo"},
	}
	if err := tx.Create(&shops).Error; err != nil {
		return fmt.Errorf("barbershops: %w", err)
	}
	log.Infof("Created %d barbershops", len(shops))

	// ================== SERVICES ==================
	services := []domain.Service{}
	for _, shop := range shops {
		services = append(services,
			domain.Service{BarbershopID: shop.ID, Name: "Corte clásico", Price: 25, EstimatedDuration: 30, Active: true},
			domain.Service{BarbershopID: shop.ID, Name: "Perfilado de barba", Price: 15, EstimatedDuration: 20, Active: true},
			domain.Service{BarbershopID: shop.ID, Name: "Corte + barba", Price: 35, EstimatedDuration: 45, Active: true},
			domain.Service{BarbershopID: shop.ID, Name: "Afeitado con navaja", Price: 20, EstimatedDuration: 25, Active: true},
		)
	}
	if err := tx.Create(&services).Error; err != nil {
		return fmt.Errorf("services: %w", err)
	}
	log.Infof("Created %d services", len(services))

	// ================== USERS ==================
	clientHash, err := hash("client123")
	if err != nil {
		return err
	}
	barberHash, err := hash("barber123")
	if err != nil {
		return err
	}

	clients := []domain.User{}
	for i, name := range []string{"Lucía Fernández", "Carlos Mamani", "Valeria Rojas"} {
		clients = append(clients, domain.User{
			Name:         name,
			Email:        fmt.Sprintf("cliente%d@barberbook.bo", i+1),
			PasswordHash: clientHash,
			Role:         domain.RoleClient,
			Phone:        fmt.Sprintf("+591 7000 00%02d", i+10),
			FaceShape:    []string{"ovalado", "cuadrado", "redondo"}[i],
		})
	}
	if err := tx.Create(&clients).Error; err != nil {
		return fmt.Errorf("clients: %w", err)
	}

	specialties := []string{"Fade y degradados", "Barba clásica", "Cortes modernos", "Afeitado tradicional"}
	for i, name := range []string{"Jorge Quispe", "Miguel Choque", "Andrés Vargas", "Diego Flores"} {
		u := domain.User{
			Name:         name,
			Email:        fmt.Sprintf("barbero%d@barberbook.bo", i+1),
			PasswordHash: barberHash,
			Role:         domain.RoleBarber,
		}
		if err := tx.Create(&u).Error; err != nil {
			return fmt.Errorf("barber user: %w", err)
		}
		b := domain.Barber{
			UserID:        u.ID,
			BarbershopID:  shops[i%len(shops)].ID,
			Specialty:     specialties[i],
			Description:   "Barbero profesional",
			AverageRating: 4.5,
			Active:        true,
		}
		if err := tx.Create(&b).Error; err != nil {
			return fmt.Errorf("barber: %w", err)
		}
	}
	log.Infof("Created %d clients and %d barbers", len(clients), len(specialties))

	// ================== HAIRSTYLES ==================
	hairstyles := []domain.Hairstyle{
		{Name: "Pompadour", Description: "Volumen arriba, laterales cortos", Tags: utils.TagsToString([]string{"ovalado", "cuadrado", "clasico"})},
		{Name: "Buzz cut", Description: "Corte al ras con máquina", Tags: utils.TagsToString([]string{"ovalado", "redondo"})},
		{Name: "Crop texturizado", Description: "Flequillo corto con textura", Tags: utils.TagsToString([]string{"redondo", "alargado", "moderno"})},
		{Name: "Undercut", Description: "Laterales rapados y parte superior larga", Tags: utils.TagsToString([]string{"cuadrado", "moderno"})},
	}
	if err := tx.Create(&hairstyles).Error; err != nil {
		return fmt.Errorf("hairstyles: %w", err)
	}
	log.Infof("Created %d hairstyles", len(hairstyles))

	// ================== DEMO APPOINTMENTS ==================
	var barbers []domain.Barber
	if err := tx.Order("id ASC").Find(&barbers).Error; err != nil {
		return err
	}
	demo := []struct {
		days    int
		hour    string
		status  domain.AppointmentStatus
		payment domain.PaymentStatus
	}{
		{-7, "10:00", domain.AppointmentCompleted, domain.PaymentPaid},
		{-2, "15:30", domain.AppointmentCancelledClient, domain.PaymentPending},
		{1, "11:00", domain.AppointmentAccepted, domain.PaymentPending},
		{3, "17:00", domain.AppointmentPending, domain.PaymentPending},
	}
	for i, d := range demo {
		barber := barbers[i%len(barbers)]
		var shopServices []domain.Service
		if err := tx.Where("barberia_id = ?", barber.BarbershopID).Order("id ASC").Limit(2).Find(&shopServices).Error; err != nil {
			return err
		}

		a := domain.Appointment{
			ClientID:      clients[i%len(clients)].ID,
			BarbershopID:  barber.BarbershopID,
			BarberID:      barber.UserID,
			Date:          time.Now().AddDate(0, 0, d.days).Format("2006-01-02"),
			Time:          d.hour,
			Status:        d.status,
			PaymentStatus: d.payment,
			ClientNotes:   "Cita de demostración",
		}
		for _, s := range shopServices {
			a.TotalAmount += s.Price
		}
		if d.payment == domain.PaymentPaid {
			now := time.Now().UTC()
			a.PaymentMethod = "efectivo"
			a.PaymentConfirmedAt = &now
		}
		if err := tx.Create(&a).Error; err != nil {
			return fmt.Errorf("appointment: %w", err)
		}
		for _, s := range shopServices {
			if err := tx.Create(&domain.AppointmentService{AppointmentID: a.ID, ServiceID: s.ID}).Error; err != nil {
				return fmt.Errorf("appointment service: %w", err)
			}
		}
	}
	log.Infof("Created %d demo appointments", len(demo))
	return nil
}
