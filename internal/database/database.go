package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"barberbook/internal/domain"
)

type Options struct {
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	Log          logrus.FieldLogger
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Connect opens the pool. The caller owns the returned handle and must
// release it with Close.
func Connect(dsn string, opts Options) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	var (
		db  *gorm.DB
		err error
	)
	if IsPostgres(dsn) {
		if opts.Log != nil {
			opts.Log.Info("connecting to PostgreSQL")
		}
		db, err = gorm.Open(postgres.Open(dsn), gcfg)
	} else {
		if opts.Log != nil {
			opts.Log.WithField("dsn", dsn).Info("using SQLite for local development")
		}
		db, err = gorm.Open(
			gormsqlite.New(gormsqlite.Config{
				DriverName: "sqlite",
				DSN:        dsn,
			}),
			gcfg,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if !IsPostgres(dsn) {
		// One connection keeps an in-memory database alive and serialises
		// SQLite writers.
		sqlDB.SetMaxOpenConns(1)
	} else if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.MaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.MaxLifetime)
	}
	return db, nil
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Models lists every persisted type in dependency order.
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.Barbershop{},
		&domain.Barber{},
		&domain.Service{},
		&domain.Hairstyle{},
		&domain.Appointment{},
		&domain.AppointmentService{},
	}
}

// AutoMigrate creates the schema from the models. Postgres deployments use
// the SQL migrations in Migrate instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Ping checks the pool with a bounded timeout.
func Ping(ctx context.Context, sqlDB *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
