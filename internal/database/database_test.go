package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPing_Healthy(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing()

	assert.NoError(t, Ping(context.Background(), sqlDB))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing_Down(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	assert.Error(t, Ping(context.Background(), sqlDB))
}

func TestConnect_SQLiteAutoMigrate(t *testing.T) {
	db, err := Connect(":memory:", Options{})
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, AutoMigrate(db))

	for _, table := range []string{"usuarios", "barberias", "barberos", "servicios", "peinados", "citas", "cita_servicios"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasColumn("citas", "fecha_pago_confirmado"))
	assert.True(t, db.Migrator().HasColumn("citas", "libelula_transaction_id"))
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://u@h/db"))
	assert.True(t, IsPostgres("postgresql://u@h/db"))
	assert.False(t, IsPostgres("barberbook.db"))
}

func TestMigrate_RejectsSQLite(t *testing.T) {
	assert.Error(t, Migrate("barberbook.db", "up"))
}
