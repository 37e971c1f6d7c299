package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deviceRows(id uuid.UUID, name string, voiceEnabled bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "platform", "user_agent", "ip_address",
		"voice_enabled", "paired_at", "last_seen_at", "revoked",
	}).AddRow(id, name, "android", "FlickShell/1.0", "192.0.2.10", voiceEnabled, time.Now(), nil, false)
}

func TestCreateDevice(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDeviceRepository(db)

	deviceID := uuid.New()
	mock.ExpectQuery("INSERT INTO devices").
		WithArgs(sqlmock.AnyArg(), "kitchen-tablet", "android", "FlickShell/1.0", "192.0.2.10", true, sqlmock.AnyArg()).
		WillReturnRows(deviceRows(deviceID, "kitchen-tablet", true))

	device, err := repo.CreateDevice("kitchen-tablet", "android", "FlickShell/1.0", "192.0.2.10", true)

	require.NoError(t, err)
	assert.Equal(t, deviceID, device.ID)
	assert.Equal(t, "kitchen-tablet", device.Name)
	assert.True(t, device.VoiceEnabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDeviceByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDeviceRepository(db)

	deviceID := uuid.New()
	mock.ExpectQuery("SELECT id, name, platform").
		WithArgs(deviceID).
		WillReturnRows(deviceRows(deviceID, "kitchen-tablet", false))

	device, err := repo.GetDeviceByID(deviceID)

	require.NoError(t, err)
	assert.Equal(t, deviceID, device.ID)
	assert.False(t, device.VoiceEnabled)
}

func TestGetDeviceByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDeviceRepository(db)

	mock.ExpectQuery("SELECT id, name, platform").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetDeviceByID(uuid.New())

	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestRevokeDevice(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDeviceRepository(db)

	deviceID := uuid.New()
	mock.ExpectExec("UPDATE devices").
		WithArgs(deviceID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.RevokeDevice(deviceID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeDeviceNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDeviceRepository(db)

	mock.ExpectExec("UPDATE devices").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RevokeDevice(uuid.New())

	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestSetVoiceEnabled(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDeviceRepository(db)

	deviceID := uuid.New()
	mock.ExpectExec("UPDATE devices").
		WithArgs(false, deviceID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.SetVoiceEnabled(deviceID, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDevices(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDeviceRepository(db)

	rows := deviceRows(uuid.New(), "kitchen-tablet", true)
	mock.ExpectQuery("SELECT id, name, platform").
		WillReturnRows(rows)

	devices, err := repo.ListDevices()

	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "kitchen-tablet", devices[0].Name)
}
