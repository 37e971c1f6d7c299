package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/flickmobile/navigation-backend/internal/models"
	"github.com/google/uuid"
)

// ErrDeviceNotFound indicates no matching device row exists
var ErrDeviceNotFound = errors.New("device not found")

// DeviceRepository handles paired device database operations
type DeviceRepository struct {
	db DB
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(db DB) *DeviceRepository {
	return &DeviceRepository{
		db: db,
	}
}

// CreateDevice registers a newly paired device
func (r *DeviceRepository) CreateDevice(name, platform, userAgent, ipAddress string, voiceEnabled bool) (*models.Device, error) {
	device := &models.Device{}

	query := `
		INSERT INTO devices (id, name, platform, user_agent, ip_address, voice_enabled, paired_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, name, platform, user_agent, ip_address, voice_enabled,
		          paired_at, last_seen_at, revoked
	`

	err := r.db.Get(device, query, uuid.New(), name, platform, userAgent, ipAddress, voiceEnabled, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	return device, nil
}

// GetDeviceByID fetches a device by its ID
func (r *DeviceRepository) GetDeviceByID(id uuid.UUID) (*models.Device, error) {
	device := &models.Device{}

	query := `
		SELECT id, name, platform, user_agent, ip_address, voice_enabled,
		       paired_at, last_seen_at, revoked
		FROM devices
		WHERE id = $1
	`

	err := r.db.Get(device, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return device, nil
}

// ListDevices returns all non-revoked devices, most recently paired first
func (r *DeviceRepository) ListDevices() ([]*models.Device, error) {
	var devices []*models.Device

	query := `
		SELECT id, name, platform, user_agent, ip_address, voice_enabled,
		       paired_at, last_seen_at, revoked
		FROM devices
		WHERE revoked = FALSE
		ORDER BY paired_at DESC
	`

	err := r.db.Select(&devices, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	return devices, nil
}

// RevokeDevice marks a device as revoked
func (r *DeviceRepository) RevokeDevice(id uuid.UUID) error {
	query := `
		UPDATE devices
		SET revoked = TRUE
		WHERE id = $1 AND revoked = FALSE
	`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to revoke device: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrDeviceNotFound
	}

	return nil
}

// UpdateLastSeen stamps the device's last activity time
func (r *DeviceRepository) UpdateLastSeen(id uuid.UUID) error {
	query := `
		UPDATE devices
		SET last_seen_at = $1
		WHERE id = $2
	`

	_, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update last seen: %w", err)
	}

	return nil
}

// SetVoiceEnabled stores the device's default voice preference
func (r *DeviceRepository) SetVoiceEnabled(id uuid.UUID, enabled bool) error {
	query := `
		UPDATE devices
		SET voice_enabled = $1
		WHERE id = $2
	`

	result, err := r.db.Exec(query, enabled, id)
	if err != nil {
		return fmt.Errorf("failed to set voice preference: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrDeviceNotFound
	}

	return nil
}
