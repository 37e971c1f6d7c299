package models

import (
	"time"

	"github.com/google/uuid"
)

// Device is a shell installation paired with this backend
type Device struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Platform     string     `json:"platform,omitempty" db:"platform"`
	UserAgent    string     `json:"-" db:"user_agent"`
	IPAddress    string     `json:"-" db:"ip_address"`
	VoiceEnabled bool       `json:"voice_enabled" db:"voice_enabled"`
	PairedAt     time.Time  `json:"paired_at" db:"paired_at"`
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty" db:"last_seen_at"`
	Revoked      bool       `json:"-" db:"revoked"`
}

// RefreshToken is a stored (hashed) refresh token for a paired device
type RefreshToken struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	DeviceID  uuid.UUID  `json:"device_id" db:"device_id"`
	TokenHash string     `json:"-" db:"token_hash"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	Revoked   bool       `json:"revoked" db:"revoked"`
	RevokedAt *time.Time `json:"revoked_at,omitempty" db:"revoked_at"`
}

// PairRequest is the body of POST /auth/pair
type PairRequest struct {
	DeviceName  string `json:"device_name" binding:"required"`
	PairingCode string `json:"pairing_code" binding:"required"`
	Platform    string `json:"platform,omitempty"`
}

// RefreshRequest is the body of POST /auth/refresh-token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse carries a fresh token pair after pairing or refresh
type AuthResponse struct {
	Device       *Device `json:"device,omitempty"`
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	ExpiresIn    int64   `json:"expires_in"` // access token lifetime in seconds
}
