package model

import "time"

// RefreshToken holds the data for a refresh token in the database.
// The signed token string itself is stored and looked up by exact match.
type RefreshToken struct {
	ID         int        `json:"id"`
	UserID     int        `json:"user_id"`
	Token      string     `json:"-"` // The token is not exposed in JSON responses.
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	IPAddress  string     `json:"ip_address"`
	DeviceInfo string     `json:"device_info"`
	IsRevoked  bool       `json:"is_revoked"`
	DeletedAt  *time.Time `json:"-"`
}

// Active reports whether the token is still usable for the per-device
// rotation check: not revoked and not soft-deleted.
func (t *RefreshToken) Active() bool {
	return !t.IsRevoked && t.DeletedAt == nil
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
