package repository

import (
	"database/sql"
	"go-content-api/logger"
	"go-content-api/model"
	"time"

	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for refresh token database operations.
type ITokenRepository interface {
	Create(token *model.RefreshToken) error
	GetByToken(token string) (*model.RefreshToken, error)
	GetActiveByUserAndDevice(userID int, deviceInfo string) (*model.RefreshToken, error)
	Revoke(id int) error
	RevokeAndSoftDelete(id int, at time.Time) error
	HardDeleteRevokedBefore(threshold time.Time) (int64, error)
}

// TokenRepository implements ITokenRepository.
type TokenRepository struct {
	DB *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

const tokenColumns = `id, user_id, token, expires_at, created_at, ip_address, device_info, is_revoked, deleted_at`

func scanToken(row *sql.Row) (*model.RefreshToken, error) {
	token := &model.RefreshToken{}
	err := row.Scan(&token.ID, &token.UserID, &token.Token, &token.ExpiresAt, &token.CreatedAt,
		&token.IPAddress, &token.DeviceInfo, &token.IsRevoked, &token.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return token, nil
}

// Create inserts a new refresh token record into the database.
func (r *TokenRepository) Create(token *model.RefreshToken) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":     token.UserID,
		"device_info": token.DeviceInfo,
		"expires_at":  token.ExpiresAt,
	})
	log.Info("Executing query to create a new refresh token")

	query := `INSERT INTO refresh_tokens (user_id, token, expires_at, ip_address, device_info)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.DB.QueryRow(query, token.UserID, token.Token, token.ExpiresAt,
		token.IPAddress, token.DeviceInfo).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create refresh token query")
		return err
	}
	return nil
}

// GetByToken retrieves a refresh token by its exact signed string.
// Returns (nil, nil) when no record matches.
func (r *TokenRepository) GetByToken(tokenString string) (*model.RefreshToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM refresh_tokens WHERE token = $1`
	return scanToken(r.DB.QueryRow(query, tokenString))
}

// GetActiveByUserAndDevice retrieves the single active (not revoked, not
// soft-deleted) token for a (user, device) pair, if any.
func (r *TokenRepository) GetActiveByUserAndDevice(userID int, deviceInfo string) (*model.RefreshToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM refresh_tokens
		WHERE user_id = $1 AND device_info = $2 AND is_revoked = FALSE AND deleted_at IS NULL`
	return scanToken(r.DB.QueryRow(query, userID, deviceInfo))
}

// Revoke marks a token as revoked. Revoking an already revoked token is
// a no-op, not an error.
func (r *TokenRepository) Revoke(id int) error {
	query := `UPDATE refresh_tokens SET is_revoked = TRUE WHERE id = $1`
	_, err := r.DB.Exec(query, id)
	if err != nil {
		logger.Log.WithError(err).WithField("token_id", id).Error("Failed to revoke refresh token")
	}
	return err
}

// RevokeAndSoftDelete revokes a token and stamps its soft-delete marker.
// Used when a device re-login displaces the previous token.
func (r *TokenRepository) RevokeAndSoftDelete(id int, at time.Time) error {
	query := `UPDATE refresh_tokens SET is_revoked = TRUE, deleted_at = $1 WHERE id = $2`
	_, err := r.DB.Exec(query, at, id)
	if err != nil {
		logger.Log.WithError(err).WithField("token_id", id).Error("Failed to revoke and soft delete refresh token")
	}
	return err
}

// HardDeleteRevokedBefore removes revoked or soft-deleted tokens past the
// retention window. Used only by the periodic cleanup job.
func (r *TokenRepository) HardDeleteRevokedBefore(threshold time.Time) (int64, error) {
	query := `DELETE FROM refresh_tokens
		WHERE (is_revoked = TRUE OR deleted_at IS NOT NULL) AND created_at <= $1`
	res, err := r.DB.Exec(query, threshold)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hard delete old refresh tokens")
		return 0, err
	}
	return res.RowsAffected()
}
