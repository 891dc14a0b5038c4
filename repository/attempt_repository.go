package repository

import (
	"database/sql"
	"go-content-api/logger"
	"go-content-api/model"

	"github.com/sirupsen/logrus"
)

// IAttemptRepository defines the contract for the append-only login
// attempt audit log.
type IAttemptRepository interface {
	Record(userID int, ip string, successful bool) error
	RecentFailures(userID int, ip string, limit int) ([]*model.LoginAttempt, error)
}

// AttemptRepository implements IAttemptRepository.
type AttemptRepository struct {
	DB *sql.DB
}

func NewAttemptRepository(db *sql.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// Record appends one immutable attempt row.
func (r *AttemptRepository) Record(userID int, ip string, successful bool) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    userID,
		"ip":         ip,
		"successful": successful,
	})
	log.Info("Executing query to record a login attempt")

	query := `INSERT INTO login_attempts (user_id, ip, successful) VALUES ($1, $2, $3)`
	_, err := r.DB.Exec(query, userID, ip, successful)
	if err != nil {
		log.WithError(err).Error("Failed to execute record login attempt query")
		return err
	}
	return nil
}

// RecentFailures returns up to limit failed attempts for a (user, ip)
// pair, newest first.
func (r *AttemptRepository) RecentFailures(userID int, ip string, limit int) ([]*model.LoginAttempt, error) {
	query := `SELECT id, user_id, ip, successful, created_at FROM login_attempts
		WHERE user_id = $1 AND ip = $2 AND successful = FALSE
		ORDER BY created_at DESC LIMIT $3`
	rows, err := r.DB.Query(query, userID, ip, limit)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute recent failures query")
		return nil, err
	}
	defer rows.Close()

	var attempts []*model.LoginAttempt
	for rows.Next() {
		var a model.LoginAttempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.IP, &a.Successful, &a.CreatedAt); err != nil {
			logger.Log.WithError(err).Error("Failed to scan login attempt row")
			return nil, err
		}
		attempts = append(attempts, &a)
	}
	return attempts, rows.Err()
}
