package repository

import (
	"context"
	"database/sql"
	"go-content-api/common"
	"go-content-api/logger"
	"go-content-api/model"
	"time"
)

// IUserRepository defines the contract for user database operations.
// Lookup methods return (nil, nil) when no matching user exists.
type IUserRepository interface {
	GetByEmail(email string) (*model.User, error)
	GetByUID(uid string) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
	Register(user *model.User) error
	Save(user *model.User) error
	MarkLastLogin(userID int, at time.Time) error
	HardDeleteSoftDeletedBefore(threshold time.Time, batchSize int) (int64, error)
}

// UserRepository implements IUserRepository on PostgreSQL.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, uid, username, email, password_hash, is_active, role, bio, last_login, created_at, updated_at, deleted_at`

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.UID, &user.Username, &user.Email, &user.PasswordHash,
		&user.IsActive, &user.Role, &user.Bio, &user.LastLogin,
		&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`
	return scanUser(r.DB.QueryRow(query, email))
}

func (r *UserRepository) GetByUID(uid string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1 AND deleted_at IS NULL`
	return scanUser(r.DB.QueryRow(query, uid))
}

func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND deleted_at IS NULL`
	return scanUser(r.DB.QueryRow(query, username))
}

// Register inserts a new user inside a single serializable transaction
// that also performs the email-uniqueness check. Two concurrent
// registrations for the same email cannot both pass the check.
func (r *UserRepository) Register(user *model.User) error {
	log := logger.Log.WithField("email", user.Email)
	log.Info("Executing transactional user registration")

	ctx := context.Background()
	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		log.WithError(err).Error("Failed to begin registration transaction")
		return err
	}
	defer tx.Rollback()

	var existingID int
	err = tx.QueryRow(`SELECT id FROM users WHERE email = $1 AND deleted_at IS NULL`, user.Email).Scan(&existingID)
	if err == nil {
		return common.ErrEmailAlreadyRegistered
	}
	if err != sql.ErrNoRows {
		log.WithError(err).Error("Failed to check email uniqueness")
		return err
	}

	query := `INSERT INTO users (uid, username, email, password_hash, is_active, role, bio)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query, user.UID, user.Username, user.Email, user.PasswordHash,
		user.IsActive, user.Role, user.Bio).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to insert user")
		return err
	}

	return tx.Commit()
}

// Save updates the mutable fields of an existing user.
func (r *UserRepository) Save(user *model.User) error {
	query := `UPDATE users SET username = $1, email = $2, password_hash = $3, is_active = $4,
		role = $5, bio = $6, updated_at = NOW() WHERE id = $7`
	_, err := r.DB.Exec(query, user.Username, user.Email, user.PasswordHash,
		user.IsActive, user.Role, user.Bio, user.ID)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Error("Failed to update user")
	}
	return err
}

func (r *UserRepository) MarkLastLogin(userID int, at time.Time) error {
	query := `UPDATE users SET last_login = $1 WHERE id = $2`
	_, err := r.DB.Exec(query, at, userID)
	return err
}

// HardDeleteSoftDeletedBefore physically removes up to batchSize users
// whose soft-delete marker is older than the threshold. Used only by the
// periodic cleanup job.
func (r *UserRepository) HardDeleteSoftDeletedBefore(threshold time.Time, batchSize int) (int64, error) {
	query := `DELETE FROM users WHERE id IN (
		SELECT id FROM users WHERE deleted_at IS NOT NULL AND deleted_at <= $1 LIMIT $2)`
	res, err := r.DB.Exec(query, threshold, batchSize)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hard delete soft-deleted users")
		return 0, err
	}
	return res.RowsAffected()
}
