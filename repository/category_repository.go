package repository

import (
	"database/sql"
	"go-content-api/logger"
	"go-content-api/model"
	"time"
)

// ICategoryRepository defines the contract for category database operations.
type ICategoryRepository interface {
	Create(category *model.Category) error
	GetByID(id int) (*model.Category, error)
	GetByName(name string) (*model.Category, error)
	GetAll() ([]*model.Category, error)
	Save(category *model.Category) error
	SoftDelete(id int, at time.Time) error
}

// CategoryRepository implements ICategoryRepository.
type CategoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

const categoryColumns = `id, name, type, parent_category_id, created_at, updated_at, deleted_at`

func scanCategory(row *sql.Row) (*model.Category, error) {
	c := &model.Category{}
	err := row.Scan(&c.ID, &c.Name, &c.Type, &c.ParentCategoryID,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CategoryRepository) Create(category *model.Category) error {
	log := logger.Log.WithField("name", category.Name)
	log.Info("Executing query to create a new category")

	query := `INSERT INTO categories (name, type, parent_category_id)
		VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`
	err := r.DB.QueryRow(query, category.Name, category.Type, category.ParentCategoryID).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create category query")
		return err
	}
	return nil
}

func (r *CategoryRepository) GetByID(id int) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND deleted_at IS NULL`
	return scanCategory(r.DB.QueryRow(query, id))
}

func (r *CategoryRepository) GetByName(name string) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE name = $1 AND deleted_at IS NULL`
	return scanCategory(r.DB.QueryRow(query, name))
}

func (r *CategoryRepository) GetAll() ([]*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE deleted_at IS NULL ORDER BY id ASC`
	rows, err := r.DB.Query(query)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute get all categories query")
		return nil, err
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.ParentCategoryID,
			&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt); err != nil {
			logger.Log.WithError(err).Error("Failed to scan category row")
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Save(category *model.Category) error {
	query := `UPDATE categories SET name = $1, parent_category_id = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.DB.Exec(query, category.Name, category.ParentCategoryID, category.ID)
	if err != nil {
		logger.Log.WithError(err).WithField("category_id", category.ID).Error("Failed to update category")
	}
	return err
}

func (r *CategoryRepository) SoftDelete(id int, at time.Time) error {
	query := `UPDATE categories SET deleted_at = $1 WHERE id = $2`
	_, err := r.DB.Exec(query, at, id)
	if err != nil {
		logger.Log.WithError(err).WithField("category_id", id).Error("Failed to soft delete category")
	}
	return err
}
