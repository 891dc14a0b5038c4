package model

import "time"

// CategoryTypeArticle is the only category type currently supported.
const CategoryTypeArticle = "article"

type Category struct {
	ID               int         `json:"id"`
	Name             string      `json:"name"`
	Type             string      `json:"type"`
	ParentCategoryID *int        `json:"parent_category_id,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	DeletedAt        *time.Time  `json:"-"`
	Children         []*Category `json:"children,omitempty"`
}
