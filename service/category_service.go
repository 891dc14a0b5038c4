package service

import (
	"errors"
	"go-content-api/logger"
	"go-content-api/model"
	"go-content-api/repository"
	"time"
)

var (
	ErrCategoryTypeUnsupported = errors.New("only article categories are supported")
	ErrCategoryExists          = errors.New("a category with this name already exists")
	ErrCategoryParentMissing   = errors.New("the specified parent category does not exist")
	ErrCategoryNotFound        = errors.New("category not found")
)

// CategoryService handles the article category tree.
type CategoryService struct {
	repo repository.ICategoryRepository
	now  func() time.Time
}

func NewCategoryService(repo repository.ICategoryRepository, now func() time.Time) *CategoryService {
	if now == nil {
		now = time.Now
	}
	return &CategoryService{repo: repo, now: now}
}

func (s *CategoryService) Create(req *model.CreateCategoryRequest) (*model.Category, error) {
	if req.Type != model.CategoryTypeArticle {
		return nil, ErrCategoryTypeUnsupported
	}

	existing, err := s.repo.GetByName(req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCategoryExists
	}

	if req.ParentCategoryID != nil {
		parent, err := s.repo.GetByID(*req.ParentCategoryID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrCategoryParentMissing
		}
	}

	category := &model.Category{
		Name:             req.Name,
		Type:             req.Type,
		ParentCategoryID: req.ParentCategoryID,
	}
	if err := s.repo.Create(category); err != nil {
		return nil, err
	}

	logger.Log.WithField("category_id", category.ID).Info("Category created")
	return category, nil
}

// FindAll returns all categories assembled into a parent/child tree.
func (s *CategoryService) FindAll() ([]*model.Category, error) {
	categories, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	return buildCategoryTree(categories), nil
}

func (s *CategoryService) FindOne(id int) (*model.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (s *CategoryService) Update(id int, req *model.UpdateCategoryRequest) (*model.Category, error) {
	category, err := s.FindOne(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.ParentCategoryID != nil {
		parent, err := s.repo.GetByID(*req.ParentCategoryID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrCategoryParentMissing
		}
		category.ParentCategoryID = req.ParentCategoryID
	}

	if err := s.repo.Save(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Remove soft-deletes a category; hard deletion is left to the cleanup job.
func (s *CategoryService) Remove(id int) error {
	if _, err := s.FindOne(id); err != nil {
		return err
	}
	return s.repo.SoftDelete(id, s.now())
}

// buildCategoryTree links flat rows into a tree. Rows pointing at a
// missing parent become roots rather than being dropped.
func buildCategoryTree(categories []*model.Category) []*model.Category {
	byID := make(map[int]*model.Category, len(categories))
	for _, c := range categories {
		c.Children = nil
		byID[c.ID] = c
	}

	var roots []*model.Category
	for _, c := range categories {
		if c.ParentCategoryID != nil {
			if parent, ok := byID[*c.ParentCategoryID]; ok {
				parent.Children = append(parent.Children, c)
				continue
			}
		}
		roots = append(roots, c)
	}
	return roots
}
