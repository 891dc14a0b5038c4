package handler

import (
	"encoding/json"
	"errors"
	"go-content-api/common"
	"go-content-api/model"
	"go-content-api/service"
	"net/http"
	"strconv"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func categoryError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		return common.NewAppError(http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrCategoryExists),
		errors.Is(err, service.ErrCategoryTypeUnsupported),
		errors.Is(err, service.ErrCategoryParentMissing):
		return common.NewAppError(http.StatusConflict, err.Error(), nil)
	default:
		return common.FromServiceError(err)
	}
}

func categoryID(r *http.Request) (int, *common.AppError) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return 0, common.NewAppError(http.StatusBadRequest, "Invalid category id", nil)
	}
	return id, nil
}

// Create godoc
// @Summary      Create an article category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /categories [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateCategoryRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	category, err := h.categoryService.Create(&req)
	if err != nil {
		return categoryError(err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(category)
	return nil
}

// List godoc
// @Summary      List all categories as a tree
// @Tags         categories
// @Produce      json
// @Router       /categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) *common.AppError {
	categories, err := h.categoryService.FindAll()
	if err != nil {
		return categoryError(err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(categories)
	return nil
}

// Get godoc
// @Summary      Get a single category
// @Tags         categories
// @Produce      json
// @Router       /categories/{id} [get]
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := categoryID(r)
	if appErr != nil {
		return appErr
	}

	category, err := h.categoryService.FindOne(id)
	if err != nil {
		return categoryError(err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(category)
	return nil
}

// Update godoc
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := categoryID(r)
	if appErr != nil {
		return appErr
	}

	var req model.UpdateCategoryRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	category, err := h.categoryService.Update(id, &req)
	if err != nil {
		return categoryError(err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(category)
	return nil
}

// Delete godoc
// @Summary      Soft-delete a category
// @Tags         categories
// @Security     BearerAuth
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := categoryID(r)
	if appErr != nil {
		return appErr
	}

	if err := h.categoryService.Remove(id); err != nil {
		return categoryError(err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
