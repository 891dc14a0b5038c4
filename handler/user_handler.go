package handler

import (
	"encoding/json"
	"errors"
	"go-content-api/common"
	"go-content-api/model"
	"go-content-api/service"
	"net/http"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Get godoc
// @Summary      Get a user's public profile
// @Tags         users
// @Produce      json
// @Router       /users/{uid} [get]
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, err := h.userService.FindByUID(r.PathValue("uid"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return common.NewAppError(http.StatusNotFound, err.Error(), nil)
		}
		return common.FromServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(user)
	return nil
}

// CheckEmail godoc
// @Summary      Check whether an email is already registered
// @Tags         users
// @Produce      json
// @Router       /users/check-email [get]
func (h *UserHandler) CheckEmail(w http.ResponseWriter, r *http.Request) *common.AppError {
	email := r.URL.Query().Get("email")
	if email == "" {
		return common.NewAppError(http.StatusBadRequest, "Email is required", nil)
	}

	registered, err := h.userService.IsEmailRegistered(email)
	if err != nil {
		return common.FromServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(map[string]bool{"isRegistered": registered})
	return nil
}

// CheckUsername godoc
// @Summary      Check whether a username is still free
// @Tags         users
// @Accept       json
// @Produce      json
// @Router       /users/check-username [post]
func (h *UserHandler) CheckUsername(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CheckUsernameRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	unique, err := h.userService.IsUsernameUnique(req.Username)
	if err != nil {
		return common.FromServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(map[string]bool{"isUnique": unique})
	return nil
}

// CheckPassword godoc
// @Summary      Check a candidate password against the registration policy
// @Tags         users
// @Accept       json
// @Produce      json
// @Router       /users/check-password [post]
func (h *UserHandler) CheckPassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	// A failing password is a normal answer here, not a request error, so
	// the body is decoded without the validation step.
	var req model.CheckPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid request body", nil)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(map[string]bool{
		"isValid": h.userService.CheckPassword(req.Password) == nil,
	})
	return nil
}

// UpdateProfile godoc
// @Summary      Update the authenticated user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /profile [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	uid, ok := r.Context().Value(UserUIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	var req model.UpdateProfileRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, err := h.userService.UpdateProfile(uid, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return common.NewAppError(http.StatusNotFound, err.Error(), nil)
		}
		return common.FromServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(user)
	return nil
}
