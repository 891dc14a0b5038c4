package handler

import (
	"encoding/json"
	"go-content-api/common"
	"go-content-api/model"
	"go-content-api/service"
	"net"
	"net/http"
	"strings"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// clientIP extracts the originating address, preferring X-Forwarded-For
// when the service runs behind a proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Router       /register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, err := h.userService.Register(&req)
	if err != nil {
		return common.FromServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
	return nil
}

// Login godoc
// @Summary      Authenticate with email or uid and receive a token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Router       /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	pair, err := h.authService.Login(service.LoginInput{
		Email:      req.Email,
		UID:        req.UID,
		Password:   req.Password,
		DeviceInfo: r.UserAgent(),
		IP:         clientIP(r),
	})
	if err != nil {
		return common.FromServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(pair)
	return nil
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Router       /refresh-token [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	pair, err := h.authService.RefreshTokens(req.RefreshToken)
	if err != nil {
		return common.FromServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(pair)
	return nil
}

// Logout godoc
// @Summary      Revoke the presented refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.authService.Logout(req.RefreshToken); err != nil {
		return common.FromServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(map[string]string{"message": "Logout successful"})
	return nil
}
