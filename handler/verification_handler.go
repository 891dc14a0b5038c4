package handler

import (
	"encoding/json"
	"errors"
	"go-content-api/common"
	"go-content-api/model"
	"go-content-api/service"
	"net/http"
)

type VerificationHandler struct {
	verificationService *service.VerificationService
}

func NewVerificationHandler(verificationService *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

func verificationError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrResendThrottled):
		return common.NewAppError(http.StatusTooManyRequests, err.Error(), nil)
	case errors.Is(err, service.ErrCodeInvalid), errors.Is(err, service.ErrMailDeliveryFailed):
		return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
	default:
		return common.FromServiceError(err)
	}
}

// SendCode godoc
// @Summary      Send an email verification code
// @Tags         verification
// @Accept       json
// @Produce      json
// @Router       /email/send-code [post]
func (h *VerificationHandler) SendCode(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.SendCodeRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.verificationService.SendCode(r.Context(), req.Email); err != nil {
		return verificationError(err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(map[string]string{"message": "Verification code sent"})
	return nil
}

// VerifyCode godoc
// @Summary      Verify an email verification code
// @Tags         verification
// @Accept       json
// @Produce      json
// @Router       /email/verify [post]
func (h *VerificationHandler) VerifyCode(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.VerifyCodeRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.verificationService.VerifyCode(r.Context(), req.Email, req.Code); err != nil {
		return verificationError(err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(map[string]string{"message": "Email verified"})
	return nil
}
