package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sendmenow/sendmenow/internal/service"
	"github.com/sendmenow/sendmenow/internal/validation"
)

type passwordHandler struct {
	authService *service.AuthService
}

func NewPasswordHandler(authService *service.AuthService) *passwordHandler {
	return &passwordHandler{
		authService: authService,
	}
}

type forgotPasswordRequest struct {
	UserEmail string `json:"userEmail"`
}

// Forgot always answers with the same message so callers cannot probe
// which emails have accounts.
func (h *passwordHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserEmail == "" {
		fail(w, http.StatusBadRequest, "Email is required")
		return
	}

	err = h.authService.ForgotPassword(r.Context(), req.UserEmail)
	if err != nil {
		slog.Error("failed to process password reset request", "error", err)
		fail(w, http.StatusInternalServerError, "Error processing password reset request")
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "If an account with that email exists, a password reset link has been sent.",
	})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	UserEmail   string `json:"userEmail"`
	NewPassword string `json:"newPassword"`
}

func (h *passwordHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Token == "" || req.UserEmail == "" || req.NewPassword == "" {
		fail(w, http.StatusBadRequest, "Token, email, and new password are required")
		return
	}

	err = validation.ValidatePassword(req.NewPassword)
	if err != nil {
		fail(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.authService.ResetPassword(req.Token, req.UserEmail, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResetToken):
			fail(w, http.StatusBadRequest, "Invalid or expired reset token")
		case errors.Is(err, service.ErrUserNotFound):
			fail(w, http.StatusNotFound, "User not found")
		default:
			slog.Error("failed to reset password", "error", err)
			fail(w, http.StatusInternalServerError, "Error resetting password")
		}
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Password has been reset successfully. You can now login with your new password.",
	})
}
