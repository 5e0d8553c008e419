package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sendmenow/sendmenow/internal/service"
)

type userHandler struct {
	authService *service.AuthService
}

func NewUserHandler(authService *service.AuthService) *userHandler {
	return &userHandler{
		authService: authService,
	}
}

type registerRequest struct {
	UserName     string `json:"userName"`
	UserEmail    string `json:"userEmail"`
	UserPassword string `json:"userPassword"`
}

func (h *userHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserName == "" || req.UserEmail == "" || req.UserPassword == "" {
		fail(w, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := h.authService.Register(r.Context(), req.UserName, req.UserEmail, req.UserPassword)
	if err != nil {
		slog.Error("failed to register user", "error", err, "name", req.UserName)
		fail(w, http.StatusInternalServerError, "Error saving user to database")
		return
	}

	writeJSON(w, http.StatusCreated, envelope{
		"success": true,
		"message": "User registered successfully",
		"userId":  user.ID,
	})
}

type loginRequest struct {
	UserName     string `json:"userName"`
	UserPassword string `json:"userPassword"`
}

func (h *userHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserName == "" || req.UserPassword == "" {
		fail(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, token, err := h.authService.Login(req.UserName, req.UserPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			fail(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		slog.Error("failed to log user in", "error", err, "name", req.UserName)
		fail(w, http.StatusInternalServerError, "Error during login")
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Login successful",
		"user": envelope{
			"id":        user.ID,
			"userName":  user.Name,
			"userEmail": user.Email,
		},
		"token": token,
	})
}
