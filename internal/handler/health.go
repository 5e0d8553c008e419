package handler

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/sendmenow/sendmenow/internal/mail"
)

type healthHandler struct {
	db           *sqlx.DB
	emailStatus  mail.ConfigStatus
	isProduction bool
}

func NewHealthHandler(db *sqlx.DB, emailStatus mail.ConfigStatus, isProduction bool) *healthHandler {
	return &healthHandler{
		db:           db,
		emailStatus:  emailStatus,
		isProduction: isProduction,
	}
}

func (h *healthHandler) Health(w http.ResponseWriter, r *http.Request) {
	err := h.db.PingContext(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, envelope{
			"status":  "Database unavailable",
			"success": false,
		})
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"status":  "Server is running",
		"success": true,
	})
}

// EmailConfig reports whether mail delivery is set up. Host and account
// details are withheld in production.
func (h *healthHandler) EmailConfig(w http.ResponseWriter, r *http.Request) {
	status := h.emailStatus

	if h.isProduction {
		writeJSON(w, http.StatusOK, envelope{
			"success":    true,
			"configured": status.Configured,
			"message":    "Email configuration details are hidden in production",
		})
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"config":  status,
	})
}
