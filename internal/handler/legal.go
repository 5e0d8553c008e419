package handler

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/sendmenow/sendmenow/internal/service"
)

type legalHandler struct {
	legalService *service.LegalService
}

func NewLegalHandler(legalService *service.LegalService) *legalHandler {
	return &legalHandler{
		legalService: legalService,
	}
}

func (h *legalHandler) Terms(w http.ResponseWriter, r *http.Request) {
	page, err := h.legalService.Page("terms-and-conditions")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fail(w, http.StatusNotFound, "Page not found")
			return
		}
		slog.Error("failed to load terms page", "error", err)
		fail(w, http.StatusInternalServerError, "Error loading page")
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"page":    page,
	})
}
