package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	qrDefaultSize = 256
	qrMinSize     = 64
	qrMaxSize     = 1024
	qrMaxDataLen  = 2048
)

type qrHandler struct{}

func NewQRHandler() *qrHandler {
	return &qrHandler{}
}

// ProfileQR renders a QR code PNG for the given data, typically a link to
// the user's send form so others can message them by scanning it.
func (h *qrHandler) ProfileQR(w http.ResponseWriter, r *http.Request) {
	data := r.URL.Query().Get("data")
	if data == "" {
		fail(w, http.StatusBadRequest, "Data parameter is required")
		return
	}
	if len(data) > qrMaxDataLen {
		fail(w, http.StatusBadRequest, "Data parameter is too long")
		return
	}

	size := qrDefaultSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < qrMinSize || parsed > qrMaxSize {
			fail(w, http.StatusBadRequest, "Size must be between 64 and 1024")
			return
		}
		size = parsed
	}

	png, err := qrcode.Encode(data, qrcode.Medium, size)
	if err != nil {
		slog.Error("failed to encode QR code", "error", err)
		fail(w, http.StatusInternalServerError, "Error generating QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	_, err = w.Write(png)
	if err != nil {
		slog.Error("failed to write QR response", "error", err)
	}
}
