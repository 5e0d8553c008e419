package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sendmenow/sendmenow/internal/service"
	"github.com/sendmenow/sendmenow/internal/validation"
)

// multipartOverhead covers form field framing beyond the photo itself.
const multipartOverhead = 1 << 20

type messageHandler struct {
	messageService *service.MessageService
	uploadDir      string
	maxUploadSize  int64
}

func NewMessageHandler(messageService *service.MessageService, uploadDir string, maxUploadSize int64) *messageHandler {
	return &messageHandler{
		messageService: messageService,
		uploadDir:      uploadDir,
		maxUploadSize:  maxUploadSize,
	}
}

func (h *messageHandler) SendPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)

	err := r.ParseMultipartForm(h.maxUploadSize)
	if err != nil {
		fail(w, http.StatusBadRequest, "Image size must be less than 10MB")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		fail(w, http.StatusBadRequest, "Photo is required")
		return
	}
	defer file.Close()

	err = validation.ValidatePhoto(header, validation.ImageConstraints)
	if err != nil {
		fail(w, http.StatusBadRequest, err.Error())
		return
	}

	recipientEmail := r.FormValue("recipientEmail")
	body := r.FormValue("message")
	if recipientEmail == "" || body == "" {
		fail(w, http.StatusBadRequest, "Recipient email and message are required")
		return
	}

	err = validation.ValidateEmail(recipientEmail)
	if err != nil {
		fail(w, http.StatusBadRequest, err.Error())
		return
	}

	tempPath, err := h.saveTemp(file, header.Filename)
	if err != nil {
		slog.Error("failed to stage uploaded photo", "error", err)
		fail(w, http.StatusInternalServerError, "Error processing uploaded photo")
		return
	}
	defer func() {
		removeErr := os.Remove(tempPath)
		if removeErr != nil && !os.IsNotExist(removeErr) {
			slog.Warn("failed to remove temporary upload", "path", tempPath, "error", removeErr)
		}
	}()

	in := service.SendPhotoInput{
		RecipientEmail: recipientEmail,
		Body:           body,
		Subject:        r.FormValue("subject"),
		SenderName:     r.FormValue("senderName"),
		SenderEmail:    r.FormValue("senderEmail"),
		TempPath:       tempPath,
		OriginalName:   header.Filename,
		MimeType:       photoContentType(header),
	}

	if raw := r.FormValue("senderId"); raw != "" {
		senderID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr == nil {
			in.SenderID = &senderID
		}
	}

	message, providerID, err := h.messageService.Send(r.Context(), in)
	if err != nil {
		slog.Error("failed to send photo message", "error", err, "recipient", recipientEmail)
		fail(w, http.StatusInternalServerError, fmt.Sprintf("Failed to send photo: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success":     true,
		"message":     "Photo sent successfully!",
		"messageId":   providerID,
		"dbMessageId": message.ID,
	})
}

// photoContentType prefers the client-supplied part header but falls back
// to the filename extension when the client sent a generic type.
func photoContentType(header *multipart.FileHeader) string {
	ct := header.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		byExt := mime.TypeByExtension(filepath.Ext(header.Filename))
		if byExt != "" {
			return byExt
		}
	}
	return ct
}

// saveTemp copies the upload into the upload directory so the mailer can
// attach it from disk. The caller removes the file when the request ends.
func (h *messageHandler) saveTemp(file io.Reader, originalName string) (string, error) {
	err := os.MkdirAll(h.uploadDir, 0o755)
	if err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	temp, err := os.CreateTemp(h.uploadDir, "photo-*"+filepath.Ext(originalName))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer temp.Close()

	_, err = io.Copy(temp, file)
	if err != nil {
		os.Remove(temp.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	return temp.Name(), nil
}

func (h *messageHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("userEmail")
	rawID := r.URL.Query().Get("userId")

	if email == "" && rawID == "" {
		fail(w, http.StatusBadRequest, "User email or user ID is required")
		return
	}

	var userID int64
	if rawID != "" {
		parsed, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			fail(w, http.StatusBadRequest, "Invalid user ID")
			return
		}
		userID = parsed
	}

	messages, err := h.messageService.Inbox(email, userID)
	if err != nil {
		slog.Error("failed to load inbox", "error", err, "email", email)
		fail(w, http.StatusInternalServerError, "Error fetching messages")
		return
	}

	items := make([]envelope, 0, len(messages))
	for _, m := range messages {
		item := envelope{
			"id":          m.ID,
			"senderName":  m.SenderName,
			"senderEmail": m.SenderEmail,
			"subject":     m.Subject,
			"message":     m.Message,
			"sentAt":      m.SentAt.Format(time.RFC3339),
		}
		if m.HasPhoto() {
			item["photoUrl"] = fmt.Sprintf("/api/message-photo/%d", m.ID)
		}
		items = append(items, item)
	}

	writeJSON(w, http.StatusOK, envelope{
		"success":  true,
		"messages": items,
	})
}

func (h *messageHandler) Photo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid message ID")
		return
	}

	data, mimeType, err := h.messageService.Photo(id)
	if err != nil {
		if errors.Is(err, service.ErrPhotoNotFound) {
			fail(w, http.StatusNotFound, "Photo not found")
			return
		}
		slog.Error("failed to load message photo", "error", err, "id", id)
		fail(w, http.StatusInternalServerError, "Error fetching photo")
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, err = w.Write(data)
	if err != nil {
		slog.Error("failed to write photo response", "error", err, "id", id)
	}
}
