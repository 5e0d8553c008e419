package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sendmenow/sendmenow/internal/mail"
	"github.com/sendmenow/sendmenow/internal/model"
	"github.com/sendmenow/sendmenow/internal/repository"
	"github.com/sendmenow/sendmenow/internal/storage"
)

var (
	ErrPhotoNotFound = errors.New("photo not found")
)

const defaultPhotoSubject = "Photo from SendMeNow"

// SendPhotoInput carries one validated photo-send request. TempPath points
// at the temporary upload, which the caller owns and removes; the service
// only reads it.
type SendPhotoInput struct {
	RecipientEmail string
	Body           string
	Subject        string
	SenderName     string
	SenderEmail    string
	SenderID       *int64
	TempPath       string
	OriginalName   string
	MimeType       string
}

type MessageService struct {
	messageRepository repository.MessageRepository
	userRepository    repository.UserRepository
	storage           storage.Storage
	mailer            *mail.Mailer
}

func NewMessageService(
	messageRepository repository.MessageRepository,
	userRepository repository.UserRepository,
	store storage.Storage,
	mailer *mail.Mailer,
) *MessageService {
	return &MessageService{
		messageRepository: messageRepository,
		userRepository:    userRepository,
		storage:           store,
		mailer:            mailer,
	}
}

// Send persists the message and delivers the email. The steps are four
// independent operations with no transaction around them: sender lookup,
// recipient lookup, message insert, email send. When the send fails the
// cache copy is removed but the already-inserted row stays in place; the
// caller sees the send error.
func (s *MessageService) Send(ctx context.Context, in SendPhotoInput) (*model.Message, string, error) {
	senderName := in.SenderName
	senderEmail := in.SenderEmail

	// Sender lookup is best-effort: on error the request-body values stand
	if in.SenderID != nil {
		sender, err := s.userRepository.ByID(*in.SenderID)
		if err != nil {
			slog.Warn("sender lookup failed, using request values", "error", err, "sender_id", *in.SenderID)
		} else {
			senderName = sender.Name
			senderEmail = sender.Email
		}
	}

	// Resolve whether the recipient is a registered user, for the inbox
	var recipientID *int64
	recipient, err := s.userRepository.ByEmail(in.RecipientEmail)
	if err == nil {
		recipientID = &recipient.ID
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		slog.Warn("recipient lookup failed", "error", err, "email", in.RecipientEmail)
	}

	photoData, err := os.ReadFile(in.TempPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read uploaded photo: %w", err)
	}

	// Best-effort cache copy; the BLOB below is the source of truth
	cacheName := fmt.Sprintf("photo-%s%s", uuid.New().String(), filepath.Ext(in.OriginalName))
	cachePath := filepath.Join("photos", cacheName)
	var storedPath *string
	f, err := os.Open(in.TempPath)
	if err == nil {
		err = s.storage.Save(cachePath, f)
		_ = f.Close()
		if err != nil {
			slog.Warn("failed to save photo cache copy", "error", err, "path", cachePath)
		} else {
			storedPath = &cachePath
		}
	}

	subject := in.Subject
	if subject == "" {
		subject = defaultPhotoSubject
	}

	message := &model.Message{
		SenderID:          in.SenderID,
		SenderName:        optional(senderName),
		SenderEmail:       optional(senderEmail),
		RecipientID:       recipientID,
		RecipientEmail:    in.RecipientEmail,
		Subject:           &subject,
		Message:           in.Body,
		PhotoFilename:     &cacheName,
		PhotoPath:         storedPath,
		PhotoOriginalName: optional(in.OriginalName),
		PhotoData:         photoData,
		PhotoMimeType:     optional(in.MimeType),
		SentAt:            time.Now(),
	}

	err = s.messageRepository.Create(message)
	if err != nil {
		return nil, "", fmt.Errorf("failed to save message: %w", err)
	}

	greeting := "Hello!"
	if senderName != "" {
		greeting = fmt.Sprintf("Hello from %s!", senderName)
	}

	email := &mail.Message{
		To:             in.RecipientEmail,
		Subject:        subject,
		Greeting:       greeting,
		Body:           in.Body,
		Details:        fmt.Sprintf("<p><strong>Message:</strong></p><p>%s</p><p>Please see the attached photo.</p>", in.Body),
		AdditionalInfo: "Thank you for using SendMeNow!",
		Attachments: []mail.Attachment{
			{Filename: in.OriginalName, Path: in.TempPath},
		},
	}

	providerID, err := s.mailer.Send(ctx, email)
	if err != nil {
		// The message row stays in place; only the cache copy is retracted
		if storedPath != nil {
			delErr := s.storage.Delete(*storedPath)
			if delErr != nil {
				slog.Warn("failed to delete photo cache copy after send failure", "error", delErr, "path", *storedPath)
			}
		}
		return message, "", fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("photo message sent", "message_id", message.ID, "recipient", in.RecipientEmail, "provider_id", providerID)
	return message, providerID, nil
}

// Inbox returns all messages addressed to the identity, newest first.
func (s *MessageService) Inbox(email string, userID int64) ([]*model.InboxMessage, error) {
	return s.messageRepository.ForRecipient(email, userID)
}

// Photo returns the stored photo bytes and MIME type for a message. The
// BLOB is preferred; the storage cache copy is the fallback read path.
func (s *MessageService) Photo(id int64) ([]byte, string, error) {
	message, err := s.messageRepository.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return nil, "", ErrPhotoNotFound
		}
		return nil, "", err
	}

	if len(message.PhotoData) > 0 {
		return message.PhotoData, photoMimeType(message), nil
	}

	if message.PhotoPath != nil && *message.PhotoPath != "" {
		r, err := s.storage.Open(*message.PhotoPath)
		if err != nil {
			return nil, "", ErrPhotoNotFound
		}
		defer func() { _ = r.Close() }()

		data, err := io.ReadAll(r)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read cached photo: %w", err)
		}
		return data, photoMimeType(message), nil
	}

	return nil, "", ErrPhotoNotFound
}

func photoMimeType(message *model.Message) string {
	if message.PhotoMimeType != nil && *message.PhotoMimeType != "" {
		return *message.PhotoMimeType
	}
	if message.PhotoFilename != nil {
		byExt := mime.TypeByExtension(filepath.Ext(*message.PhotoFilename))
		if byExt != "" {
			return byExt
		}
	}
	return "application/octet-stream"
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
