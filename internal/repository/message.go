package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sendmenow/sendmenow/internal/model"
)

var (
	ErrMessageNotFound = errors.New("message not found")
)

type MessageRepository interface {
	Create(message *model.Message) error
	ByID(id int64) (*model.Message, error)
	ForRecipient(email string, userID int64) ([]*model.InboxMessage, error)
}

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(message *model.Message) error {
	query := `
		INSERT INTO messages (sender_id, sender_name, sender_email, recipient_id, recipient_email,
		                      subject, message, photo_filename, photo_path, photo_original_name,
		                      photo_data, photo_mime_type, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	return r.db.QueryRow(query,
		message.SenderID,
		message.SenderName,
		message.SenderEmail,
		message.RecipientID,
		message.RecipientEmail,
		message.Subject,
		message.Message,
		message.PhotoFilename,
		message.PhotoPath,
		message.PhotoOriginalName,
		message.PhotoData,
		message.PhotoMimeType,
		message.SentAt,
	).Scan(&message.ID)
}

func (r *messageRepository) ByID(id int64) (*model.Message, error) {
	message := &model.Message{}
	query := `SELECT * FROM messages WHERE id = $1`

	err := r.db.Get(message, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrMessageNotFound
	}

	return message, err
}

// ForRecipient returns all messages addressed to the identity (by id OR by
// email), newest first. The LEFT JOIN against users recovers a friendly
// sender name/email when the denormalized copies on the row are absent.
func (r *messageRepository) ForRecipient(email string, userID int64) ([]*model.InboxMessage, error) {
	var messages []*model.InboxMessage
	query := `
		SELECT m.id,
		       COALESCE(NULLIF(m.sender_name, ''), u.user_name, 'Unknown') AS sender_name,
		       COALESCE(NULLIF(m.sender_email, ''), u.user_email, '') AS sender_email,
		       m.subject,
		       m.message,
		       m.sent_at,
		       COALESCE(LENGTH(m.photo_data), 0) AS photo_size,
		       m.photo_path
		FROM messages m
		LEFT JOIN users u ON u.id = m.sender_id
		WHERE m.recipient_email = $1 OR m.recipient_id = $2
		ORDER BY m.sent_at DESC, m.id DESC
	`

	err := r.db.Select(&messages, query, email, userID)
	if err != nil {
		return nil, err
	}

	return messages, nil
}
