package model

import (
	"time"
)

// Message is a delivered photo message. Sender name and email are
// denormalized copies so the row stays readable if the sender account
// disappears. PhotoData (the BLOB) is the source of truth for the photo;
// PhotoPath points at a best-effort cache copy in storage.
type Message struct {
	ID                int64     `db:"id"`
	SenderID          *int64    `db:"sender_id"`
	SenderName        *string   `db:"sender_name"`
	SenderEmail       *string   `db:"sender_email"`
	RecipientID       *int64    `db:"recipient_id"`
	RecipientEmail    string    `db:"recipient_email"`
	Subject           *string   `db:"subject"`
	Message           string    `db:"message"`
	PhotoFilename     *string   `db:"photo_filename"`
	PhotoPath         *string   `db:"photo_path"`
	PhotoOriginalName *string   `db:"photo_original_name"`
	PhotoData         []byte    `db:"photo_data"`
	PhotoMimeType     *string   `db:"photo_mime_type"`
	SentAt            time.Time `db:"sent_at"`
}

func (m *Message) HasPhoto() bool {
	return len(m.PhotoData) > 0 || (m.PhotoPath != nil && *m.PhotoPath != "")
}

// InboxMessage is the list-view projection of a Message: joined sender
// details and the photo's size instead of its bytes.
type InboxMessage struct {
	ID          int64     `db:"id"`
	SenderName  string    `db:"sender_name"`
	SenderEmail string    `db:"sender_email"`
	Subject     *string   `db:"subject"`
	Message     string    `db:"message"`
	SentAt      time.Time `db:"sent_at"`
	PhotoSize   int64     `db:"photo_size"`
	PhotoPath   *string   `db:"photo_path"`
}

func (m *InboxMessage) HasPhoto() bool {
	return m.PhotoSize > 0 || (m.PhotoPath != nil && *m.PhotoPath != "")
}
