package mail

import (
	"errors"
	"fmt"

	"github.com/sendmenow/sendmenow/internal/validation"
)

var (
	ErrMissingFields = errors.New("missing required email fields: to, subject, and message are required")
)

// Attachment references a file on disk to attach to an outgoing email.
type Attachment struct {
	Filename string // name shown to the recipient
	Path     string // local filesystem path to read from
}

// Message is the structured payload handed to the mailer. Details,
// ButtonText/ButtonURL and AdditionalInfo are optional; the template
// regions that render them are dropped when they are empty.
type Message struct {
	To             string
	Subject        string
	Greeting       string
	Body           string
	Details        string
	ButtonText     string
	ButtonURL      string
	AdditionalInfo string
	Attachments    []Attachment
}

func (m *Message) Validate() error {
	if m.To == "" || m.Subject == "" || m.Body == "" {
		return ErrMissingFields
	}
	err := validation.ValidateEmail(m.To)
	if err != nil {
		return fmt.Errorf("invalid email address %q: %w", m.To, err)
	}
	return nil
}
