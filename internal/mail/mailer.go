package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Mailer validates a Message, renders the HTML and plain-text bodies, and
// hands delivery to the injected transport.
type Mailer struct {
	transport Transport
	isDev     bool
}

func NewMailer(transport Transport, isDev bool) *Mailer {
	return &Mailer{
		transport: transport,
		isDev:     isDev,
	}
}

// Send delivers the message and returns the transport's message identifier.
// In development without configured credentials the send is logged and
// skipped so local testing does not require an SMTP account.
func (m *Mailer) Send(ctx context.Context, msg *Message) (string, error) {
	err := msg.Validate()
	if err != nil {
		return "", err
	}

	if m.isDev && !m.transport.Configured() {
		id := fmt.Sprintf("dev-%s", uuid.New().String())
		slog.Info("email sent (dev mode)", "to", msg.To, "subject", msg.Subject, "message_id", id)
		return id, nil
	}

	html := RenderHTML(msg)
	text := RenderText(msg)

	id, err := m.transport.Send(ctx, msg, html, text)
	if err != nil {
		return "", err
	}

	slog.Info("email sent", "to", msg.To, "subject", msg.Subject, "message_id", id)
	return id, nil
}
