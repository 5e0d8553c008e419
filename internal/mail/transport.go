package mail

import (
	"context"
	"errors"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

var (
	ErrNotConfigured = errors.New("email credentials not configured, set EMAIL_USER and EMAIL_PASSWORD")
)

// Transport delivers a rendered email and returns the provider's message
// identifier. It is constructed once at startup and injected into the
// Mailer; there is no lazily-created process-wide handle.
type Transport interface {
	Send(ctx context.Context, msg *Message, htmlBody, textBody string) (string, error)
	Configured() bool
}

// ConfigStatus describes the transport configuration for the
// email-config endpoint.
type ConfigStatus struct {
	Configured bool   `json:"configured"`
	HasAuth    bool   `json:"hasAuth"`
	Host       string `json:"host"`
	Port       int    `json:"port"`
	Secure     bool   `json:"secure"`
	From       string `json:"from"`
}

// SMTPConfig holds the SMTP connection settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Secure   bool // implicit TLS (port 465 style)
	User     string
	Password string
	From     string
}

// SMTPTransport sends mail over SMTP.
type SMTPTransport struct {
	cfg SMTPConfig
}

func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	return &SMTPTransport{cfg: cfg}
}

func (t *SMTPTransport) Configured() bool {
	return t.cfg.Host != "" && t.cfg.Port != 0 && t.cfg.User != "" && t.cfg.Password != ""
}

func (t *SMTPTransport) Status() ConfigStatus {
	return ConfigStatus{
		Configured: t.Configured(),
		HasAuth:    t.cfg.User != "" && t.cfg.Password != "",
		Host:       t.cfg.Host,
		Port:       t.cfg.Port,
		Secure:     t.cfg.Secure,
		From:       t.from(),
	}
}

func (t *SMTPTransport) from() string {
	if t.cfg.From != "" {
		return t.cfg.From
	}
	if t.cfg.User != "" {
		return t.cfg.User
	}
	return "noreply@sendmenow.com"
}

func (t *SMTPTransport) Send(ctx context.Context, msg *Message, htmlBody, textBody string) (string, error) {
	if !t.Configured() {
		return "", ErrNotConfigured
	}

	m := gomail.NewMsg()
	err := m.From(t.from())
	if err != nil {
		return "", fmt.Errorf("invalid from address: %w", err)
	}
	err = m.To(msg.To)
	if err != nil {
		return "", fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, textBody)
	m.AddAlternativeString(gomail.TypeTextHTML, htmlBody)
	m.SetMessageID()

	for _, a := range msg.Attachments {
		m.AttachFile(a.Path, gomail.WithFileName(a.Filename))
	}

	opts := []gomail.Option{
		gomail.WithPort(t.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(t.cfg.User),
		gomail.WithPassword(t.cfg.Password),
	}
	if t.cfg.Secure {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}

	client, err := gomail.NewClient(t.cfg.Host, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create SMTP client: %w", err)
	}

	err = client.DialAndSendWithContext(ctx, m)
	if err != nil {
		return "", fmt.Errorf("failed to send email via %s:%d: %w", t.cfg.Host, t.cfg.Port, err)
	}

	return m.GetMessageID(), nil
}
