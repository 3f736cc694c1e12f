// Package mailer delivers exported reports over SMTP.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	netmail "net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/mail.v2"

	"cukedash/internal/config"
	"cukedash/internal/report"
	"cukedash/internal/summary"
)

// DefaultSubject is used when a request leaves the subject empty.
const DefaultSubject = "Cucumber Test Report"

var (
	// ErrNotConfigured reports missing SMTP credentials.
	ErrNotConfigured = errors.New("mailer: smtp credentials are not configured")
	// ErrAttachmentTooLarge reports an attachment above the configured limit.
	ErrAttachmentTooLarge = errors.New("mailer: attachment too large")
	// ErrInvalidRequest reports a request missing required fields.
	ErrInvalidRequest = errors.New("mailer: invalid request")
)

// AttachmentType selects the MIME type of an attachment.
type AttachmentType string

const (
	AttachmentPDF   AttachmentType = "pdf"
	AttachmentImage AttachmentType = "image"
)

// Attachment is the exported report file.
type Attachment struct {
	Name string
	Type AttachmentType
	Data []byte
}

// Request describes one report email.
type Request struct {
	To         string
	Subject    string
	Summary    summary.ReportSummary
	Attachment Attachment
}

// Dialer sends fully built messages. *mail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(messages ...*mail.Message) error
}

// Mailer builds report emails and hands them to a Dialer.
type Mailer struct {
	cfg    config.SMTPConfig
	dialer Dialer
	now    func() time.Time
	logger *slog.Logger
}

// New returns a Mailer using an implicit-TLS SMTP dialer built from cfg.
func New(cfg config.SMTPConfig) *Mailer {
	dialer := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.Timeout = 30 * time.Second
	return NewWithDialer(cfg, dialer)
}

// NewWithDialer returns a Mailer that sends through dialer.
func NewWithDialer(cfg config.SMTPConfig, dialer Dialer) *Mailer {
	return &Mailer{cfg: cfg, dialer: dialer, now: time.Now, logger: slog.Default()}
}

// Configured reports whether the mailer has credentials to send with.
func (m *Mailer) Configured() bool {
	return m != nil && m.cfg.SMTPConfigured()
}

// Send validates req, builds the message and delivers it. It returns the
// generated Message-ID.
func (m *Mailer) Send(ctx context.Context, req Request) (string, error) {
	if !m.Configured() {
		return "", ErrNotConfigured
	}
	if err := m.validate(&req); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	msg, messageID, err := m.build(ctx, req)
	if err != nil {
		return "", err
	}
	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("report email failed", "to", req.To, "error", err)
		return "", fmt.Errorf("mailer: send: %w", err)
	}
	m.logger.Info("report email sent", "to", req.To, "message_id", messageID, "attachment", req.Attachment.Name)
	return messageID, nil
}

func (m *Mailer) validate(req *Request) error {
	req.To = strings.TrimSpace(req.To)
	if req.To == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidRequest)
	}
	if _, err := netmail.ParseAddress(req.To); err != nil {
		return fmt.Errorf("%w: invalid recipient %q", ErrInvalidRequest, req.To)
	}
	if strings.TrimSpace(req.Subject) == "" {
		req.Subject = DefaultSubject
	}
	if len(req.Attachment.Data) == 0 {
		return fmt.Errorf("%w: attachment is required", ErrInvalidRequest)
	}
	limit := m.cfg.MaxAttachmentBytes
	if limit <= 0 {
		limit = config.DefaultMaxAttachment
	}
	if int64(len(req.Attachment.Data)) > limit {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrAttachmentTooLarge, len(req.Attachment.Data), limit)
	}
	if req.Attachment.Name == "" {
		req.Attachment.Name = defaultAttachmentName(req.Attachment.Type)
	}
	return nil
}

func (m *Mailer) build(ctx context.Context, req Request) (*mail.Message, string, error) {
	sentAt := m.now()
	body, err := report.RenderEmail(ctx, report.Email{
		Summary:        req.Summary,
		SentAt:         sentAt,
		AttachmentName: req.Attachment.Name,
	})
	if err != nil {
		return nil, "", fmt.Errorf("mailer: render body: %w", err)
	}

	messageID := fmt.Sprintf("<%s@cukedash>", uuid.NewString())
	msg := mail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.Username, m.fromName())
	msg.SetHeader("To", req.To)
	msg.SetHeader("Subject", req.Subject)
	msg.SetHeader("Message-ID", messageID)
	msg.SetDateHeader("Date", sentAt)
	msg.SetBody("text/html", body)

	data := req.Attachment.Data
	msg.Attach(req.Attachment.Name,
		mail.SetCopyFunc(func(w io.Writer) error {
			_, err := io.Copy(w, bytes.NewReader(data))
			return err
		}),
		mail.SetHeader(map[string][]string{
			"Content-Type": {MIMEType(req.Attachment.Type)},
		}),
	)
	return msg, messageID, nil
}

func (m *Mailer) fromName() string {
	if m.cfg.FromName == "" {
		return config.DefaultFromName
	}
	return m.cfg.FromName
}

// MIMEType maps an attachment type to its content type.
func MIMEType(kind AttachmentType) string {
	if kind == AttachmentPDF {
		return "application/pdf"
	}
	return "image/jpeg"
}

func defaultAttachmentName(kind AttachmentType) string {
	if kind == AttachmentPDF {
		return "cucumber-report.pdf"
	}
	return "cucumber-report.jpg"
}
