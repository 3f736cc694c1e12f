package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"cukedash/internal/config"
	"cukedash/internal/mailer"
)

type fakeSender struct {
	configured bool
	err        error
	requests   []mailer.Request
	cfg        config.SMTPConfig
}

func (f *fakeSender) Configured() bool { return f.configured }

func (f *fakeSender) Send(_ context.Context, req mailer.Request) (string, error) {
	f.requests = append(f.requests, req)
	return "<id@cukedash>", f.err
}

func stubSender(t *testing.T, sender *fakeSender) {
	t.Helper()
	original := newSender
	newSender = func(cfg config.SMTPConfig) reportSender {
		sender.cfg = cfg
		return sender
	}
	t.Cleanup(func() { newSender = original })
}

// TestSendDeliversPDF verifies send renders a PDF and hands it to the mailer.
func TestSendDeliversPDF(t *testing.T) {
	stubNow(t)
	clearSMTPEnv(t)
	t.Setenv("GMAIL_USER", "reports@example.com")
	t.Setenv("GMAIL_APP_PASSWORD", "secret")
	sender := &fakeSender{configured: true}
	stubSender(t, sender)
	cfgPath := writeConfigFile(t, "smtp:\n  from_name: QA Bot\n")

	var stdout, stderr bytes.Buffer
	code := Run([]string{"send", "--to", "qa@example.com", "--config", cfgPath, writeReportFile(t)}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("expected ok exit, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Sent report to qa@example.com (<id@cukedash>)") {
		t.Fatalf("unexpected output %q", stdout.String())
	}
	if sender.cfg.Username != "reports@example.com" || sender.cfg.FromName != "QA Bot" {
		t.Fatalf("unexpected smtp config: %+v", sender.cfg)
	}
	req := sender.requests[0]
	if req.Subject != mailer.DefaultSubject || req.Attachment.Name != "cucumber-report-2026-03-01.pdf" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if !bytes.HasPrefix(req.Attachment.Data, []byte("%PDF")) {
		t.Fatalf("expected PDF attachment")
	}
}

// TestSendFailures verifies missing recipients, credentials and delivery errors.
func TestSendFailures(t *testing.T) {
	clearSMTPEnv(t)
	cfgPath := writeConfigFile(t, "")
	cases := []struct {
		name   string
		args   []string
		sender *fakeSender
		want   int
	}{
		{name: "missing to", args: []string{"send", "--example"}, sender: &fakeSender{configured: true}, want: ExitUsage},
		{name: "not configured", args: []string{"send", "--to", "qa@example.com", "--config", cfgPath, "--example"}, sender: &fakeSender{}, want: ExitError},
		{name: "invalid request", args: []string{"send", "--to", "qa", "--config", cfgPath, "--example"}, sender: &fakeSender{configured: true, err: mailer.ErrInvalidRequest}, want: ExitUsage},
		{name: "smtp error", args: []string{"send", "--to", "qa@example.com", "--config", cfgPath, "--example"}, sender: &fakeSender{configured: true, err: errors.New("535")}, want: ExitError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stubSender(t, tc.sender)
			var stdout, stderr bytes.Buffer
			if code := Run(tc.args, &stdout, &stderr); code != tc.want {
				t.Fatalf("expected exit %d, got %d: %s", tc.want, code, stderr.String())
			}
		})
	}
}

// TestSendDeliversImage verifies --format image attaches a JPEG of the dashboard.
func TestSendDeliversImage(t *testing.T) {
	stubNow(t)
	clearSMTPEnv(t)
	t.Setenv("GMAIL_USER", "reports@example.com")
	t.Setenv("GMAIL_APP_PASSWORD", "secret")
	sender := &fakeSender{configured: true}
	stubSender(t, sender)
	cfgPath := writeConfigFile(t, "")

	var stdout, stderr bytes.Buffer
	code := Run([]string{"send", "--to", "qa@example.com", "--format", "IMAGE", "--config", cfgPath, "--example"}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("expected ok exit, got %d: %s", code, stderr.String())
	}
	attachment := sender.requests[0].Attachment
	if attachment.Name != "cucumber-report-2026-03-01.jpg" || attachment.Type != mailer.AttachmentImage {
		t.Fatalf("unexpected attachment %q (%s)", attachment.Name, attachment.Type)
	}
	if !bytes.HasPrefix(attachment.Data, []byte{0xff, 0xd8, 0xff}) {
		t.Fatalf("expected JPEG attachment")
	}
}

// TestSendRejectsUnknownFormat verifies an unsupported attachment format is a usage error.
func TestSendRejectsUnknownFormat(t *testing.T) {
	sender := &fakeSender{configured: true}
	stubSender(t, sender)

	var stdout, stderr bytes.Buffer
	code := Run([]string{"send", "--to", "qa@example.com", "--format", "gif", "--example"}, &stdout, &stderr)
	if code != ExitUsage {
		t.Fatalf("expected usage exit, got %d", code)
	}
	if !strings.Contains(stderr.String(), `invalid format "gif"`) || len(sender.requests) != 0 {
		t.Fatalf("unexpected result: %q, %d requests", stderr.String(), len(sender.requests))
	}
}
