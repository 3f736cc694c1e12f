package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"cukedash/internal/config"
	"cukedash/internal/export"
	"cukedash/internal/mailer"
	"cukedash/internal/summary"
)

// reportSender delivers a report email.
type reportSender interface {
	Configured() bool
	Send(ctx context.Context, req mailer.Request) (string, error)
}

// newSender is a test seam for building the mail transport.
var newSender = func(cfg config.SMTPConfig) reportSender {
	return mailer.New(cfg)
}

type attachmentFormat struct {
	kind   mailer.AttachmentType
	ext    string
	render func(summary.ReportSummary, time.Time) ([]byte, error)
}

var attachmentFormats = map[string]attachmentFormat{
	"pdf":   {mailer.AttachmentPDF, ".pdf", export.RenderPDF},
	"image": {mailer.AttachmentImage, ".jpg", export.RenderJPEG},
}

// runSend builds the handler for the send command.
func runSend(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		to := flags.String("to", "", "Recipient email address")
		subject := flags.String("subject", mailer.DefaultSubject, "Email subject")
		format := flags.String("format", "pdf", "Attachment format: pdf|image")
		configPath := flags.String("config", "", "Path to config file (default: search for .cukedash.yml)")
		example := flags.Bool("example", false, "Use the bundled example report")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if strings.TrimSpace(*to) == "" {
			fmt.Fprintln(stderr, "Missing --to")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		attachment, ok := attachmentFormats[strings.ToLower(strings.TrimSpace(*format))]
		if !ok {
			fmt.Fprintf(stderr, "invalid format %q (expected pdf|image)\n", *format)
			return ExitUsage
		}

		report, code, ok := loadReportArg(cmd, flags.Args(), *example, stderr)
		if !ok {
			return code
		}
		cfg, closer, err := loadConfig(*configPath, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Config error:\n%v\n", err)
			return ExitError
		}
		defer closer.Close()

		sender := newSender(cfg.SMTP)
		if !sender.Configured() {
			fmt.Fprintln(stderr, "SMTP credentials are not configured; set GMAIL_USER and GMAIL_APP_PASSWORD.")
			return ExitError
		}

		s := summary.Summarize(report)
		generatedAt := now()
		data, err := attachment.render(s, generatedAt)
		if err != nil {
			fmt.Fprintf(stderr, "Export failed: %v\n", err)
			return ExitError
		}
		messageID, err := sender.Send(context.Background(), mailer.Request{
			To:      *to,
			Subject: *subject,
			Summary: s,
			Attachment: mailer.Attachment{
				Name: "cucumber-report-" + generatedAt.Format("2006-01-02") + attachment.ext,
				Type: attachment.kind,
				Data: data,
			},
		})
		if err != nil {
			fmt.Fprintf(stderr, "Send failed: %v\n", err)
			if errors.Is(err, mailer.ErrInvalidRequest) {
				return ExitUsage
			}
			return ExitError
		}
		fmt.Fprintf(stdout, "Sent report to %s (%s)\n", *to, messageID)
		return ExitOK
	}
}
