package reportserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cukedash/internal/cucumber"
	"cukedash/internal/export"
	"cukedash/internal/mailer"
	"cukedash/internal/sample"
	"cukedash/internal/summary"
	"cukedash/internal/telemetry"
)

var (
	pdfRenderer   = export.RenderPDF
	imageRenderer = export.RenderJPEG
)

// sendReportRequest is the body of POST /api/send-report.
type sendReportRequest struct {
	To         string                `json:"to"`
	Subject    string                `json:"subject"`
	Summary    summary.ReportSummary `json:"summary"`
	FileBase64 string                `json:"fileBase64"`
	FileName   string                `json:"fileName"`
	FileType   string                `json:"fileType"`
}

func (h *handler) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUpload))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "report exceeds upload limit")
			return
		}
		writeError(w, http.StatusBadRequest, "read request body")
		return
	}
	parsed, err := cucumber.ParseReport(body)
	if err != nil {
		h.metrics.ParseErrors.Inc()
		writeError(w, http.StatusBadRequest, cucumber.ErrInvalidReport.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.summarize(r.Context(), parsed, telemetry.SourceAPI))
}

func (h *handler) handleAPIExample(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.summarize(r.Context(), sample.Report(), telemetry.SourceExample))
}

func (h *handler) handleAPISendReport(w http.ResponseWriter, r *http.Request) {
	if !h.mailEnabled() {
		writeSendError(w, http.StatusInternalServerError, mailer.ErrNotConfigured.Error())
		return
	}
	// base64 inflates by 4/3; leave headroom for the summary.
	limit := h.maxAttachment/3*4 + h.maxUpload
	var req sendReportRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := decoder.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeSendError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeSendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.To) == "" || req.FileBase64 == "" || req.FileName == "" {
		writeSendError(w, http.StatusBadRequest, "missing required fields: to, fileBase64, fileName")
		return
	}
	encoded := stripDataURL(req.FileBase64)
	if estimated := int64(len(encoded)) * 3 / 4; estimated > h.maxAttachment {
		writeSendError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file is too large (%.1fMB); the limit is %.1fMB", megabytes(estimated), megabytes(h.maxAttachment)))
		return
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		writeSendError(w, http.StatusBadRequest, "fileBase64 is not valid base64")
		return
	}

	messageID, err := h.send(r.Context(), mailerRequest(req.To, req.Subject, req.Summary, req.FileName, req.FileType, data))
	if err != nil {
		writeSendError(w, sendStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sendReportResponse{Success: true, MessageID: messageID})
}

// send delivers req and records the outcome.
func (h *handler) send(ctx context.Context, req mailer.Request) (string, error) {
	messageID, err := h.sender.Send(ctx, req)
	h.metrics.MailSent.WithLabelValues(telemetry.MailOutcome(err)).Inc()
	if err != nil {
		h.logger.Error("report delivery failed", "to", req.To, "error", err)
		return "", err
	}
	return messageID, nil
}

func mailerRequest(to, subject string, s summary.ReportSummary, fileName, fileType string, data []byte) mailer.Request {
	return mailer.Request{
		To:      to,
		Subject: subject,
		Summary: s,
		Attachment: mailer.Attachment{
			Name: fileName,
			Type: mailer.AttachmentType(fileType),
			Data: data,
		},
	}
}

// sendStatus maps a delivery error to an HTTP status.
func sendStatus(err error) int {
	switch {
	case errors.Is(err, mailer.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, mailer.ErrAttachmentTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// stripDataURL drops a "data:<type>;base64," prefix if present.
func stripDataURL(value string) string {
	if !strings.HasPrefix(value, "data:") {
		return value
	}
	if _, payload, ok := strings.Cut(value, ","); ok {
		return payload
	}
	return value
}

func megabytes(n int64) float64 {
	return float64(n) / 1024 / 1024
}
