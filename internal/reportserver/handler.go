package reportserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"cukedash/internal/config"
	"cukedash/internal/cucumber"
	"cukedash/internal/duckdb"
	"cukedash/internal/mailer"
	"cukedash/internal/report"
	"cukedash/internal/sample"
	"cukedash/internal/summary"
	"cukedash/internal/telemetry"
)

const (
	invalidReportMessage = "Upload failed: the file is not a valid Cucumber JSON report."
	tooLargeMessage      = "Upload failed: the file is larger than the upload limit."
	missingFileMessage   = "Choose a Cucumber JSON file to upload."
)

// NewHandler builds the HTTP handler for the dashboard, its API and assets.
func NewHandler(cfg Config) (http.Handler, error) {
	manifest, err := loadEmbeddedManifest()
	if err != nil {
		return nil, err
	}
	styles, err := newAssetResolver(cfg.AssetsBaseURL, manifest).styleURLs()
	if err != nil {
		return nil, err
	}
	assetsFS, err := embeddedAssetsFS()
	if err != nil {
		return nil, err
	}

	h := &handler{
		styles:        styles,
		maxUpload:     cfg.MaxUploadBytes,
		maxAttachment: cfg.MaxAttachmentBytes,
		duckdbPath:    cfg.DuckDBPath,
		sender:        cfg.Sender,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
		nowFn:         cfg.Now,
	}
	if h.maxUpload <= 0 {
		h.maxUpload = config.DefaultMaxUploadBytes
	}
	if h.maxAttachment <= 0 {
		h.maxAttachment = config.DefaultMaxAttachment
	}
	if h.metrics == nil {
		h.metrics = telemetry.NewMetrics()
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.nowFn == nil {
		h.nowFn = time.Now
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /upload", h.handleUpload)
	mux.HandleFunc("GET /example", h.handleExample)
	mux.HandleFunc("POST /export/pdf", h.handleExportPDF)
	mux.HandleFunc("POST /export/image", h.handleExportImage)
	mux.HandleFunc("POST /send", h.handleSend)
	mux.HandleFunc("POST /api/summary", h.handleAPISummary)
	mux.HandleFunc("GET /api/example", h.handleAPIExample)
	mux.HandleFunc("POST /api/send-report", h.handleAPISendReport)
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(assetsFS)))
	mux.Handle("GET /metrics", h.metrics.Handler())
	if h.duckdbPath != "" {
		mux.HandleFunc("GET /data/db.duckdb", h.serveDatabase)
	}
	return withRequestLog(h.logger, mux), nil
}

type handler struct {
	styles        []string
	maxUpload     int64
	maxAttachment int64
	duckdbPath    string
	sender        ReportSender
	metrics       *telemetry.Metrics
	logger        *slog.Logger
	nowFn         func() time.Time

	// dbMu guards the DuckDB export file between writers and downloads.
	dbMu sync.RWMutex
}

func (h *handler) mailEnabled() bool {
	return h.sender != nil && h.sender.Configured()
}

// renderPage writes the dashboard with the shared page settings filled in.
func (h *handler) renderPage(w http.ResponseWriter, r *http.Request, status int, page report.Page) {
	page.StyleURLs = h.styles
	page.MailEnabled = h.mailEnabled()
	if page.Summary != nil && page.SummaryJSON == "" {
		data, err := json.Marshal(page.Summary)
		if err != nil {
			http.Error(w, "encode summary", http.StatusInternalServerError)
			return
		}
		page.SummaryJSON = string(data)
	}
	html, err := report.RenderHTML(r.Context(), page)
	if err != nil {
		h.logger.Error("render dashboard", "error", err)
		http.Error(w, "render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}

func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, report.Page{})
}

func (h *handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	file, _, err := r.FormFile("report")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.renderPage(w, r, http.StatusRequestEntityTooLarge, report.Page{Error: tooLargeMessage})
			return
		}
		h.renderPage(w, r, http.StatusBadRequest, report.Page{Error: missingFileMessage})
		return
	}
	defer file.Close()

	parsed, err := cucumber.ReadReport(file)
	if err != nil {
		h.metrics.ParseErrors.Inc()
		h.logger.Warn("rejected upload", "error", err)
		h.renderPage(w, r, http.StatusBadRequest, report.Page{Error: invalidReportMessage})
		return
	}
	s := h.summarize(r.Context(), parsed, telemetry.SourceUpload)
	h.renderPage(w, r, http.StatusOK, report.Page{Summary: &s})
}

func (h *handler) handleExample(w http.ResponseWriter, r *http.Request) {
	s := h.summarize(r.Context(), sample.Report(), telemetry.SourceExample)
	h.renderPage(w, r, http.StatusOK, report.Page{Summary: &s, Notice: "Showing the bundled example report."})
}

// summarize aggregates a parsed report, counts it and refreshes the DuckDB export.
func (h *handler) summarize(ctx context.Context, parsed cucumber.Report, source string) summary.ReportSummary {
	s := summary.Summarize(parsed)
	h.metrics.ReportsSummarized.WithLabelValues(source).Inc()
	h.logger.Info("report summarized",
		"source", source,
		"features", s.TotalFeatures,
		"scenarios", s.TotalScenarios,
		"failed", s.FailedScenarios,
	)
	if source != telemetry.SourceExample {
		h.exportDuckDB(ctx, s)
	}
	return s
}

// exportDuckDB replaces the configured DuckDB file with an export of s.
func (h *handler) exportDuckDB(ctx context.Context, s summary.ReportSummary) {
	if h.duckdbPath == "" {
		return
	}
	h.dbMu.Lock()
	defer h.dbMu.Unlock()
	for _, path := range []string{h.duckdbPath, h.duckdbPath + ".wal"} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			h.logger.Error("remove previous duckdb export", "path", path, "error", err)
			return
		}
	}
	reportID, err := duckdb.ExportFile(ctx, h.duckdbPath, s, h.nowFn())
	if err != nil {
		h.logger.Error("duckdb export failed", "path", h.duckdbPath, "error", err)
		return
	}
	h.logger.Info("duckdb export written", "path", h.duckdbPath, "report_id", reportID)
}

// serveDatabase serves the DuckDB export for download.
func (h *handler) serveDatabase(w http.ResponseWriter, r *http.Request) {
	h.dbMu.RLock()
	defer h.dbMu.RUnlock()
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, h.duckdbPath)
}

// formSummary reads the summary JSON carried by the export forms.
func (h *handler) formSummary(w http.ResponseWriter, r *http.Request) (summary.ReportSummary, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseForm(); err != nil {
		return summary.ReportSummary{}, fmt.Errorf("reportserver: parse form: %w", err)
	}
	raw := r.PostFormValue("summary")
	if raw == "" {
		return summary.ReportSummary{}, errors.New("reportserver: summary is required")
	}
	var s summary.ReportSummary
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return summary.ReportSummary{}, fmt.Errorf("reportserver: decode summary: %w", err)
	}
	return s, nil
}

func (h *handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, formatPDF)
}

func (h *handler) handleExportImage(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, formatImage)
}

// serveExport renders the posted summary as a download.
func (h *handler) serveExport(w http.ResponseWriter, r *http.Request, format exportFormat) {
	s, err := h.formSummary(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	now := h.nowFn()
	data, err := h.render(format, s, now)
	if err != nil {
		http.Error(w, "render "+string(format.kind), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", mailer.MIMEType(format.kind))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.fileName(now)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *handler) handleSend(w http.ResponseWriter, r *http.Request) {
	s, err := h.formSummary(w, r)
	if err != nil {
		h.renderPage(w, r, http.StatusBadRequest, report.Page{Error: "The report summary is missing or invalid."})
		return
	}
	page := report.Page{Summary: &s}
	if !h.mailEnabled() {
		page.Error = "Email delivery is not configured."
		h.renderPage(w, r, http.StatusInternalServerError, page)
		return
	}
	format := formatPDF
	if r.PostFormValue("format") == string(mailer.AttachmentImage) {
		format = formatImage
	}
	now := h.nowFn()
	data, err := h.render(format, s, now)
	if err != nil {
		page.Error = "The report attachment could not be generated."
		h.renderPage(w, r, http.StatusInternalServerError, page)
		return
	}
	to := r.PostFormValue("to")
	_, err = h.send(r.Context(), mailerRequest(to, r.PostFormValue("subject"), s, format.fileName(now), string(format.kind), data))
	if err != nil {
		page.Error = "The report could not be sent: " + err.Error()
		h.renderPage(w, r, sendStatus(err), page)
		return
	}
	page.Notice = "Report sent to " + to + "."
	h.renderPage(w, r, http.StatusOK, page)
}

// exportFormat is a downloadable rendering of the dashboard.
type exportFormat struct {
	kind mailer.AttachmentType
	ext  string
}

var (
	formatPDF   = exportFormat{kind: mailer.AttachmentPDF, ext: ".pdf"}
	formatImage = exportFormat{kind: mailer.AttachmentImage, ext: ".jpg"}
)

func (f exportFormat) fileName(now time.Time) string {
	return "cucumber-report-" + now.Format("2006-01-02") + f.ext
}

// render renders s in the given format and counts the export.
func (h *handler) render(format exportFormat, s summary.ReportSummary, now time.Time) ([]byte, error) {
	renderer, counter := pdfRenderer, h.metrics.PDFExports
	if format.kind == mailer.AttachmentImage {
		renderer, counter = imageRenderer, h.metrics.ImageExports
	}
	data, err := renderer(s, now)
	if err != nil {
		h.logger.Error("export failed", "format", format.kind, "error", err)
		return nil, err
	}
	counter.Inc()
	return data, nil
}
