package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dashboard collectors on a dedicated registry.
type Metrics struct {
	registry          *prometheus.Registry
	ReportsSummarized *prometheus.CounterVec
	ParseErrors       prometheus.Counter
	MailSent          *prometheus.CounterVec
	PDFExports        prometheus.Counter
	ImageExports      prometheus.Counter
}

// Label values for MailSent and ReportsSummarized.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	SourceUpload  = "upload"
	SourceAPI     = "api"
	SourceExample = "example"
)

// NewMetrics registers the dashboard collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ReportsSummarized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cukedash_reports_summarized_total",
			Help: "Reports summarized, by input source.",
		}, []string{"source"}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cukedash_report_parse_errors_total",
			Help: "Uploaded documents rejected as invalid Cucumber reports.",
		}),
		MailSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cukedash_mail_sent_total",
			Help: "Report emails attempted, by outcome.",
		}, []string{"outcome"}),
		PDFExports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cukedash_pdf_exports_total",
			Help: "PDF reports rendered.",
		}),
		ImageExports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cukedash_image_exports_total",
			Help: "JPEG dashboard images rendered.",
		}),
	}
	m.registry.MustRegister(m.ReportsSummarized, m.ParseErrors, m.MailSent, m.PDFExports, m.ImageExports)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// MailOutcome maps a delivery error to an outcome label.
func MailOutcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
