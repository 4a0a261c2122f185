package metrics

import (
	"net/http"
	"time"

	"github.com/pkg/errors"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docusaurus_ssg"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg              *prom.Registry
	pageDuration     *prom.HistogramVec
	pageResults      *prom.CounterVec
	inFlight         prom.Gauge
	concurrency      prom.Gauge
	generateDuration *prom.HistogramVec
}

// NewPrometheusRecorder constructs the generation metrics and registers them
// on reg. A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		pageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "page_duration_seconds",
			Help:      "Time to render and write a single static page",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		pageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "page_results_total",
			Help:      "Rendered pages by outcome",
		}, []string{"result"}),
		inFlight: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "pages_in_flight",
			Help:      "Pages currently being rendered",
		}),
		concurrency: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "concurrency",
			Help:      "Configured render concurrency cap",
		}),
		generateDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "generate_duration_seconds",
			Help:      "Total static generation duration",
			Buckets:   prom.DefBuckets,
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.pageDuration, pr.pageResults, pr.inFlight, pr.concurrency, pr.generateDuration)
	return pr
}

func (p *PrometheusRecorder) ObservePageDuration(d time.Duration, result ResultLabel) {
	if p == nil {
		return
	}
	p.pageDuration.WithLabelValues(string(result)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPageResult(result ResultLabel) {
	if p == nil {
		return
	}
	p.pageResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncInFlight() {
	if p == nil {
		return
	}
	p.inFlight.Inc()
}

func (p *PrometheusRecorder) DecInFlight() {
	if p == nil {
		return
	}
	p.inFlight.Dec()
}

func (p *PrometheusRecorder) SetConcurrency(n int) {
	if p == nil {
		return
	}
	p.concurrency.Set(float64(n))
}

func (p *PrometheusRecorder) ObserveGenerateDuration(d time.Duration, success bool) {
	if p == nil {
		return
	}
	outcome := "failed"
	if success {
		outcome = "success"
	}
	p.generateDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

// HTTPHandler serves the recorder's registry.
func (p *PrometheusRecorder) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// WriteTextfile dumps the registry in the text exposition format, for
// node_exporter's textfile collector.
func (p *PrometheusRecorder) WriteTextfile(filename string) error {
	if err := prom.WriteToTextfile(filename, p.reg); err != nil {
		return errors.Wrapf(err, "writing metrics to %s", filename)
	}
	return nil
}
