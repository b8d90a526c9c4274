package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "transpileconf"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	resolveDuration *prom.HistogramVec
	resolveResults  *prom.CounterVec
	sourceSelected  *prom.CounterVec
	hookDuration    *prom.HistogramVec
	hookFragments   *prom.HistogramVec
	watchReloads    *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		resolveDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Duration of configuration resolutions",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		resolveResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_results_total",
			Help:      "Resolution results by stage and outcome",
		}, []string{"stage", "result"}),
		sourceSelected: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "source_selected_total",
			Help:      "Which configuration source formed the base of a resolution",
		}, []string{"source"}),
		hookDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "hook_duration_seconds",
			Help:      "Time spent running extensions for a hook event",
			Buckets:   prom.DefBuckets,
		}, []string{"event"}),
		hookFragments: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "hook_fragments",
			Help:      "Number of fragments contributed per hook event",
			Buckets:   []float64{0, 1, 2, 4, 8, 16},
		}, []string{"event"}),
		watchReloads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "watch_reloads_total",
			Help:      "Re-resolutions triggered by file changes",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.resolveDuration, pr.resolveResults, pr.sourceSelected,
		pr.hookDuration, pr.hookFragments, pr.watchReloads)
	return pr
}

func (p *PrometheusRecorder) ObserveResolveDuration(stage string, d time.Duration) {
	if p == nil || p.resolveDuration == nil {
		return
	}
	p.resolveDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncResolveResult(stage string, result ResultLabel) {
	if p == nil || p.resolveResults == nil {
		return
	}
	p.resolveResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncSourceSelected(source string) {
	if p == nil || p.sourceSelected == nil {
		return
	}
	p.sourceSelected.WithLabelValues(source).Inc()
}

func (p *PrometheusRecorder) ObserveHookDuration(event string, d time.Duration) {
	if p == nil || p.hookDuration == nil {
		return
	}
	p.hookDuration.WithLabelValues(event).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveHookFragments(event string, n int) {
	if p == nil || p.hookFragments == nil {
		return
	}
	p.hookFragments.WithLabelValues(event).Observe(float64(n))
}

func (p *PrometheusRecorder) IncWatchReload(result ResultLabel) {
	if p == nil || p.watchReloads == nil {
		return
	}
	p.watchReloads.WithLabelValues(string(result)).Inc()
}
