package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	subsystem = "content_pipeline"

	// Labels
	statusLabel  = "status"
	purposeLabel = "purpose"
	outcomeLabel = "outcome"
	tenantLabel  = "tenant"
	kindLabel    = "kind"
)

/**
* Metrics definition
**/
var itemsProcessedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "items_processed_total",
		Help:      "number of work items reaching a terminal status",
	},
	[]string{statusLabel},
)

var providerCallsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "provider_calls_total",
		Help:      "number of text generation provider invocations",
	},
	[]string{purposeLabel, outcomeLabel},
)

var tokensConsumedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "tokens_consumed_total",
		Help:      "total provider tokens consumed per tenant",
	},
	[]string{tenantLabel},
)

var fallbackDraftsTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "fallback_drafts_total",
		Help:      "number of deterministic fallback drafts synthesized",
	},
)

var artifactFailuresTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "artifact_failures_total",
		Help:      "number of per-kind artifact persistence failures",
	},
	[]string{kindLabel},
)

func IncreaseItemsProcessedTotal(status string) {
	itemsProcessedTotalMetric.WithLabelValues(status).Inc()
}

func IncreaseProviderCallsTotal(purpose, outcome string) {
	providerCallsTotalMetric.WithLabelValues(purpose, outcome).Inc()
}

func AddTokensConsumedTotal(tenant string, tokens int) {
	tokensConsumedTotalMetric.WithLabelValues(tenant).Add(float64(tokens))
}

func IncreaseFallbackDraftsTotal() {
	fallbackDraftsTotalMetric.Inc()
}

func IncreaseArtifactFailuresTotal(kind string) {
	artifactFailuresTotalMetric.WithLabelValues(kind).Inc()
}

type PrometheusMetricsHandler struct {
	registry *prometheus.Registry
}

func NewPrometheusMetricsHandler() *PrometheusMetricsHandler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		itemsProcessedTotalMetric,
		providerCallsTotalMetric,
		tokensConsumedTotalMetric,
		fallbackDraftsTotalMetric,
		artifactFailuresTotalMetric,
	)
	return &PrometheusMetricsHandler{registry: registry}
}

func (p *PrometheusMetricsHandler) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
