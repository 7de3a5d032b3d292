package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ops_agent_query_duration_seconds",
			Help:    "Query processing duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"intent"},
	)

	QueryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ops_agent_query_total",
			Help: "Total number of queries processed",
		},
		[]string{"intent", "status"},
	)

	ArtifactTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ops_agent_artifact_total",
			Help: "Total number of artifacts synthesized by kind",
		},
		[]string{"kind"},
	)

	SQLExecutionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ops_agent_sql_execution_duration_seconds",
			Help:    "Replica SQL execution duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	SQLRowsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ops_agent_sql_rows_returned",
			Help:    "Rows returned per executed query",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500},
		},
	)

	ZabbixCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ops_agent_zabbix_calls_total",
			Help: "Total Zabbix API calls",
		},
		[]string{"method", "status"},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ops_agent_llm_tokens_used",
			Help: "Total LLM tokens used",
		},
		[]string{"model", "type"},
	)

	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ops_agent_cache_hits_total",
			Help: "Total query cache hits",
		},
	)

	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ops_agent_cache_misses_total",
			Help: "Total query cache misses",
		},
	)

	UserSatisfaction = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ops_agent_feedback_total",
			Help: "User feedback by helpfulness",
		},
		[]string{"helpful"},
	)

	WebsocketConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ops_agent_websocket_connections",
			Help: "Active websocket connections",
		},
	)
)

func Init() {
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(QueryTotal)
	prometheus.MustRegister(ArtifactTotal)
	prometheus.MustRegister(SQLExecutionDuration)
	prometheus.MustRegister(SQLRowsReturned)
	prometheus.MustRegister(ZabbixCallsTotal)
	prometheus.MustRegister(LLMTokensUsed)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(UserSatisfaction)
	prometheus.MustRegister(WebsocketConnections)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
