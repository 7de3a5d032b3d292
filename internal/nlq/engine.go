package nlq

import (
	"fmt"
	"time"
)

const (
	defaultThresholdPct    = 80
	defaultDurationMinutes = 60
)

// ExtractedParams holds everything the probes pulled out of a query.
// Host is empty when no host keyword matched; Threshold and
// DurationMinutes carry engine defaults when the query had none; Window
// always resolves, falling back to the last 24 hours.
type ExtractedParams struct {
	Host            string     `json:"host,omitempty"`
	Threshold       int        `json:"threshold"`
	Window          TimeWindow `json:"window"`
	DurationMinutes int        `json:"duration_minutes"`
}

// QueryResult is the engine's only output: the classified intent, the
// extracted parameters, the synthesized artifact and a short narrative
// describing what was produced.
type QueryResult struct {
	Intent    Intent          `json:"-"`
	Params    ExtractedParams `json:"params"`
	Artifact  Artifact        `json:"artifact"`
	Narrative string          `json:"narrative"`
}

// Engine turns free-text monitoring questions into executable artifacts.
// It is pure computation over read-only pattern tables: no I/O, no
// per-request state, safe for unlimited concurrent callers.
type Engine struct {
	now                func() time.Time
	defaultThreshold   int
	defaultDurationMin int
}

type Option func(*Engine)

// WithClock overrides the engine's wall clock. Used by callers that need
// deterministic time windows, primarily tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithDefaults overrides the threshold percentage and maintenance
// duration (minutes) applied when a query mentions neither.
func WithDefaults(thresholdPct, durationMin int) Option {
	return func(e *Engine) {
		if thresholdPct > 0 {
			e.defaultThreshold = thresholdPct
		}
		if durationMin > 0 {
			e.defaultDurationMin = durationMin
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:                time.Now,
		defaultThreshold:   defaultThresholdPct,
		defaultDurationMin: defaultDurationMinutes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process runs the full pipeline: normalize, classify, extract, resolve
// the time window, synthesize, narrate. Every path returns a valid
// QueryResult; unanswerable queries carry an Unsupported artifact, never
// an error.
func (e *Engine) Process(rawText string) QueryResult {
	text := Normalize(rawText)
	now := e.now()

	intent := Classify(text)

	params := ExtractedParams{
		Host:            ExtractHost(text),
		Threshold:       ExtractThreshold(text, e.defaultThreshold),
		Window:          ResolveWindow(ExtractTimeWindowToken(text), now),
		DurationMinutes: ExtractDuration(text, e.defaultDurationMin),
	}

	// Maintenance needs a host before anything can be scheduled.
	if intent == IntentHostMaintenance && params.Host == "" {
		return QueryResult{
			Intent:    intent,
			Params:    params,
			Artifact:  Unsupported{Reason: "maintenance request without a host"},
			Narrative: "Para agendar uma manutenção, informe o host (ex: \"colocar host app01 em manutenção por 2 horas\").",
		}
	}

	artifact := synthesize(intent, params, text, now)

	return QueryResult{
		Intent:    intent,
		Params:    params,
		Artifact:  artifact,
		Narrative: narrate(intent, params, artifact),
	}
}

func narrate(intent Intent, params ExtractedParams, artifact Artifact) string {
	hostSuffix := ""
	if params.Host != "" {
		hostSuffix = fmt.Sprintf(" no host %s", params.Host)
	}

	switch intent {
	case IntentHighCPU:
		return fmt.Sprintf("Consulta gerada: hosts com CPU acima de %d%% nas últimas %s%s.", params.Threshold, params.Window.Label, hostSuffix)
	case IntentMemoryUsage:
		return fmt.Sprintf("Consulta gerada: hosts com uso de memória acima de %d%% nas últimas %s%s.", params.Threshold, params.Window.Label, hostSuffix)
	case IntentHostStatus:
		return fmt.Sprintf("Consulta gerada: status atual dos hosts%s.", hostSuffix)
	case IntentHostUptime:
		return fmt.Sprintf("Consulta gerada: uptime dos hosts%s.", hostSuffix)
	case IntentUnavailableServices:
		return fmt.Sprintf("Consulta gerada: serviços indisponíveis%s.", hostSuffix)
	case IntentAlertSummary:
		return fmt.Sprintf("Consulta gerada: resumo de alertas das últimas %s%s.", params.Window.Label, hostSuffix)
	case IntentHostMaintenance:
		return fmt.Sprintf("Manutenção preparada para o host %s por %d minutos. A execução depende de aprovação.", params.Host, params.DurationMinutes)
	case IntentGraphRequest:
		if chart, ok := artifact.(ChartArtifact); ok {
			return fmt.Sprintf("Especificação de gráfico gerada: %s (últimas %s).", chart.Title, params.Window.Label)
		}
		return fmt.Sprintf("Especificação de gráfico gerada (últimas %s).", params.Window.Label)
	default:
		return "Não consegui mapear a pergunta para uma consulta de monitoramento. Tente reformular ou pergunte sobre CPU, memória, disco, status, uptime, alertas ou manutenção."
	}
}
