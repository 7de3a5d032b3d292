package nlq

import (
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testParams(host string) ExtractedParams {
	return ExtractedParams{
		Host:            host,
		Threshold:       80,
		Window:          ResolveWindow("24h", testNow),
		DurationMinutes: 60,
	}
}

func TestSQLArtifactsWithoutHostClause(t *testing.T) {
	intents := []Intent{
		IntentHighCPU,
		IntentMemoryUsage,
		IntentHostStatus,
		IntentHostUptime,
		IntentUnavailableServices,
		IntentAlertSummary,
	}

	for _, intent := range intents {
		artifact := synthesize(intent, testParams(""), "", testNow)
		sqlArt, ok := artifact.(SQLArtifact)
		if !ok {
			t.Fatalf("intent %v: expected SQLArtifact, got %T", intent, artifact)
		}
		if strings.Contains(sqlArt.Text, ":host_pattern") {
			t.Errorf("intent %v: host clause present without an extracted host", intent)
		}
		if _, ok := sqlArt.Bindings["host_pattern"]; ok {
			t.Errorf("intent %v: host_pattern bound without an extracted host", intent)
		}
		assertBalancedSkeleton(t, intent, sqlArt)
	}
}

func TestSQLArtifactsWithHostClause(t *testing.T) {
	intents := []Intent{
		IntentHighCPU,
		IntentMemoryUsage,
		IntentHostStatus,
		IntentHostUptime,
		IntentUnavailableServices,
		IntentAlertSummary,
	}

	for _, intent := range intents {
		artifact := synthesize(intent, testParams("app01"), "", testNow)
		sqlArt, ok := artifact.(SQLArtifact)
		if !ok {
			t.Fatalf("intent %v: expected SQLArtifact, got %T", intent, artifact)
		}
		if !strings.Contains(sqlArt.Text, "h.name LIKE :host_pattern") {
			t.Errorf("intent %v: missing host clause", intent)
		}
		if sqlArt.Bindings["host_pattern"] != "%app01%" {
			t.Errorf("intent %v: host_pattern binding = %v, want %%app01%%", intent, sqlArt.Bindings["host_pattern"])
		}
		assertBalancedSkeleton(t, intent, sqlArt)
	}
}

// assertBalancedSkeleton checks the generated statement parses as a
// plausible SELECT skeleton: one statement, balanced parentheses, every
// :name placeholder bound, WHERE preceding GROUP BY preceding ORDER BY.
func assertBalancedSkeleton(t *testing.T, intent Intent, artifact SQLArtifact) {
	t.Helper()

	text := artifact.Text
	if !strings.HasPrefix(text, "SELECT ") {
		t.Errorf("intent %v: statement does not start with SELECT", intent)
	}
	if strings.Contains(text, ";") {
		t.Errorf("intent %v: statement contains a terminator", intent)
	}

	depth := 0
	for _, r := range text {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth < 0 {
			t.Fatalf("intent %v: unbalanced parentheses", intent)
		}
	}
	if depth != 0 {
		t.Errorf("intent %v: unbalanced parentheses", intent)
	}

	for _, clause := range []string{"WHERE", "GROUP BY", "ORDER BY"} {
		if strings.Count(text, clause) > 1 {
			t.Errorf("intent %v: clause %q appears more than once", intent, clause)
		}
	}
	where := strings.Index(text, "WHERE")
	group := strings.Index(text, "GROUP BY")
	order := strings.Index(text, "ORDER BY")
	if group >= 0 && where > group {
		t.Errorf("intent %v: WHERE after GROUP BY", intent)
	}
	if order >= 0 && group > order {
		t.Errorf("intent %v: GROUP BY after ORDER BY", intent)
	}

	for _, name := range []string{"from_time", "to_time", "threshold", "host_pattern"} {
		placeholder := ":" + name
		_, bound := artifact.Bindings[name]
		if strings.Contains(text, placeholder) && !bound {
			t.Errorf("intent %v: placeholder %s has no binding", intent, placeholder)
		}
		if bound && !strings.Contains(text, placeholder) {
			t.Errorf("intent %v: binding %s has no placeholder", intent, name)
		}
	}
}

func TestMaintenanceRPC(t *testing.T) {
	params := testParams("app01")
	params.DurationMinutes = 120

	artifact := synthesize(IntentHostMaintenance, params, "", testNow)
	rpc, ok := artifact.(RPCArtifact)
	if !ok {
		t.Fatalf("expected RPCArtifact, got %T", artifact)
	}
	if rpc.Method != "maintenance.create" {
		t.Errorf("method = %q, want maintenance.create", rpc.Method)
	}

	hostIDs, ok := rpc.Params["hostids"].([]string)
	if !ok || len(hostIDs) != 0 {
		t.Errorf("hostids = %v, want empty slice", rpc.Params["hostids"])
	}

	periods, ok := rpc.Params["timeperiods"].([]TimePeriod)
	if !ok || len(periods) != 1 {
		t.Fatalf("timeperiods = %v, want one entry", rpc.Params["timeperiods"])
	}
	if periods[0].Period != 7200 {
		t.Errorf("timeperiods[0].Period = %d, want 7200", periods[0].Period)
	}
	if periods[0].Type != 0 {
		t.Errorf("timeperiods[0].Type = %d, want 0", periods[0].Type)
	}

	till, _ := rpc.Params["active_till"].(int64)
	since, _ := rpc.Params["active_since"].(int64)
	if till-since != 7200 {
		t.Errorf("maintenance span = %d seconds, want 7200", till-since)
	}
}

func TestChartSpec(t *testing.T) {
	cases := []struct {
		text  string
		label string
	}{
		{"gerar gráfico de cpu", "CPU %"},
		{"gerar gráfico de memória", "Memória %"},
		{"mostrar chart de disco", "Disco %"},
	}

	for _, tc := range cases {
		artifact := synthesize(IntentGraphRequest, testParams(""), Normalize(tc.text), testNow)
		chart, ok := artifact.(ChartArtifact)
		if !ok {
			t.Fatalf("expected ChartArtifact, got %T", artifact)
		}
		if chart.ChartType != "line" {
			t.Errorf("chartType = %q, want line", chart.ChartType)
		}
		if len(chart.Labels) != 0 {
			t.Errorf("labels = %v, want empty", chart.Labels)
		}
		if len(chart.Datasets) != 1 {
			t.Fatalf("datasets = %d, want 1", len(chart.Datasets))
		}
		if chart.Datasets[0].Label != tc.label {
			t.Errorf("dataset label = %q, want %q", chart.Datasets[0].Label, tc.label)
		}
		if len(chart.Datasets[0].Data) != 0 {
			t.Errorf("dataset data = %v, want empty", chart.Datasets[0].Data)
		}
	}
}

func TestUnsupportedIntents(t *testing.T) {
	for _, intent := range []Intent{IntentDiskUsage, IntentGeneralQuery} {
		artifact := synthesize(intent, testParams(""), "", testNow)
		if _, ok := artifact.(Unsupported); !ok {
			t.Errorf("intent %v: expected Unsupported, got %T", intent, artifact)
		}
	}
}
