package nlq

import (
	"fmt"
	"strings"
	"time"
)

// MaintenanceMethod is the monitoring-API method emitted for host
// maintenance requests.
const MaintenanceMethod = "maintenance.create"

// synthesize combines the classified intent and extracted parameters into
// an artifact. Pure data transformation: no path contacts a network
// resource. Intents without a template yield Unsupported.
func synthesize(intent Intent, params ExtractedParams, text string, now time.Time) Artifact {
	switch intent {
	case IntentHighCPU:
		return highCPUSQL(params)
	case IntentMemoryUsage:
		return memoryUsageSQL(params)
	case IntentHostStatus:
		return hostStatusSQL(params)
	case IntentHostUptime:
		return hostUptimeSQL(params)
	case IntentUnavailableServices:
		return unavailableServicesSQL(params)
	case IntentAlertSummary:
		return alertSummarySQL(params)
	case IntentHostMaintenance:
		return maintenanceRPC(params, now)
	case IntentGraphRequest:
		return chartSpec(params, text)
	default:
		return Unsupported{Reason: fmt.Sprintf("no artifact template for intent %q", intent)}
	}
}

// hostClause appends the optional host filter. It is a structural branch
// rather than a bound parameter: the base statement must stay valid SQL
// with or without it.
func hostClause(b *strings.Builder, bindings map[string]interface{}, host, prefix string) {
	if host == "" {
		return
	}
	b.WriteString(prefix)
	b.WriteString(" h.name LIKE :host_pattern")
	bindings["host_pattern"] = "%" + host + "%"
}

func highCPUSQL(params ExtractedParams) SQLArtifact {
	bindings := map[string]interface{}{
		"from_time": params.Window.From.Unix(),
		"to_time":   params.Window.To.Unix(),
		"threshold": params.Threshold,
	}

	var b strings.Builder
	b.WriteString(`SELECT h.hostid, h.name,
       100 - AVG(hu.value) AS cpu_usage
FROM hosts h
JOIN items i ON h.hostid = i.hostid
JOIN history_uint hu ON i.itemid = hu.itemid
WHERE i.key_ = 'system.cpu.util[,idle]'
  AND hu.clock > :from_time
  AND hu.clock <= :to_time`)
	hostClause(&b, bindings, params.Host, "\n  AND")
	b.WriteString(`
GROUP BY h.hostid, h.name
HAVING 100 - AVG(hu.value) > :threshold
ORDER BY cpu_usage DESC`)

	return SQLArtifact{Text: b.String(), Bindings: bindings}
}

func memoryUsageSQL(params ExtractedParams) SQLArtifact {
	bindings := map[string]interface{}{
		"from_time": params.Window.From.Unix(),
		"to_time":   params.Window.To.Unix(),
		"threshold": params.Threshold,
	}

	var b strings.Builder
	b.WriteString(`SELECT h.hostid, h.name,
       (1 - AVG(hm.value) / AVG(ht.value)) * 100 AS memory_usage
FROM hosts h
JOIN items im ON h.hostid = im.hostid
JOIN items it ON h.hostid = it.hostid
JOIN history hm ON im.itemid = hm.itemid
JOIN history ht ON it.itemid = ht.itemid
WHERE im.key_ = 'vm.memory.size[available]'
  AND it.key_ = 'vm.memory.size[total]'
  AND hm.clock > :from_time
  AND hm.clock <= :to_time
  AND ht.clock > :from_time
  AND ht.clock <= :to_time`)
	hostClause(&b, bindings, params.Host, "\n  AND")
	b.WriteString(`
GROUP BY h.hostid, h.name
HAVING (1 - AVG(hm.value) / AVG(ht.value)) * 100 > :threshold
ORDER BY memory_usage DESC`)

	return SQLArtifact{Text: b.String(), Bindings: bindings}
}

func hostStatusSQL(params ExtractedParams) SQLArtifact {
	bindings := map[string]interface{}{}

	var b strings.Builder
	b.WriteString(`SELECT h.hostid, h.name,
       CASE h.status
           WHEN 0 THEN 'Enabled'
           WHEN 1 THEN 'Disabled'
           ELSE 'Unknown'
       END AS status,
       CASE h.available
           WHEN 0 THEN 'Unknown'
           WHEN 1 THEN 'Available'
           WHEN 2 THEN 'Unavailable'
           ELSE 'Unknown'
       END AS availability
FROM hosts h`)
	hostClause(&b, bindings, params.Host, "\nWHERE")
	b.WriteString("\nORDER BY h.name")

	return SQLArtifact{Text: b.String(), Bindings: bindings}
}

func hostUptimeSQL(params ExtractedParams) SQLArtifact {
	bindings := map[string]interface{}{}

	var b strings.Builder
	b.WriteString(`SELECT h.hostid, h.name,
       hu.value AS uptime_seconds,
       hu.value / 86400 AS uptime_days
FROM hosts h
JOIN items i ON h.hostid = i.hostid
JOIN history_uint hu ON i.itemid = hu.itemid
WHERE i.key_ = 'system.uptime'
  AND hu.clock > (UNIX_TIMESTAMP() - 300)`)
	hostClause(&b, bindings, params.Host, "\n  AND")
	b.WriteString("\nORDER BY h.name")

	return SQLArtifact{Text: b.String(), Bindings: bindings}
}

func unavailableServicesSQL(params ExtractedParams) SQLArtifact {
	bindings := map[string]interface{}{}

	var b strings.Builder
	b.WriteString(`SELECT h.hostid, h.name AS host,
       i.name AS service,
       FROM_UNIXTIME(t.lastchange) AS since,
       t.description AS problem
FROM triggers t
JOIN functions f ON t.triggerid = f.triggerid
JOIN items i ON f.itemid = i.itemid
JOIN hosts h ON i.hostid = h.hostid
WHERE t.value = 1
  AND t.status = 0
  AND t.state = 0`)
	hostClause(&b, bindings, params.Host, "\n  AND")
	b.WriteString("\nORDER BY t.lastchange DESC")

	return SQLArtifact{Text: b.String(), Bindings: bindings}
}

func alertSummarySQL(params ExtractedParams) SQLArtifact {
	bindings := map[string]interface{}{
		"from_time": params.Window.From.Unix(),
		"to_time":   params.Window.To.Unix(),
	}

	var b strings.Builder
	b.WriteString(`SELECT p.eventid,
       h.name AS host,
       p.name AS problem,
       p.severity,
       FROM_UNIXTIME(p.clock) AS timestamp,
       p.r_eventid IS NOT NULL AS resolved
FROM problem p
JOIN events e ON p.eventid = e.eventid
JOIN triggers t ON e.objectid = t.triggerid
JOIN functions f ON t.triggerid = f.triggerid
JOIN items i ON f.itemid = i.itemid
JOIN hosts h ON i.hostid = h.hostid
WHERE p.clock > :from_time
  AND p.clock <= :to_time`)
	hostClause(&b, bindings, params.Host, "\n  AND")
	b.WriteString("\nORDER BY p.clock DESC")

	return SQLArtifact{Text: b.String(), Bindings: bindings}
}

func maintenanceRPC(params ExtractedParams, now time.Time) RPCArtifact {
	durationSec := params.DurationMinutes * 60

	// hostids is intentionally empty: resolving a host name to a backend
	// identifier is the execution layer's job, not the engine's.
	return RPCArtifact{
		Method: MaintenanceMethod,
		Params: map[string]interface{}{
			"name":         fmt.Sprintf("Manutenção automática - %s", params.Host),
			"active_since": now.Unix(),
			"active_till":  now.Unix() + int64(durationSec),
			"hostids":      []string{},
			"timeperiods": []TimePeriod{
				{Type: 0, Period: durationSec},
			},
			"description":      fmt.Sprintf("Manutenção criada pelo assistente em %s", now.Format("2006-01-02 15:04:05")),
			"maintenance_type": 0,
		},
	}
}

var chartMetrics = []struct {
	keywords []string
	label    string
	color    string
}{
	{[]string{"cpu", "processador"}, "CPU %", "#1f77b4"},
	{[]string{"memória", "memoria", "ram"}, "Memória %", "#ff7f0e"},
	{[]string{"disco", "armazenamento"}, "Disco %", "#2ca02c"},
}

func chartSpec(params ExtractedParams, text string) ChartArtifact {
	label, color := chartMetrics[0].label, chartMetrics[0].color
search:
	for _, metric := range chartMetrics {
		for _, keyword := range metric.keywords {
			if strings.Contains(text, keyword) {
				label, color = metric.label, metric.color
				break search
			}
		}
	}

	title := strings.TrimSuffix(label, " %")
	if params.Host != "" {
		title += " - " + params.Host
	}

	// Data stays empty: populating it with real history values is the
	// history-fetch layer's job.
	return ChartArtifact{
		ChartType: "line",
		Title:     title,
		Labels:    []string{},
		Datasets: []DatasetSpec{
			{Label: label, Color: color, Data: []float64{}, Fill: false},
		},
	}
}
