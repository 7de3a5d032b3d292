package nlq

import "regexp"

// Intent is the classified purpose of a natural-language query.
type Intent int

const (
	IntentHighCPU Intent = iota
	IntentMemoryUsage
	IntentDiskUsage
	IntentHostStatus
	IntentHostUptime
	IntentUnavailableServices
	IntentAlertSummary
	IntentGraphRequest
	IntentHostMaintenance
	IntentGeneralQuery
)

func (i Intent) String() string {
	switch i {
	case IntentHighCPU:
		return "high_cpu"
	case IntentMemoryUsage:
		return "memory_usage"
	case IntentDiskUsage:
		return "disk_usage"
	case IntentHostStatus:
		return "host_status"
	case IntentHostUptime:
		return "host_uptime"
	case IntentUnavailableServices:
		return "unavailable_services"
	case IntentAlertSummary:
		return "alert_summary"
	case IntentGraphRequest:
		return "graph_request"
	case IntentHostMaintenance:
		return "host_maintenance"
	case IntentGeneralQuery:
		return "general_query"
	default:
		return "unknown"
	}
}

type intentEntry struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// intentTable is iterated in declaration order and the first matching
// pattern wins. The order is a documented tie-break rule: intents that
// share vocabulary with a later entry (HostMaintenance vs HostStatus)
// must keep their relative positions.
var intentTable = []intentEntry{
	{IntentHighCPU, []*regexp.Regexp{
		regexp.MustCompile(`(?:hosts?|servidore?s?).*(?:cpu|processador).*(?:alta|elevad[ao]|acima|maior)`),
		regexp.MustCompile(`cpu.*(?:acima|maior).*(?:\d+)[%\s]`),
		regexp.MustCompile(`quais? hosts? (?:est[áa][ão]o|com) cpu (?:alta|acima)`),
	}},
	{IntentMemoryUsage, []*regexp.Regexp{
		regexp.MustCompile(`(?:hosts?|servidore?s?).*(?:mem[óo]ria|ram).*(?:alta|elevad[ao]|acima|maior)`),
		regexp.MustCompile(`(?:mem[óo]ria|ram).*(?:acima|maior).*(?:\d+)[%\s]`),
		regexp.MustCompile(`uso de mem[óo]ria`),
	}},
	{IntentDiskUsage, []*regexp.Regexp{
		regexp.MustCompile(`(?:hosts?|servidore?s?).*(?:disco|armazenamento|fs|filesystem).*(?:alta|elevad[ao]|acima|maior)`),
		regexp.MustCompile(`(?:disco|armazenamento).*(?:acima|maior).*(?:\d+)[%\s]`),
		regexp.MustCompile(`uso de disco`),
	}},
	{IntentHostStatus, []*regexp.Regexp{
		regexp.MustCompile(`status.*(?:hosts?|servidore?s?)`),
		regexp.MustCompile(`(?:hosts?|servidore?s?).*(?:status|estado)`),
		regexp.MustCompile(`quais? hosts? (?:est[áa][ão]o) (?:online|offline|down|up)`),
	}},
	{IntentHostUptime, []*regexp.Regexp{
		regexp.MustCompile(`uptime.*(?:hosts?|servidore?s?)`),
		regexp.MustCompile(`(?:hosts?|servidore?s?).*uptime`),
		regexp.MustCompile(`(?:quanto tempo|desde quando).*(?:hosts?|servidore?s?).*(?:online|ativ[oa]s?)`),
	}},
	{IntentUnavailableServices, []*regexp.Regexp{
		regexp.MustCompile(`(?:servi[çc]os?|aplica[çc][õo]es?).*(?:indispon[íi]ve(?:l|is)|offline|down|fora do ar)`),
		regexp.MustCompile(`quais?.*(?:servi[çc]os?|aplica[çc][õo]es?).*(?:est[áa][ão]o).*(?:indispon[íi]ve(?:l|is)|offline|down)`),
	}},
	{IntentAlertSummary, []*regexp.Regexp{
		regexp.MustCompile(`(?:resumo|sum[áa]rio).*(?:alerta|problema)s?`),
		regexp.MustCompile(`(?:alerta|problema)s?.*(?:resumo|sum[áa]rio)`),
		regexp.MustCompile(`(?:alertas|problemas).*(?:cr[íi]tico|grave)s?`),
	}},
	{IntentGraphRequest, []*regexp.Regexp{
		regexp.MustCompile(`(?:gr[áa]fico|chart).*(?:cpu|mem[óo]ria|ram|disco|rede|network)`),
		regexp.MustCompile(`(?:gerar?|criar?|mostrar?).*(?:gr[áa]fico|chart)`),
		regexp.MustCompile(`visualizar?.*(?:gr[áa]fico|chart)`),
	}},
	{IntentHostMaintenance, []*regexp.Regexp{
		regexp.MustCompile(`(?:colocar?|por?|botar?).*(?:em manuten[çc][ãa]o|manutenir)`),
		regexp.MustCompile(`manuten[çc][ãa]o.*(?:hosts?|servidore?s?)`),
		regexp.MustCompile(`(?:hosts?|servidore?s?).*manuten[çc][ãa]o`),
		regexp.MustCompile(`manuten[çc][ãa]o`),
	}},
}

// Classify matches normalized text against the intent table and returns
// the first intent whose pattern matches anywhere in the text. Text with
// no match classifies as IntentGeneralQuery, never an error.
func Classify(text string) Intent {
	for _, entry := range intentTable {
		for _, pattern := range entry.patterns {
			if pattern.MatchString(text) {
				return entry.intent
			}
		}
	}
	return IntentGeneralQuery
}
