package nlq

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	hostPattern      = regexp.MustCompile(`(?:host|servidora?|maquina)[:\s]+([a-zA-Z0-9\-_.]+)`)
	thresholdPattern = regexp.MustCompile(`(?:acima|maior|superior|mais)[:\s]+(?:de|que)?[:\s]*(\d+)[%\s]`)
	periodPattern    = regexp.MustCompile(`últim(?:as?|os?)[:\s]+(\d+)[:\s]*(minutos?|horas?|dias?|m|h|d)`)
	durationPattern  = regexp.MustCompile(`(?:por|durante)[:\s]+(\d+)[:\s]*(minutos?|horas?|dias?|m|h|d)`)
)

// ExtractHost returns the host name mentioned in the query, or an empty
// string when none is found. The match requires an explicit host keyword
// ("host", "servidor", "maquina") immediately before the name; a bare
// hostname ("uptime do web01") is not extracted.
func ExtractHost(text string) string {
	match := hostPattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return match[1]
}

// ExtractThreshold returns the percentage threshold in the query
// ("acima de 90%"), or def when no magnitude phrase is present.
func ExtractThreshold(text string, def int) int {
	match := thresholdPattern.FindStringSubmatch(text)
	if match == nil {
		return def
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return def
	}
	return value
}

// ExtractTimeWindowToken returns a normalized period token of the form
// {N}{m|h|d} ("últimas 3 horas" -> "3h"), or an empty string when the
// query carries no period phrase.
func ExtractTimeWindowToken(text string) string {
	match := periodPattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return fmt.Sprintf("%s%c", match[1], match[2][0])
}

// ExtractDuration returns the duration in minutes ("por 2 horas" -> 120),
// or def when the query carries no duration phrase.
func ExtractDuration(text string, def int) int {
	match := durationPattern.FindStringSubmatch(text)
	if match == nil {
		return def
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return def
	}
	switch match[2][0] {
	case 'h':
		return value * 60
	case 'd':
		return value * 60 * 24
	default:
		return value
	}
}
