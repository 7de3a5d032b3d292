package nlq

import (
	"regexp"
	"strconv"
	"time"
)

const defaultWindowLabel = "24h"

var windowTokenPattern = regexp.MustCompile(`^(\d+)([mhd])$`)

// TimeWindow is a concrete [From, To] instant pair plus the period token
// that produced it. Invariant: From <= To.
type TimeWindow struct {
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
	Label string    `json:"label"`
}

// ResolveWindow turns a period token ("3h", "7d") into a concrete window
// ending at now. An empty or malformed token silently falls back to the
// default 24h window rather than failing.
func ResolveWindow(token string, now time.Time) TimeWindow {
	match := windowTokenPattern.FindStringSubmatch(token)
	if match == nil {
		return TimeWindow{From: now.Add(-24 * time.Hour), To: now, Label: defaultWindowLabel}
	}

	value, err := strconv.Atoi(match[1])
	if err != nil {
		return TimeWindow{From: now.Add(-24 * time.Hour), To: now, Label: defaultWindowLabel}
	}

	var delta time.Duration
	switch match[2] {
	case "m":
		delta = time.Duration(value) * time.Minute
	case "h":
		delta = time.Duration(value) * time.Hour
	case "d":
		delta = time.Duration(value) * 24 * time.Hour
	}

	return TimeWindow{From: now.Add(-delta), To: now, Label: token}
}
