package nlq

import (
	"testing"
	"time"
)

func TestResolveWindowTokens(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		token string
		from  time.Time
	}{
		{"30m", now.Add(-30 * time.Minute)},
		{"3h", now.Add(-3 * time.Hour)},
		{"7d", now.Add(-7 * 24 * time.Hour)},
		{"1h", now.Add(-time.Hour)},
	}

	for _, tc := range cases {
		w := ResolveWindow(tc.token, now)
		if w.Label != tc.token {
			t.Errorf("ResolveWindow(%q).Label = %q, want %q", tc.token, w.Label, tc.token)
		}
		if !w.From.Equal(tc.from) {
			t.Errorf("ResolveWindow(%q).From = %v, want %v", tc.token, w.From, tc.from)
		}
		if !w.To.Equal(now) {
			t.Errorf("ResolveWindow(%q).To = %v, want %v", tc.token, w.To, now)
		}
		if !w.From.Before(w.To) {
			t.Errorf("ResolveWindow(%q): From %v not before To %v", tc.token, w.From, w.To)
		}
	}
}

func TestResolveWindowFallback(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, token := range []string{"", "abc", "3w", "h3", "12", "-3h", "3hh"} {
		w := ResolveWindow(token, now)
		if w.Label != "24h" {
			t.Errorf("ResolveWindow(%q).Label = %q, want 24h", token, w.Label)
		}
		if !w.From.Equal(now.Add(-24 * time.Hour)) {
			t.Errorf("ResolveWindow(%q).From = %v, want now-24h", token, w.From)
		}
	}
}
