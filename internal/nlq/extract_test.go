package nlq

import "testing"

func TestExtractHost(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"colocar host app01 em manutenção", "app01"},
		{"status do servidor db-prod.example.com", "db-prod.example.com"},
		{"maquina web_01 está online?", "web_01"},
		{"status dos hosts", ""},
		// Bare hostnames without a host keyword are not extracted.
		{"uptime do web01", ""},
	}

	for _, tc := range cases {
		if got := ExtractHost(Normalize(tc.text)); got != tc.want {
			t.Errorf("ExtractHost(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestExtractThreshold(t *testing.T) {
	if got := ExtractThreshold("cpu acima de 90%", 80); got != 90 {
		t.Errorf("ExtractThreshold = %d, want 90", got)
	}
	if got := ExtractThreshold("cpu alta", 80); got != 80 {
		t.Errorf("ExtractThreshold default = %d, want 80", got)
	}
	if got := ExtractThreshold("memória maior que 75%", 80); got != 75 {
		t.Errorf("ExtractThreshold = %d, want 75", got)
	}
}

func TestExtractTimeWindowToken(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"nas últimas 3 horas", "3h"},
		{"nos últimos 30 minutos", "30m"},
		{"nos últimos 7 dias", "7d"},
		{"cpu alta", ""},
	}

	for _, tc := range cases {
		if got := ExtractTimeWindowToken(Normalize(tc.text)); got != tc.want {
			t.Errorf("ExtractTimeWindowToken(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestExtractDuration(t *testing.T) {
	if got := ExtractDuration("por 2 horas", 60); got != 120 {
		t.Errorf("ExtractDuration = %d, want 120", got)
	}
	if got := ExtractDuration("sem duração", 60); got != 60 {
		t.Errorf("ExtractDuration default = %d, want 60", got)
	}
	if got := ExtractDuration("durante 45 minutos", 60); got != 45 {
		t.Errorf("ExtractDuration = %d, want 45", got)
	}
	if got := ExtractDuration("durante 1 dia", 60); got != 1440 {
		t.Errorf("ExtractDuration = %d, want 1440", got)
	}
}
