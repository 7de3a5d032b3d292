package execute

import (
	"strings"
	"testing"
)

func TestExpandBindings(t *testing.T) {
	query := "SELECT * FROM hosts WHERE clock > :from_time AND clock <= :to_time AND v > :threshold"
	bindings := map[string]interface{}{
		"from_time": int64(100),
		"to_time":   int64(200),
		"threshold": 90,
	}

	expanded, args, err := ExpandBindings(query, bindings)
	if err != nil {
		t.Fatalf("ExpandBindings: %v", err)
	}
	if strings.Contains(expanded, ":") {
		t.Errorf("placeholders remain: %s", expanded)
	}
	if strings.Count(expanded, "?") != 3 {
		t.Errorf("expected 3 positional args, got %q", expanded)
	}
	if len(args) != 3 {
		t.Fatalf("args = %d, want 3", len(args))
	}
	// Args must follow statement order, not map order.
	if args[0] != int64(100) || args[1] != int64(200) || args[2] != 90 {
		t.Errorf("args out of order: %v", args)
	}
}

func TestExpandBindingsRepeatedPlaceholder(t *testing.T) {
	query := "SELECT 1 WHERE a > :from_time AND b > :from_time"
	bindings := map[string]interface{}{"from_time": int64(5)}

	expanded, args, err := ExpandBindings(query, bindings)
	if err != nil {
		t.Fatalf("ExpandBindings: %v", err)
	}
	if strings.Count(expanded, "?") != 2 {
		t.Errorf("expected 2 positional args, got %q", expanded)
	}
	if len(args) != 2 || args[0] != int64(5) || args[1] != int64(5) {
		t.Errorf("args = %v, want [5 5]", args)
	}
}

func TestExpandBindingsMissing(t *testing.T) {
	_, _, err := ExpandBindings("SELECT 1 WHERE a > :from_time", map[string]interface{}{})
	if err == nil {
		t.Fatal("expected error for unbound placeholder")
	}
	if !strings.Contains(err.Error(), "from_time") {
		t.Errorf("error %q does not name the placeholder", err)
	}
}
