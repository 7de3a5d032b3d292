package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ops-agent/backend/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	if err := client.InitSchema(); err != nil {
		t.Fatalf("InitSchema() error: %v", err)
	}

	return client
}

func TestQueryHistoryRoundTrip(t *testing.T) {
	client := newTestClient(t)

	record := &models.QueryRecord{
		ID:           "q-1",
		UserID:       "user-1",
		QueryText:    "hosts com cpu acima de 90%",
		Intent:       "high_cpu",
		Narrative:    "Consulta gerada",
		ArtifactKind: "sql",
		Executed:     true,
		LatencyMS:    12,
		CreatedAt:    time.Now(),
	}

	if err := client.InsertQueryRecord(record); err != nil {
		t.Fatalf("InsertQueryRecord() error: %v", err)
	}

	history, err := client.GetQueryHistory("user-1", 10)
	if err != nil {
		t.Fatalf("GetQueryHistory() error: %v", err)
	}

	if len(history) != 1 {
		t.Fatalf("GetQueryHistory() returned %d records, want 1", len(history))
	}

	got := history[0]
	if got.ID != "q-1" || got.Intent != "high_cpu" || !got.Executed {
		t.Errorf("unexpected record: %+v", got)
	}
}

func TestQueryHistoryOrderAndLimit(t *testing.T) {
	client := newTestClient(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		record := &models.QueryRecord{
			ID:           "q-" + string(rune('a'+i)),
			UserID:       "user-1",
			QueryText:    "status dos hosts",
			Intent:       "host_status",
			ArtifactKind: "sql",
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		if err := client.InsertQueryRecord(record); err != nil {
			t.Fatalf("InsertQueryRecord() error: %v", err)
		}
	}

	history, err := client.GetQueryHistory("user-1", 3)
	if err != nil {
		t.Fatalf("GetQueryHistory() error: %v", err)
	}

	if len(history) != 3 {
		t.Fatalf("GetQueryHistory() returned %d records, want 3", len(history))
	}
	if history[0].ID != "q-e" {
		t.Errorf("GetQueryHistory() first record = %s, want q-e (newest)", history[0].ID)
	}
}

func TestArtifactForeignKey(t *testing.T) {
	client := newTestClient(t)

	artifact := &models.QueryArtifact{
		QueryID: "missing-query",
		Kind:    "sql",
		Payload: "{}",
	}

	if err := client.InsertArtifact(artifact); err == nil {
		t.Error("InsertArtifact() with unknown query_id expected error, got nil")
	}
}

func TestStoreFeedback(t *testing.T) {
	client := newTestClient(t)

	record := &models.QueryRecord{
		ID:           "q-1",
		UserID:       "user-1",
		QueryText:    "uptime do host web01",
		Intent:       "host_uptime",
		ArtifactKind: "sql",
		CreatedAt:    time.Now(),
	}
	if err := client.InsertQueryRecord(record); err != nil {
		t.Fatalf("InsertQueryRecord() error: %v", err)
	}

	feedback := &models.Feedback{
		QueryID:       "q-1",
		Helpful:       false,
		IssueCategory: "wrong_host",
		Comment:       "consultou o host errado",
	}

	if err := client.StoreFeedback(feedback); err != nil {
		t.Fatalf("StoreFeedback() error: %v", err)
	}
}

func TestIntentCounts(t *testing.T) {
	client := newTestClient(t)

	intents := []string{"high_cpu", "high_cpu", "host_status"}
	for i, intent := range intents {
		record := &models.QueryRecord{
			ID:           "q-" + string(rune('a'+i)),
			UserID:       "user-1",
			QueryText:    "x",
			Intent:       intent,
			ArtifactKind: "sql",
			CreatedAt:    time.Now(),
		}
		if err := client.InsertQueryRecord(record); err != nil {
			t.Fatalf("InsertQueryRecord() error: %v", err)
		}
	}

	counts, err := client.IntentCounts(0)
	if err != nil {
		t.Fatalf("IntentCounts() error: %v", err)
	}

	if counts["high_cpu"] != 2 || counts["host_status"] != 1 {
		t.Errorf("IntentCounts() = %v, want high_cpu:2 host_status:1", counts)
	}
}
