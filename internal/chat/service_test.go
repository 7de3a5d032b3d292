package chat

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ops-agent/backend/internal/nlq"
	"github.com/ops-agent/backend/internal/storage/sqlite"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := sqlite.NewClient(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("sqlite.NewClient() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.InitSchema(); err != nil {
		t.Fatalf("InitSchema() error: %v", err)
	}

	engine := nlq.NewEngine(nlq.WithClock(func() time.Time {
		return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	}))

	return NewService(engine, db)
}

func TestProcessRecordsHistory(t *testing.T) {
	service := newTestService(t)

	resp, err := service.Process(context.Background(), Request{
		Message: "hosts com cpu acima de 90% nas últimas 3 horas",
		UserID:  "user-1",
	})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if resp.Intent != "high_cpu" {
		t.Errorf("Process() intent = %q, want %q", resp.Intent, "high_cpu")
	}
	if resp.Kind != "sql" {
		t.Errorf("Process() kind = %q, want %q", resp.Kind, "sql")
	}
	if resp.Params.Threshold != 90 {
		t.Errorf("Process() threshold = %d, want 90", resp.Params.Threshold)
	}
	if resp.Rows != nil {
		t.Error("Process() returned rows without an executor configured")
	}

	history, err := service.History("user-1", 10)
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("History() returned %d records, want 1", len(history))
	}
	if history[0].Intent != "high_cpu" || history[0].Executed {
		t.Errorf("unexpected history record: %+v", history[0])
	}
}

func TestProcessMaintenanceWithoutHost(t *testing.T) {
	service := newTestService(t)

	resp, err := service.Process(context.Background(), Request{
		Message: "manutenção",
		UserID:  "user-1",
	})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if resp.Kind != "unsupported" {
		t.Errorf("Process() kind = %q, want %q", resp.Kind, "unsupported")
	}
	if resp.Narrative == "" {
		t.Error("Process() narrative is empty, want guidance on naming a host")
	}
}

func TestProcessMaintenanceWithoutZabbix(t *testing.T) {
	service := newTestService(t)

	resp, err := service.Process(context.Background(), Request{
		Message:  "colocar host app01 em manutenção por 2 horas",
		UserID:   "user-1",
		Approved: true,
	})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if resp.Kind != "rpc" {
		t.Errorf("Process() kind = %q, want %q", resp.Kind, "rpc")
	}
	if resp.Execution != nil {
		t.Error("Process() reported an execution without a monitoring backend configured")
	}
}

func TestStoreFeedbackForQuery(t *testing.T) {
	service := newTestService(t)

	resp, err := service.Process(context.Background(), Request{
		Message: "status dos hosts",
		UserID:  "user-1",
	})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if err := service.StoreFeedback(resp.ID, true, "", "resposta correta"); err != nil {
		t.Fatalf("StoreFeedback() error: %v", err)
	}
}
