package validation

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(Middleware(Config{Logger: zap.NewNop()}))
	app.Post("/api/v1/chat", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	return app
}

func postChat(t *testing.T, app *fiber.App, contentType, body string) int {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode
}

func TestValidMessage(t *testing.T) {
	app := newTestApp()

	status := postChat(t, app, "application/json", `{"message":"status dos hosts"}`)
	if status != fiber.StatusOK {
		t.Errorf("status = %d, want %d", status, fiber.StatusOK)
	}
}

func TestRejectsMissingMessage(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"blank message", `{"message":"   "}`},
		{"wrong type", `{"message":42}`},
		{"invalid json", `{"message":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := postChat(t, app, "application/json", tt.body)
			if status != fiber.StatusBadRequest {
				t.Errorf("status = %d, want %d", status, fiber.StatusBadRequest)
			}
		})
	}
}

func TestRejectsOversizedMessage(t *testing.T) {
	app := newTestApp()

	body := `{"message":"` + strings.Repeat("a", 3000) + `"}`
	status := postChat(t, app, "application/json", body)
	if status != fiber.StatusBadRequest {
		t.Errorf("status = %d, want %d", status, fiber.StatusBadRequest)
	}
}

func TestRejectsScriptInjection(t *testing.T) {
	app := newTestApp()

	status := postChat(t, app, "application/json", `{"message":"<script>alert(1)</script>"}`)
	if status != fiber.StatusBadRequest {
		t.Errorf("status = %d, want %d", status, fiber.StatusBadRequest)
	}
}

func TestRejectsUnsupportedContentType(t *testing.T) {
	app := newTestApp()

	status := postChat(t, app, "text/plain", `{"message":"status dos hosts"}`)
	if status != fiber.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want %d", status, fiber.StatusUnsupportedMediaType)
	}
}
