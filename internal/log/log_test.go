package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"barterly/internal/domain"
)

type line struct {
	TS     string         `json:"ts"`
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Path   string         `json:"path"`
	UserID string         `json:"user_id"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })
	return &buf
}

func decode(t *testing.T, buf *bytes.Buffer) []line {
	t.Helper()
	var out []line
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var l line
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			t.Fatalf("not JSON: %q: %v", raw, err)
		}
		out = append(out, l)
	}
	return out
}

func TestLevelsAndFields(t *testing.T) {
	buf := capture(t)

	Info(nil, "boot", nil)
	Audit(nil, "proposal.create", map[string]any{"proposal_id": "p1"})
	Security(nil, "csrf.fail", nil)
	Error(nil, "db.fail", errors.New("disk full"), nil)

	got := decode(t, buf)
	if len(got) != 4 {
		t.Fatalf("want 4 lines, got %d", len(got))
	}
	wantLevels := []string{"info", "audit", "warn", "error"}
	for i, l := range got {
		if l.Level != wantLevels[i] {
			t.Fatalf("line %d level = %q, want %q", i, l.Level, wantLevels[i])
		}
		if l.TS == "" {
			t.Fatalf("line %d missing ts", i)
		}
	}
	if got[1].Fields["proposal_id"] != "p1" {
		t.Fatalf("fields lost: %+v", got[1])
	}
	if got[3].Err != "disk full" {
		t.Fatalf("err lost: %+v", got[3])
	}
}

func TestRequestContext(t *testing.T) {
	buf := capture(t)

	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		c.Locals("user", &domain.User{ID: "u-alice"})
		Audit(c, "item.create", nil)
		return c.SendStatus(fiber.StatusCreated)
	})
	if _, err := app.Test(httptest.NewRequest("GET", "/x", nil)); err != nil {
		t.Fatal(err)
	}

	got := decode(t, buf)
	if len(got) != 1 {
		t.Fatalf("want 1 line, got %d", len(got))
	}
	if got[0].Path != "/x" || got[0].UserID != "u-alice" || got[0].Action != "item.create" {
		t.Fatalf("unexpected entry: %+v", got[0])
	}
}
