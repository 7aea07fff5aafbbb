package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus"

	"barterly/internal/auth"
	"barterly/internal/config"
	"barterly/internal/domain"
	"barterly/internal/http/handlers"
	"barterly/internal/metrics"
	"barterly/internal/repos"
	"barterly/internal/services"
	"barterly/web"
)

const password = "Passw0rd!"

type testApp struct {
	t   *testing.T
	app *fiber.App
}

func newTestApp(t *testing.T, authLimit fiber.Handler) *testApp {
	t.Helper()
	db, err := repos.OpenDB(repos.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	authSvc := &services.AuthService{
		Users:  repos.NewUserRepo(db),
		Tokens: auth.NewTokens("test-secret", time.Hour),
	}
	deps := handlers.NewDeps(db, config.Config{}, authSvc, metrics.NewExchange(prometheus.NewRegistry()))

	app := fiber.New(fiber.Config{
		Views:        html.NewFileSystem(web.Templates(), ".html"),
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(requestid.New())
	app.Use(handlers.Identify(authSvc))
	handlers.Register(app, deps, authLimit)
	return &testApp{t: t, app: app}
}

// call sends a JSON request, authenticating with token when set.
func (a *testApp) call(method, path, token string, body any) *http.Response {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			a.t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	if err != nil {
		a.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func (a *testApp) expect(resp *http.Response, status int, out any) {
	a.t.Helper()
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != status {
		a.t.Fatalf("expected %d, got %d: %s", status, resp.StatusCode, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			a.t.Fatalf("decode %s: %v", raw, err)
		}
	}
}

func (a *testApp) token(name string) string {
	a.t.Helper()
	var out struct {
		Token string `json:"token"`
	}
	a.expect(a.call("POST", "/api/v1/token", "", map[string]string{
		"email":    name + "@barterly.test",
		"password": password,
	}), fiber.StatusOK, &out)
	if out.Token == "" {
		a.t.Fatal("empty token")
	}
	return out.Token
}

func (a *testApp) item(token, name string) domain.Item {
	a.t.Helper()
	var it domain.Item
	a.expect(a.call("POST", "/api/v1/items", token, map[string]string{
		"name":        name,
		"category_id": "electronics",
		"condition":   "used",
	}), fiber.StatusCreated, &it)
	return it
}

func (a *testApp) propose(token, sender, receiver string, status int) domain.Proposal {
	a.t.Helper()
	var p domain.Proposal
	var out any
	if status == fiber.StatusCreated {
		out = &p
	}
	a.expect(a.call("POST", "/api/v1/proposals", token, map[string]string{
		"sender_id":   sender,
		"receiver_id": receiver,
	}), status, out)
	return p
}
