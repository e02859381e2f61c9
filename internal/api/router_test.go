package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lina-ai/internal/api"
	"lina-ai/internal/api/handlers"
	"lina-ai/internal/dto"
	"lina-ai/internal/service"
	"lina-ai/pkg/auth"
	"lina-ai/pkg/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type stubChatBackend struct {
	reply string
}

func (s *stubChatBackend) Reply(context.Context, string, string) (string, error) {
	return s.reply, nil
}

func newTestApp(cfg *config.Config, jwtManager *auth.JWTManager) *fiber.App {
	log := zap.NewNop()
	router := service.NewRouterService(
		service.NewIntentExtractor(log),
		service.NewActionService(log),
		service.NewInsightService(log),
		&stubChatBackend{reply: "Happy to help!"},
		log,
	)
	handler := handlers.NewQueryHandler(router, nil, log)
	return api.SetupRouter(handler, jwtManager, cfg, log)
}

func defaultTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
	}
}

func postQuery(t *testing.T, app *fiber.App, body string) (*http.Response, dto.ResponseEnvelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/ai/query", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	var env dto.ResponseEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("failed to decode envelope %s: %v", data, err)
	}
	return resp, env
}

func TestQueryEndpoint_EmptyQueryRejected(t *testing.T) {
	app := newTestApp(defaultTestConfig(), nil)

	resp, env := postQuery(t, app, `{"query": "  ", "user_context": {}}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if env.Success {
		t.Error("Success = true, want false")
	}
	if env.Error == "" {
		t.Error("Error should describe the validation failure")
	}
}

func TestQueryEndpoint_PayBillConfirmation(t *testing.T) {
	app := newTestApp(defaultTestConfig(), nil)

	body := `{
		"query": "Pay my electricity bill",
		"user_context": {
			"balance": 820.40,
			"unpaid_bills": [{"id": "b1", "name": "Electricity", "amount": 54.30, "category": "Utilities"}]
		}
	}`

	resp, env := postQuery(t, app, body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !env.Success {
		t.Fatalf("Success = false, error = %q", env.Error)
	}

	conf, ok := env.Response.(map[string]any)
	if !ok {
		t.Fatalf("Response type = %T, want confirmation object", env.Response)
	}
	if conf["action"] != "payBill" {
		t.Errorf("action = %v, want payBill", conf["action"])
	}
	payload, _ := conf["payload"].(map[string]any)
	if payload["billId"] != "b1" {
		t.Errorf("billId = %v, want b1", payload["billId"])
	}
}

func TestQueryEndpoint_ChatFallback(t *testing.T) {
	app := newTestApp(defaultTestConfig(), nil)

	resp, env := postQuery(t, app, `{"query": "how are you today", "user_context": {}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if env.Response != "Happy to help!" {
		t.Errorf("Response = %v, want chat reply", env.Response)
	}
}

func TestQueryEndpoint_AuthRequiredWhenEnabled(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.JWT.Enabled = true
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	app := newTestApp(cfg, jwtManager)

	// No token.
	req := httptest.NewRequest(http.MethodPost, "/api/ai/query", bytes.NewBufferString(`{"query": "hi"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status without token = %d, want 401", resp.StatusCode)
	}

	// Valid token.
	token, err := jwtManager.GenerateToken("user-1", "sarah")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/api/ai/query", bytes.NewBufferString(`{"query": "hi", "user_context": {}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status with token = %d, want 200", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(defaultTestConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
