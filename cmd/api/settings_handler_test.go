package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/itsprade/good-morning/pkg/ai"
)

type MockPinger struct {
	PingFunc func(ctx context.Context, baseURL string) error
	lastURL  string
}

func (m *MockPinger) Ping(ctx context.Context, baseURL string) error {
	m.lastURL = baseURL
	return m.PingFunc(ctx, baseURL)
}

func newSettingsRouter(h *SettingsHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/settings/ai", h.Get)
	r.PUT("/settings/ai", h.Update)
	r.POST("/settings/ai/test", h.Test)
	return r
}

func TestUpdateSettingsKeepsModelWhenOmitted(t *testing.T) {
	settings := ai.NewRuntimeSettings("http://old:11434", "llama3.2")
	r := newSettingsRouter(NewSettingsHandler(settings, &MockPinger{}))

	req := httptest.NewRequest(http.MethodPut, "/settings/ai", strings.NewReader(`{"ollama_base_url":"http://new:11434"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if settings.OllamaBaseURL() != "http://new:11434" || settings.OllamaModel() != "llama3.2" {
		t.Errorf("settings = %s %s", settings.OllamaBaseURL(), settings.OllamaModel())
	}

	req = httptest.NewRequest(http.MethodPut, "/settings/ai", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing base url: status = %d", w.Code)
	}
}

func TestConnectionTest(t *testing.T) {
	settings := ai.NewRuntimeSettings("http://current:11434", "llama3.2")
	pinger := &MockPinger{PingFunc: func(_ context.Context, baseURL string) error {
		if baseURL == "http://down:11434" {
			return errors.New("connection refused")
		}
		return nil
	}}
	r := newSettingsRouter(NewSettingsHandler(settings, pinger))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/settings/ai/test", nil))
	if w.Code != http.StatusOK || pinger.lastURL != "http://current:11434" {
		t.Errorf("default endpoint: status = %d, pinged %q", w.Code, pinger.lastURL)
	}

	req := httptest.NewRequest(http.MethodPost, "/settings/ai/test", strings.NewReader(`{"ollama_base_url":"http://down:11434"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("unreachable endpoint: status = %d", w.Code)
	}
}
