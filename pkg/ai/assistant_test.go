package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// MockGenerator is a scripted TextGenerator.
type MockGenerator struct {
	NameValue    string
	GenerateFunc func(ctx context.Context, req GenerateRequest) (string, error)
	Calls        []GenerateRequest
}

func (m *MockGenerator) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

func (m *MockGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	m.Calls = append(m.Calls, req)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return "", nil
}

func fixedNow() time.Time { return testToday }

func TestExtractTasksEmptyBatchSkipsModel(t *testing.T) {
	gen := &MockGenerator{}
	a := NewAssistant(gen, fixedNow)

	res, err := a.ExtractTasks(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Tasks()) != 0 || len(gen.Calls) != 0 {
		t.Fatalf("expected no candidates and no model call, got %d calls", len(gen.Calls))
	}
}

func TestExtractTasksPromptCarriesIDs(t *testing.T) {
	gen := &MockGenerator{
		GenerateFunc: func(ctx context.Context, req GenerateRequest) (string, error) {
			return `{"tasks":[{"emailId":"msg-2","title":"Send invoice","priority":"low"}]}`, nil
		},
	}
	a := NewAssistant(gen, fixedNow)

	res, err := a.ExtractTasks(context.Background(), []EmailInput{
		{ID: "msg-1", From: "a@example.com", Subject: "Hi", Body: "hello"},
		{ID: "msg-2", From: "b@example.com", Subject: "Invoice", Body: "please send the invoice"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(gen.Calls) != 1 {
		t.Fatalf("expected one batched call, got %d", len(gen.Calls))
	}
	req := gen.Calls[0]
	if req.Purpose != PurposeExtraction || !req.JSON || req.Temperature != extractionTemperature {
		t.Errorf("unexpected request settings %+v", req)
	}
	for _, want := range []string{"Email 1 (ID: msg-1)", "Email 2 (ID: msg-2)", "2026-01-08"} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if got := res.Tasks(); len(got) != 1 || got[0].EmailID != "msg-2" {
		t.Errorf("unexpected candidates %+v", got)
	}
}

func TestExtractTasksMalformedIsNotAnError(t *testing.T) {
	gen := &MockGenerator{
		GenerateFunc: func(ctx context.Context, req GenerateRequest) (string, error) {
			return "I'm sorry, I can't help with that.", nil
		},
	}
	res, err := NewAssistant(gen, fixedNow).ExtractTasks(context.Background(), []EmailInput{{ID: "x"}})
	if err != nil {
		t.Fatalf("malformed output must not be an error: %v", err)
	}
	if !res.IsMalformed() || res.Tasks() != nil {
		t.Fatalf("expected malformed result, got %+v", res)
	}
}

func TestExtractTasksProviderError(t *testing.T) {
	gen := &MockGenerator{
		GenerateFunc: func(ctx context.Context, req GenerateRequest) (string, error) {
			return "", errors.New("dial tcp: connection refused")
		},
	}
	if _, err := NewAssistant(gen, fixedNow).ExtractTasks(context.Background(), []EmailInput{{ID: "x"}}); err == nil {
		t.Fatal("expected provider error")
	}
}

func TestGenerateDailySummaryPrompt(t *testing.T) {
	gen := &MockGenerator{
		GenerateFunc: func(ctx context.Context, req GenerateRequest) (string, error) {
			return `{"boldPart":"Standup at 9:00 AM.","lightPart":"Ease in."}`, nil
		},
	}
	in := DailySummaryInput{
		Meetings: []Meeting{
			{Title: "Standup", StartTime: time.Date(2026, 1, 8, 9, 0, 0, 0, time.UTC)},
		},
		EmailActionsCount: 2,
		EmailSubjects:     []string{"Review Q1 budget proposal"},
		TopTasks:          []string{"Pay rent"},
	}
	n, err := NewAssistant(gen, fixedNow).GenerateDailySummary(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if n.Bold != "Standup at 9:00 AM." {
		t.Errorf("bold = %q", n.Bold)
	}
	prompt := gen.Calls[0].Prompt
	for _, want := range []string{"Meetings today: 1", "9:00 AM - Standup", "New email actions: 2", "Pay rent"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if gen.Calls[0].Purpose != PurposeNarrative {
		t.Errorf("purpose = %s", gen.Calls[0].Purpose)
	}
}

func TestFallbackOrder(t *testing.T) {
	var order []string
	failing := func(name string) *MockGenerator {
		return &MockGenerator{NameValue: name, GenerateFunc: func(ctx context.Context, req GenerateRequest) (string, error) {
			order = append(order, name)
			return "", errors.New("429 quota exceeded")
		}}
	}
	ok := func(name string) *MockGenerator {
		return &MockGenerator{NameValue: name, GenerateFunc: func(ctx context.Context, req GenerateRequest) (string, error) {
			order = append(order, name)
			return "done", nil
		}}
	}

	f := NewFallbackService(failing("gemini"), ok("ollama"))
	text, err := f.Generate(context.Background(), GenerateRequest{Purpose: PurposeExtraction})
	if err != nil || text != "done" {
		t.Fatalf("got %q, %v", text, err)
	}
	if strings.Join(order, ",") != "gemini,ollama" {
		t.Errorf("extraction order = %v", order)
	}

	order = nil
	f = NewFallbackService(ok("gemini"), failing("ollama"))
	if _, err := f.Generate(context.Background(), GenerateRequest{Purpose: PurposeNarrative}); err != nil {
		t.Fatal(err)
	}
	if strings.Join(order, ",") != "ollama,gemini" {
		t.Errorf("narrative order = %v", order)
	}

	f = NewFallbackService(nil, failing("ollama"))
	if _, err := f.Generate(context.Background(), GenerateRequest{Purpose: PurposeExtraction}); err == nil {
		t.Fatal("expected error when every provider fails")
	}
}
