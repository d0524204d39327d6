package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	emaildomain "github.com/itsprade/good-morning/internal/email/domain"
	"github.com/itsprade/good-morning/internal/email/repository"
	"github.com/itsprade/good-morning/pkg/ai"
	"github.com/itsprade/good-morning/pkg/apperror"
	"github.com/itsprade/good-morning/pkg/database"
)

type MockExtractor struct {
	ExtractTasksFunc func(ctx context.Context, emails []ai.EmailInput) (ai.ExtractionResult, error)
	Calls            int
}

func (m *MockExtractor) ExtractTasks(ctx context.Context, emails []ai.EmailInput) (ai.ExtractionResult, error) {
	m.Calls++
	return m.ExtractTasksFunc(ctx, emails)
}

func newActionRepo(t *testing.T) repository.EmailActionRepository {
	t.Helper()
	db, err := database.OpenInMemory(t.Name())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&emaildomain.EmailAction{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repository.NewEmailActionRepository(db)
}

func testMessages() []emaildomain.Message {
	at := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	return []emaildomain.Message{
		{ID: "m1", Subject: "Budget", Sender: "cfo@example.com", ReceivedAt: at, BodyExcerpt: "Please review the Q1 budget."},
		{ID: "m2", Subject: "Invoice", Sender: "billing@example.com", ReceivedAt: at.Add(time.Minute), BodyExcerpt: "Invoice attached."},
	}
}

func fixedCandidates(c ...ai.TaskCandidate) *MockExtractor {
	return &MockExtractor{
		ExtractTasksFunc: func(context.Context, []ai.EmailInput) (ai.ExtractionResult, error) {
			return ai.Extracted(c), nil
		},
	}
}

func TestPipelineEmptyInputSkipsExtractor(t *testing.T) {
	ext := fixedCandidates()
	p := NewPipeline(ext, newActionRepo(t), DedupPolicy{PrefixLength: 20})

	res, err := p.Run(context.Background(), "u1", nil)
	if err != nil || len(res.Created) != 0 {
		t.Fatalf("Run = %+v, %v", res, err)
	}
	if ext.Calls != 0 {
		t.Errorf("extractor called %d times", ext.Calls)
	}
}

func TestPipelineCreatesOnlyResolvedCandidates(t *testing.T) {
	repo := newActionRepo(t)
	ext := fixedCandidates(
		ai.TaskCandidate{EmailID: "m1", Title: "Review Q1 budget proposal", Priority: "urgent"},
		ai.TaskCandidate{EmailID: "ghost", Title: "Invented by the model"},
		ai.TaskCandidate{EmailID: "m2", Title: "   "},
		ai.TaskCandidate{EmailID: "m2", Title: "Pay the invoice now", Description: "before Friday"},
	)
	p := NewPipeline(ext, repo, DedupPolicy{PrefixLength: 20})

	res, err := p.Run(context.Background(), "u1", testMessages())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Created) != 2 || res.Unresolved != 2 || res.Candidates != 4 {
		t.Fatalf("result = %+v", res)
	}

	ids := map[string]bool{"m1": true, "m2": true}
	stored, _ := repo.FindSuggested("u1", 0)
	for _, a := range stored {
		if !ids[a.EmailID] {
			t.Errorf("suggestion references unknown message %s", a.EmailID)
		}
		if a.EmailID == "m1" {
			if a.Subject != "Budget" || a.Sender != "cfo@example.com" || a.SuggestedPriority != "high" {
				t.Errorf("message fields not copied: %+v", a)
			}
		}
	}
}

func TestPipelineRerunIsIdempotent(t *testing.T) {
	repo := newActionRepo(t)
	ext := fixedCandidates(
		ai.TaskCandidate{EmailID: "m1", Title: "Review Q1 budget proposal"},
		ai.TaskCandidate{EmailID: "m2", Title: "Send invoice"},
	)
	p := NewPipeline(ext, repo, DedupPolicy{PrefixLength: 20})

	first, err := p.Run(context.Background(), "u1", testMessages())
	if err != nil || len(first.Created) != 2 {
		t.Fatalf("first run = %+v, %v", first, err)
	}
	second, err := p.Run(context.Background(), "u1", testMessages())
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Created) != 0 || second.Duplicates != 2 {
		t.Errorf("second run = %+v", second)
	}
}

func TestPipelineDedupWithinBatch(t *testing.T) {
	repo := newActionRepo(t)
	msgs := append(testMessages(), emaildomain.Message{ID: "m3", Subject: "Fwd: Budget"})
	ext := fixedCandidates(
		ai.TaskCandidate{EmailID: "m1", Title: "Review Q1 budget proposal"},
		ai.TaskCandidate{EmailID: "m3", Title: "Review Q1 budget proposal ASAP"},
	)
	p := NewPipeline(ext, repo, DedupPolicy{PrefixLength: 20})

	res, err := p.Run(context.Background(), "u1", msgs)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Created) != 1 || res.Duplicates != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestPipelineMalformedIsEmpty(t *testing.T) {
	ext := &MockExtractor{
		ExtractTasksFunc: func(context.Context, []ai.EmailInput) (ai.ExtractionResult, error) {
			return ai.Malformed("Sure! Here are your tasks:"), nil
		},
	}
	p := NewPipeline(ext, newActionRepo(t), DedupPolicy{})

	res, err := p.Run(context.Background(), "u1", testMessages())
	if err != nil {
		t.Fatalf("malformed output must not fail the run: %v", err)
	}
	if !res.Malformed || len(res.Created) != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestPipelineProviderFailureIsUpstream(t *testing.T) {
	ext := &MockExtractor{
		ExtractTasksFunc: func(context.Context, []ai.EmailInput) (ai.ExtractionResult, error) {
			return ai.ExtractionResult{}, errors.New("connection refused")
		},
	}
	p := NewPipeline(ext, newActionRepo(t), DedupPolicy{})

	if _, err := p.Run(context.Background(), "u1", testMessages()); !apperror.IsUpstream(err) {
		t.Fatalf("err = %v, want upstream error", err)
	}
}
