package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/eixo/medical-scribe/internal/core/domain"
	"github.com/eixo/medical-scribe/internal/core/engine"
)

func TestAnalyzeObservesSuccess(t *testing.T) {
	observer := &observerFake{}
	uc := NewAnalyzeTranscriptUseCase(&engineFake{result: successResult()}, observer)

	result, err := uc.Analyze(context.Background(), "Paciente com cefaleia há dois dias")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success")
	}
	if len(observer.observed) != 1 {
		t.Fatalf("expected one observation, got %d", len(observer.observed))
	}
}

func TestAnalyzeFailureIsTypedError(t *testing.T) {
	observer := &observerFake{}
	uc := NewAnalyzeTranscriptUseCase(engine.New(), observer)

	result, err := uc.Analyze(context.Background(), "curto")
	if !domain.IsKind(err, domain.ErrInsufficientInput) {
		t.Fatalf("expected insufficient input, got %v", err)
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("insufficient input must also be invalid input")
	}
	if result.Success || result.Error != domain.FailureInsufficientInput {
		t.Fatalf("expected failure result, got %+v", result)
	}
	if len(observer.observed) != 1 {
		t.Fatalf("failures must be observed too")
	}
}

func TestAnalyzeCanceledContext(t *testing.T) {
	fake := &engineFake{result: successResult()}
	uc := NewAnalyzeTranscriptUseCase(fake, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := uc.Analyze(ctx, "Paciente com cefaleia"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if fake.calls != 0 {
		t.Fatalf("engine must not run after cancellation")
	}
}

func TestConsultationQueryListLimits(t *testing.T) {
	repo := &repoFake{listed: []domain.Consultation{{ID: "a"}}}
	uc := NewConsultationQueryUseCase(repo)

	if _, err := uc.List(context.Background(), 0); err != nil {
		t.Fatalf("List(0) error = %v", err)
	}
	if repo.listLimit != DefaultListLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultListLimit, repo.listLimit)
	}
	if _, err := uc.List(context.Background(), MaxListLimit+1); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for oversized limit, got %v", err)
	}
}
