package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/eixo/medical-scribe/internal/core/domain"
)

func newProcessUseCase(repo *repoFake, extractor *extractorFake, engine *engineFake) *ProcessConsultationUseCase {
	return NewProcessConsultationUseCase(repo, extractor, NewAnalyzeTranscriptUseCase(engine, nil))
}

func TestProcessByIDSuccess(t *testing.T) {
	repo := &repoFake{consultation: &domain.Consultation{ID: "c1"}}
	engine := &engineFake{result: successResult()}
	uc := newProcessUseCase(repo, &extractorFake{text: "Paciente refere cefaleia"}, engine)

	if err := uc.ProcessByID(context.Background(), "c1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if len(repo.statusCalls) != 2 {
		t.Fatalf("expected 2 status calls, got %d", len(repo.statusCalls))
	}
	if repo.statusCalls[0].status != domain.StatusProcessing || repo.statusCalls[1].status != domain.StatusReady {
		t.Fatalf("unexpected status transitions: %+v", repo.statusCalls)
	}
	if len(repo.saved) != 1 || !repo.saved[0].Success {
		t.Fatalf("expected one saved success result, got %+v", repo.saved)
	}
}

func TestProcessByIDInsufficientTranscript(t *testing.T) {
	repo := &repoFake{consultation: &domain.Consultation{ID: "c1"}}
	engine := &engineFake{result: domain.NewFailure(domain.FailureInsufficientInput, "curto")}
	uc := newProcessUseCase(repo, &extractorFake{text: "oi"}, engine)

	err := uc.ProcessByID(context.Background(), "c1")
	if !domain.IsKind(err, domain.ErrInsufficientInput) {
		t.Fatalf("expected insufficient input error, got %v", err)
	}
	if len(repo.saved) != 1 || repo.saved[0].Success {
		t.Fatalf("expected saved failure result, got %+v", repo.saved)
	}
	last := repo.statusCalls[len(repo.statusCalls)-1]
	if last.status != domain.StatusFailed || !strings.Contains(last.errMsg, "curto") {
		t.Fatalf("expected failed status with message, got %+v", last)
	}
}

func TestProcessByIDEmptyExtractionSavesFailure(t *testing.T) {
	for _, text := range []string{"", "   \n  "} {
		repo := &repoFake{consultation: &domain.Consultation{ID: "c1"}}
		engine := &engineFake{result: domain.NewFailure(domain.FailureInsufficientInput, "curto")}
		uc := newProcessUseCase(repo, &extractorFake{text: text}, engine)

		err := uc.ProcessByID(context.Background(), "c1")
		if !domain.IsKind(err, domain.ErrInsufficientInput) {
			t.Fatalf("%q: expected insufficient input, got %v", text, err)
		}
		if engine.calls != 1 {
			t.Fatalf("%q: expected engine to run once, got %d", text, engine.calls)
		}
		if len(repo.saved) != 1 || repo.saved[0].Error != domain.FailureInsufficientInput {
			t.Fatalf("%q: expected saved InsufficientInput failure, got %+v", text, repo.saved)
		}
		if last := repo.statusCalls[len(repo.statusCalls)-1]; last.status != domain.StatusFailed {
			t.Fatalf("%q: expected failed status, got %+v", text, last)
		}
	}
}

func TestProcessByIDMarkFailedError(t *testing.T) {
	repo := &repoFake{
		consultation:  &domain.Consultation{ID: "c1"},
		failStatusErr: errors.New("db down"),
	}
	uc := newProcessUseCase(repo, &extractorFake{err: errors.New("storage gone")}, &engineFake{})

	err := uc.ProcessByID(context.Background(), "c1")
	if err == nil || !strings.Contains(err.Error(), "mark failed status") {
		t.Fatalf("expected mark failed error, got %v", err)
	}
}

func TestProcessByIDNotFound(t *testing.T) {
	uc := newProcessUseCase(&repoFake{}, &extractorFake{}, &engineFake{})

	err := uc.ProcessByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrConsultationNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProcessByIDSaveError(t *testing.T) {
	repo := &repoFake{
		consultation: &domain.Consultation{ID: "c1"},
		saveErr:      errors.New("write failed"),
	}
	uc := newProcessUseCase(repo, &extractorFake{text: "texto suficiente"}, &engineFake{result: successResult()})

	err := uc.ProcessByID(context.Background(), "c1")
	if err == nil || !strings.Contains(err.Error(), "save result") {
		t.Fatalf("expected save error, got %v", err)
	}
	if last := repo.statusCalls[len(repo.statusCalls)-1]; last.status != domain.StatusFailed {
		t.Fatalf("expected failed status, got %+v", last)
	}
}
