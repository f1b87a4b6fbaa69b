package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/eixo/medical-scribe/internal/core/domain"
	"github.com/eixo/medical-scribe/internal/core/ports"
)

type transcriptEngine interface {
	Process(text string) domain.ProcessingResult
}

type AnalyzeTranscriptUseCase struct {
	engine   transcriptEngine
	observer ports.AnalysisObserver
}

// NewAnalyzeTranscriptUseCase wraps the engine for callers that carry a context.
// observer may be nil.
func NewAnalyzeTranscriptUseCase(engine transcriptEngine, observer ports.AnalysisObserver) *AnalyzeTranscriptUseCase {
	return &AnalyzeTranscriptUseCase{
		engine:   engine,
		observer: observer,
	}
}

// Analyze returns the engine result unchanged. A failure result is also reported
// as an ErrInsufficientInput error so adapters can map it without inspecting
// the result.
func (uc *AnalyzeTranscriptUseCase) Analyze(ctx context.Context, transcript string) (domain.ProcessingResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ProcessingResult{}, err
	}

	result := uc.engine.Process(transcript)
	if uc.observer != nil {
		uc.observer.ObserveAnalysis(result)
	}

	if !result.Success {
		slog.Debug("transcript_rejected", "error", result.Error)
		return result, domain.WrapError(domain.ErrInsufficientInput, "analyze transcript", errors.New(result.Message))
	}

	slog.Debug("transcript_analyzed",
		"cid10", result.Record.Diagnosis.Code,
		"severity", result.Record.Severity,
		"utterances", result.Metadata.UtteranceCount,
	)
	return result, nil
}
