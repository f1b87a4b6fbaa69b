package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eixo/medical-scribe/internal/core/domain"
	"github.com/eixo/medical-scribe/internal/core/ports"
)

type ProcessConsultationUseCase struct {
	repo      ports.ConsultationRepository
	extractor ports.TextExtractor
	analyzer  ports.TranscriptAnalyzer
}

func NewProcessConsultationUseCase(
	repo ports.ConsultationRepository,
	extractor ports.TextExtractor,
	analyzer ports.TranscriptAnalyzer,
) *ProcessConsultationUseCase {
	return &ProcessConsultationUseCase{
		repo:      repo,
		extractor: extractor,
		analyzer:  analyzer,
	}
}

// ProcessByID drives a consultation from processing to ready or failed. A
// transcript rejected by the engine still has its failure result saved.
func (uc *ProcessConsultationUseCase) ProcessByID(ctx context.Context, consultationID string) error {
	if err := uc.markStatus(ctx, consultationID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	result, err := uc.processPipeline(ctx, consultationID)
	if err != nil {
		if failErr := uc.markFailed(ctx, consultationID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.persistResult(ctx, consultationID, result); err != nil {
		if failErr := uc.markFailed(ctx, consultationID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, consultationID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}

	slog.Info("consultation_processed",
		"consultation_id", consultationID,
		"cid10", result.Record.Diagnosis.Code,
		"severity", result.Record.Severity,
	)
	return nil
}

func (uc *ProcessConsultationUseCase) processPipeline(ctx context.Context, consultationID string) (domain.ProcessingResult, error) {
	consultation, err := uc.loadConsultation(ctx, consultationID)
	if err != nil {
		return domain.ProcessingResult{}, err
	}

	text, err := uc.extractText(ctx, consultation)
	if err != nil {
		return domain.ProcessingResult{}, err
	}

	result, err := uc.analyzer.Analyze(ctx, text)
	if err != nil {
		if domain.IsKind(err, domain.ErrInsufficientInput) {
			if saveErr := uc.persistResult(ctx, consultationID, result); saveErr != nil {
				return domain.ProcessingResult{}, saveErr
			}
		}
		return domain.ProcessingResult{}, fmt.Errorf("analyze transcript: %w", err)
	}
	return result, nil
}

func (uc *ProcessConsultationUseCase) loadConsultation(ctx context.Context, consultationID string) (*domain.Consultation, error) {
	consultation, err := uc.repo.GetByID(ctx, consultationID)
	if err != nil {
		return nil, fmt.Errorf("fetch consultation by id: %w", err)
	}
	return consultation, nil
}

func (uc *ProcessConsultationUseCase) extractText(ctx context.Context, consultation *domain.Consultation) (string, error) {
	text, err := uc.extractor.Extract(ctx, consultation)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	// Empty text is left to the engine so it gets the same saved failure as a
	// too-short transcript.
	return text, nil
}

func (uc *ProcessConsultationUseCase) persistResult(ctx context.Context, consultationID string, result domain.ProcessingResult) error {
	if err := uc.repo.SaveResult(ctx, consultationID, result); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (uc *ProcessConsultationUseCase) markStatus(ctx context.Context, consultationID string, status domain.ConsultationStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, consultationID, status, errMessage)
}

func (uc *ProcessConsultationUseCase) markFailed(ctx context.Context, consultationID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, consultationID, domain.StatusFailed, processErr.Error())
}
