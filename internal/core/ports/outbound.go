package ports

import (
	"context"
	"io"

	"github.com/eixo/medical-scribe/internal/core/domain"
)

// ConsultationRepository persists and reads consultation state.
type ConsultationRepository interface {
	Create(ctx context.Context, c *domain.Consultation) error
	GetByID(ctx context.Context, id string) (*domain.Consultation, error)
	List(ctx context.Context, limit int) ([]domain.Consultation, error)
	UpdateStatus(ctx context.Context, id string, status domain.ConsultationStatus, errMessage string) error
	SaveResult(ctx context.Context, id string, result domain.ProcessingResult) error
}

// ObjectStorage stores uploaded transcripts.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishConsultationIngested(ctx context.Context, consultationID string) error
	SubscribeConsultationIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts the transcript text from a stored upload.
type TextExtractor interface {
	Extract(ctx context.Context, c *domain.Consultation) (string, error)
}

// AnalysisObserver receives one callback per analyzed transcript.
type AnalysisObserver interface {
	ObserveAnalysis(result domain.ProcessingResult)
}
