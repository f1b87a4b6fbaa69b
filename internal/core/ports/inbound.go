package ports

import (
	"context"
	"io"

	"github.com/eixo/medical-scribe/internal/core/domain"
)

// TranscriptAnalyzer is the inbound contract for synchronous transcript analysis.
type TranscriptAnalyzer interface {
	Analyze(ctx context.Context, transcript string) (domain.ProcessingResult, error)
}

// ConsultationIngestor is the inbound contract for transcript upload orchestration.
type ConsultationIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Consultation, error)
}

// ConsultationReader is the inbound read model for consultation state.
type ConsultationReader interface {
	GetByID(ctx context.Context, id string) (*domain.Consultation, error)
	List(ctx context.Context, limit int) ([]domain.Consultation, error)
}

// ConsultationProcessor is the inbound contract for asynchronous consultation analysis.
type ConsultationProcessor interface {
	ProcessByID(ctx context.Context, consultationID string) error
}
