package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/eixo/medical-scribe/internal/core/domain"
	"github.com/eixo/medical-scribe/internal/core/ports"
)

type IngestConsultationUseCase struct {
	repo    ports.ConsultationRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

func NewIngestConsultationUseCase(
	repo ports.ConsultationRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestConsultationUseCase {
	return &IngestConsultationUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

func (uc *IngestConsultationUseCase) Upload(
	ctx context.Context,
	filename, mimeType string,
	body io.Reader,
) (*domain.Consultation, error) {
	now := uc.now().UTC()
	id := uc.newID(now)
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	consultation := &domain.Consultation{
		ID:          id,
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: storageKey,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, consultation); err != nil {
		return nil, fmt.Errorf("create consultation metadata: %w", err)
	}

	if err := uc.queue.PublishConsultationIngested(ctx, consultation.ID); err != nil {
		return nil, fmt.Errorf("publish ingestion event: %w", err)
	}

	return consultation, nil
}

// MonotonicEntropy is not safe for concurrent use.
func (uc *IngestConsultationUseCase) newID(now time.Time) string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), uc.entropy).String()
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "transcript.txt"
	}
	return base
}
