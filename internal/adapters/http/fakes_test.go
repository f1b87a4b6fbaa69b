package httpadapter

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/eixo/medical-scribe/internal/config"
	"github.com/eixo/medical-scribe/internal/core/domain"
	"github.com/eixo/medical-scribe/internal/core/engine"
	"github.com/eixo/medical-scribe/internal/core/usecase"
)

type ingestSuccessFake struct{}

func (f ingestSuccessFake) Upload(_ context.Context, filename, mimeType string, body io.Reader) (*domain.Consultation, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", io.EOF)
	}

	now := time.Now().UTC()
	return &domain.Consultation{
		ID:          "c-1",
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: "c-1_file.txt",
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type ingestErrFake struct {
	err error
}

func (f ingestErrFake) Upload(context.Context, string, string, io.Reader) (*domain.Consultation, error) {
	return nil, f.err
}

type consultationsFake struct {
	err       error
	items     []domain.Consultation
	lastLimit int
}

func (f *consultationsFake) GetByID(_ context.Context, id string) (*domain.Consultation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Consultation{ID: id, Filename: "a.txt", MimeType: "text/plain", StoragePath: "a", Status: domain.StatusReady}, nil
}

func (f *consultationsFake) List(_ context.Context, limit int) ([]domain.Consultation, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func fixedEngine() *engine.Engine {
	return engine.New(engine.WithClock(func() time.Time {
		return time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	}))
}

func newTestHandler(cfg config.Config) http.Handler {
	return NewRouter(
		cfg,
		usecase.NewAnalyzeTranscriptUseCase(fixedEngine(), nil),
		ingestSuccessFake{},
		&consultationsFake{},
	).Handler()
}
