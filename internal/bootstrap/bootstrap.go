package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/eixo/medical-scribe/internal/config"
	"github.com/eixo/medical-scribe/internal/core/engine"
	"github.com/eixo/medical-scribe/internal/core/ports"
	"github.com/eixo/medical-scribe/internal/core/usecase"
	"github.com/eixo/medical-scribe/internal/infrastructure/extractor/plaintext"
	"github.com/eixo/medical-scribe/internal/infrastructure/queue/nats"
	"github.com/eixo/medical-scribe/internal/infrastructure/repository/postgres"
	"github.com/eixo/medical-scribe/internal/infrastructure/repository/sqlite"
	"github.com/eixo/medical-scribe/internal/infrastructure/resilience"
	"github.com/eixo/medical-scribe/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.ConsultationRepository
	AnalyzeUC ports.TranscriptAnalyzer
	IngestUC  ports.ConsultationIngestor
	ReadUC    ports.ConsultationReader
	ProcessUC ports.ConsultationProcessor

	closeFn func()
}

type options struct {
	analysis   ports.AnalysisObserver
	dependency resilience.Observer
}

type Option func(*options)

// WithAnalysisObserver receives one callback per analyzed transcript.
func WithAnalysisObserver(o ports.AnalysisObserver) Option {
	return func(opts *options) {
		opts.analysis = o
	}
}

// WithDependencyObserver receives retry and circuit breaker events.
func WithDependencyObserver(o resilience.Observer) Option {
	return func(opts *options) {
		opts.dependency = o
	}
}

func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		closeRepo()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	var execOpts []resilience.ExecutorOption
	if o.dependency != nil {
		execOpts = append(execOpts, resilience.WithObserver(o.dependency))
	}
	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		QueueGroup: cfg.NATSQueueGroup,
		Executor:   resilience.NewExecutor(ResiliencePolicy(cfg), execOpts...),
	})
	if err != nil {
		closeRepo()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	analyzeUC := NewAnalyzer(o.analysis)
	extractor := plaintext.NewExtractor(storage)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		AnalyzeUC: analyzeUC,
		IngestUC:  usecase.NewIngestConsultationUseCase(repo, storage, queue),
		ReadUC:    usecase.NewConsultationQueryUseCase(repo),
		ProcessUC: usecase.NewProcessConsultationUseCase(repo, extractor, analyzeUC),

		closeFn: func() {
			queue.Close()
			closeRepo()
		},
	}, nil
}

// Close releases the queue connection and the store.
func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// NewAnalyzer builds the synchronous analysis path without any infrastructure.
// Used directly by the batch and MCP binaries.
func NewAnalyzer(observer ports.AnalysisObserver) *usecase.AnalyzeTranscriptUseCase {
	return usecase.NewAnalyzeTranscriptUseCase(engine.New(), observer)
}

// ResiliencePolicy maps the RESILIENCE_* settings onto an executor policy.
func ResiliencePolicy(cfg config.Config) resilience.Policy {
	return resilience.Policy{
		MaxAttempts:    cfg.ResilienceRetryMaxAttempts,
		InitialBackoff: time.Duration(cfg.ResilienceRetryInitialBackoffMS) * time.Millisecond,
		MaxBackoff:     time.Duration(cfg.ResilienceRetryMaxBackoffMS) * time.Millisecond,
		Multiplier:     cfg.ResilienceRetryMultiplier,

		BreakerEnabled:      cfg.ResilienceBreakerEnabled,
		BreakerMinRequests:  uint32(max(cfg.ResilienceBreakerMinRequests, 0)),
		BreakerFailureRatio: cfg.ResilienceBreakerFailureRatio,
		BreakerOpenTimeout:  time.Duration(cfg.ResilienceBreakerOpenTimeoutSecs) * time.Second,
		BreakerHalfOpenMax:  uint32(max(cfg.ResilienceBreakerHalfOpenMax, 0)),
	}
}

func openRepository(ctx context.Context, cfg config.Config) (ports.ConsultationRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		repo, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return repo, func() { _ = repo.Close() }, nil
	default:
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		repo := postgres.NewConsultationRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return repo, func() { _ = db.Close() }, nil
	}
}
