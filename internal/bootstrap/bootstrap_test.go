package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/eixo/medical-scribe/internal/config"
	"github.com/eixo/medical-scribe/internal/core/domain"
)

func TestResiliencePolicyMapsConfig(t *testing.T) {
	p := ResiliencePolicy(config.Config{
		ResilienceRetryMaxAttempts:       4,
		ResilienceRetryInitialBackoffMS:  50,
		ResilienceRetryMaxBackoffMS:      800,
		ResilienceRetryMultiplier:        3,
		ResilienceBreakerEnabled:         true,
		ResilienceBreakerMinRequests:     5,
		ResilienceBreakerFailureRatio:    0.25,
		ResilienceBreakerOpenTimeoutSecs: 12,
		ResilienceBreakerHalfOpenMax:     1,
	})

	if p.MaxAttempts != 4 || p.InitialBackoff != 50*time.Millisecond || p.MaxBackoff != 800*time.Millisecond {
		t.Fatalf("unexpected retry policy: %+v", p)
	}
	if !p.BreakerEnabled || p.BreakerMinRequests != 5 || p.BreakerOpenTimeout != 12*time.Second || p.BreakerHalfOpenMax != 1 {
		t.Fatalf("unexpected breaker policy: %+v", p)
	}
}

func TestResiliencePolicyClampsNegativeCounts(t *testing.T) {
	p := ResiliencePolicy(config.Config{ResilienceBreakerMinRequests: -1, ResilienceBreakerHalfOpenMax: -3})
	if p.BreakerMinRequests != 0 || p.BreakerHalfOpenMax != 0 {
		t.Fatalf("expected negative counts clamped to zero, got %+v", p)
	}
}

func TestOpenRepositorySQLite(t *testing.T) {
	cfg := config.Config{
		StoreDriver: config.StoreDriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "scribe.db"),
	}
	repo, closeRepo, err := openRepository(context.Background(), cfg)
	if err != nil {
		t.Fatalf("openRepository() error = %v", err)
	}
	defer closeRepo()

	_, err = repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrConsultationNotFound) {
		t.Fatalf("expected ErrConsultationNotFound, got %v", err)
	}
}

func TestNewAnalyzerRunsEngine(t *testing.T) {
	res, err := NewAnalyzer(nil).Analyze(context.Background(), "Paciente com sepse de foco urinário")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if res.Record.Diagnosis.Code != "A41" {
		t.Fatalf("expected A41, got %s", res.Record.Diagnosis.Code)
	}
}

func TestAppCloseRunsCloser(t *testing.T) {
	calls := 0
	app := &App{closeFn: func() { calls++ }}
	app.Close()
	if calls != 1 {
		t.Fatalf("expected closer to run once, got %d", calls)
	}

	(&App{}).Close()
}

func TestAppCloseReleasesSQLiteStore(t *testing.T) {
	cfg := config.Config{
		StoreDriver: config.StoreDriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "scribe.db"),
	}
	repo, closeRepo, err := openRepository(context.Background(), cfg)
	if err != nil {
		t.Fatalf("openRepository() error = %v", err)
	}
	app := &App{Repo: repo, closeFn: closeRepo}
	app.Close()

	if _, err := repo.GetByID(context.Background(), "any"); err == nil || domain.IsKind(err, domain.ErrConsultationNotFound) {
		t.Fatalf("expected closed-database error after Close, got %v", err)
	}
}
