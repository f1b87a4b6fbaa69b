package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"

	"github.com/eixo/medical-scribe/internal/core/domain"
)

func TestIngestUploadSuccess(t *testing.T) {
	repo := &repoFake{}
	storage := &storageFake{}
	queue := &queueFake{}
	uc := NewIngestConsultationUseCase(repo, storage, queue)

	c, err := uc.Upload(context.Background(), "consulta 1.txt", "text/plain", bytes.NewBufferString("olá"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if _, err := ulid.ParseStrict(c.ID); err != nil {
		t.Fatalf("expected ULID id, got %q: %v", c.ID, err)
	}
	if c.Status != domain.StatusUploaded {
		t.Fatalf("expected status uploaded, got %s", c.Status)
	}
	if repo.created == nil {
		t.Fatalf("expected repo.Create call")
	}
	if queue.consultationID != c.ID {
		t.Fatalf("expected queued id %s, got %s", c.ID, queue.consultationID)
	}
	if !strings.HasSuffix(storage.savedKey, "_consulta_1.txt") {
		t.Fatalf("expected sanitized key suffix, got %s", storage.savedKey)
	}
	if storage.savedBody != "olá" {
		t.Fatalf("expected saved body, got %s", storage.savedBody)
	}
}

func TestIngestIDsAreSortable(t *testing.T) {
	uc := NewIngestConsultationUseCase(&repoFake{}, &storageFake{}, &queueFake{})

	first, err := uc.Upload(context.Background(), "a.txt", "text/plain", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	second, err := uc.Upload(context.Background(), "b.txt", "text/plain", strings.NewReader("y"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if first.ID >= second.ID {
		t.Fatalf("expected increasing ids, got %s then %s", first.ID, second.ID)
	}
}

func TestIngestUploadStorageError(t *testing.T) {
	repo := &repoFake{}
	uc := NewIngestConsultationUseCase(repo, &storageFake{err: errors.New("disk full")}, &queueFake{})

	_, err := uc.Upload(context.Background(), "a.txt", "text/plain", strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "save to object storage") {
		t.Fatalf("expected storage error, got %v", err)
	}
	if repo.created != nil {
		t.Fatalf("repo must not be written when storage fails")
	}
}

func TestIngestUploadQueueError(t *testing.T) {
	uc := NewIngestConsultationUseCase(&repoFake{}, &storageFake{}, &queueFake{err: errors.New("queue down")})

	_, err := uc.Upload(context.Background(), "report.txt", "text/plain", bytes.NewBufferString("hello"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "publish ingestion event") {
		t.Fatalf("expected publish error, got %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"../../etc/passwd": "passwd",
		"consulta é.txt":   "consulta__.txt",
		"":                 "transcript.txt",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
}
