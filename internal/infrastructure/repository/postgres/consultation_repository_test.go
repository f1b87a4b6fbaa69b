package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/eixo/medical-scribe/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*ConsultationRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return NewConsultationRepository(db), mock, func() { _ = db.Close() }
}

var columns = []string{"id", "filename", "mime_type", "storage_path", "status", "error_message", "result", "created_at", "updated_at"}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrConsultationNotFound) {
		t.Fatalf("expected ErrConsultationNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDDecodesStoredResult(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	stored, err := json.Marshal(domain.ProcessingResult{
		Success: true,
		Record:  &domain.ClinicalRecord{Diagnosis: domain.Diagnosis{Code: "I10"}, Severity: domain.SeverityMild},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	now := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("c1", "a.txt", "text/plain", "c1_a.txt", "ready", "", stored, now, now))

	c, err := repo.GetByID(context.Background(), "c1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if c.Status != domain.StatusReady {
		t.Fatalf("expected ready, got %s", c.Status)
	}
	if c.Result == nil || c.Result.Record.Diagnosis.Code != "I10" {
		t.Fatalf("expected decoded result, got %+v", c.Result)
	}
}

func TestListOrdersAndLimits(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	mock.ExpectQuery("ORDER BY created_at DESC").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("c2", "b.txt", "text/plain", "c2_b.txt", "uploaded", "", nil, now, now).
			AddRow("c1", "a.txt", "text/plain", "c1_a.txt", "failed", "too short", nil, now.Add(-time.Minute), now))

	items, err := repo.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 2 || items[0].ID != "c2" || items[1].Error != "too short" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if items[0].Result != nil {
		t.Fatalf("expected nil result for NULL column")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE consultations").
		WithArgs("missing", string(domain.StatusProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusProcessing, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrConsultationNotFound) {
		t.Fatalf("expected ErrConsultationNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveResultReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE consultations").
		WithArgs("missing", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveResult(context.Background(), "missing", domain.NewFailure(domain.FailureInsufficientInput, "curto"))
	if !domain.IsKind(err, domain.ErrConsultationNotFound) {
		t.Fatalf("expected ErrConsultationNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateInsertsRow(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO consultations").
		WithArgs("c1", "a.txt", "text/plain", "c1_a.txt", "uploaded", "", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &domain.Consultation{
		ID: "c1", Filename: "a.txt", MimeType: "text/plain", StoragePath: "c1_a.txt",
		Status: domain.StatusUploaded, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
