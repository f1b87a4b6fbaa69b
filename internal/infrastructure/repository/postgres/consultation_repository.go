package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/eixo/medical-scribe/internal/core/domain"
)

type ConsultationRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewConsultationRepository(db *sql.DB) *ConsultationRepository {
	return &ConsultationRepository{db: db, now: time.Now}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *ConsultationRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026101401)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS consultations (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	result JSONB,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_consultations_status ON consultations(status);
CREATE INDEX IF NOT EXISTS idx_consultations_created_at ON consultations(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ConsultationRepository) Create(ctx context.Context, c *domain.Consultation) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO consultations (
	id, filename, mime_type, storage_path, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`,
		c.ID, c.Filename, c.MimeType, c.StoragePath, string(c.Status), c.Error, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert consultation: %w", err)
	}
	return nil
}

const selectColumns = `id, filename, mime_type, storage_path, status, error_message, result, created_at, updated_at`

func (r *ConsultationRepository) GetByID(ctx context.Context, id string) (*domain.Consultation, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+selectColumns+`
FROM consultations
WHERE id = $1
`, id)

	c, err := scanConsultation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrConsultationNotFound, "get consultation", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan consultation: %w", err)
	}
	return c, nil
}

func (r *ConsultationRepository) List(ctx context.Context, limit int) ([]domain.Consultation, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+selectColumns+`
FROM consultations
ORDER BY created_at DESC, id DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Consultation, 0, limit)
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consultation: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consultations: %w", err)
	}
	return out, nil
}

func (r *ConsultationRepository) UpdateStatus(ctx context.Context, id string, status domain.ConsultationStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE consultations
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, r.now().UTC())
	if err != nil {
		return fmt.Errorf("update consultation status: %w", err)
	}
	return requireAffected(res, "update consultation status", id)
}

func (r *ConsultationRepository) SaveResult(ctx context.Context, id string, result domain.ProcessingResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE consultations
SET result = $2, updated_at = $3
WHERE id = $1
`, id, raw, r.now().UTC())
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return requireAffected(res, "save result", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConsultation(row rowScanner) (*domain.Consultation, error) {
	var c domain.Consultation
	var status string
	var resultRaw []byte

	if err := row.Scan(
		&c.ID, &c.Filename, &c.MimeType, &c.StoragePath, &status, &c.Error, &resultRaw, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	c.Status = domain.ConsultationStatus(status)
	if len(resultRaw) > 0 {
		var result domain.ProcessingResult
		if err := json.Unmarshal(resultRaw, &result); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		c.Result = &result
	}
	return &c, nil
}

func requireAffected(res sql.Result, operation, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrConsultationNotFound, operation, fmt.Errorf("id=%s", id))
	}
	return nil
}
