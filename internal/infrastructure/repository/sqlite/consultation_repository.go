package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eixo/medical-scribe/internal/core/domain"
)

// Fixed-width UTC so that text ordering matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ConsultationRepository is the single-node store used when no Postgres is
// available. It implements the same contract as the postgres package.
type ConsultationRepository struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the database file with WAL enabled and creates the schema.
func Open(ctx context.Context, path string) (*ConsultationRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	// One writer at a time; avoids SQLITE_BUSY between api goroutines.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	repo := &ConsultationRepository{db: db, now: time.Now}
	if err := repo.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *ConsultationRepository) Close() error {
	return r.db.Close()
}

func (r *ConsultationRepository) initSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS consultations (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	result TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_consultations_created_at ON consultations(created_at DESC);
`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (r *ConsultationRepository) Create(ctx context.Context, c *domain.Consultation) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO consultations (
	id, filename, mime_type, storage_path, status, error_message, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`,
		c.ID, c.Filename, c.MimeType, c.StoragePath, string(c.Status), c.Error,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert consultation: %w", err)
	}
	return nil
}

const selectColumns = `id, filename, mime_type, storage_path, status, error_message, result, created_at, updated_at`

func (r *ConsultationRepository) GetByID(ctx context.Context, id string) (*domain.Consultation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM consultations WHERE id = ?`, id)
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
LIMIT ?
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
	res, err := r.db.ExecContext(ctx,
		`UPDATE consultations SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		string(status), errMessage, formatTime(r.now()), id,
	)
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
	res, err := r.db.ExecContext(ctx,
		`UPDATE consultations SET result = ?, updated_at = ? WHERE id = ?`,
		string(raw), formatTime(r.now()), id,
	)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return requireAffected(res, "save result", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConsultation(row rowScanner) (*domain.Consultation, error) {
	var (
		c                    domain.Consultation
		status               string
		result               sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&c.ID, &c.Filename, &c.MimeType, &c.StoragePath, &status, &c.Error, &result, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	c.Status = domain.ConsultationStatus(status)

	var err error
	if c.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if c.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	if result.Valid && result.String != "" {
		var pr domain.ProcessingResult
		if err := json.Unmarshal([]byte(result.String), &pr); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		c.Result = &pr
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

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
