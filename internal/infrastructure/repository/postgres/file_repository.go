package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/AswanthAllu/agentic/internal/core/domain"
)

type FileRepository struct {
	db *sql.DB
}

func NewFileRepository(db *sql.DB) *FileRepository {
	return &FileRepository{db: db}
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

func (r *FileRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS files (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT,
	chunk_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_files_owner ON files(owner_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_files_status ON files(status);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *FileRepository) Create(ctx context.Context, file *domain.File) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO files (
	id, owner_id, filename, mime_type, storage_path, status, error_message, chunk_count, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		file.ID, file.OwnerID, file.Filename, file.MimeType, file.StoragePath,
		string(file.Status), file.Error, file.ChunkCount, file.CreatedAt, file.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

// GetByID scopes lookups to the owner when one is given; workers pass an
// empty owner to fetch by id alone. A row belonging to someone else is
// indistinguishable from a missing row.
func (r *FileRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.File, error) {
	const base = `
SELECT id, owner_id, filename, mime_type, storage_path, status, error_message, chunk_count, created_at, updated_at
FROM files
WHERE id = $1`

	var row *sql.Row
	if ownerID == "" {
		row = r.db.QueryRowContext(ctx, base, id)
	} else {
		row = r.db.QueryRowContext(ctx, base+` AND owner_id = $2`, id, ownerID)
	}

	var file domain.File
	var status string
	err := row.Scan(
		&file.ID, &file.OwnerID, &file.Filename, &file.MimeType, &file.StoragePath,
		&status, &file.Error, &file.ChunkCount, &file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get file", fmt.Errorf("file %s", id))
		}
		return nil, fmt.Errorf("scan file: %w", err)
	}
	file.Status = domain.FileStatus(status)
	return &file, nil
}

func (r *FileRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.File, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, owner_id, filename, mime_type, storage_path, status, error_message, chunk_count, created_at, updated_at
FROM files
WHERE owner_id = $1
ORDER BY created_at DESC
`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []domain.File
	for rows.Next() {
		var file domain.File
		var status string
		if err := rows.Scan(
			&file.ID, &file.OwnerID, &file.Filename, &file.MimeType, &file.StoragePath,
			&status, &file.Error, &file.ChunkCount, &file.CreatedAt, &file.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan file row: %w", err)
		}
		file.Status = domain.FileStatus(status)
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file rows: %w", err)
	}
	return files, nil
}

func (r *FileRepository) UpdateStatus(ctx context.Context, id string, status domain.FileStatus, errMessage string, chunkCount int) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE files
SET status = $2, error_message = $3, chunk_count = $4, updated_at = $5
WHERE id = $1
`, id, string(status), errMessage, chunkCount, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update file status: %w", err)
	}
	return nil
}

func (r *FileRepository) Delete(ctx context.Context, ownerID, id string) error {
	result, err := r.db.ExecContext(ctx, `
DELETE FROM files
WHERE id = $1 AND owner_id = $2
`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete file rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, "delete file", fmt.Errorf("file %s", id))
	}
	return nil
}
