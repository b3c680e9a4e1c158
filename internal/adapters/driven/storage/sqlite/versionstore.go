package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/curator/internal/core/domain"
	"github.com/custodia-labs/curator/internal/core/ports/driven"
)

// versionStore implements driven.VersionStore.
type versionStore struct {
	store *Store
}

var _ driven.VersionStore = (*versionStore)(nil)

// EnsureDataset records artifactID for name unless one is already stored.
func (s *versionStore) EnsureDataset(ctx context.Context, name, artifactID string) (string, error) {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO datasets (name, artifact_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, artifactID, formatTime(time.Now().UTC()))
	if err != nil {
		return "", fmt.Errorf("saving dataset: %w", err)
	}
	return s.DatasetID(ctx, name)
}

// DatasetID returns the stored artifact id for name.
func (s *versionStore) DatasetID(ctx context.Context, name string) (string, error) {
	var id string
	err := s.store.db.QueryRowContext(ctx, "SELECT artifact_id FROM datasets WHERE name = ?", name).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("scanning dataset: %w", err)
	}
	return id, nil
}

// AppendVersion inserts record at position expected. The insert and the
// length check are one statement, so SQLite's write lock makes them atomic
// across processes.
func (s *versionStore) AppendVersion(
	ctx context.Context,
	name string,
	record domain.VersionRecord,
	expected int,
) error {
	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}
	tags := record.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO versions (dataset_name, seq, version, hash, created_at, size, metadata, tags, snapshot)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?
		WHERE (SELECT COUNT(*) FROM versions WHERE dataset_name = ?) = ?
	`, name, expected, record.Version, record.Hash, formatTime(record.CreatedAt), record.Size,
		string(metadataJSON), string(tagsJSON), record.Snapshot, name, expected)
	if err != nil && !isUniqueViolation(err) {
		return fmt.Errorf("saving version: %w", err)
	}

	if err == nil {
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking insert: %w", err)
		}
		if n == 1 {
			return nil
		}
	}

	// Either the length check failed or a constraint fired; tell the
	// caller which.
	if _, err := s.GetVersion(ctx, name, record.Version); err == nil {
		return fmt.Errorf("%w: version %q of dataset %q", domain.ErrAlreadyExists, record.Version, name)
	}
	return fmt.Errorf("%w: dataset %q no longer has %d versions", domain.ErrConcurrencyConflict, name, expected)
}

// GetVersion retrieves one version record.
func (s *versionStore) GetVersion(ctx context.Context, name, version string) (*domain.VersionRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT version, hash, created_at, size, metadata, tags, snapshot
		FROM versions WHERE dataset_name = ? AND version = ?
	`, name, version)

	rec, err := scanVersion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// ListVersions returns the history in append order.
func (s *versionStore) ListVersions(ctx context.Context, name string) ([]domain.VersionRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT version, hash, created_at, size, metadata, tags, snapshot
		FROM versions WHERE dataset_name = ? ORDER BY seq
	`, name)
	if err != nil {
		return nil, fmt.Errorf("querying versions: %w", err)
	}
	defer rows.Close()

	result := make([]domain.VersionRecord, 0)
	for rows.Next() {
		rec, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating versions: %w", err)
	}
	return result, nil
}

// SetTags replaces the tag list of one version.
func (s *versionStore) SetTags(ctx context.Context, name, version string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}

	res, err := s.store.db.ExecContext(ctx, `
		UPDATE versions SET tags = ? WHERE dataset_name = ? AND version = ?
	`, string(tagsJSON), name, version)
	if err != nil {
		return fmt.Errorf("updating tags: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanVersion(row rowScanner) (*domain.VersionRecord, error) {
	var rec domain.VersionRecord
	var createdAt, metadataJSON, tagsJSON string
	if err := row.Scan(&rec.Version, &rec.Hash, &createdAt, &rec.Size, &metadataJSON, &tagsJSON, &rec.Snapshot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning version: %w", err)
	}

	t, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	rec.CreatedAt = t

	if metadataJSON != "" && metadataJSON != jsonNull {
		if err := json.Unmarshal([]byte(metadataJSON), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata: %w", err)
		}
	}
	if err := json.Unmarshal([]byte(tagsJSON), &rec.Tags); err != nil {
		return nil, fmt.Errorf("unmarshalling tags: %w", err)
	}
	if len(rec.Tags) == 0 {
		rec.Tags = nil
	}
	return &rec, nil
}

// Timestamps are stored as fixed-width RFC 3339 text so that they keep
// nanoseconds and sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
