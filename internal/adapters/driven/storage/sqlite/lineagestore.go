package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/curator/internal/core/domain"
	"github.com/custodia-labs/curator/internal/core/ports/driven"
)

// lineageStore implements driven.LineageStore.
type lineageStore struct {
	store *Store
}

var _ driven.LineageStore = (*lineageStore)(nil)

// SaveRef stores or updates an artifact reference.
func (s *lineageStore) SaveRef(ctx context.Context, ref domain.ArtifactRef) error {
	if ref.ArtifactID == "" {
		return fmt.Errorf("%w: artifact id is empty", domain.ErrInvalidInput)
	}
	metadataJSON, err := json.Marshal(ref.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO artifacts (artifact_id, type, uri, checksum, metadata)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(artifact_id) DO UPDATE SET
			type = excluded.type,
			uri = excluded.uri,
			checksum = excluded.checksum,
			metadata = excluded.metadata
	`, ref.ArtifactID, ref.Type, ref.URI, ref.Checksum, string(metadataJSON))
	if err != nil {
		return fmt.Errorf("saving artifact: %w", err)
	}
	return nil
}

// GetRef retrieves a reference by artifact id.
func (s *lineageStore) GetRef(ctx context.Context, artifactID string) (*domain.ArtifactRef, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT artifact_id, type, uri, checksum, metadata
		FROM artifacts WHERE artifact_id = ?
	`, artifactID)

	var ref domain.ArtifactRef
	var metadataJSON string
	if err := row.Scan(&ref.ArtifactID, &ref.Type, &ref.URI, &ref.Checksum, &metadataJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning artifact: %w", err)
	}
	if err := unmarshalMetadata(metadataJSON, &ref.Metadata); err != nil {
		return nil, err
	}
	return &ref, nil
}

// SaveEdge stores an edge. Edge ids must be unique.
func (s *lineageStore) SaveEdge(ctx context.Context, edge domain.ProvenanceEdge) error {
	if edge.ID == "" {
		return fmt.Errorf("%w: edge id is empty", domain.ErrInvalidInput)
	}
	metadataJSON, err := json.Marshal(edge.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO edges (id, trace_id, source_type, source_id, target_type, target_id, relationship, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, edge.ID, nullString(edge.TraceID), edge.SourceType, edge.SourceID,
		edge.TargetType, edge.TargetID, edge.Relationship, string(metadataJSON))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: edge %s", domain.ErrAlreadyExists, edge.ID)
		}
		return fmt.Errorf("saving edge: %w", err)
	}
	return nil
}

// ListEdges returns edges whose source or target is artifactID, in
// insertion order.
func (s *lineageStore) ListEdges(ctx context.Context, artifactID string) ([]domain.ProvenanceEdge, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, trace_id, source_type, source_id, target_type, target_id, relationship, metadata
		FROM edges WHERE source_id = ? OR target_id = ? ORDER BY seq
	`, artifactID, artifactID)
	if err != nil {
		return nil, fmt.Errorf("querying edges: %w", err)
	}
	defer rows.Close()

	result := make([]domain.ProvenanceEdge, 0)
	for rows.Next() {
		var e domain.ProvenanceEdge
		var traceID sql.NullString
		var metadataJSON string
		if err := rows.Scan(&e.ID, &traceID, &e.SourceType, &e.SourceID,
			&e.TargetType, &e.TargetID, &e.Relationship, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		e.TraceID = traceID.String
		if err := unmarshalMetadata(metadataJSON, &e.Metadata); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating edges: %w", err)
	}
	return result, nil
}

func unmarshalMetadata(data string, dst *map[string]any) error {
	if data == "" || data == jsonNull {
		return nil
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return fmt.Errorf("unmarshalling metadata: %w", err)
	}
	return nil
}
