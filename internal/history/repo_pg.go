package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PGStore implements Store using the analysis_history table.
type PGStore struct {
	DB    *sql.DB
	Limit int
}

// Append inserts rec and prunes older rows in one transaction.
func (s *PGStore) Append(ctx context.Context, rec Record) error {
	createdAt, err := time.Parse(time.RFC3339, rec.Timestamp)
	if err != nil {
		return fmt.Errorf("parse record timestamp: %w", err)
	}
	scores, err := json.Marshal(nonNilScores(rec.SectionScores))
	if err != nil {
		return fmt.Errorf("marshal section scores: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insert = `
INSERT INTO analysis_history (id, created_at, filename, similarity, section_scores, storage_key)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.ExecContext(ctx, insert,
		rec.ID,
		createdAt,
		rec.Filename,
		rec.Similarity,
		scores,
		nullString(rec.StorageKey),
	); err != nil {
		return fmt.Errorf("insert history record: %w", err)
	}

	const prune = `
DELETE FROM analysis_history
WHERE seq NOT IN (SELECT seq FROM analysis_history ORDER BY seq DESC LIMIT $1)`
	if _, err := tx.ExecContext(ctx, prune, s.limit()); err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return tx.Commit()
}

// LoadAll returns the retained records oldest first.
func (s *PGStore) LoadAll(ctx context.Context) ([]Record, error) {
	const query = `
SELECT id, created_at, filename, similarity, section_scores, storage_key
FROM analysis_history
ORDER BY seq ASC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	list := []Record{}
	for rows.Next() {
		var (
			rec        Record
			createdAt  time.Time
			scores     []byte
			storageKey sql.NullString
		)
		if err := rows.Scan(&rec.ID, &createdAt, &rec.Filename, &rec.Similarity, &scores, &storageKey); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if len(scores) > 0 {
			if err := json.Unmarshal(scores, &rec.SectionScores); err != nil {
				return nil, fmt.Errorf("%w: section scores for %s: %v", ErrCorrupt, rec.ID, err)
			}
		}
		rec.Timestamp = createdAt.UTC().Format(time.RFC3339)
		rec.StorageKey = storageKey.String
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return list, nil
}

func (s *PGStore) Clear(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM analysis_history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (s *PGStore) limit() int {
	return clampLimit(s.Limit)
}

func nonNilScores(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Store = (*PGStore)(nil)
