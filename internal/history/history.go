// Package history persists a bounded log of past analyses.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultLimit is the number of records kept. It is also the ceiling for any
// configured limit.
const DefaultLimit = 50

// ErrCorrupt is returned by LoadAll when the persisted log cannot be parsed.
var ErrCorrupt = errors.New("history log is corrupt")

// Record is one persisted analysis outcome.
type Record struct {
	ID            string             `json:"id"`
	Timestamp     string             `json:"timestamp"`
	Filename      string             `json:"filename"`
	Similarity    float64            `json:"similarity"`
	SectionScores map[string]float64 `json:"section_scores"`
	StorageKey    string             `json:"storage_key,omitempty"`
}

// NewRecord stamps a record with a fresh id and the given time.
func NewRecord(filename string, similarity float64, sectionScores map[string]float64, at time.Time) Record {
	return Record{
		ID:            uuid.NewString(),
		Timestamp:     at.UTC().Format(time.RFC3339),
		Filename:      filename,
		Similarity:    similarity,
		SectionScores: sectionScores,
	}
}

// Store is an insertion-ordered log holding at most a fixed number of records.
type Store interface {
	Append(ctx context.Context, rec Record) error
	LoadAll(ctx context.Context) ([]Record, error)
	Clear(ctx context.Context) error
}

// clampLimit maps a configured limit into [1, DefaultLimit].
func clampLimit(limit int) int {
	if limit <= 0 || limit > DefaultLimit {
		return DefaultLimit
	}
	return limit
}

// keepLast returns the trailing limit records of list.
func keepLast(list []Record, limit int) []Record {
	limit = clampLimit(limit)
	if len(list) <= limit {
		return list
	}
	return list[len(list)-limit:]
}
