package history

import (
	"context"

	"resume-matcher/internal/shared/telemetry"
)

// Service wraps a Store with the read/write policy of the HTTP layer: reading
// never fails the caller and failed writes are only logged.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Record persists rec and reports whether it was saved.
func (s *Service) Record(ctx context.Context, rec Record) bool {
	if err := s.store.Append(ctx, rec); err != nil {
		telemetry.Error("history.append_failed", map[string]any{
			"id":    rec.ID,
			"error": err,
		})
		return false
	}
	return true
}

// List returns all records, or an empty list when the log cannot be read.
func (s *Service) List(ctx context.Context) []Record {
	list, err := s.store.LoadAll(ctx)
	if err != nil {
		telemetry.Error("history.load_failed", map[string]any{"error": err})
		return []Record{}
	}
	if list == nil {
		return []Record{}
	}
	return list
}

// Clear deletes the log.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		telemetry.Error("history.clear_failed", map[string]any{"error": err})
		return err
	}
	telemetry.Info("history.cleared", nil)
	return nil
}
