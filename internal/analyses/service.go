package analyses

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"resume-matcher/internal/extract"
	"resume-matcher/internal/history"
	"resume-matcher/internal/keywords"
	"resume-matcher/internal/shared/metrics"
	"resume-matcher/internal/shared/storage/object"
	"resume-matcher/internal/shared/telemetry"
	"resume-matcher/internal/suggestions"
)

// Similarity scores two texts as a 0-100 percentage.
type Similarity interface {
	Percent(ctx context.Context, a, b string) (float64, error)
}

// SectionScorer scores résumé sections against a job description.
type SectionScorer interface {
	Scores(ctx context.Context, resumeText, jobDescription string) (map[string]float64, error)
}

// Suggester produces improvement advice and reports on the generation server.
type Suggester interface {
	Suggest(ctx context.Context, resumeText, jobDescription string, score float64) suggestions.Result
	Available(ctx context.Context) bool
	Model() string
}

// HistoryLog is the persistence policy used by the HTTP layer.
type HistoryLog interface {
	Record(ctx context.Context, rec history.Record) bool
	List(ctx context.Context) []history.Record
	Clear(ctx context.Context) error
}

// Service runs the analysis pipeline. Archive is optional; KeywordPool
// defaults to 20.
type Service struct {
	Similarity  Similarity
	Sections    SectionScorer
	Suggestions Suggester
	History     HistoryLog
	Archive     object.ObjectStore
	KeywordPool int
	Now         func() time.Time
}

// Analyze extracts the résumé text and builds the full report. Extraction
// errors are returned as *extract.Error; embedding failures wrap ErrScoring.
func (s *Service) Analyze(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.JobDescription) == "" {
		return Result{}, fmt.Errorf("%w: job description is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.ResumeFilename) == "" {
		return Result{}, fmt.Errorf("%w: resume file name is required", ErrInvalidInput)
	}

	started := s.now()
	metrics.IncAnalysisStarted()

	resumeText, err := extract.FromBytes(ctx, req.ResumeBytes, req.ResumeFilename)
	if err != nil {
		metrics.IncExtractionFailed()
		return Result{}, err
	}
	if strings.TrimSpace(resumeText) == "" {
		metrics.IncExtractionFailed()
		return Result{}, &extract.Error{Kind: extract.KindFailed, Err: extract.ErrNoText}
	}

	resumeKeywords := keywords.Top(resumeText, s.keywordPool())
	jobKeywords := keywords.Top(req.JobDescription, s.keywordPool())
	matching, missing := keywords.Compare(resumeKeywords, jobKeywords, keywordDisplay)

	similarity, err := s.Similarity.Percent(ctx, resumeText, req.JobDescription)
	if err != nil {
		metrics.IncAnalysisFailed()
		return Result{}, fmt.Errorf("%w: overall similarity: %w", ErrScoring, err)
	}
	sectionScores, err := s.Sections.Scores(ctx, resumeText, req.JobDescription)
	if err != nil {
		metrics.IncAnalysisFailed()
		return Result{}, fmt.Errorf("%w: %w", ErrScoring, err)
	}

	advice := s.Suggestions.Suggest(ctx, resumeText, req.JobDescription, similarity)
	metrics.IncSuggestionOutcome(string(advice.Kind))

	result := Result{
		Filename:         req.ResumeFilename,
		Similarity:       similarity,
		ResumeKeywords:   firstN(resumeKeywords, keywordDisplay),
		JobKeywords:      firstN(jobKeywords, keywordDisplay),
		MatchingKeywords: matching,
		MissingKeywords:  missing,
		SectionScores:    sectionScores,
		AISuggestions:    advice.Text,
		SuggestionStatus: advice.Kind,
		OllamaAvailable:  advice.Kind != suggestions.KindUnavailable,
	}

	// Persist even if the client went away during generation.
	persistCtx := context.WithoutCancel(ctx)

	if s.Archive != nil {
		obj, err := s.Archive.Save(persistCtx, req.ResumeFilename, req.ResumeBytes)
		if err != nil {
			telemetry.Error("analysis.archive_failed", map[string]any{
				"filename": req.ResumeFilename,
				"error":    err,
			})
		} else {
			result.StorageKey = obj.Key
		}
	}

	rec := history.NewRecord(req.ResumeFilename, similarity, sectionScores, s.now())
	rec.StorageKey = result.StorageKey
	if s.History.Record(persistCtx, rec) {
		result.HistoryID = rec.ID
	} else {
		metrics.IncHistoryWriteFailed()
	}

	elapsed := s.now().Sub(started)
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(elapsed.Microseconds()) / 1000.0)
	telemetry.Info("analysis.completed", map[string]any{
		"filename":          req.ResumeFilename,
		"similarity":        similarity,
		"suggestion_status": string(advice.Kind),
		"duration_ms":       float64(elapsed.Microseconds()) / 1000.0,
	})
	return result, nil
}

// HistoryRecords returns all persisted records, oldest first.
func (s *Service) HistoryRecords(ctx context.Context) []history.Record {
	return s.History.List(ctx)
}

// ArchivedResume opens the archived upload of history record id. It returns
// ErrNotFound when the record is unknown, was stored without an upload, or
// archiving is disabled. The caller closes the reader.
func (s *Service) ArchivedResume(ctx context.Context, id string) (history.Record, io.ReadCloser, error) {
	if s.Archive == nil {
		return history.Record{}, nil, ErrNotFound
	}
	for _, rec := range s.History.List(ctx) {
		if rec.ID != id {
			continue
		}
		if rec.StorageKey == "" {
			return history.Record{}, nil, ErrNotFound
		}
		rc, err := s.Archive.Open(ctx, rec.StorageKey)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return history.Record{}, nil, ErrNotFound
			}
			return history.Record{}, nil, fmt.Errorf("open archived upload %s: %w", rec.StorageKey, err)
		}
		return rec, rc, nil
	}
	return history.Record{}, nil, ErrNotFound
}

// ClearHistory deletes every persisted record.
func (s *Service) ClearHistory(ctx context.Context) error {
	return s.History.Clear(ctx)
}

// SuggestionsAvailable reports whether the generation server is reachable.
func (s *Service) SuggestionsAvailable(ctx context.Context) bool {
	return s.Suggestions.Available(ctx)
}

// SuggestionModel returns the generation model id.
func (s *Service) SuggestionModel() string {
	return s.Suggestions.Model()
}

func (s *Service) keywordPool() int {
	if s.KeywordPool > 0 {
		return s.KeywordPool
	}
	return keywordPool
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
