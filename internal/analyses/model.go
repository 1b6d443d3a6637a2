package analyses

import (
	"resume-matcher/internal/keywords"
	"resume-matcher/internal/suggestions"
)

const (
	// keywordPool is how many keywords per text feed the matching/missing comparison.
	keywordPool = 20
	// keywordDisplay caps every keyword list in the report.
	keywordDisplay = 10
)

// Request is one uploaded résumé with the job description to match against.
type Request struct {
	ResumeBytes    []byte
	ResumeFilename string
	JobDescription string
}

// Result is the analysis report returned to the client.
type Result struct {
	Filename         string             `json:"filename"`
	Similarity       float64            `json:"similarity"`
	ResumeKeywords   []keywords.Keyword `json:"resumeKeywords"`
	JobKeywords      []keywords.Keyword `json:"jobKeywords"`
	MatchingKeywords []string           `json:"matchingKeywords"`
	MissingKeywords  []string           `json:"missingKeywords"`
	SectionScores    map[string]float64 `json:"sectionScores"`
	AISuggestions    string             `json:"aiSuggestions"`
	SuggestionStatus suggestions.Kind   `json:"suggestionStatus"`
	OllamaAvailable  bool               `json:"ollamaAvailable"`
	HistoryID        string             `json:"historyId,omitempty"`
	StorageKey       string             `json:"storageKey,omitempty"`
}

func firstN(list []keywords.Keyword, n int) []keywords.Keyword {
	if len(list) > n {
		return list[:n]
	}
	return list
}
