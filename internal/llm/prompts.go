package llm

import (
	_ "embed"
	"strconv"
	"strings"
)

//go:embed prompts/suggestions_v1.txt
var suggestionsPromptV1 string

// Prompt input limits, counted in characters.
const (
	JobDescriptionLimit = 800
	ResumeLimit         = 1200
)

// SuggestionsPrompt fills the improvement-suggestions template. Inputs are cut to
// JobDescriptionLimit and ResumeLimit characters.
func SuggestionsPrompt(resumeText, jobDescription string, score float64) string {
	replacer := strings.NewReplacer(
		"{{SCORE}}", strconv.FormatFloat(score, 'f', -1, 64),
		"{{JOB_LIMIT}}", strconv.Itoa(JobDescriptionLimit),
		"{{RESUME_LIMIT}}", strconv.Itoa(ResumeLimit),
		"{{JOB_DESCRIPTION}}", Truncate(jobDescription, JobDescriptionLimit),
		"{{RESUME}}", Truncate(resumeText, ResumeLimit),
	)
	return strings.TrimRight(replacer.Replace(suggestionsPromptV1), "\n")
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
