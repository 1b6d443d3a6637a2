// Package sections finds labeled résumé sections and scores each against a job description.
package sections

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	Skills     = "skills"
	Experience = "experience"
	Education  = "education"
)

// Names lists the scored sections in report order.
var Names = []string{Skills, Experience, Education}

// Heading patterns match a label at the start of a line, optionally preceded by
// up to two qualifier words ("Work Experience", "Professional Skills"). Group 1
// is whatever follows the label and its separators on the same line.
var headings = map[string]*regexp.Regexp{
	Skills:     heading(`technical skills?|core competencies|skills?`),
	Experience: heading(`work history|experience|employment`),
	Education:  heading(`education|academic|qualifications?`),
}

func heading(labels string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^[\s\-*•·]*(?:[a-z]+\s+){0,2}(?:` + labels + `)\b[\s:]*(.*)$`)
}

// Similarity is the scoring dependency of a Matcher.
type Similarity interface {
	Percent(ctx context.Context, a, b string) (float64, error)
}

// Matcher scores résumé sections against a job description.
type Matcher struct {
	sim Similarity
}

func NewMatcher(sim Similarity) *Matcher {
	return &Matcher{sim: sim}
}

// Scores returns a percentage for every name in Names. Sections that cannot be
// found score 0; an error from the similarity call aborts scoring.
func (m *Matcher) Scores(ctx context.Context, resumeText, jobDescription string) (map[string]float64, error) {
	scores := make(map[string]float64, len(Names))
	for _, name := range Names {
		body, ok := Find(resumeText, name)
		if !ok {
			scores[name] = 0
			continue
		}
		score, err := m.sim.Percent(ctx, body, jobDescription)
		if err != nil {
			return nil, fmt.Errorf("score %s section: %w", name, err)
		}
		scores[name] = score
	}
	return scores, nil
}

// Find returns the body of the first section labeled name. The body starts with
// the text after the label (or the next non-blank line when the label stands
// alone) and runs until a blank line or a line starting with an upper-case letter.
func Find(text, name string) (string, bool) {
	re, ok := headings[name]
	if !ok {
		return "", false
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	for i, line := range lines {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		var body []string
		j := i + 1
		if first := strings.TrimSpace(m[1]); first != "" {
			body = append(body, first)
		} else {
			for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
				j++
			}
			if j == len(lines) {
				continue
			}
			body = append(body, strings.TrimSpace(lines[j]))
			j++
		}

		for ; j < len(lines); j++ {
			next := lines[j]
			if strings.TrimSpace(next) == "" || startsUpper(next) {
				break
			}
			body = append(body, strings.TrimSpace(next))
		}
		return strings.Join(body, "\n"), true
	}
	return "", false
}

func startsUpper(line string) bool {
	for _, r := range line {
		return unicode.IsUpper(r)
	}
	return false
}
