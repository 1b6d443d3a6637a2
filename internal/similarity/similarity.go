// Package similarity turns embedding vectors into a 0-100 match percentage.
package similarity

import (
	"context"
	"errors"
	"fmt"
	"math"

	"resume-matcher/internal/embedding"
)

var ErrDimensionMismatch = errors.New("vectors have different dimensions")

// Scorer compares texts with a shared embedding model.
type Scorer struct {
	model embedding.Model
}

// NewScorer returns a Scorer backed by model.
func NewScorer(model embedding.Model) *Scorer {
	return &Scorer{model: model}
}

// Percent embeds a and b in one call and returns their cosine similarity as a
// percentage rounded to two decimals. Negative similarity is reported as 0.
func (s *Scorer) Percent(ctx context.Context, a, b string) (float64, error) {
	vecs, err := s.model.Embed(ctx, []string{a, b})
	if err != nil {
		return 0, fmt.Errorf("embed texts: %w", err)
	}
	if len(vecs) != 2 {
		return 0, fmt.Errorf("embed texts: %w", embedding.ErrCountMismatch)
	}
	cos, err := Cosine(vecs[0], vecs[1])
	if err != nil {
		return 0, err
	}
	return ToPercent(cos), nil
}

// Cosine returns the cosine similarity of a and b. A zero vector yields 0.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}

// ToPercent scales a cosine value to [0, 100] with two decimals.
func ToPercent(cos float64) float64 {
	if math.IsNaN(cos) {
		return 0
	}
	p := Round2(cos * 100)
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Round2 rounds v half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
