package similarity

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

// wordModel embeds texts as counts over a fixed vocabulary.
type wordModel struct {
	vocab []string
	err   error
}

func (w wordModel) Name() string { return "words" }

func (w wordModel) Embed(_ context.Context, texts []string) ([][]float64, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec := make([]float64, len(w.vocab))
		for _, tok := range strings.Fields(strings.ToLower(text)) {
			tok = strings.Trim(tok, ".,;:")
			for j, v := range w.vocab {
				if tok == v {
					vec[j]++
				}
			}
		}
		out[i] = vec
	}
	return out, nil
}

var vocab = []string{"python", "aws", "docker", "kubernetes", "golang", "sql"}

func TestPercentIdenticalIsHundred(t *testing.T) {
	s := NewScorer(wordModel{vocab: vocab})
	got, err := s.Percent(context.Background(), "Python AWS Docker", "Python AWS Docker")
	if err != nil {
		t.Fatalf("Percent: %v", err)
	}
	if got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
}

func TestPercentSymmetricAndBounded(t *testing.T) {
	s := NewScorer(wordModel{vocab: vocab})
	pairs := [][2]string{
		{"Python, AWS, Docker", "Python, Kubernetes, Docker"},
		{"golang sql sql", "python"},
		{"docker docker aws", "aws kubernetes"},
	}
	for _, p := range pairs {
		ab, err := s.Percent(context.Background(), p[0], p[1])
		if err != nil {
			t.Fatalf("Percent: %v", err)
		}
		ba, err := s.Percent(context.Background(), p[1], p[0])
		if err != nil {
			t.Fatalf("Percent: %v", err)
		}
		if math.Abs(ab-ba) > 1e-9 {
			t.Fatalf("not symmetric for %q: %v vs %v", p, ab, ba)
		}
		if ab < 0 || ab > 100 {
			t.Fatalf("out of range for %q: %v", p, ab)
		}
	}
}

func TestPercentPartialOverlap(t *testing.T) {
	s := NewScorer(wordModel{vocab: vocab})
	got, err := s.Percent(context.Background(), "Python, AWS, Docker", "Python, Kubernetes, Docker")
	if err != nil {
		t.Fatalf("Percent: %v", err)
	}
	// 2 shared of 3 terms each: cos = 2/3.
	if got != 66.67 {
		t.Fatalf("expected 66.67, got %v", got)
	}
}

func TestPercentPropagatesModelError(t *testing.T) {
	boom := errors.New("model offline")
	s := NewScorer(wordModel{err: boom})
	if _, err := s.Percent(context.Background(), "a", "b"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped model error, got %v", err)
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{name: "same direction", a: []float64{1, 2}, b: []float64{2, 4}, want: 1},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, want: 0},
		{name: "opposite", a: []float64{1, 0}, b: []float64{-1, 0}, want: -1},
		{name: "zero vector", a: []float64{0, 0}, b: []float64{1, 1}, want: 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cosine(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Cosine: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Cosine = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := Cosine([]float64{1}, []float64{1, 2}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestToPercentClamps(t *testing.T) {
	if got := ToPercent(-0.4); got != 0 {
		t.Fatalf("negative cosine: got %v", got)
	}
	if got := ToPercent(1.0000001); got != 100 {
		t.Fatalf("cosine above 1: got %v", got)
	}
	if got := ToPercent(0.123456); got != 12.35 {
		t.Fatalf("rounding: got %v", got)
	}
	if got := ToPercent(math.NaN()); got != 0 {
		t.Fatalf("NaN: got %v", got)
	}
}
