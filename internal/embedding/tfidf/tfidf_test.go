package tfidf

import (
	"math"
	"testing"
)

var corpus = []string{
	"The cat sat on the mat.",
	"Dogs chase cats around the yard.",
	"An API key authenticates requests.",
}

func TestPrepareSetsDimension(t *testing.T) {
	e := NewEmbedder()
	if err := e.Prepare(corpus); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if e.Dimension() == 0 {
		t.Fatal("dimension = 0 after prepare")
	}
}

func TestEmbedBeforePrepare(t *testing.T) {
	e := NewEmbedder()
	if _, err := e.Embed("anything"); err == nil {
		t.Fatal("expected error before Prepare")
	}
}

func TestEmbedIsNormalized(t *testing.T) {
	e := NewEmbedder()
	if err := e.Prepare(corpus); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	vec, err := e.Embed("cat on mat")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-9 {
		t.Errorf("norm = %f, want 1", math.Sqrt(norm))
	}
}

func TestEmbedUnknownTokensYieldZeroVector(t *testing.T) {
	e := NewEmbedder()
	if err := e.Prepare(corpus); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	vec, err := e.Embed("zzz qqq www")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for i, v := range vec {
		if v != 0 {
			t.Fatalf("component %d = %f, want zero vector", i, v)
		}
	}
}

func TestSimilarTextsScoreHigher(t *testing.T) {
	e := NewEmbedder()
	if err := e.Prepare(corpus); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	q, _ := e.Embed("cat sat mat")
	near, _ := e.Embed(corpus[0])
	far, _ := e.Embed(corpus[2])
	if dot(q, near) <= dot(q, far) {
		t.Errorf("similar text scored lower: near=%f far=%f", dot(q, near), dot(q, far))
	}
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
