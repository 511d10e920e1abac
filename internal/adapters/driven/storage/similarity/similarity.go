// Package similarity holds the vector math shared by the local vector indexes.
package similarity

import (
	"math"
	"sort"

	"github.com/custodia-labs/ragline/internal/core/ports/driven"
)

// Cosine returns the cosine similarity of a and b.
// Mismatched lengths or a zero vector yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Scored pairs a record with its similarity to a query.
type Scored struct {
	Record driven.VectorRecord
	Score  float64
}

// TopK ranks records against query and returns at most k hits, best first.
// Ties keep the order of records.
func TopK(query []float32, records []driven.VectorRecord, k int) []driven.VectorHit {
	if k <= 0 || len(records) == 0 {
		return nil
	}

	scored := make([]Scored, len(records))
	for i, r := range records {
		scored[i] = Scored{Record: r, Score: Cosine(query, r.Embedding)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	hits := make([]driven.VectorHit, k)
	for i := 0; i < k; i++ {
		score := scored[i].Score
		hits[i] = driven.VectorHit{Node: scored[i].Record.Node, Score: &score}
	}
	return hits
}
