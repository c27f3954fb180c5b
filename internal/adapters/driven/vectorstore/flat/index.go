package flat

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// snapshot is an immutable index state. Mutations build a new snapshot,
// so readers holding the old one never see a partial update.
type snapshot struct {
	dim     int
	vectors [][]float32
	records []domain.ChunkRecord
	texts   []string
}

func emptySnapshot() *snapshot {
	return &snapshot{}
}

func (s *snapshot) len() int {
	return len(s.vectors)
}

// appended returns a new snapshot with one slot per chunk added at the end.
// The receiver is left untouched on error.
func (s *snapshot) appended(chunks []domain.Chunk, vectors [][]float32, now time.Time) (*snapshot, error) {
	dim := s.dim
	normed := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, fmt.Errorf("vector %d: %w: empty vector", i, domain.ErrInvalidInput)
		}
		if dim == 0 {
			dim = len(v)
		}
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d: %w", i, &domain.DimensionMismatchError{Expected: dim, Got: len(v)})
		}
		n, err := normalise(v)
		if err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
		normed[i] = n
	}

	next := &snapshot{
		dim:     dim,
		vectors: make([][]float32, 0, s.len()+len(chunks)),
		records: make([]domain.ChunkRecord, 0, s.len()+len(chunks)),
		texts:   make([]string, 0, s.len()+len(chunks)),
	}
	next.vectors = append(append(next.vectors, s.vectors...), normed...)
	next.records = append(next.records, s.records...)
	next.texts = append(next.texts, s.texts...)
	for _, c := range chunks {
		next.records = append(next.records, domain.NewChunkRecord(c, now))
		next.texts = append(next.texts, c.Content)
	}
	return next, nil
}

// without returns a rebuilt snapshot holding only slots of other documents,
// in their original relative order, and the number of slots dropped.
func (s *snapshot) without(documentID string) (*snapshot, int) {
	next := emptySnapshot()
	removed := 0
	for i, rec := range s.records {
		if rec.DocumentID == documentID {
			removed++
			continue
		}
		next.vectors = append(next.vectors, s.vectors[i])
		next.records = append(next.records, rec)
		next.texts = append(next.texts, s.texts[i])
	}
	if removed == 0 {
		return s, 0
	}
	if next.len() > 0 {
		next.dim = s.dim
	}
	return next, removed
}

// search ranks every slot against query. Results are ordered by ascending
// distance with ties broken by ascending slot.
func (s *snapshot) search(query []float32, k int) ([]domain.RetrievedChunk, error) {
	if s.len() == 0 || k <= 0 {
		return []domain.RetrievedChunk{}, nil
	}
	if len(query) != s.dim {
		return nil, &domain.DimensionMismatchError{Expected: s.dim, Got: len(query)}
	}
	q, err := normalise(query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	type scored struct {
		slot int
		dist float64
	}
	all := make([]scored, s.len())
	for i, v := range s.vectors {
		all[i] = scored{slot: i, dist: squaredL2(q, v)}
	}
	slices.SortStableFunc(all, func(a, b scored) int {
		return cmp.Compare(a.dist, b.dist)
	})

	k = min(k, len(all))
	hits := make([]domain.RetrievedChunk, k)
	for i := range k {
		hit := all[i]
		hits[i] = domain.RetrievedChunk{
			Content:    s.texts[hit.slot],
			Record:     s.records[hit.slot],
			Similarity: similarity(hit.dist),
			Distance:   hit.dist,
			Slot:       hit.slot,
		}
	}
	return hits, nil
}

// distinctDocuments counts the documents with at least one slot.
func (s *snapshot) distinctDocuments() int {
	seen := make(map[string]struct{}, len(s.records))
	for _, rec := range s.records {
		seen[rec.DocumentID] = struct{}{}
	}
	return len(seen)
}

// normalise returns v scaled to unit length.
// Zero and non-finite vectors have no direction and are rejected.
func normalise(v []float32) ([]float32, error) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, fmt.Errorf("%w: vector has no direction", domain.ErrInvalidInput)
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out, nil
}

func squaredL2(a, b []float32) float64 {
	var d float64
	for i := range a {
		diff := float64(a[i]) - float64(b[i])
		d += diff * diff
	}
	return d
}

// similarity maps a squared distance between unit vectors onto [-1, 1].
func similarity(d float64) float64 {
	return max(-1, min(1, 1-d/2))
}
