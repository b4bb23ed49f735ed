package service

import (
	perr "quill/internal/platform/errors"
	"quill/internal/services/pipeline/domain"
)

// aggregate folds chunk scores into a document score weighted by rune count
// Unavailable chunks are excluded; all chunks unavailable is an error
func aggregate(reports []domain.ChunkReport, weights []int) (float64, []int, error) {
	var (
		sum         float64
		total       int
		scored      int
		last        float64
		unavailable []int
	)
	for i, r := range reports {
		if r.Unavailable {
			unavailable = append(unavailable, r.Index)
			continue
		}
		w := 1
		if i < len(weights) && weights[i] > 0 {
			w = weights[i]
		}
		sum += r.Score * float64(w)
		total += w
		scored++
		last = r.Score
	}
	if total == 0 {
		return 0, nil, perr.Unavailablef("detection unavailable for all chunks")
	}
	// a single contributing chunk must carry its score through exactly,
	// without multiply-then-divide rounding
	if scored == 1 {
		return last, unavailable, nil
	}
	return sum / float64(total), unavailable, nil
}
