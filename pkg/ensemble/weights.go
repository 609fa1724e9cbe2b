package ensemble

import (
	"github.com/yelen-fintech/yt-helpdesk/pkg/observability/logging"
)

// WeightAdapter turns an evaluation into a new weight distribution, smoothed
// against the previous distribution so a single noisy training round cannot
// thrash the blend.
type WeightAdapter struct {
	// MinCorpusSize is the minimum evaluation corpus size required before
	// re-weighting; below it the previous weights are kept unchanged.
	MinCorpusSize int

	// Inertia is the fraction of the previous weight retained verbatim.
	// The remainder (1 - Inertia) adopts the freshly observed performance.
	Inertia float64

	// CategoryWeight and PriorityWeight blend the two accuracy scores into
	// one composite score per model. Category is weighted more heavily:
	// priority mislabeling is judged less costly.
	CategoryWeight float64
	PriorityWeight float64
}

// NewWeightAdapter creates an adapter with the production policy:
// guard threshold 5, inertia 0.7, composite split 0.6/0.4.
func NewWeightAdapter() *WeightAdapter {
	return &WeightAdapter{
		MinCorpusSize:  5,
		Inertia:        0.7,
		CategoryWeight: 0.6,
		PriorityWeight: 0.4,
	}
}

// DefaultWeights is the initial distribution used before any evaluation has
// occurred.
func DefaultWeights() map[ModelID]float64 {
	return map[ModelID]float64{
		ModelDecisionTree:       0.4,
		ModelNaiveBayes:         0.3,
		ModelLogisticRegression: 0.3,
	}
}

// Update derives new weights from the evaluation. It is a pure function: the
// caller owns persisting the returned map. corpusSize is the size of the
// corpus backing the evaluation.
func (a *WeightAdapter) Update(current map[ModelID]float64, eval Evaluation, corpusSize int) map[ModelID]float64 {
	if corpusSize < a.MinCorpusSize {
		// Too little signal to re-weight safely.
		logging.Debugf("Skipping weight adaptation: corpus size %d below threshold %d", corpusSize, a.MinCorpusSize)
		return current
	}
	if len(eval.Scores) == 0 {
		return current
	}

	composite := make(map[ModelID]float64, len(eval.Scores))
	var total float64
	for id, score := range eval.Scores {
		c := a.CategoryWeight*score.CategoryScore + a.PriorityWeight*score.PriorityScore
		composite[id] = c
		total += c
	}

	// Normalize composites to a distribution. A total of zero means no
	// model got anything right; fall back to uniform instead of collapsing.
	normalized := make(map[ModelID]float64, len(composite))
	for id, c := range composite {
		if total > 0 {
			normalized[id] = c / total
		} else {
			normalized[id] = 1.0 / float64(len(composite))
		}
	}

	// Inertia blend: retain most of the previous weight, adopt a fraction
	// of the observed performance.
	blended := make(map[ModelID]float64, len(normalized))
	var blendedSum float64
	for id, n := range normalized {
		prev, ok := current[id]
		if !ok {
			prev = 0.3
		}
		w := a.Inertia*prev + (1-a.Inertia)*n
		blended[id] = w
		blendedSum += w
	}

	// Re-normalize so the weights sum to 1 exactly. A non-positive sum
	// cannot occur given the uniform fallback above, but never divide by it.
	if blendedSum <= 0 {
		return current
	}
	next := make(map[ModelID]float64, len(blended))
	for id, w := range blended {
		next[id] = w / blendedSum
	}

	logging.Infof("Model weights adapted: %v", next)
	return next
}
