package ensemble

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightAdapterSmallCorpusGuard(t *testing.T) {
	adapter := NewWeightAdapter()
	current := map[ModelID]float64{
		ModelDecisionTree:       0.4,
		ModelNaiveBayes:         0.3,
		ModelLogisticRegression: 0.3,
	}
	eval := Evaluation{
		Scores: map[ModelID]ModelScore{
			ModelDecisionTree:       {CategoryScore: 1.0, PriorityScore: 1.0},
			ModelNaiveBayes:         {CategoryScore: 0.2, PriorityScore: 0.2},
			ModelLogisticRegression: {CategoryScore: 0.2, PriorityScore: 0.2},
		},
	}

	next := adapter.Update(current, eval, 4)

	// Below the threshold the previous weights come back bit-for-bit.
	require.Len(t, next, 3)
	for id, w := range current {
		assert.Equal(t, w, next[id], "weight for %s changed despite small corpus", id)
	}
}

func TestWeightAdapterSumInvariant(t *testing.T) {
	adapter := NewWeightAdapter()
	current := DefaultWeights()
	eval := Evaluation{
		Scores: map[ModelID]ModelScore{
			ModelDecisionTree:       {CategoryScore: 0.9, PriorityScore: 0.8},
			ModelNaiveBayes:         {CategoryScore: 0.5, PriorityScore: 0.6},
			ModelLogisticRegression: {CategoryScore: 0.7, PriorityScore: 0.4},
		},
	}

	next := adapter.Update(current, eval, 10)

	var sum float64
	for _, w := range next {
		assert.GreaterOrEqual(t, w, 0.0)
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestWeightAdapterZeroCompositeFallsBackToUniform(t *testing.T) {
	adapter := NewWeightAdapter()
	current := DefaultWeights()
	eval := Evaluation{
		Scores: map[ModelID]ModelScore{
			ModelDecisionTree:       {},
			ModelNaiveBayes:         {},
			ModelLogisticRegression: {},
		},
	}

	next := adapter.Update(current, eval, 10)

	// With every composite at zero the observed distribution is uniform,
	// so the blend is 0.7*prev + 0.3*(1/3), renormalized.
	var sum float64
	for _, w := range next {
		sum += w
	}
	require.InDelta(t, 1.0, sum, 1e-6)
	expectedDT := 0.7*0.4 + 0.3/3.0
	assert.InDelta(t, expectedDT, next[ModelDecisionTree], 1e-9)
}

func TestWeightAdapterInertiaBlend(t *testing.T) {
	adapter := NewWeightAdapter()
	current := map[ModelID]float64{
		ModelDecisionTree:       0.5,
		ModelNaiveBayes:         0.25,
		ModelLogisticRegression: 0.25,
	}
	// naive_bayes gets the entire composite mass.
	eval := Evaluation{
		Scores: map[ModelID]ModelScore{
			ModelDecisionTree:       {},
			ModelNaiveBayes:         {CategoryScore: 1.0, PriorityScore: 1.0},
			ModelLogisticRegression: {},
		},
	}

	next := adapter.Update(current, eval, 10)

	// dt: 0.7*0.5, nb: 0.7*0.25 + 0.3, lr: 0.7*0.25; sum is already 1.0.
	assert.InDelta(t, 0.35, next[ModelDecisionTree], 1e-9)
	assert.InDelta(t, 0.475, next[ModelNaiveBayes], 1e-9)
	assert.InDelta(t, 0.175, next[ModelLogisticRegression], 1e-9)
}

func TestWeightAdapterUnknownModelUsesDefaultPrior(t *testing.T) {
	adapter := NewWeightAdapter()
	// Model absent from the current distribution falls back to a 0.3 prior.
	current := map[ModelID]float64{
		ModelDecisionTree: 0.5,
		ModelNaiveBayes:   0.5,
	}
	eval := Evaluation{
		Scores: map[ModelID]ModelScore{
			ModelDecisionTree:       {CategoryScore: 0.5, PriorityScore: 0.5},
			ModelNaiveBayes:         {CategoryScore: 0.5, PriorityScore: 0.5},
			ModelLogisticRegression: {CategoryScore: 0.5, PriorityScore: 0.5},
		},
	}

	next := adapter.Update(current, eval, 10)

	require.Contains(t, next, ModelLogisticRegression)
	var sum float64
	for _, w := range next {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestWeightAdaptationDirection(t *testing.T) {
	adapter := NewWeightAdapter()
	weights := DefaultWeights()

	// decision_tree scores strictly higher composite accuracy than its
	// peers across two consecutive rounds; its weight must not decrease.
	eval := Evaluation{
		Scores: map[ModelID]ModelScore{
			ModelDecisionTree:       {CategoryScore: 0.9, PriorityScore: 0.9},
			ModelNaiveBayes:         {CategoryScore: 0.4, PriorityScore: 0.4},
			ModelLogisticRegression: {CategoryScore: 0.4, PriorityScore: 0.4},
		},
	}

	afterFirst := adapter.Update(weights, eval, 6)
	afterSecond := adapter.Update(afterFirst, eval, 12)

	assert.GreaterOrEqual(t, afterSecond[ModelDecisionTree]+1e-9, afterFirst[ModelDecisionTree])
	assert.Greater(t, afterSecond[ModelDecisionTree], afterSecond[ModelNaiveBayes])
}

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	assert.Equal(t, 0.4, w[ModelDecisionTree])
	assert.Equal(t, 0.3, w[ModelNaiveBayes])
	assert.Equal(t, 0.3, w[ModelLogisticRegression])

	var sum float64
	for _, v := range w {
		sum += v
	}
	assert.True(t, math.Abs(sum-1.0) < 1e-9)
}
