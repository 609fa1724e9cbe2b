package ensemble

import (
	"fmt"
	"sync"

	"github.com/yelen-fintech/yt-helpdesk/pkg/observability/logging"
)

// Aggregator orchestrates training, evaluation, weight adaptation and
// weighted-vote classification. It is the sole owner of the weight
// distribution and the stored training corpus.
//
// Train takes the write lock end to end, so weight mutation is never
// interleaved with training or observed half-updated. Classify snapshots the
// weight map under the read lock at call start and then runs lock-free.
type Aggregator struct {
	mu      sync.RWMutex
	members map[ModelID]Member
	weights map[ModelID]float64
	corpus  []Email

	evaluator *Evaluator
	adapter   *WeightAdapter
}

// NewAggregator creates an aggregator over the given members. A nil adapter
// gets the production policy; nil or empty initial weights get the default
// {0.4, 0.3, 0.3} distribution.
func NewAggregator(members map[ModelID]Member, adapter *WeightAdapter, initial map[ModelID]float64) (*Aggregator, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("ensemble requires at least one member classifier")
	}
	for _, id := range ModelOrder {
		if _, ok := members[id]; !ok {
			return nil, fmt.Errorf("ensemble member %q is missing", id)
		}
	}
	if adapter == nil {
		adapter = NewWeightAdapter()
	}
	weights := DefaultWeights()
	if len(initial) > 0 {
		weights = make(map[ModelID]float64, len(initial))
		for id, w := range initial {
			weights[id] = w
		}
	}
	return &Aggregator{
		members:   members,
		weights:   weights,
		evaluator: NewEvaluator(),
		adapter:   adapter,
	}, nil
}

// Train replaces the stored corpus, trains every member on it, evaluates the
// freshly trained members and adapts the weights from the scores. A record
// missing any required field aborts training for all members.
func (a *Aggregator) Train(emails []Email) (*TrainingReport, error) {
	if err := ValidateCorpus(emails); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	corpus := make([]Email, len(emails))
	copy(corpus, emails)
	a.corpus = corpus

	for _, id := range ModelOrder {
		stats, err := a.members[id].Train(corpus)
		if err != nil {
			return nil, fmt.Errorf("training %s failed: %w", id, err)
		}
		logging.Debugf("Trained %s on %d samples", id, stats.NumSamples)
	}

	eval := a.evaluator.Evaluate(a.corpus, a.members)
	a.weights = a.adapter.Update(a.weights, eval, len(a.corpus))

	return &TrainingReport{
		NumSamples:   len(a.corpus),
		Performance:  eval.Scores,
		ModelWeights: copyWeights(a.weights),
	}, nil
}

// Classify fans the email out to every member, tallies weighted votes over
// the proposed category and priority labels independently, and returns the
// full decision including every member's raw result.
func (a *Aggregator) Classify(subject, body string) Decision {
	a.mu.RLock()
	weights := copyWeights(a.weights)
	members := a.members
	a.mu.RUnlock()

	// Members hold no shared mutable state across Classify calls, so the
	// fan-out is free to run in parallel.
	results := make(map[ModelID]Result, len(members))
	var (
		wg sync.WaitGroup
		rm sync.Mutex
	)
	for _, id := range ModelOrder {
		wg.Add(1)
		go func(id ModelID, m Member) {
			defer wg.Done()
			r := m.Classify(subject, body)
			rm.Lock()
			results[id] = r
			rm.Unlock()
		}(id, members[id])
	}
	wg.Wait()

	categoryScores := make(map[string]float64)
	priorityScores := make(map[string]float64)
	for _, id := range ModelOrder {
		r := results[id]
		w := weights[id]
		categoryScores[r.Category] += r.Confidence * w
		priorityScores[r.Priority] += r.Confidence * w
	}

	finalCategory := argmaxLabel(categoryScores, results, func(r Result) string { return r.Category })
	finalPriority := argmaxLabel(priorityScores, results, func(r Result) string { return r.Priority })

	// Blended confidence is a global weighted average of the members' own
	// certainty, independent of which labels won the vote.
	var confSum, weightSum float64
	for _, id := range ModelOrder {
		confSum += results[id].Confidence * weights[id]
		weightSum += weights[id]
	}
	confidence := 0.0
	if weightSum > 0 {
		confidence = confSum / weightSum
	}

	return Decision{
		Category:     finalCategory,
		Priority:     finalPriority,
		Confidence:   confidence,
		ModelWeights: weights,
		ModelResults: results,
	}
}

// Evaluate scores the members against the stored corpus. With no corpus it
// returns a message-only report; it never fails.
func (a *Aggregator) Evaluate() Evaluation {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.evaluator.Evaluate(a.corpus, a.members)
}

// Weights returns a snapshot of the current weight distribution.
func (a *Aggregator) Weights() map[ModelID]float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return copyWeights(a.weights)
}

// CorpusSize returns the size of the stored training corpus.
func (a *Aggregator) CorpusSize() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.corpus)
}

// argmaxLabel picks the label with the maximum accumulated score. Ties are
// broken by the first label reaching the maximum when walking members in
// ModelOrder, so repeated calls with identical inputs decide identically.
func argmaxLabel(scores map[string]float64, results map[ModelID]Result, label func(Result) string) string {
	best := ""
	bestScore := -1.0
	seen := make(map[string]bool, len(scores))
	for _, id := range ModelOrder {
		l := label(results[id])
		if seen[l] {
			continue
		}
		seen[l] = true
		if scores[l] > bestScore {
			best = l
			bestScore = scores[l]
		}
	}
	return best
}

func copyWeights(w map[ModelID]float64) map[ModelID]float64 {
	out := make(map[ModelID]float64, len(w))
	for id, v := range w {
		out[id] = v
	}
	return out
}
