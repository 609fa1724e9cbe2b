package ensemble

import (
	"fmt"
	"math"
)

// Evaluator scores every member classifier against a training corpus by
// replaying each record through Classify and counting exact matches.
type Evaluator struct{}

// NewEvaluator creates an Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate computes per-model category and priority accuracy over the corpus.
// An empty corpus yields a message-only report with no scores; evaluation
// never fails.
func (e *Evaluator) Evaluate(corpus []Email, members map[ModelID]Member) Evaluation {
	if len(corpus) == 0 {
		return Evaluation{
			Message: "no training data available for evaluation",
			Scores:  map[ModelID]ModelScore{},
		}
	}

	categoryCorrect := make(map[ModelID]int, len(members))
	priorityCorrect := make(map[ModelID]int, len(members))
	total := len(corpus)

	for _, email := range corpus {
		for _, id := range ModelOrder {
			member, ok := members[id]
			if !ok {
				continue
			}
			result := member.Classify(email.Subject, email.Body)
			if result.Category == email.Category {
				categoryCorrect[id]++
			}
			if result.Priority == email.Priority {
				priorityCorrect[id]++
			}
		}
	}

	scores := make(map[ModelID]ModelScore, len(members))
	for _, id := range ModelOrder {
		if _, ok := members[id]; !ok {
			continue
		}
		scores[id] = ModelScore{
			CategoryScore: round3(float64(categoryCorrect[id]) / float64(total)),
			PriorityScore: round3(float64(priorityCorrect[id]) / float64(total)),
		}
	}

	return Evaluation{
		Message: fmt.Sprintf("evaluated on %d training examples", total),
		Scores:  scores,
	}
}

// round3 rounds to 3 decimal places, matching the reported score precision.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
