package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMember returns a fixed result regardless of input.
type stubMember struct {
	result   Result
	trainErr error
	trained  int
}

func (s *stubMember) Train(emails []Email) (TrainStats, error) {
	if s.trainErr != nil {
		return TrainStats{}, s.trainErr
	}
	s.trained++
	return TrainStats{NumSamples: len(emails)}, nil
}

func (s *stubMember) Classify(subject, body string) Result {
	return s.result
}

// echoMember predicts by reading the expected labels out of the subject,
// simulating a perfectly fitted model.
type echoMember struct {
	answers map[string]Result
}

func (e *echoMember) Train(emails []Email) (TrainStats, error) {
	e.answers = make(map[string]Result, len(emails))
	for _, email := range emails {
		e.answers[email.Subject] = Result{Category: email.Category, Priority: email.Priority, Confidence: 1.0}
	}
	return TrainStats{NumSamples: len(emails)}, nil
}

func (e *echoMember) Classify(subject, body string) Result {
	if r, ok := e.answers[subject]; ok {
		return r
	}
	return Fallback()
}

func stubMembers(r Result) map[ModelID]Member {
	return map[ModelID]Member{
		ModelDecisionTree:       &stubMember{result: r},
		ModelNaiveBayes:         &stubMember{result: r},
		ModelLogisticRegression: &stubMember{result: r},
	}
}

func TestEvaluatorEmptyCorpus(t *testing.T) {
	eval := NewEvaluator().Evaluate(nil, stubMembers(Fallback()))

	assert.NotEmpty(t, eval.Message)
	assert.Empty(t, eval.Scores)
}

func TestEvaluatorPerfectRoundTrip(t *testing.T) {
	members := map[ModelID]Member{
		ModelDecisionTree:       &echoMember{},
		ModelNaiveBayes:         &echoMember{},
		ModelLogisticRegression: &echoMember{},
	}
	corpus := make([]Email, 0, 10)
	for i := 0; i < 5; i++ {
		corpus = append(corpus,
			Email{Subject: "Urgent outage", Body: "system down", Category: "support", Priority: "high"},
			Email{Subject: "Pricing question", Body: "how much", Category: "sales", Priority: "low"},
		)
	}
	for _, m := range members {
		_, err := m.Train(corpus)
		require.NoError(t, err)
	}

	eval := NewEvaluator().Evaluate(corpus, members)

	require.Len(t, eval.Scores, 3)
	for id, score := range eval.Scores {
		assert.Equal(t, 1.0, score.CategoryScore, "category score for %s", id)
		assert.Equal(t, 1.0, score.PriorityScore, "priority score for %s", id)
	}
}

func TestEvaluatorPartialAccuracyRounding(t *testing.T) {
	// One fixed prediction against a 3-record corpus: 1/3 accuracy on
	// category, 0 on priority, rounded to three decimals.
	members := stubMembers(Result{Category: "support", Priority: "high", Confidence: 0.9})
	corpus := []Email{
		{Subject: "a", Body: "b", Category: "support", Priority: "urgent"},
		{Subject: "c", Body: "d", Category: "sales", Priority: "low"},
		{Subject: "e", Body: "f", Category: "billing", Priority: "medium"},
	}

	eval := NewEvaluator().Evaluate(corpus, members)

	for _, score := range eval.Scores {
		assert.Equal(t, 0.333, score.CategoryScore)
		assert.Equal(t, 0.0, score.PriorityScore)
	}
}
