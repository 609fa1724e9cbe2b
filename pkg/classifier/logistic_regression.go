package classifier

import (
	"fmt"
	"math"
	"sync/atomic"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/yelen-fintech/yt-helpdesk/pkg/ensemble"
)

// LogisticRegression is a multinomial (softmax) regression over TF-IDF
// features, trained by full-batch gradient descent. Category and priority
// are two independent heads over the same feature space.
type LogisticRegression struct {
	learningRate float64
	iterations   int
	maxFeatures  int

	model atomic.Pointer[logregModel]
}

type logregModel struct {
	vocab    *vocabulary
	category *logregHead
	priority *logregHead
}

// logregHead holds one head's weight matrix (features x classes) and bias.
// A nil weight matrix marks a prior-only head.
type logregHead struct {
	labels  *labelSpace
	weights *mat.Dense
	bias    []float64
	prior   []float64
}

// priorOnlyHead predicts the most frequent label with its empirical
// frequency as confidence.
func priorOnlyHead(labels []string) *logregHead {
	ls := newLabelSpace(labels)
	prior := make([]float64, ls.size())
	for _, label := range labels {
		prior[ls.index[label]] += 1.0 / float64(len(labels))
	}
	return &logregHead{labels: ls, prior: prior}
}

// NewLogisticRegression creates an untrained logistic regression member.
func NewLogisticRegression(cfg Config) *LogisticRegression {
	return &LogisticRegression{
		learningRate: cfg.LearningRate,
		iterations:   cfg.Iterations,
		maxFeatures:  cfg.MaxFeatures,
	}
}

// Train fits both heads on the corpus.
func (lr *LogisticRegression) Train(emails []ensemble.Email) (ensemble.TrainStats, error) {
	if err := ensemble.ValidateCorpus(emails); err != nil {
		return ensemble.TrainStats{}, err
	}

	if len(emails) == 0 {
		return ensemble.TrainStats{}, fmt.Errorf("cannot train on an empty corpus")
	}

	docs := corpusTokens(emails)
	vocab := buildVocabulary(docs, lr.maxFeatures)

	categories := make([]string, len(emails))
	priorities := make([]string, len(emails))
	for i, email := range emails {
		categories[i] = email.Category
		priorities[i] = email.Priority
	}

	n, d := len(docs), vocab.size()
	if d == 0 {
		// Every token was filtered out; fall back to label priors.
		lr.model.Store(&logregModel{
			vocab:    vocab,
			category: priorOnlyHead(categories),
			priority: priorOnlyHead(priorities),
		})
		return ensemble.TrainStats{NumSamples: len(emails)}, nil
	}

	x := mat.NewDense(n, d, nil)
	for i, doc := range docs {
		x.SetRow(i, vocab.tfidf(doc))
	}

	model := &logregModel{
		vocab:    vocab,
		category: lr.fitHead(x, categories),
		priority: lr.fitHead(x, priorities),
	}
	lr.model.Store(model)

	return ensemble.TrainStats{NumSamples: len(emails)}, nil
}

// Classify predicts both labels. Confidence is the mean of the two maximum
// softmax probabilities. Untrained, it returns the defined fallback.
func (lr *LogisticRegression) Classify(subject, body string) ensemble.Result {
	model := lr.model.Load()
	if model == nil {
		return ensemble.Fallback()
	}

	vec := model.vocab.tfidf(emailTokens(subject, body))
	category, catProb := model.category.predict(vec)
	priority, priProb := model.priority.predict(vec)

	return ensemble.Result{
		Category:   category,
		Priority:   priority,
		Confidence: (catProb + priProb) / 2,
	}
}

// fitHead runs full-batch gradient descent on the cross-entropy loss.
func (lr *LogisticRegression) fitHead(x *mat.Dense, labels []string) *logregHead {
	ls := newLabelSpace(labels)
	n, d := x.Dims()
	k := ls.size()

	head := &logregHead{
		labels:  ls,
		weights: mat.NewDense(d, k, nil),
		bias:    make([]float64, k),
	}
	if k < 2 {
		// A single class needs no fitting; predict always returns it.
		return head
	}

	target := mat.NewDense(n, k, nil)
	for i, label := range labels {
		target.Set(i, ls.index[label], 1)
	}

	probs := mat.NewDense(n, k, nil)
	diff := mat.NewDense(n, k, nil)
	grad := mat.NewDense(d, k, nil)

	for iter := 0; iter < lr.iterations; iter++ {
		// Forward pass: probs = softmax(x*W + b) row-wise.
		probs.Mul(x, head.weights)
		for i := 0; i < n; i++ {
			row := probs.RawRowView(i)
			floats.Add(row, head.bias)
			softmaxInPlace(row)
		}

		// Backward pass: grad = xT * (probs - target) / n.
		diff.Sub(probs, target)
		grad.Mul(x.T(), diff)
		grad.Scale(1/float64(n), grad)

		grad.Scale(-lr.learningRate, grad)
		head.weights.Add(head.weights, grad)
		for j := 0; j < k; j++ {
			head.bias[j] -= lr.learningRate * mat.Sum(diff.ColView(j)) / float64(n)
		}
	}
	return head
}

// predict returns the argmax label and its softmax probability.
func (h *logregHead) predict(vec []float64) (string, float64) {
	k := h.labels.size()
	if k == 1 {
		return h.labels.labels[0], 1.0
	}
	if h.weights == nil {
		best := 0
		for j, p := range h.prior {
			if p > h.prior[best] {
				best = j
			}
		}
		return h.labels.labels[best], h.prior[best]
	}

	logits := make([]float64, k)
	x := mat.NewVecDense(len(vec), vec)
	for j := 0; j < k; j++ {
		logits[j] = mat.Dot(h.weights.ColView(j), x) + h.bias[j]
	}
	softmaxInPlace(logits)

	best := 0
	for j, p := range logits {
		if p > logits[best] {
			best = j
		}
	}
	return h.labels.labels[best], logits[best]
}

// softmaxInPlace replaces the slice with its softmax, shifted by the max for
// numerical stability.
func softmaxInPlace(v []float64) {
	max := floats.Max(v)
	var sum float64
	for i, x := range v {
		v[i] = math.Exp(x - max)
		sum += v[i]
	}
	if sum > 0 {
		floats.Scale(1/sum, v)
	}
}
