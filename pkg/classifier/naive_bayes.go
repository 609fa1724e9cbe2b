package classifier

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/yelen-fintech/yt-helpdesk/pkg/ensemble"
)

// NaiveBayes is a multinomial naive Bayes classifier with Laplace smoothing
// over bag-of-words counts. Category and priority are fitted as two
// independent label spaces sharing one vocabulary.
type NaiveBayes struct {
	model atomic.Pointer[bayesModel]
}

type bayesModel struct {
	vocab    *vocabulary
	category *bayesHead
	priority *bayesHead
}

// bayesHead holds the per-label token statistics for one label space.
type bayesHead struct {
	labels      *labelSpace
	logPriors   []float64
	tokenCounts [][]float64 // label -> feature -> count
	totalCounts []float64   // label -> sum of feature counts
}

// NewNaiveBayes creates an untrained naive Bayes member.
func NewNaiveBayes() *NaiveBayes {
	return &NaiveBayes{}
}

// Train fits both heads on the corpus.
func (nb *NaiveBayes) Train(emails []ensemble.Email) (ensemble.TrainStats, error) {
	if err := ensemble.ValidateCorpus(emails); err != nil {
		return ensemble.TrainStats{}, err
	}
	if len(emails) == 0 {
		return ensemble.TrainStats{}, fmt.Errorf("cannot train on an empty corpus")
	}

	docs := corpusTokens(emails)
	vocab := buildVocabulary(docs, 0)

	categories := make([]string, len(emails))
	priorities := make([]string, len(emails))
	for i, email := range emails {
		categories[i] = email.Category
		priorities[i] = email.Priority
	}

	model := &bayesModel{
		vocab:    vocab,
		category: fitBayesHead(docs, categories, vocab),
		priority: fitBayesHead(docs, priorities, vocab),
	}
	nb.model.Store(model)

	return ensemble.TrainStats{NumSamples: len(emails)}, nil
}

// Classify predicts both labels. Confidence is the mean of the two maximum
// posterior probabilities. Untrained, it returns the defined fallback.
func (nb *NaiveBayes) Classify(subject, body string) ensemble.Result {
	model := nb.model.Load()
	if model == nil {
		return ensemble.Fallback()
	}

	doc := emailTokens(subject, body)
	category, catProb := model.category.predict(doc, model.vocab)
	priority, priProb := model.priority.predict(doc, model.vocab)

	return ensemble.Result{
		Category:   category,
		Priority:   priority,
		Confidence: (catProb + priProb) / 2,
	}
}

func fitBayesHead(docs [][]string, labels []string, vocab *vocabulary) *bayesHead {
	ls := newLabelSpace(labels)
	head := &bayesHead{
		labels:      ls,
		logPriors:   make([]float64, ls.size()),
		tokenCounts: make([][]float64, ls.size()),
		totalCounts: make([]float64, ls.size()),
	}
	classCounts := make([]int, ls.size())
	for i := range head.tokenCounts {
		head.tokenCounts[i] = make([]float64, vocab.size())
	}

	for i, doc := range docs {
		class := ls.index[labels[i]]
		classCounts[class]++
		for _, tok := range doc {
			if idx, ok := vocab.index[tok]; ok {
				head.tokenCounts[class][idx]++
				head.totalCounts[class]++
			}
		}
	}
	for class, count := range classCounts {
		head.logPriors[class] = math.Log(float64(count) / float64(len(docs)))
	}
	return head
}

// predict returns the argmax label and its normalized posterior probability.
func (h *bayesHead) predict(doc []string, vocab *vocabulary) (string, float64) {
	vocabSize := float64(vocab.size())
	logPosts := make([]float64, h.labels.size())

	for class := range logPosts {
		logPost := h.logPriors[class]
		for _, tok := range doc {
			idx, ok := vocab.index[tok]
			if !ok {
				continue
			}
			// Laplace smoothing keeps unseen tokens from zeroing the class.
			logPost += math.Log((h.tokenCounts[class][idx] + 1) / (h.totalCounts[class] + vocabSize))
		}
		logPosts[class] = logPost
	}

	// Normalize in log space for a proper posterior.
	maxLog := logPosts[0]
	best := 0
	for class, lp := range logPosts {
		if lp > maxLog {
			maxLog = lp
			best = class
		}
	}
	var total float64
	for _, lp := range logPosts {
		total += math.Exp(lp - maxLog)
	}
	prob := 1.0
	if total > 0 {
		prob = 1.0 / total // exp(maxLog-maxLog) / total
	}
	return h.labels.labels[best], prob
}
