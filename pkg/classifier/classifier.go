// Package classifier provides the three member models blended by the
// ensemble: a multinomial naive Bayes, a depth-limited decision tree and a
// softmax logistic regression. All three classify email subject and body
// into a category and a priority with a self-reported confidence.
//
// Trained state is swapped atomically: Train builds a complete model and
// publishes it in one store, so concurrent Classify calls always see either
// the previous model or the new one, never a half-trained mix.
package classifier

import (
	"math"
	"sort"

	"github.com/yelen-fintech/yt-helpdesk/pkg/ensemble"
	"github.com/yelen-fintech/yt-helpdesk/pkg/textproc"
)

// Config tunes the member classifiers.
type Config struct {
	// CategoryTreeDepth and PriorityTreeDepth limit the decision trees
	CategoryTreeDepth int
	PriorityTreeDepth int

	// LearningRate and Iterations drive logistic regression training
	LearningRate float64
	Iterations   int

	// MaxFeatures caps the TF-IDF vocabulary by document frequency
	MaxFeatures int
}

// DefaultConfig mirrors the production tuning.
func DefaultConfig() Config {
	return Config{
		CategoryTreeDepth: 5,
		PriorityTreeDepth: 3,
		LearningRate:      0.1,
		Iterations:        200,
		MaxFeatures:       1000,
	}
}

// emailTokens tokenizes one email. Subject tokens are emitted twice: the
// subject line is the strongest signal in helpdesk mail and gets double
// weight in every bag-of-words model.
func emailTokens(subject, body string) []string {
	subjectTokens := textproc.Tokenize(subject)
	tokens := make([]string, 0, 2*len(subjectTokens)+16)
	tokens = append(tokens, subjectTokens...)
	tokens = append(tokens, subjectTokens...)
	tokens = append(tokens, textproc.Tokenize(body)...)
	return tokens
}

// vocabulary maps tokens to dense feature indices.
type vocabulary struct {
	index   map[string]int
	docFreq []int
	numDocs int
}

// buildVocabulary scans tokenized documents and keeps at most maxFeatures
// tokens, preferring the most document-frequent ones for a stable, compact
// feature space.
func buildVocabulary(docs [][]string, maxFeatures int) *vocabulary {
	type tokenStat struct {
		token string
		df    int
	}
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, tok := range doc {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	stats := make([]tokenStat, 0, len(df))
	for tok, n := range df {
		stats = append(stats, tokenStat{token: tok, df: n})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].df != stats[j].df {
			return stats[i].df > stats[j].df
		}
		return stats[i].token < stats[j].token
	})
	if maxFeatures > 0 && len(stats) > maxFeatures {
		stats = stats[:maxFeatures]
	}

	vocab := &vocabulary{
		index:   make(map[string]int, len(stats)),
		docFreq: make([]int, len(stats)),
		numDocs: len(docs),
	}
	for i, s := range stats {
		vocab.index[s.token] = i
		vocab.docFreq[i] = s.df
	}
	return vocab
}

func (v *vocabulary) size() int { return len(v.index) }

// tfidf vectorizes one tokenized document against the vocabulary.
func (v *vocabulary) tfidf(doc []string) []float64 {
	vec := make([]float64, v.size())
	if len(doc) == 0 {
		return vec
	}
	counts := make(map[int]int, len(doc))
	for _, tok := range doc {
		if idx, ok := v.index[tok]; ok {
			counts[idx]++
		}
	}
	for idx, count := range counts {
		tf := float64(count) / float64(len(doc))
		idf := math.Log(float64(1+v.numDocs)/float64(1+v.docFreq[idx])) + 1
		vec[idx] = tf * idf
	}
	return vec
}

// labelSpace assigns dense indices to distinct labels in first-seen order.
type labelSpace struct {
	labels []string
	index  map[string]int
}

func newLabelSpace(labels []string) *labelSpace {
	ls := &labelSpace{index: make(map[string]int)}
	for _, l := range labels {
		if _, ok := ls.index[l]; !ok {
			ls.index[l] = len(ls.labels)
			ls.labels = append(ls.labels, l)
		}
	}
	return ls
}

func (ls *labelSpace) size() int { return len(ls.labels) }

// corpusTokens tokenizes every email of the corpus once.
func corpusTokens(emails []ensemble.Email) [][]string {
	docs := make([][]string, len(emails))
	for i, email := range emails {
		docs[i] = emailTokens(email.Subject, email.Body)
	}
	return docs
}
