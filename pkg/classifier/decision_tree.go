package classifier

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/yelen-fintech/yt-helpdesk/pkg/ensemble"
)

// DecisionTree classifies emails with two depth-limited trees over token
// presence features, split by information gain. The category tree is allowed
// more depth than the priority tree: priorities have fewer labels and
// overfit faster.
type DecisionTree struct {
	categoryDepth int
	priorityDepth int
	maxFeatures   int

	model atomic.Pointer[treeModel]
}

type treeModel struct {
	vocab    *vocabulary
	category *treeHead
	priority *treeHead
}

type treeHead struct {
	labels *labelSpace
	root   *treeNode
}

// treeNode is either an internal split on one token's presence or a leaf
// carrying the majority label and its purity.
type treeNode struct {
	feature int
	absent  *treeNode
	present *treeNode

	leaf   bool
	label  int
	purity float64
}

// NewDecisionTree creates an untrained decision tree member.
func NewDecisionTree(cfg Config) *DecisionTree {
	return &DecisionTree{
		categoryDepth: cfg.CategoryTreeDepth,
		priorityDepth: cfg.PriorityTreeDepth,
		maxFeatures:   cfg.MaxFeatures,
	}
}

// Train grows both trees on the corpus.
func (dt *DecisionTree) Train(emails []ensemble.Email) (ensemble.TrainStats, error) {
	if err := ensemble.ValidateCorpus(emails); err != nil {
		return ensemble.TrainStats{}, err
	}
	if len(emails) == 0 {
		return ensemble.TrainStats{}, fmt.Errorf("cannot train on an empty corpus")
	}

	docs := corpusTokens(emails)
	vocab := buildVocabulary(docs, dt.maxFeatures)

	features := make([]map[int]bool, len(docs))
	for i, doc := range docs {
		present := make(map[int]bool, len(doc))
		for _, tok := range doc {
			if idx, ok := vocab.index[tok]; ok {
				present[idx] = true
			}
		}
		features[i] = present
	}

	categories := make([]string, len(emails))
	priorities := make([]string, len(emails))
	for i, email := range emails {
		categories[i] = email.Category
		priorities[i] = email.Priority
	}

	model := &treeModel{
		vocab:    vocab,
		category: growTree(features, categories, vocab.size(), dt.categoryDepth),
		priority: growTree(features, priorities, vocab.size(), dt.priorityDepth),
	}
	dt.model.Store(model)

	return ensemble.TrainStats{NumSamples: len(emails)}, nil
}

// Classify walks both trees. Confidence is the mean of the two leaf
// purities. Untrained, it returns the defined fallback.
func (dt *DecisionTree) Classify(subject, body string) ensemble.Result {
	model := dt.model.Load()
	if model == nil {
		return ensemble.Fallback()
	}

	present := make(map[int]bool)
	for _, tok := range emailTokens(subject, body) {
		if idx, ok := model.vocab.index[tok]; ok {
			present[idx] = true
		}
	}

	category, catPurity := model.category.predict(present)
	priority, priPurity := model.priority.predict(present)

	return ensemble.Result{
		Category:   category,
		Priority:   priority,
		Confidence: (catPurity + priPurity) / 2,
	}
}

func growTree(features []map[int]bool, labels []string, numFeatures, maxDepth int) *treeHead {
	ls := newLabelSpace(labels)
	classes := make([]int, len(labels))
	for i, l := range labels {
		classes[i] = ls.index[l]
	}
	samples := make([]int, len(features))
	for i := range samples {
		samples[i] = i
	}
	return &treeHead{
		labels: ls,
		root:   buildNode(features, classes, samples, ls.size(), numFeatures, maxDepth),
	}
}

func buildNode(features []map[int]bool, classes, samples []int, numClasses, numFeatures, depth int) *treeNode {
	counts := classCounts(classes, samples, numClasses)
	label, purity := majority(counts, len(samples))

	if depth == 0 || len(samples) < 2 || purity == 1.0 {
		return &treeNode{leaf: true, label: label, purity: purity}
	}

	parentEntropy := entropy(counts, len(samples))
	bestFeature := -1
	bestGain := 1e-9
	for f := 0; f < numFeatures; f++ {
		var present, absent []int
		for _, s := range samples {
			if features[s][f] {
				present = append(present, s)
			} else {
				absent = append(absent, s)
			}
		}
		if len(present) == 0 || len(absent) == 0 {
			continue
		}
		gain := parentEntropy -
			(float64(len(present))/float64(len(samples)))*entropy(classCounts(classes, present, numClasses), len(present)) -
			(float64(len(absent))/float64(len(samples)))*entropy(classCounts(classes, absent, numClasses), len(absent))
		if gain > bestGain {
			bestGain = gain
			bestFeature = f
		}
	}

	if bestFeature < 0 {
		return &treeNode{leaf: true, label: label, purity: purity}
	}

	var present, absent []int
	for _, s := range samples {
		if features[s][bestFeature] {
			present = append(present, s)
		} else {
			absent = append(absent, s)
		}
	}

	return &treeNode{
		feature: bestFeature,
		present: buildNode(features, classes, present, numClasses, numFeatures, depth-1),
		absent:  buildNode(features, classes, absent, numClasses, numFeatures, depth-1),
	}
}

func (h *treeHead) predict(present map[int]bool) (string, float64) {
	node := h.root
	for !node.leaf {
		if present[node.feature] {
			node = node.present
		} else {
			node = node.absent
		}
	}
	return h.labels.labels[node.label], node.purity
}

func classCounts(classes, samples []int, numClasses int) []int {
	counts := make([]int, numClasses)
	for _, s := range samples {
		counts[classes[s]]++
	}
	return counts
}

func majority(counts []int, total int) (int, float64) {
	best, bestCount := 0, -1
	for class, count := range counts {
		if count > bestCount {
			best = class
			bestCount = count
		}
	}
	if total == 0 {
		return best, 0
	}
	return best, float64(bestCount) / float64(total)
}

func entropy(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	var e float64
	for _, count := range counts {
		if count == 0 {
			continue
		}
		p := float64(count) / float64(total)
		e -= p * math.Log2(p)
	}
	return e
}
