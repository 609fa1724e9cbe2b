package ensemble

import "fmt"

// ModelID identifies one of the member classifiers. The set is closed: the
// ensemble always blends exactly these three models.
type ModelID string

const (
	ModelDecisionTree       ModelID = "decision_tree"
	ModelNaiveBayes         ModelID = "naive_bayes"
	ModelLogisticRegression ModelID = "logistic_regression"
)

// ModelOrder is the canonical iteration order over member classifiers. Every
// tie-break in the aggregator walks models in this order so that repeated
// calls with identical inputs produce identical decisions.
var ModelOrder = []ModelID{ModelDecisionTree, ModelNaiveBayes, ModelLogisticRegression}

// Email is one training record. All four fields are required; Train rejects
// the whole corpus if any record is incomplete.
type Email struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// Result is a single classifier's prediction for one email.
type Result struct {
	// Category is the predicted category label
	Category string `json:"category"`

	// Priority is the predicted priority label
	Priority string `json:"priority"`

	// Confidence is the classifier's self-reported certainty in [0,1].
	// Each member computes it from its own internal notion (posterior
	// probability, leaf purity, softmax margin); the aggregator treats
	// these as numerically comparable.
	Confidence float64 `json:"confidence"`
}

// Fallback is the defined result of classifying before any training has
// occurred. Untrained members return it instead of failing.
func Fallback() Result {
	return Result{Category: "unknown", Priority: "medium", Confidence: 0.0}
}

// TrainStats reports a single member's training outcome.
type TrainStats struct {
	// NumSamples is the number of emails the member was fitted on
	NumSamples int `json:"num_samples"`
}

// Member is the capability contract consumed from each classifier variant.
// Implementations must be safe for concurrent Classify calls against their
// own immutable trained state.
type Member interface {
	// Train fits the member on the corpus. It fails if any record is
	// missing a required field.
	Train(emails []Email) (TrainStats, error)

	// Classify predicts category, priority and confidence for one email.
	// Before training it returns Fallback() rather than an error.
	Classify(subject, body string) Result
}

// ModelScore is one member's in-sample accuracy pair.
type ModelScore struct {
	// CategoryScore is the exact-match category accuracy in [0,1]
	CategoryScore float64 `json:"category_score"`

	// PriorityScore is the exact-match priority accuracy in [0,1]
	PriorityScore float64 `json:"priority_score"`
}

// Evaluation is the outcome of scoring every member against the stored
// corpus. Scores are in-sample: the same data was used for fitting and
// scoring, so they must not be read as held-out accuracy.
type Evaluation struct {
	// Message is a human-readable summary
	Message string `json:"message"`

	// Scores maps model id to its accuracy pair. Empty when no corpus
	// was available.
	Scores map[ModelID]ModelScore `json:"scores"`
}

// TrainingReport is the aggregate outcome of a Train call.
type TrainingReport struct {
	// NumSamples is the size of the stored corpus
	NumSamples int `json:"num_samples"`

	// Performance holds the post-training evaluation scores per model
	Performance map[ModelID]ModelScore `json:"performance"`

	// ModelWeights is the weight snapshot after adaptation
	ModelWeights map[ModelID]float64 `json:"model_weights"`
}

// Decision is the output of an ensemble classification.
type Decision struct {
	// Category is the weighted-vote winner among proposed categories
	Category string `json:"category"`

	// Priority is the weighted-vote winner among proposed priorities,
	// tallied independently of Category
	Priority string `json:"priority"`

	// Confidence is the weighted average of the members' self-reported
	// confidences. It is a global certainty figure, not the margin of the
	// winning label.
	Confidence float64 `json:"confidence"`

	// ModelWeights is the weight snapshot the vote used
	ModelWeights map[ModelID]float64 `json:"model_weights"`

	// ModelResults holds every member's raw prediction for transparency
	ModelResults map[ModelID]Result `json:"model_results"`
}

// MissingFieldError reports an incomplete training record. It aborts
// training for all members: the ensemble never trains on a partial corpus.
type MissingFieldError struct {
	// Index is the position of the malformed record in the submitted corpus
	Index int

	// Field is the first missing field found
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("training record %d is missing required field %q", e.Index, e.Field)
}

// ValidateCorpus checks that every record carries all four required fields.
func ValidateCorpus(emails []Email) error {
	for i, email := range emails {
		switch {
		case email.Subject == "":
			return &MissingFieldError{Index: i, Field: "subject"}
		case email.Body == "":
			return &MissingFieldError{Index: i, Field: "body"}
		case email.Category == "":
			return &MissingFieldError{Index: i, Field: "category"}
		case email.Priority == "":
			return &MissingFieldError{Index: i, Field: "priority"}
		}
	}
	return nil
}
