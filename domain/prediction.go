package domain

// FeatureCount is the width of the model input.
const FeatureCount = 19

// FeatureVector is the encoded model input. The index order is the order the
// model was trained on; see FeatureNames.
type FeatureVector [FeatureCount]float64

// Slice returns a copy of the vector as a slice.
func (v FeatureVector) Slice() []float64 {
	out := make([]float64, FeatureCount)
	copy(out, v[:])
	return out
}

// FeatureNames lists the vector positions in order.
func FeatureNames() []string {
	return []string{
		"person_age",
		"person_income",
		"person_emp_length",
		"loan_grade",
		"loan_amnt",
		"loan_int_rate",
		"loan_percent_income",
		"cb_person_default_on_file",
		"cb_person_cred_hist_length",
		"person_home_ownership_mortgage",
		"person_home_ownership_other",
		"person_home_ownership_own",
		"person_home_ownership_rent",
		"loan_intent_debt_consolidation",
		"loan_intent_education",
		"loan_intent_home_improvement",
		"loan_intent_medical",
		"loan_intent_personal",
		"loan_intent_venture",
	}
}

// Offsets of the one-hot blocks inside FeatureVector.
const (
	ScalarFeatureCount  = 9
	HomeOwnershipOffset = ScalarFeatureCount
	LoanIntentOffset    = HomeOwnershipOffset + 4
)

// PredictionMode selects the response contract of the evaluation endpoint.
type PredictionMode string

const (
	// ModeProbability returns the raw model score.
	ModeProbability PredictionMode = "probability"
	// ModeLabel returns 1 when the score is above the threshold, 0 otherwise.
	ModeLabel PredictionMode = "label"
)

const DefaultThreshold = 0.5

type Prediction struct {
	Mode   PredictionMode
	Score  float64
	Label  int
	Cached bool
}

// NewPrediction derives the label from score with threshold.
func NewPrediction(mode PredictionMode, score, threshold float64) Prediction {
	return Prediction{
		Mode:  mode,
		Score: score,
		Label: Threshold(score, threshold),
	}
}

// Threshold returns 1 if score > threshold else 0.
func Threshold(score, threshold float64) int {
	if score > threshold {
		return 1
	}
	return 0
}

// WireValue is what the API returns under "prediction": [[score]] in
// probability mode, matching a (1, 1) model output, or the 0/1 label.
func (p Prediction) WireValue() interface{} {
	if p.Mode == ModeLabel {
		return p.Label
	}
	return [][]float64{{p.Score}}
}
