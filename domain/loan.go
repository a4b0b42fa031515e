package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LoanApplication is the request body of the evaluation endpoint. Field names
// follow the credit-risk dataset the model was trained on.
type LoanApplication struct {
	CreditHistoryLength int           `json:"cb_person_cred_hist_length"`
	DefaultOnFile       DefaultFlag   `json:"cb_person_default_on_file"`
	LoanPercentIncome   float64       `json:"loan_percent_income"`
	LoanInterestRate    float64       `json:"loan_int_rate"`
	LoanAmount          int           `json:"loan_amnt"`
	LoanGrade           LoanGrade     `json:"loan_grade"`
	LoanIntent          LoanIntent    `json:"loan_intent"`
	EmploymentLength    int           `json:"person_emp_length"`
	HomeOwnership       HomeOwnership `json:"person_home_ownership"`
	Income              int           `json:"person_income"`
	Age                 int           `json:"person_age"`
}

type HomeOwnership string

const (
	HomeOwnershipMortgage HomeOwnership = "mortgage"
	HomeOwnershipOther    HomeOwnership = "other"
	HomeOwnershipOwn      HomeOwnership = "own"
	HomeOwnershipRent     HomeOwnership = "rent"
)

// HomeOwnershipCategories is the one-hot order used by the model.
var HomeOwnershipCategories = []HomeOwnership{
	HomeOwnershipMortgage,
	HomeOwnershipOther,
	HomeOwnershipOwn,
	HomeOwnershipRent,
}

type LoanIntent string

const (
	LoanIntentDebtConsolidation LoanIntent = "debt_consolidation"
	LoanIntentEducation         LoanIntent = "education"
	LoanIntentHomeImprovement   LoanIntent = "home_improvement"
	LoanIntentMedical           LoanIntent = "medical"
	LoanIntentPersonal          LoanIntent = "personal"
	LoanIntentVenture           LoanIntent = "venture"
)

// LoanIntentCategories is the one-hot order used by the model.
var LoanIntentCategories = []LoanIntent{
	LoanIntentDebtConsolidation,
	LoanIntentEducation,
	LoanIntentHomeImprovement,
	LoanIntentMedical,
	LoanIntentPersonal,
	LoanIntentVenture,
}

// LoanGrade is the ordinal loan grade, A=0 through G=6. It decodes from either
// the integer ordinal or the letter.
type LoanGrade int

const MaxLoanGrade LoanGrade = 6

func (g *LoanGrade) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		v, err := n.Int64()
		if err != nil {
			return fmt.Errorf("loan_grade: %q is not an integer", n)
		}
		if v < 0 || LoanGrade(v) > MaxLoanGrade {
			return fmt.Errorf("loan_grade: %d out of range 0..%d", v, MaxLoanGrade)
		}
		*g = LoanGrade(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("loan_grade: expected integer or letter")
	}
	grade, err := ParseLoanGrade(s)
	if err != nil {
		return err
	}
	*g = grade
	return nil
}

// ParseLoanGrade converts a letter grade (A..G, any case) to its ordinal.
func ParseLoanGrade(s string) (LoanGrade, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 || s[0] < 'A' || s[0] > 'A'+byte(MaxLoanGrade) {
		return 0, fmt.Errorf("loan_grade: %q is not a grade between A and G", s)
	}
	return LoanGrade(s[0] - 'A'), nil
}

// Letter returns the letter form of the grade.
func (g LoanGrade) Letter() string {
	if g < 0 || g > MaxLoanGrade {
		return "?"
	}
	return string(rune('A' + int(g)))
}

// DefaultFlag records whether the person defaulted before. It decodes from a
// boolean, 0/1 or "Y"/"N".
type DefaultFlag bool

func (f *DefaultFlag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = DefaultFlag(b)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		switch n.String() {
		case "0":
			*f = false
			return nil
		case "1":
			*f = true
			return nil
		}
		return fmt.Errorf("cb_person_default_on_file: %s must be 0 or 1", n)
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch strings.ToUpper(strings.TrimSpace(s)) {
		case "Y":
			*f = true
			return nil
		case "N":
			*f = false
			return nil
		}
	}
	return fmt.Errorf("cb_person_default_on_file: expected boolean, 0/1 or Y/N")
}

// Float returns 1 for a prior default and 0 otherwise.
func (f DefaultFlag) Float() float64 {
	if f {
		return 1
	}
	return 0
}
