package service

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"loan-risk/apperrors"
	"loan-risk/domain"
)

// CategoryPolicy decides what happens to a categorical value outside the
// known set.
type CategoryPolicy string

const (
	// PolicyReject fails the request with UNRECOGNIZED_CATEGORY.
	PolicyReject CategoryPolicy = "reject"
	// PolicyZero leaves the whole one-hot block at zero.
	PolicyZero CategoryPolicy = "zero"
)

func ParseCategoryPolicy(s string) (CategoryPolicy, error) {
	switch CategoryPolicy(s) {
	case PolicyReject, "":
		return PolicyReject, nil
	case PolicyZero:
		return PolicyZero, nil
	}
	return "", fmt.Errorf("unknown category policy %q", s)
}

// FeatureEncoder maps a LoanApplication to the model input vector. It holds
// only lookup tables and is safe for concurrent use.
type FeatureEncoder struct {
	policy CategoryPolicy
	homes  map[string]int
	intent map[string]int
}

func NewFeatureEncoder(policy CategoryPolicy) *FeatureEncoder {
	homes := make(map[string]int, len(domain.HomeOwnershipCategories))
	for i, c := range domain.HomeOwnershipCategories {
		homes[normalizeCategory(string(c))] = i
	}
	intents := make(map[string]int, len(domain.LoanIntentCategories))
	for i, c := range domain.LoanIntentCategories {
		intents[normalizeCategory(string(c))] = i
	}
	return &FeatureEncoder{
		policy: policy,
		homes:  homes,
		intent: intents,
	}
}

// Encode builds the 19-value vector. Scalars are copied as-is except
// loan_percent_income, which is divided by 100.
func (e *FeatureEncoder) Encode(app domain.LoanApplication) (domain.FeatureVector, error) {
	var v domain.FeatureVector

	v[0] = float64(app.Age)
	v[1] = float64(app.Income)
	v[2] = float64(app.EmploymentLength)
	v[3] = float64(app.LoanGrade)
	v[4] = float64(app.LoanAmount)
	v[5] = app.LoanInterestRate
	v[6] = app.LoanPercentIncome / PercentIncomeDivisor
	v[7] = app.DefaultOnFile.Float()
	v[8] = float64(app.CreditHistoryLength)

	if err := e.oneHot(&v, domain.HomeOwnershipOffset, e.homes, FieldHomeOwnership, string(app.HomeOwnership)); err != nil {
		return domain.FeatureVector{}, err
	}
	if err := e.oneHot(&v, domain.LoanIntentOffset, e.intent, FieldLoanIntent, string(app.LoanIntent)); err != nil {
		return domain.FeatureVector{}, err
	}
	return v, nil
}

func (e *FeatureEncoder) oneHot(v *domain.FeatureVector, offset int, table map[string]int, field, value string) error {
	idx, ok := table[normalizeCategory(value)]
	if !ok {
		if e.policy == PolicyZero {
			return nil
		}
		return apperrors.NewUnrecognizedCategoryError(field, value)
	}
	v[offset+idx] = 1
	return nil
}

var categoryStripper = strings.NewReplacer("_", "", "-", "", " ", "")

// normalizeCategory folds case and drops separators, so "Debt Consolidation",
// "debtconsolidation" and "debt_consolidation" compare equal. A Caser keeps
// state, hence one per call.
func normalizeCategory(s string) string {
	return categoryStripper.Replace(cases.Fold().String(strings.TrimSpace(s)))
}
