package service

import (
	"testing"

	"loan-risk/domain"
	"loan-risk/inference"
)

// testWeights gives every feature a small distinct weight so that any change
// to the vector moves the score.
func testWeights() []float64 {
	w := make([]float64, domain.FeatureCount)
	for i := range w {
		w[i] = float64(i+1) / 100
	}
	return w
}

func newTestNetwork(t *testing.T, width int) *inference.Network {
	t.Helper()
	w := make([]float64, width)
	copy(w, testWeights())
	net, err := inference.NewNetwork("test-model", width, []inference.Layer{
		{Activation: inference.ActivationSigmoid, Weights: [][]float64{w}, Bias: []float64{-1}},
	})
	if err != nil {
		t.Fatalf("unexpected error building network: %v", err)
	}
	return net
}

func sampleApplication() domain.LoanApplication {
	return domain.LoanApplication{
		CreditHistoryLength: 4,
		DefaultOnFile:       true,
		LoanPercentIncome:   25,
		LoanInterestRate:    11.2,
		LoanAmount:          12000,
		LoanGrade:           2,
		LoanIntent:          domain.LoanIntentEducation,
		EmploymentLength:    3,
		HomeOwnership:       domain.HomeOwnershipRent,
		Income:              48000,
		Age:                 27,
	}
}
