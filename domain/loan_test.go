package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoanApplication_UnmarshalOriginalPayload(t *testing.T) {
	body := `{
		"cb_person_cred_hist_length": 4,
		"cb_person_default_on_file": 1,
		"loan_percent_income": 25.5,
		"loan_int_rate": 11.2,
		"loan_amnt": 12000,
		"loan_grade": 2,
		"loan_intent": "education",
		"person_emp_length": 3,
		"person_home_ownership": "rent",
		"person_income": 48000,
		"person_age": 27
	}`

	var app LoanApplication
	require.NoError(t, json.Unmarshal([]byte(body), &app))

	assert.Equal(t, 4, app.CreditHistoryLength)
	assert.Equal(t, DefaultFlag(true), app.DefaultOnFile)
	assert.Equal(t, 25.5, app.LoanPercentIncome)
	assert.Equal(t, LoanGrade(2), app.LoanGrade)
	assert.Equal(t, LoanIntentEducation, app.LoanIntent)
	assert.Equal(t, HomeOwnershipRent, app.HomeOwnership)
	assert.Equal(t, 48000, app.Income)
	assert.Equal(t, 27, app.Age)
}

func TestLoanGrade_Unmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    LoanGrade
		wantErr bool
	}{
		{in: `0`, want: 0},
		{in: `6`, want: 6},
		{in: `"A"`, want: 0},
		{in: `"c"`, want: 2},
		{in: `"G"`, want: 6},
		{in: `7`, wantErr: true},
		{in: `-1`, wantErr: true},
		{in: `"H"`, wantErr: true},
		{in: `"AB"`, wantErr: true},
		{in: `2.5`, wantErr: true},
		{in: `true`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var g LoanGrade
			err := json.Unmarshal([]byte(tt.in), &g)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, g)
		})
	}
}

func TestLoanGrade_Letter(t *testing.T) {
	assert.Equal(t, "A", LoanGrade(0).Letter())
	assert.Equal(t, "G", LoanGrade(6).Letter())
	assert.Equal(t, "?", LoanGrade(9).Letter())
}

func TestDefaultFlag_Unmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    DefaultFlag
		wantErr bool
	}{
		{in: `true`, want: true},
		{in: `false`, want: false},
		{in: `1`, want: true},
		{in: `0`, want: false},
		{in: `"Y"`, want: true},
		{in: `"n"`, want: false},
		{in: `2`, wantErr: true},
		{in: `"yes"`, wantErr: true},
		{in: `null`, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var f DefaultFlag
			err := json.Unmarshal([]byte(tt.in), &f)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f)
		})
	}
	assert.Equal(t, 1.0, DefaultFlag(true).Float())
	assert.Equal(t, 0.0, DefaultFlag(false).Float())
}

func TestThreshold(t *testing.T) {
	assert.Equal(t, 0, Threshold(0.5, DefaultThreshold))
	assert.Equal(t, 1, Threshold(0.5000001, DefaultThreshold))
	assert.Equal(t, 0, Threshold(0.1, DefaultThreshold))
	assert.Equal(t, 1, Threshold(0.99, DefaultThreshold))

	// same score, same label
	for i := 0; i < 5; i++ {
		assert.Equal(t, 1, Threshold(0.73, DefaultThreshold))
	}
}

func TestPrediction_WireValue(t *testing.T) {
	p := NewPrediction(ModeProbability, 0.27, DefaultThreshold)
	assert.Equal(t, [][]float64{{0.27}}, p.WireValue())

	l := NewPrediction(ModeLabel, 0.81, DefaultThreshold)
	assert.Equal(t, 1, l.WireValue())
}

func TestFeatureNames_MatchVectorWidth(t *testing.T) {
	names := FeatureNames()
	require.Len(t, names, FeatureCount)
	assert.Equal(t, "loan_percent_income", names[6])
	assert.Equal(t, "person_home_ownership_mortgage", names[HomeOwnershipOffset])
	assert.Equal(t, "loan_intent_debt_consolidation", names[LoanIntentOffset])
}
