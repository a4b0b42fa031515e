package service

const (
	// PercentIncomeDivisor turns loan_percent_income from percent into a ratio.
	PercentIncomeDivisor = 100.0

	FieldHomeOwnership = "person_home_ownership"
	FieldLoanIntent    = "loan_intent"

	// cache key layout: <model fingerprint>:<scaler fingerprint>:<vector hash>
	cacheKeySeparator   = ":"
	noScalerFingerprint = "none"
)
