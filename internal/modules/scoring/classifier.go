package scoring

// Classify maps a score to its recommendation tier. APPROVED requires a
// perfect score; WATCH tolerates up to margin lost points; everything below
// is BLOCKED. Thresholds float with maxScore so the split survives rule-set
// changes.
func Classify(score, maxScore, margin int) Tier {
	switch {
	case score >= maxScore:
		return TierApproved
	case score >= maxScore-margin:
		return TierWatch
	default:
		return TierBlocked
	}
}
