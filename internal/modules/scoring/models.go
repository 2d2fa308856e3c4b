package scoring

import "github.com/refera/fiish/internal/modules/snapshot"

// Tier is the recommendation bucket a scored fund lands in.
type Tier string

const (
	TierApproved Tier = "APPROVED"
	TierWatch    Tier = "WATCH"
	TierBlocked  Tier = "BLOCKED"
)

// Result is the outcome of running the battery against one record. Blockers
// and positives partition the applied rules: every applied rule contributes
// to exactly one of the two lists.
type Result struct {
	Score        int      `json:"score"`
	MaxScore     int      `json:"max_score"`
	Blockers     []string `json:"blockers"`
	Positives    []string `json:"positives"`
	AppliedRules int      `json:"applied_rules"`
	Tier         Tier     `json:"tier"`
}

// ScoredFund is a normalized record together with its scoring result; the
// unit every screen, comparison and portfolio review works on.
type ScoredFund struct {
	snapshot.FundRecord
	Score     int      `json:"score"`
	MaxScore  int      `json:"max_score"`
	Blockers  []string `json:"blockers"`
	Positives []string `json:"positives"`
	Tier      Tier     `json:"tier"`
}
