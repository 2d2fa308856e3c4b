package scoring

import (
	"github.com/rs/zerolog"

	"github.com/refera/fiish/internal/modules/snapshot"
)

// Engine runs the configured rule battery. It is pure and safe for
// concurrent use: identical inputs always produce identical results.
type Engine struct {
	cfg      Config
	rules    []rule
	maxScore int
	log      zerolog.Logger
}

// NewEngine builds the battery once from the configured thresholds.
func NewEngine(cfg Config, log zerolog.Logger) *Engine {
	rules := buildRules(cfg)
	max := 0
	for _, r := range rules {
		max += r.weight
	}

	e := &Engine{
		cfg:      cfg,
		rules:    rules,
		maxScore: max,
		log:      log.With().Str("service", "scoring").Logger(),
	}
	e.log.Debug().Int("rules", len(rules)).Int("max_score", max).Msg("Rule battery built")
	return e
}

// MaxScore is the sum of the enabled rule weights. Tier thresholds derive
// from it so adding or removing a rule never silently skews classification.
func (e *Engine) MaxScore() int {
	return e.maxScore
}

// Score evaluates every rule against the record, in battery order.
func (e *Engine) Score(f snapshot.FundRecord) Result {
	res := Result{
		MaxScore:  e.maxScore,
		Blockers:  []string{},
		Positives: []string{},
	}

	for _, r := range e.rules {
		out := r.eval(f)
		switch out.status {
		case rulePassed:
			res.Score += r.weight
			res.Positives = append(res.Positives, out.positive)
			res.AppliedRules++
		case ruleFailed:
			res.Blockers = append(res.Blockers, out.blocker)
			res.AppliedRules++
		case ruleSkipped:
			// Undisclosed prerequisite: the rule contributes neither
			// score nor message. MaxScore is unchanged; a skip can
			// only cost points, never grant them.
		}
	}

	res.Tier = Classify(res.Score, e.maxScore, e.cfg.TierMargin)
	return res
}

// ScoreAll scores a whole snapshot and returns the funds in snapshot order.
func (e *Engine) ScoreAll(snap *snapshot.Snapshot) []ScoredFund {
	out := make([]ScoredFund, 0, snap.Len())
	for _, f := range snap.Funds {
		res := e.Score(f)
		out = append(out, ScoredFund{
			FundRecord: f,
			Score:      res.Score,
			MaxScore:   res.MaxScore,
			Blockers:   res.Blockers,
			Positives:  res.Positives,
			Tier:       res.Tier,
		})
	}
	return out
}

// ScoreTicker scores a single fund out of the snapshot, or returns false
// when the ticker is unknown.
func (e *Engine) ScoreTicker(snap *snapshot.Snapshot, ticker string) (ScoredFund, bool) {
	f := snap.Get(ticker)
	if f == nil {
		return ScoredFund{}, false
	}
	res := e.Score(*f)
	return ScoredFund{
		FundRecord: *f,
		Score:      res.Score,
		MaxScore:   res.MaxScore,
		Blockers:   res.Blockers,
		Positives:  res.Positives,
		Tier:       res.Tier,
	}, true
}
