package scoring

import (
	"fmt"

	"github.com/refera/fiish/internal/modules/snapshot"
)

type ruleStatus int

const (
	rulePassed ruleStatus = iota
	ruleFailed
	ruleSkipped // prerequisite field undisclosed; no score, no message
)

// ruleResult carries the outcome of one rule plus the display string it
// contributes. Exactly one of positive/blocker is set unless the rule was
// skipped.
type ruleResult struct {
	status   ruleStatus
	positive string
	blocker  string
}

func passed(msg string) ruleResult { return ruleResult{status: rulePassed, positive: msg} }
func failed(msg string) ruleResult { return ruleResult{status: ruleFailed, blocker: msg} }
func skipped() ruleResult          { return ruleResult{status: ruleSkipped} }

// rule is one entry of the battery. Evaluation order is fixed: it decides
// message ordering, and the extreme-yield ceiling must come last so its
// blocker never precedes a more specific one.
type rule struct {
	name   string
	weight int
	eval   func(snapshot.FundRecord) ruleResult
}

// buildRules assembles the battery from the configured thresholds. All
// messages are pt-BR display strings, the language of the product.
func buildRules(cfg Config) []rule {
	rules := []rule{
		{
			name:   "pvp_band",
			weight: 1,
			eval: func(f snapshot.FundRecord) ruleResult {
				switch {
				case f.PVP < cfg.PVPBandLow:
					return failed(fmt.Sprintf(
						"P/VP de %.2f abaixo de %.2f — desconto excessivo pode indicar risco percebido", f.PVP, cfg.PVPBandLow))
				case f.PVP >= cfg.PVPBandHigh:
					return failed(fmt.Sprintf(
						"P/VP de %.2f acima do valor patrimonial — cota negociada com prêmio", f.PVP))
				default:
					return passed(fmt.Sprintf(
						"P/VP de %.2f dentro da faixa ideal (%.2f a %.2f)", f.PVP, cfg.PVPBandLow, cfg.PVPBandHigh))
				}
			},
		},
		{
			name:   "dy_3m",
			weight: 1,
			eval: func(f snapshot.FundRecord) ruleResult {
				if f.DY3M < cfg.DY3Min {
					return failed(fmt.Sprintf(
						"DY 3M de %.1f%% abaixo do mínimo de %.1f%%", f.DY3M, cfg.DY3Min))
				}
				return passed(fmt.Sprintf("DY 3M de %.1f%% acima do mínimo", f.DY3M))
			},
		},
		{
			name:   "dy_6m",
			weight: 1,
			eval: func(f snapshot.FundRecord) ruleResult {
				if f.DY6M < cfg.DY6Min {
					return failed(fmt.Sprintf(
						"DY 6M de %.1f%% abaixo do mínimo de %.1f%%", f.DY6M, cfg.DY6Min))
				}
				return passed(fmt.Sprintf("DY 6M de %.1f%% acima do mínimo", f.DY6M))
			},
		},
		{
			name:   "dy_12m",
			weight: 1,
			eval: func(f snapshot.FundRecord) ruleResult {
				if f.DY12M < cfg.DY12Min {
					return failed(fmt.Sprintf(
						"DY 12M de %.1f%% abaixo do mínimo de %.1f%%", f.DY12M, cfg.DY12Min))
				}
				return passed(fmt.Sprintf("DY 12M de %.1f%% acima do mínimo", f.DY12M))
			},
		},
		{
			name:   "liquidity",
			weight: 1,
			eval: func(f snapshot.FundRecord) ruleResult {
				if f.LiquidityMM < cfg.LiquidityMinMM {
					return failed(fmt.Sprintf(
						"Liquidez diária de R$ %.2f mi abaixo de R$ %.2f mi", f.LiquidityMM, cfg.LiquidityMinMM))
				}
				return passed(fmt.Sprintf("Liquidez diária saudável de R$ %.2f mi", f.LiquidityMM))
			},
		},
		{
			name:   "net_assets",
			weight: 1,
			eval: func(f snapshot.FundRecord) ruleResult {
				if f.NetAssetsMM < cfg.NetAssetsMinMM {
					return failed(fmt.Sprintf(
						"Patrimônio líquido de R$ %.0f mi abaixo de R$ %.0f mi", f.NetAssetsMM, cfg.NetAssetsMinMM))
				}
				return passed(fmt.Sprintf("Patrimônio líquido sólido de R$ %.0f mi", f.NetAssetsMM))
			},
		},
		{
			name:   "shareholders",
			weight: 1,
			eval: func(f snapshot.FundRecord) ruleResult {
				if f.ShareholdersK < cfg.ShareholdersMinK {
					return failed(fmt.Sprintf(
						"Base de %.0f mil cotistas abaixo de %.0f mil", f.ShareholdersK, cfg.ShareholdersMinK))
				}
				return passed(fmt.Sprintf("Base ampla de %.0f mil cotistas", f.ShareholdersK))
			},
		},
		{
			name:   "distribution_active",
			weight: 1,
			eval: func(f snapshot.FundRecord) ruleResult {
				if f.LastDividend <= 0 {
					return failed("Fundo sem distribuição de dividendos no último mês")
				}
				return passed(fmt.Sprintf("Distribuição ativa: R$ %.2f por cota no último mês", f.LastDividend))
			},
		},
	}

	if cfg.AdminFeeCap > 0 {
		rules = append(rules, rule{
			name:   "admin_fee",
			weight: 1,
			eval: func(f snapshot.FundRecord) ruleResult {
				if f.AdminFee == nil {
					return skipped()
				}
				if *f.AdminFee > cfg.AdminFeeCap {
					return failed(fmt.Sprintf(
						"Taxa de administração de %.2f%% a.a acima do teto de %.2f%%", *f.AdminFee, cfg.AdminFeeCap))
				}
				return passed(fmt.Sprintf("Taxa de administração de %.2f%% a.a dentro do teto", *f.AdminFee))
			},
		})
	}

	// Always last. An implausibly high yield downgrades an otherwise
	// maximal score instead of being hidden in presentation.
	rules = append(rules, rule{
		name:   "yield_ceiling",
		weight: 1,
		eval: func(f snapshot.FundRecord) ruleResult {
			if f.DY12M > cfg.DY12Ceiling {
				return failed(fmt.Sprintf(
					"DY 12M de %.1f%% acima de %.1f%% — rendimento possivelmente insustentável", f.DY12M, cfg.DY12Ceiling))
			}
			return passed("Rendimento em patamar sustentável")
		},
	})

	return rules
}
