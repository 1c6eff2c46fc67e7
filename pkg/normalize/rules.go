package normalize

import (
	"github.com/yurifrl/adinsights/pkg/models"
	"github.com/yurifrl/adinsights/pkg/parser"
)

// Action says how a designated column is rewritten.
type Action int

const (
	Currency Action = iota
	Number
	Percent
	// ZeroPad2 keeps the column as text, left padded with zeros to two characters so hours
	// sort lexically ("9" -> "09").
	ZeroPad2
)

func (a Action) kind() parser.Kind {
	switch a {
	case Currency:
		return parser.Currency
	case Percent:
		return parser.Percent
	default:
		return parser.Number
	}
}

// Rule designates one column of a source.
type Rule struct {
	Column string
	Action Action
	// Optional rules are skipped when the column is absent instead of failing the source.
	Optional bool
}

// RuleSet is the ordered list of rules for one source.
type RuleSet []Rule

func currency(cols ...string) RuleSet { return rules(Currency, cols) }
func number(cols ...string) RuleSet   { return rules(Number, cols) }

func rules(action Action, cols []string) RuleSet {
	out := make(RuleSet, len(cols))
	for i, c := range cols {
		out[i] = Rule{Column: c, Action: action}
	}
	return out
}

func join(sets ...RuleSet) RuleSet {
	var out RuleSet
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}

// RuleSets returns a fresh copy of the rules of every source. Callers may keep or modify the
// result without affecting other callers.
func RuleSets() map[models.SourceKey]RuleSet {
	return map[models.SourceKey]RuleSet{
		models.Campanhas: join(
			currency(models.ColCost),
			number(models.ColConversions),
			currency(models.ColCostPerConversion),
		),
		models.Dispositivos: join(
			currency(models.ColCost),
			number(models.ColClicks, models.ColConversions),
		),
		models.Dia:  number(models.ColImpressions),
		models.Hora: number(models.ColImpressions),
		models.DiaHora: join(
			RuleSet{{Column: models.ColHour, Action: ZeroPad2, Optional: true}},
			number(models.ColImpressions),
		),
		models.Idade:     number(models.ColImpressions),
		models.Sexo:      number(models.ColImpressions),
		models.SexoIdade: number(models.ColImpressions),
		models.Alteracoes: join(
			currency(models.ColCost, models.ColCostPrior),
			number(models.ColClicks, models.ColClicksPrior, models.ColInteractions, models.ColInteractionsPrior),
		),
		models.PalavrasChave: join(
			currency(models.ColCost),
			number(models.ColClicks),
			RuleSet{{Column: models.ColCTR, Action: Percent}},
		),
	}
}
