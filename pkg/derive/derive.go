package derive

import (
	"fmt"

	"github.com/yurifrl/adinsights/pkg/models"
)

// Summary holds the scalar cards shown above the report.
type Summary struct {
	TotalCost        float64 `json:"total_cost"`
	TotalConversions float64 `json:"total_conversions"`
	AverageCPA       CPA     `json:"average_cpa"`
}

// Summarize totals the campaign source.
func Summarize(campaigns *models.Table) Summary {
	cost := campaigns.Sum(models.ColCost)
	conv := campaigns.Sum(models.ColConversions)
	return Summary{
		TotalCost:        cost,
		TotalConversions: conv,
		AverageCPA:       AverageCPA(cost, conv),
	}
}

// Derived is every view computed from one registry. It is built once per run and not
// modified afterwards.
type Derived struct {
	Summary   Summary       `json:"summary"`
	Campaigns []CampaignRow `json:"campaigns"`
	Devices   []DeviceRow   `json:"devices"`
	Days      []Bucket      `json:"days"`
	Hours     []Bucket      `json:"hours"`
	Heatmap   Heatmap       `json:"heatmap"`
	Ages      []Segment     `json:"ages"`
	Sexes     []Segment     `json:"sexes"`
	SexAge    []SexAgeRow   `json:"sex_age"`
	Changes   []ChangeRow   `json:"changes"`
	TopCost   []KeywordRow  `json:"top_cost"`
	TopCTR    []KeywordRow  `json:"top_ctr"`
	TopN      int           `json:"top_n"`
}

// Compute derives every view from reg. topN bounds the keyword lists; it is validated by
// the caller.
func Compute(reg models.Registry, topN int) (*Derived, error) {
	tables := make(map[models.SourceKey]*models.Table, len(models.SourceKeys))
	for _, key := range models.SourceKeys {
		t, err := reg.Get(key)
		if err != nil {
			return nil, fmt.Errorf("failed to derive metrics: %w", err)
		}
		tables[key] = t
	}

	return &Derived{
		Summary:   Summarize(tables[models.Campanhas]),
		Campaigns: Campaigns(tables[models.Campanhas]),
		Devices:   Devices(tables[models.Dispositivos]),
		Days:      Days(tables[models.Dia]),
		Hours:     Hours(tables[models.Hora]),
		Heatmap:   BuildHeatmap(tables[models.DiaHora]),
		Ages:      Segments(tables[models.Idade], models.ColAgeRange),
		Sexes:     Segments(tables[models.Sexo], models.ColSex),
		SexAge:    SexAge(tables[models.SexoIdade]),
		Changes:   Changes(tables[models.Alteracoes]),
		TopCost:   TopByCost(tables[models.PalavrasChave], topN),
		TopCTR:    TopByCTR(tables[models.PalavrasChave], topN),
		TopN:      topN,
	}, nil
}

// Derived column names appended by Augment.
const (
	ColCPACalc          = "CPA_Calc"
	ColCPALabel         = "CPA (Rótulo)"
	ColCostShare        = "Porcentagem Custo"
	ColConversionShare  = "Porcentagem Conversões"
	ColCPA              = "CPA"
	ColCostDiff         = "Custo_Diferenca"
	ColClicksDiff       = "Cliques_Diferenca"
	ColCostChange       = "Custo_Percentual"
	ColClicksChange     = "Cliques_Percentual"
	ColImpressionsShare = "Porcentagem Impressões"
)

// Augment returns a registry whose campaign, device, comparison, day and hour tables carry
// the derived columns next to the normalized ones. reg is not modified; the other tables are
// shared as they are.
func Augment(reg models.Registry) models.Registry {
	out := make(models.Registry, len(reg))
	for k, t := range reg {
		out[k] = t
	}

	if t, ok := reg[models.Campanhas]; ok {
		rows := Campaigns(t)
		out[models.Campanhas] = extend(t, []string{ColCPACalc, ColCPALabel}, func(i int) []models.Cell {
			calc := models.TextCell("")
			if rows[i].CPA.Defined {
				calc = models.NumberCell(rows[i].CPA.Value)
			}
			return []models.Cell{calc, models.TextCell(rows[i].Label)}
		})
	}

	if t, ok := reg[models.Dispositivos]; ok {
		rows := Devices(t)
		out[models.Dispositivos] = extend(t, []string{ColCostShare, ColConversionShare, ColCPA}, func(i int) []models.Cell {
			return []models.Cell{
				models.NumberCell(rows[i].CostShare),
				models.NumberCell(rows[i].ConversionShare),
				models.NumberCell(rows[i].CPA.Value),
			}
		})
	}

	if t, ok := reg[models.Alteracoes]; ok {
		rows := Changes(t)
		out[models.Alteracoes] = extend(t, []string{ColCostDiff, ColClicksDiff, ColCostChange, ColClicksChange}, func(i int) []models.Cell {
			return []models.Cell{
				models.NumberCell(rows[i].CostDiff),
				models.NumberCell(rows[i].ClicksDiff),
				models.NumberCell(rows[i].CostChange),
				models.NumberCell(rows[i].ClicksChange),
			}
		})
	}

	for _, key := range []models.SourceKey{models.Dia, models.Hora} {
		t, ok := reg[key]
		if !ok {
			continue
		}
		shares := Shares(t.Floats(models.ColImpressions))
		out[key] = extend(t, []string{ColImpressionsShare}, func(i int) []models.Cell {
			return []models.Cell{models.NumberCell(shares[i])}
		})
	}

	return out
}

func extend(t *models.Table, cols []string, cells func(i int) []models.Cell) *models.Table {
	columns := append(append([]string(nil), t.Columns...), cols...)
	rows := make([][]models.Cell, t.Len())
	for i, r := range t.Rows {
		row := make([]models.Cell, 0, len(columns))
		row = append(row, r...)
		rows[i] = append(row, cells(i)...)
	}
	return models.NewTable(t.Source, columns, rows)
}
