package derive

import (
	"sort"

	"github.com/yurifrl/adinsights/pkg/format"
	"github.com/yurifrl/adinsights/pkg/models"
)

// NoConversionsLabel is shown instead of a CPA for campaigns without conversions.
const NoConversionsLabel = "Sem Conversões"

type CampaignRow struct {
	Name        string  `json:"name"`
	Cost        float64 `json:"cost"`
	Conversions float64 `json:"conversions"`
	CPA         CPA     `json:"cpa"`
	Label       string  `json:"cpa_label"`
}

// Campaigns builds the campaign CPA view in table order.
func Campaigns(t *models.Table) []CampaignRow {
	rows := make([]CampaignRow, t.Len())
	for i := range rows {
		cost := t.Float(i, models.ColCost)
		conv := t.Float(i, models.ColConversions)
		cpa := CampaignCPA(cost, conv)
		label := NoConversionsLabel
		if cpa.Defined {
			label = format.BRL(cpa.Value)
		}
		rows[i] = CampaignRow{
			Name:        t.Text(i, models.ColCampaign),
			Cost:        cost,
			Conversions: conv,
			CPA:         cpa,
			Label:       label,
		}
	}
	return rows
}

// SortCampaignsByCPA returns a copy ordered by CPA descending, campaigns without a CPA first.
func SortCampaignsByCPA(rows []CampaignRow) []CampaignRow {
	out := append([]CampaignRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].CPA, out[j].CPA
		if a.Defined != b.Defined {
			return !a.Defined
		}
		return a.Value > b.Value
	})
	return out
}

type DeviceRow struct {
	Device          string  `json:"device"`
	Cost            float64 `json:"cost"`
	Clicks          float64 `json:"clicks"`
	Conversions     float64 `json:"conversions"`
	CostShare       float64 `json:"cost_share"`
	ConversionShare float64 `json:"conversion_share"`
	CPA             CPA     `json:"cpa"`
}

// Devices builds the device table with cost and conversion shares of this table's totals.
func Devices(t *models.Table) []DeviceRow {
	costs := t.Floats(models.ColCost)
	convs := t.Floats(models.ColConversions)
	costShares := Shares(costs)
	convShares := Shares(convs)

	rows := make([]DeviceRow, t.Len())
	for i := range rows {
		rows[i] = DeviceRow{
			Device:          t.Text(i, models.ColDevice),
			Cost:            costs[i],
			Clicks:          t.Float(i, models.ColClicks),
			Conversions:     convs[i],
			CostShare:       costShares[i],
			ConversionShare: convShares[i],
			CPA:             DeviceCPA(costs[i], convs[i]),
		}
	}
	return rows
}

// CostPositive drops devices without spend, as the cost distribution chart does.
func CostPositive(rows []DeviceRow) []DeviceRow {
	var out []DeviceRow
	for _, r := range rows {
		if r.Cost > 0 {
			out = append(out, r)
		}
	}
	return out
}

// FindDevice returns the row of the named device.
func FindDevice(rows []DeviceRow, name string) (DeviceRow, bool) {
	for _, r := range rows {
		if r.Device == name {
			return r, true
		}
	}
	return DeviceRow{}, false
}

// DominantDevice returns the first device with the largest cost share.
func DominantDevice(rows []DeviceRow) (DeviceRow, bool) {
	shares := make([]float64, len(rows))
	for i, r := range rows {
		shares[i] = r.CostShare
	}
	idx := argmax(shares)
	if idx < 0 {
		return DeviceRow{}, false
	}
	return rows[idx], true
}

type KeywordRow struct {
	Keyword string  `json:"keyword"`
	Cost    float64 `json:"cost"`
	Clicks  float64 `json:"clicks"`
	CTR     float64 `json:"ctr"`
}

func keywords(t *models.Table, keep func(cost, clicks float64) bool) []KeywordRow {
	var rows []KeywordRow
	for i := 0; i < t.Len(); i++ {
		r := KeywordRow{
			Keyword: t.Text(i, models.ColKeyword),
			Cost:    t.Float(i, models.ColCost),
			Clicks:  t.Float(i, models.ColClicks),
			CTR:     t.Float(i, models.ColCTR),
		}
		if keep(r.Cost, r.Clicks) {
			rows = append(rows, r)
		}
	}
	return rows
}

func top(rows []KeywordRow, n int, value func(KeywordRow) float64) []KeywordRow {
	sort.SliceStable(rows, func(i, j int) bool { return value(rows[i]) > value(rows[j]) })
	if n < len(rows) {
		rows = rows[:n]
	}
	return rows
}

// TopByCost returns up to n keywords with positive cost, largest first. Ties keep table order.
func TopByCost(t *models.Table, n int) []KeywordRow {
	rows := keywords(t, func(cost, _ float64) bool { return cost > 0 })
	return top(rows, n, func(r KeywordRow) float64 { return r.Cost })
}

// TopByCTR returns up to n keywords with positive clicks, highest CTR first. Ties keep table order.
func TopByCTR(t *models.Table, n int) []KeywordRow {
	rows := keywords(t, func(_, clicks float64) bool { return clicks > 0 })
	return top(rows, n, func(r KeywordRow) float64 { return r.CTR })
}

// Ascending returns a reversed copy of a top list, the order the bar charts draw it in.
func Ascending(rows []KeywordRow) []KeywordRow {
	out := make([]KeywordRow, len(rows))
	for i, r := range rows {
		out[len(rows)-1-i] = r
	}
	return out
}

type ChangeRow struct {
	Campaign     string  `json:"campaign"`
	Cost         float64 `json:"cost"`
	CostPrior    float64 `json:"cost_prior"`
	CostDiff     float64 `json:"cost_diff"`
	CostChange   float64 `json:"cost_change"`
	Clicks       float64 `json:"clicks"`
	ClicksPrior  float64 `json:"clicks_prior"`
	ClicksDiff   float64 `json:"clicks_diff"`
	ClicksChange float64 `json:"clicks_change"`
}

// Changes computes differences and percentage changes of the comparison source in table order.
func Changes(t *models.Table) []ChangeRow {
	rows := make([]ChangeRow, t.Len())
	for i := range rows {
		cost, costPrior := t.Float(i, models.ColCost), t.Float(i, models.ColCostPrior)
		clicks, clicksPrior := t.Float(i, models.ColClicks), t.Float(i, models.ColClicksPrior)
		rows[i] = ChangeRow{
			Campaign:     t.Text(i, models.ColCampaign),
			Cost:         cost,
			CostPrior:    costPrior,
			CostDiff:     Difference(cost, costPrior),
			CostChange:   PercentChange(cost, costPrior),
			Clicks:       clicks,
			ClicksPrior:  clicksPrior,
			ClicksDiff:   Difference(clicks, clicksPrior),
			ClicksChange: PercentChange(clicks, clicksPrior),
		}
	}
	return rows
}

// SortByCostChange returns a copy ordered by cost change, largest first.
func SortByCostChange(rows []ChangeRow) []ChangeRow {
	out := append([]ChangeRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CostChange > out[j].CostChange })
	return out
}

// TopCostMover returns the first row with the largest cost change.
func TopCostMover(rows []ChangeRow) (ChangeRow, bool) {
	return mover(rows, func(r ChangeRow) float64 { return r.CostChange })
}

// TopClicksMover returns the first row with the largest clicks change. It is scanned on its
// own and may differ from TopCostMover.
func TopClicksMover(rows []ChangeRow) (ChangeRow, bool) {
	return mover(rows, func(r ChangeRow) float64 { return r.ClicksChange })
}

func mover(rows []ChangeRow, value func(ChangeRow) float64) (ChangeRow, bool) {
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = value(r)
	}
	idx := argmax(values)
	if idx < 0 {
		return ChangeRow{}, false
	}
	return rows[idx], true
}
