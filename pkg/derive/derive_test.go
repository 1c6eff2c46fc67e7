package derive

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/adinsights/pkg/loader"
	"github.com/yurifrl/adinsights/pkg/models"
	"github.com/yurifrl/adinsights/pkg/normalize"
	"github.com/yurifrl/adinsights/pkg/testutil"
)

func registry(t *testing.T, overrides map[models.SourceKey]string) models.Registry {
	t.Helper()
	raw, err := loader.New(log.Default()).Load(testutil.FSWith(overrides), models.DefaultManifest)
	require.NoError(t, err)
	reg, err := normalize.New(log.Default()).NormalizeAll(raw)
	require.NoError(t, err)
	return reg
}

func table(source models.SourceKey, columns []string, rows ...[]models.Cell) *models.Table {
	return models.NewTable(source, columns, rows)
}

func TestCampaignCPAPolicy(t *testing.T) {
	assert.Equal(t, CPA{Value: 20, Defined: true, Policy: Undefined}, CampaignCPA(500, 25))

	none := CampaignCPA(2000, 0)
	assert.False(t, none.Defined)

	free := CampaignCPA(0, 5)
	assert.True(t, free.Defined)
	assert.Equal(t, 0.0, free.Value)
	assert.NotEqual(t, none, free)
}

func TestDeviceCPAPolicy(t *testing.T) {
	tests := []struct {
		name       string
		cost, conv float64
		want       float64
	}{
		{"conversions", 3000, 30, 100},
		{"no conversions falls back to cost", 34.56, 0, 34.56},
		{"nothing spent", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeviceCPA(tt.cost, tt.conv)
			assert.True(t, got.Defined)
			assert.Equal(t, FallbackToCost, got.Policy)
			assert.InDelta(t, tt.want, got.Value, 1e-9)
		})
	}
}

func TestAverageCPA(t *testing.T) {
	assert.InDelta(t, 10.0, AverageCPA(100, 10).Value, 1e-9)
	assert.Equal(t, CPA{Value: 0, Defined: true, Policy: Zero}, AverageCPA(100, 0))
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 100.0, PercentChange(5, 0))
	assert.Equal(t, 0.0, PercentChange(0, 0))
	assert.InDelta(t, -50.0, PercentChange(500, 1000), 1e-9)
	assert.InDelta(t, 23.456, PercentChange(1234.56, 1000), 1e-9)
	assert.Equal(t, -4.0, Difference(1, 5))
}

func TestSharesSumTo100(t *testing.T) {
	shares := Shares([]float64{3000, 700, 34.56, 0})
	var sum float64
	for _, s := range shares {
		sum += s
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
	assert.Equal(t, 0.0, shares[3])

	assert.Equal(t, []float64{0, 0}, Shares([]float64{0, 0}))
	assert.Empty(t, Shares(nil))
}

func TestCampaigns(t *testing.T) {
	reg := registry(t, nil)
	rows := Campaigns(reg[models.Campanhas])
	require.Len(t, rows, 3)

	assert.InDelta(t, 123.456, rows[0].CPA.Value, 1e-9)
	assert.Equal(t, "R$ 123,46", rows[0].Label)
	assert.False(t, rows[1].CPA.Defined)
	assert.Equal(t, NoConversionsLabel, rows[1].Label)

	sorted := SortCampaignsByCPA(rows)
	assert.Equal(t, "Pesquisa Genérica", sorted[0].Name)
	assert.Equal(t, "Pesquisa Marca", sorted[1].Name)
	assert.Equal(t, "Performance Max", sorted[2].Name)
	assert.Equal(t, "Pesquisa Marca", rows[0].Name, "sorting must not touch the input")
}

func TestDevices(t *testing.T) {
	reg := registry(t, nil)
	rows := Devices(reg[models.Dispositivos])
	require.Len(t, rows, 4)

	var costSum, convSum float64
	for _, r := range rows {
		costSum += r.CostShare
		convSum += r.ConversionShare
	}
	assert.InDelta(t, 100.0, costSum, 1e-9)
	assert.InDelta(t, 100.0, convSum, 1e-9)

	phone, ok := FindDevice(rows, models.DeviceSmartphones)
	require.True(t, ok)
	assert.InDelta(t, 100.0, phone.CPA.Value, 1e-9)
	assert.InDelta(t, 3000/3734.56*100, phone.CostShare, 1e-9)

	tablet, _ := FindDevice(rows, "Tablets")
	assert.InDelta(t, 34.56, tablet.CPA.Value, 1e-9)

	dominant, ok := DominantDevice(rows)
	require.True(t, ok)
	assert.Equal(t, models.DeviceSmartphones, dominant.Device)

	positive := CostPositive(rows)
	assert.Len(t, positive, 3)
	for _, r := range positive {
		assert.NotEqual(t, "Telas de TV", r.Device)
	}

	_, ok = FindDevice(rows, "Relógios")
	assert.False(t, ok)
}

func TestDaysCanonicalOrderAndStablePeak(t *testing.T) {
	days := Days(registry(t, nil)[models.Dia])
	require.Len(t, days, 7)
	assert.Equal(t, "Segunda-feira", days[0].Label)
	assert.Equal(t, "Domingo", days[6].Label)

	peak, ok := Peak(days)
	require.True(t, ok)
	assert.Equal(t, "Segunda-feira", peak.Label)
}

func TestPeakTieGoesToMonday(t *testing.T) {
	cols := []string{models.ColDay, models.ColImpressions}
	dia := table(models.Dia, cols,
		[]models.Cell{models.TextCell("Quarta-feira"), models.NumberCell(5)},
		[]models.Cell{models.TextCell("Terça-feira"), models.NumberCell(10)},
		[]models.Cell{models.TextCell("Segunda-feira"), models.NumberCell(10)},
		[]models.Cell{models.TextCell("Feriado"), models.NumberCell(99)},
	)

	days := Days(dia)
	require.Len(t, days, 3)
	peak, _ := Peak(days)
	assert.Equal(t, "Segunda-feira", peak.Label)
}

func TestHours(t *testing.T) {
	hours := Hours(registry(t, nil)[models.Hora])
	require.Len(t, hours, 4)
	assert.Equal(t, []string{"8", "9", "20", "21"}, []string{hours[0].Label, hours[1].Label, hours[2].Label, hours[3].Label})

	peak, ok := Peak(hours)
	require.True(t, ok)
	assert.Equal(t, "20", peak.Label)

	_, ok = Peak(nil)
	assert.False(t, ok)
}

func TestHeatmap(t *testing.T) {
	h := BuildHeatmap(registry(t, nil)[models.DiaHora])
	assert.Equal(t, []string{"09", "20", "21"}, h.Hours)
	assert.Equal(t, models.DayOrder, h.Days)
	assert.Equal(t, 300.0, h.Values[0][0])
	assert.Equal(t, 0.0, h.Values[0][2])
	assert.Equal(t, 400.0, h.Values[2][6])

	peak, ok := h.Peak()
	require.True(t, ok)
	assert.Equal(t, HeatCell{Hour: "20", Day: "Segunda-feira", Impressions: 1200}, peak)
}

func TestHeatmapAveragesRepeatedCells(t *testing.T) {
	cols := []string{models.ColDay, models.ColHour, models.ColImpressions}
	dh := table(models.DiaHora, cols,
		[]models.Cell{models.TextCell("Domingo"), models.TextCell("10"), models.NumberCell(100)},
		[]models.Cell{models.TextCell("Domingo"), models.TextCell("10"), models.NumberCell(300)},
	)
	h := BuildHeatmap(dh)
	require.Len(t, h.Values, 1)
	assert.Equal(t, 200.0, h.Values[0][6])
}

func TestKeywords(t *testing.T) {
	kw := registry(t, nil)[models.PalavrasChave]

	byCost := TopByCost(kw, 15)
	require.Len(t, byCost, 4, "zero cost keywords are left out and N larger than the table is fine")
	assert.Equal(t, "bosch furadeira", byCost[0].Keyword)
	assert.Equal(t, "serra mármore", byCost[3].Keyword)

	top2 := TopByCost(kw, 2)
	require.Len(t, top2, 2)
	assert.Equal(t, "furadeira sem fio", top2[1].Keyword)

	byCTR := TopByCTR(kw, 5)
	require.Len(t, byCTR, 4)
	assert.Equal(t, "parafusadeira", byCTR[0].Keyword)
	assert.InDelta(t, 12.3, byCTR[0].CTR, 1e-9)

	asc := Ascending(byCTR)
	assert.Equal(t, "serra mármore", asc[0].Keyword)
	assert.Equal(t, "parafusadeira", asc[3].Keyword)
}

func TestTopByCostTiesKeepTableOrder(t *testing.T) {
	cols := []string{models.ColKeyword, models.ColCost, models.ColClicks, models.ColCTR}
	row := func(k string, cost float64) []models.Cell {
		return []models.Cell{models.TextCell(k), models.NumberCell(cost), models.NumberCell(1), models.NumberCell(1)}
	}
	kw := table(models.PalavrasChave, cols, row("a", 10), row("b", 20), row("c", 10), row("d", 10))

	got := TopByCost(kw, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "b", got[0].Keyword)
	assert.Equal(t, "a", got[1].Keyword)
	assert.Equal(t, "c", got[2].Keyword)
}

func TestChanges(t *testing.T) {
	rows := Changes(registry(t, nil)[models.Alteracoes])
	require.Len(t, rows, 3)

	assert.InDelta(t, 234.56, rows[0].CostDiff, 1e-9)
	assert.InDelta(t, 23.456, rows[0].CostChange, 1e-9)
	assert.Equal(t, 100.0, rows[1].CostChange)
	assert.Equal(t, 100.0, rows[1].ClicksChange)
	assert.InDelta(t, 400.0, rows[2].ClicksChange, 1e-9)

	cost, ok := TopCostMover(rows)
	require.True(t, ok)
	assert.Equal(t, "Pesquisa Genérica", cost.Campaign)

	clicks, ok := TopClicksMover(rows)
	require.True(t, ok)
	assert.Equal(t, "Performance Max", clicks.Campaign)

	sorted := SortByCostChange(rows)
	assert.Equal(t, "Performance Max", sorted[2].Campaign)

	_, ok = TopCostMover(nil)
	assert.False(t, ok)
}

func TestSegments(t *testing.T) {
	reg := registry(t, nil)

	ages := Segments(reg[models.Idade], models.ColAgeRange)
	top, ok := TopSegment(ages)
	require.True(t, ok)
	assert.Equal(t, "35 a 44", top.Label)
	assert.Equal(t, "40,00%", top.KnownShare)

	male, ok := FindSegment(Segments(reg[models.Sexo], models.ColSex), models.SexMale)
	require.True(t, ok)
	assert.Equal(t, "60,00%", male.KnownShare)

	sexAge := SexAge(reg[models.SexoIdade])
	assert.Equal(t, 2500.0, sexAge[0].Impressions)
}

func TestComputeAndSummary(t *testing.T) {
	d, err := Compute(registry(t, nil), 15)
	require.NoError(t, err)

	assert.InDelta(t, 3734.56, d.Summary.TotalCost, 1e-9)
	assert.Equal(t, 35.0, d.Summary.TotalConversions)
	assert.InDelta(t, 3734.56/35, d.Summary.AverageCPA.Value, 1e-9)
	assert.Equal(t, 15, d.TopN)
	assert.Len(t, d.TopCost, 4)

	_, err = Compute(models.Registry{}, 15)
	assert.Error(t, err)
}

func TestSummaryWithoutConversions(t *testing.T) {
	cols := []string{models.ColCampaign, models.ColCost, models.ColConversions}
	camp := table(models.Campanhas, cols,
		[]models.Cell{models.TextCell("x"), models.NumberCell(50), models.NumberCell(0)},
	)
	s := Summarize(camp)
	assert.Equal(t, 0.0, s.AverageCPA.Value)
}

func TestAugment(t *testing.T) {
	reg := registry(t, nil)
	aug := Augment(reg)

	camp := aug[models.Campanhas]
	assert.True(t, camp.HasColumn(ColCPACalc))
	assert.False(t, reg[models.Campanhas].HasColumn(ColCPACalc), "input registry is untouched")
	assert.Equal(t, "", camp.Text(1, ColCPACalc))
	assert.Equal(t, NoConversionsLabel, camp.Text(1, ColCPALabel))
	assert.InDelta(t, 20.0, camp.Float(2, ColCPACalc), 1e-9)

	dev := aug[models.Dispositivos]
	assert.InDelta(t, 100.0, dev.Sum(ColCostShare), 1e-9)

	chg := aug[models.Alteracoes]
	assert.Equal(t, 100.0, chg.Float(1, ColCostChange))

	assert.InDelta(t, 100.0, aug[models.Dia].Sum(ColImpressionsShare), 1e-9)
	assert.Same(t, reg[models.Idade], aug[models.Idade])
}
