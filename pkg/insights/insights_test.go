package insights

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/adinsights/pkg/derive"
	"github.com/yurifrl/adinsights/pkg/loader"
	"github.com/yurifrl/adinsights/pkg/models"
	"github.com/yurifrl/adinsights/pkg/normalize"
	"github.com/yurifrl/adinsights/pkg/testutil"
)

func derived(t *testing.T, overrides map[models.SourceKey]string, topN int) *derive.Derived {
	t.Helper()
	raw, err := loader.New(log.Default()).Load(testutil.FSWith(overrides), models.DefaultManifest)
	require.NoError(t, err)
	reg, err := normalize.New(log.Default()).NormalizeAll(raw)
	require.NoError(t, err)
	d, err := derive.Compute(reg, topN)
	require.NoError(t, err)
	return d
}

func byLabel(t *testing.T, list []models.Insight, label string) models.Insight {
	t.Helper()
	for _, i := range list {
		if i.Label == label {
			return i
		}
	}
	t.Fatalf("Expected insight %q in %v", label, list)
	return models.Insight{}
}

func TestExtract(t *testing.T) {
	report := New(log.Default()).Extract(derived(t, nil, 15))

	require.Len(t, report.Insights, 5)
	require.Len(t, report.Recommendations, 5)
	assert.Equal(t, LabelDevice, report.Insights[0].Label)
	assert.Equal(t, LabelChanges, report.Insights[4].Label)
	for _, i := range append(report.Insights, report.Recommendations...) {
		assert.False(t, i.Degraded, "%s degraded: %s", i.Label, i.Text)
		assert.NotContains(t, i.Text, "<no value>")
	}
}

func TestDeviceInsight(t *testing.T) {
	report := New(log.Default()).Extract(derived(t, nil, 15))
	text := byLabel(t, report.Insights, LabelDevice).Text

	assert.Contains(t, text, "**Smartphones** é o dispositivo dominante")
	assert.Contains(t, text, "**80,3% do Custo Total**")
	assert.Contains(t, text, "**R$ 100,00**")
	assert.Contains(t, text, "contra Computadores (**R$ 140,00**), Tablets (**R$ 34,56**), Telas de TV (**R$ 0,00**).")
}

func TestDeviceInsightDegradesWithoutSmartphones(t *testing.T) {
	d := derived(t, map[models.SourceKey]string{
		models.Dispositivos: "Dispositivo,Custo,Cliques,Conversões\nComputadores,\"R$ 700,00\",300,\"5,00\"\n",
	}, 15)

	report := New(log.Default()).Extract(d)
	require.Len(t, report.Insights, 5)

	device := byLabel(t, report.Insights, LabelDevice)
	assert.True(t, device.Degraded)
	assert.Contains(t, device.Text, "Dados indisponíveis")
	assert.Contains(t, device.Text, `"Smartphones"`)

	rec := byLabel(t, report.Recommendations, "Otimização Mobile")
	assert.True(t, rec.Degraded)

	assert.False(t, byLabel(t, report.Insights, LabelTemporal).Degraded)
}

func TestTemporalInsight(t *testing.T) {
	report := New(log.Default()).Extract(derived(t, nil, 15))
	text := byLabel(t, report.Insights, LabelTemporal).Text

	assert.Contains(t, text, "**Segunda-feira** (5.000)")
	assert.Contains(t, text, "**Hora 20** (2.500)")
	assert.Contains(t, text, "**Segunda-feira às 20h** (1.200 impressões)")
}

func TestTemporalInsightDegradesWithoutDays(t *testing.T) {
	d := derived(t, map[models.SourceKey]string{
		models.Dia: "Dia,Impressões\nFeriado,10\n",
	}, 15)

	insight := byLabel(t, New(log.Default()).Extract(d).Insights, LabelTemporal)
	assert.True(t, insight.Degraded)
}

func TestDemographicInsight(t *testing.T) {
	report := New(log.Default()).Extract(derived(t, nil, 15))
	text := byLabel(t, report.Insights, LabelDemographic).Text

	assert.Contains(t, text, "**Masculino (60,00%)**")
	assert.Contains(t, text, "**35 a 44**, representando **40,00%**")
}

func TestDemographicInsightDegradesWithoutCategory(t *testing.T) {
	d := derived(t, map[models.SourceKey]string{
		models.Sexo: "Sexo,Impressões,Porcentagem do total conhecido\nFeminino,4.000,\"100,00%\"\n",
	}, 15)

	insight := byLabel(t, New(log.Default()).Extract(d).Insights, LabelDemographic)
	assert.True(t, insight.Degraded)
	assert.Contains(t, insight.Text, `"Masculino" não encontrado em Sexo`)
}

func TestKeywordInsight(t *testing.T) {
	report := New(log.Default()).Extract(derived(t, nil, 5))
	text := byLabel(t, report.Insights, LabelKeywords).Text

	assert.Contains(t, text, "**'serra mármore'** fecha a lista e **'bosch furadeira'** a lidera")
	assert.Contains(t, text, "**'serra mármore'** fecha a lista e **'parafusadeira'** indica")
}

func TestKeywordInsightEmptyTable(t *testing.T) {
	d := derived(t, map[models.SourceKey]string{
		models.PalavrasChave: "Palavra-chave da rede de pesquisa,Custo,Cliques,CTR\nmartelete,\"R$ 0,00\",0,\"0,00%\"\n",
	}, 15)

	insight := byLabel(t, New(log.Default()).Extract(d).Insights, LabelKeywords)
	assert.False(t, insight.Degraded)
	assert.Contains(t, insight.Text, "'N/A'")
}

func TestChangesInsight(t *testing.T) {
	report := New(log.Default()).Extract(derived(t, nil, 15))
	text := byLabel(t, report.Insights, LabelChanges).Text

	assert.Contains(t, text, "**'Pesquisa Genérica'** teve o maior crescimento percentual no Custo (100,0%)")
	assert.Contains(t, text, "**'Performance Max'** teve o maior aumento percentual de Cliques (400,0%)")

	rec := byLabel(t, report.Recommendations, "Análise de Campanha")
	assert.Contains(t, rec.Text, "**Performance Max**")
}

func TestExtractIsDeterministic(t *testing.T) {
	e := New(log.Default())
	d := derived(t, nil, 15)
	assert.Equal(t, e.Extract(d), e.Extract(d))
}
