package insights

import (
	"text/template"

	"github.com/yurifrl/adinsights/pkg/format"
)

// Placeholder is rendered in place of a field whose row could not be found.
const Placeholder = "N/A"

// unavailable is the text of an insight whose rule could not find its data.
const unavailable = `**Dados indisponíveis:** {{.}}.`

var funcs = template.FuncMap{
	"brl": format.BRL,
	"pct": format.Percent,
	"int": format.Int,
}

// Insight templates, keyed by rule label.
var insightTemplates = map[string]string{
	LabelDevice: `O **{{.Dominant.Device}}** é o dispositivo dominante, representando **{{pct .Dominant.CostShare}} do Custo Total**. ` +
		`O CPA em {{.Dominant.Device}} é **{{brl .Dominant.CPA.Value}}**` +
		`{{range $i, $d := .Others}}{{if $i}},{{else}}, contra{{end}} {{$d.Device}} (**{{brl $d.CPA.Value}}**){{end}}.`,

	LabelTemporal: `O pico de impressões ocorre em **{{.Day.Label}}** ({{int .Day.Impressions}}) e na **Hora {{.Hour.Label}}** ` +
		`({{int .Hour.Impressions}}).` +
		`{{with .Heat}} No mapa de calor, o maior volume aparece em **{{.Day}} às {{.Hour}}h** ({{int .Impressions}} impressões).{{end}}`,

	LabelDemographic: `O público **{{.Sex.Label}} ({{.Sex.KnownShare}})** domina as impressões. ` +
		`A faixa etária mais forte é **{{.Age.Label}}**, representando **{{.Age.KnownShare}}** das impressões conhecidas.`,

	LabelKeywords: `Entre as {{.TopN}} palavras-chave de maior custo, **'{{.CostBoundary}}'** fecha a lista e **'{{.CostLeader}}'** a lidera. ` +
		`Entre as {{.TopN}} de maior CTR, **'{{.CTRBoundary}}'** fecha a lista e **'{{.CTRLeader}}'** indica a maior relevância.`,

	LabelChanges: `A campanha **'{{.CostMover}}'** teve o maior crescimento percentual no Custo ({{.CostChange}}), ` +
		`enquanto **'{{.ClicksMover}}'** teve o maior aumento percentual de Cliques ({{.ClicksChange}}).`,
}

// Recommendation templates, in display order. Each one renders the data of the insight rule
// it is based on and is unavailable whenever that rule is.
var recommendationTemplates = []struct {
	Label string
	Rule  string
	Text  string
}{
	{
		Label: "Otimização Mobile",
		Rule:  LabelDevice,
		Text: `Aumente o ajuste de lance para **{{.Dominant.Device}}**, que concentra {{pct .Dominant.CostShare}} do custo com CPA de {{brl .Dominant.CPA.Value}}. ` +
			`Nos demais dispositivos, se o CPA for insatisfatório, reduza o ajuste de lance ou revise a experiência do usuário.`,
	},
	{
		Label: "Ajuste Temporal",
		Rule:  LabelTemporal,
		Text: `Concentre lances e orçamento em **{{.Day.Label}}** e na **Hora {{.Hour.Label}}**` +
			`{{with .Heat}}, com atenção a {{.Day}} às {{.Hour}}h{{end}}. ` +
			`Reduza lances nas madrugadas e inícios de manhã para otimizar o orçamento.`,
	},
	{
		Label: "Segmentação Demográfica",
		Rule:  LabelDemographic,
		Text: `Reforce a segmentação para o público **{{.Sex.Label}}, {{.Age.Label}}**, o mais engajado. ` +
			`Considere diminuir lances nos segmentos com menos impressões.`,
	},
	{
		Label: "Gestão de Palavras-chave",
		Rule:  LabelKeywords,
		Text: `Verifique se o custo de **'{{.CostLeader}}'** gera um CPA aceitável; caso contrário, refine a correspondência ou adicione termos negativos. ` +
			`Aumente orçamento e lance para palavras-chave de alto CTR como **'{{.CTRLeader}}'**.`,
	},
	{
		Label: "Análise de Campanha",
		Rule:  LabelChanges,
		Text: `A campanha com maior crescimento de Cliques (**{{.ClicksMover}}**) deve ser analisada em detalhe ` +
			`para garantir que o aumento de tráfego vem acompanhado de conversões e de um CPA saudável.`,
	},
}
