// Package insights turns derived metrics into short findings and recommendations.
//
// Each rule scans the derived views for an extremal row and renders it into a fixed template.
// A rule that cannot find the category it needs never fails the run: its insight, and the
// recommendation based on it, degrade to a placeholder.
package insights

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/adinsights/pkg/derive"
	apperrors "github.com/yurifrl/adinsights/pkg/errors"
	"github.com/yurifrl/adinsights/pkg/format"
	"github.com/yurifrl/adinsights/pkg/models"
)

// Rule labels, in the order the insights are produced.
const (
	LabelDevice      = "Domínio Mobile"
	LabelTemporal    = "Pico Temporal"
	LabelDemographic = "Público-alvo Forte"
	LabelKeywords    = "Oportunidades de Otimização (KW)"
	LabelChanges     = "Maiores Alterações"
)

type DeviceData struct {
	Dominant derive.DeviceRow
	Others   []derive.DeviceRow
}

type TemporalData struct {
	Day  derive.Bucket
	Hour derive.Bucket
	Heat *derive.HeatCell
}

type DemographicData struct {
	Age derive.Segment
	Sex derive.Segment
}

// KeywordData holds keyword names; a list without rows shows Placeholder.
type KeywordData struct {
	TopN         int
	CostBoundary string
	CostLeader   string
	CTRBoundary  string
	CTRLeader    string
}

// ChangeData holds campaign names and formatted changes; Placeholder when the source is empty.
type ChangeData struct {
	CostMover    string
	CostChange   string
	ClicksMover  string
	ClicksChange string
}

type rule struct {
	label string
	data  func(*derive.Derived) (interface{}, error)
}

var rules = []rule{
	{LabelDevice, deviceData},
	{LabelTemporal, temporalData},
	{LabelDemographic, demographicData},
	{LabelKeywords, keywordData},
	{LabelChanges, changeData},
}

func deviceData(d *derive.Derived) (interface{}, error) {
	if _, ok := derive.FindDevice(d.Devices, models.DeviceSmartphones); !ok {
		return nil, apperrors.NewLookupMiss(string(models.Dispositivos), models.DeviceSmartphones)
	}
	dominant, _ := derive.DominantDevice(d.Devices)
	data := DeviceData{Dominant: dominant}
	for _, r := range d.Devices {
		if r.Device != dominant.Device {
			data.Others = append(data.Others, r)
		}
	}
	return data, nil
}

func temporalData(d *derive.Derived) (interface{}, error) {
	day, ok := derive.Peak(d.Days)
	if !ok {
		return nil, apperrors.NewLookupMiss(string(models.Dia), models.ColImpressions)
	}
	hour, ok := derive.Peak(d.Hours)
	if !ok {
		return nil, apperrors.NewLookupMiss(string(models.Hora), models.ColImpressions)
	}
	data := TemporalData{Day: day, Hour: hour}
	if cell, ok := d.Heatmap.Peak(); ok {
		data.Heat = &cell
	}
	return data, nil
}

func demographicData(d *derive.Derived) (interface{}, error) {
	age, ok := derive.TopSegment(d.Ages)
	if !ok {
		return nil, apperrors.NewLookupMiss(string(models.Idade), models.ColAgeRange)
	}
	sex, ok := derive.FindSegment(d.Sexes, models.SexMale)
	if !ok {
		return nil, apperrors.NewLookupMiss(string(models.Sexo), models.SexMale)
	}
	return DemographicData{Age: age, Sex: sex}, nil
}

func keywordData(d *derive.Derived) (interface{}, error) {
	data := KeywordData{
		TopN:         d.TopN,
		CostBoundary: Placeholder,
		CostLeader:   Placeholder,
		CTRBoundary:  Placeholder,
		CTRLeader:    Placeholder,
	}
	// the boundary is the last row kept by the top-N cut
	if n := len(d.TopCost); n > 0 {
		data.CostLeader = d.TopCost[0].Keyword
		data.CostBoundary = d.TopCost[n-1].Keyword
	}
	if n := len(d.TopCTR); n > 0 {
		data.CTRLeader = d.TopCTR[0].Keyword
		data.CTRBoundary = d.TopCTR[n-1].Keyword
	}
	return data, nil
}

func changeData(d *derive.Derived) (interface{}, error) {
	data := ChangeData{
		CostMover:    Placeholder,
		CostChange:   Placeholder,
		ClicksMover:  Placeholder,
		ClicksChange: Placeholder,
	}
	if r, ok := derive.TopCostMover(d.Changes); ok {
		data.CostMover = r.Campaign
		data.CostChange = format.Percent(r.CostChange)
	}
	if r, ok := derive.TopClicksMover(d.Changes); ok {
		data.ClicksMover = r.Campaign
		data.ClicksChange = format.Percent(r.ClicksChange)
	}
	return data, nil
}

// Extractor renders insights and recommendations from derived metrics.
type Extractor struct {
	insights        map[string]*template.Template
	recommendations []*template.Template
	unavailable     *template.Template
	logger          *log.Logger
}

func New(logger *log.Logger) *Extractor {
	e := &Extractor{
		insights:    make(map[string]*template.Template, len(insightTemplates)),
		unavailable: template.Must(template.New("unavailable").Parse(unavailable)),
		logger:      logger,
	}
	for label, text := range insightTemplates {
		e.insights[label] = template.Must(template.New(label).Funcs(funcs).Parse(text))
	}
	for _, r := range recommendationTemplates {
		e.recommendations = append(e.recommendations, template.Must(template.New(r.Label).Funcs(funcs).Parse(r.Text)))
	}
	return e
}

// Report is the rendered output of one extraction.
type Report struct {
	Insights        []models.Insight `json:"insights"`
	Recommendations []models.Insight `json:"recommendations"`
}

// Extract evaluates every rule against d. It always returns one insight per rule and one
// entry per recommendation, degraded ones included.
func (e *Extractor) Extract(d *derive.Derived) Report {
	data := make(map[string]interface{}, len(rules))
	failures := make(map[string]error, len(rules))

	var report Report
	for _, r := range rules {
		v, err := r.data(d)
		if err != nil {
			failures[r.label] = err
			report.Insights = append(report.Insights, e.degraded(r.label, err))
			continue
		}
		data[r.label] = v
		report.Insights = append(report.Insights, e.render(r.label, e.insights[r.label], v))
	}

	for i, r := range recommendationTemplates {
		if err, failed := failures[r.Rule]; failed {
			report.Recommendations = append(report.Recommendations, e.degraded(r.Label, err))
			continue
		}
		report.Recommendations = append(report.Recommendations, e.render(r.Label, e.recommendations[i], data[r.Rule]))
	}

	return report
}

func (e *Extractor) render(label string, tmpl *template.Template, data interface{}) models.Insight {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return e.degraded(label, fmt.Errorf("failed to render %s: %w", label, err))
	}
	return models.Insight{Label: label, Text: buf.String()}
}

func (e *Extractor) degraded(label string, err error) models.Insight {
	e.logger.Warn("insight unavailable", "insight", label, "err", err)

	var buf bytes.Buffer
	if execErr := e.unavailable.Execute(&buf, reason(err)); execErr != nil {
		buf.Reset()
		buf.WriteString("Dados indisponíveis.")
	}
	return models.Insight{Label: label, Text: buf.String(), Degraded: true}
}

func reason(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Type == apperrors.ErrTypeLookupMiss {
		return fmt.Sprintf("%q não encontrado em %s", appErr.Context["category"], appErr.Context["source"])
	}
	return "não foi possível gerar esta análise"
}
