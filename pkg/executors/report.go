package executors

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/yurifrl/adinsights/pkg/format"
	"github.com/yurifrl/adinsights/pkg/models"
	"github.com/yurifrl/adinsights/pkg/pipeline"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle    = lipgloss.NewStyle().Bold(true)
	degradedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	cardStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			MarginRight(1)
)

// RenderReport prints the summary cards, insights and recommendations of result.
func RenderReport(w io.Writer, result *pipeline.Result) {
	s := result.Summary
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Custo Total", format.BRL(s.TotalCost)),
		card("Conversões", format.Int(s.TotalConversions)),
		card("CPA Médio", format.BRL(s.AverageCPA.Value)),
	)
	fmt.Fprintln(w, cards)

	fmt.Fprintln(w, titleStyle.Render("Insights"))
	renderList(w, result.Insights)

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Recomendações"))
	renderList(w, result.Recommendations)
}

func card(title, value string) string {
	return cardStyle.Render(title + "\n" + labelStyle.Render(value))
}

func renderList(w io.Writer, list []models.Insight) {
	for _, in := range list {
		line := fmt.Sprintf("- %s: %s", labelStyle.Render(in.Label), in.Text)
		if in.Degraded {
			line = degradedStyle.Render(fmt.Sprintf("- %s: %s", in.Label, in.Text))
		}
		fmt.Fprintln(w, line)
	}
}
