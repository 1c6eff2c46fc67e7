package executors

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/yurifrl/adinsights/pkg/format"
	"github.com/yurifrl/adinsights/pkg/plan"
)

// Plan runs the pipeline for every run of p and prints the files Apply would write.
// Nothing is written.
func (e *Executor) Plan(p *plan.Plan, w io.Writer) error {
	e.logger.Debug("planning", "runs", len(p.Runs), "data_dir", p.DataDir)

	existingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray
	createStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))  // green
	headerStyle := lipgloss.NewStyle().Bold(true)

	creates, overwrites := 0, 0
	for _, run := range p.Runs {
		result, err := e.pipeline.RunDir(p.DataDir, run.Options())
		if err != nil {
			return fmt.Errorf("run %s: %w", run.Name, err)
		}

		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s (top_n=%d, format=%s)", run.Name, run.TopN, run.Format)))
		fmt.Fprintf(w, "  custo total %s | conversões %s | CPA médio %s\n",
			format.BRL(result.Summary.TotalCost),
			format.Int(result.Summary.TotalConversions),
			format.BRL(result.Summary.AverageCPA.Value))

		for _, path := range Outputs(run.Format, run.Output) {
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintln(w, existingStyle.Render("  = "+path))
				overwrites++
				continue
			}
			fmt.Fprintln(w, createStyle.Render("  + "+path))
			creates++
		}
	}

	if overwrites == 0 {
		fmt.Fprintf(w, "\nPlan: %d file(s) will be created\n", creates)
	} else {
		fmt.Fprintf(w, "\nPlan: %d file(s) will be created, %d overwritten\n", creates, overwrites)
	}
	return nil
}
