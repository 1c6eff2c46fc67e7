package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/yurifrl/adinsights/pkg/compare"
	"github.com/yurifrl/adinsights/pkg/config"
	"github.com/yurifrl/adinsights/pkg/executors"
	"github.com/yurifrl/adinsights/pkg/pipeline"
	"github.com/yurifrl/adinsights/pkg/plan"
)

var (
	cliFilters filters
	cfgFile    string
)

var rootCmd = &cobra.Command{
	Use:           "adinsights",
	Short:         "Google Ads export analysis",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline and print insights and recommendations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		result, err := runPipeline(cfg, logger)
		if err != nil {
			return err
		}

		if dump, _ := cmd.Flags().GetBool("dump"); dump {
			pp.Println(result)
			return nil
		}
		executors.RenderReport(os.Stdout, result)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the normalized tables with derived columns as CSV or XLSX",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		to, _ := cmd.Flags().GetString("to")

		result, err := runPipeline(cfg, logger)
		if err != nil {
			return err
		}
		files, err := executors.New(logger).Export(result, to, cfg.OutputDir, cliFilters.toFilterFunc())
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return nil
	},
}

var planCmd = &cobra.Command{
	Use:   "plan <plan_file>",
	Short: "Preview a YAML plan of report runs (dry-run)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		planPath := args[0]

		p, err := plan.Load(planPath)
		if err != nil {
			return err
		}

		fmt.Printf("Plan preview for %s\n", planPath)
		p.Print(os.Stdout)
		fmt.Println()
		return executors.New(logger).Plan(p, os.Stdout)
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <plan_file>",
	Short: "Run every report of a YAML plan and write its exports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		p, err := plan.Load(args[0])
		if err != nil {
			return err
		}
		return executors.New(logger).Apply(p)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run the pipeline twice and check both runs agree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		first, err := runPipeline(cfg, logger)
		if err != nil {
			return err
		}
		second, err := runPipeline(cfg, logger)
		if err != nil {
			return err
		}

		if diffs := compare.Diff(first, second); len(diffs) > 0 {
			return fmt.Errorf("runs differ:\n  %s", strings.Join(diffs, "\n  "))
		}
		fmt.Printf("OK: %d tables, %d insights and %d recommendations match\n",
			len(first.Augmented), len(first.Insights), len(first.Recommendations))
		return nil
	},
}

// setup builds the configuration from file, environment and flags and the logger at the
// configured level.
func setup(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "adinsights",
		Level:           level,
	})
	return cfg, logger, nil
}

func runPipeline(cfg *config.Config, logger *log.Logger) (*pipeline.Result, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return pipeline.New(logger).RunDir(cfg.DataDir, opts)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", ".", "Directory holding the exports")
	rootCmd.PersistentFlags().IntP("top-n", "n", pipeline.DefaultTopN, "Keywords per ranking (5-50)")
	rootCmd.PersistentFlags().String("format", "csv", "Source file format (csv or xls)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	runCmd.Flags().Bool("dump", false, "Dump the full result instead of the report")

	exportCmd.Flags().StringP("output", "o", "out", "Output directory, or file for xlsx")
	exportCmd.Flags().String("to", plan.FormatCSV, "Export format (csv or xlsx)")
	exportCmd.Flags().Float64Var(&cliFilters.minCost, "min-cost", 0, "Minimum cost")
	exportCmd.Flags().Float64Var(&cliFilters.maxCost, "max-cost", 0, "Maximum cost")
	exportCmd.Flags().StringVar(&cliFilters.name, "name", "", "Keep rows with a text cell containing name (case insensitive)")
	exportCmd.Flags().StringSliceVar(&cliFilters.sources, "source", nil, "Only export rows of these sources")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(verifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
