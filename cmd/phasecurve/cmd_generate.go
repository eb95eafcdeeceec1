package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/phasecurve"
)

type generateOptions struct {
	out      string
	chart    string
	title    string
	noChart  bool
	display  bool
	dedupe   bool
	parallel bool
	rateRule string
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the series, write the table and render the chart",
		Long: `Generate evaluates every phase, writes the table and then renders the chart.

The table format follows the --out extension: .csv, .csv.zst, .csv.sz,
.csv.lz4 or .xlsx. The chart format follows the --chart extension: .png,
.svg or .pdf. A chart failure is reported after the table has been written.

Logistic rates default to the anchored rule, which lands every logistic phase
on its end anchor. Pass --rate-rule legacy for the earlier formula
r = ln(K/target - 1) / -duration, whose 1920-1990 phase ends near 853
instead of 237,500.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, root, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.out, "out", "o", "", "Table destination (overrides output.table)")
	flags.StringVar(&opts.chart, "chart", "", "Chart destination (overrides output.chart)")
	flags.StringVar(&opts.title, "title", "", "Chart title (overrides output.title)")
	flags.BoolVar(&opts.noChart, "no-chart", false, "Skip chart rendering")
	flags.BoolVar(&opts.display, "display", false, "Open the chart in the system viewer")
	flags.BoolVar(&opts.dedupe, "dedupe", false, "Emit each boundary year once")
	flags.BoolVar(&opts.parallel, "parallel", false, "Evaluate phases concurrently")
	flags.StringVar(&opts.rateRule, "rate-rule", "", "Logistic rate rule: anchored (exact end anchors) or legacy (earlier formula, misses end anchors)")

	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions) error {
	f, err := root.loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		f.Output.Table = opts.out
	}
	if flags.Changed("chart") {
		f.Output.Chart = opts.chart
	}
	if flags.Changed("title") {
		f.Output.Title = opts.title
	}
	if flags.Changed("display") {
		f.Output.Display = opts.display
	}
	if flags.Changed("dedupe") {
		f.DedupeBoundaries = opts.dedupe
	}
	if flags.Changed("parallel") {
		f.Parallel = opts.parallel
	}
	if flags.Changed("rate-rule") {
		f.RateRule = opts.rateRule
	}
	if err := f.Validate(); err != nil {
		return err
	}

	outcome, err := phasecurve.Run(f, root.logger, phasecurve.RunOptions{
		SkipChart: opts.noChart,
		Opener:    root.opener,
	})
	if outcome != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Dataset saved to: %s (%d rows)\n", outcome.Table.Path, outcome.Table.Rows)
		if worst, ok := outcome.Result.MaxRelResidual(); ok && worst.RelResidual != 0 {
			root.logger.Info("largest anchor residual",
				zap.String("phase", worst.Name),
				zap.Int("year", worst.End),
				zap.Float64("rel_residual", worst.RelResidual))
		}
		if outcome.Chart != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Chart saved to: %s\n", outcome.Chart)
		}
	}

	return err
}
