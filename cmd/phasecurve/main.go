// Command phasecurve generates a piecewise population series, writes it as a
// table and renders a log-scale chart.
//
// Usage:
//
//	phasecurve generate [--config phasecurve.yaml] [--out data/raw/population.csv]
//	phasecurve inspect [--config phasecurve.yaml]
//	phasecurve defaults > phasecurve.yaml
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/phasecurve/chart"
	"github.com/arloliu/phasecurve/config"
	"github.com/arloliu/phasecurve/internal/logging"
)

type rootOptions struct {
	verbose    bool
	configPath string
	logger     *zap.Logger
	opener     chart.Opener
}

func newRootCmd() *cobra.Command {
	return newCommand(chart.SystemOpener)
}

// newCommand builds the command tree; opener shows charts requested with --display.
func newCommand(opener chart.Opener) *cobra.Command {
	opts := &rootOptions{opener: opener}

	cmd := &cobra.Command{
		Use:   "phasecurve",
		Short: "Piecewise anchored population curve generator",
		Long: `phasecurve stitches linear, exponential-decay and logistic curves through
known historical anchors into one yearly series, writes it as a table and
renders it on a logarithmic chart.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(opts.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Project file (default: built-in bison model)")

	cmd.AddCommand(newGenerateCmd(opts), newInspectCmd(opts), newDefaultsCmd())

	return cmd
}

// loadConfig returns the project file named by --config or the built-in model.
func (o *rootOptions) loadConfig() (config.File, error) {
	if o.configPath == "" {
		return config.Default(), nil
	}

	return config.Load(o.configPath)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
