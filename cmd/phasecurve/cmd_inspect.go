package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arloliu/phasecurve/phase"
)

func newInspectCmd(root *rootOptions) *cobra.Command {
	var dedupe bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print derived phase parameters and anchor residuals without writing files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := root.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dedupe") {
				f.DedupeBoundaries = dedupe
			}

			cfg, err := f.PhaseConfig()
			if err != nil {
				return err
			}
			opts, err := f.GeneratorOptions()
			if err != nil {
				return err
			}
			opts = append(opts, phase.WithLogger(root.logger))

			res, err := phase.Generate(cfg, opts...)
			if err != nil {
				return err
			}

			return printReport(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().BoolVar(&dedupe, "dedupe", false, "Emit each boundary year once")

	return cmd
}

func printReport(w io.Writer, res *phase.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PHASE\tYEARS\tFORM\tSTART\tEND\tANCHOR\tRESIDUAL")
	for _, r := range res.Reports {
		anchor, residual := "-", "-"
		if r.HasAnchor {
			anchor = fmt.Sprintf("%.6g", r.Anchor)
			residual = fmt.Sprintf("%+.3f%%", r.RelResidual*100)
		}
		fmt.Fprintf(tw, "%s\t%d-%d\t%s\t%.6g\t%.6g\t%s\t%s\n",
			r.Name, r.Start, r.End, r.Form, r.StartValue, r.EndValue, anchor, residual)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	for _, r := range res.Reports {
		fmt.Fprintf(w, "%s: %s\n", r.Name, r.Formula)
		if len(r.Notes) > 0 {
			fmt.Fprintf(w, "  note: %s\n", strings.Join(r.Notes, "; "))
		}
	}

	fmt.Fprintf(w, "\nrows: %d  duplicated years: %v  fingerprint: %016x\n",
		len(res.Series), res.Series.Duplicates(), res.Series.Fingerprint())

	return nil
}
