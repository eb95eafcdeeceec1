package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/arloliu/phasecurve/config"
)

const rateRuleNote = `# rate_rule: "anchored" lands every logistic phase on its end anchor.
# "legacy" uses r = ln(K/target - 1) / -duration and reproduces tables built
# with that formula; its 1920-1990 phase ends near 853 instead of 237,500.
`

func newDefaultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Print the built-in model as a project file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Marshal(config.Default())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := io.WriteString(out, rateRuleNote); err != nil {
				return err
			}
			_, err = out.Write(data)

			return err
		},
	}
}
