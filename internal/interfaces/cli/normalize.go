package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NormalizedName pairs an input with its canonical display form.
type NormalizedName struct {
	Name       string `json:"name"`
	Normalized string `json:"normalized"`
}

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <name>...",
		Short: "Print the canonical display form of scientific names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			out := make([]NormalizedName, 0, len(args))
			for _, a := range args {
				out = append(out, NormalizedName{Name: a, Normalized: cliCtx.Engine.Normalize(a)})
			}
			if cliCtx.OutputFormat == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			for _, n := range out {
				fmt.Fprintln(cmd.OutOrStdout(), n.Normalized)
			}
			return nil
		},
	}
}

//Personal.AI order the ending
