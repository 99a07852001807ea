package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/application/suggest"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/monitoring/logging"
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/errors"
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

func newSelectCmd() *cobra.Command {
	var (
		candidateID string
		pages       int
		sources     []string
	)
	cmd := &cobra.Command{
		Use:   "select <query> --id <candidate>",
		Short: "Finalize a pick from the outline of a query",
		Long: `Run the search for <query>, then finalize the candidate with --id the way
the observation form does: a synonym is redirected to its accepted taxon
and the display label is built from the normalized name.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(candidateID) == "" {
				return errors.NewValidationError("id", "candidate id is required")
			}
			if pages < 1 || pages > 20 {
				return errors.NewValidationError("pages", fmt.Sprintf("must be between 1 and 20, got %d", pages))
			}
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			outline, err := cliCtx.accumulate(cmd, suggest.SuggestInput{
				Query:       strings.Join(args, " "),
				DataSources: sources,
				MaxPages:    pages,
			})
			if err != nil {
				return err
			}

			ctx, cancel := cliCtx.commandContext(cmd.Context())
			defer cancel()
			res, err := cliCtx.Engine.Select(ctx, suggest.SelectInput{
				SessionID:   outline.SessionID,
				CandidateID: strings.TrimSpace(candidateID),
			})
			if err != nil {
				return err
			}
			cliCtx.Logger.Debug("Selection finalized", logging.String("id", res.Selection.ID))

			if cliCtx.OutputFormat == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			writeSelectionText(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVar(&candidateID, "id", "", "id of the candidate to finalize (required)")
	cmd.Flags().IntVar(&pages, "pages", 1, "maximum number of pages to search for the candidate (1-20)")
	cmd.Flags().StringSliceVar(&sources, "source", nil, "data source filter, repeatable")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func writeSelectionText(w io.Writer, res *taxon.SelectionResult) {
	sel := res.Selection
	if res.Redirect != nil {
		fmt.Fprintln(w, color.YellowString("%s is a synonym; using accepted name %s",
			res.Redirect.OriginalName, res.Redirect.ResolvedName))
	}
	fmt.Fprintf(w, "%s %s\n", color.GreenString("Selected:"), sel.DisplayLabel)
	fmt.Fprintf(w, "  id:   %s\n  rank: %s\n", sel.ID, sel.Rank)
	for _, r := range taxon.AllRanks {
		if v := sel.Hierarchy[r]; v != "" {
			fmt.Fprintf(w, "  %-12s %s\n", string(r)+":", v)
		}
	}
}

//Personal.AI order the ending
