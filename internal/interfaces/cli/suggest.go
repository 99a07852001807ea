package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/application/suggest"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/domain/taxonomy"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/monitoring/logging"
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/errors"
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

type suggestOptions struct {
	pages   int
	perPage int
	sources []string
}

func newSuggestCmd() *cobra.Command {
	opts := &suggestOptions{}
	cmd := &cobra.Command{
		Use:   "suggest <query>",
		Short: "Print the hierarchy outline for a query",
		Long: `Search the taxonomy service and print the matches as a hierarchy outline,
most relevant branch first.  Further pages are fetched while the service
reports more results, up to --pages.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd, strings.Join(args, " "), opts)
		},
	}
	cmd.Flags().IntVar(&opts.pages, "pages", 1, "maximum number of pages to accumulate (1-20)")
	cmd.Flags().IntVar(&opts.perPage, "per-page", 0, "results per page (default: taxonomy.per_page)")
	cmd.Flags().StringSliceVar(&opts.sources, "source", nil, "data source filter, repeatable (e.g. taxa,burungnesia)")
	return cmd
}

func (o *suggestOptions) validate() error {
	if o.pages < 1 || o.pages > 20 {
		return errors.NewValidationError("pages", fmt.Sprintf("must be between 1 and 20, got %d", o.pages))
	}
	if o.perPage < 0 || o.perPage > 100 {
		return errors.NewValidationError("per-page", fmt.Sprintf("must be between 0 and 100, got %d", o.perPage))
	}
	return nil
}

func runSuggest(cmd *cobra.Command, query string, opts *suggestOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	res, err := cliCtx.accumulate(cmd, suggest.SuggestInput{
		Query:       query,
		PerPage:     opts.perPage,
		DataSources: opts.sources,
		MaxPages:    opts.pages,
	})
	if err != nil {
		return err
	}
	return printOutline(cmd.OutOrStdout(), res, cliCtx.OutputFormat)
}

// accumulate runs SuggestAll under the command deadline.
func (c *CLIContext) accumulate(cmd *cobra.Command, in suggest.SuggestInput) (*suggest.SuggestResult, error) {
	ctx, cancel := c.commandContext(cmd.Context())
	defer cancel()

	c.Logger.Debug("Running suggestion search",
		logging.String("query", in.Query),
		logging.Int("max_pages", in.MaxPages))
	return c.Engine.SuggestAll(ctx, in)
}

func printOutline(w io.Writer, res *suggest.SuggestResult, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, res)
	case FormatTable:
		return writeOutlineTable(w, res)
	default:
		writeOutlineText(w, res)
		return nil
	}
}

// writeOutlineText prints one line per entry, indented by hierarchy level.
// Entries matching the query are highlighted and synonyms name their
// accepted taxon.
func writeOutlineText(w io.Writer, res *suggest.SuggestResult) {
	if len(res.Entries) == 0 {
		msg := fmt.Sprintf("No taxa found for %q.", res.Query)
		if res.Degraded {
			msg += " " + color.YellowString("(taxonomy service unavailable)")
		}
		fmt.Fprintln(w, msg)
		return
	}

	for _, e := range res.Entries {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", e.HierarchyLevel), entryLine(e, res.Query))
	}
	more := ""
	if res.HasMore {
		more = ", more available"
	}
	fmt.Fprintf(w, "\n%d entries, %d page(s)%s\n", len(res.Entries), res.Page, more)
}

func entryLine(e taxon.Entry, query string) string {
	name := e.ScientificName
	if taxonomy.Matches(e.Candidate, query) {
		name = color.New(color.FgGreen, color.Bold).Sprint(name)
	}
	line := fmt.Sprintf("%s [%s]", name, e.Rank)
	if e.CommonName != "" {
		line += " " + e.CommonName
	}
	if e.IsSynonym() {
		line += " " + color.YellowString("synonym of %s", e.AcceptedScientificName)
	}
	return line + color.HiBlackString("  #%s", e.ID)
}

func writeOutlineTable(w io.Writer, res *suggest.SuggestResult) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "ID", "Name", "Rank", "Common Name", "Status"})
	for i, e := range res.Entries {
		status := string(e.TaxonomicStatus)
		if e.IsSynonym() {
			status += " → " + e.AcceptedScientificName
		}
		if err := table.Append([]string{
			strconv.Itoa(i + 1),
			e.ID,
			strings.Repeat("  ", e.HierarchyLevel) + e.ScientificName,
			string(e.Rank),
			e.CommonName,
			status,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

//Personal.AI order the ending
