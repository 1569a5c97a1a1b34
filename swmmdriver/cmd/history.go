package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/swmmdriver/datarecording"
)

var historyCmd = &cobra.Command{
	Use:   "history <recording>",
	Short: "List the runs stored in a recording database.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		failed, _ := cmd.Flags().GetBool("failed")

		return printHistory(cmd.OutOrStdout(), args[0], limit, failed)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Int("limit", 0, "Show at most this many runs.")
	historyCmd.Flags().Bool("failed", false, "Only show incomplete runs.")
}

func printHistory(out io.Writer, path string, limit int, failed bool) error {
	reader, err := datarecording.NewReader(datarecording.Filename(path))
	if err != nil {
		return err
	}
	defer reader.Close()

	datarecording.MapTables(reader)

	params := datarecording.QueryParams{
		OrderBy: "rowid",
		Limit:   limit,
	}
	if failed {
		params.Where = "Completed = ?"
		params.Args = []any{false}
	}

	runs, total, err := reader.Query(
		context.Background(), datarecording.RunTable, params)
	if err != nil {
		return fmt.Errorf("querying runs: %w", err)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tINPUT\tSTEPS\tSTAGE\tCODE\tCOMPLETED")

	for _, r := range runs {
		run := r.(*datarecording.RunEntry)
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%t\n",
			run.RunID, run.InputPath, run.Steps, run.Stage,
			run.ErrorCode, run.Completed)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "%d of %d runs\n", len(runs), total)

	return nil
}
