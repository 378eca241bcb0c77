package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ggnmatch/internal/config"
	"ggnmatch/internal/resultstore"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var runID string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored match runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(config.WithoutCredentials())
			if err != nil {
				return err
			}
			if cfg.Output.ResultsDB == "" {
				return errors.New("run history is disabled; set output.results_db in the configuration")
			}
			store, err := resultstore.Open(cfg.Output.ResultsDB)
			if err != nil {
				return fmt.Errorf("open results db: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			runID = strings.TrimSpace(runID)
			if runID == "" {
				runs, err := store.Runs(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				fmt.Fprintln(out, renderRuns(runs))
				return nil
			}

			run, err := store.GetRun(cmd.Context(), runID)
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("run %s not found", runID)
			}
			results, err := store.Results(cmd.Context(), runID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Run %s (%s) started %s\n", run.ID, run.Source, formatTime(run.StartedAt))
			if len(results) == 0 {
				fmt.Fprintln(out, "No results recorded")
				return nil
			}
			fmt.Fprintln(out, renderResults(results))
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Show the results of one run")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to list (0 for all)")
	return cmd
}

func renderRuns(runs []resultstore.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		finished := "running"
		if run.Finished() {
			finished = formatTime(*run.FinishedAt)
		}
		rows = append(rows, []string{
			run.ID,
			run.Source,
			formatTime(run.StartedAt),
			finished,
			strconv.Itoa(run.HighConfidence),
			strconv.Itoa(run.PreferredPlatform),
			strconv.Itoa(run.NoMatch),
			strconv.Itoa(run.Skipped + run.TransportFailed),
		})
	}
	return renderTable(
		[]string{"Run", "Catalog", "Started", "Finished", "High", "Platform", "None", "Skipped"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}

func renderResults(results []resultstore.StoredResult) string {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		rows = append(rows, []string{
			strconv.Itoa(result.Entry.Row),
			result.Entry.Name,
			result.Entry.ExternalID,
			result.Outcome.Status(),
			result.GroupURL,
		})
	}
	return renderTable(
		[]string{"Row", "Game", "Steam ID", "Status", "URL"},
		rows,
		[]columnAlignment{alignRight},
	)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
