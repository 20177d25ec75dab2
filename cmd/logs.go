package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gridmix/core/dispatch"
	"github.com/kilianp07/gridmix/core/dispatch/logging"
	"github.com/kilianp07/gridmix/core/model"
)

var (
	logsSince  time.Duration
	logsStart  string
	logsEnd    string
	logsStatus string
	logsFuel   string
	logsLimit  int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Query the dispatch log",
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().DurationVar(&logsSince, "since", 0, "only runs newer than this duration")
	logsCmd.Flags().StringVar(&logsStart, "start", "", "start time (RFC3339)")
	logsCmd.Flags().StringVar(&logsEnd, "end", "", "end time (RFC3339)")
	logsCmd.Flags().StringVar(&logsStatus, "status", "", "optimal, degraded or infeasible")
	logsCmd.Flags().StringVar(&logsFuel, "fuel", "", "only runs dispatching this fuel")
	logsCmd.Flags().IntVar(&logsLimit, "limit", 0, "show at most the latest n runs")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	q, err := logQuery(time.Now())
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Logging.Enabled() {
		return fmt.Errorf("dispatch log disabled (logging.backend=none)")
	}
	store, err := cfg.Logging.Open()
	if err != nil {
		return fmt.Errorf("open dispatch log: %w", err)
	}
	defer func() { _ = store.Close() }()

	recs, err := store.Query(context.Background(), q)
	if err != nil {
		return err
	}
	if logsLimit > 0 && len(recs) > logsLimit {
		recs = recs[len(recs)-logsLimit:]
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tTIME\tSTATUS\tDEMAND MW\tCOST\tANCHOR")
	for _, r := range recs {
		anchor := "-"
		if r.AnchorPrice != nil {
			anchor = fmt.Sprintf("%.2f", *r.AnchorPrice)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%.2f\t%s\n", r.RunID, r.Timestamp.Format(time.RFC3339),
			r.Result.Status, r.Result.EffectiveDemandMW, r.Result.TotalCost, anchor)
	}
	return tw.Flush()
}

func logQuery(now time.Time) (logging.LogQuery, error) {
	q := logging.LogQuery{Status: dispatch.Status(logsStatus)}
	switch q.Status {
	case "", dispatch.StatusOptimal, dispatch.StatusDegraded, dispatch.StatusInfeasible:
	default:
		return q, fmt.Errorf("unknown status %q", logsStatus)
	}
	if logsFuel != "" {
		q.Fuel = model.ParseFuelType(logsFuel)
	}
	if logsSince > 0 {
		q.Start = now.Add(-logsSince)
	}
	var err error
	if logsStart != "" {
		if q.Start, err = time.Parse(time.RFC3339, logsStart); err != nil {
			return q, fmt.Errorf("start: %w", err)
		}
	}
	if logsEnd != "" {
		if q.End, err = time.Parse(time.RFC3339, logsEnd); err != nil {
			return q, fmt.Errorf("end: %w", err)
		}
	}
	return q, nil
}
