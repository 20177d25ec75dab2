package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gridmix/app"
	"github.com/kilianp07/gridmix/connectors/grid"
	"github.com/kilianp07/gridmix/core/report"
	"github.com/kilianp07/gridmix/infra/logger"
	"github.com/kilianp07/gridmix/pkg/export"
)

var (
	solveInput  string
	solveExport string
	solveJSON   bool
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Dispatch one observation slice and print the report",
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().StringVar(&solveInput, "input", "", "observation file (json or yaml) replacing the configured source")
	solveCmd.Flags().StringVar(&solveExport, "export", "", "export artifact path (.json, .csv or .ts)")
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if solveInput != "" {
		cfg.Source = grid.Config{Type: grid.TypeFile, Path: solveInput}
	}
	if solveExport != "" {
		cfg.Export.Path = solveExport
	}
	svc, err := app.FromConfig(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	out, err := svc.RunOnce(ctx)
	if err != nil && out.Result.Status == "" {
		return err
	}
	if err != nil {
		logger.New("main").Warnf("recording run: %v", err)
	}
	if solveJSON {
		err = export.WriteJSON(cmd.OutOrStdout(), out.Report)
	} else {
		err = printReport(cmd.OutOrStdout(), out.Report)
	}
	if err != nil {
		return err
	}
	if cfg.Export.Path != "" {
		if err := writeArtifact(cfg.Export, out); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	return nil
}

func printReport(w io.Writer, m report.Metrics) error {
	fmt.Fprintf(w, "status: %s", m.Status)
	if m.Reason != "" {
		fmt.Fprintf(w, " (%s)", m.Reason)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "demand: %.1f MW requested, %.1f MW dispatched of %.1f MW available\n",
		m.RequestedDemandMW, m.AllocatedMW, m.CapacityMW)
	fmt.Fprintf(w, "cost: %.2f total, %.2f per MWh\n", m.TotalCost, m.AverageCostPerMWh)
	fmt.Fprintf(w, "renewable: %.1f%%  co2: %.3f t/MWh\n\n", m.RenewablePct, m.CO2TonsPerMWh)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FUEL\tMW\tCAPACITY\t$/MWH\tCOST\tUTIL\tSHARE")
	for _, l := range m.Fuels {
		util := "N/A"
		if l.UtilizationPct != nil {
			util = fmt.Sprintf("%.1f%%", *l.UtilizationPct)
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.2f\t%.2f\t%s\t%.1f%%\n",
			l.Fuel, l.AllocationMW, l.CapacityMW, l.CostPerMWh, l.CostTotal, util, l.SharePct)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(m.Groups) > 0 {
		fmt.Fprintln(w)
		for _, g := range m.Groups {
			fmt.Fprintf(w, "%s: %.1f MW (%.1f%%)\n", g.Name, g.AllocationMW, g.SharePct)
		}
	}
	return nil
}
