package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gridmix/app"
	"github.com/kilianp07/gridmix/connectors/grid"
)

var (
	scenarioInput        string
	scenarioUtilizations []float64
	scenarioPrices       []float64
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Compare dispatches under alternative utilization factors and prices",
	RunE:  runScenario,
}

func init() {
	scenarioCmd.Flags().StringVar(&scenarioInput, "input", "", "observation file replacing the configured source")
	scenarioCmd.Flags().Float64SliceVar(&scenarioUtilizations, "utilization", nil, "utilization factors, e.g. 0.7,0.9")
	scenarioCmd.Flags().Float64SliceVar(&scenarioPrices, "price", nil, "market prices in $/MWh, e.g. 30,50")
	rootCmd.AddCommand(scenarioCmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	src := grid.Source(grid.NewFileSource(scenarioInput))
	if scenarioInput == "" {
		if src, err = grid.New(cfg.Source); err != nil {
			return fmt.Errorf("source: %w", err)
		}
	}
	obs, err := src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch observations: %w", err)
	}

	svc := app.New(cfg, app.Options{})
	defer func() { _ = svc.Close() }()
	outs, err := svc.Sweep(ctx, obs, app.Scenarios(scenarioUtilizations, scenarioPrices))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tSTATUS\tDEMAND MW\tCOST\t$/MWH\tRENEWABLE\tCO2 T/MWH")
	for _, o := range outs {
		m := o.Report
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%.2f\t%.2f\t%.1f%%\t%.3f\n",
			o.Scenario, m.Status, m.EffectiveDemandMW, m.TotalCost, m.AverageCostPerMWh, m.RenewablePct, m.CO2TonsPerMWh)
	}
	return tw.Flush()
}
