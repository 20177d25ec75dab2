package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gridmix/connectors/grid"
)

var (
	mockAddr  string
	mockInput string
)

var mockSourceCmd = &cobra.Command{
	Use:   "mock-source",
	Short: "Serve an observation file as a market data API",
	RunE:  runMockSource,
}

func init() {
	mockSourceCmd.Flags().StringVar(&mockAddr, "addr", ":8081", "listen address")
	mockSourceCmd.Flags().StringVar(&mockInput, "input", "", "observation file (json or yaml), re-read on every request")
	_ = mockSourceCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(mockSourceCmd)
}

func runMockSource(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	srv := grid.NewMockServer(mockAddr, grid.NewFileSource(mockInput), cfg.Source, nil)
	fmt.Fprintf(cmd.OutOrStdout(), "endpoints: %s %s %s\n", grid.MockGenerationPath, grid.MockFuelMixPath, grid.MockPricePath)
	return srv.Start(ctx)
}
