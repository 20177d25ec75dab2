package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gridmix/config"
	coremon "github.com/kilianp07/gridmix/core/monitoring"
	"github.com/kilianp07/gridmix/infra/logger"
	inframon "github.com/kilianp07/gridmix/infra/monitoring"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "gridmix",
	Short:        "Economic dispatch of a regional generation mix",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (defaults only when empty)")
}

// Execute runs the CLI.
func Execute() error {
	defer coremon.Flush(2 * time.Second)
	return rootCmd.Execute()
}

// loadConfig reads the configuration and installs the error monitor.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	mon, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		logger.New("main").Warnf("sentry disabled: %v", err)
		mon = coremon.NopMonitor{}
	}
	coremon.Init(mon)
	return cfg, nil
}
