package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gridmix/app"
	"github.com/kilianp07/gridmix/config"
	"github.com/kilianp07/gridmix/core/monitoring"
	"github.com/kilianp07/gridmix/infra/logger"
	"github.com/kilianp07/gridmix/infra/metrics"
	"github.com/kilianp07/gridmix/pkg/export"
)

var (
	serveInterval time.Duration
	servePromAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Poll the source and dispatch each new slice",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().DurationVar(&serveInterval, "interval", 0, "polling interval (overrides serve.interval)")
	serveCmd.Flags().StringVar(&servePromAddr, "prom-addr", "", "address serving /metrics (overrides metrics.prometheus_addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveInterval > 0 {
		cfg.Serve.Interval = serveInterval
	}
	if servePromAddr != "" {
		cfg.Metrics.PrometheusAddr = servePromAddr
	}
	log := logger.New("main")

	svc, err := app.FromConfig(cfg)
	if err != nil {
		return err
	}
	var exported chan struct{}
	if cfg.Export.Path != "" {
		sub := svc.Subscribe()
		exported = make(chan struct{})
		go func() {
			defer close(exported)
			exportOutcomes(sub, cfg.Export, log)
		}()
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Errorf("service close: %v", err)
		}
		if exported != nil {
			<-exported
		}
	}()

	if addr := cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				log.Errorf("prom server: %v", err)
			}
		}()
	}
	log.Infof("polling every %s", cfg.Serve.Interval)
	return svc.Run(ctx, cfg.Serve.Interval)
}

// exportOutcomes rewrites the artifact for every outcome received on sub
// until the channel is closed.
func exportOutcomes(sub <-chan app.Outcome, exp config.ExportConfig, log logger.Logger) {
	for out := range sub {
		if err := writeArtifact(exp, out); err != nil {
			log.Errorf("export run %s: %v", out.RunID, err)
			monitoring.Capture("export", err)
		}
	}
}

func writeArtifact(exp config.ExportConfig, out app.Outcome) error {
	return export.WriteFile(exp.Path, out.Report, export.TSOptions{Const: exp.Const, GeneratedAt: out.Timestamp})
}
