// Package export writes dispatch reports for downstream consumers.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/gridmix/core/report"
)

// WriteJSON writes the report metrics to w in JSON format.
func WriteJSON(w io.Writer, m report.Metrics) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// WriteCSV writes one row per fuel in merit order. Utilization is "N/A"
// for fuels without capacity.
func WriteCSV(w io.Writer, m report.Metrics) error {
	cw := csv.NewWriter(w)
	header := []string{"fuel", "allocation_mw", "capacity_mw", "cost_per_mwh", "cost_total", "utilization_pct", "share_pct", "capacity_share_pct"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, l := range m.Fuels {
		util := "N/A"
		if l.UtilizationPct != nil {
			util = formatFloat(*l.UtilizationPct)
		}
		rec := []string{
			l.Fuel.String(),
			formatFloat(l.AllocationMW),
			formatFloat(l.CapacityMW),
			formatFloat(l.CostPerMWh),
			formatFloat(l.CostTotal),
			util,
			formatFloat(l.SharePct),
			formatFloat(l.CapacitySharePct),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes m to path in the format named by its extension (.json,
// .csv, .ts, .html). The file is replaced atomically.
func WriteFile(path string, m report.Metrics, ts TSOptions) error {
	var write func(io.Writer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		write = func(w io.Writer) error { return WriteJSON(w, m) }
	case ".csv":
		write = func(w io.Writer) error { return WriteCSV(w, m) }
	case ".ts":
		write = func(w io.Writer) error { return WriteTypeScript(w, m, ts) }
	case ".html":
		write = func(w io.Writer) error { return WriteHTML(w, m, ts) }
	default:
		return fmt.Errorf("unsupported export format: %s", filepath.Ext(path))
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(round3(f), 'f', -1, 64)
}

func round3(f float64) float64 { return math.Round(f*1000) / 1000 }

func stamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339)
}
