package export

import (
	"io"
	"strings"
	"text/template"
	"time"
	"unicode"

	"github.com/kilianp07/gridmix/core/report"
)

// TSOptions configures the TypeScript artifact.
type TSOptions struct {
	// Const is the exported identifier, "gridMixData" by default.
	Const       string
	GeneratedAt time.Time
}

type tsEntry struct {
	Key   string
	Value string
}

type tsData struct {
	Const        string
	Generated    string
	Status       string
	Current      []tsEntry
	Optimized    []tsEntry
	TotalDemand  string
	Renewable    string
	CO2Intensity string
	TotalCost    string
	AverageCost  string
	Degraded     bool
}

var tsTemplate = template.Must(template.New("ts").Parse(`// Generated by gridmix. Do not edit.
// Last updated: {{.Generated}}

export const {{.Const}} = {
  status: "{{.Status}}",
  degraded: {{.Degraded}},
  // Share of available capacity per fuel, in percent
  currentEnergy: {
{{- range .Current}}
    {{.Key}}: {{.Value}},
{{- end}}
  },
  // Share of the least-cost dispatch per fuel, in percent
  optimizedEnergy: {
{{- range .Optimized}}
    {{.Key}}: {{.Value}},
{{- end}}
  },
  totalDemand: {{.TotalDemand}},
  renewablePercent: {{.Renewable}},
  co2Intensity: {{.CO2Intensity}},
  totalCost: {{.TotalCost}},
  averageCostPerMWh: {{.AverageCost}},
} as const;
`))

// WriteTypeScript writes the front-end data module: current vs optimized
// mix, total demand, renewable share and CO2 intensity.
func WriteTypeScript(w io.Writer, m report.Metrics, opts TSOptions) error {
	if opts.Const == "" {
		opts.Const = "gridMixData"
	}
	d := tsData{
		Const:        opts.Const,
		Generated:    stamp(opts.GeneratedAt),
		Status:       string(m.Status),
		Degraded:     m.Degraded,
		TotalDemand:  formatFloat(m.EffectiveDemandMW),
		Renewable:    formatFloat(m.RenewablePct),
		CO2Intensity: formatFloat(m.CO2TonsPerMWh),
		TotalCost:    formatFloat(m.TotalCost),
		AverageCost:  formatFloat(m.AverageCostPerMWh),
	}
	for _, l := range m.Fuels {
		key := camel(l.Fuel.String())
		d.Current = append(d.Current, tsEntry{Key: key, Value: formatFloat(l.CapacitySharePct)})
		d.Optimized = append(d.Optimized, tsEntry{Key: key, Value: formatFloat(l.SharePct)})
	}
	return tsTemplate.Execute(w, d)
}

// camel turns natural_gas into naturalGas. Characters that are not valid in
// an identifier are dropped.
func camel(s string) string {
	var b strings.Builder
	upper := false
	for i, r := range s {
		switch {
		case r == '_' || r == '-' || r == ' ':
			upper = b.Len() > 0
		case unicode.IsLetter(r) || (unicode.IsDigit(r) && b.Len() > 0):
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			} else if i == 0 {
				r = unicode.ToLower(r)
			}
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}
