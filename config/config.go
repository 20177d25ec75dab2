package config

import (
	stdjson "encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/gridmix/connectors/grid"
	"github.com/kilianp07/gridmix/core/capacity"
	"github.com/kilianp07/gridmix/core/cost"
	"github.com/kilianp07/gridmix/core/demand"
	"github.com/kilianp07/gridmix/core/dispatch"
	"github.com/kilianp07/gridmix/core/metrics"
	"github.com/kilianp07/gridmix/core/report"
	"github.com/kilianp07/gridmix/infra/monitoring"
)

// EnvPrefix marks environment overrides. GM_COST__INFRASTRUCTURE__COAL=12
// sets cost.infrastructure.coal.
const EnvPrefix = "GM_"

type Config struct {
	Capacity capacity.Config   `json:"capacity"`
	Cost     cost.Config       `json:"cost"`
	Demand   demand.Config     `json:"demand"`
	Dispatch dispatch.Config   `json:"dispatch"`
	Report   report.Config     `json:"report"`
	Metrics  metrics.Config    `json:"metrics"`
	Logging  LoggingConfig     `json:"logging"`
	Source   grid.Config       `json:"source"`
	Export   ExportConfig      `json:"export"`
	Serve    ServeConfig       `json:"serve"`
	Sentry   monitoring.Config `json:"sentry"`
}

// ExportConfig selects the artifact written after each dispatch. The format
// follows the extension of Path; an empty Path disables the export.
type ExportConfig struct {
	Path  string `json:"path"`
	Const string `json:"const"`
}

// ServeConfig holds the polling loop settings.
type ServeConfig struct {
	Interval  time.Duration `json:"interval"`
	BusBuffer int           `json:"bus_buffer"`
}

// policyTables are replaced as a whole when the file sets them. Environment
// overrides still merge per entry.
var policyTables = []string{
	"capacity.non_renewable_split",
	"capacity.renewable_split",
	"capacity.secondary_scale",
	"capacity.other_attribution",
	"cost.default_operational",
	"cost.market_multipliers",
	"cost.infrastructure",
	"report.emission_factors",
}

// Load layers Default, the file at path and GM_ environment overrides, in
// that order. A policy table set in the file replaces the default table;
// every other key merges. An empty path loads the defaults and the
// environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	defaults, err := defaultsMap()
	if err != nil {
		return nil, err
	}
	if err := k.Load(confmap.Provider(defaults, ""), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		fk := koanf.New(".")
		if err := fk.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		for _, table := range policyTables {
			if fk.Exists(table) {
				k.Delete(table)
			}
		}
		if err := k.Merge(fk); err != nil {
			return nil, fmt.Errorf("merge %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// defaultsMap renders Default as the nested map koanf merges into.
func defaultsMap() (map[string]any, error) {
	b, err := stdjson.Marshal(Default())
	if err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}
	return json.Parser().Unmarshal(b)
}

// SetDefaults copies every empty table and zero setting from Default, for
// configurations assembled in code. Load already layers Default underneath.
func (c *Config) SetDefaults() {
	d := Default()
	fillTable(&c.Capacity.NonRenewableSplit, d.Capacity.NonRenewableSplit)
	fillTable(&c.Capacity.RenewableSplit, d.Capacity.RenewableSplit)
	fillTable(&c.Capacity.SecondaryScale, d.Capacity.SecondaryScale)
	fillTable(&c.Capacity.OtherAttribution, d.Capacity.OtherAttribution)
	fillTable(&c.Cost.DefaultOperational, d.Cost.DefaultOperational)
	fillTable(&c.Cost.MarketMultipliers, d.Cost.MarketMultipliers)
	fillTable(&c.Cost.Infrastructure, d.Cost.Infrastructure)
	fillTable(&c.Report.EmissionFactors, d.Report.EmissionFactors)
	if c.Demand.UtilizationFactor == 0 {
		c.Demand.UtilizationFactor = d.Demand.UtilizationFactor
	}
	if len(c.Dispatch.TieBreakOrder) == 0 {
		c.Dispatch.TieBreakOrder = d.Dispatch.TieBreakOrder
	}
	if c.Dispatch.DegradedFraction == 0 {
		c.Dispatch.DegradedFraction = d.Dispatch.DegradedFraction
	}
	if c.Dispatch.Tolerance == 0 {
		c.Dispatch.Tolerance = d.Dispatch.Tolerance
	}
	if len(c.Report.Groups) == 0 {
		c.Report.Groups = d.Report.Groups
	}
	if c.Report.RenewableGroup == "" {
		c.Report.RenewableGroup = d.Report.RenewableGroup
	}
	if c.Serve.Interval <= 0 {
		c.Serve.Interval = d.Serve.Interval
	}
	if c.Serve.BusBuffer <= 0 {
		c.Serve.BusBuffer = d.Serve.BusBuffer
	}
	c.Logging.SetDefaults()
	c.Source.SetDefaults()
}

// Validate reports every invalid section at once. The source section is
// checked by grid.New since an --input file may replace it.
func (c Config) Validate() error {
	var result *multierror.Error
	for _, v := range []interface{ Validate() error }{
		c.Capacity, c.Cost, c.Demand, c.Dispatch, c.Report, c.Logging,
	} {
		if err := v.Validate(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func fillTable[K comparable, V any](dst *map[K]V, def map[K]V) {
	if len(*dst) > 0 {
		return
	}
	m := make(map[K]V, len(def))
	for k, v := range def {
		m[k] = v
	}
	*dst = m
}
