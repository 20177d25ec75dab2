package cost

import (
	"math"

	"github.com/kilianp07/gridmix/core/logger"
	"github.com/kilianp07/gridmix/core/model"
)

// Model is the outcome of a cost build: the snapshot plus the audit trail
// explaining how it was derived.
type Model struct {
	Costs model.CostSnapshot `json:"costs"`
	// Anchored is true when operational costs derive from AnchorPrice.
	Anchored    bool    `json:"anchored"`
	AnchorPrice float64 `json:"anchor_price,omitempty"`
	// Omitted lists fuels known to some table but left out of Costs.
	Omitted []model.FuelType `json:"omitted,omitempty"`
	// MissingInfrastructure lists priced fuels without an infrastructure
	// entry; their infrastructure component is zero.
	MissingInfrastructure []model.FuelType `json:"missing_infrastructure,omitempty"`
}

// Builder produces per-fuel total costs from the static tables.
type Builder struct {
	cfg Config
	log logger.Logger
}

// NewBuilder returns a Builder over the tables in cfg.
func NewBuilder(cfg Config, log logger.Logger) *Builder {
	return &Builder{cfg: cfg, log: logger.OrNop(log)}
}

// Build derives the cost snapshot. A positive marketPrice anchors the
// operational component through the multiplier table; otherwise the default
// operational table is used.
func (b *Builder) Build(marketPrice *float64) Model {
	m := Model{Costs: make(model.CostSnapshot)}
	operational := b.cfg.DefaultOperational
	if marketPrice != nil && *marketPrice > 0 && !math.IsInf(*marketPrice, 0) {
		m.Anchored = true
		m.AnchorPrice = *marketPrice
		operational = make(map[model.FuelType]float64, len(b.cfg.MarketMultipliers))
		for f, mult := range b.cfg.MarketMultipliers {
			operational[f] = *marketPrice * mult
		}
		b.log.Infof("cost: operational costs anchored to market price %.2f/MWh", m.AnchorPrice)
	} else if marketPrice != nil {
		b.log.Warnf("cost: ignoring unusable market price %v, using default table", *marketPrice)
	}

	for _, f := range sortedKeys(operational) {
		infra, ok := b.cfg.Infrastructure[f]
		if !ok {
			b.log.Warnf("cost: no infrastructure cost for %s, using 0", f)
			m.MissingInfrastructure = append(m.MissingInfrastructure, f)
		}
		total := operational[f] + infra
		if total < 0 || math.IsNaN(total) || math.IsInf(total, 0) {
			b.log.Warnf("cost: dropping %s with invalid total %v", f, total)
			m.Omitted = append(m.Omitted, f)
			continue
		}
		m.Costs[f] = total
	}

	for _, f := range b.knownFuels() {
		if _, ok := operational[f]; ok {
			continue
		}
		b.log.Warnf("cost: %s has no operational cost in the active table and is not priced", f)
		m.Omitted = append(m.Omitted, f)
	}
	model.SortFuels(m.Omitted)
	return m
}

// knownFuels lists every fuel named by any table, sorted.
func (b *Builder) knownFuels() []model.FuelType {
	seen := make(map[model.FuelType]float64)
	for _, tbl := range []map[model.FuelType]float64{b.cfg.DefaultOperational, b.cfg.MarketMultipliers, b.cfg.Infrastructure} {
		for f := range tbl {
			seen[f] = 0
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(m map[model.FuelType]float64) []model.FuelType {
	out := make([]model.FuelType, 0, len(m))
	for f := range m {
		out = append(out, f)
	}
	return model.SortFuels(out)
}
