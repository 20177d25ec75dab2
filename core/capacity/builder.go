package capacity

import (
	"math"

	"github.com/kilianp07/gridmix/core/logger"
	"github.com/kilianp07/gridmix/core/model"
)

// Builder fuses a generation summary and a fuel-mix reading into a single
// CapacitySnapshot.
type Builder struct {
	cfg Config
	log logger.Logger
}

// NewBuilder returns a Builder applying the decomposition policy in cfg.
func NewBuilder(cfg Config, log logger.Logger) *Builder {
	return &Builder{cfg: cfg, log: logger.OrNop(log)}
}

// Build merges both observations. Either may be nil or empty; when both are,
// the returned snapshot is empty, meaning no dispatch is possible.
func (b *Builder) Build(primary *model.PrimaryObservation, secondary model.FuelMix) model.CapacitySnapshot {
	acc := make(model.CapacitySnapshot)
	if primary != nil {
		b.split(acc, "non_renewable", primary.NonRenewableMW, b.cfg.NonRenewableSplit)
		b.split(acc, "renewable", primary.RenewableMW, b.cfg.RenewableSplit)
		b.add(acc, model.FuelWind, primary.WindMW)
	}
	for _, f := range fuelsOf(secondary) {
		v := secondary[f]
		if !usable(v) {
			b.log.Debugf("capacity: omit %s reading %.3f", f, v)
			continue
		}
		if f == model.FuelOther {
			b.split(acc, "other", v, b.cfg.OtherAttribution)
			continue
		}
		scale, ok := b.cfg.SecondaryScale[f]
		if !ok {
			scale = 1
		}
		b.add(acc, f, v*scale)
	}
	for f, v := range acc {
		if !usable(v) {
			delete(acc, f)
		}
	}
	return acc
}

func (b *Builder) split(acc model.CapacitySnapshot, name string, total float64, ratios map[model.FuelType]float64) {
	if !usable(total) {
		if total != 0 {
			b.log.Debugf("capacity: omit %s aggregate %.3f", name, total)
		}
		return
	}
	for _, f := range fuelsOf(ratios) {
		b.add(acc, f, total*ratios[f])
	}
}

func (b *Builder) add(acc model.CapacitySnapshot, f model.FuelType, mw float64) {
	if !usable(mw) {
		return
	}
	acc[f] += mw
}

func usable(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func fuelsOf(m map[model.FuelType]float64) []model.FuelType {
	out := make([]model.FuelType, 0, len(m))
	for f := range m {
		out = append(out, f)
	}
	return model.SortFuels(out)
}
