package model

import "time"

// PrimaryObservation is the generation-summary reading of a region. Only
// aggregates are reported; the capacity builder decomposes them.
type PrimaryObservation struct {
	NonRenewableMW float64 `json:"non_renewable_mw" yaml:"non_renewable_mw"`
	RenewableMW    float64 `json:"renewable_mw" yaml:"renewable_mw"`
	// WindMW is reported separately by some summaries and is taken verbatim.
	WindMW float64 `json:"wind_mw,omitempty" yaml:"wind_mw,omitempty"`
}

// FuelMix holds named per-technology readings in megawatts. The FuelOther
// key is the undifferentiated bucket.
type FuelMix map[FuelType]float64

// Observations bundles the inputs fetched from a market or grid data source
// for a single time slice.
type Observations struct {
	Timestamp   time.Time           `json:"timestamp" yaml:"timestamp"`
	Primary     *PrimaryObservation `json:"primary,omitempty" yaml:"primary,omitempty"`
	Secondary   FuelMix             `json:"secondary,omitempty" yaml:"secondary,omitempty"`
	MarketPrice *float64            `json:"market_price,omitempty" yaml:"market_price,omitempty"`
}

// Empty reports whether no capacity reading is present.
func (o Observations) Empty() bool {
	return o.Primary == nil && len(o.Secondary) == 0
}
