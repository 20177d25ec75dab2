// Package grid fetches market and grid observations for the dispatch engine.
// Sources only translate external payloads into model.Observations; they
// never dispatch.
package grid

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/gridmix/core/model"
)

// Source supplies the observations of one time slice.
type Source interface {
	Fetch(ctx context.Context) (model.Observations, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (model.Observations, error)

func (f SourceFunc) Fetch(ctx context.Context) (model.Observations, error) { return f(ctx) }

// Source types accepted in Config.Type.
const (
	TypeFile = "file"
	TypeHTTP = "http"
)

// Endpoint is one HTTP resource with its static headers and query parameters.
type Endpoint struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Params  map[string]string `json:"params"`
}

// FieldMap names the generation-summary columns read by HTTPSource.
type FieldMap struct {
	NonRenewable string `json:"non_renewable"`
	Renewable    string `json:"renewable"`
	Wind         string `json:"wind"`
	Timestamp    string `json:"timestamp"`
}

// Config selects and configures a Source.
type Config struct {
	Type       string        `json:"type"`
	Path       string        `json:"path"`
	Generation Endpoint      `json:"generation"`
	FuelMix    Endpoint      `json:"fuel_mix"`
	Price      Endpoint      `json:"price"`
	PriceField string        `json:"price_field"`
	Fields     FieldMap      `json:"fields"`
	Timeout    time.Duration `json:"timeout"`
}

// SetDefaults fills the generation-summary column names and timeouts.
func (c *Config) SetDefaults() {
	if c.Type == "" {
		c.Type = TypeFile
	}
	if c.Fields.NonRenewable == "" {
		c.Fields.NonRenewable = "sumBasePointNonWGR"
	}
	if c.Fields.Renewable == "" {
		c.Fields.Renewable = "sumBasePointRemRes"
	}
	if c.Fields.Wind == "" {
		c.Fields.Wind = "sumBasePointWGR"
	}
	if c.Fields.Timestamp == "" {
		c.Fields.Timestamp = "SCEDTimestamp"
	}
	if c.PriceField == "" {
		c.PriceField = "price"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}

// Validate checks that the selected type has what it needs.
func (c Config) Validate() error {
	switch c.Type {
	case TypeFile:
		if c.Path == "" {
			return fmt.Errorf("source.path is required for file sources")
		}
	case TypeHTTP:
		if c.Generation.URL == "" && c.FuelMix.URL == "" {
			return fmt.Errorf("source.generation.url or source.fuel_mix.url is required for http sources")
		}
	default:
		return fmt.Errorf("unknown source type %q", c.Type)
	}
	return nil
}

// New builds the Source described by cfg.
func New(cfg Config) (Source, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Type {
	case TypeHTTP:
		return NewHTTPSource(cfg), nil
	default:
		return NewFileSource(cfg.Path), nil
	}
}

func normalizeMix(in model.FuelMix) model.FuelMix {
	if len(in) == 0 {
		return nil
	}
	out := make(model.FuelMix, len(in))
	for f, mw := range in {
		out[model.ParseFuelType(string(f))] += mw
	}
	return out
}
