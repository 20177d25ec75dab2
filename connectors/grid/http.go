package grid

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/gridmix/core/model"
	"github.com/kilianp07/gridmix/infra/logger"
)

// HTTPSource reads a generation summary in the public-report shape
// ({"fields":[{"name":..}], "data":[[..]]}), an optional hourly fuel-type
// series ({"response":{"data":[{"period","fueltype","value"}]}}) and an
// optional price document. Failures of the optional endpoints are logged
// and leave the matching observation empty.
type HTTPSource struct {
	cfg    Config
	client *http.Client
	log    logger.Logger
}

// NewHTTPSource builds an HTTPSource. cfg should have defaults applied.
func NewHTTPSource(cfg Config) *HTTPSource {
	return &HTTPSource{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    logger.New("grid-source"),
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) (model.Observations, error) {
	var obs model.Observations
	if s.cfg.Generation.URL != "" {
		body, err := s.get(ctx, s.cfg.Generation)
		if err != nil {
			return model.Observations{}, fmt.Errorf("generation summary: %w", err)
		}
		primary, ts, err := ParseGenerationSummary(body, s.cfg.Fields)
		if err != nil {
			return model.Observations{}, err
		}
		obs.Primary = primary
		obs.Timestamp = ts
	}
	if s.cfg.FuelMix.URL != "" {
		body, err := s.get(ctx, s.cfg.FuelMix)
		if err == nil {
			var ts time.Time
			obs.Secondary, ts, err = ParseFuelTypeSeries(body)
			if obs.Timestamp.IsZero() {
				obs.Timestamp = ts
			}
		}
		if err != nil {
			s.log.Warnf("fuel mix unavailable: %v", err)
		}
	}
	if s.cfg.Price.URL != "" {
		body, err := s.get(ctx, s.cfg.Price)
		if err == nil {
			obs.MarketPrice, err = ParsePrice(body, s.cfg.PriceField)
		}
		if err != nil {
			s.log.Warnf("market price unavailable: %v", err)
		}
	}
	if obs.Timestamp.IsZero() {
		obs.Timestamp = time.Now().UTC()
	}
	return obs, nil
}

func (s *HTTPSource) get(ctx context.Context, ep Endpoint) ([]byte, error) {
	u, err := url.Parse(ep.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if len(ep.Params) > 0 {
		q := u.Query()
		for k, v := range ep.Params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range ep.Headers {
		req.Header.Set(k, v)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, truncate(body, 256))
	}
	return body, nil
}

type summaryDoc struct {
	Fields []struct {
		Name string `json:"name"`
	} `json:"fields"`
	Data [][]any `json:"data"`
}

// ParseGenerationSummary reads the row with the latest timestamp (or the
// last row when no timestamp column exists) and maps the configured columns.
// Missing aggregate columns read as zero.
func ParseGenerationSummary(body []byte, fields FieldMap) (*model.PrimaryObservation, time.Time, error) {
	var doc summaryDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode generation summary: %w", err)
	}
	if len(doc.Data) == 0 {
		return nil, time.Time{}, nil
	}
	col := make(map[string]int, len(doc.Fields))
	for i, f := range doc.Fields {
		col[f.Name] = i
	}
	if _, ok := col[fields.NonRenewable]; !ok {
		if _, ok := col[fields.Renewable]; !ok {
			return nil, time.Time{}, fmt.Errorf("generation summary has neither %s nor %s", fields.NonRenewable, fields.Renewable)
		}
	}

	row := doc.Data[len(doc.Data)-1]
	var ts time.Time
	if i, ok := col[fields.Timestamp]; ok {
		for _, r := range doc.Data {
			t, ok := timeAt(r, i)
			if ok && !t.Before(ts) {
				ts, row = t, r
			}
		}
	}
	p := &model.PrimaryObservation{
		NonRenewableMW: numberAt(row, col, fields.NonRenewable),
		RenewableMW:    numberAt(row, col, fields.Renewable),
		WindMW:         numberAt(row, col, fields.Wind),
	}
	return p, ts, nil
}

// timestamp layouts seen in public reports
var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15", "2006-01-02 15:04:05"}

func parseTime(s string) (time.Time, bool) {
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func timeAt(row []any, i int) (time.Time, bool) {
	if i >= len(row) {
		return time.Time{}, false
	}
	s, ok := row[i].(string)
	if !ok {
		return time.Time{}, false
	}
	return parseTime(s)
}

func numberAt(row []any, col map[string]int, name string) float64 {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return 0
	}
	v, _ := toFloat(row[i])
	return v
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// eiaFuelCodes maps hourly fuel-type codes to fuel types.
var eiaFuelCodes = map[string]model.FuelType{
	"NUC": model.FuelNuclear,
	"WAT": model.FuelHydro,
	"BAT": model.FuelBatteryStorage,
	"OTH": model.FuelOther,
	"NG":  model.FuelNaturalGas,
	"COL": model.FuelCoal,
	"SUN": model.FuelSolar,
	"WND": model.FuelWind,
	"OIL": model.FuelPetroleum,
}

// ParseFuelTypeSeries returns the readings of the latest period. Unknown
// codes are normalized with model.ParseFuelType.
func ParseFuelTypeSeries(body []byte) (model.FuelMix, time.Time, error) {
	var doc struct {
		Response struct {
			Data []struct {
				Period   string `json:"period"`
				FuelType string `json:"fueltype"`
				Value    any    `json:"value"`
			} `json:"data"`
		} `json:"response"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode fuel mix: %w", err)
	}
	latest := ""
	for _, d := range doc.Response.Data {
		if d.Period > latest {
			latest = d.Period
		}
	}
	mix := model.FuelMix{}
	for _, d := range doc.Response.Data {
		if d.Period != latest {
			continue
		}
		v, ok := toFloat(d.Value)
		if !ok {
			continue
		}
		fuel, known := eiaFuelCodes[strings.ToUpper(d.FuelType)]
		if !known {
			fuel = model.ParseFuelType(d.FuelType)
		}
		mix[fuel] += v
	}
	ts, _ := parseTime(latest)
	if len(mix) == 0 {
		return nil, ts, nil
	}
	return mix, ts, nil
}

// ParsePrice reads a numeric field from a flat JSON object.
func ParsePrice(body []byte, field string) (*float64, error) {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode price: %w", err)
	}
	raw, ok := doc[field]
	if !ok || raw == nil {
		return nil, nil
	}
	v, ok := toFloat(raw)
	if !ok {
		return nil, fmt.Errorf("price field %s is not numeric", field)
	}
	return &v, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
