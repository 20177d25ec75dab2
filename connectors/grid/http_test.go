package grid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gridmix/core/model"
)

const summaryBody = `{
  "fields": [{"name":"SCEDTimestamp"},{"name":"sumBasePointNonWGR"},{"name":"sumBasePointWGR"},{"name":"sumBasePointRemRes"}],
  "data": [
    ["2025-09-11T10:00:00", 900, 250, "200"],
    ["2025-09-11T12:00:00", 1000, 300, 120.5],
    ["2025-09-11T11:00:00", 950, 280, 180]
  ]
}`

const fuelMixBody = `{"response":{"data":[
  {"period":"2025-09-11T11","fueltype":"NUC","value":480},
  {"period":"2025-09-11T12","fueltype":"NUC","value":500},
  {"period":"2025-09-11T12","fueltype":"WAT","value":"40"},
  {"period":"2025-09-11T12","fueltype":"OTH","value":60},
  {"period":"2025-09-11T12","fueltype":"geothermal","value":7},
  {"period":"2025-09-11T12","fueltype":"BAT","value":null}
]}}`

func TestParseGenerationSummary_LatestRow(t *testing.T) {
	cfg := Config{}
	cfg.SetDefaults()
	p, ts, err := ParseGenerationSummary([]byte(summaryBody), cfg.Fields)
	require.NoError(t, err)
	assert.Equal(t, &model.PrimaryObservation{NonRenewableMW: 1000, RenewableMW: 120.5, WindMW: 300}, p)
	assert.Equal(t, time.Date(2025, 9, 11, 12, 0, 0, 0, time.UTC), ts)
}

func TestParseGenerationSummary_Errors(t *testing.T) {
	cfg := Config{}
	cfg.SetDefaults()
	_, _, err := ParseGenerationSummary([]byte(`{`), cfg.Fields)
	assert.Error(t, err)
	_, _, err = ParseGenerationSummary([]byte(`{"fields":[{"name":"x"}],"data":[[1]]}`), cfg.Fields)
	assert.Error(t, err)

	p, _, err := ParseGenerationSummary([]byte(`{"fields":[],"data":[]}`), cfg.Fields)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestParseFuelTypeSeries(t *testing.T) {
	mix, ts, err := ParseFuelTypeSeries([]byte(fuelMixBody))
	require.NoError(t, err)
	assert.Equal(t, model.FuelMix{
		model.FuelNuclear: 500,
		model.FuelHydro:   40,
		model.FuelOther:   60,
		"geothermal":      7,
	}, mix)
	assert.Equal(t, 12, ts.Hour())
}

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice([]byte(`{"price": 42.5}`), "price")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 42.5, *p)

	p, err = ParsePrice([]byte(`{"other": 1}`), "price")
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = ParsePrice([]byte(`{"price": true}`), "price")
	assert.Error(t, err)
}

func TestHTTPSource_Fetch(t *testing.T) {
	var gotHeader, gotSize string
	mux := http.NewServeMux()
	mux.HandleFunc("/gen", func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Report-Key")
		gotSize = r.URL.Query().Get("size")
		_, _ = w.Write([]byte(summaryBody))
	})
	mux.HandleFunc("/mix", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(fuelMixBody)) })
	mux.HandleFunc("/price", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	src, err := New(Config{
		Type:       TypeHTTP,
		Generation: Endpoint{URL: srv.URL + "/gen", Headers: map[string]string{"X-Report-Key": "k"}, Params: map[string]string{"size": "100"}},
		FuelMix:    Endpoint{URL: srv.URL + "/mix"},
		Price:      Endpoint{URL: srv.URL + "/price"},
	})
	require.NoError(t, err)
	obs, err := src.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "k", gotHeader)
	assert.Equal(t, "100", gotSize)
	require.NotNil(t, obs.Primary)
	assert.Equal(t, 1000.0, obs.Primary.NonRenewableMW)
	assert.Equal(t, 500.0, obs.Secondary[model.FuelNuclear])
	assert.Nil(t, obs.MarketPrice, "failed price endpoint leaves the price empty")
	assert.Equal(t, 12, obs.Timestamp.Hour())
}

func TestHTTPSource_GenerationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()
	src, err := New(Config{Type: TypeHTTP, Generation: Endpoint{URL: srv.URL}})
	require.NoError(t, err)
	_, err = src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestConfig_Validate(t *testing.T) {
	_, err := New(Config{Type: TypeFile})
	assert.Error(t, err)
	_, err = New(Config{Type: TypeHTTP})
	assert.Error(t, err)
	_, err = New(Config{Type: "soap"})
	assert.Error(t, err)
}
