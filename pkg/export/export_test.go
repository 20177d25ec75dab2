package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gridmix/core/dispatch"
	"github.com/kilianp07/gridmix/core/model"
	"github.com/kilianp07/gridmix/core/report"
)

func sampleMetrics() report.Metrics {
	util := 100.0
	half := 25.0
	return report.Metrics{
		Status:            dispatch.StatusOptimal,
		EffectiveDemandMW: 150,
		TotalCost:         2250,
		AverageCostPerMWh: 15,
		RenewablePct:      66.6666666,
		CO2TonsPerMWh:     0.41 / 3,
		Fuels: []report.FuelLine{
			{Fuel: model.FuelWind, AllocationMW: 100, CapacityMW: 100, CostPerMWh: 5, CostTotal: 500, UtilizationPct: &util, SharePct: 66.6666666, CapacitySharePct: 33.3333333},
			{Fuel: model.FuelNaturalGas, AllocationMW: 50, CapacityMW: 200, CostPerMWh: 35, CostTotal: 1750, UtilizationPct: &half, SharePct: 33.3333333, CapacitySharePct: 66.6666666},
			{Fuel: model.FuelSolar},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleMetrics()))
	var out report.Metrics
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 2250.0, out.TotalCost)
	require.Len(t, out.Fuels, 3)
	assert.Nil(t, out.Fuels[2].UtilizationPct)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleMetrics()))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "fuel", rows[0][0])
	assert.Equal(t, []string{"natural_gas", "50", "200", "35", "1750", "25", "33.333", "66.667"}, rows[2])
	assert.Equal(t, "N/A", rows[3][5])
}

func TestWriteTypeScript(t *testing.T) {
	var buf bytes.Buffer
	ts := time.Date(2025, 9, 11, 12, 0, 0, 0, time.UTC)
	require.NoError(t, WriteTypeScript(&buf, sampleMetrics(), TSOptions{Const: "lubbockData", GeneratedAt: ts}))
	out := buf.String()
	assert.Contains(t, out, "// Last updated: 2025-09-11T12:00:00Z")
	assert.Contains(t, out, "export const lubbockData = {")
	assert.Contains(t, out, "    naturalGas: 66.667,")
	assert.Contains(t, out, "    wind: 66.667,")
	assert.Contains(t, out, "totalDemand: 150,")
	assert.Contains(t, out, "renewablePercent: 66.667,")
	assert.Contains(t, out, "co2Intensity: 0.137,")
	assert.True(t, strings.HasSuffix(out, "} as const;\n"))
}

func TestCamel(t *testing.T) {
	assert.Equal(t, "naturalGas", camel("natural_gas"))
	assert.Equal(t, "batteryStorage", camel("battery_storage"))
	assert.Equal(t, "wind", camel("wind"))
	assert.Equal(t, "unknown", camel("__"))
	assert.Equal(t, "b2", camel("2b2"))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.json", "out.csv", "nested/out.ts", "chart.html"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, sampleMetrics(), TSOptions{}), name)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
	assert.Error(t, WriteFile(filepath.Join(dir, "out.xml"), sampleMetrics(), TSOptions{}))
	left, _ := filepath.Glob(filepath.Join(dir, ".export-*"))
	assert.Empty(t, left)
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, sampleMetrics(), TSOptions{GeneratedAt: time.Date(2025, 9, 11, 12, 0, 0, 0, time.UTC)}))
	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "natural_gas")
	assert.Contains(t, out, "Least-cost dispatch")
	assert.Contains(t, out, "2025-09-11T12:00:00Z")
}
