package engineobs_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/go-adblock/urlfilter-engine/engineobs"
)

func TestNewMetrics_registersAndRecords(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := engineobs.NewMetrics(reg)
	require.NoError(t, err)

	m.ObserveMatch(true)
	m.ObserveMatch(false)
	m.ObserveCacheLookup(true)
	m.SetRulesLoaded("sample", "blocking", 42)
	m.ObserveKeywordBucketSize(7)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	var sawRulesLoaded bool
	for _, fam := range families {
		if fam.GetName() == "urlfilter_engine_rules_loaded" {
			sawRulesLoaded = true

			require.Len(t, fam.Metric, 1)
			assertGaugeValue(t, fam.Metric[0], 42)
		}
	}
	require.True(t, sawRulesLoaded)
}

func assertGaugeValue(t *testing.T, metric *dto.Metric, want float64) {
	t.Helper()

	require.NotNil(t, metric.Gauge)
	require.InDelta(t, want, metric.Gauge.GetValue(), 0.0001)
}
