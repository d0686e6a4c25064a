package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)

	m.InvalidFields.WithLabelValues("lat").Inc()
	m.UnitPassThrough.WithLabelValues("speed").Add(2)
	m.MessagesConsumed.Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "navfield_etl_invalid_fields_total")
	assert.Contains(t, names, "navfield_etl_unit_passthrough_total")
	assert.Contains(t, names, "navfield_etl_messages_consumed_total")

	assert.InDelta(t, 1, testutil.ToFloat64(m.InvalidFields.WithLabelValues("lat")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.UnitPassThrough.WithLabelValues("speed")), 0)
}

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.TransformErrors.Inc()
	assert.InDelta(t, 1, testutil.ToFloat64(a.TransformErrors), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.TransformErrors), 0)
}
