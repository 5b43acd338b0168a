package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Attempt("cast")
	m.Attempt("window")
	m.Failure("cast")
	m.Established("window")
	m.Posted()
	m.Posted()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.NegotiationAttempts.WithLabelValues("cast")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NegotiationAttempts.WithLabelValues("window")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NegotiationFailures.WithLabelValues("cast")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsEstablished.WithLabelValues("window")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveSessions))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MessagesPosted))

	m.Dropped()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveSessions))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.Attempt("cast")
	m.Failure("cast")
	m.Established("window")
	m.Dropped()
	m.Posted()
}
