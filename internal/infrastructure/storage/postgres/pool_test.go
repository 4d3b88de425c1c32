package postgres

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCmpOr(t *testing.T) {
	assert.Equal(t, int32(10), cmpOr(int32(0), 10))
	assert.Equal(t, int32(4), cmpOr(int32(4), 10))
	assert.Equal(t, time.Hour, cmpOr(time.Duration(0), time.Hour))
	assert.Equal(t, "rms", cmpOr("", "rms"))
}

func TestRegisterMetrics_Twice(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := &Pool{}

	require.NoError(t, p.RegisterMetrics(reg))
	require.NoError(t, p.RegisterMetrics(reg))
}
