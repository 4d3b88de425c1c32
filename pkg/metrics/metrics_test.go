package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDocumentAction(t *testing.T) {
	before := testutil.ToFloat64(documentActions.WithLabelValues("Material Request", "submit"))
	DocumentAction("Material Request", "submit")
	DocumentAction("Material Request", "submit")
	after := testutil.ToFloat64(documentActions.WithLabelValues("Material Request", "submit"))

	assert.Equal(t, before+2, after)
}

func TestObserveHTTP(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("/api/v1/reports/stock-balance", "GET", "200"))
	ObserveHTTP("/api/v1/reports/stock-balance", "GET", 200, 120*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("/api/v1/reports/stock-balance", "GET", "200")))
}

func TestLedgerEntries(t *testing.T) {
	before := testutil.ToFloat64(ledgerEntries)
	LedgerEntries(3)
	assert.Equal(t, before+3, testutil.ToFloat64(ledgerEntries))
}
