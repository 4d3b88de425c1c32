package postgres

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	oldState := map[string]any{"status": "Pending", "per_ordered": 0, "title": "ITM-1"}
	newState := map[string]any{"status": "Stopped", "per_ordered": 0, "comment": "hold"}

	changes := Diff(oldState, newState)

	assert.Len(t, changes, 3)
	assert.Equal(t, map[string]any{"old": "Pending", "new": "Stopped"}, changes["status"])
	assert.Equal(t, map[string]any{"old": nil, "new": "hold"}, changes["comment"])
	assert.Equal(t, map[string]any{"old": "ITM-1", "new": nil}, changes["title"])
}

func TestAuditService_CompressRoundTrip(t *testing.T) {
	svc, err := NewAuditService(nil)
	require.NoError(t, err)

	small := AuditEntry{Changes: []byte(`{"status":"Stopped"}`)}
	svc.compress(&small)
	assert.Equal(t, CompressionNone, small.CompressionAlgo)
	assert.Nil(t, small.ChangesCompressed)

	payload := bytes.Repeat([]byte(`{"item_code":"ITM-1","qty":1},`), 1000)
	large := AuditEntry{Changes: payload}
	svc.compress(&large)
	assert.Equal(t, CompressionZstd, large.CompressionAlgo)
	assert.Nil(t, large.Changes)
	assert.Less(t, len(large.ChangesCompressed), len(payload))

	require.NoError(t, svc.decompress(&large))
	assert.Equal(t, payload, []byte(large.Changes))
}
