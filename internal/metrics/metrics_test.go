package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordScan(t *testing.T) {
	before := testutil.ToFloat64(scansTotal.WithLabelValues("failure"))
	RecordScan(time.Millisecond, false)
	assert.Equal(t, before+1, testutil.ToFloat64(scansTotal.WithLabelValues("failure")))
}

func TestRecordBuild(t *testing.T) {
	builds := testutil.ToFloat64(buildsTotal)
	orphaned := testutil.ToFloat64(buildEntries.WithLabelValues("orphaned"))

	RecordBuild(10, 1, 2, 0, 0)

	assert.Equal(t, builds+1, testutil.ToFloat64(buildsTotal))
	assert.Equal(t, orphaned+2, testutil.ToFloat64(buildEntries.WithLabelValues("orphaned")))
}

func TestTreeSizeAndStale(t *testing.T) {
	SetTreeSize(42)
	assert.Equal(t, float64(42), testutil.ToFloat64(treeSize))

	before := testutil.ToFloat64(staleDiscards)
	RecordStaleDiscard()
	assert.Equal(t, before+1, testutil.ToFloat64(staleDiscards))
}

func TestWriteFile(t *testing.T) {
	RecordStaleDiscard()
	path := filepath.Join(t.TempDir(), "treesync.prom")

	require.NoError(t, WriteFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "treesync_stale_discards_total")

	assert.Error(t, WriteFile(filepath.Join(t.TempDir(), "missing", "x.prom")))
}
