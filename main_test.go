package main

import (
	"bytes"
	"encoding/csv"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/btree-query-bench/intmap/config"
	"github.com/btree-query-bench/intmap/index/btreeindex"
	"github.com/btree-query-bench/intmap/index/splayindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rc := NewRootCommand(&out, &out)
	rc.SetArgs(args)
	err := rc.Execute()
	return out.String(), err
}

func TestDumpCommand(t *testing.T) {
	out, err := execRoot(t, "dump", "--keys", "5,1,9", "--delete", "1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "IntMap Tree")
	assert.Equal(t, "#     5 : v5", lines[1])
	assert.Equal(t, "#     9 : v9", lines[2])
}

func TestDOTCommand(t *testing.T) {
	out, err := execRoot(t, "dot", "--keys", "0,4,8,12")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph IntMap {"))

	path := filepath.Join(t.TempDir(), "tree.dot")
	_, err = execRoot(t, "dot", "--keys", "0,4", "--out", path)
	require.NoError(t, err)
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "BUCKET 4")

	_, err = execRoot(t, "dot", "--png", "x.png")
	assert.Error(t, err)
}

func TestRunBench(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Scale = 2000
	cfg.Maps = 500
	cfg.Locality = 32
	cfg.RangeOps = 20
	cfg.CSV = filepath.Join(dir, "results.csv")
	cfg.Chart = filepath.Join(dir, "results.png")
	cfg.Metrics = filepath.Join(dir, "results.prom")
	require.NoError(t, cfg.Validate())

	var out bytes.Buffer
	require.NoError(t, runBench(cfg, &out, zap.NewNop()))
	assert.Contains(t, out.String(), "Testing splay")
	assert.Contains(t, out.String(), "Testing pebble (Config: in-memory)")

	f, err := os.Open(cfg.CSV)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	// header + 4 rows per structure + the sparse row
	assert.Len(t, rows, 1+4*len(cfg.Structures)+1)
	assert.Equal(t, "Workload_Sparse", rows[len(rows)-1][2])

	for _, p := range []string{cfg.Chart, cfg.Metrics} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestBenchCommandRejectsBadConfig(t *testing.T) {
	_, err := execRoot(t, "bench", "--scale", "0", "--csv", filepath.Join(t.TempDir(), "r.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scale")

	_, err = execRoot(t, "bench", "--structures", "splay,skiplist", "--csv", filepath.Join(t.TempDir(), "r.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skiplist")
}

func TestExecuteWorkloads(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	keys := Keys{Space: 1000, Window: 16}

	splay := splayindex.New(nil)
	bt := btreeindex.New(8)
	for k := int64(0); k < keys.Space; k++ {
		require.NoError(t, splay.Insert(k, []byte("v")))
		require.NoError(t, bt.Insert(k, []byte("v")))
	}
	for _, w := range []WorkloadType{OLTP, Clustered, Reporting} {
		require.NoError(t, ExecuteWorkload(splay, w, 500, keys, rng), w)
		require.NoError(t, ExecuteWorkload(bt, w, 500, keys, rng), w)
	}
	assert.Error(t, ExecuteWorkload(bt, WorkloadType("bogus"), 1, keys, rng))
}

func TestSparseKeys(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	var empty, single, cluster int
	for i := 0; i < 10000; i++ {
		keys := SparseKeys(rng)
		switch {
		case len(keys) == 0:
			empty++
		case len(keys) == 1:
			single++
		default:
			cluster++
			assert.LessOrEqual(t, len(keys), 64)
		}
	}
	assert.Greater(t, empty, single)
	assert.Greater(t, single, cluster)
	assert.Positive(t, cluster)
}
