package intmap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	m := New[string]()
	m.Assign(9, "c")
	m.Assign(1, "b")
	m.Assign(5, "a")
	shape := m.Nodes()

	var buf bytes.Buffer
	require.NoError(t, m.Dump(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "# ==== IntMap Tree Size = "), lines[0])
	assert.True(t, strings.HasSuffix(lines[0], "Entries = 3"), lines[0])
	assert.Equal(t, "#     1 : b", lines[1])
	assert.Equal(t, "#     5 : a", lines[2])
	assert.Equal(t, "#     9 : c", lines[3])
	assert.Equal(t, "# ==== IntMap End", lines[4])

	assert.Equal(t, shape, m.Nodes())
	assert.Equal(t, 3, m.Len())
}

func TestDumpEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New[int]().Dump(&buf))
	assert.Contains(t, buf.String(), "IntMap Empty")
	assert.Contains(t, buf.String(), "# ==== IntMap End")
}

func TestExportDOT(t *testing.T) {
	m := New[[]byte]()
	for _, k := range []int64{0, 1, 8, 17, 33} {
		m.Assign(k, []byte("value"))
	}

	var buf bytes.Buffer
	require.NoError(t, m.ExportDOT(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "digraph IntMap {"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	for _, b := range []string{"BUCKET 0", "BUCKET 8", "BUCKET 16", "BUCKET 32"} {
		assert.Contains(t, out, b)
	}
	assert.Contains(t, out, "[val..]")
	assert.Equal(t, m.Nodes()-1, strings.Count(out, " -> "), "one edge per non-root node")
}
