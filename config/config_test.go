package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(c *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.Flags(fs)
	return fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "intmapbench.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadPriority(t *testing.T) {
	path := writeConfig(t, `
scale = 500
locality = 64
structures = ["splay", "btree"]
csv = "from-file.csv"
`)
	t.Setenv("INTMAPBENCH_LOCALITY", "32")
	t.Setenv("INTMAPBENCH_RANGE_OPS", "7")

	c := Default()
	fs := newFlags(&c)
	require.NoError(t, fs.Parse([]string{"--csv", "from-flag.csv"}))
	require.NoError(t, Load(viper.New(), fs, path))

	assert.Equal(t, 500, c.Scale, "file")
	assert.Equal(t, 32, c.Locality, "env beats file")
	assert.Equal(t, 7, c.RangeOps, "env")
	assert.Equal(t, "from-flag.csv", c.CSV, "flag beats file")
	assert.Equal(t, []string{"splay", "btree"}, c.Structures)
	assert.Equal(t, Default().Maps, c.Maps, "default")
	require.NoError(t, c.Validate())
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := writeConfig(t, "bucket-size = 8\n")
	c := Default()
	err := Load(viper.New(), newFlags(&c), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket-size")
}

func TestLoadMissingFile(t *testing.T) {
	c := Default()
	err := Load(viper.New(), newFlags(&c), filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"scale", func(c *Config) { c.Scale = 0 }, "scale"},
		{"maps", func(c *Config) { c.Maps = -1 }, "maps"},
		{"locality", func(c *Config) { c.Locality = 0 }, "locality"},
		{"range ops", func(c *Config) { c.RangeOps = -3 }, "range-ops"},
		{"no structures", func(c *Config) { c.Structures = nil }, "no structures"},
		{"unknown structure", func(c *Config) { c.Structures = []string{"splay", "skiplist"} }, "skiplist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
