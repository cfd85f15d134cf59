// Package config holds the benchmark settings and merges them from command
// line flags, environment variables, and an optional TOML file.
package config

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "INTMAPBENCH"

// Structures lists the index implementations the benchmark knows.
var Structures = []string{"splay", "btree", "pebble", "sorted"}

// defaultStructures leaves out sorted, whose random inserts shift the whole
// slice and dominate a run at the default scale.
var defaultStructures = []string{"splay", "btree", "pebble"}

// Config controls one benchmark run.
type Config struct {
	Scale      int      // keys loaded into each index
	Maps       int      // maps built by the sparse workload
	Locality   int      // width of the hot key window in the clustered workload
	RangeOps   int      // range scans per structure
	Degree     int      // B-tree degree of the btree baseline
	Structures []string // subset of Structures to run
	PebbleDir  string   // empty keeps pebble in memory
	CSV        string   // results file
	Chart      string   // PNG chart path, empty to skip
	Metrics    string   // prometheus text file path, empty to skip
	Seed       uint64
	Verbose    bool
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Scale:      1000000,
		Maps:       100000,
		Locality:   256,
		RangeOps:   100,
		Degree:     32,
		Structures: append([]string(nil), defaultStructures...),
		CSV:        "intmap_results.csv",
		Seed:       1,
	}
}

// Flags registers one flag per field of c, with c's current values as
// defaults. Parsing the flags writes straight into c.
func (c *Config) Flags(fs *pflag.FlagSet) {
	fs.IntVar(&c.Scale, "scale", c.Scale, "number of keys loaded into each index")
	fs.IntVar(&c.Maps, "maps", c.Maps, "number of maps built by the sparse workload")
	fs.IntVar(&c.Locality, "locality", c.Locality, "width of the hot key window in the clustered workload")
	fs.IntVar(&c.RangeOps, "range-ops", c.RangeOps, "number of range scans per structure")
	fs.IntVar(&c.Degree, "degree", c.Degree, "degree of the btree baseline")
	fs.StringSliceVar(&c.Structures, "structures", c.Structures, "structures to benchmark: "+strings.Join(Structures, ", "))
	fs.StringVar(&c.PebbleDir, "pebble-dir", c.PebbleDir, "pebble data directory (empty: in memory)")
	fs.StringVar(&c.CSV, "csv", c.CSV, "CSV results file")
	fs.StringVar(&c.Chart, "chart", c.Chart, "PNG latency chart (empty: skip)")
	fs.StringVar(&c.Metrics, "metrics", c.Metrics, "prometheus text file (empty: skip)")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "random seed for the workloads")
	fs.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "enable debug logging")
}

// Validate reports the first setting that cannot be run.
func (c Config) Validate() error {
	switch {
	case c.Scale <= 0:
		return errors.Errorf("scale must be positive, got %d", c.Scale)
	case c.Maps < 0:
		return errors.Errorf("maps must not be negative, got %d", c.Maps)
	case c.Locality <= 0:
		return errors.Errorf("locality must be positive, got %d", c.Locality)
	case c.RangeOps < 0:
		return errors.Errorf("range-ops must not be negative, got %d", c.RangeOps)
	case len(c.Structures) == 0:
		return errors.New("no structures selected")
	}
	for _, s := range c.Structures {
		if !known(s) {
			return errors.Errorf("unknown structure %q (known: %s)", s, strings.Join(Structures, ", "))
		}
	}
	return nil
}

func known(s string) bool { return slices.Contains(Structures, s) }

// Load merges configuration into the variables behind flags, in priority
// order: command line, environment, config file, flag defaults. Environment
// variables are the upper-cased flag names with dashes replaced by
// underscores, prefixed with EnvPrefix and an underscore. An empty path
// skips the config file, which must be TOML and may only use flag names as
// keys.
func Load(v *viper.Viper, flags *pflag.FlagSet, path string) error {
	if err := v.BindPFlags(flags); err != nil {
		return errors.Wrap(err, "binding flags")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading configuration file '%s'", path)
		}
		validTags := make(map[string]bool)
		flags.VisitAll(func(f *pflag.Flag) {
			validTags[f.Name] = true
		})
		for _, key := range v.AllKeys() {
			if !validTags[key] {
				return errors.Errorf("invalid option in configuration file: %v", key)
			}
		}
	}

	var flagErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if flagErr != nil || f.Changed {
			// A flag given on the command line wins. Setting it again would
			// also append to slice flags instead of replacing them.
			return
		}
		var value string
		if f.Value.Type() == "stringSlice" {
			// GetString is empty for a real list from the config file.
			value = strings.Join(v.GetStringSlice(f.Name), ",")
		} else {
			value = v.GetString(f.Name)
		}
		flagErr = errors.Wrapf(f.Value.Set(value), "setting %s", f.Name)
	})
	return flagErr
}
