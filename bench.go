package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/btree-query-bench/intmap/config"
	"github.com/btree-query-bench/intmap/index"
	"github.com/btree-query-bench/intmap/index/btreeindex"
	"github.com/btree-query-bench/intmap/index/pebbleindex"
	"github.com/btree-query-bench/intmap/index/sortedindex"
	"github.com/btree-query-bench/intmap/index/splayindex"
	"github.com/btree-query-bench/intmap/intmap"
	"github.com/btree-query-bench/intmap/report"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// recorder fans each result out to the CSV writer and the metrics.
type recorder struct {
	w       *report.Writer
	metrics *report.Metrics
	log     *zap.Logger
}

func (r *recorder) record(res report.Result) error {
	r.metrics.Observe(res)
	r.log.Info("result",
		zap.String("structure", res.Name),
		zap.String("config", res.Config),
		zap.String("operation", res.Operation),
		zap.Int64("latencyNs", res.LatencyNs),
		zap.Uint64("memMB", res.MemMB),
		zap.Uint64("heapObjects", res.Objects))
	return r.w.Record(res)
}

func runBench(cfg config.Config, stdout io.Writer, log *zap.Logger) error {
	f, err := os.Create(cfg.CSV)
	if err != nil {
		return errors.Wrap(err, "creating results file")
	}
	defer f.Close()

	w, err := report.NewWriter(f)
	if err != nil {
		return err
	}
	rec := &recorder{w: w, metrics: report.NewMetrics(), log: log}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	for _, name := range cfg.Structures {
		idx, conf, err := openIndex(name, cfg, log)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Testing %s (Config: %s)\n", name, conf)
		err = runSuite(rec, name, conf, idx, cfg, rng)
		if cerr := idx.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return errors.Wrapf(err, "benchmarking %s", name)
		}
	}

	if slices.Contains(cfg.Structures, "splay") && cfg.Maps > 0 {
		if err := runSparse(rec, cfg, rng, log); err != nil {
			return err
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}
	if cfg.Chart != "" {
		if err := report.Chart(w.Results(), "intmap benchmark", cfg.Chart); err != nil {
			return err
		}
	}
	if cfg.Metrics != "" {
		if err := rec.metrics.WriteFile(cfg.Metrics); err != nil {
			return err
		}
	}
	fmt.Fprintln(stdout, "Benchmark complete. Results written to", cfg.CSV)
	return nil
}

// openIndex returns a fresh structure and a short description of its
// configuration.
func openIndex(name string, cfg config.Config, log *zap.Logger) (index.Index, string, error) {
	switch name {
	case "splay":
		return splayindex.New(intmap.NewPool[[]byte](0)), "bucket=" + strconv.Itoa(intmap.BucketSize), nil
	case "btree":
		return btreeindex.New(cfg.Degree), "degree=" + strconv.Itoa(cfg.Degree), nil
	case "pebble":
		l, err := pebbleindex.Open(cfg.PebbleDir, log.Named("pebble"))
		if err != nil {
			return nil, "", err
		}
		conf := "dir=" + cfg.PebbleDir
		if cfg.PebbleDir == "" {
			conf = "in-memory"
		}
		return l, conf, nil
	case "sorted":
		return sortedindex.New(), "slice", nil
	}
	return nil, "", errors.Errorf("unknown structure %q", name)
}

func runSuite(rec *recorder, name, conf string, idx index.Index, cfg config.Config, rng *rand.Rand) error {
	n := cfg.Scale
	value := []byte("v")

	// 1. Pure insert (initial load)
	start := time.Now()
	for k := 0; k < n; k++ {
		if err := idx.Insert(int64(k), value); err != nil {
			return errors.Wrapf(err, "load key %d", k)
		}
	}
	latency := time.Since(start).Nanoseconds() / int64(n)

	// Sample memory right after the load, before any workload.
	stats := GetDetailedMem()
	if err := rec.record(report.Result{
		Name:      name,
		Config:    conf,
		Operation: "Footprint_SteadyState",
		LatencyNs: latency,
		MemMB:     stats.AllocMB,
		Objects:   stats.HeapObjects,
	}); err != nil {
		return err
	}

	workloads := []struct {
		op  string
		w   WorkloadType
		ops int
	}{
		{"Workload_OLTP", OLTP, n / 2},
		{"Workload_Clustered", Clustered, n / 2},
		{"Workload_Range", Reporting, cfg.RangeOps},
	}
	for _, wl := range workloads {
		if wl.ops == 0 {
			continue
		}
		start = time.Now()
		if err := ExecuteWorkload(idx, wl.w, wl.ops, Keys{Space: int64(n), Window: int64(cfg.Locality)}, rng); err != nil {
			return errors.Wrap(err, wl.op)
		}
		mem := GetDetailedMem()
		if err := rec.record(report.Result{
			Name:      name,
			Config:    conf,
			Operation: wl.op,
			LatencyNs: time.Since(start).Nanoseconds() / int64(wl.ops),
			MemMB:     mem.AllocMB,
			Objects:   mem.HeapObjects,
		}); err != nil {
			return err
		}
	}
	return nil
}

// runSparse builds many small maps the way a symbol index does: most are
// empty or hold one entry, a few grow into clustered trees.
func runSparse(rec *recorder, cfg config.Config, rng *rand.Rand, log *zap.Logger) error {
	pool := intmap.NewPool[[]byte](0)
	maps := make([]*intmap.Map[[]byte], cfg.Maps)
	value := []byte("v")

	before := GetDetailedMem()
	start := time.Now()
	ops := 0
	for i := range maps {
		m := intmap.NewWithPool(pool)
		for _, k := range SparseKeys(rng) {
			m.Assign(k, value)
			ops++
		}
		maps[i] = m
	}
	elapsed := time.Since(start)
	after := GetDetailedMem()

	var kinds [3]int
	for _, m := range maps {
		kinds[m.Kind()]++
	}
	log.Info("sparse maps built",
		zap.Int("maps", len(maps)),
		zap.Int("empty", kinds[intmap.Empty]),
		zap.Int("single", kinds[intmap.Single]),
		zap.Int("tree", kinds[intmap.Tree]),
		zap.Uint64("liveNodes", pool.Stats().Live))

	latency := int64(0)
	if ops > 0 {
		latency = elapsed.Nanoseconds() / int64(ops)
	}
	res := report.Result{
		Name:      "splay",
		Config:    "bucket=" + strconv.Itoa(intmap.BucketSize),
		Operation: "Workload_Sparse",
		LatencyNs: latency,
		MemMB:     after.AllocMB,
		Objects:   after.HeapObjects - min(after.HeapObjects, before.HeapObjects),
	}
	if err := rec.record(res); err != nil {
		return err
	}

	for _, m := range maps {
		m.Destroy()
	}
	return nil
}
