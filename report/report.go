// Package report records benchmark results as CSV rows and renders them as
// charts and prometheus metrics.
package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Result is one measured (structure, workload) cell of the benchmark.
type Result struct {
	Name      string
	Config    string
	Operation string
	LatencyNs int64
	MemMB     uint64
	Objects   uint64
}

// Header is the first CSV row written by a Writer.
var Header = []string{"Structure", "Config", "TestType", "LatencyNs", "MemMB", "HeapObjects"}

// Writer streams results to CSV and keeps them for the chart and metrics
// exporters.
type Writer struct {
	w       *csv.Writer
	results []Result
}

// NewWriter writes the header row to w and returns a Writer appending to it.
func NewWriter(w io.Writer) (*Writer, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return nil, errors.Wrap(err, "writing csv header")
	}
	return &Writer{w: cw}, nil
}

func (w *Writer) Record(res Result) error {
	w.results = append(w.results, res)
	err := w.w.Write([]string{
		res.Name,
		res.Config,
		res.Operation,
		strconv.FormatInt(res.LatencyNs, 10),
		strconv.FormatUint(res.MemMB, 10),
		strconv.FormatUint(res.Objects, 10),
	})
	return errors.Wrap(err, "writing csv row")
}

// Results returns everything recorded so far.
func (w *Writer) Results() []Result { return w.results }

// Flush writes buffered rows to the underlying writer.
func (w *Writer) Flush() error {
	w.w.Flush()
	return errors.Wrap(w.w.Error(), "flushing csv")
}
