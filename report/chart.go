package report

import (
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Chart renders one group of latency bars per operation, one bar per
// structure, and saves it to path. The file format follows the extension.
func Chart(results []Result, title, path string) error {
	ops, names := axes(results)
	if len(ops) == 0 {
		return errors.New("chart: no results")
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "ns/op"
	p.Legend.Top = true

	width := vg.Points(60 / float64(len(names)))
	for i, name := range names {
		vals := make(plotter.Values, len(ops))
		for j, op := range ops {
			if r, ok := find(results, name, op); ok {
				vals[j] = float64(r.LatencyNs)
			}
		}
		bars, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return errors.Wrapf(err, "chart: bars for %s", name)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = width * vg.Length(float64(i)-float64(len(names)-1)/2)
		p.Add(bars)
		p.Legend.Add(name, bars)
	}
	p.NominalX(ops...)

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "chart: save %s", path)
	}
	return nil
}

// axes returns the distinct operations and structure names in first-seen
// order.
func axes(results []Result) (ops, names []string) {
	seenOp := make(map[string]bool)
	seenName := make(map[string]bool)
	for _, r := range results {
		if !seenOp[r.Operation] {
			seenOp[r.Operation] = true
			ops = append(ops, r.Operation)
		}
		if !seenName[r.Name] {
			seenName[r.Name] = true
			names = append(names, r.Name)
		}
	}
	return ops, names
}

func find(results []Result, name, op string) (Result, bool) {
	for _, r := range results {
		if r.Name == name && r.Operation == op {
			return r, true
		}
	}
	return Result{}, false
}
