// Package plotting renders personalisation sessions to PNG files.
package plotting

import (
	"fmt"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/Rigaro/goesc"
)

const (
	width  = 14 * vg.Inch
	height = 6 * vg.Inch
)

// SaveTrajectory saves two plots of the session in dir: the parameter trajectory
// (θ, the applied value and the optimum when it is finite) and the estimates.
// It returns the paths of the saved files.
func SaveTrajectory(records []goesc.Record, optimum float64, estimateNames []string, dir, prefix string) ([]string, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no records to plot")
	}

	pθ := newPlot(prefix+" parameter", "Iteration", "θ")
	θPts := make(plotter.XYs, len(records))
	appliedPts := make(plotter.XYs, len(records))
	for k, r := range records {
		θPts[k] = plotter.XY{X: float64(r.Iteration), Y: r.Parameter}
		appliedPts[k] = plotter.XY{X: float64(r.Iteration), Y: r.Applied}
	}
	if err := addLine(pθ, "applied", appliedPts, 0); err != nil {
		return nil, err
	}
	if err := addLine(pθ, "θ", θPts, 1); err != nil {
		return nil, err
	}
	if !math.IsNaN(optimum) && !math.IsInf(optimum, 0) {
		opt := plotter.NewFunction(func(float64) float64 { return optimum })
		opt.Color = plotutil.Color(2)
		opt.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		pθ.Add(opt)
		pθ.Legend.Add("θ*", opt)
	}

	pEst := newPlot(prefix+" estimates", "Iteration", "Estimate")
	for i := range records[0].Estimates {
		pts := make(plotter.XYs, 0, len(records))
		for _, r := range records {
			if i < len(r.Estimates) {
				pts = append(pts, plotter.XY{X: float64(r.Iteration), Y: r.Estimates[i]})
			}
		}
		name := fmt.Sprintf("estimate %d", i)
		if i < len(estimateNames) {
			name = estimateNames[i]
		}
		if err := addLine(pEst, name, pts, i); err != nil {
			return nil, err
		}
	}

	files := []string{
		filepath.Join(dir, prefix+"_parameter.png"),
		filepath.Join(dir, prefix+"_estimates.png"),
	}
	for i, p := range []*plot.Plot{pθ, pEst} {
		if err := p.Save(width, height, files[i]); err != nil {
			return nil, fmt.Errorf("failed to save %s: %w", files[i], err)
		}
	}
	return files, nil
}

// SaveSpread saves the mean of θ with a ±2σ envelope across Monte Carlo runs.
func SaveSpread(runs goesc.MonteCarloRuns, steps int, dir, prefix string) (string, error) {
	if steps < 1 {
		return "", fmt.Errorf("no steps to plot")
	}
	p := newPlot(prefix+" Monte Carlo", "Iteration", "θ")
	mean := make(plotter.XYs, steps)
	upper := make(plotter.XYs, steps)
	lower := make(plotter.XYs, steps)
	for k := 0; k < steps; k++ {
		m, s := runs.Mean(k)[0], runs.StdDev(k)[0]
		mean[k] = plotter.XY{X: float64(k), Y: m}
		upper[k] = plotter.XY{X: float64(k), Y: m + 2*s}
		lower[k] = plotter.XY{X: float64(k), Y: m - 2*s}
	}
	for i, l := range []struct {
		name string
		pts  plotter.XYs
	}{{"mean", mean}, {"+2σ", upper}, {"-2σ", lower}} {
		if err := addLine(p, l.name, l.pts, i); err != nil {
			return "", err
		}
	}
	file := filepath.Join(dir, prefix+"_montecarlo.png")
	if err := p.Save(width, height, file); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", file, err)
	}
	return file, nil
}

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p
}

func addLine(p *plot.Plot, name string, pts plotter.XYs, colour int) error {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(colour)
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}
