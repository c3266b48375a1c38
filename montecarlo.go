package goesc

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MonteCarloRuns stores MC runs.
type MonteCarloRuns struct {
	runs, steps int
	Runs        []MonteCarloRun
}

// channels returns, for every run, the values of θ followed by the estimates at step.
func (mc MonteCarloRuns) channels(step int) [][]float64 {
	rows := mc.Runs[0].channels(0)
	vals := make([][]float64, len(rows))
	for i := range vals {
		vals[i] = make([]float64, len(mc.Runs))
	}
	for r, run := range mc.Runs {
		for i, v := range run.channels(step) {
			vals[i][r] = v
		}
	}
	return vals
}

// Mean returns the mean of θ and of every estimate across runs for the given step.
func (mc MonteCarloRuns) Mean(step int) []float64 {
	vals := mc.channels(step)
	means := make([]float64, len(vals))
	for i, v := range vals {
		means[i] = stat.Mean(v, nil)
	}
	return means
}

// StdDev returns the standard deviation of θ and of every estimate across runs for
// the given step.
func (mc MonteCarloRuns) StdDev(step int) []float64 {
	vals := mc.channels(step)
	devs := make([]float64, len(vals))
	for i, v := range vals {
		devs[i] = stat.StdDev(v, nil)
	}
	return devs
}

// FinalSpread returns the smallest and largest final value of θ across runs.
func (mc MonteCarloRuns) FinalSpread() (lo, hi float64) {
	θ := mc.channels(mc.steps - 1)[0]
	return floats.Min(θ), floats.Max(θ)
}

// AsCSV is used as a CSV serializer, one file per channel (θ, then each estimate).
// Channels without a header are named channel<i>.
func (mc MonteCarloRuns) AsCSV(headers []string) []string {
	rows := len(mc.Runs[0].channels(0))
	rtn := make([]string, rows)

	for i := 0; i < rows; i++ {
		header := fmt.Sprintf("channel%d", i)
		if i < len(headers) {
			header = headers[i]
		}
		lines := make([]string, mc.steps+1) // One line per step, plus header.
		for rNo := 0; rNo < mc.runs; rNo++ {
			lines[0] += fmt.Sprintf("%s-%d,", header, rNo)
		}
		lines[0] += header + "-mean," + header + "-stddev"

		for k := 0; k < mc.steps; k++ {
			for _, run := range mc.Runs {
				lines[k+1] += fmt.Sprintf("%f,", run.channels(k)[i])
			}
			lines[k+1] += fmt.Sprintf("%f,%f", mc.Mean(k)[i], mc.StdDev(k)[i])
		}
		rtn[i] = strings.Join(lines, "\n")
	}
	return rtn
}

// NewMonteCarloRuns runs samples sessions of the given number of steps. Each session
// uses a fresh personaliser from build and the noise returned by noise for that sample.
func NewMonteCarloRuns(samples, steps int, build func() (*Personaliser, error), m PerformanceMap, noise func(sample int) (Noise, error)) (MonteCarloRuns, error) {
	if samples < 1 || steps < 1 {
		return MonteCarloRuns{}, invalidParam("monte carlo requires at least one sample and one step, got %d samples and %d steps", samples, steps)
	}
	runs := make([]MonteCarloRun, samples)
	for sample := 0; sample < samples; sample++ {
		p, err := build()
		if err != nil {
			return MonteCarloRuns{}, fmt.Errorf("sample %d: %w", sample, err)
		}
		n, err := noise(sample)
		if err != nil {
			return MonteCarloRuns{}, fmt.Errorf("sample %d: %w", sample, err)
		}
		runs[sample] = MonteCarloRun{Records: RunSession(p, m, n, steps)}
	}
	return MonteCarloRuns{samples, steps, runs}, nil
}

// MonteCarloRun stores the results of an MC run.
type MonteCarloRun struct {
	Records []Record
}

func (r MonteCarloRun) channels(step int) []float64 {
	rec := r.Records[step]
	return append([]float64{rec.Parameter}, rec.Estimates...)
}
