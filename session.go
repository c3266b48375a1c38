package goesc

// Record is the outcome of one personalisation iteration.
type Record struct {
	Iteration   int
	Applied     float64 // value of the parameter during the iteration
	Performance float64 // measured J, noise included
	Parameter   float64 // θ after the update
	Step        StepKind
	Estimates   []float64
	States      []float64
}

// RunSession drives p against the performance map m for the given number of
// iterations, corrupting each measurement with n (which may be nil).
func RunSession(p *Personaliser, m PerformanceMap, n Noise, iterations int) []Record {
	if n == nil {
		n = Noiseless{}
	}
	records := make([]Record, iterations)
	applied := p.Applied()
	for k := 0; k < iterations; k++ {
		J := m.Evaluate(applied) + n.Measurement(k)
		next := p.UpdateParameter(J, float64(k))
		records[k] = Record{
			Iteration:   k,
			Applied:     applied,
			Performance: J,
			Parameter:   p.Parameter(),
			Step:        p.LastStep(),
			Estimates:   p.Estimator().GetAllEstimates(),
			States:      p.GetStates(),
		}
		applied = next
	}
	return records
}
