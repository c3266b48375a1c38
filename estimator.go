package goesc

// EstimatorType allows for quick comparison of estimators.
type EstimatorType uint8

const (
	// DemodulationType is the dither-multiply, high pass, low pass gradient estimator.
	DemodulationType EstimatorType = iota + 1
	// GradientType is the three state discrete gradient observer.
	GradientType
	// GradientHessianType is the five state discrete gradient and Hessian observer.
	GradientHessianType
)

func (t EstimatorType) String() string {
	switch t {
	case DemodulationType:
		return "demodulation"
	case GradientType:
		return "gradient"
	case GradientHessianType:
		return "gradient-hessian"
	default:
		return "unknown"
	}
}

// EstimateNames returns the names of the estimate channels of this type.
func (t EstimatorType) EstimateNames() []string {
	if t == GradientHessianType {
		return []string{"gradient", "curvature"}
	}
	return []string{"gradient"}
}

// ParseEstimatorType returns the EstimatorType matching its String representation.
func ParseEstimatorType(s string) (EstimatorType, error) {
	for _, t := range []EstimatorType{DemodulationType, GradientType, GradientHessianType} {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, invalidParam("unknown estimator type %q", s)
}

// Estimator estimates the local derivatives of an unknown performance map from a
// dithered performance signal.
//
// Estimates are those of the cost -J, where J is the performance fed to Update:
// channel 0 is the gradient and, when available, channel 1 is the curvature.
// Update must be called once per iteration with a strictly increasing t and without
// skipping any iteration.
type Estimator interface {
	Update(u, t float64) bool                 // Returns false if the sample was rejected
	GetEstimate(channel int) (float64, error) // Returns ErrOutOfRange for unknown channels
	GetAllEstimates() []float64               // Returns a copy of all the estimates
	GetStatesNumber() int                     // Returns the number of estimate channels
	GetStates() []float64                     // Returns the raw values worth logging
	Reset()
	Type() EstimatorType
	String() string
}

func getEstimate(estimates []float64, channel int) (float64, error) {
	if channel < 0 || channel >= len(estimates) {
		return 0, fmtOutOfRange(channel, len(estimates))
	}
	return estimates[channel], nil
}
