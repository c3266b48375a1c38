package goesc

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// maxConfigSize bounds the size of a configuration file.
const maxConfigSize = 1 * 1024 * 1024 // 1MB

// Config describes a whole personalisation session: the estimator, the personaliser
// and the simulated performance map it is run against.
type Config struct {
	Estimator    EstimatorSettings    `yaml:"estimator"`
	Personaliser PersonaliserSettings `yaml:"personaliser"`
	Map          MapSettings          `yaml:"map"`
	Iterations   int                  `yaml:"iterations"`
	NoiseStdDev  float64              `yaml:"noise_stddev"`
	Seed         uint64               `yaml:"seed"`
}

// EstimatorSettings selects and tunes the estimator. The probe applied by the
// personaliser uses the same frequency and amplitude.
type EstimatorSettings struct {
	Type       string    `yaml:"type"`
	Frequency  float64   `yaml:"frequency"`
	Amplitude  float64   `yaml:"amplitude"`
	SampleTime float64   `yaml:"sample_time"`
	Gains      []float64 `yaml:"gains,omitempty"` // observer only, dead-beat when empty

	// Demodulation only
	HighPassCutoff float64 `yaml:"high_pass_cutoff"`
	HighPassGain   float64 `yaml:"high_pass_gain"`
	LowPassCutoff  float64 `yaml:"low_pass_cutoff"`
	LowPassGain    float64 `yaml:"low_pass_gain"`
}

// PersonaliserSettings mirrors PersonaliserConfig, without the probe.
type PersonaliserSettings struct {
	Initial      float64 `yaml:"initial"`
	Min          float64 `yaml:"min"`
	Max          float64 `yaml:"max"`
	Gain         float64 `yaml:"gain"`
	MinCurvature float64 `yaml:"min_curvature"`
	MaxStep      float64 `yaml:"max_step"`
	Warmup       int     `yaml:"warmup"`
}

// MapSettings describes a QuadraticMap.
type MapSettings struct {
	Optimum   float64 `yaml:"optimum"`
	Curvature float64 `yaml:"curvature"`
	Peak      float64 `yaml:"peak"`
}

// DefaultConfig returns the tuned defaults: a dead-beat gradient-Hessian observer
// probing at π/4 rad/iteration with an amplitude of 0.2.
func DefaultConfig() *Config {
	demod := DefaultDemodulationConfig(DefaultFrequency)
	pers := DefaultPersonaliserConfig(0.2, 0, 2)
	return &Config{
		Estimator: EstimatorSettings{
			Type:           GradientHessianType.String(),
			Frequency:      DefaultFrequency,
			Amplitude:      DefaultAmplitude,
			SampleTime:     1,
			HighPassCutoff: demod.HighPassCutoff,
			HighPassGain:   demod.HighPassGain,
			LowPassCutoff:  demod.LowPassCutoff,
			LowPassGain:    demod.LowPassGain,
		},
		Personaliser: PersonaliserSettings{
			Initial:      pers.Initial,
			Min:          pers.Min,
			Max:          pers.Max,
			Gain:         pers.Gain,
			MinCurvature: pers.MinCurvature,
			MaxStep:      pers.MaxStep,
			Warmup:       pers.Warmup,
		},
		Map:        MapSettings{Optimum: 1.2, Curvature: 1},
		Iterations: 400,
		Seed:       1,
	}
}

// LoadConfig loads a Config from a YAML file. The file must have a .yaml or .yml
// extension and be under 1MB. Fields omitted from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// iterationFrequency returns the dither phase advance per iteration. Frequency is
// given per unit time and an iteration lasts SampleTime (one when unset).
func (s EstimatorSettings) iterationFrequency() float64 {
	ts := s.SampleTime
	if ts == 0 {
		ts = 1
	}
	return s.Frequency * ts
}

// Validate checks that the configuration describes a runnable session.
func (c *Config) Validate() error {
	if c.Iterations < 1 {
		return invalidParam("iterations must be positive, got %d", c.Iterations)
	}
	if !isFinite(c.NoiseStdDev) || c.NoiseStdDev < 0 {
		return invalidParam("noise_stddev must be non negative, got %f", c.NoiseStdDev)
	}
	if !isFinite(c.Map.Optimum, c.Map.Curvature, c.Map.Peak) {
		return invalidParam("map parameters must be finite")
	}
	_, err := c.NewPersonaliser()
	return err
}

// NewEstimator builds the configured estimator.
func (c *Config) NewEstimator() (Estimator, error) {
	kind, err := ParseEstimatorType(c.Estimator.Type)
	if err != nil {
		return nil, err
	}
	s := c.Estimator
	switch kind {
	case DemodulationType:
		d, err := NewDemodulation(DemodulationConfig{
			Dither:         &Dither{1, s.iterationFrequency(), math.Pi},
			HighPassCutoff: s.HighPassCutoff,
			HighPassGain:   s.HighPassGain,
			LowPassCutoff:  s.LowPassCutoff,
			LowPassGain:    s.LowPassGain,
			SampleTime:     s.SampleTime,
		})
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		cfg := DefaultObserverConfig(kind, s.Frequency, s.Amplitude)
		cfg.SampleTime = s.SampleTime
		cfg.Gains = s.Gains
		o, err := NewObserver(cfg)
		if err != nil {
			return nil, err
		}
		return o, nil
	}
}

// NewPersonaliser builds the configured estimator and the personaliser driving it.
func (c *Config) NewPersonaliser() (*Personaliser, error) {
	est, err := c.NewEstimator()
	if err != nil {
		return nil, err
	}
	probe, err := NewDither(c.Estimator.Amplitude, c.Estimator.iterationFrequency(), 0)
	if err != nil {
		return nil, err
	}
	s := c.Personaliser
	return NewPersonaliser(est, PersonaliserConfig{
		Initial:      s.Initial,
		Min:          s.Min,
		Max:          s.Max,
		Gain:         s.Gain,
		Probe:        probe,
		MinCurvature: s.MinCurvature,
		MaxStep:      s.MaxStep,
		Warmup:       s.Warmup,
	})
}

// PerformanceMap returns the simulated performance map.
func (c *Config) PerformanceMap() QuadraticMap {
	return QuadraticMap{Optimum: c.Map.Optimum, Curvature: c.Map.Curvature, Peak: c.Map.Peak}
}

// Noise returns the measurement noise of the given Monte Carlo sample (0 for a single
// session).
func (c *Config) Noise(sample int) (Noise, error) {
	if c.NoiseStdDev == 0 {
		return Noiseless{}, nil
	}
	return NewAWGN(c.NoiseStdDev, c.Seed+uint64(sample))
}
