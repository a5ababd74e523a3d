package annealing

import "fmt"

// Verbose gates optimizer progress diagnostics on stdout
var Verbose = false

func logf(format string, args ...interface{}) {
	if Verbose {
		fmt.Printf(format, args...)
	}
}

// Defaults for the general optimizer
const (
	DefaultTemperature          = 1000.
	DefaultCoolingRate          = 0.995
	DefaultMaxIterations        = 10000
	DefaultTargetAspectRatio    = 1.73
	DefaultVolumeWeight         = 0.3
	DefaultAspectRatioWeight    = 0.4
	DefaultSizeUniformityWeight = 0.3
	DefaultTargetArea           = 0.1
	DefaultMinArea              = 0.01
)

// Options carries caller-supplied annealing overrides; nil fields take the
// defaults above
type Options struct {
	Temperature          *float64 `json:"temperature,omitempty"`
	CoolingRate          *float64 `json:"cooling_rate,omitempty"`
	MaxIterations        *int     `json:"max_iterations,omitempty"`
	QualityThreshold     *float64 `json:"quality_threshold,omitempty"`
	CheckVolume          *bool    `json:"check_volume,omitempty"`
	CheckAspectRatio     *bool    `json:"check_aspect_ratio,omitempty"`
	TargetAspectRatio    *float64 `json:"target_aspect_ratio,omitempty"`
	VolumeWeight         *float64 `json:"volume_weight,omitempty"`
	AspectRatioWeight    *float64 `json:"aspect_ratio_weight,omitempty"`
	CheckSizeUniformity  *bool    `json:"check_size_uniformity,omitempty"`
	SizeUniformityWeight *float64 `json:"size_uniformity_weight,omitempty"`
	TargetArea           *float64 `json:"target_area,omitempty"`
	MinArea              *float64 `json:"min_area,omitempty"`
}

func floatOr(p *float64, def float64) float64 {
	if p != nil {
		return *p
	}
	return def
}

func intOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}

func boolOr(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}
