// Package exposure maps camera settings to display-filter approximations.
// Every function here is pure.
package exposure

import (
	"aperturelab/internal/model"
	"math"
)

// Canonical stops used for labels
var (
	ISOStops     = []float64{100, 200, 400, 800, 1600, 3200, 6400}
	FStops       = []float64{1.4, 2, 2.8, 4, 5.6, 8, 11, 16, 22}
	ShutterStops = []float64{2, 4, 8, 15, 30, 60, 125, 250, 500, 1000, 2000, 4000}
)

// Simulator bounds
const (
	MinISO = 100.0
	MaxISO = 6400.0

	MinBrightness = 1.0
	MaxBrightness = 2.5

	// NoiseThresholdISO is the highest ISO rendered without grain
	NoiseThresholdISO = 800.0

	MinAperture     = 1.4
	MaxAperture     = 22.0
	MaxApertureBlur = 8.0 // px

	MinShutter         = 2.0
	MaxShutter         = 4000.0
	MinMotionBlur      = 0.8 // px
	MaxMotionBlur      = 8.0 // px
	MinMotionOpacity   = 0.15
	MaxMotionOpacity   = 0.5
	motionCurvePower   = 0.7
	shallowDOFBelow    = 8.0
	frozenActionFrom   = 250.0
	someMotionFrom     = 60.0
	lowNoiseBelow      = 400.0
	moderateNoiseBelow = 1600.0
)

// Stops returns the canonical list for a field
func Stops(f model.Field) []float64 {
	switch f {
	case model.FieldISO:
		return ISOStops
	case model.FieldAperture:
		return FStops
	default:
		return ShutterStops
	}
}

// Snap returns the stop closest to v. Ties keep the earlier stop.
// An empty list returns v unchanged.
func Snap(v float64, stops []float64) float64 {
	if len(stops) == 0 {
		return v
	}
	best := stops[0]
	bestDiff := math.Abs(best - v)
	for _, s := range stops[1:] {
		if d := math.Abs(s - v); d < bestDiff {
			best, bestDiff = s, d
		}
	}
	return best
}

// Brightness is the CSS brightness() factor for an ISO value
func Brightness(iso float64) float64 {
	iso = clamp(iso, MinISO, MaxISO)
	return MinBrightness + (iso-MinISO)/(MaxISO-MinISO)*(MaxBrightness-MinBrightness)
}

// Noise is the grain overlay opacity in [0,1]; zero up to NoiseThresholdISO
func Noise(iso float64) float64 {
	iso = clamp(iso, MinISO, MaxISO)
	if iso <= NoiseThresholdISO {
		return 0
	}
	return clamp((iso-MinISO)/(MaxISO-MinISO), 0, 1)
}

// ApertureBlur is the background blur radius in px; wider apertures blur more
func ApertureBlur(fNumber float64) float64 {
	fNumber = clamp(fNumber, MinAperture, MaxAperture)
	blur := MaxApertureBlur * (1 - (fNumber-MinAperture)/(MaxAperture-MinAperture))
	return clamp(blur, 0, MaxApertureBlur)
}

// shutterCurve is 1 at the slowest supported speed and 0 at the fastest,
// on a log scale softened by a power curve.
func shutterCurve(denominator float64) float64 {
	denominator = clamp(denominator, MinShutter, MaxShutter)
	n := math.Log10(MaxShutter/denominator) / math.Log10(MaxShutter/MinShutter)
	return math.Pow(n, motionCurvePower)
}

// MotionBlur is the motion blur radius in px for a shutter denominator
func MotionBlur(denominator float64) float64 {
	return MinMotionBlur + (MaxMotionBlur-MinMotionBlur)*shutterCurve(denominator)
}

// MotionOpacity is the opacity of the motion blur overlay
func MotionOpacity(denominator float64) float64 {
	return MinMotionOpacity + (MaxMotionOpacity-MinMotionOpacity)*shutterCurve(denominator)
}

// NoiseLabel describes the grain level of an ISO value
func NoiseLabel(iso float64) string {
	switch {
	case iso < lowNoiseBelow:
		return "Low Noise"
	case iso < moderateNoiseBelow:
		return "Moderate Noise"
	default:
		return "High Noise"
	}
}

// DepthLabel describes the depth of field of an f-number
func DepthLabel(fNumber float64) string {
	if fNumber < shallowDOFBelow {
		return "Shallow Depth of Field"
	}
	return "Deep Depth of Field"
}

// MotionLabel describes how a shutter denominator renders movement
func MotionLabel(denominator float64) string {
	switch {
	case denominator < someMotionFrom:
		return "Motion Blur"
	case denominator < frozenActionFrom:
		return "Some Motion"
	default:
		return "Frozen Action"
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
