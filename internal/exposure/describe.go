package exposure

import (
	"aperturelab/internal/model"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNotNumeric rejects control input that does not parse as a number
var ErrNotNumeric = errors.New("exposure: value is not a number")

// Effect is the display approximation of a full settings tuple
type Effect struct {
	Settings      model.Settings `json:"settings"`
	Brightness    float64        `json:"brightness"`
	Noise         float64        `json:"noise"`
	ApertureBlur  float64        `json:"apertureBlur"`
	MotionBlur    float64        `json:"motionBlur"`
	MotionOpacity float64        `json:"motionOpacity"`
	Filter        string         `json:"filter"`
	Labels        Labels         `json:"labels"`
	Snapped       model.Settings `json:"snapped"`
	// AnimateMillis is how long a client shows the shutter animation after a change
	AnimateMillis int `json:"animateMillis"`
}

// Labels holds the human readable text for each setting
type Labels struct {
	ISO          string `json:"iso"`
	Aperture     string `json:"aperture"`
	ShutterSpeed string `json:"shutterSpeed"`
	Noise        string `json:"noise"`
	Depth        string `json:"depth"`
	Motion       string `json:"motion"`
}

const shutterAnimateMillis = 1000

// Describe builds the composite descriptor used by the playground
func Describe(s model.Settings) Effect {
	snapped := model.Settings{
		ISO:          Snap(s.ISO, ISOStops),
		Aperture:     Snap(s.Aperture, FStops),
		ShutterSpeed: Snap(s.ShutterSpeed, ShutterStops),
	}
	e := Effect{
		Settings:      s,
		Brightness:    Brightness(s.ISO),
		Noise:         Noise(s.ISO),
		ApertureBlur:  ApertureBlur(s.Aperture),
		MotionBlur:    MotionBlur(s.ShutterSpeed),
		MotionOpacity: MotionOpacity(s.ShutterSpeed),
		Snapped:       snapped,
		AnimateMillis: shutterAnimateMillis,
		Labels: Labels{
			ISO:          FormatISO(snapped.ISO),
			Aperture:     FormatAperture(snapped.Aperture),
			ShutterSpeed: FormatShutter(snapped.ShutterSpeed),
			Noise:        NoiseLabel(s.ISO),
			Depth:        DepthLabel(s.Aperture),
			Motion:       MotionLabel(s.ShutterSpeed),
		},
	}
	e.Filter = Filter(e.Brightness, e.ApertureBlur)
	return e
}

// Filter renders a CSS filter value
func Filter(brightness, blurPx float64) string {
	return fmt.Sprintf("brightness(%s) blur(%spx)", trimFloat(brightness), trimFloat(blurPx))
}

// FormatISO renders an ISO value as a whole number, e.g. "800"
func FormatISO(iso float64) string {
	return strconv.Itoa(int(math.Round(iso)))
}

// FormatAperture renders an f-number with one decimal, e.g. "f/2.8"
func FormatAperture(f float64) string {
	return fmt.Sprintf("f/%.1f", f)
}

// FormatShutter renders a shutter denominator as a fraction, e.g. "1/250"
func FormatShutter(denominator float64) string {
	return fmt.Sprintf("1/%d", int(math.Round(denominator)))
}

// Format renders a value the way the label for its field does
func Format(f model.Field, v float64) string {
	switch f {
	case model.FieldISO:
		return FormatISO(v)
	case model.FieldAperture:
		return FormatAperture(v)
	default:
		return FormatShutter(v)
	}
}

// ParseSetting turns raw control input into a value inside r. Non-numeric
// input returns ErrNotNumeric and the caller keeps its previous value.
func ParseSetting(raw string, r model.SettingRange) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, raw)
	}
	return Quantize(v, r), nil
}

// Quantize clamps v into r and rounds it to the nearest step from r.Min
func Quantize(v float64, r model.SettingRange) float64 {
	v = clamp(v, r.Min, r.Max)
	if r.Step <= 0 {
		return v
	}
	n := math.Round((v - r.Min) / r.Step)
	q := r.Min + n*r.Step
	if q > r.Max {
		q = r.Max
	}
	// strip float noise such as 1.4000000000000001
	return math.Round(q*1e6) / 1e6
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
