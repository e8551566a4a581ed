package model

import "fmt"

// Field names one camera setting
type Field string

const (
	FieldISO          Field = "iso"
	FieldAperture     Field = "aperture"
	FieldShutterSpeed Field = "shutterSpeed"
)

// Fields lists the settings in evaluation order
var Fields = []Field{FieldISO, FieldAperture, FieldShutterSpeed}

// ParseField converts a query/body value into a Field
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldISO, FieldAperture, FieldShutterSpeed:
		return Field(s), nil
	case "shutter", "shutter_speed":
		return FieldShutterSpeed, nil
	}
	return "", fmt.Errorf("unknown setting %q", s)
}

// Settings is a camera settings tuple. ShutterSpeed is the denominator of 1/x seconds.
type Settings struct {
	ISO          float64 `json:"iso" bson:"iso" yaml:"iso"`
	Aperture     float64 `json:"aperture" bson:"aperture" yaml:"aperture"`
	ShutterSpeed float64 `json:"shutterSpeed" bson:"shutterSpeed" yaml:"shutterSpeed"`
}

// Get returns the value of one field
func (s Settings) Get(f Field) float64 {
	switch f {
	case FieldISO:
		return s.ISO
	case FieldAperture:
		return s.Aperture
	case FieldShutterSpeed:
		return s.ShutterSpeed
	}
	return 0
}

// With returns a copy of s with one field replaced
func (s Settings) With(f Field, v float64) Settings {
	switch f {
	case FieldISO:
		s.ISO = v
	case FieldAperture:
		s.Aperture = v
	case FieldShutterSpeed:
		s.ShutterSpeed = v
	}
	return s
}

// SettingRange is the min/max/step of a slider
type SettingRange struct {
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Step float64 `json:"step" yaml:"step"`
}

// Span is the width of the range
func (r SettingRange) Span() float64 {
	return r.Max - r.Min
}

// Ranges holds one SettingRange per field
type Ranges struct {
	ISO          SettingRange `json:"iso" yaml:"iso"`
	Aperture     SettingRange `json:"aperture" yaml:"aperture"`
	ShutterSpeed SettingRange `json:"shutterSpeed" yaml:"shutterSpeed"`
}

// For returns the range of one field
func (r Ranges) For(f Field) SettingRange {
	switch f {
	case FieldISO:
		return r.ISO
	case FieldAperture:
		return r.Aperture
	default:
		return r.ShutterSpeed
	}
}

// RangeContext selects which control set a range belongs to
type RangeContext string

const (
	ContextSimulator  RangeContext = "simulator"
	ContextQuiz       RangeContext = "quiz"
	ContextPlayground RangeContext = "playground"
)
