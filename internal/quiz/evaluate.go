// Package quiz judges settings submissions and runs the settings quiz.
package quiz

import (
	"aperturelab/internal/model"
	"errors"
	"fmt"
	"math"
)

var ErrUnknownPolicy = errors.New("quiz: unknown tolerance policy")

// Policy decides whether one field of a submission is close enough
type Policy interface {
	Within(f model.Field, actual, expected float64) bool
}

// Relative accepts |actual-expected|/|expected| <= Fraction.
// An expected value of zero compares |actual| against Fraction.
type Relative struct {
	Fraction float64
}

func (p Relative) Within(_ model.Field, actual, expected float64) bool {
	if expected == 0 {
		return math.Abs(actual) <= p.Fraction
	}
	return math.Abs((actual-expected)/expected) <= p.Fraction
}

// Range accepts |actual-expected| <= Fraction of the field's full range
type Range struct {
	Fraction float64
	Ranges   model.Ranges
}

func (p Range) Within(f model.Field, actual, expected float64) bool {
	return math.Abs(actual-expected) <= p.Fraction*p.Ranges.For(f).Span()
}

// PolicyFor builds the policy a flavor names. ranges is only used by range policies.
func PolicyFor(fl model.QuizFlavor, ranges model.Ranges) (Policy, error) {
	switch fl.Policy {
	case model.ToleranceRelative:
		return Relative{Fraction: fl.Tolerance}, nil
	case model.ToleranceRange:
		return Range{Fraction: fl.Tolerance, Ranges: ranges}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, fl.Policy)
}

// Evaluate checks every field of actual against target. The tuple is correct
// only when all three fields pass.
func Evaluate(target, actual model.Settings, p Policy) model.Evaluation {
	ev := model.Evaluation{
		Correct: true,
		Fields:  make([]model.FieldResult, 0, len(model.Fields)),
	}
	for _, f := range model.Fields {
		res := model.FieldResult{
			Field:    f,
			Actual:   actual.Get(f),
			Expected: target.Get(f),
		}
		res.Correct = p.Within(f, res.Actual, res.Expected)
		ev.Fields = append(ev.Fields, res)
		if !res.Correct {
			ev.Correct = false
		}
		switch f {
		case model.FieldISO:
			ev.ISO = res.Correct
		case model.FieldAperture:
			ev.Aperture = res.Correct
		case model.FieldShutterSpeed:
			ev.ShutterSpeed = res.Correct
		}
	}
	return ev
}
