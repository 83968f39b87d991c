package clip

import (
	"fmt"
	"math"
)

// Unbounded is the upper bound used for "no limit" occurrence or parameter
// counts.
const Unbounded = math.MaxInt

// ParameterType controls how per-index validators apply to an option's
// parameters.
type ParameterType int

const (
	// Repeating parameters are interchangeable; only AllParameters validators
	// run.
	Repeating ParameterType = iota
	// Individual parameters each have a meaning by position; validators
	// registered at index i run on the i-th parameter of every occurrence.
	Individual
)

func (p ParameterType) String() string {
	if p == Individual {
		return "individual"
	}
	return "repeating"
}

// Shape is the kind of value an option resolves to.
type Shape int

const (
	ShapeFlag Shape = iota
	ShapeCount
	ShapeObject
	ShapeList
)

func (s Shape) String() string {
	switch s {
	case ShapeFlag:
		return "flag"
	case ShapeCount:
		return "count"
	case ShapeObject:
		return "object"
	case ShapeList:
		return "list"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// Usage is the cardinality contract of an option. Parameter bounds apply per
// occurrence.
type Usage struct {
	MinOccurrences int
	MaxOccurrences int
	MinParameters  int
	MaxParameters  int
	ParameterType  ParameterType
}

// Usage presets.
var (
	// FlagUsage is an optional switch without parameters.
	FlagUsage = Usage{MaxOccurrences: 1}
	// SingleUsage is an optional option taking exactly one parameter.
	SingleUsage = Usage{MaxOccurrences: 1, MinParameters: 1, MaxParameters: 1}
	// ListUsage is an optional option taking one or more parameters, any
	// number of times.
	ListUsage = Usage{MaxOccurrences: Unbounded, MinParameters: 1, MaxParameters: Unbounded}
)

// CountUsage is a switch that may repeat up to max times, like -vvv.
func CountUsage(max int) Usage {
	return Usage{MaxOccurrences: max}
}

// ParametersAllowed reports whether the option takes parameters at all.
func (u Usage) ParametersAllowed() bool {
	return u.MaxParameters > 0
}

// Required reports whether the option must occur.
func (u Usage) Required() bool {
	return u.MinOccurrences > 0
}

// Shape derives the value shape from the bounds.
func (u Usage) Shape() Shape {
	switch {
	case u.MaxParameters == 0 && u.MaxOccurrences <= 1:
		return ShapeFlag
	case u.MaxParameters == 0:
		return ShapeCount
	case u.MaxParameters == 1 && u.MaxOccurrences == 1:
		return ShapeObject
	default:
		return ShapeList
	}
}

// Check validates the bounds themselves.
func (u Usage) Check() error {
	switch {
	case u.MaxOccurrences < 1:
		return newError(CodeInvalidUsage, "max occurrences must be at least 1, got %d", u.MaxOccurrences)
	case u.MinOccurrences < 0 || u.MinParameters < 0 || u.MaxParameters < 0:
		return newError(CodeInvalidUsage, "usage bounds cannot be negative")
	case u.MinOccurrences > u.MaxOccurrences:
		return newError(CodeInvalidUsage, "min occurrences %d exceeds max occurrences %d", u.MinOccurrences, u.MaxOccurrences)
	case u.MinParameters > u.MaxParameters:
		return newError(CodeInvalidUsage, "min parameters %d exceeds max parameters %d", u.MinParameters, u.MaxParameters)
	}
	return nil
}
