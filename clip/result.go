package clip

import (
	"time"
)

type optionValue struct {
	option      *Option
	value       any
	present     bool
	occurrences int
	params      []string
	source      Source
}

type argumentValue struct {
	argument *Argument
	value    any
	present  bool
	raw      []string
	source   Source
}

// Result is the read-only outcome of a successful parse.
type Result struct {
	command    *Command
	path       []*Command
	options    []optionValue
	arguments  []argumentValue
	positional []string
}

// newResult copies everything it needs out of the run, which goes back to
// the pool afterwards.
func newResult(r *Run) *Result {
	res := &Result{
		command:    r.Command,
		path:       append([]*Command(nil), r.Path...),
		options:    make([]optionValue, len(r.Options)),
		arguments:  make([]argumentValue, len(r.Arguments)),
		positional: r.positional,
	}
	for i, or := range r.Options {
		res.options[i] = optionValue{
			option:      or.Option,
			value:       or.value,
			present:     or.resolved,
			occurrences: or.Occurrences(),
			params:      or.Parameters(),
			source:      or.source,
		}
	}
	for i, ar := range r.Arguments {
		res.arguments[i] = argumentValue{
			argument: ar.Argument,
			value:    ar.value,
			present:  ar.assigned || ar.value != nil,
			raw:      ar.raw,
			source:   ar.source,
		}
	}
	return res
}

// Command returns the innermost matched command.
func (r *Result) Command() *Command {
	return r.command
}

// Path returns the primary names of the matched commands, root first. An
// unnamed root is skipped.
func (r *Result) Path() []string {
	return r.command.Path()
}

// Commands returns the matched command chain, root first.
func (r *Result) Commands() []*Command {
	return r.path
}

func (r *Result) findOption(name string) *optionValue {
	for i := range r.options {
		if r.options[i].option.Names.Matches(name) {
			return &r.options[i]
		}
	}
	return nil
}

func (r *Result) findArgument(name string) *argumentValue {
	for i := range r.arguments {
		if r.arguments[i].argument.Name == name {
			return &r.arguments[i]
		}
	}
	return nil
}

// Option returns the resolved value of an option, looked up by any of its
// names. Flags, counts and lists always have a value; a single-value option
// that never occurred and has no default does not. A single-value option with
// an optional parameter that occurred bare takes its default supplier's value;
// without one it reports no value while IsSet and Occurrences still see it.
func (r *Result) Option(name string) (any, bool) {
	if ov := r.findOption(name); ov != nil && ov.present {
		return ov.value, true
	}
	return nil, false
}

// Occurrences returns how many times an option occurred in the input.
func (r *Result) Occurrences(name string) int {
	if ov := r.findOption(name); ov != nil {
		return ov.occurrences
	}
	return 0
}

// Parameters returns the raw parameters captured for an option.
func (r *Result) Parameters(name string) []string {
	if ov := r.findOption(name); ov != nil {
		return ov.params
	}
	return nil
}

// Argument returns the resolved value of a positional argument.
func (r *Result) Argument(name string) (any, bool) {
	if av := r.findArgument(name); av != nil && av.present {
		return av.value, true
	}
	return nil, false
}

// Arguments returns the raw positional tokens in input order.
func (r *Result) Arguments() []string {
	return r.positional
}

// Source reports where the value of an option or argument came from.
func (r *Result) Source(name string) Source {
	if ov := r.findOption(name); ov != nil {
		return ov.source
	}
	if av := r.findArgument(name); av != nil {
		return av.source
	}
	return SourceNone
}

// IsSet reports whether an option or argument got a value from input,
// environment or a default.
func (r *Result) IsSet(name string) bool {
	return r.Source(name) != SourceNone
}

// Value looks up an option first, then an argument.
func (r *Result) Value(name string) (any, bool) {
	if v, ok := r.Option(name); ok {
		return v, true
	}
	return r.Argument(name)
}

// Get returns the value of an option or argument as T.
func Get[T any](r *Result, name string) (T, bool) {
	var zero T
	v, ok := r.Value(name)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// GetList returns a list-valued option or repeating argument as []T.
func GetList[T any](r *Result, name string) ([]T, bool) {
	v, ok := r.Value(name)
	if !ok {
		return nil, false
	}
	switch list := v.(type) {
	case []T:
		return list, true
	case []any:
		out := make([]T, 0, len(list))
		for _, item := range list {
			t, ok := item.(T)
			if !ok {
				return nil, false
			}
			out = append(out, t)
		}
		return out, true
	case T:
		return []T{list}, true
	default:
		return nil, false
	}
}

// String returns a string value.
func (r *Result) String(name string) (string, bool) {
	return Get[string](r, name)
}

// Int returns an int value.
func (r *Result) Int(name string) (int, bool) {
	return Get[int](r, name)
}

// Bool returns a bool value.
func (r *Result) Bool(name string) (bool, bool) {
	return Get[bool](r, name)
}

// Float returns a float64 value.
func (r *Result) Float(name string) (float64, bool) {
	return Get[float64](r, name)
}

// Duration returns a time.Duration value.
func (r *Result) Duration(name string) (time.Duration, bool) {
	return Get[time.Duration](r, name)
}

// Count returns the value of a counting option, or its occurrences for any
// other option.
func (r *Result) Count(name string) int {
	if n, ok := Get[int](r, name); ok {
		if ov := r.findOption(name); ov != nil && ov.option.Shape() == ShapeCount {
			return n
		}
	}
	return r.Occurrences(name)
}

// Strings returns a list of strings.
func (r *Result) Strings(name string) ([]string, bool) {
	return GetList[string](r, name)
}

// Flag reports whether a flag resolved to true.
func (r *Result) Flag(name string) bool {
	b, _ := r.Bool(name)
	return b
}
