package clip

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Source records where a resolved value came from.
type Source int

const (
	SourceNone Source = iota
	SourceInput
	SourceEnv
	SourceDefault
)

func (s Source) String() string {
	switch s {
	case SourceInput:
		return "input"
	case SourceEnv:
		return "env"
	case SourceDefault:
		return "default"
	default:
		return "none"
	}
}

// resolveOptions applies cardinality rules, validators, conversion and
// defaults to every option run, in definition order. The first failure wins.
func (p *Parser) resolveOptions(r *Run) error {
	for _, or := range r.Options {
		if err := p.resolveOption(or); err != nil {
			return err
		}
	}
	return nil
}

//nolint:gocognit,gocyclo,cyclop // one branch per resolution rule, in order
func (p *Parser) resolveOption(or *OptionRun) error {
	o := or.Option
	u := o.usage
	occ := or.Occurrences()

	if occ == 0 {
		value, source, err := optionDefault(o)
		if err != nil {
			return err
		}
		if source != SourceNone {
			p.debugf("option %s: %s value %v", o.Name(), source, value)
			or.value, or.resolved, or.source = value, true, source
			return nil
		}
		if u.MinOccurrences > 0 {
			return optionError(CodeRequiredOptionAbsent, o, "required option '%s' absent", o.Name())
		}
		or.value, or.resolved = emptyValue(u.Shape())
		return nil
	}

	if occ < u.MinOccurrences {
		return optionError(CodeTooFewOccurrences, o, "option '%s' must occur at least %d times, got %d", o.Name(), u.MinOccurrences, occ)
	}
	if occ > u.MaxOccurrences {
		return optionError(CodeTooManyOccurrences, o, "option '%s' may occur at most %d times, got %d", o.Name(), u.MaxOccurrences, occ)
	}
	if u.MinParameters > 0 {
		for i := range occ {
			if got := len(or.Occurrence(i)); got < u.MinParameters {
				return optionError(CodeRequiredParametersAbsent, o, "option '%s' requires at least %d parameters, got %d", o.Name(), u.MinParameters, got)
			}
		}
	}
	if !u.ParametersAllowed() && or.parameterCount() > 0 {
		pe := optionError(CodeInvalidParameters, o, "option '%s' does not take parameters", o.Name())
		pe.Value = or.Parameters()[0]
		return pe
	}

	if o.HasValidators() {
		for i := range occ {
			for idx, param := range or.Occurrence(i) {
				for _, v := range o.ValidatorsFor(idx) {
					if err := v(param); err != nil {
						pe := optionError(CodeValidationFailed, o, "invalid value '%s' for option '%s': %v", param, o.Name(), err)
						pe.Value, pe.Err = param, err
						return pe
					}
				}
			}
		}
	}

	or.source = SourceInput
	switch u.Shape() {
	case ShapeFlag:
		or.value, or.resolved = true, true
	case ShapeCount:
		or.value, or.resolved = occ, true
	case ShapeObject:
		params := or.Parameters()
		if len(params) == 0 {
			// present without its optional parameter: the default supplier
			// fills in, otherwise the option is set but has no value
			v, source, err := supply(o.Default, o.Name(), "")
			if err != nil {
				return err
			}
			if source != SourceNone {
				or.value, or.resolved = v, true
			}
			return nil
		}
		v, err := convertOption(o, params[0])
		if err != nil {
			return err
		}
		or.value, or.resolved = v, true
	case ShapeList:
		params := or.Parameters()
		list := make([]any, 0, len(params))
		for _, param := range params {
			v, err := convertOption(o, param)
			if err != nil {
				return err
			}
			list = append(list, v)
		}
		or.value, or.resolved = list, true
	}
	return nil
}

// resolveArguments matches positional tokens to the command's arguments.
// Commands without arguments keep their tokens raw, except that a command
// with sub-commands rejects them as a likely misspelled sub-command.
func (p *Parser) resolveArguments(r *Run) error {
	args := &r.Command.arguments
	if args.Len() == 0 {
		if len(r.positional) > 0 && len(r.Command.commands) > 0 {
			tok := r.positional[0]
			return &ParseError{
				Code:       CodeInvalidArgumentCount,
				Message:    "unknown command '" + tok + "' for '" + r.Command.displayName() + "'",
				Token:      tok,
				Suggestion: suggest(tok, visibleCommandNames(r.Command)),
			}
		}
		return nil
	}

	n := len(r.positional)
	if capacity := args.capacity(); n > capacity {
		return &ParseError{
			Code:    CodeInvalidArgumentCount,
			Message: "invalid number of arguments: expected at most " + strconv.Itoa(capacity) + ", got " + strconv.Itoa(n),
			Token:   r.positional[capacity],
		}
	}
	if required := args.requiredCount(); n < required {
		return &ParseError{
			Code:     CodeInvalidArgumentCount,
			Message:  "invalid number of arguments: expected at least " + strconv.Itoa(required) + ", got " + strconv.Itoa(n),
			Argument: args.At(n).Name,
		}
	}

	last := len(r.Arguments) - 1
	for i, ar := range r.Arguments {
		a := ar.Argument
		if i < n {
			raw := r.positional[i : i+1]
			if i == last && a.Repeats() {
				raw = r.positional[i:]
			}
			for _, tok := range raw {
				for _, v := range a.Validators {
					if err := v(tok); err != nil {
						return &ParseError{
							Code:     CodeValidationFailed,
							Message:  "invalid value '" + tok + "' for argument '" + a.Name + "': " + err.Error(),
							Argument: a.Name,
							Value:    tok,
							Err:      err,
						}
					}
				}
			}
			ar.raw = raw
			if i == last && a.Repeats() {
				list := make([]any, 0, len(raw))
				for _, tok := range raw {
					v, err := convertArgument(a, tok)
					if err != nil {
						return err
					}
					list = append(list, v)
				}
				ar.value = list
			} else {
				v, err := convertArgument(a, raw[0])
				if err != nil {
					return err
				}
				ar.value = v
			}
			ar.assigned, ar.source = true, SourceInput
			continue
		}

		value, source, err := argumentDefault(a, i == last && a.Repeats())
		if err != nil {
			return err
		}
		if source != SourceNone {
			p.debugf("argument %s: %s value %v", a.Name, source, value)
			ar.value, ar.assigned, ar.source = value, true, source
		} else if i == last && a.Repeats() {
			ar.value = []any{}
		}
	}
	return nil
}

func emptyValue(shape Shape) (any, bool) {
	switch shape {
	case ShapeFlag:
		return false, true
	case ShapeCount:
		return 0, true
	case ShapeList:
		return []any{}, true
	default:
		return nil, false
	}
}

// optionDefault resolves an absent option from its environment variables,
// then its supplier. Neither path runs validators.
func optionDefault(o *Option) (any, Source, error) {
	if raw, ok := lookupEnv(o.EnvVars); ok {
		var (
			v   any
			err error
		)
		switch o.Shape() {
		case ShapeFlag:
			v, err = Bool(raw)
		case ShapeCount:
			v, err = Int(raw)
		case ShapeList:
			v, err = convertList(raw, func(s string) (any, error) { return convertOption(o, s) })
		default:
			v, err = convertOption(o, raw)
		}
		if err != nil {
			return nil, SourceNone, envError(err, o.Name(), "", raw)
		}
		return v, SourceEnv, nil
	}
	return supply(o.Default, o.Name(), "")
}

func argumentDefault(a *Argument, list bool) (any, Source, error) {
	if raw, ok := lookupEnv(a.EnvVars); ok {
		var (
			v   any
			err error
		)
		if list {
			v, err = convertList(raw, func(s string) (any, error) { return convertArgument(a, s) })
		} else {
			v, err = convertArgument(a, raw)
		}
		if err != nil {
			return nil, SourceNone, envError(err, "", a.Name, raw)
		}
		return v, SourceEnv, nil
	}
	return supply(a.Default, "", a.Name)
}

func supply(fn DefaultFunc, option, argument string) (any, Source, error) {
	if fn == nil {
		return nil, SourceNone, nil
	}
	v, err := fn()
	if errors.Is(err, ErrNoDefault) {
		return nil, SourceNone, nil
	}
	if err != nil {
		return nil, SourceNone, &ParseError{
			Code:     CodeConversionFailed,
			Message:  "default for '" + option + argument + "' failed: " + err.Error(),
			Option:   option,
			Argument: argument,
			Err:      err,
		}
	}
	return v, SourceDefault, nil
}

func envError(err error, option, argument, raw string) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe
	}
	return &ParseError{
		Code:     CodeConversionFailed,
		Message:  "invalid environment value '" + raw + "' for '" + option + argument + "': " + err.Error(),
		Option:   option,
		Argument: argument,
		Value:    raw,
		Err:      err,
	}
}

func lookupEnv(vars []string) (string, bool) {
	for _, name := range vars {
		if v := os.Getenv(name); v != "" {
			return v, true
		}
	}
	return "", false
}

// convertList splits an environment value on commas.
func convertList(raw string, conv func(string) (any, error)) ([]any, error) {
	parts := strings.Split(raw, ",")
	out := make([]any, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := conv(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func convertOption(o *Option, raw string) (any, error) {
	v, err := convertValue(o.Formatter, o.Converter, raw)
	if err != nil {
		return nil, &ParseError{
			Code:    CodeConversionFailed,
			Message: "invalid value '" + raw + "' for option '" + o.Name() + "': " + err.Error(),
			Option:  o.Name(),
			Value:   raw,
			Err:     err,
		}
	}
	return v, nil
}

func convertArgument(a *Argument, raw string) (any, error) {
	v, err := convertValue(a.Formatter, a.Converter, raw)
	if err != nil {
		return nil, &ParseError{
			Code:     CodeConversionFailed,
			Message:  "invalid value '" + raw + "' for argument '" + a.Name + "': " + err.Error(),
			Argument: a.Name,
			Value:    raw,
			Err:      err,
		}
	}
	return v, nil
}

func convertValue(format Formatter, conv Converter, raw string) (any, error) {
	if format != nil {
		raw = format(raw)
	}
	if conv == nil {
		return raw, nil
	}
	return conv(raw)
}

func optionError(code ErrorCode, o *Option, format string, args ...any) *ParseError {
	pe := newError(code, format, args...)
	pe.Option = o.Name()
	return pe
}

func visibleCommandNames(c *Command) []string {
	var names []string
	for _, sub := range c.commands {
		if !sub.hidden {
			names = append(names, sub.Names.Values()...)
		}
	}
	return names
}
