package clip

import (
	"strconv"
	"strings"
)

// Grouping controls where options may appear relative to positional
// arguments.
type Grouping int

const (
	// GroupingAny lets options and arguments interleave.
	GroupingAny Grouping = iota
	// GroupingOptionsFirst ends option parsing at the first positional token.
	GroupingOptionsFirst
	// GroupingArgumentsFirst rejects positional tokens once an option has
	// occurred.
	GroupingArgumentsFirst
)

func (g Grouping) String() string {
	switch g {
	case GroupingOptionsFirst:
		return "options-first"
	case GroupingArgumentsFirst:
		return "arguments-first"
	default:
		return "any"
	}
}

// Style is a token classifier: it owns the surface syntax of options.
type Style interface {
	// Name identifies the style in logs and errors.
	Name() string
	// Grouping returns the effective grouping for a command, which may
	// override the requested one.
	Grouping(requested Grouping, options []*Option, arguments *Arguments) Grouping
	// ValidateOptions rejects option definitions the syntax cannot express.
	// It runs once per parse before any token is read.
	ValidateOptions(options []*Option) error
	// IdentifyTokens records option occurrences and parameters on runs and
	// returns the positional tokens in their original order.
	IdentifyTokens(tokens []string, runs []*OptionRun, grouping Grouping) ([]string, error)
}

// forceOptionsFirst is the shared grouping override: an option with
// unbounded parameters would otherwise swallow every argument after it.
func forceOptionsFirst(requested Grouping, options []*Option, arguments *Arguments) Grouping {
	if arguments == nil || arguments.Len() == 0 {
		return requested
	}
	for _, o := range options {
		if o.usage.MaxParameters == Unbounded {
			return GroupingOptionsFirst
		}
	}
	return requested
}

type tokenKind int

const (
	tokenPositional tokenKind = iota
	tokenTerminator
	tokenOption
)

// optionHit is one option recognized inside a token, with an optional value
// attached to the token itself.
type optionHit struct {
	run      *OptionRun
	value    string
	hasValue bool
}

// decodeFunc classifies one token. pending is the option still able to take
// a parameter, or nil.
type decodeFunc func(token string, runs []*OptionRun, pending *OptionRun) (tokenKind, []optionHit, error)

// classify is the classification loop shared by the built-in styles.
//
// Tie-break: an option that can still accept parameters consumes following
// positional-looking tokens greedily up to its MaxParameters. Option-looking
// tokens are never consumed as parameters.
func classify(tokens []string, runs []*OptionRun, grouping Grouping, decode decodeFunc) ([]string, error) {
	positional := make([]string, 0, len(tokens))
	var pending *OptionRun
	optionsDone := false
	seenOption := false

	for _, tok := range tokens {
		if optionsDone {
			positional = append(positional, tok)
			continue
		}

		kind, hits, err := decode(tok, runs, pending)
		if err != nil {
			return nil, err
		}

		switch kind {
		case tokenTerminator:
			optionsDone = true
			pending = nil
		case tokenOption:
			seenOption = true
			pending = nil
			for _, hit := range hits {
				hit.run.Occur()
				if hit.hasValue {
					hit.run.AddParameter(hit.value)
				}
				if hit.run.CanAcceptParameter() {
					pending = hit.run
				} else {
					pending = nil
				}
			}
		case tokenPositional:
			if pending != nil && pending.CanAcceptParameter() {
				pending.AddParameter(tok)
				if !pending.CanAcceptParameter() {
					pending = nil
				}
				continue
			}
			pending = nil
			switch grouping {
			case GroupingOptionsFirst:
				optionsDone = true
			case GroupingArgumentsFirst:
				if seenOption {
					return nil, &ParseError{
						Code:    CodeUnexpectedArgument,
						Message: "unexpected argument '" + tok + "': arguments must precede options",
						Token:   tok,
					}
				}
			case GroupingAny:
			}
			positional = append(positional, tok)
		}
	}
	return positional, nil
}

// findRun returns the run whose option has a name matching name. With
// shortOnly only one-rune names are considered.
func findRun(runs []*OptionRun, name string, shortOnly bool) *OptionRun {
	for _, r := range runs {
		if shortOnly {
			if r.Option.Names.MatchesShort(name) {
				return r
			}
		} else if r.Option.Names.Matches(name) {
			return r
		}
	}
	return nil
}

func unrecognized(token, name string, runs []*OptionRun) *ParseError {
	var candidates []string
	for _, r := range runs {
		if r.Option.Hidden {
			continue
		}
		candidates = append(candidates, r.Option.Names.Values()...)
	}
	return &ParseError{
		Code:       CodeUnrecognizedOption,
		Message:    "unrecognized option '" + token + "'",
		Option:     name,
		Token:      token,
		Suggestion: suggest(name, candidates),
	}
}

// looksNumeric reports whether s is a decimal number, as in "-5" or "-0.5".
// Spellings such as "-inf", "-nan" and "-0x1p3" are not numbers here.
func looksNumeric(s string) bool {
	body := strings.TrimLeft(s, "+-")
	if body == "" || !(body[0] == '.' || body[0] >= '0' && body[0] <= '9') {
		return false
	}
	if len(body) > 1 && (body[1] == 'x' || body[1] == 'X') {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func checkNameChars(style string, options []*Option, forbidden string) error {
	for _, o := range options {
		if len(o.Names) == 0 {
			return newError(CodeMissingName, "option without a name")
		}
		for _, n := range o.Names {
			if n.Value == "" || strings.ContainsAny(n.Value, forbidden) || strings.HasPrefix(n.Value, "-") {
				return &ParseError{
					Code:    CodeStyleIncompatible,
					Message: "option name '" + n.Value + "' cannot be expressed in " + style + " style",
					Option:  o.Name(),
				}
			}
		}
	}
	return nil
}
