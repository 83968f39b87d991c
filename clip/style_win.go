package clip

import (
	"strings"
)

// WindowsStyle accepts /name, /name:value, /name=value and the same forms
// with a '-' prefix. Any name of an option may be used with either prefix
// and options never combine. "--" ends option parsing.
//
// A '/'-token that contains another '/' is a path and stays positional, as
// does a '-'-token that parses as a number.
type WindowsStyle struct{}

// Name implements Style.
func (WindowsStyle) Name() string { return "windows" }

// Grouping implements Style, with the same unbounded-parameter override as
// PosixStyle.
func (WindowsStyle) Grouping(requested Grouping, options []*Option, arguments *Arguments) Grouping {
	return forceOptionsFirst(requested, options, arguments)
}

// ValidateOptions implements Style. Besides the separators it rejects names
// made only of digits, since -12 could not be told apart from a negative
// number, and names that start with '?' other than "?" itself, which would
// read as the /? help switch.
func (WindowsStyle) ValidateOptions(options []*Option) error {
	if err := checkNameChars("windows", options, ":=/ "); err != nil {
		return err
	}
	for _, o := range options {
		for _, n := range o.Names {
			if looksNumeric(n.Value) || (strings.HasPrefix(n.Value, "?") && n.Value != "?") {
				return &ParseError{
					Code:    CodeStyleIncompatible,
					Message: "option name '" + n.Value + "' cannot be expressed in windows style",
					Option:  o.Name(),
				}
			}
		}
	}
	return nil
}

// IdentifyTokens implements Style.
func (WindowsStyle) IdentifyTokens(tokens []string, runs []*OptionRun, grouping Grouping) ([]string, error) {
	return classify(tokens, runs, grouping, decodeWindows)
}

func decodeWindows(tok string, runs []*OptionRun, _ *OptionRun) (tokenKind, []optionHit, error) {
	if tok == "--" {
		return tokenTerminator, nil, nil
	}
	if len(tok) < 2 {
		return tokenPositional, nil, nil
	}
	switch tok[0] {
	case '/':
		if strings.Contains(tok[1:], "/") {
			return tokenPositional, nil, nil
		}
	case '-':
		if looksNumeric(tok) {
			return tokenPositional, nil, nil
		}
	default:
		return tokenPositional, nil, nil
	}

	body := tok[1:]
	name, value, hasValue := body, "", false
	if i := strings.IndexAny(body, ":="); i >= 0 {
		name, value, hasValue = body[:i], body[i+1:], true
	}
	r := findRun(runs, name, false)
	if r == nil {
		return 0, nil, unrecognized(tok, name, runs)
	}
	return tokenOption, []optionHit{{run: r, value: value, hasValue: hasValue}}, nil
}
