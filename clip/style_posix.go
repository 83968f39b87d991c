package clip

import (
	"strings"
	"unicode/utf8"
)

// PosixStyle is the default syntax:
//
//	--name, --name=value   any name of the option
//	-x, -x value, -xVALUE  one-rune names only
//	-xyz                   combined one-rune options
//	--                     ends option parsing
//	-                      a positional token
//
// In a combined token the first option that accepts parameters takes the
// rest of the token, after an optional '=', as its parameter. A token that
// parses as a negative number is positional unless a one-rune option
// matches its second rune.
type PosixStyle struct{}

// Name implements Style.
func (PosixStyle) Name() string { return "posix" }

// Grouping implements Style. An option with unbounded parameters forces
// options-first when the command defines arguments.
func (PosixStyle) Grouping(requested Grouping, options []*Option, arguments *Arguments) Grouping {
	return forceOptionsFirst(requested, options, arguments)
}

// ValidateOptions implements Style. Names registered through Names.Add already
// satisfy it; it guards names assigned to Option.Names directly.
func (PosixStyle) ValidateOptions(options []*Option) error {
	return checkNameChars("posix", options, "= ")
}

// IdentifyTokens implements Style.
func (PosixStyle) IdentifyTokens(tokens []string, runs []*OptionRun, grouping Grouping) ([]string, error) {
	return classify(tokens, runs, grouping, decodePosix)
}

func decodePosix(tok string, runs []*OptionRun, _ *OptionRun) (tokenKind, []optionHit, error) {
	switch {
	case tok == "--":
		return tokenTerminator, nil, nil
	case len(tok) < 2 || tok[0] != '-':
		return tokenPositional, nil, nil
	case strings.HasPrefix(tok, "--"):
		name, value, hasValue := strings.Cut(tok[2:], "=")
		r := findRun(runs, name, false)
		if r == nil {
			return 0, nil, unrecognized(tok, name, runs)
		}
		return tokenOption, []optionHit{{run: r, value: value, hasValue: hasValue}}, nil
	}

	body := tok[1:]
	first, _ := utf8.DecodeRuneInString(body)
	if looksNumeric(tok) && findRun(runs, string(first), true) == nil {
		return tokenPositional, nil, nil
	}

	var hits []optionHit
	for len(body) > 0 {
		ch, n := utf8.DecodeRuneInString(body)
		name := string(ch)
		r := findRun(runs, name, true)
		if r == nil {
			if len(hits) == 0 {
				return 0, nil, unrecognized(tok, tok[1:], runs)
			}
			return 0, nil, unrecognized("-"+name, name, runs)
		}
		body = body[n:]
		hit := optionHit{run: r}
		if body != "" && (r.Option.usage.ParametersAllowed() || body[0] == '=') {
			// a flag given "=value" keeps it so resolution can reject it
			hit.value, hit.hasValue = strings.TrimPrefix(body, "="), true
			body = ""
		}
		hits = append(hits, hit)
	}
	return tokenOption, hits, nil
}
