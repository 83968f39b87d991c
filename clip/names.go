package clip

import (
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/dzonerzy/go-clip/internal/intern"
)

var namePattern = regexp.MustCompile(`^[\p{L}\p{N}?][\p{L}\p{N}_.?-]*$`)

// foldKeys caches the folded form of names and tokens. A Caser is stateful,
// so one is created per derivation.
var foldKeys = intern.NewTable(4096, func(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
})

// Name is one registered spelling of a command or option, with its own case
// sensitivity.
type Name struct {
	Value         string
	CaseSensitive bool
}

// Matches reports whether s is this name under its case-sensitivity flag.
func (n Name) Matches(s string) bool {
	if n.CaseSensitive {
		return n.Value == s
	}
	return foldEqual(n.Value, s)
}

// Len returns the rune length of the name.
func (n Name) Len() int {
	return len([]rune(n.Value))
}

// collides is symmetric: a pair compares case-insensitively when either side
// is case-insensitive.
func (n Name) collides(o Name) bool {
	if n.CaseSensitive && o.CaseSensitive {
		return n.Value == o.Value
	}
	return foldEqual(n.Value, o.Value)
}

// Names is an ordered set of names. The first one is the primary name.
type Names []Name

// ValidateName checks a name against the naming pattern.
func ValidateName(value string) error {
	if value == "" {
		return newError(CodeMissingName, "name cannot be empty")
	}
	if !namePattern.MatchString(value) {
		return &ParseError{
			Code:    CodeInvalidName,
			Message: "invalid name '" + value + "': names start with a letter, digit or '?' and contain only letters, digits, '_', '.', '?' or '-'",
			Token:   value,
		}
	}
	return nil
}

// Add appends a name after validating its pattern and uniqueness in the set.
func (ns *Names) Add(value string, caseSensitive bool) error {
	if err := ValidateName(value); err != nil {
		return err
	}
	n := Name{Value: value, CaseSensitive: caseSensitive}
	for _, existing := range *ns {
		if existing.collides(n) {
			return &ParseError{
				Code:    CodeDuplicateName,
				Message: "duplicate name '" + value + "'",
				Token:   value,
			}
		}
	}
	*ns = append(*ns, n)
	return nil
}

// Primary returns the first name, or "" for an unnamed set.
func (ns Names) Primary() string {
	if len(ns) == 0 {
		return ""
	}
	return ns[0].Value
}

// Values returns every registered spelling in order.
func (ns Names) Values() []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Value
	}
	return out
}

// Matches reports whether any registered name matches s.
func (ns Names) Matches(s string) bool {
	for _, n := range ns {
		if n.Matches(s) {
			return true
		}
	}
	return false
}

// MatchesShort is Matches restricted to one-rune names.
func (ns Names) MatchesShort(s string) bool {
	for _, n := range ns {
		if n.Len() == 1 && n.Matches(s) {
			return true
		}
	}
	return false
}

// Conflict returns the first name of other that collides with a name in ns.
func (ns Names) Conflict(other Names) (string, bool) {
	for _, a := range ns {
		for _, b := range other {
			if a.collides(b) {
				return b.Value, true
			}
		}
	}
	return "", false
}

// SetCaseSensitive changes the flag on every registered name. It fails,
// leaving the set unchanged, when relaxing sensitivity would make two names
// of the set collide.
func (ns Names) SetCaseSensitive(caseSensitive bool) error {
	if !caseSensitive {
		for i := range ns {
			for j := i + 1; j < len(ns); j++ {
				if foldEqual(ns[i].Value, ns[j].Value) {
					return &ParseError{
						Code:    CodeDuplicateName,
						Message: "duplicate name '" + ns[j].Value + "'",
						Token:   ns[j].Value,
					}
				}
			}
		}
	}
	for i := range ns {
		ns[i].CaseSensitive = caseSensitive
	}
	return nil
}

// foldEqual compares two strings under Unicode case folding of their NFC
// forms.
func foldEqual(a, b string) bool {
	if a == b {
		return true
	}
	return foldKeys.Key(a) == foldKeys.Key(b)
}
