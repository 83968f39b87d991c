package clip

import (
	"github.com/dzonerzy/go-clip/internal/pool"
)

// OptionRun tracks one option during a single parse: how often it occurred
// and the parameters captured by each occurrence. It never writes to the
// Option itself.
type OptionRun struct {
	Option *Option

	occurrences [][]string
	value       any
	resolved    bool
	source      Source
}

// Occur records a new occurrence.
func (r *OptionRun) Occur() {
	r.occurrences = append(r.occurrences, nil)
}

// AddParameter appends a parameter to the current occurrence.
func (r *OptionRun) AddParameter(p string) {
	if len(r.occurrences) == 0 {
		r.Occur()
	}
	last := len(r.occurrences) - 1
	r.occurrences[last] = append(r.occurrences[last], p)
}

// CanAcceptParameter reports whether the current occurrence has room for
// another parameter.
func (r *OptionRun) CanAcceptParameter() bool {
	if len(r.occurrences) == 0 {
		return false
	}
	return len(r.occurrences[len(r.occurrences)-1]) < r.Option.usage.MaxParameters
}

// Occurrences returns how many times the option occurred.
func (r *OptionRun) Occurrences() int {
	return len(r.occurrences)
}

// Occurrence returns the parameters captured by occurrence i.
func (r *OptionRun) Occurrence(i int) []string {
	return r.occurrences[i]
}

// Parameters returns every captured parameter in capture order.
func (r *OptionRun) Parameters() []string {
	var out []string
	for _, occ := range r.occurrences {
		out = append(out, occ...)
	}
	return out
}

func (r *OptionRun) parameterCount() int {
	n := 0
	for _, occ := range r.occurrences {
		n += len(occ)
	}
	return n
}

// ArgumentRun tracks one positional argument during a single parse.
type ArgumentRun struct {
	Argument *Argument

	raw      []string
	value    any
	assigned bool
	source   Source
}

// Run is the transient state of one Parse call.
type Run struct {
	Command   *Command   // innermost matched command
	Path      []*Command // root to innermost
	Tokens    []string   // tokens left after command resolution
	Options   []*OptionRun
	Arguments []*ArgumentRun

	positional []string
	grouping   Grouping
}

// ClearPreviousRun resets the run for reuse, keeping slice capacity.
func (r *Run) ClearPreviousRun() {
	r.Command = nil
	clear(r.Path)
	r.Path = r.Path[:0]
	r.Tokens = nil
	clear(r.Options)
	r.Options = r.Options[:0]
	clear(r.Arguments)
	r.Arguments = r.Arguments[:0]
	r.positional = nil
	r.grouping = GroupingAny
}

// OptionRun returns the run tracking o.
func (r *Run) OptionRun(o *Option) *OptionRun {
	for _, or := range r.Options {
		if or.Option == o {
			return or
		}
	}
	return nil
}

var runs = pool.NewPoolWithReset(func() *Run { return &Run{} }, (*Run).ClearPreviousRun)

// buildRun descends from root along tokens that name sub-commands and
// prepares tracking records for the innermost command only.
func buildRun(root *Command, tokens []string) *Run {
	r := runs.Get()
	cmd := root
	r.Path = append(r.Path, root)
	i := 0
	for i < len(tokens) {
		sub := cmd.FindCommand(tokens[i])
		if sub == nil {
			break
		}
		cmd = sub
		r.Path = append(r.Path, sub)
		i++
	}
	r.Command = cmd
	r.Tokens = tokens[i:]
	for _, o := range cmd.options {
		r.Options = append(r.Options, &OptionRun{Option: o})
	}
	for _, a := range cmd.arguments.items {
		r.Arguments = append(r.Arguments, &ArgumentRun{Argument: a})
	}
	return r
}

func releaseRun(r *Run) {
	runs.Put(r)
}
