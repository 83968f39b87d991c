package clip

import "fmt"

// Argument is a positional value, identified by its order.
type Argument struct {
	Name        string
	Description string
	EnvVars     []string
	Converter   Converter
	Formatter   Formatter
	Default     DefaultFunc
	DefaultText string // shown in help; set by ArgumentBuilder.Default
	Validators  []Validator

	// MaxOccurrences above 1 lets the last argument capture up to that many
	// remaining tokens as a list. It is ignored on any other position.
	MaxOccurrences int

	optional bool
	owner    *Arguments
}

// NewArgument creates a required single-value argument.
func NewArgument(name string) (*Argument, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return &Argument{Name: name, MaxOccurrences: 1}, nil
}

// Optional reports whether the argument may be omitted.
func (a *Argument) Optional() bool {
	return a.optional
}

// SetOptional changes optionality. When the argument belongs to a collection
// the ordering invariant is re-checked around it and the change is undone on
// failure.
func (a *Argument) SetOptional(optional bool) error {
	prev := a.optional
	a.optional = optional
	if a.owner == nil {
		return nil
	}
	if err := a.owner.checkFrom(a.owner.indexOf(a)); err != nil {
		a.optional = prev
		return err
	}
	return nil
}

// Repeats reports whether the argument can capture several tokens.
func (a *Argument) Repeats() bool {
	return a.MaxOccurrences > 1
}

// Arguments is the ordered positional argument list of a command. Optional
// arguments may only form a tail of the list.
type Arguments struct {
	items []*Argument
}

// Len returns the number of arguments.
func (as *Arguments) Len() int {
	return len(as.items)
}

// At returns the argument at position i.
func (as *Arguments) At(i int) *Argument {
	return as.items[i]
}

// All returns the arguments in order. The slice must not be modified.
func (as *Arguments) All() []*Argument {
	return as.items
}

// Get finds an argument by name.
func (as *Arguments) Get(name string) (*Argument, bool) {
	for _, a := range as.items {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Add appends an argument.
func (as *Arguments) Add(a *Argument) error {
	return as.Insert(len(as.items), a)
}

// Insert places an argument at position i, shifting later ones.
func (as *Arguments) Insert(i int, a *Argument) error {
	if i < 0 || i > len(as.items) {
		return newError(CodeInvalidArgumentIndex, "argument index %d out of range [0, %d]", i, len(as.items))
	}
	if err := as.checkAdoptable(a, nil); err != nil {
		return err
	}
	as.items = append(as.items, nil)
	copy(as.items[i+1:], as.items[i:])
	as.items[i] = a
	if err := as.checkFrom(i); err != nil {
		as.items = append(as.items[:i], as.items[i+1:]...)
		return err
	}
	a.owner = as
	return nil
}

// Set replaces the argument at position i.
func (as *Arguments) Set(i int, a *Argument) error {
	if i < 0 || i >= len(as.items) {
		return newError(CodeInvalidArgumentIndex, "argument index %d out of range [0, %d)", i, len(as.items))
	}
	prev := as.items[i]
	if err := as.checkAdoptable(a, prev); err != nil {
		return err
	}
	as.items[i] = a
	if err := as.checkFrom(i); err != nil {
		as.items[i] = prev
		return err
	}
	prev.owner = nil
	a.owner = as
	return nil
}

// Remove deletes the argument at position i.
func (as *Arguments) Remove(i int) error {
	if i < 0 || i >= len(as.items) {
		return newError(CodeInvalidArgumentIndex, "argument index %d out of range [0, %d)", i, len(as.items))
	}
	removed := as.items[i]
	as.items = append(as.items[:i], as.items[i+1:]...)
	if err := as.checkFrom(i); err != nil {
		as.items = append(as.items[:i], append([]*Argument{removed}, as.items[i:]...)...)
		return err
	}
	removed.owner = nil
	return nil
}

func (as *Arguments) checkAdoptable(a, replacing *Argument) error {
	if a == nil {
		return newError(CodeMissingName, "argument cannot be nil")
	}
	if err := ValidateName(a.Name); err != nil {
		return err
	}
	if a.owner != nil && a.owner != as {
		return newError(CodeDuplicateName, "argument '%s' already belongs to another command", a.Name)
	}
	if a.MaxOccurrences < 1 {
		a.MaxOccurrences = 1
	}
	for _, existing := range as.items {
		if existing == replacing {
			continue
		}
		if existing == a || existing.Name == a.Name {
			return &ParseError{
				Code:     CodeDuplicateName,
				Message:  "duplicate argument name '" + a.Name + "'",
				Argument: a.Name,
			}
		}
	}
	return nil
}

// checkFrom verifies the optional-tail invariant starting one position before
// i, the only place a mutation at i can break it.
func (as *Arguments) checkFrom(i int) error {
	for j := max(i, 1); j < len(as.items); j++ {
		if as.items[j-1].optional && !as.items[j].optional {
			return &ParseError{
				Code:     CodeRequiredAfterOptional,
				Message:  "required arguments defined after optional: '" + as.items[j].Name + "' follows optional '" + as.items[j-1].Name + "'",
				Argument: as.items[j].Name,
			}
		}
	}
	return nil
}

func (as *Arguments) indexOf(a *Argument) int {
	for i, item := range as.items {
		if item == a {
			return i
		}
	}
	return 0
}

// requiredCount is the number of leading required arguments.
func (as *Arguments) requiredCount() int {
	n := 0
	for _, a := range as.items {
		if a.optional {
			break
		}
		n++
	}
	return n
}

// capacity is the maximum number of positional tokens the list accepts.
func (as *Arguments) capacity() int {
	if len(as.items) == 0 {
		return 0
	}
	last := as.items[len(as.items)-1].MaxOccurrences
	if last >= Unbounded-len(as.items) {
		return Unbounded
	}
	return len(as.items) - 1 + max(last, 1)
}

// ArgumentBuilder configures an argument fluently. The first failure is
// recorded on the root command and returned by Parse.
type ArgumentBuilder struct {
	argument *Argument
	parent   *Command
}

func (b *ArgumentBuilder) record(err error) *ArgumentBuilder {
	if err != nil {
		b.parent.recordErr(err)
	}
	return b
}

// Argument returns the argument being built.
func (b *ArgumentBuilder) Argument() *Argument {
	return b.argument
}

// Optional allows the argument to be omitted.
func (b *ArgumentBuilder) Optional() *ArgumentBuilder {
	return b.record(b.argument.SetOptional(true))
}

// Repeat lets the argument capture up to max tokens. Use Unbounded for all
// remaining tokens.
func (b *ArgumentBuilder) Repeat(maxTokens int) *ArgumentBuilder {
	if maxTokens < 1 {
		return b.record(&ParseError{
			Code:     CodeInvalidUsage,
			Message:  "argument '" + b.argument.Name + "': repeat count must be at least 1",
			Argument: b.argument.Name,
		})
	}
	b.argument.MaxOccurrences = maxTokens
	return b
}

// Validate adds validators run on each raw token.
func (b *ArgumentBuilder) Validate(vs ...Validator) *ArgumentBuilder {
	b.argument.Validators = append(b.argument.Validators, vs...)
	return b
}

// Convert sets the type converter.
func (b *ArgumentBuilder) Convert(c Converter) *ArgumentBuilder {
	b.argument.Converter = c
	return b
}

// Int converts the argument to int.
func (b *ArgumentBuilder) Int() *ArgumentBuilder { return b.Convert(Int) }

// Float converts the argument to float64.
func (b *ArgumentBuilder) Float() *ArgumentBuilder { return b.Convert(Float) }

// Duration converts the argument to time.Duration.
func (b *ArgumentBuilder) Duration() *ArgumentBuilder { return b.Convert(Duration) }

// UUID converts the argument to uuid.UUID.
func (b *ArgumentBuilder) UUID() *ArgumentBuilder { return b.Convert(UUID) }

// Semver converts the argument to *semver.Version.
func (b *ArgumentBuilder) Semver() *ArgumentBuilder { return b.Convert(Semver) }

// Enum restricts the argument to values.
func (b *ArgumentBuilder) Enum(values ...string) *ArgumentBuilder {
	return b.Convert(Enum(values...))
}

// Format sets a raw-value transform applied before conversion.
func (b *ArgumentBuilder) Format(f Formatter) *ArgumentBuilder {
	b.argument.Formatter = f
	return b
}

// Default sets a constant default and makes the argument optional.
func (b *ArgumentBuilder) Default(value any) *ArgumentBuilder {
	b.argument.Default = func() (any, error) { return value, nil }
	b.argument.DefaultText = fmt.Sprint(value)
	return b.Optional()
}

// DefaultFunc sets a default supplier and makes the argument optional.
func (b *ArgumentBuilder) DefaultFunc(fn DefaultFunc) *ArgumentBuilder {
	b.argument.Default = fn
	return b.Optional()
}

// FromEnv binds environment variables, checked in order when no token was
// supplied.
func (b *ArgumentBuilder) FromEnv(vars ...string) *ArgumentBuilder {
	b.argument.EnvVars = append(b.argument.EnvVars, vars...)
	return b
}

// Describe sets the help description.
func (b *ArgumentBuilder) Describe(description string) *ArgumentBuilder {
	b.argument.Description = description
	return b
}

// Back returns to the owning command.
func (b *ArgumentBuilder) Back() *Command {
	return b.parent
}
