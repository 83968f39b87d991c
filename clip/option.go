package clip

import (
	"errors"
	"fmt"
)

// AllParameters is the validator index that applies to every parameter.
const AllParameters = -1

// ErrNoDefault may be returned by a default supplier to signal that it has
// no value to offer, which is then treated like a missing supplier.
var ErrNoDefault = errors.New("no default value")

// DefaultFunc supplies a value for an option or argument that received no
// input.
type DefaultFunc func() (any, error)

// Option is a named switch, optionally taking parameters.
type Option struct {
	Names       Names
	Description string
	ValueName   string // placeholder shown in help, e.g. FILE
	Hidden      bool
	EnvVars     []string // checked in order when the option does not occur
	Converter   Converter
	Formatter   Formatter
	Default     DefaultFunc
	DefaultText string // shown in help; set by OptionBuilder.Default

	usage      Usage
	validators map[int][]Validator
	owner      *Command
}

// NewOption creates an optional flag with the given case-sensitive names.
func NewOption(names ...string) (*Option, error) {
	o := &Option{usage: FlagUsage}
	if len(names) == 0 {
		return nil, newError(CodeMissingName, "option requires at least one name")
	}
	for _, n := range names {
		if err := o.Names.Add(n, true); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Name returns the primary name.
func (o *Option) Name() string {
	return o.Names.Primary()
}

// Usage returns the cardinality contract.
func (o *Option) Usage() Usage {
	return o.usage
}

// Shape returns the value shape derived from the usage.
func (o *Option) Shape() Shape {
	return o.usage.Shape()
}

// AddName registers another spelling, checking the owning command's other
// options for collisions.
func (o *Option) AddName(value string, caseSensitive bool) error {
	candidate := Names{{Value: value, CaseSensitive: caseSensitive}}
	if o.owner != nil {
		if err := o.owner.checkOptionNames(o, candidate); err != nil {
			return err
		}
	}
	return o.Names.Add(value, caseSensitive)
}

// SetCaseSensitive changes the sensitivity of every name of the option.
func (o *Option) SetCaseSensitive(caseSensitive bool) error {
	prev := make([]bool, len(o.Names))
	for i, n := range o.Names {
		prev[i] = n.CaseSensitive
	}
	if err := o.Names.SetCaseSensitive(caseSensitive); err != nil {
		return err
	}
	if o.owner != nil {
		if err := o.owner.checkOptionNames(o, o.Names); err != nil {
			for i := range o.Names {
				o.Names[i].CaseSensitive = prev[i]
			}
			return err
		}
	}
	return nil
}

// SetUsage replaces the cardinality contract. Registered validators must stay
// compatible with the new parameter bounds.
func (o *Option) SetUsage(u Usage) error {
	if err := u.Check(); err != nil {
		return o.annotate(err)
	}
	for index := range o.validators {
		if err := checkValidatorIndex(u, index); err != nil {
			return o.annotate(err)
		}
	}
	o.usage = u
	return nil
}

// AddValidator registers validators for a parameter index, or for every
// parameter with AllParameters.
func (o *Option) AddValidator(index int, vs ...Validator) error {
	if err := checkValidatorIndex(o.usage, index); err != nil {
		return o.annotate(err)
	}
	if o.validators == nil {
		o.validators = make(map[int][]Validator)
	}
	o.validators[index] = append(o.validators[index], vs...)
	return nil
}

// HasValidators reports whether any validator is registered.
func (o *Option) HasValidators() bool {
	return len(o.validators) > 0
}

// ValidatorsFor returns the validators that run on the parameter at index i of
// an occurrence: the index-specific ones for Individual parameters, followed
// by the AllParameters ones.
func (o *Option) ValidatorsFor(i int) []Validator {
	var out []Validator
	if o.usage.ParameterType == Individual {
		out = append(out, o.validators[i]...)
	}
	return append(out, o.validators[AllParameters]...)
}

func (o *Option) annotate(err error) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Option == "" {
		pe.Option = o.Name()
		pe.Message = "option '" + o.Name() + "': " + pe.Message
	}
	return err
}

func checkValidatorIndex(u Usage, index int) error {
	if !u.ParametersAllowed() {
		return newError(CodeValidatorNotAllowed, "validators not allowed on an option without parameters")
	}
	if index == AllParameters {
		return nil
	}
	if index < 0 || index >= u.MaxParameters {
		return newError(CodeParameterIndexOutOfRange, "parameter index %d out of range for max parameters %d", index, u.MaxParameters)
	}
	return nil
}

// OptionBuilder configures an option fluently. The first failure is recorded
// on the root command and returned by Parse.
type OptionBuilder struct {
	option *Option
	parent *Command
}

func (b *OptionBuilder) record(err error) *OptionBuilder {
	if err != nil {
		b.parent.recordErr(err)
	}
	return b
}

// Option returns the option being built.
func (b *OptionBuilder) Option() *Option {
	return b.option
}

// Usage replaces the whole cardinality contract.
func (b *OptionBuilder) Usage(u Usage) *OptionBuilder {
	return b.record(b.option.SetUsage(u))
}

// Required makes the option occur at least once.
func (b *OptionBuilder) Required() *OptionBuilder {
	u := b.option.usage
	u.MinOccurrences = max(u.MinOccurrences, 1)
	return b.Usage(u)
}

// Occurrences sets the occurrence bounds.
func (b *OptionBuilder) Occurrences(minOcc, maxOcc int) *OptionBuilder {
	u := b.option.usage
	u.MinOccurrences, u.MaxOccurrences = minOcc, maxOcc
	return b.Usage(u)
}

// Parameters sets the per-occurrence parameter bounds.
func (b *OptionBuilder) Parameters(minParams, maxParams int) *OptionBuilder {
	u := b.option.usage
	u.MinParameters, u.MaxParameters = minParams, maxParams
	return b.Usage(u)
}

// Individual marks parameters as positionally meaningful.
func (b *OptionBuilder) Individual() *OptionBuilder {
	b.option.usage.ParameterType = Individual
	return b
}

// Repeating marks parameters as interchangeable.
func (b *OptionBuilder) Repeating() *OptionBuilder {
	b.option.usage.ParameterType = Repeating
	return b
}

// Validate adds validators that run on every parameter.
func (b *OptionBuilder) Validate(vs ...Validator) *OptionBuilder {
	return b.record(b.option.AddValidator(AllParameters, vs...))
}

// ValidateAt adds validators for one parameter index. Only Individual options
// run them.
func (b *OptionBuilder) ValidateAt(index int, vs ...Validator) *OptionBuilder {
	return b.record(b.option.AddValidator(index, vs...))
}

// Convert sets the type converter.
func (b *OptionBuilder) Convert(c Converter) *OptionBuilder {
	b.option.Converter = c
	return b
}

// Int converts parameters to int.
func (b *OptionBuilder) Int() *OptionBuilder { return b.Convert(Int) }

// Float converts parameters to float64.
func (b *OptionBuilder) Float() *OptionBuilder { return b.Convert(Float) }

// Bool converts parameters to bool.
func (b *OptionBuilder) Bool() *OptionBuilder { return b.Convert(Bool) }

// Duration converts parameters to time.Duration.
func (b *OptionBuilder) Duration() *OptionBuilder { return b.Convert(Duration) }

// UUID converts parameters to uuid.UUID.
func (b *OptionBuilder) UUID() *OptionBuilder { return b.Convert(UUID) }

// Semver converts parameters to *semver.Version.
func (b *OptionBuilder) Semver() *OptionBuilder { return b.Convert(Semver) }

// Enum restricts parameters to values, normalized to their declared spelling.
func (b *OptionBuilder) Enum(values ...string) *OptionBuilder {
	return b.Convert(Enum(values...))
}

// Format sets a raw-value transform applied before conversion.
func (b *OptionBuilder) Format(f Formatter) *OptionBuilder {
	b.option.Formatter = f
	return b
}

// Default sets a constant default value.
func (b *OptionBuilder) Default(value any) *OptionBuilder {
	b.option.Default = func() (any, error) { return value, nil }
	b.option.DefaultText = fmt.Sprint(value)
	return b
}

// DefaultFunc sets a default supplier.
func (b *OptionBuilder) DefaultFunc(fn DefaultFunc) *OptionBuilder {
	b.option.Default = fn
	return b
}

// FromEnv binds environment variables, checked in order.
func (b *OptionBuilder) FromEnv(vars ...string) *OptionBuilder {
	b.option.EnvVars = append(b.option.EnvVars, vars...)
	return b
}

// Alias registers another name with the sensitivity of the primary name.
func (b *OptionBuilder) Alias(name string) *OptionBuilder {
	cs := len(b.option.Names) == 0 || b.option.Names[0].CaseSensitive
	return b.record(b.option.AddName(name, cs))
}

// CaseSensitive sets the sensitivity of every name.
func (b *OptionBuilder) CaseSensitive(caseSensitive bool) *OptionBuilder {
	return b.record(b.option.SetCaseSensitive(caseSensitive))
}

// Describe sets the help description.
func (b *OptionBuilder) Describe(description string) *OptionBuilder {
	b.option.Description = description
	return b
}

// Placeholder sets the parameter placeholder shown in help.
func (b *OptionBuilder) Placeholder(name string) *OptionBuilder {
	b.option.ValueName = name
	return b
}

// Hidden hides the option from help output.
func (b *OptionBuilder) Hidden() *OptionBuilder {
	b.option.Hidden = true
	return b
}

// Back returns to the owning command.
func (b *OptionBuilder) Back() *Command {
	return b.parent
}
