package clip

import (
	"github.com/dzonerzy/go-clip/middleware"
)

// Command is a node of the grammar tree. Only the root may be unnamed.
type Command struct {
	Names Names

	description string
	helpText    string
	hidden      bool

	parent    *Command
	options   []*Option
	arguments Arguments
	commands  []*Command

	validator    func(*Result) error
	action       ActionFunc
	beforeAction ActionFunc
	afterAction  ActionFunc
	middleware   []middleware.Middleware

	err error // first builder failure, kept on the root
}

// New creates a root command. The name may be empty.
func New(name, description string) *Command {
	c := &Command{description: description}
	if name != "" {
		c.recordErr(c.Names.Add(name, true))
	}
	return c
}

// Name returns the primary name (implements middleware.Command).
func (c *Command) Name() string {
	return c.Names.Primary()
}

// Description returns the one-line description (implements
// middleware.Command).
func (c *Command) Description() string {
	return c.description
}

// LongHelp returns the detailed help text.
func (c *Command) LongHelp() string {
	return c.helpText
}

// IsHidden reports whether the command is hidden from help.
func (c *Command) IsHidden() bool {
	return c.hidden
}

// Parent returns the parent command, nil for the root.
func (c *Command) Parent() *Command {
	return c.parent
}

// Root walks up to the root command.
func (c *Command) Root() *Command {
	r := c
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Path returns the primary names from the root down to c, skipping an
// unnamed root.
func (c *Command) Path() []string {
	var path []string
	for n := c; n != nil; n = n.parent {
		if name := n.Name(); name != "" {
			path = append(path, name)
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Options returns the command's own options.
func (c *Command) Options() []*Option {
	return c.options
}

// Arguments returns the positional argument list.
func (c *Command) Arguments() *Arguments {
	return &c.arguments
}

// Commands returns the direct sub-commands.
func (c *Command) Commands() []*Command {
	return c.commands
}

// Err returns the first structural error recorded by the fluent builders
// anywhere in the tree.
func (c *Command) Err() error {
	return c.Root().err
}

func (c *Command) recordErr(err error) {
	if err == nil {
		return
	}
	root := c.Root()
	if root.err == nil {
		root.err = err
	}
}

// FindOption returns the option one of whose names matches name.
func (c *Command) FindOption(name string) *Option {
	for _, o := range c.options {
		if o.Names.Matches(name) {
			return o
		}
	}
	return nil
}

// FindCommand returns the direct child matching token.
func (c *Command) FindCommand(token string) *Command {
	for _, sub := range c.commands {
		if sub.Names.Matches(token) {
			return sub
		}
	}
	return nil
}

// AddOption attaches an option, rejecting name collisions with the other
// options of the command.
func (c *Command) AddOption(o *Option) error {
	if o == nil || len(o.Names) == 0 {
		return newError(CodeMissingName, "option requires at least one name")
	}
	if o.owner != nil {
		return newError(CodeDuplicateName, "option '%s' already belongs to a command", o.Name())
	}
	if err := c.checkOptionNames(o, o.Names); err != nil {
		return err
	}
	o.owner = c
	c.options = append(c.options, o)
	return nil
}

func (c *Command) checkOptionNames(self *Option, names Names) error {
	for _, other := range c.options {
		if other == self {
			continue
		}
		if name, ok := other.Names.Conflict(names); ok {
			return &ParseError{
				Code:    CodeDuplicateName,
				Message: "duplicate option name '" + name + "' in command '" + c.displayName() + "'",
				Command: c.Name(),
				Option:  name,
			}
		}
	}
	return nil
}

// AddArgument appends a positional argument.
func (c *Command) AddArgument(a *Argument) error {
	return c.annotate(c.arguments.Add(a))
}

// AddCommand attaches a child. Sibling name sets must be disjoint. Errors the
// child recorded while it was detached move to this tree.
func (c *Command) AddCommand(child *Command) error {
	if child == nil || len(child.Names) == 0 {
		return newError(CodeMissingName, "sub-command of '%s' requires a name", c.displayName())
	}
	if child.parent != nil {
		return newError(CodeDuplicateName, "command '%s' already has a parent", child.Name())
	}
	if err := c.checkCommandNames(child, child.Names); err != nil {
		return err
	}
	child.parent = c
	c.commands = append(c.commands, child)
	if child.err != nil {
		c.recordErr(child.err)
		child.err = nil
	}
	return nil
}

func (c *Command) checkCommandNames(self *Command, names Names) error {
	for _, sibling := range c.commands {
		if sibling == self {
			continue
		}
		if name, ok := sibling.Names.Conflict(names); ok {
			return &ParseError{
				Code:    CodeDuplicateName,
				Message: "duplicate command name '" + name + "' under '" + c.displayName() + "'",
				Command: name,
			}
		}
	}
	return nil
}

func (c *Command) annotate(err error) error {
	if pe, ok := err.(*ParseError); ok && pe.Command == "" {
		pe.Command = c.Name()
	}
	return err
}

func (c *Command) displayName() string {
	if name := c.Name(); name != "" {
		return name
	}
	return "<root>"
}

// Builder API

// Command creates and attaches a sub-command, returning the child for
// chaining. Use Back to return to c.
func (c *Command) Command(name, description string, aliases ...string) *Command {
	child := &Command{description: description}
	if err := child.Names.Add(name, true); err != nil {
		c.recordErr(err)
		child.parent = c
		return child
	}
	for _, alias := range aliases {
		if err := child.Names.Add(alias, true); err != nil {
			c.recordErr(err)
		}
	}
	c.recordErr(c.AddCommand(child))
	if child.parent == nil {
		// keep builder errors flowing to this tree even when rejected
		child.parent = c
	}
	return child
}

// Back returns the parent command, or c itself for the root.
func (c *Command) Back() *Command {
	if c.parent == nil {
		return c
	}
	return c.parent
}

// Option creates and attaches an option with the given case-sensitive names.
// It starts as an optional flag; the builder adjusts its usage.
func (c *Command) Option(names ...string) *OptionBuilder {
	o, err := NewOption(names...)
	if err != nil {
		c.recordErr(c.annotate(err))
		o = &Option{usage: FlagUsage}
		return &OptionBuilder{option: o, parent: c}
	}
	c.recordErr(c.AddOption(o))
	return &OptionBuilder{option: o, parent: c}
}

// Argument creates and appends a required positional argument.
func (c *Command) Argument(name string) *ArgumentBuilder {
	a, err := NewArgument(name)
	if err != nil {
		c.recordErr(c.annotate(err))
		a = &Argument{Name: name, MaxOccurrences: 1}
		return &ArgumentBuilder{argument: a, parent: c}
	}
	c.recordErr(c.AddArgument(a))
	return &ArgumentBuilder{argument: a, parent: c}
}

// Alias adds alternate names with the sensitivity of the primary name.
func (c *Command) Alias(aliases ...string) *Command {
	cs := len(c.Names) == 0 || c.Names[0].CaseSensitive
	for _, alias := range aliases {
		candidate := Names{{Value: alias, CaseSensitive: cs}}
		if c.parent != nil {
			if err := c.parent.checkCommandNames(c, candidate); err != nil {
				c.recordErr(err)
				continue
			}
		}
		c.recordErr(c.Names.Add(alias, cs))
	}
	return c
}

// CaseSensitive sets the sensitivity of every command name.
func (c *Command) CaseSensitive(caseSensitive bool) *Command {
	prev := make([]bool, len(c.Names))
	for i, n := range c.Names {
		prev[i] = n.CaseSensitive
	}
	if err := c.Names.SetCaseSensitive(caseSensitive); err != nil {
		c.recordErr(err)
		return c
	}
	if c.parent != nil {
		if err := c.parent.checkCommandNames(c, c.Names); err != nil {
			for i := range c.Names {
				c.Names[i].CaseSensitive = prev[i]
			}
			c.recordErr(err)
		}
	}
	return c
}

// Validate sets a whole-command validator run after resolution.
func (c *Command) Validate(fn func(*Result) error) *Command {
	c.validator = fn
	return c
}

// Action sets the handler run by App when this is the innermost command.
func (c *Command) Action(fn ActionFunc) *Command {
	c.action = fn
	return c
}

// Before sets a function to run before the action.
func (c *Command) Before(fn ActionFunc) *Command {
	c.beforeAction = fn
	return c
}

// After sets a function to run after the action.
func (c *Command) After(fn ActionFunc) *Command {
	c.afterAction = fn
	return c
}

// Use adds command-level middleware.
func (c *Command) Use(mw ...middleware.Middleware) *Command {
	c.middleware = append(c.middleware, mw...)
	return c
}

// Hidden hides the command from help.
func (c *Command) Hidden() *Command {
	c.hidden = true
	return c
}

// HelpText sets detailed help text.
func (c *Command) HelpText(text string) *Command {
	c.helpText = text
	return c
}

// Describe sets the one-line description.
func (c *Command) Describe(description string) *Command {
	c.description = description
	return c
}

// HasAction reports whether a handler is set.
func (c *Command) HasAction() bool {
	return c.action != nil
}
