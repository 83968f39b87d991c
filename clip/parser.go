package clip

import (
	"errors"
	"strings"

	clipio "github.com/dzonerzy/go-clip/io"
)

// ParseState is the phase a parse is in; it appears in debug traces.
type ParseState int

const (
	StateInit ParseState = iota
	StateCommandResolution
	StateTokenization
	StateOptionValidation
	StateArgumentValidation
	StateComplete
	StateError
)

func (s ParseState) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateCommandResolution:
		return "command-resolution"
	case StateTokenization:
		return "tokenization"
	case StateOptionValidation:
		return "option-validation"
	case StateArgumentValidation:
		return "argument-validation"
	case StateComplete:
		return "complete"
	default:
		return "error"
	}
}

// Parser parses token lists against a command tree. A Parser holds no
// per-parse state and is safe for concurrent use once the tree is built.
type Parser struct {
	root     *Command
	style    Style
	grouping Grouping
	logger   *clipio.Logger
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithStyle selects the token syntax. The default is PosixStyle.
func WithStyle(s Style) ParserOption {
	return func(p *Parser) {
		if s != nil {
			p.style = s
		}
	}
}

// WithGrouping sets the requested grouping; the style may override it.
func WithGrouping(g Grouping) ParserOption {
	return func(p *Parser) { p.grouping = g }
}

// WithLogger enables debug traces of every parse.
func WithLogger(l *clipio.Logger) ParserOption {
	return func(p *Parser) { p.logger = l }
}

// NewParser creates a parser for the tree rooted at root.
func NewParser(root *Command, opts ...ParserOption) *Parser {
	p := &Parser{root: root.Root(), style: PosixStyle{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse is a shorthand for NewParser(root, opts...).Parse(tokens).
func Parse(root *Command, tokens []string, opts ...ParserOption) (*Result, error) {
	return NewParser(root, opts...).Parse(tokens)
}

// Style returns the configured style.
func (p *Parser) Style() Style {
	return p.style
}

// Resolve returns the innermost command named by the leading tokens and the
// tokens left after it, without classifying or validating anything.
func (p *Parser) Resolve(tokens []string) (*Command, []string) {
	r := buildRun(p.root, tokens)
	defer releaseRun(r)
	return r.Command, r.Tokens
}

// Parse classifies tokens and resolves every option and argument of the
// innermost command. It returns exactly one error, the first one found.
func (p *Parser) Parse(tokens []string) (*Result, error) {
	if err := p.root.Err(); err != nil {
		return nil, err
	}

	r := buildRun(p.root, tokens)
	defer releaseRun(r)
	if p.logger.Enabled(clipio.LevelDebug) {
		p.trace(StateCommandResolution, "command %q, %d tokens left", strings.Join(r.Command.Path(), " "), len(r.Tokens))
	}

	if err := p.style.ValidateOptions(r.Command.options); err != nil {
		return nil, p.fail(r, err)
	}
	r.grouping = p.style.Grouping(p.grouping, r.Command.options, &r.Command.arguments)

	positional, err := p.style.IdentifyTokens(r.Tokens, r.Options, r.grouping)
	if err != nil {
		return nil, p.fail(r, err)
	}
	r.positional = positional
	if p.logger.Enabled(clipio.LevelDebug) {
		p.trace(StateTokenization, "style %s, grouping %s", p.style.Name(), r.grouping)
		for _, or := range r.Options {
			for i := range or.Occurrences() {
				p.trace(StateTokenization, "option %s occurrence %d: %q", or.Option.Name(), i+1, or.Occurrence(i))
			}
		}
		p.trace(StateTokenization, "positional %q", positional)
	}

	if err := p.resolveOptions(r); err != nil {
		return nil, p.fail(r, err)
	}
	p.trace(StateOptionValidation, "%d options resolved", len(r.Options))

	if err := p.resolveArguments(r); err != nil {
		return nil, p.fail(r, err)
	}
	p.trace(StateArgumentValidation, "%d arguments resolved", len(r.Arguments))

	res := newResult(r)
	if v := r.Command.validator; v != nil {
		if err := v(res); err != nil {
			return nil, p.fail(r, commandValidationError(r.Command, err))
		}
	}
	p.trace(StateComplete, "ok")
	return res, nil
}

func commandValidationError(c *Command, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		cp := *pe
		return &cp
	}
	return &ParseError{
		Code:    CodeCommandValidation,
		Message: err.Error(),
		Command: c.Name(),
		Err:     err,
	}
}

func (p *Parser) fail(r *Run, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Command == "" {
		pe.Command = r.Command.Name()
	}
	p.trace(StateError, "%v", err)
	return err
}

func (p *Parser) trace(state ParseState, format string, args ...any) {
	if !p.logger.Enabled(clipio.LevelDebug) {
		return
	}
	p.logger.Debug("[%s] "+format, append([]any{state}, args...)...)
}

func (p *Parser) debugf(format string, args ...any) {
	p.logger.Debug(format, args...)
}
