// Package middleware provides handler middleware for clip applications:
// Logger, Recovery, Timeout and Validator.
package middleware

import (
	"context"
	"fmt"
	"time"
)

// The clip package imports this package; its *clip.Context and *clip.Command
// satisfy the interfaces below, which keeps the import graph acyclic.

// Context is the view of a running command that middleware relies on. It is
// implemented by *clip.Context.
type Context interface {
	// Context returns the Go context of the current invocation.
	Context() context.Context

	// Done is closed when the invocation is canceled or times out.
	Done() <-chan struct{}

	// Cancel cancels the invocation. It is idempotent.
	Cancel()

	// Args returns the raw positional tokens of the innermost command.
	Args() []string

	// Set stores a value for later middleware or the handler. Keys should be
	// namespaced, e.g. "logger.start".
	Set(key string, value any)

	// Get returns a value stored with Set, or nil.
	Get(key string) any

	// Typed accessors look an option up by any of its names, then an
	// argument by name. The boolean reports whether a value of that type
	// resolved from input, environment or a default.
	String(name string) (string, bool)
	Int(name string) (int, bool)
	Bool(name string) (bool, bool)
	Duration(name string) (time.Duration, bool)
	Float(name string) (float64, bool)
	Strings(name string) ([]string, bool)

	// IsSet reports whether an option or argument has any value.
	IsSet(name string) bool

	// Command returns the innermost matched command.
	Command() Command
}

// Command is satisfied by *clip.Command.
type Command interface {
	Name() string
	Description() string
}

// ActionFunc represents command action function signature
type ActionFunc func(ctx Context) error

// Middleware defines the middleware function signature
type Middleware func(next ActionFunc) ActionFunc

// MiddlewareChain represents a chain of middleware functions
type MiddlewareChain []Middleware

// Apply wraps action so that the first middleware in the chain runs first.
func (chain MiddlewareChain) Apply(action ActionFunc) ActionFunc {
	for i := len(chain) - 1; i >= 0; i-- {
		action = chain[i](action)
	}
	return action
}

// Use returns a new chain with the provided middleware appended.
func (chain MiddlewareChain) Use(middleware ...Middleware) MiddlewareChain {
	return append(chain[:len(chain):len(chain)], middleware...)
}

// Chain creates a new middleware chain from the provided middleware, preserving
// order.
func Chain(middleware ...Middleware) MiddlewareChain {
	return MiddlewareChain(middleware)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Value   any
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// TimeoutError represents a timeout error
type TimeoutError struct {
	Duration time.Duration
	Command  string
}

func (e *TimeoutError) Error() string {
	return "command '" + e.Command + "' timed out after " + e.Duration.String()
}

// RecoveryError represents a panic recovery
type RecoveryError struct {
	Panic   any
	Command string
	Stack   []byte
}

func (e *RecoveryError) Error() string {
	return "command '" + e.Command + "' panicked: " + toString(e.Panic)
}

// MiddlewareConfig contains configuration for middleware behavior
type MiddlewareConfig struct {
	LogLevel         LogLevel
	LogFormat        LogFormat
	IncludeArgs      bool
	PrintStack       bool
	StackSize        int
	DefaultTimeout   time.Duration
	CustomValidators map[string]ValidatorFunc
}

// LogLevel represents logging levels
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// LogFormat represents log formats
type LogFormat int

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

// RequestInfo describes one handler invocation.
type RequestInfo struct {
	Command   string
	Args      []string
	StartTime time.Time
	Duration  time.Duration
	Error     error
}

// MiddlewareOption configures a middleware.
type MiddlewareOption func(config *MiddlewareConfig)

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		LogLevel:         LogLevelInfo,
		LogFormat:        LogFormatText,
		IncludeArgs:      true,
		PrintStack:       true,
		StackSize:        4096,
		DefaultTimeout:   30 * time.Second,
		CustomValidators: make(map[string]ValidatorFunc),
	}
}

func WithLogLevel(level LogLevel) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.LogLevel = level
	}
}

func WithLogFormat(format LogFormat) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.LogFormat = format
	}
}

func WithArgs(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.IncludeArgs = enabled
	}
}

func WithTimeout(timeout time.Duration) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.DefaultTimeout = timeout
	}
}

func WithStackTrace(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.PrintStack = enabled
	}
}

func newConfig(options []MiddlewareOption) *MiddlewareConfig {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}
	return config
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return x
	case error:
		return x.Error()
	default:
		return fmt.Sprint(x)
	}
}

func getCommandName(ctx Context) string {
	cmd := ctx.Command()
	if cmd == nil || cmd.Name() == "" {
		return "<root>"
	}
	return cmd.Name()
}
