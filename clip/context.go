package clip

import (
	"context"
	stdio "io"
	"sync"
	"time"

	clipio "github.com/dzonerzy/go-clip/io"
	"github.com/dzonerzy/go-clip/middleware"
)

// ActionFunc is a command handler, also used for Before and After hooks.
type ActionFunc func(*Context) error

const exitKey = "__exit_error__"

// Context is what a handler sees: the parse result, the app's IO and a
// cancellable Go context.
type Context struct {
	App    *App
	Result *Result

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	metadata map[string]any
}

func newContext(parent context.Context, app *App, res *Result) *Context {
	ctx, cancel := context.WithCancel(parent)
	return &Context{App: app, Result: res, ctx: ctx, cancel: cancel}
}

// Context returns the underlying Go context.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Done returns a channel that's closed when the invocation is canceled.
func (c *Context) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Err returns a non-nil error value after Done is closed.
func (c *Context) Err() error {
	return c.ctx.Err()
}

// Cancel cancels the context
func (c *Context) Cancel() {
	if c.cancel != nil {
		c.cancel()
	}
}

// Set stores a key-value pair in the context metadata
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.metadata == nil {
		c.metadata = make(map[string]any)
	}
	c.metadata[key] = value
}

// Get retrieves a value from the context metadata
func (c *Context) Get(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metadata[key]
}

// Exit requests a specific process exit code and cancels the context; the
// app reports it once the handler returns.
func (c *Context) Exit(code int) {
	c.ExitWithError(nil, code)
}

// ExitWithError is Exit with an error to report.
func (c *Context) ExitWithError(err error, code int) {
	c.Set(exitKey, &ExitError{Code: code, Err: err})
	c.Cancel()
}

func (c *Context) exitRequest() *ExitError {
	ee, _ := c.Get(exitKey).(*ExitError)
	return ee
}

// Command returns the innermost matched command.
func (c *Context) Command() middleware.Command {
	return c.Result.Command()
}

// Args returns the raw positional tokens.
func (c *Context) Args() []string {
	return c.Result.Arguments()
}

// NArgs returns the number of positional tokens.
func (c *Context) NArgs() int {
	return len(c.Result.Arguments())
}

// Arg returns the i-th positional token, or "".
func (c *Context) Arg(i int) string {
	args := c.Result.Arguments()
	if i < 0 || i >= len(args) {
		return ""
	}
	return args[i]
}

func (c *Context) String(name string) (string, bool)          { return c.Result.String(name) }
func (c *Context) Int(name string) (int, bool)                { return c.Result.Int(name) }
func (c *Context) Bool(name string) (bool, bool)              { return c.Result.Bool(name) }
func (c *Context) Float(name string) (float64, bool)          { return c.Result.Float(name) }
func (c *Context) Duration(name string) (time.Duration, bool) { return c.Result.Duration(name) }
func (c *Context) Strings(name string) ([]string, bool)       { return c.Result.Strings(name) }
func (c *Context) IsSet(name string) bool                     { return c.Result.IsSet(name) }

// Value returns the resolved value of an option or argument.
func (c *Context) Value(name string) (any, bool) {
	return c.Result.Value(name)
}

// IO returns the app's IO manager.
func (c *Context) IO() *clipio.IOManager { return c.App.IO() }

// Logger returns the app's logger.
func (c *Context) Logger() *clipio.Logger { return c.App.Logger() }

func (c *Context) Stdout() stdio.Writer { return c.App.IO().Out() }
func (c *Context) Stderr() stdio.Writer { return c.App.IO().Err() }
func (c *Context) Stdin() stdio.Reader  { return c.App.IO().In() }
