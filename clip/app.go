package clip

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	clipio "github.com/dzonerzy/go-clip/io"
	"github.com/dzonerzy/go-clip/middleware"
)

// Special error types for graceful exits
var (
	ErrHelpShown    = errors.New("help shown")
	ErrVersionShown = errors.New("version shown")
)

// App runs handlers on top of a parsed command tree: automatic help and
// version options, error reporting, middleware and exit codes.
type App struct {
	root    *Command
	version string

	style    Style
	grouping Grouping

	helpEnabled bool

	beforeAction ActionFunc
	afterAction  ActionFunc
	middleware   []middleware.Middleware

	ioManager *clipio.IOManager
	logger    *clipio.Logger
	exitCodes *ExitCodeManager
}

// NewApp creates an app for the tree containing root.
func NewApp(root *Command) *App {
	return &App{
		root:        root.Root(),
		style:       PosixStyle{},
		helpEnabled: true,
		middleware:  make([]middleware.Middleware, 0),
	}
}

// Root returns the root command.
func (a *App) Root() *Command {
	return a.root
}

// Version sets the application version and enables --version on the root
// command.
func (a *App) Version(version string) *App {
	a.version = version
	return a
}

// Style selects the token syntax.
func (a *App) Style(s Style) *App {
	if s != nil {
		a.style = s
	}
	return a
}

// Grouping sets the requested grouping policy.
func (a *App) Grouping(g Grouping) *App {
	a.grouping = g
	return a
}

// DisableHelp disables the automatic help option.
func (a *App) DisableHelp() *App {
	a.helpEnabled = false
	return a
}

// Use adds middleware around every handler.
func (a *App) Use(mw ...middleware.Middleware) *App {
	a.middleware = append(a.middleware, mw...)
	return a
}

// Before sets a function to run before any command action
func (a *App) Before(fn ActionFunc) *App {
	a.beforeAction = fn
	return a
}

// After sets a function to run after any command action
func (a *App) After(fn ActionFunc) *App {
	a.afterAction = fn
	return a
}

// WithIO replaces the IO manager. It also drops the current logger, so
// call WithLogger afterwards when using a custom one.
func (a *App) WithIO(m *clipio.IOManager) *App {
	a.ioManager = m
	a.logger = nil
	return a
}

// WithLogger replaces the logger used for errors and parse traces.
func (a *App) WithLogger(l *clipio.Logger) *App {
	a.logger = l
	return a
}

// IO returns the application's IOManager for fluent configuration.
func (a *App) IO() *clipio.IOManager {
	if a.ioManager == nil {
		a.ioManager = clipio.New()
	}
	return a.ioManager
}

// Logger returns the application's logger, bound to IO().
func (a *App) Logger() *clipio.Logger {
	if a.logger == nil {
		a.logger = clipio.NewLogger(a.IO())
	}
	return a.logger
}

// ExitCodes returns the exit-code manager for this app.
func (a *App) ExitCodes() *ExitCodeManager {
	if a.exitCodes == nil {
		a.exitCodes = newExitCodeManager()
	}
	return a.exitCodes
}

// Parser returns a parser configured like the app.
func (a *App) Parser() *Parser {
	return NewParser(a.root, WithStyle(a.style), WithGrouping(a.grouping), WithLogger(a.Logger()))
}

// Run parses args and runs the innermost command's handler. Help and
// version requests return ErrHelpShown and ErrVersionShown after printing.
// Parse errors are reported on the IO manager's error writer and returned.
func (a *App) Run(ctx context.Context, args []string) error {
	parser := a.Parser()

	cmd, rest := parser.Resolve(args)
	if a.helpEnabled && a.helpRequested(cmd, rest) {
		if err := a.ShowHelp(cmd); err != nil {
			return err
		}
		return ErrHelpShown
	}
	if a.version != "" && cmd == a.root && a.versionRequested(cmd, rest) {
		fmt.Fprintln(a.IO().Out(), strings.TrimSpace(a.root.Name()+" "+a.version))
		return ErrVersionShown
	}

	res, err := parser.Parse(args)
	if err != nil {
		a.reportError(cmd, err)
		return err
	}

	execCtx := newContext(ctx, a, res)
	defer execCtx.Cancel()

	if a.beforeAction != nil {
		if err := a.beforeAction(execCtx); err != nil {
			return err
		}
	}

	actionErr := a.runCommand(execCtx, res.Command())

	if ee := execCtx.exitRequest(); ee != nil {
		actionErr = ee
	}

	if a.afterAction != nil {
		if err := a.afterAction(execCtx); err != nil && actionErr == nil {
			actionErr = err
		}
	}
	return actionErr
}

func (a *App) runCommand(ctx *Context, cmd *Command) error {
	if cmd.beforeAction != nil {
		if err := cmd.beforeAction(ctx); err != nil {
			return err
		}
	}

	var actionErr error
	if cmd.action != nil {
		actionErr = a.wrapActionWithMiddleware(cmd.action, ctx.Result.Commands())(ctx)
	} else {
		actionErr = a.ShowHelp(cmd)
	}

	if cmd.afterAction != nil {
		if err := cmd.afterAction(ctx); err != nil && actionErr == nil {
			actionErr = err
		}
	}
	return actionErr
}

// wrapActionWithMiddleware applies app middleware, then the middleware of
// every command on the path, root first.
func (a *App) wrapActionWithMiddleware(action ActionFunc, path []*Command) ActionFunc {
	all := make([]middleware.Middleware, 0, len(a.middleware))
	all = append(all, a.middleware...)
	for _, c := range path {
		all = append(all, c.middleware...)
	}
	if len(all) == 0 {
		return action
	}

	wrapped := middleware.Chain(all...).Apply(func(ctx middleware.Context) error {
		clipCtx, ok := ctx.(*Context)
		if !ok {
			return fmt.Errorf("invalid middleware context type %T", ctx)
		}
		return action(clipCtx)
	})

	return func(ctx *Context) error {
		return wrapped(ctx)
	}
}

// ShowHelp writes the help of cmd to the IO manager's output.
func (a *App) ShowHelp(cmd *Command) error {
	return newHelpPrinter(a.IO().Out(), a.IO(), a.style, a.helpEnabled).command(cmd)
}

func (a *App) reportError(cmd *Command, err error) {
	a.Logger().Error("%s", FormatError(err))

	var pe *ParseError
	if a.helpEnabled && errors.As(err, &pe) && pe.Code.IsUsage() {
		p := newHelpPrinter(nil, nil, a.style, true)
		fmt.Fprintf(a.IO().Err(), "Run '%s %s' for usage.\n",
			strings.Join(p.invocation(cmd), " "), p.helpToken())
	}
}

// helpRequested scans the tokens after the command path, up to "--", for
// the help option. A user option that claims the same name wins.
func (a *App) helpRequested(cmd *Command, tokens []string) bool {
	return scanOption(a.style, cmd, tokens, helpNames(a.style))
}

func (a *App) versionRequested(cmd *Command, tokens []string) bool {
	return scanOption(a.style, cmd, tokens, []string{"version"})
}

func helpNames(style Style) []string {
	if _, ok := style.(WindowsStyle); ok {
		return []string{"?", "help"}
	}
	return []string{"h", "help"}
}

func scanOption(style Style, cmd *Command, tokens []string, names []string) bool {
	_, windows := style.(WindowsStyle)
	for _, tok := range tokens {
		if tok == "--" {
			return false
		}
		var name string
		switch {
		case windows && (strings.HasPrefix(tok, "/") || strings.HasPrefix(tok, "-")):
			name = tok[1:]
		case strings.HasPrefix(tok, "--"):
			name = tok[2:]
		case strings.HasPrefix(tok, "-") && len(tok) == 2:
			name = tok[1:]
		default:
			continue
		}
		for _, n := range names {
			if name == n && cmd.FindOption(n) == nil {
				return true
			}
		}
	}
	return false
}

// RunAndGetExitCode runs the app on os.Args, canceling on interrupt, and
// returns the mapped exit code.
func (a *App) RunAndGetExitCode() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return a.ExitCodes().Resolve(a.Run(ctx, os.Args[1:]))
}

// RunAndExit executes the app and terminates the process with the mapped exit
// code. Equivalent to os.Exit(a.RunAndGetExitCode()).
func (a *App) RunAndExit() {
	os.Exit(a.RunAndGetExitCode())
}
