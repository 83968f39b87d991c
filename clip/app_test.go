package clip

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	clipio "github.com/dzonerzy/go-clip/io"
	"github.com/dzonerzy/go-clip/middleware"
)

func testApp(t *testing.T, root *Command) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	t.Setenv("COLUMNS", "")
	var out, errOut bytes.Buffer
	app := NewApp(root).WithIO(clipio.New().WithOut(&out).WithErr(&errOut))
	return app, &out, &errOut
}

func TestApp_RunsInnermostAction(t *testing.T) {
	var got string
	root := New("app", "")
	root.Command("greet", "").
		Option("name").Usage(SingleUsage).Back().
		Action(func(ctx *Context) error {
			got, _ = ctx.String("name")
			return nil
		})

	app, _, _ := testApp(t, root)
	if err := app.Run(context.Background(), []string{"greet", "--name", "ada"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got != "ada" {
		t.Fatalf("name = %q", got)
	}
}

func TestApp_Help(t *testing.T) {
	root := New("app", "Does things")
	root.Command("sub", "A sub-command").Option("x").Back().Action(func(*Context) error {
		t.Fatal("action must not run when help is requested")
		return nil
	})

	tests := []struct {
		name  string
		args  []string
		wants []string
	}{
		{"root long", []string{"--help"}, []string{"Does things", "Usage:\n  app [options] <command>", "-h, --help", "sub"}},
		{"sub short", []string{"sub", "-h"}, []string{"Usage:\n  app sub [options]", "-x"}},
		{"after other options", []string{"sub", "-x", "--help"}, []string{"app sub"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, out, _ := testApp(t, root)
			err := app.Run(context.Background(), tt.args)
			if !errors.Is(err, ErrHelpShown) {
				t.Fatalf("err = %v, want ErrHelpShown", err)
			}
			for _, want := range tt.wants {
				if !strings.Contains(out.String(), want) {
					t.Errorf("help missing %q:\n%s", want, out.String())
				}
			}
			if code := app.ExitCodes().Resolve(err); code != 0 {
				t.Errorf("exit code = %d", code)
			}
		})
	}
}

func TestApp_HelpNotRequested(t *testing.T) {
	ran := false
	root := New("app", "").
		Argument("rest").Optional().Repeat(Unbounded).Back().
		Action(func(*Context) error { ran = true; return nil })

	app, _, _ := testApp(t, root)
	if err := app.Run(context.Background(), []string{"--", "--help"}); err != nil {
		t.Fatalf("--help after -- is an argument: %v", err)
	}
	if !ran {
		t.Fatal("action did not run")
	}

	// a user option claiming the name wins
	ran = false
	custom := New("app", "").Option("help").Back().Action(func(ctx *Context) error {
		ran = ctx.Result.Flag("help")
		return nil
	})
	app, _, _ = testApp(t, custom)
	if err := app.Run(context.Background(), []string{"--help"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !ran {
		t.Fatal("user --help option not resolved")
	}

	app, _, _ = testApp(t, New("app", "").Action(func(*Context) error { return nil }))
	app.DisableHelp()
	if err := app.Run(context.Background(), []string{"--help"}); !errors.Is(err, ErrUnrecognizedOption) {
		t.Fatalf("disabled help: %v", err)
	}
}

func TestApp_Version(t *testing.T) {
	app, out, _ := testApp(t, New("tool", ""))
	app.Version("1.4.0")

	err := app.Run(context.Background(), []string{"--version"})
	if !errors.Is(err, ErrVersionShown) {
		t.Fatalf("err = %v", err)
	}
	if out.String() != "tool 1.4.0\n" {
		t.Fatalf("output = %q", out.String())
	}
}

func TestApp_ReportsParseErrors(t *testing.T) {
	root := New("app", "").Option("verbose").Back().Action(func(*Context) error { return nil })
	app, _, errOut := testApp(t, root)

	err := app.Run(context.Background(), []string{"--verbos"})
	if !errors.Is(err, ErrUnrecognizedOption) {
		t.Fatalf("err = %v", err)
	}
	for _, want := range []string{
		"Error: unrecognized option '--verbos'",
		"Did you mean 'verbose'?",
		"Run 'app --help' for usage.",
	} {
		if !strings.Contains(errOut.String(), want) {
			t.Errorf("stderr missing %q:\n%s", want, errOut.String())
		}
	}
	if code := app.ExitCodes().Resolve(err); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}

func TestApp_MiddlewareOrder(t *testing.T) {
	var calls []string
	record := func(name string) middleware.Middleware {
		return func(next middleware.ActionFunc) middleware.ActionFunc {
			return func(ctx middleware.Context) error {
				calls = append(calls, name)
				return next(ctx)
			}
		}
	}

	root := New("app", "").Use(record("root"))
	sub := root.Command("sub", "").Use(record("sub"))
	sub.Command("leaf", "").Use(record("leaf")).Action(func(ctx *Context) error {
		calls = append(calls, "action:"+ctx.Command().Name())
		return nil
	})
	root.Before(func(*Context) error { calls = append(calls, "cmd-before"); return nil })

	app, _, _ := testApp(t, root)
	app.Use(record("app"))
	app.Before(func(*Context) error { calls = append(calls, "app-before"); return nil })
	app.After(func(*Context) error { calls = append(calls, "app-after"); return nil })

	if err := app.Run(context.Background(), []string{"sub", "leaf"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// root's Before belongs to root, which is not the innermost command
	want := []string{"app-before", "app", "root", "sub", "leaf", "action:leaf", "app-after"}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Fatalf("call order mismatch (-want +got):\n%s", diff)
	}
}

func TestApp_CommandHooks(t *testing.T) {
	var calls []string
	root := New("app", "").
		Before(func(*Context) error { calls = append(calls, "before"); return nil }).
		Action(func(*Context) error { calls = append(calls, "action"); return errors.New("boom") }).
		After(func(*Context) error { calls = append(calls, "after"); return errors.New("late") })

	app, _, _ := testApp(t, root)
	err := app.Run(context.Background(), nil)
	if err == nil || err.Error() != "boom" {
		t.Fatalf("action error must win: %v", err)
	}
	if diff := cmp.Diff([]string{"before", "action", "after"}, calls); diff != "" {
		t.Fatalf("hook order mismatch (-want +got):\n%s", diff)
	}
}

func TestApp_BeforeErrorStops(t *testing.T) {
	root := New("app", "").Action(func(*Context) error {
		t.Fatal("action ran after a failing Before")
		return nil
	})
	app, _, _ := testApp(t, root)
	app.Before(func(*Context) error { return errors.New("denied") })
	if err := app.Run(context.Background(), nil); err == nil || err.Error() != "denied" {
		t.Fatalf("err = %v", err)
	}
}

func TestApp_ExitRequest(t *testing.T) {
	root := New("app", "").Action(func(ctx *Context) error {
		ctx.Exit(4)
		select {
		case <-ctx.Done():
		default:
			t.Error("Exit must cancel the context")
		}
		return nil
	})
	app, _, _ := testApp(t, root)
	err := app.Run(context.Background(), nil)
	var ee *ExitError
	if !errors.As(err, &ee) || ee.Code != 4 {
		t.Fatalf("err = %v", err)
	}
	if code := app.ExitCodes().Resolve(err); code != 4 {
		t.Fatalf("exit code = %d", code)
	}
}

func TestApp_NoActionShowsHelp(t *testing.T) {
	root := New("app", "")
	root.Command("sub", "Sub command")
	app, out, _ := testApp(t, root)
	if err := app.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Commands:") {
		t.Fatalf("help not shown:\n%s", out.String())
	}
}

func TestApp_WindowsStyle(t *testing.T) {
	var files []string
	root := New("copy", "").
		Option("y").Back().
		Argument("files").Repeat(Unbounded).Back().
		Action(func(ctx *Context) error {
			files, _ = ctx.Strings("files")
			if !ctx.Result.Flag("y") {
				t.Error("/y not set")
			}
			return nil
		})

	app, out, _ := testApp(t, root)
	app.Style(WindowsStyle{})
	if err := app.Run(context.Background(), []string{"/y", "C:/a/b.txt", "/tmp/x"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if diff := cmp.Diff([]string{"C:/a/b.txt", "/tmp/x"}, files); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}

	if err := app.Run(context.Background(), []string{"/?"}); !errors.Is(err, ErrHelpShown) {
		t.Fatalf("/? err = %v", err)
	}
	if !strings.Contains(out.String(), "/?, /help") {
		t.Fatalf("windows help label missing:\n%s", out.String())
	}
}

func TestApp_ParentContextCanceled(t *testing.T) {
	root := New("app", "").Action(func(ctx *Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	app, _, _ := testApp(t, root)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := app.Run(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestContext_Accessors(t *testing.T) {
	root := New("app", "").
		Option("n").Usage(SingleUsage).Int().Back().
		Argument("a").Back().
		Argument("b").Optional().Back().
		Action(func(ctx *Context) error {
			ctx.Set("k", "v")
			if ctx.Get("k") != "v" {
				t.Error("metadata round trip")
			}
			if ctx.NArgs() != 1 || ctx.Arg(0) != "x" || ctx.Arg(5) != "" {
				t.Errorf("args = %q", ctx.Args())
			}
			if n, _ := ctx.Int("n"); n != 2 {
				t.Errorf("n = %d", n)
			}
			if !ctx.IsSet("a") || ctx.IsSet("b") {
				t.Error("IsSet mismatch")
			}
			if ctx.Command().Name() != "app" {
				t.Error("command name")
			}
			return nil
		})
	app, _, _ := testApp(t, root)
	if err := app.Run(context.Background(), []string{"-n", "2", "x"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

func TestApp_TimeoutMiddleware(t *testing.T) {
	root := New("app", "").
		Option("timeout").Usage(SingleUsage).Duration().Back().
		Use(middleware.TimeoutFromOption("timeout", 0)).
		Action(func(ctx *Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
	app, _, _ := testApp(t, root)
	err := app.Run(context.Background(), []string{"--timeout", "10ms"})
	var te *middleware.TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want timeout", err)
	}
	if code := app.ExitCodes().Resolve(err); code != 1 {
		t.Fatalf("exit code = %d", code)
	}
}
