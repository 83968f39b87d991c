package middleware

import (
	"fmt"
	"io"
	"os"
	"runtime"
)

// recoveryOutput receives stack traces; replaced in tests.
var recoveryOutput io.Writer = os.Stderr

// Recovery turns a panic in the handler into a *RecoveryError. With
// WithStackTrace(true), the default, the stack is captured and printed.
func Recovery(options ...MiddlewareOption) Middleware {
	config := newConfig(options)

	return RecoveryWithHandler(func(panicVal any, command string, stack []byte) error {
		if len(stack) > 0 {
			fmt.Fprintf(recoveryOutput, "PANIC in command '%s': %v\n", command, panicVal)
			fmt.Fprintf(recoveryOutput, "Stack trace:\n%s\n", stack)
		}
		return &RecoveryError{Panic: panicVal, Command: command, Stack: stack}
	}, WithStackTrace(config.PrintStack), func(c *MiddlewareConfig) { c.StackSize = config.StackSize })
}

// RecoveryWithHandler lets handler build the error returned for a panic.
func RecoveryWithHandler(
	handler func(panicVal any, command string, stack []byte) error,
	options ...MiddlewareOption,
) Middleware {
	config := newConfig(options)

	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = handler(r, getCommandName(ctx), captureStack(config))
				}
			}()
			return next(ctx)
		}
	}
}

// RecoveryToError converts panics to errors without printing anything.
func RecoveryToError() Middleware {
	return Recovery(WithStackTrace(false))
}

// SafeRecovery always captures the stack but never prints it; the stack
// and panic value are stored in the context under "panic_stack" and
// "panic_value".
func SafeRecovery() Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := captureStack(&MiddlewareConfig{PrintStack: true, StackSize: 4096})
					err = &RecoveryError{
						Panic:   r,
						Command: getCommandName(ctx),
						Stack:   stack,
					}
					ctx.Set("panic_stack", string(stack))
					ctx.Set("panic_value", r)
				}
			}()
			return next(ctx)
		}
	}
}

func captureStack(config *MiddlewareConfig) []byte {
	if !config.PrintStack || config.StackSize <= 0 {
		return nil
	}
	stack := make([]byte, config.StackSize)
	return stack[:runtime.Stack(stack, false)]
}
