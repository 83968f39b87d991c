package middleware

import (
	"context"
	"errors"
	"time"
)

// Timeout fails the invocation with a *TimeoutError when the handler does
// not return within duration. The handler keeps running in its goroutine
// but its context is canceled, so it should watch ctx.Done().
func Timeout(duration time.Duration) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			timeoutCtx, cancel := context.WithTimeout(ctx.Context(), duration)
			defer cancel()

			resultChan := make(chan error, 1)

			go func() {
				defer func() {
					if r := recover(); r != nil {
						resultChan <- &RecoveryError{
							Panic:   r,
							Command: getCommandName(ctx),
						}
					}
				}()
				resultChan <- next(ctx)
			}()

			select {
			case err := <-resultChan:
				return err
			case <-timeoutCtx.Done():
				// A result that raced the deadline wins.
				select {
				case err := <-resultChan:
					return err
				default:
				}
				expired := errors.Is(timeoutCtx.Err(), context.DeadlineExceeded)
				ctx.Cancel()
				if !expired {
					return context.Canceled
				}
				return &TimeoutError{
					Duration: duration,
					Command:  getCommandName(ctx),
				}
			}
		}
	}
}

// TimeoutWithDefault applies the configured DefaultTimeout.
func TimeoutWithDefault(options ...MiddlewareOption) Middleware {
	return Timeout(newConfig(options).DefaultTimeout)
}

// DynamicTimeout computes the duration per invocation. A duration <= 0
// runs the handler without a timeout.
func DynamicTimeout(timeoutFunc func(ctx Context) time.Duration) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			duration := timeoutFunc(ctx)
			if duration <= 0 {
				return next(ctx)
			}
			return Timeout(duration)(next)(ctx)
		}
	}
}

// TimeoutFromOption reads the duration from a duration-valued option,
// falling back to defaultTimeout when the option has no value.
func TimeoutFromOption(name string, defaultTimeout time.Duration) Middleware {
	return DynamicTimeout(func(ctx Context) time.Duration {
		if d, ok := ctx.Duration(name); ok {
			return d
		}
		return defaultTimeout
	})
}

// TimeoutPerCommand uses the duration registered for the command name, or
// defaultTimeout.
func TimeoutPerCommand(commandTimeouts map[string]time.Duration, defaultTimeout time.Duration) Middleware {
	return DynamicTimeout(func(ctx Context) time.Duration {
		if d, ok := commandTimeouts[getCommandName(ctx)]; ok {
			return d
		}
		return defaultTimeout
	})
}
