package middleware

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ValidatorFunc checks state the grammar cannot express, such as file
// system or cross-option business rules, before the handler runs.
type ValidatorFunc func(ctx Context) error

// NamedValidator associates a name with a ValidatorFunc for error reports.
type NamedValidator struct {
	Name string
	Fn   ValidatorFunc
}

// Custom wraps an arbitrary ValidatorFunc with a name for reporting.
func Custom(name string, fn ValidatorFunc) NamedValidator {
	return NamedValidator{Name: name, Fn: fn}
}

// File checks that the named string options point to existing files.
func File(names ...string) NamedValidator {
	return NamedValidator{Name: "file_exists", Fn: FileExists(names...)}
}

// Dir checks that the named string options point to existing directories.
func Dir(names ...string) NamedValidator {
	return NamedValidator{Name: "directory_exists", Fn: DirectoryExists(names...)}
}

// Validate runs validators in order before the handler and stops at the
// first failure. Errors that are not already a *ValidationError are wrapped
// with the validator's name as Field.
//
// Example:
//
//	app.Use(middleware.Validate(
//	    middleware.Custom("port_range", checkPort),
//	    middleware.File("config"),
//	))
func Validate(validators ...NamedValidator) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			for _, v := range validators {
				if v.Fn == nil {
					continue
				}
				if err := v.Fn(ctx); err != nil {
					return asValidationError(v.Name, err)
				}
			}
			return next(ctx)
		}
	}
}

// Validator runs the validators registered with WithCustomValidators, in
// name order.
func Validator(options ...MiddlewareOption) Middleware {
	return ValidatorWithCustom(newConfig(options).CustomValidators)
}

// ValidatorWithCustom runs the validators of the map in name order.
func ValidatorWithCustom(validators map[string]ValidatorFunc) Middleware {
	names := make([]string, 0, len(validators))
	for name := range validators {
		names = append(names, name)
	}
	sort.Strings(names)

	named := make([]NamedValidator, 0, len(names))
	for _, name := range names {
		named = append(named, NamedValidator{Name: name, Fn: validators[name]})
	}
	return Validate(named...)
}

// WithCustomValidators adds validators to the middleware config.
func WithCustomValidators(validators map[string]ValidatorFunc) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		if config.CustomValidators == nil {
			config.CustomValidators = make(map[string]ValidatorFunc)
		}
		for name, validator := range validators {
			config.CustomValidators[name] = validator
		}
	}
}

func asValidationError(name string, err error) error {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr
	}
	return &ValidationError{
		Field:   name,
		Message: "validation failed",
		Cause:   err,
	}
}

// ConditionalRequired requires every name in required to have a value
// whenever condition returns nil.
func ConditionalRequired(condition ValidatorFunc, required ...string) ValidatorFunc {
	return func(ctx Context) error {
		if err := condition(ctx); err != nil {
			return nil
		}
		var missing []string
		for _, name := range required {
			if !ctx.IsSet(name) {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return &ValidationError{
				Field:   strings.Join(missing, ", "),
				Message: "required when condition is met: " + strings.Join(missing, ", "),
			}
		}
		return nil
	}
}

// FileExists checks that each named option, when set, is an existing file.
func FileExists(names ...string) ValidatorFunc {
	return pathValidator("file", validateFileExists, names)
}

// DirectoryExists checks that each named option, when set, is an existing
// directory.
func DirectoryExists(names ...string) ValidatorFunc {
	return pathValidator("directory", validateDirectoryExists, names)
}

func pathValidator(kind string, check func(string) error, names []string) ValidatorFunc {
	return func(ctx Context) error {
		for _, name := range names {
			path, ok := ctx.String(name)
			if !ok || path == "" {
				continue
			}
			if err := check(path); err != nil {
				return &ValidationError{
					Field:   name,
					Value:   path,
					Message: fmt.Sprintf("%s validation failed for '%s'", kind, name),
					Cause:   err,
				}
			}
		}
		return nil
	}
}

func validateFileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func validateDirectoryExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
