package clip

import (
	"errors"
	"reflect"

	"github.com/dzonerzy/go-clip/middleware"
)

// ExitError requests a specific exit code from inside a handler.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit"
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCodeDefaults holds common default codes.
type ExitCodeDefaults struct {
	Success         int // default: 0
	GeneralError    int // default: 1
	MisusageError   int // default: 2
	ValidationError int // default: 3
}

func defaultExitDefaults() ExitCodeDefaults {
	return ExitCodeDefaults{Success: 0, GeneralError: 1, MisusageError: 2, ValidationError: 3}
}

// ExitCodeManager maps errors to process exit codes.
type ExitCodeManager struct {
	codesByCode     map[ErrorCode]int
	codesByCategory map[Category]int
	codesByType     map[reflect.Type]int
	defaults        ExitCodeDefaults
}

func newExitCodeManager() *ExitCodeManager {
	m := &ExitCodeManager{
		codesByCode:     make(map[ErrorCode]int),
		codesByCategory: make(map[Category]int),
		codesByType:     make(map[reflect.Type]int),
		defaults:        defaultExitDefaults(),
	}
	m.prewire()
	return m
}

func (e *ExitCodeManager) prewire() {
	clear(e.codesByCategory)
	for _, c := range []Category{CategoryStructural, CategoryStyle} {
		e.codesByCategory[c] = e.defaults.GeneralError
	}
	for _, c := range []Category{CategoryClassification, CategoryCardinality} {
		e.codesByCategory[c] = e.defaults.MisusageError
	}
	for _, c := range []Category{CategoryValidation, CategoryConversion, CategoryCommandValidation} {
		e.codesByCategory[c] = e.defaults.ValidationError
	}

	e.codesByType[reflect.TypeOf(&middleware.TimeoutError{})] = e.defaults.GeneralError
	e.codesByType[reflect.TypeOf(&middleware.ValidationError{})] = e.defaults.ValidationError
	e.codesByType[reflect.TypeOf(&middleware.RecoveryError{})] = e.defaults.GeneralError
}

// DefineCode maps a single parse error code to an exit code. It wins over
// the category mapping.
func (e *ExitCodeManager) DefineCode(code ErrorCode, exit int) *ExitCodeManager {
	e.codesByCode[code] = exit
	return e
}

// DefineCategory maps every parse error of a category to an exit code.
func (e *ExitCodeManager) DefineCategory(c Category, exit int) *ExitCodeManager {
	e.codesByCategory[c] = exit
	return e
}

// DefineError maps errors of the same dynamic type as err to an exit code.
func (e *ExitCodeManager) DefineError(err error, exit int) *ExitCodeManager {
	if err == nil {
		return e
	}
	e.codesByType[reflect.TypeOf(err)] = exit
	return e
}

// Default replaces the default codes. Category mappings are re-derived
// from the new defaults, discarding earlier DefineCategory calls.
func (e *ExitCodeManager) Default(d ExitCodeDefaults) *ExitCodeManager {
	e.defaults = d
	e.prewire()
	return e
}

// Resolve converts an error to an exit code. Precedence:
//  1. ExitError (requested code)
//  2. help or version shown (success)
//  3. ParseError code mapping, then category mapping
//  4. Concrete error type mapping (DefineError)
//  5. GeneralError
func (e *ExitCodeManager) Resolve(err error) int {
	if err == nil {
		return e.defaults.Success
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if errors.Is(err, ErrHelpShown) || errors.Is(err, ErrVersionShown) {
		return e.defaults.Success
	}

	var pe *ParseError
	if errors.As(err, &pe) {
		if code, ok := e.codesByCode[pe.Code]; ok {
			return code
		}
		if code, ok := e.codesByCategory[pe.Category()]; ok {
			return code
		}
		return e.defaults.GeneralError
	}

	for t, code := range e.codesByType {
		if errors.As(err, reflect.New(t).Interface()) {
			return code
		}
	}

	return e.defaults.GeneralError
}
