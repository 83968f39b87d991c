package clip

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dzonerzy/go-clip/internal/fuzzy"
)

// ErrorCode identifies a parse or grammar failure. Codes are grouped by
// hundreds; Category derives the group.
type ErrorCode int

const (
	// Structural errors: the grammar itself is malformed.
	CodeDuplicateName ErrorCode = 100 + iota
	CodeInvalidName
	CodeMissingName
	CodeRequiredAfterOptional
	CodeValidatorNotAllowed
	CodeParameterIndexOutOfRange
	CodeInvalidUsage
	CodeInvalidArgumentIndex
)

const (
	// CodeStyleIncompatible reports an option definition the active style
	// cannot express.
	CodeStyleIncompatible ErrorCode = 200 + iota
)

const (
	// CodeUnrecognizedOption reports an option-looking token with no matching
	// option.
	CodeUnrecognizedOption ErrorCode = 300 + iota
	// CodeUnexpectedArgument reports a positional token the grouping policy
	// forbids at its position.
	CodeUnexpectedArgument
)

const (
	CodeRequiredOptionAbsent ErrorCode = 400 + iota
	CodeTooFewOccurrences
	CodeTooManyOccurrences
	CodeRequiredParametersAbsent
	CodeInvalidParameters
	CodeInvalidArgumentCount
)

const (
	// CodeValidationFailed reports a validator rejecting a raw value.
	CodeValidationFailed ErrorCode = 500 + iota
)

const (
	// CodeConversionFailed reports a converter or default supplier failure.
	CodeConversionFailed ErrorCode = 600 + iota
)

const (
	// CodeCommandValidation reports a whole-command validator failure.
	CodeCommandValidation ErrorCode = 700 + iota
)

// Category groups error codes by the phase that raises them.
type Category string

const (
	CategoryStructural        Category = "structural"
	CategoryStyle             Category = "style"
	CategoryClassification    Category = "classification"
	CategoryCardinality       Category = "cardinality"
	CategoryValidation        Category = "validation"
	CategoryConversion        Category = "conversion"
	CategoryCommandValidation Category = "command_validation"
	CategoryUnknown           Category = "unknown"
)

// Category returns the taxonomy group of the code.
func (c ErrorCode) Category() Category {
	switch c / 100 {
	case 1:
		return CategoryStructural
	case 2:
		return CategoryStyle
	case 3:
		return CategoryClassification
	case 4:
		return CategoryCardinality
	case 5:
		return CategoryValidation
	case 6:
		return CategoryConversion
	case 7:
		return CategoryCommandValidation
	default:
		return CategoryUnknown
	}
}

// IsUsage reports whether the code describes bad user input rather than a
// malformed grammar.
func (c ErrorCode) IsUsage() bool {
	switch c.Category() {
	case CategoryClassification, CategoryCardinality, CategoryValidation,
		CategoryConversion, CategoryCommandValidation:
		return true
	case CategoryStructural, CategoryStyle, CategoryUnknown:
		return false
	default:
		return false
	}
}

// ParseError is the single error type produced by grammar construction and
// parsing.
type ParseError struct {
	Code       ErrorCode
	Message    string
	Command    string // primary name of the command in scope, if any
	Option     string // primary name of the offending option
	Argument   string // name of the offending positional argument
	Token      string // raw token that triggered the error
	Value      string // raw value rejected by a validator or converter
	Suggestion string // closest known name, for unknown options/commands
	Err        error  // underlying validator/converter/handler error
}

func (e *ParseError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("parse error %d", e.Code)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches another *ParseError by code, which makes the exported sentinels
// usable with errors.Is.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Category returns the taxonomy group of the error.
func (e *ParseError) Category() Category {
	return e.Code.Category()
}

// Sentinels for errors.Is.
var (
	ErrDuplicateName            = &ParseError{Code: CodeDuplicateName, Message: "duplicate name"}
	ErrInvalidName              = &ParseError{Code: CodeInvalidName, Message: "invalid name"}
	ErrMissingName              = &ParseError{Code: CodeMissingName, Message: "missing name"}
	ErrRequiredAfterOptional    = &ParseError{Code: CodeRequiredAfterOptional, Message: "required arguments defined after optional"}
	ErrValidatorNotAllowed      = &ParseError{Code: CodeValidatorNotAllowed, Message: "validators not allowed"}
	ErrParameterIndexOutOfRange = &ParseError{Code: CodeParameterIndexOutOfRange, Message: "parameter index out of range"}
	ErrInvalidUsage             = &ParseError{Code: CodeInvalidUsage, Message: "invalid usage"}
	ErrInvalidArgumentIndex     = &ParseError{Code: CodeInvalidArgumentIndex, Message: "invalid argument index"}
	ErrStyleIncompatible        = &ParseError{Code: CodeStyleIncompatible, Message: "option incompatible with style"}
	ErrUnrecognizedOption       = &ParseError{Code: CodeUnrecognizedOption, Message: "unrecognized option"}
	ErrUnexpectedArgument       = &ParseError{Code: CodeUnexpectedArgument, Message: "unexpected argument"}
	ErrRequiredOptionAbsent     = &ParseError{Code: CodeRequiredOptionAbsent, Message: "required option absent"}
	ErrTooFewOccurrences        = &ParseError{Code: CodeTooFewOccurrences, Message: "too few occurrences"}
	ErrTooManyOccurrences       = &ParseError{Code: CodeTooManyOccurrences, Message: "too many occurrences"}
	ErrRequiredParametersAbsent = &ParseError{Code: CodeRequiredParametersAbsent, Message: "required parameters absent"}
	ErrInvalidParameters        = &ParseError{Code: CodeInvalidParameters, Message: "invalid parameters specified"}
	ErrInvalidArgumentCount     = &ParseError{Code: CodeInvalidArgumentCount, Message: "invalid number of arguments"}
	ErrValidationFailed         = &ParseError{Code: CodeValidationFailed, Message: "validation failed"}
	ErrConversionFailed         = &ParseError{Code: CodeConversionFailed, Message: "conversion failed"}
	ErrCommandValidation        = &ParseError{Code: CodeCommandValidation, Message: "command validation failed"}
)

func newError(code ErrorCode, format string, args ...any) *ParseError {
	return &ParseError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// suggest returns the closest candidate within edit distance 2, or "".
func suggest(input string, candidates []string) string {
	return fuzzy.FindBest(input, candidates, 2)
}

// FormatError renders err with its suggestion on a second line, the way the
// app runtime prints parse failures.
func FormatError(err error) string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(err.Error())
	var pe *ParseError
	if errors.As(err, &pe) && pe.Suggestion != "" {
		b.WriteString("\n  Did you mean '")
		b.WriteString(pe.Suggestion)
		b.WriteString("'?")
	}
	return b.String()
}
