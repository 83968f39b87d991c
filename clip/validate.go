package clip

import (
	"cmp"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Validator checks a raw, pre-conversion value. A nil error means valid.
type Validator func(string) error

// Regex validates values against a pattern. An invalid pattern yields a
// validator that always fails with the compile error.
func Regex(pattern string) Validator {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return func(string) error {
			return fmt.Errorf("invalid regex pattern '%s': %v", pattern, err)
		}
	}
	return func(value string) error {
		if !re.MatchString(value) {
			return fmt.Errorf("value '%s' does not match pattern '%s'", value, pattern)
		}
		return nil
	}
}

// OneOf accepts only the listed values, compared exactly.
func OneOf(values ...string) Validator {
	return func(value string) error {
		if slices.Contains(values, value) {
			return nil
		}
		return fmt.Errorf("value '%s' is not one of the allowed values: %s", value, strings.Join(values, ", "))
	}
}

// Range converts the value with conv and checks min <= v <= max.
func Range[T cmp.Ordered](conv func(string) (any, error), minValue, maxValue T) Validator {
	return func(value string) error {
		raw, err := conv(value)
		if err != nil {
			return err
		}
		v, ok := raw.(T)
		if !ok {
			return fmt.Errorf("value '%s' has unexpected type %T", value, raw)
		}
		if v < minValue || v > maxValue {
			return fmt.Errorf("value %v is not within range [%v, %v]", v, minValue, maxValue)
		}
		return nil
	}
}

// MinLength requires at least n runes.
func MinLength(n int) Validator {
	return func(value string) error {
		if utf8.RuneCountInString(value) < n {
			return fmt.Errorf("value '%s' is shorter than %d characters", value, n)
		}
		return nil
	}
}

// MaxLength allows at most n runes.
func MaxLength(n int) Validator {
	return func(value string) error {
		if utf8.RuneCountInString(value) > n {
			return fmt.Errorf("value '%s' is longer than %d characters", value, n)
		}
		return nil
	}
}

// NotEmpty rejects empty and whitespace-only values.
func NotEmpty(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("value cannot be empty")
	}
	return nil
}

// FileExists requires an existing path.
func FileExists(path string) error {
	if path == "" {
		return fmt.Errorf("file path cannot be empty")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	} else if err != nil {
		return fmt.Errorf("cannot access file %s: %v", path, err)
	}
	return nil
}

// DirExists requires an existing directory.
func DirExists(path string) error {
	if path == "" {
		return fmt.Errorf("directory path cannot be empty")
	}
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("directory does not exist: %s", path)
	case err != nil:
		return fmt.Errorf("cannot access directory %s: %v", path, err)
	case !info.IsDir():
		return fmt.Errorf("path is not a directory: %s", path)
	}
	return nil
}
