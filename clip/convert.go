package clip

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// Converter turns a raw parameter into a typed value.
type Converter func(string) (any, error)

// Formatter rewrites a raw parameter before conversion.
type Formatter func(string) string

// String is the identity converter, used when none is configured.
func String(s string) (any, error) {
	return s, nil
}

// Int parses decimal, hex (0x), octal (0o) and binary (0b) integers.
func Int(s string) (any, error) {
	n, err := strconv.ParseInt(strings.ReplaceAll(s, "_", ""), 0, strconv.IntSize)
	if err != nil {
		return nil, fmt.Errorf("'%s' is not a valid integer", s)
	}
	return int(n), nil
}

// Float parses a float64.
func Float(s string) (any, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("'%s' is not a valid number", s)
	}
	return f, nil
}

// Bool accepts the strconv spellings plus yes/no and on/off.
func Bool(s string) (any, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("'%s' is not a valid boolean", s)
	}
	return b, nil
}

// Duration parses Go durations ("1h30m"), spelled units ("3 sec", "2 hours"),
// the extended units d, w, M and Y, and the clock forms MM:SS and HH:MM:SS.
func Duration(s string) (any, error) {
	d, err := parseDuration(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("'%s' is not a valid duration: %w", s, err)
	}
	return d, nil
}

// UUID parses any RFC 4122 form accepted by uuid.Parse.
func UUID(s string) (any, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("'%s' is not a valid UUID: %w", s, err)
	}
	return id, nil
}

// Semver parses a semantic version into *semver.Version.
func Semver(s string) (any, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("'%s' is not a valid version: %w", s, err)
	}
	return v, nil
}

// SemverConstraint parses a version range such as ">=1.2, <2" into
// *semver.Constraints.
func SemverConstraint(s string) (any, error) {
	c, err := semver.NewConstraint(s)
	if err != nil {
		return nil, fmt.Errorf("'%s' is not a valid version constraint: %w", s, err)
	}
	return c, nil
}

// Enum returns a converter accepting only the given values, matched
// case-insensitively and normalized to the declared spelling.
func Enum(values ...string) Converter {
	return func(s string) (any, error) {
		for _, v := range values {
			if strings.EqualFold(v, s) {
				return v, nil
			}
		}
		return nil, fmt.Errorf("'%s' is not one of %s", s, strings.Join(values, ", "))
	}
}

var (
	convertersMu sync.RWMutex
	converters   = map[string]Converter{
		"string":            String,
		"int":               Int,
		"float":             Float,
		"bool":              Bool,
		"duration":          Duration,
		"uuid":              UUID,
		"semver":            Semver,
		"semver-constraint": SemverConstraint,
	}
)

// RegisterConverter makes a converter available by name to declarative
// grammar files.
func RegisterConverter(name string, c Converter) {
	convertersMu.Lock()
	defer convertersMu.Unlock()
	converters[strings.ToLower(name)] = c
}

// LookupConverter returns a registered converter.
func LookupConverter(name string) (Converter, bool) {
	convertersMu.RLock()
	defer convertersMu.RUnlock()
	c, ok := converters[strings.ToLower(name)]
	return c, ok
}

// ConverterNames lists registered converter names, sorted.
func ConverterNames() []string {
	convertersMu.RLock()
	defer convertersMu.RUnlock()
	names := make([]string, 0, len(converters))
	for name := range converters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if n := strings.Count(s, ":"); n > 0 {
		return parseClockDuration(s, n)
	}
	if d, ok, err := parseExtendedDuration(s); ok {
		return d, err
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	return parseSpelledDuration(s)
}

var errDurationOverflow = errors.New("duration out of range")

// addScaled returns total + n*unit, failing instead of wrapping around.
func addScaled(total time.Duration, n int, unit time.Duration) (time.Duration, error) {
	if n < 0 || int64(n) > (math.MaxInt64-int64(total))/int64(unit) {
		return 0, errDurationOverflow
	}
	return total + time.Duration(n)*unit, nil
}

// parseClockDuration handles "MM:SS" and "HH:MM:SS".
func parseClockDuration(s string, colons int) (time.Duration, error) {
	parts := strings.Split(s, ":")
	units := []time.Duration{time.Minute, time.Second}
	switch colons {
	case 1:
	case 2:
		units = []time.Duration{time.Hour, time.Minute, time.Second}
	default:
		return 0, fmt.Errorf("too many colons")
	}
	var total time.Duration
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid clock component '%s'", part)
		}
		if total, err = addScaled(total, n, units[i]); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// parseExtendedDuration handles "1d", "2w", "3M" and "1Y". Lowercase m stays
// minutes and is left to time.ParseDuration.
func parseExtendedDuration(s string) (time.Duration, bool, error) {
	if len(s) < 2 {
		return 0, false, nil
	}
	var unit time.Duration
	switch s[len(s)-1] {
	case 'd', 'D':
		unit = 24 * time.Hour
	case 'w', 'W':
		unit = 7 * 24 * time.Hour
	case 'M':
		unit = 30 * 24 * time.Hour
	case 'y', 'Y':
		unit = 365 * 24 * time.Hour
	default:
		return 0, false, nil
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n < 0 {
		return 0, false, nil
	}
	d, err := addScaled(0, n, unit)
	return d, true, err
}

var spelledUnits = map[string]time.Duration{
	"ns": time.Nanosecond, "us": time.Microsecond, "µs": time.Microsecond,
	"ms": time.Millisecond,
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
}

// parseSpelledDuration handles forms like "3 sec" or "1 hour 30 minutes".
func parseSpelledDuration(s string) (time.Duration, error) {
	var total time.Duration
	rest := strings.TrimSpace(s)
	for rest != "" {
		i := 0
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if i == 0 {
			return 0, fmt.Errorf("number expected before unit")
		}
		n, err := strconv.Atoi(rest[:i])
		if err != nil {
			return 0, err
		}
		rest = strings.TrimLeft(rest[i:], " \t")
		j := 0
		for j < len(rest) && rest[j] != ' ' && rest[j] != '\t' && (rest[j] < '0' || rest[j] > '9') {
			j++
		}
		if j == 0 {
			return 0, fmt.Errorf("missing unit after number")
		}
		unit, ok := spelledUnits[strings.ToLower(rest[:j])]
		if !ok {
			return 0, fmt.Errorf("invalid duration unit '%s'", rest[:j])
		}
		if total, err = addScaled(total, n, unit); err != nil {
			return 0, err
		}
		rest = strings.TrimLeft(rest[j:], " \t")
	}
	return total, nil
}
