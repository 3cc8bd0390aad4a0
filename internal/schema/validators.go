// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package schema

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// SemverFormat describes the accepted version syntax in error messages.
const SemverFormat = "format: {major}.{minor}.{patch}[-stage][+metadata]"

// Validator checks and normalizes one raw value. The returned value is what
// gets stored in the Record.
type Validator interface {
	Kind() Kind
	Validate(key string, raw any, prefix string) (any, error)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// IsSemver reports whether s is a semantic version string.
func IsSemver(s string) bool {
	return validate.Var(s, "required,semver") == nil
}

// =============================================================================
// SCALAR VALIDATORS
// =============================================================================

// String accepts string values only.
type String struct{}

func (String) Kind() Kind { return KindString }

func (String) Validate(key string, raw any, prefix string) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, typeError(prefix+key, "string", raw)
	}
	return s, nil
}

// Text accepts any scalar and stores its string form. TOML users often
// write versions such as 3.25 unquoted.
type Text struct{}

func (Text) Kind() Kind { return KindString }

func (Text) Validate(key string, raw any, prefix string) (any, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return nil, typeError(prefix+key, "string", raw)
	}
}

// Path accepts a non-empty relative or absolute path string.
type Path struct{}

func (Path) Kind() Kind { return KindString }

func (Path) Validate(key string, raw any, prefix string) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, typeError(prefix+key, "path", raw)
	}
	if strings.TrimSpace(s) == "" || strings.ContainsRune(s, 0) {
		return nil, &ValueError{Key: prefix + key, Kind: InvalidValue, Message: fmt.Sprintf("%q is not a usable path", s)}
	}
	return s, nil
}

// Int accepts integers and integral strings.
type Int struct{}

func (Int) Kind() Kind { return KindInt }

func (Int) Validate(key string, raw any, prefix string) (any, error) {
	n, ok := toInt(raw)
	if !ok {
		return nil, typeError(prefix+key, "int", raw)
	}
	return n, nil
}

// Timestamp accepts TOML datetimes and RFC 3339 strings.
type Timestamp struct{}

func (Timestamp) Kind() Kind { return KindTimestamp }

func (Timestamp) Validate(key string, raw any, prefix string) (any, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, typeError(prefix+key, "datetime", raw)
		}
		return t, nil
	default:
		return nil, typeError(prefix+key, "datetime", raw)
	}
}

// Semver accepts semantic version strings.
type Semver struct{}

func (Semver) Kind() Kind { return KindString }

func (Semver) Validate(key string, raw any, prefix string) (any, error) {
	s, ok := raw.(string)
	if !ok || !IsSemver(s) {
		err := typeError(prefix+key, "semver string", raw)
		err.Info = SemverFormat
		return nil, err
	}
	return s, nil
}

// =============================================================================
// CHOICE VALIDATORS
// =============================================================================

// Release accepts a semver string that appears in Known. Subject names the
// thing being versioned in error messages.
type Release struct {
	Subject string
	Known   []string
}

func (Release) Kind() Kind { return KindString }

func (r Release) Validate(key string, raw any, prefix string) (any, error) {
	v, err := Semver{}.Validate(key, raw, prefix)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(r.Known, v.(string)) {
		return nil, &ValueError{
			Key:     prefix + key,
			Kind:    InvalidValue,
			Message: fmt.Sprintf("%s version %s is invalid", r.Subject, v),
		}
	}
	return v, nil
}

// Standard accepts a language standard year from Supported. Members of
// Unsupported are rejected with a distinct message.
type Standard struct {
	Supported   []int
	Unsupported []int
}

func (Standard) Kind() Kind { return KindInt }

// Choices renders the supported set the way error messages show it.
func (s Standard) Choices() string {
	parts := make([]string, len(s.Supported))
	for i, n := range s.Supported {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, ", ")
}

func (s Standard) Validate(key string, raw any, prefix string) (any, error) {
	n, ok := toInt(raw)
	if !ok {
		return nil, &ValueError{
			Key:     prefix + key,
			Kind:    InvalidType,
			Message: fmt.Sprintf("expected `int` value from %s, but got `%s`", s.Choices(), typeName(raw)),
		}
	}
	if err := s.Check(n); err != nil {
		err.Key = prefix + key
		return nil, err
	}
	return n, nil
}

// Check validates a standard outside of a document, such as a CLI flag.
func (s Standard) Check(n int) *ValueError {
	switch {
	case slices.Contains(s.Unsupported, n):
		return &ValueError{Kind: InvalidValue, Message: fmt.Sprintf("std version %02d is unsupported. choose from %s", n, s.Choices())}
	case !slices.Contains(s.Supported, n):
		return &ValueError{Kind: InvalidValue, Message: fmt.Sprintf("std version %02d is invalid. choose from %s", n, s.Choices())}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func toInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	default:
		return 0, false
	}
}

// typeName spells Go values the way TOML documents name them.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nothing"
	case string:
		return "string"
	case int, int64:
		return "integer"
	case float64:
		return "float"
	case bool:
		return "boolean"
	case time.Time:
		return "datetime"
	case []any, []map[string]any:
		return "array"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func typeError(key, want string, got any) *ValueError {
	return &ValueError{
		Key:     key,
		Kind:    InvalidType,
		Message: fmt.Sprintf("expected type `%s`, but got `%s`", want, typeName(got)),
	}
}
