// Package rules provides reusable validators for changeset definitions:
// presence, length, numeric range, format and membership checks, plus
// combinators for composing them.
package rules

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	changeset "github.com/reoring/changeset"
	"github.com/reoring/changeset/i18n"
)

// Rule is an alias for the validator function shape used across this package.
type Rule = changeset.ValidatorFunc

// Required fails when any named field's effective value is nil or a blank
// string. The effective value falls back to the record's current value when
// the input did not carry the field.
func Required(fields ...string) Rule {
	return func(ctx context.Context, c *changeset.Changeset) changeset.Issues {
		var out changeset.Issues
		for _, f := range fields {
			if isBlank(c.Value(f)) {
				out = append(out, issue(f, changeset.CodeRequired, nil))
			}
		}
		return out
	}
}

// MinLen fails when the field holds a string shorter than n runes.
// Nil or absent values pass; combine with Required for presence.
func MinLen(field string, n int) Rule {
	return func(ctx context.Context, c *changeset.Changeset) changeset.Issues {
		s, ok := c.Value(field).(string)
		if !ok || utf8.RuneCountInString(s) >= n {
			return nil
		}
		return changeset.Issues{issue(field, changeset.CodeTooShort, map[string]any{"min": n, "got": utf8.RuneCountInString(s)})}
	}
}

// MaxLen fails when the field holds a string longer than n runes.
func MaxLen(field string, n int) Rule {
	return func(ctx context.Context, c *changeset.Changeset) changeset.Issues {
		s, ok := c.Value(field).(string)
		if !ok || utf8.RuneCountInString(s) <= n {
			return nil
		}
		return changeset.Issues{issue(field, changeset.CodeTooLong, map[string]any{"max": n, "got": utf8.RuneCountInString(s)})}
	}
}

// Min fails when the field holds a numeric value below min.
func Min(field string, min float64) Rule {
	return func(ctx context.Context, c *changeset.Changeset) changeset.Issues {
		f, ok := numeric(c.Value(field))
		if !ok || f >= min {
			return nil
		}
		return changeset.Issues{issue(field, changeset.CodeTooSmall, map[string]any{"min": min, "got": f})}
	}
}

// Max fails when the field holds a numeric value above max.
func Max(field string, max float64) Rule {
	return func(ctx context.Context, c *changeset.Changeset) changeset.Issues {
		f, ok := numeric(c.Value(field))
		if !ok || f <= max {
			return nil
		}
		return changeset.Issues{issue(field, changeset.CodeTooBig, map[string]any{"max": max, "got": f})}
	}
}

// Match fails when the field holds a string the pattern does not match.
func Match(field string, re *regexp.Regexp) Rule {
	return func(ctx context.Context, c *changeset.Changeset) changeset.Issues {
		s, ok := c.Value(field).(string)
		if !ok || re.MatchString(s) {
			return nil
		}
		return changeset.Issues{issue(field, changeset.CodePattern, map[string]any{"pattern": re.String()})}
	}
}

// OneOf fails when the field's value is present and not among allowed.
func OneOf(field string, allowed ...any) Rule {
	return func(ctx context.Context, c *changeset.Changeset) changeset.Issues {
		v := c.Value(field)
		if v == nil {
			return nil
		}
		for _, a := range allowed {
			if reflect.DeepEqual(v, a) {
				return nil
			}
		}
		return changeset.Issues{issue(field, changeset.CodeInvalidEnum, map[string]any{"got": fmt.Sprint(v)})}
	}
}

// Func lifts a field predicate into a Rule. The issue is reported under the
// given code with its translated message.
func Func(field, code string, pred func(v any) bool) Rule {
	return func(ctx context.Context, c *changeset.Changeset) changeset.Issues {
		if pred(c.Value(field)) {
			return nil
		}
		return changeset.Issues{issue(field, code, nil)}
	}
}

// And executes all rules and concatenates their issues.
func And(rules ...changeset.Validator) Rule {
	return func(ctx context.Context, c *changeset.Changeset) changeset.Issues {
		var out changeset.Issues
		for _, r := range rules {
			if r == nil {
				continue
			}
			if iss := r.Validate(ctx, c); len(iss) > 0 {
				out = append(out, iss...)
			}
		}
		return out
	}
}

// Or succeeds if any rule returns no issues. When all fail it returns the
// branch with the fewest issues.
func Or(rules ...changeset.Validator) Rule {
	return func(ctx context.Context, c *changeset.Changeset) changeset.Issues {
		var best changeset.Issues
		bestSet := false
		for _, r := range rules {
			if r == nil {
				continue
			}
			iss := r.Validate(ctx, c)
			if len(iss) == 0 {
				return nil
			}
			if !bestSet || len(iss) < len(best) {
				best = iss
				bestSet = true
			}
		}
		if bestSet {
			return best
		}
		return nil
	}
}

// When gates rules behind a predicate over the changeset.
func When(pred func(c *changeset.Changeset) bool, rules ...changeset.Validator) Rule {
	return func(ctx context.Context, c *changeset.Changeset) changeset.Issues {
		if pred == nil || !pred(c) {
			return nil
		}
		return And(rules...)(ctx, c)
	}
}

// ------- helpers -------

func issue(field, code string, params map[string]any) changeset.Issue {
	return changeset.Issue{Field: field, Code: code, Message: i18n.T(code, nil), Params: params}
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func numeric(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
