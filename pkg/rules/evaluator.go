package rules

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/goliatone/go-formbind/pkg/paths"
)

// Evaluator is the seam form controllers use to run validation. The default
// implementation evaluates a Set; callers can substitute their own (for
// example one backed by a remote service).
type Evaluator interface {
	// IsFieldRequired reports whether the field at path carries a required
	// constraint. Paths are normalized before lookup.
	IsFieldRequired(path string) bool

	// ValidateField checks the single field at path against the configured
	// rules. A nil return means valid; otherwise the error message is the
	// display string for the field.
	ValidateField(ctx context.Context, data any, path string) error

	// ValidateFields checks every field reachable under the provided group
	// keys. A nil return means all fields are valid; otherwise the error is a
	// FieldErrors mapping concrete field paths to messages.
	ValidateFields(ctx context.Context, data any, groups []string) error
}

// SetEvaluator evaluates the canonical rule kinds declared in a Set.
type SetEvaluator struct {
	set Set

	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

var _ Evaluator = (*SetEvaluator)(nil)

// NewEvaluator constructs the default evaluator over the given rule set.
func NewEvaluator(set Set) *SetEvaluator {
	return &SetEvaluator{
		set:      set,
		patterns: make(map[string]*regexp.Regexp),
	}
}

// IsFieldRequired implements Evaluator.
func (e *SetEvaluator) IsFieldRequired(path string) bool {
	for _, rule := range e.set[paths.Normalize(path)] {
		if rule.Kind == RuleRequired {
			return true
		}
	}
	return false
}

// ValidateField implements Evaluator.
func (e *SetEvaluator) ValidateField(ctx context.Context, data any, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fieldRules := e.set[paths.Normalize(path)]
	if len(fieldRules) == 0 {
		return nil
	}

	value, present := paths.Read(data, path)
	for _, rule := range fieldRules {
		if err := e.check(rule, value, present); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFields implements Evaluator. Each group key is expanded against the
// data's leaf paths so collection rules ("items.qty") run once per present
// element; rule keys with no matching leaf are still checked so required
// constraints fire for absent fields.
func (e *SetEvaluator) ValidateFields(ctx context.Context, data any, groups []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(e.set) == 0 || len(groups) == 0 {
		return nil
	}

	found := make(FieldErrors)
	leaves := paths.Flatten(data)

	for _, group := range groups {
		covered := make(map[string]struct{})

		for _, leaf := range leaves {
			if !underGroup(leaf, group) {
				continue
			}
			key := paths.Normalize(leaf)
			if len(e.set[key]) == 0 {
				continue
			}
			covered[key] = struct{}{}
			if err := e.ValidateField(ctx, data, leaf); err != nil {
				found[leaf] = err.Error()
			}
		}

		for key := range e.set {
			if !underGroup(key, group) {
				continue
			}
			if _, ok := covered[key]; ok {
				continue
			}
			if err := e.ValidateField(ctx, data, key); err != nil {
				found[key] = err.Error()
			}
		}
	}

	if len(found) == 0 {
		return nil
	}
	return found
}

func underGroup(path, group string) bool {
	if path == group {
		return true
	}
	return strings.HasPrefix(path, group+".") || strings.HasPrefix(path, group+"[")
}

func (e *SetEvaluator) check(rule Rule, value any, present bool) error {
	empty := !present || value == nil || value == ""

	switch rule.Kind {
	case RuleRequired:
		if empty {
			return ruleError(rule, "is required")
		}
	case RuleMin:
		if empty {
			return nil
		}
		return e.checkBound(rule, value, true)
	case RuleMax:
		if empty {
			return nil
		}
		return e.checkBound(rule, value, false)
	case RuleMinLength:
		if empty {
			return nil
		}
		limit, err := strconv.Atoi(rule.Param("value"))
		if err != nil {
			return fmt.Errorf("rules: minLength: bad value %q", rule.Param("value"))
		}
		if utf8.RuneCountInString(stringValue(value)) < limit {
			return ruleError(rule, fmt.Sprintf("must be at least %d characters", limit))
		}
	case RuleMaxLength:
		if empty {
			return nil
		}
		limit, err := strconv.Atoi(rule.Param("value"))
		if err != nil {
			return fmt.Errorf("rules: maxLength: bad value %q", rule.Param("value"))
		}
		if utf8.RuneCountInString(stringValue(value)) > limit {
			return ruleError(rule, fmt.Sprintf("must be at most %d characters", limit))
		}
	case RulePattern:
		if empty {
			return nil
		}
		re, err := e.compile(rule.Param("pattern"))
		if err != nil {
			return fmt.Errorf("rules: pattern: %w", err)
		}
		if !re.MatchString(stringValue(value)) {
			return ruleError(rule, "has an invalid format")
		}
	case RuleFormat:
		if empty {
			return nil
		}
		return e.checkFormat(rule, value)
	case RuleEnum:
		if empty {
			return nil
		}
		allowed := strings.Split(rule.Param("values"), ",")
		got := stringValue(value)
		for _, candidate := range allowed {
			if strings.TrimSpace(candidate) == got {
				return nil
			}
		}
		return ruleError(rule, "must be one of: "+rule.Param("values"))
	default:
		return fmt.Errorf("rules: unknown rule kind %q", rule.Kind)
	}
	return nil
}

func (e *SetEvaluator) checkBound(rule Rule, value any, lower bool) error {
	limit, err := strconv.ParseFloat(rule.Param("value"), 64)
	if err != nil {
		return fmt.Errorf("rules: %s: bad value %q", rule.Kind, rule.Param("value"))
	}
	number, ok := numericValue(value)
	if !ok {
		return ruleError(rule, "must be a number")
	}
	exclusive := rule.Param("exclusive") == "true"

	switch {
	case lower && exclusive && number <= limit:
		return ruleError(rule, fmt.Sprintf("must be greater than %s", rule.Param("value")))
	case lower && !exclusive && number < limit:
		return ruleError(rule, fmt.Sprintf("must be at least %s", rule.Param("value")))
	case !lower && exclusive && number >= limit:
		return ruleError(rule, fmt.Sprintf("must be less than %s", rule.Param("value")))
	case !lower && !exclusive && number > limit:
		return ruleError(rule, fmt.Sprintf("must be at most %s", rule.Param("value")))
	}
	return nil
}

var formatPatterns = map[string]*regexp.Regexp{
	"email": regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`),
	"uuid":  regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`),
}

func (e *SetEvaluator) checkFormat(rule Rule, value any) error {
	name := strings.ToLower(strings.TrimSpace(rule.Param("name")))
	re, ok := formatPatterns[name]
	if !ok {
		return fmt.Errorf("rules: unknown format %q", name)
	}
	if !re.MatchString(stringValue(value)) {
		return ruleError(rule, "must be a valid "+name)
	}
	return nil
}

func (e *SetEvaluator) compile(pattern string) (*regexp.Regexp, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if re, ok := e.patterns[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	e.patterns[pattern] = re
	return re, nil
}

func ruleError(rule Rule, fallback string) error {
	if msg := rule.Message(); msg != "" {
		return errors.New(msg)
	}
	return errors.New(fallback)
}

func stringValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
