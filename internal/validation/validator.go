// Package validation is the declarative per-field rule checker and
// sanitizer used by every write endpoint. Validate is a pure function
// of (data, rules); it never touches the transport or the store.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// Result reports the outcome of a Validate call. Errors is keyed by
// field name; when several rules on one field fail, the last evaluated
// violation wins. Sanitized only contains fields that were present and
// passed through a sanitizing rule.
type Result struct {
	IsValid   bool
	Errors    map[string]string
	Sanitized map[string]any
}

var (
	stripPolicy = bluemonday.StrictPolicy()

	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?)+$`)
	emailChars   = regexp.MustCompile(`[^a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~@\-\[\]]`)
	numberChars  = regexp.MustCompile(`[^0-9.+\-]`)
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
}

// Validate applies rules to data and returns the validation status, the
// per-field errors and the sanitized values.
func Validate(data map[string]any, rules RuleSet) Result {
	errs := map[string]string{}
	sanitized := map[string]any{}

	for field, fieldRules := range rules {
		value, present := data[field]

		// Skip if field is not required and not present.
		if !present && !hasRequired(fieldRules) {
			continue
		}

		if hasRequired(fieldRules) && isEmpty(value) {
			errs[field] = fmt.Sprintf("The %s field is required", field)
			continue
		}

		// Empty optional field: nothing further to check.
		if isEmpty(value) {
			continue
		}

		for _, rule := range fieldRules {
			switch rule.kind {
			case ruleRequired:
				// handled above

			case ruleEmail:
				s := stringify(value)
				if !emailPattern.MatchString(s) {
					errs[field] = "Invalid email format"
				}
				sanitized[field] = emailChars.ReplaceAllString(s, "")

			case ruleString:
				s, ok := value.(string)
				if !ok {
					errs[field] = fmt.Sprintf("The %s must be a string", field)
					s = stringify(value)
				}
				sanitized[field] = stripPolicy.Sanitize(s)

			case ruleNumber:
				if !isNumeric(value) {
					errs[field] = fmt.Sprintf("The %s must be a number", field)
				}
				sanitized[field] = numberChars.ReplaceAllString(stringify(value), "")

			case ruleDate:
				normalized, ok := parseDate(stringify(value))
				if !ok {
					// An unparseable date yields an error and no
					// sanitized value for the field.
					errs[field] = fmt.Sprintf("Invalid date format for %s", field)
					break
				}
				sanitized[field] = normalized

			case ruleMinLen:
				if len(stringify(value)) < rule.bound {
					errs[field] = fmt.Sprintf("The %s must be at least %d characters", field, rule.bound)
				}

			case ruleMaxLen:
				if len(stringify(value)) > rule.bound {
					errs[field] = fmt.Sprintf("The %s must not exceed %d characters", field, rule.bound)
				}
			}
		}
	}

	return Result{
		IsValid:   len(errs) == 0,
		Errors:    errs,
		Sanitized: sanitized,
	}
}

func hasRequired(rules []Rule) bool {
	for _, r := range rules {
		if r.kind == ruleRequired {
			return true
		}
	}
	return false
}

// isEmpty treats nil and blank strings as missing. Numeric zero counts
// as present.
func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(value)
	}
}

func isNumeric(value any) bool {
	switch value.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case string:
		_, err := strconv.ParseFloat(value.(string), 64)
		return err == nil
	}
	return false
}

func parseDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
