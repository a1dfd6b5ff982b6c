package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FieldType tags the fixed-format check a rule applies after presence.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeNumber FieldType = "number"
	TypeDate   FieldType = "date"
	TypeEmail  FieldType = "email"
	TypePhone  FieldType = "phone"
)

// Rule is one declarative validation rule for a canonical field. Rule tables
// are fixed at build time; evaluation short-circuits on the first failing
// check, evaluated in order: required, type, length, enum, pattern, custom.
type Rule struct {
	Field         string
	Required      bool
	Type          FieldType
	MinLength     int
	MaxLength     int
	AllowedValues []string
	Pattern       *regexp.Regexp
	Custom        func(value string) error
}

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Check evaluates the rule against a single value, returning the first
// failure message or "".
func (r Rule) Check(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if r.Required {
			return "is required"
		}
		return ""
	}

	switch r.Type {
	case TypeNumber:
		if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
			return fmt.Sprintf("must be a number, got %q", value)
		}
	case TypeDate:
		if !dateRe.MatchString(trimmed) {
			return fmt.Sprintf("must be a calendar date (YYYY-MM-DD), got %q", value)
		}
	case TypeEmail:
		if !emailRe.MatchString(trimmed) {
			return fmt.Sprintf("must be an email address, got %q", value)
		}
	case TypePhone:
		if digitCount(trimmed) < 7 {
			return fmt.Sprintf("must be a phone number, got %q", value)
		}
	}

	if r.MinLength > 0 && utf8.RuneCountInString(trimmed) < r.MinLength {
		return fmt.Sprintf("must be at least %d characters", r.MinLength)
	}
	if r.MaxLength > 0 && utf8.RuneCountInString(trimmed) > r.MaxLength {
		return fmt.Sprintf("must be at most %d characters", r.MaxLength)
	}

	if len(r.AllowedValues) > 0 {
		found := false
		for _, allowed := range r.AllowedValues {
			if strings.EqualFold(trimmed, allowed) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Sprintf("must be one of %v", r.AllowedValues)
		}
	}

	if r.Pattern != nil && !r.Pattern.MatchString(trimmed) {
		return fmt.Sprintf("must match %s", r.Pattern)
	}

	if r.Custom != nil {
		if err := r.Custom(trimmed); err != nil {
			return err.Error()
		}
	}
	return ""
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
