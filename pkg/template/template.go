// Package template implements placeholder substitution for notification and
// audit message templates. Placeholders use the form {name}. Substitution is
// deliberately tolerant: unresolved placeholders pass through verbatim so a
// partially-known variable set never fails, while Validate surfaces the
// incompleteness for callers that need to block submission.
package template

import (
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Substitute replaces every {name} occurrence with variables[name].
// Placeholders without a matching key are left untouched.
func Substitute(content string, variables map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(content, func(token string) string {
		name := token[1 : len(token)-1]
		if value, ok := variables[name]; ok {
			return value
		}
		return token
	})
}

// ExtractVariables returns the unique placeholder names in content, in
// first-occurrence order.
func ExtractVariables(content string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, match := range placeholderPattern.FindAllStringSubmatch(content, -1) {
		name := match[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// ValidationResult reports which required variables lack a usable value.
type ValidationResult struct {
	IsValid          bool
	MissingVariables []string
}

// Validate checks that every required variable has a non-empty value.
// A variable is missing when it is absent from the map or empty.
func Validate(required []string, variables map[string]string) ValidationResult {
	var missing []string
	for _, name := range required {
		if strings.TrimSpace(variables[name]) == "" {
			missing = append(missing, name)
		}
	}
	return ValidationResult{IsValid: len(missing) == 0, MissingVariables: missing}
}

// Preview renders content for human inspection: resolved variables are
// substituted, and required variables without a value are rendered as [name]
// instead of being left as {name}. When required is nil, every placeholder in
// content is treated as required.
func Preview(content string, required []string, variables map[string]string) string {
	if required == nil {
		required = ExtractVariables(content)
	}
	requiredSet := make(map[string]struct{}, len(required))
	for _, name := range required {
		requiredSet[name] = struct{}{}
	}
	return placeholderPattern.ReplaceAllStringFunc(content, func(token string) string {
		name := token[1 : len(token)-1]
		if value, ok := variables[name]; ok && value != "" {
			return value
		}
		if _, ok := requiredSet[name]; ok {
			return "[" + name + "]"
		}
		return token
	})
}
