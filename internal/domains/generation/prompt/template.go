// Package prompt renders pack prompt templates against trait values.
// Templates use {{name}} style placeholders; rendering is strict, an
// unresolved placeholder is an error rather than silent empty output.
package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z][a-zA-Z0-9_]*)\s*\}\}`)

// Render substitutes every placeholder in template with its value from
// vars. It fails listing the missing keys if any placeholder has no
// value.
func Render(template string, vars map[string]string) (string, error) {
	if err := Check(template); err != nil {
		return "", err
	}

	var missing []string
	out := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := vars[key]
		if !ok {
			missing = append(missing, key)
			return match
		}
		return value
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("unresolved placeholders: %s", strings.Join(missing, ", "))
	}

	return out, nil
}

// Placeholders returns the distinct placeholder names in order of first
// appearance.
func Placeholders(template string) []string {
	seen := make(map[string]bool)
	names := []string{}
	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			names = append(names, match[1])
		}
	}
	return names
}

// Check rejects templates with malformed placeholder syntax, i.e. any
// {{ ... }} pair the placeholder grammar does not accept.
func Check(template string) error {
	stripped := placeholderPattern.ReplaceAllString(template, "")
	if idx := strings.Index(stripped, "{{"); idx >= 0 {
		return fmt.Errorf("malformed placeholder near offset %d", idx)
	}
	if idx := strings.Index(stripped, "}}"); idx >= 0 {
		return fmt.Errorf("unmatched placeholder close near offset %d", idx)
	}
	return nil
}
