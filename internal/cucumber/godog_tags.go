package cucumber

import "strings"

// tagExpression builds a godog tag expression from tag names.
// Names prefixed with "~" or "!" are negated.
func tagExpression(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		negate := false
		if strings.HasPrefix(tag, "~") || strings.HasPrefix(tag, "!") {
			negate = true
			tag = strings.TrimSpace(tag[1:])
		}
		if tag == "" {
			continue
		}
		if !strings.HasPrefix(tag, "@") {
			tag = "@" + tag
		}
		if negate {
			tag = "not " + tag
		}
		parts = append(parts, tag)
	}
	return strings.Join(parts, " and ")
}

// withoutEnv drops env entries for key.
func withoutEnv(env []string, key string) []string {
	prefix := key + "="
	filtered := make([]string, 0, len(env))
	for _, entry := range env {
		if strings.HasPrefix(entry, prefix) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}
