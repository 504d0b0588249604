package agent

import (
	"regexp"
	"strings"
)

const (
	maxMemoryKeyLength = 64
	maxLogValueChars   = 500
)

type redaction struct {
	pattern     *regexp.Regexp
	replacement string
}

var piiRedactions = []redaction{
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`), "[EMAIL]"},
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[REDACTED_SSN]"},
	{regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`), "[REDACTED_CARD]"},
	{regexp.MustCompile(`(?i)(api[_-]?key|secret|password|token)\s*[:=]\s*\S+`), "[REDACTED_SECRET]"},
}

// redactPII masks emails, SSNs, card numbers and credential-looking
// assignments before text is logged or persisted as a finding.
func redactPII(s string) string {
	for _, r := range piiRedactions {
		s = r.pattern.ReplaceAllString(s, r.replacement)
	}
	return s
}

var memoryKeyInvalid = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// sanitizeMemoryKey normalizes a memory key to [a-zA-Z0-9_] and caps
// its length so keys stay usable as stable identifiers.
func sanitizeMemoryKey(key string) string {
	key = memoryKeyInvalid.ReplaceAllString(strings.TrimSpace(key), "_")
	if len(key) > maxMemoryKeyLength {
		key = key[:maxMemoryKeyLength]
	}
	return key
}

// truncateForLog caps a string for log output.
func truncateForLog(s string) string {
	if len(s) <= maxLogValueChars {
		return s
	}
	return s[:maxLogValueChars] + "..."
}
