package agent

import (
	"regexp"
	"strings"
)

// shortMessageLimit is the length under which a message with no domain
// signal is assumed off-topic. Short legitimate follow-ups ("why?",
// "break it down") are misclassified unless they carry a keyword hint;
// tune the keyword list rather than this limit when that bites.
const shortMessageLimit = 60

// metaPhrases are always in scope: questions about the assistant itself.
var metaPhrases = []string{
	"help",
	"what can you do",
	"what do you do",
	"who are you",
	"how do you work",
	"capabilities",
}

// domainKeywords are case-insensitive substring hints that a message is
// about business data.
var domainKeywords = []string{
	"revenue", "sales", "profit", "margin", "growth",
	"churn", "retention", "acquisition", "ltv", "cac", "mrr", "arr",
	"kpi", "metric", "target", "goal", "forecast", "budget",
	"customer", "segment", "region", "product", "pricing",
	"quarter", "q1", "q2", "q3", "q4", "annual", "monthly", "yoy", "qoq",
	"north", "south", "east", "west", "emea", "apac",
	"sql", "query", "data", "warehouse", "dashboard", "report",
	"trend", "compare", "breakdown", "analysis", "analyze",
	"remember", "preference", "memory",
}

// outOfScopePatterns match requests that are clearly not business
// intelligence: wordplay, jokes, creative writing, general coding help.
var outOfScopePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(anagram|palindrome|rhyme)\b`),
	regexp.MustCompile(`(?i)\breverse\s+of\b`),
	regexp.MustCompile(`(?i)\b(tell|write)\s+(me\s+)?(a\s+)?(joke|poem|story|song|haiku)\b`),
	regexp.MustCompile(`(?i)\btranslate\b.*\b(to|into)\b`),
	regexp.MustCompile(`(?i)\b(recipe|horoscope|lottery)\b`),
	regexp.MustCompile(`(?i)\bwrite\s+(me\s+)?(some\s+)?(python|javascript|java|c\+\+)\b`),
}

// IsInScope decides whether a message is in-domain before any model or
// capability call is made. Pure function, evaluated in rule order: empty
// and meta messages pass, keyword hints pass, known off-topic patterns
// fail, short messages with no signal fail, everything else passes.
func IsInScope(message string) bool {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return true
	}

	lower := strings.ToLower(trimmed)

	for _, phrase := range metaPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	for _, keyword := range domainKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}

	for _, pattern := range outOfScopePatterns {
		if pattern.MatchString(trimmed) {
			return false
		}
	}

	if len(trimmed) <= shortMessageLimit {
		return false
	}

	return true
}
