package agent

import "github.com/insightlabs/insight/internal/domain/models"

// genericSuggestions is the fallback shown when no capability informed
// the turn.
var genericSuggestions = []string{
	"What was our Q4 revenue?",
	"How are we tracking against targets?",
	"What's our current churn rate?",
}

// suggestFollowups derives follow-up prompts from the capabilities
// used during a turn. Categories are checked in a fixed order and the
// first matching category wins per slot, capped at the configured
// maximum.
func suggestFollowups(toolsUsed []string, max int) []string {
	used := make(map[string]bool, len(toolsUsed))
	for _, t := range toolsUsed {
		used[t] = true
	}

	var suggestions []string
	add := func(s string) {
		if len(suggestions) < max {
			suggestions = append(suggestions, s)
		}
	}

	if used[string(models.CapabilityQueryWarehouse)] {
		add("Can you break that down by region?")
		add("How does that compare to the previous quarter?")
	}
	if used[string(models.CapabilitySearchKnowledge)] {
		add("What are our targets for the next period?")
	}
	if used[string(models.CapabilitySaveMemory)] {
		add("What else should I keep track of?")
	}

	if len(suggestions) == 0 {
		for _, s := range genericSuggestions {
			add(s)
		}
	}
	return suggestions
}
