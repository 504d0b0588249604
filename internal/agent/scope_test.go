package agent

import "testing"

func TestIsInScope(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{"empty message", "", true},
		{"whitespace only", "   \n\t  ", true},
		{"meta help", "help", true},
		{"meta capabilities question", "what can you do?", true},
		{"meta who are you", "Who are you exactly?", true},
		{"revenue question", "Q4 2024 revenue by region", true},
		{"churn definition", "What is churn?", true},
		{"target tracking", "How are we tracking against targets this quarter?", true},
		{"sql request", "Run a query to count active customers", true},
		{"memory request", "Remember that I prefer tables", true},
		{"wordplay", `what is reverse of "apple"?`, false},
		{"anagram", "give me an anagram of listen", false},
		{"joke", "tell me a joke", false},
		{"poem", "write a poem about the sea", false},
		{"translation", "translate hello into French", false},
		{"recipe", "what's a good recipe for pasta?", false},
		{"code help", "write me some python to sort a list", false},
		{"short with no signal", "what time is it?", false},
		{"short greeting", "hey there", false},
		{"long ambiguous message passes", "I have been thinking about how our organization performed over the last fiscal period and whether the numbers look healthy", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsInScope(tc.message); got != tc.want {
				t.Errorf("IsInScope(%q) = %v, want %v", tc.message, got, tc.want)
			}
		})
	}
}
