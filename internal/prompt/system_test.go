package prompt

import (
	"strings"
	"testing"

	"github.com/insightlabs/insight/internal/domain/models"
)

func TestSystem_WithoutMemory(t *testing.T) {
	got := System(nil)
	if !strings.Contains(got, "query_warehouse") {
		t.Error("system prompt should describe the warehouse capability")
	}
	if strings.Contains(got, "PAST CONTEXT") {
		t.Error("system prompt should not include memory section without memory")
	}

	empty := models.NewUserMemory("user_1")
	if got := System(empty); strings.Contains(got, "PAST CONTEXT") {
		t.Error("empty memory should not add a memory section")
	}
}

func TestSystem_WithMemory(t *testing.T) {
	memory := models.NewUserMemory("user_1")
	memory.Summary = "Works in EMEA sales ops."
	memory.Findings["q2_revenue"] = "up 12% QoQ"
	memory.Preferences["granularity"] = "monthly"

	got := System(memory)
	if !strings.Contains(got, "PAST CONTEXT") {
		t.Error("memory section missing")
	}
	if !strings.Contains(got, "Works in EMEA sales ops.") {
		t.Error("summary missing from rendered memory")
	}
	if !strings.Contains(got, "q2_revenue: up 12% QoQ") {
		t.Error("finding missing from rendered memory")
	}
	if !strings.Contains(got, "granularity: monthly") {
		t.Error("preference missing from rendered memory")
	}
}

func TestRenderMemory_CompactsFindings(t *testing.T) {
	memory := models.NewUserMemory("user_1")
	memory.Findings = map[string]string{
		"a": "1", "b": "2", "c": "3", "d": "4", "e": "5", "f": "6", "g": "7",
	}

	rendered := RenderMemory(memory)
	count := strings.Count(rendered, "- ")
	if count != maxFindings {
		t.Errorf("rendered %d findings, want %d", count, maxFindings)
	}
}

func TestRenderMemory_TruncatesLongContext(t *testing.T) {
	memory := models.NewUserMemory("user_1")
	memory.Summary = strings.Repeat("x", 5000)

	rendered := RenderMemory(memory)
	if len(rendered) > maxContextChars+3 {
		t.Errorf("rendered length = %d, want at most %d", len(rendered), maxContextChars+3)
	}
	if !strings.HasSuffix(rendered, "...") {
		t.Error("truncated memory should end with ellipsis")
	}
}
