package agent

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/insightlabs/insight/internal/domain/models"
)

const (
	maxTraceInputChars = 200
	maxDisplayRows     = 50
	maxSampleColumns   = 4
)

// currencyColumns marks column names whose numeric values render as
// dollar amounts in result summaries.
var currencyColumns = map[string]bool{
	"revenue":        true,
	"amount":         true,
	"total":          true,
	"total_revenue":  true,
	"price":          true,
	"cost":           true,
	"value":          true,
	"lifetime_value": true,
	"ltv":            true,
	"target_amount":  true,
	"mrr":            true,
	"arr":            true,
}

// traceInput renders the human-readable input shown in a reasoning
// trace's started event.
func traceInput(call models.CapabilityCall) string {
	switch call.Kind {
	case models.CapabilityQueryWarehouse:
		if call.Query != nil {
			return truncate(strings.TrimSpace(call.Query.Query), maxTraceInputChars)
		}
	case models.CapabilitySearchKnowledge:
		if call.Search != nil {
			topK := call.Search.TopK
			if topK <= 0 {
				topK = defaultSearchTopK
			}
			return fmt.Sprintf("%q (top %d)", call.Search.Query, topK)
		}
	case models.CapabilityGetContext:
		if call.Context != nil {
			return string(call.Context.ContextType)
		}
	case models.CapabilitySaveMemory:
		if call.Memory != nil {
			return fmt.Sprintf("%s: %s", call.Memory.MemoryType, call.Memory.Key)
		}
	}
	return truncate(call.RawArgs, maxTraceInputChars)
}

// resultSummary renders the one-line outcome shown in a reasoning
// trace's completed event.
func resultSummary(result models.CapabilityResult) string {
	if !result.Success {
		return result.Error
	}
	switch payload := result.Payload.(type) {
	case *models.QueryResult:
		return queryResultSummary(payload)
	case *models.SearchPayload:
		return searchResultSummary(payload)
	case *models.ContextPayload:
		return fmt.Sprintf("Retrieved %s context", payload.ContextType)
	case *models.MemoryPayload:
		return fmt.Sprintf("Saved %s: %q", payload.MemoryType, payload.Key)
	}
	return "Done"
}

func queryResultSummary(r *models.QueryResult) string {
	if r.RowCount == 0 {
		return "Query returned no rows."
	}
	noun := "rows"
	if r.RowCount == 1 {
		noun = "row"
	}
	summary := fmt.Sprintf("Found %d %s.", r.RowCount, noun)
	if sample := sampleRow(r); sample != "" {
		summary += " Sample: " + sample
	}
	return summary
}

func sampleRow(r *models.QueryResult) string {
	if len(r.Rows) == 0 {
		return ""
	}
	row := r.Rows[0]
	columns := r.Columns
	if len(columns) == 0 {
		columns = make([]string, 0, len(row))
		for col := range row {
			columns = append(columns, col)
		}
		sort.Strings(columns)
	}
	if len(columns) > maxSampleColumns {
		columns = columns[:maxSampleColumns]
	}
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		value, ok := row[col]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", col, formatValue(col, value)))
	}
	return strings.Join(parts, ", ")
}

func searchResultSummary(p *models.SearchPayload) string {
	if len(p.Results) == 0 {
		return "No relevant documents found."
	}
	noun := "documents"
	if len(p.Results) == 1 {
		noun = "document"
	}
	sources := make([]string, 0, len(p.Results))
	for _, r := range p.Results {
		sources = append(sources, r.Source)
	}
	return fmt.Sprintf("Found %d relevant %s: %s", len(p.Results), noun, strings.Join(sources, ", "))
}

// formatValue renders a cell value for display, abbreviating currency
// columns to K/M notation.
func formatValue(column string, value any) string {
	if value == nil {
		return "null"
	}
	if n, ok := asFloat(value); ok && currencyColumns[strings.ToLower(column)] {
		return formatCurrency(n)
	}
	return fmt.Sprintf("%v", value)
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func formatCurrency(n float64) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1_000_000:
		return trimZero(fmt.Sprintf("$%.1fM", n/1_000_000))
	case abs >= 1_000:
		return trimZero(fmt.Sprintf("$%.1fK", n/1_000))
	default:
		return trimZero(fmt.Sprintf("$%.2f", n))
	}
}

func trimZero(s string) string {
	if i := strings.Index(s, "."); i >= 0 {
		suffix := ""
		if last := s[len(s)-1]; last == 'K' || last == 'M' {
			suffix = string(last)
			s = s[:len(s)-1]
		}
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
		s += suffix
	}
	return s
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	// Back up to a rune boundary so multi-byte characters are never split.
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
