package warehouse

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/insightlabs/insight/internal/adapters/metrics"
	"github.com/insightlabs/insight/internal/domain"
	"github.com/insightlabs/insight/internal/domain/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Engine executes validated read-only SQL against the analytics
// warehouse.
type Engine struct {
	pool         *pgxpool.Pool
	maxRows      int
	queryTimeout time.Duration
}

func NewEngine(pool *pgxpool.Pool, maxRows int, queryTimeout time.Duration) *Engine {
	return &Engine{
		pool:         pool,
		maxRows:      maxRows,
		queryTimeout: queryTimeout,
	}
}

var (
	commentLine  = regexp.MustCompile(`--[^\n]*`)
	commentBlock = regexp.MustCompile(`(?s)/\*.*?\*/`)

	// Statements that mutate state or escape the query sandbox. Matched
	// as whole words against the comment-stripped query.
	deniedKeywords = regexp.MustCompile(`(?i)\b(insert|update|delete|drop|create|alter|truncate|grant|revoke|copy|vacuum|analyze|reindex|cluster|listen|notify|lock|do|call|merge|set|reset|begin|commit|rollback|savepoint|prepare|execute|deallocate)\b`)
)

// Validate rejects anything that is not a single read-only SELECT or
// WITH statement.
func Validate(query string) error {
	stripped := commentBlock.ReplaceAllString(query, " ")
	stripped = commentLine.ReplaceAllString(stripped, " ")
	stripped = strings.TrimSpace(stripped)
	stripped = strings.TrimSuffix(stripped, ";")
	stripped = strings.TrimSpace(stripped)

	if stripped == "" {
		return domain.NewDomainError(domain.ErrQueryNotReadOnly, "empty query")
	}

	if strings.Contains(stripped, ";") {
		return domain.NewDomainError(domain.ErrQueryNotReadOnly, "multiple statements are not allowed")
	}

	upper := strings.ToUpper(stripped)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return domain.NewDomainError(domain.ErrQueryNotReadOnly, "query must start with SELECT or WITH")
	}

	if match := deniedKeywords.FindString(stripped); match != "" {
		return domain.NewDomainError(domain.ErrQueryNotReadOnly, fmt.Sprintf("keyword %q is not allowed", strings.ToUpper(match)))
	}

	return nil
}

// Execute validates and runs a query, returning at most maxRows rows.
func (e *Engine) Execute(ctx context.Context, query string) (*models.QueryResult, error) {
	if err := Validate(query); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.queryTimeout)
	defer cancel()

	start := time.Now()
	rows, err := e.pool.Query(ctx, query)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, domain.ErrQueryTimeout
		}
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	result := &models.QueryResult{
		Success: true,
		Columns: columns,
		Rows:    []map[string]any{},
	}

	for rows.Next() {
		if len(result.Rows) >= e.maxRows {
			break
		}
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, domain.ErrQueryTimeout
		}
		return nil, fmt.Errorf("query failed: %w", err)
	}

	result.RowCount = len(result.Rows)
	metrics.WarehouseQueryDuration.Observe(time.Since(start).Seconds())

	return result, nil
}
