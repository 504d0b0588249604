package knowledge

import (
	"context"
	"fmt"
	"time"

	"github.com/insightlabs/insight/internal/adapters/metrics"
	"github.com/insightlabs/insight/internal/domain"
	"github.com/insightlabs/insight/internal/domain/models"
	"github.com/insightlabs/insight/internal/ports"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// maxContentChars truncates long document chunks before they reach the
// model context.
const maxContentChars = 2000

// Searcher runs cosine-similarity search over embedded document chunks.
type Searcher struct {
	pool         *pgxpool.Pool
	embedder     ports.EmbeddingService
	minRelevance float64
}

func NewSearcher(pool *pgxpool.Pool, embedder ports.EmbeddingService, minRelevance float64) *Searcher {
	return &Searcher{
		pool:         pool,
		embedder:     embedder,
		minRelevance: minRelevance,
	}
}

// Search embeds the query and returns up to topK chunks above the
// relevance threshold, best first.
func (s *Searcher) Search(ctx context.Context, query string, topK int) ([]models.SearchResult, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrEmbeddingsFailed, err.Error())
	}

	start := time.Now()

	// 1 - cosine distance is cosine similarity
	sql := `
		SELECT content, source, 1 - (embedding <=> $1) AS relevance
		FROM insight_knowledge
		WHERE 1 - (embedding <=> $1) >= $2
		ORDER BY embedding <=> $1
		LIMIT $3`

	rows, err := s.pool.Query(ctx, sql, pgvector.NewVector(vector), s.minRelevance, topK)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrSearchFailed, err.Error())
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var r models.SearchResult
		if err := rows.Scan(&r.Content, &r.Source, &r.RelevanceScore); err != nil {
			return nil, domain.NewDomainError(domain.ErrSearchFailed, err.Error())
		}
		if len(r.Content) > maxContentChars {
			r.Content = r.Content[:maxContentChars] + "..."
		}
		r.Citation = fmt.Sprintf("[Source: %s]", r.Source)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewDomainError(domain.ErrSearchFailed, err.Error())
	}

	metrics.KnowledgeSearchDuration.Observe(time.Since(start).Seconds())
	return results, nil
}

// Insert adds a document chunk with its embedding. Used by the seed
// command.
func (s *Searcher) Insert(ctx context.Context, id, source, content string) error {
	vector, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return domain.NewDomainError(domain.ErrEmbeddingsFailed, err.Error())
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO insight_knowledge (id, source, content, embedding)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			source = EXCLUDED.source,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding`,
		id, source, content, pgvector.NewVector(vector),
	)
	return err
}
