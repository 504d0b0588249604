package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/insightlabs/insight/internal/adapters/knowledge"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

// seedCmd loads demo warehouse data and knowledge documents
func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo warehouse tables and knowledge base documents",
		Long: `Create the demo analytics warehouse (transactions, customers,
targets) and embed the bundled knowledge base documents. Requires the
embedding endpoint for the knowledge base step.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context())
		},
	}
}

func runSeed(ctx context.Context) error {
	s, err := buildStack(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	if err := seedWarehouse(ctx, s.warehouse); err != nil {
		return fmt.Errorf("failed to seed warehouse: %w", err)
	}
	slog.Info("warehouse tables seeded")

	if s.embedding == nil {
		slog.Warn("embedding service not configured, skipping knowledge base")
		return nil
	}

	searcher := knowledge.NewSearcher(s.db, s.embedding, cfg.Agent.MinRelevance)
	for _, doc := range knowledgeDocuments {
		if err := searcher.Insert(ctx, doc.id, doc.source, doc.content); err != nil {
			return fmt.Errorf("failed to index %s: %w", doc.source, err)
		}
		slog.Info("indexed knowledge document", "source", doc.source)
	}
	return nil
}

func seedWarehouse(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id SERIAL PRIMARY KEY,
			date DATE NOT NULL,
			region TEXT NOT NULL,
			product_id TEXT NOT NULL,
			customer_id TEXT NOT NULL,
			quantity INT NOT NULL,
			revenue NUMERIC(12,2) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			customer_id TEXT PRIMARY KEY,
			segment TEXT NOT NULL,
			acquisition_date DATE NOT NULL,
			lifetime_value NUMERIC(12,2) NOT NULL,
			region TEXT NOT NULL,
			status TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS targets (
			region TEXT NOT NULL,
			quarter TEXT NOT NULL,
			year INT NOT NULL,
			target_amount NUMERIC(12,2) NOT NULL,
			PRIMARY KEY (region, quarter, year)
		)`,
		`INSERT INTO customers (customer_id, segment, acquisition_date, lifetime_value, region, status) VALUES
			('c_001', 'Enterprise', '2022-03-14', 182000, 'North', 'active'),
			('c_002', 'Enterprise', '2021-11-02', 240500, 'West', 'active'),
			('c_003', 'SMB', '2023-01-20', 16400, 'South', 'active'),
			('c_004', 'SMB', '2023-06-08', 9800, 'East', 'churned'),
			('c_005', 'Consumer', '2024-02-11', 1250, 'North', 'active'),
			('c_006', 'Consumer', '2024-04-29', 860, 'West', 'active'),
			('c_007', 'SMB', '2022-09-15', 22100, 'North', 'active'),
			('c_008', 'Enterprise', '2023-10-03', 158000, 'South', 'active')
		ON CONFLICT (customer_id) DO NOTHING`,
		`INSERT INTO transactions (date, region, product_id, customer_id, quantity, revenue) VALUES
			('2024-10-06', 'North', 'p_analytics', 'c_001', 4, 1240000),
			('2024-10-19', 'West', 'p_analytics', 'c_002', 3, 980000),
			('2024-11-03', 'South', 'p_starter', 'c_003', 12, 84000),
			('2024-11-21', 'North', 'p_suite', 'c_007', 2, 310000),
			('2024-12-02', 'West', 'p_suite', 'c_006', 1, 4200),
			('2024-12-15', 'South', 'p_analytics', 'c_008', 5, 760000),
			('2024-12-28', 'North', 'p_starter', 'c_005', 8, 2400),
			('2025-01-09', 'East', 'p_starter', 'c_004', 2, 5600)`,
		`INSERT INTO targets (region, quarter, year, target_amount) VALUES
			('North', 'Q4', 2024, 1500000),
			('South', 'Q4', 2024, 900000),
			('East', 'Q4', 2024, 400000),
			('West', 'Q4', 2024, 1100000),
			('North', 'Q1', 2025, 1650000),
			('South', 'Q1', 2025, 950000),
			('East', 'Q1', 2025, 450000),
			('West', 'Q1', 2025, 1200000)
		ON CONFLICT (region, quarter, year) DO NOTHING`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

type seedDocument struct {
	id      string
	source  string
	content string
}

var knowledgeDocuments = []seedDocument{
	{
		id:     "kb_churn",
		source: "metric_definitions.md",
		content: `Churn rate is the percentage of customers whose status moved to
'churned' during a period, divided by the customers active at the start of
that period. We report churn monthly and quarterly, split by segment.
Enterprise churn above 2% per quarter triggers an account review.`,
	},
	{
		id:     "kb_ltv",
		source: "metric_definitions.md",
		content: `Lifetime value (LTV) is the total expected revenue from a customer
over the whole relationship. We compute it as average monthly revenue times
expected tenure in months, discounted at 10% annually. CAC payback is LTV
divided by the cost of acquiring the customer; a healthy ratio is 3 or more.`,
	},
	{
		id:     "kb_targets",
		source: "quarterly_targets.md",
		content: `Quarterly revenue targets are set per region by the finance team in
the last month of the preceding quarter. Q4 2024 targets: North $1.5M,
West $1.1M, South $900K, East $400K. Regions that exceed target two quarters
in a row get their next target raised by 10%.`,
	},
	{
		id:     "kb_segments",
		source: "customer_segments.md",
		content: `Customer segments: Enterprise accounts have more than 500 seats and
a dedicated account manager. SMB covers 10 to 500 seats with pooled support.
Consumer is self-serve under 10 seats. Segment is assigned at acquisition
and re-evaluated yearly.`,
	},
	{
		id:     "kb_pricing",
		source: "pricing_policy.md",
		content: `Pricing changed in October 2024: list prices for the analytics suite
rose 8% in North and West regions while South and East kept 2023 pricing to
support expansion. Discounts above 20% require VP approval.`,
	},
}
