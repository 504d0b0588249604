package warehouse

import (
	"errors"
	"testing"

	"github.com/insightlabs/insight/internal/domain"
)

func TestValidate_AllowsReadOnly(t *testing.T) {
	queries := []string{
		"SELECT * FROM orders",
		"select revenue, month from monthly_revenue order by month",
		"WITH top AS (SELECT product_id FROM orders GROUP BY product_id) SELECT * FROM top",
		"SELECT count(*) FROM customers;",
		"  SELECT 1  ",
		"-- leading comment\nSELECT 1",
		"/* block comment */ SELECT region, sum(total) FROM orders GROUP BY region",
	}

	for _, q := range queries {
		if err := Validate(q); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", q, err)
		}
	}
}

func TestValidate_RejectsWrites(t *testing.T) {
	queries := []string{
		"INSERT INTO orders VALUES (1)",
		"UPDATE orders SET total = 0",
		"DELETE FROM orders",
		"DROP TABLE orders",
		"TRUNCATE orders",
		"CREATE TABLE x (id int)",
		"ALTER TABLE orders ADD COLUMN x int",
		"GRANT ALL ON orders TO public",
		"COPY orders TO '/tmp/out'",
	}

	for _, q := range queries {
		err := Validate(q)
		if !errors.Is(err, domain.ErrQueryNotReadOnly) {
			t.Errorf("Validate(%q) = %v, want ErrQueryNotReadOnly", q, err)
		}
	}
}

func TestValidate_RejectsEmbeddedWrites(t *testing.T) {
	queries := []string{
		"SELECT 1; DROP TABLE orders",
		"SELECT * FROM orders; DELETE FROM orders",
		"WITH x AS (DELETE FROM orders RETURNING *) SELECT * FROM x",
	}

	for _, q := range queries {
		if err := Validate(q); err == nil {
			t.Errorf("Validate(%q) = nil, want error", q)
		}
	}
}

func TestValidate_RejectsCommentHiddenKeywords(t *testing.T) {
	// Comments are stripped before keyword checks, so keywords hidden
	// only inside comments pass while real ones still fail.
	if err := Validate("SELECT 1 -- drop table orders"); err != nil {
		t.Errorf("keyword inside comment should not trip validation: %v", err)
	}
	if err := Validate("/* select */ DELETE FROM orders"); err == nil {
		t.Error("real DELETE after comment should fail validation")
	}
}

func TestValidate_RejectsEmptyAndNonSelect(t *testing.T) {
	for _, q := range []string{"", "   ", ";", "EXPLAIN SELECT 1", "SHOW tables"} {
		if err := Validate(q); err == nil {
			t.Errorf("Validate(%q) = nil, want error", q)
		}
	}
}
