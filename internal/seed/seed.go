// Package seed installs the first-run category list. It only fires when the
// bootstrap month has no categories at all, so reruns are free.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"budget/internal/core"
	"budget/internal/storage"
)

// defaultCategories is the fixed starter set, budgets in cents.
var defaultCategories = []struct {
	Name   string
	Budget core.Money
}{
	{"Rent", core.Cents(159500)},
	{"Utilities", core.Cents(5566)},
	{"Credit Payment", core.Cents(100000)},
	{"Internet", core.Cents(8163)},
	{"Phone", core.Cents(2109)},
	{"Transportation", core.Cents(8500)},
	{"Discretionary", core.Cents(45000)},
	{"Subscription Services", core.Cents(5000)},
	{"Cat Essentials", core.Cents(10000)},
	{"Laundry", core.Cents(2000)},
	{"Renters Insurance", core.Cents(2400)},
}

// Run seeds month with the starter categories and budgets when the month has
// none yet. It reports whether anything was inserted.
func Run(ctx context.Context, store *storage.Store, month core.MonthKey) (bool, error) {
	existing, err := store.ListCategories(ctx, month)
	if err != nil {
		return false, fmt.Errorf("check existing categories: %w", err)
	}
	if len(existing) > 0 {
		slog.DebugContext(ctx, "Seed skipped, categories exist",
			"month", month.String(), "count", len(existing))
		return false, nil
	}

	err = store.InTx(ctx, func(q *storage.Queries) error {
		for i, c := range defaultCategories {
			id, err := q.InsertCategory(ctx, core.Category{
				Month:     month,
				Name:      c.Name,
				SortOrder: i,
			})
			if err != nil {
				return err
			}
			err = q.UpsertBudgets(ctx, []core.MonthlyBudget{
				{CategoryID: id, Month: month, Budget: c.Budget},
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("seed categories: %w", err)
	}

	slog.InfoContext(ctx, "Seeded starter categories",
		"month", month.String(), "count", len(defaultCategories))
	return true, nil
}
