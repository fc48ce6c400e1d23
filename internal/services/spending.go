// Package services orchestrates the ledger: spending aggregation, month
// rollover, the command surface and the reactive dashboard feed.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"budget/internal/core"
	"budget/internal/storage"
)

// SpendingAggregator maintains the cached per-category spent totals. Totals
// are always a full re-sum over the month's transactions; nothing is
// maintained incrementally, so repeated runs cannot drift.
type SpendingAggregator struct {
	store *storage.Store
}

func NewSpendingAggregator(store *storage.Store) *SpendingAggregator {
	return &SpendingAggregator{store: store}
}

// Recalculate re-sums every category of the month and replaces the cached
// spending rows, all in one transaction.
func (a *SpendingAggregator) Recalculate(ctx context.Context, month core.MonthKey) error {
	err := a.store.InTx(ctx, func(q *storage.Queries) error {
		categories, err := q.ListCategories(ctx, month)
		if err != nil {
			return err
		}
		for _, c := range categories {
			if err := refreshSpending(ctx, q, c.ID, month); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("recalculate spending for %s: %w", month, err)
	}
	slog.DebugContext(ctx, "Monthly spending recalculated", "month", month.String())
	return nil
}

// UpdateSpent re-sums a single category for month. When previous is non-nil
// and the category has no budget row for month yet, the previous month's
// budget row is carried forward — budget continuity on the first touch of a
// new month.
func (a *SpendingAggregator) UpdateSpent(ctx context.Context, categoryID int64, month core.MonthKey, previous *core.MonthKey) error {
	err := a.store.InTx(ctx, func(q *storage.Queries) error {
		return updateSpentInTx(ctx, q, categoryID, month, previous)
	})
	if err != nil {
		return fmt.Errorf("update spent for category %d in %s: %w", categoryID, month, err)
	}
	return nil
}

// updateSpentInTx is the transaction body of UpdateSpent, shared with the
// ledger commands that fold the recalculation into their own transaction.
func updateSpentInTx(ctx context.Context, q *storage.Queries, categoryID int64, month core.MonthKey, previous *core.MonthKey) error {
	if err := refreshSpending(ctx, q, categoryID, month); err != nil {
		return err
	}

	if previous == nil {
		return nil
	}
	if _, err := q.GetBudget(ctx, categoryID, month); err == nil {
		return nil
	} else if !errors.Is(err, core.ErrNotFound) {
		return err
	}
	prevBudget, err := q.GetBudget(ctx, categoryID, *previous)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	prevBudget.Month = month
	prevBudget.IsArchived = false
	return q.UpsertBudgets(ctx, []core.MonthlyBudget{prevBudget})
}

func refreshSpending(ctx context.Context, q *storage.Queries, categoryID int64, month core.MonthKey) error {
	total, err := q.SumCategoryTransactions(ctx, categoryID, month)
	if err != nil {
		return err
	}
	return q.UpsertSpending(ctx, core.MonthlyCategorySpending{
		CategoryID: categoryID,
		Month:      month,
		Spent:      total,
	})
}
