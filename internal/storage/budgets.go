package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"budget/internal/core"
	"budget/internal/watch"
)

// GetBudget returns the budget row for one category and month, or
// core.ErrNotFound when the month has no row for that category yet.
func (q *Queries) GetBudget(ctx context.Context, categoryID int64, month core.MonthKey) (core.MonthlyBudget, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT category_id, month_year, budget_cents, is_archived
		FROM monthly_budgets
		WHERE category_id = ? AND month_year = ?`,
		categoryID, month.String())

	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.MonthlyBudget{}, fmt.Errorf("budget for category %d in %s: %w", categoryID, month, core.ErrNotFound)
	}
	return b, err
}

// ListBudgets returns every budget row of the month.
func (q *Queries) ListBudgets(ctx context.Context, month core.MonthKey) ([]core.MonthlyBudget, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT category_id, month_year, budget_cents, is_archived
		FROM monthly_budgets
		WHERE month_year = ?
		ORDER BY category_id`,
		month.String())
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.MonthlyBudget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// UpsertBudgets inserts or replaces budget rows on their (category, month)
// primary key.
func (q *Queries) UpsertBudgets(ctx context.Context, budgets []core.MonthlyBudget) error {
	for _, b := range budgets {
		_, err := q.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO monthly_budgets (category_id, month_year, budget_cents, is_archived)
			VALUES (?, ?, ?, ?)`,
			b.CategoryID, b.Month.String(), b.Budget.Cents, b.IsArchived)
		if err != nil {
			return fmt.Errorf("upsert budget for category %d: %w", b.CategoryID, err)
		}
	}
	if len(budgets) > 0 {
		q.touch(watch.TableBudgets)
	}
	return nil
}

// ArchivedMonths returns the distinct months flagged archived, oldest first.
func (q *Queries) ArchivedMonths(ctx context.Context) ([]core.MonthKey, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT DISTINCT month_year FROM monthly_budgets
		WHERE is_archived = 1
		ORDER BY month_year`)
	if err != nil {
		return nil, fmt.Errorf("list archived months: %w", err)
	}
	defer rows.Close()

	var months []core.MonthKey
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan archived month: %w", err)
		}
		k, err := core.ParseMonthKey(s)
		if err != nil {
			return nil, fmt.Errorf("archived month %q: %w", s, err)
		}
		months = append(months, k)
	}
	return months, rows.Err()
}

// SetMonthArchived flips the archived flag on every budget row of the month
// in one statement, keeping the flag uniform across the month.
func (q *Queries) SetMonthArchived(ctx context.Context, month core.MonthKey, archived bool) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE monthly_budgets SET is_archived = ? WHERE month_year = ?`,
		archived, month.String())
	if err != nil {
		return fmt.Errorf("set month archived: %w", err)
	}
	q.touch(watch.TableBudgets)
	return nil
}

func scanBudget(row rowScanner) (core.MonthlyBudget, error) {
	var (
		b     core.MonthlyBudget
		month string
		cents int64
	)
	if err := row.Scan(&b.CategoryID, &month, &cents, &b.IsArchived); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return b, err
		}
		return b, fmt.Errorf("scan budget: %w", err)
	}
	key, err := core.ParseMonthKey(month)
	if err != nil {
		return b, fmt.Errorf("scan budget month: %w", err)
	}
	b.Month = key
	b.Budget = core.Cents(cents)
	return b, nil
}
