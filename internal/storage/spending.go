package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"budget/internal/core"
	"budget/internal/watch"
)

// GetSpending returns the cached spent total for one category and month, or
// core.ErrNotFound when nothing was recorded yet.
func (q *Queries) GetSpending(ctx context.Context, categoryID int64, month core.MonthKey) (core.MonthlyCategorySpending, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT category_id, month_year, spent_cents
		FROM monthly_category_spending
		WHERE category_id = ? AND month_year = ?`,
		categoryID, month.String())

	s, err := scanSpending(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.MonthlyCategorySpending{}, fmt.Errorf("spending for category %d in %s: %w", categoryID, month, core.ErrNotFound)
	}
	return s, err
}

// ListSpending returns every cached spending row of the month.
func (q *Queries) ListSpending(ctx context.Context, month core.MonthKey) ([]core.MonthlyCategorySpending, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT category_id, month_year, spent_cents
		FROM monthly_category_spending
		WHERE month_year = ?
		ORDER BY category_id`,
		month.String())
	if err != nil {
		return nil, fmt.Errorf("list spending: %w", err)
	}
	defer rows.Close()

	var spending []core.MonthlyCategorySpending
	for rows.Next() {
		s, err := scanSpending(rows)
		if err != nil {
			return nil, err
		}
		spending = append(spending, s)
	}
	return spending, rows.Err()
}

// UpsertSpending replaces the cached total on its (category, month) key.
func (q *Queries) UpsertSpending(ctx context.Context, s core.MonthlyCategorySpending) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO monthly_category_spending (category_id, month_year, spent_cents)
		VALUES (?, ?, ?)`,
		s.CategoryID, s.Month.String(), s.Spent.Cents)
	if err != nil {
		return fmt.Errorf("upsert spending: %w", err)
	}
	q.touch(watch.TableSpending)
	return nil
}

// SumCategoryTransactions re-sums the month's transactions for one category
// straight from the transactions table.
func (q *Queries) SumCategoryTransactions(ctx context.Context, categoryID int64, month core.MonthKey) (core.Money, error) {
	var cents int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM transactions
		WHERE category_id = ? AND month_year = ?`,
		categoryID, month.String()).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum category transactions: %w", err)
	}
	return core.Cents(cents), nil
}

func scanSpending(row rowScanner) (core.MonthlyCategorySpending, error) {
	var (
		s     core.MonthlyCategorySpending
		month string
		cents int64
	)
	if err := row.Scan(&s.CategoryID, &month, &cents); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, err
		}
		return s, fmt.Errorf("scan spending: %w", err)
	}
	key, err := core.ParseMonthKey(month)
	if err != nil {
		return s, fmt.Errorf("scan spending month: %w", err)
	}
	s.Month = key
	s.Spent = core.Cents(cents)
	return s, nil
}
