package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"budget/internal/core"
	"budget/internal/watch"
)

// ListCategories returns the month's categories ordered by sort order.
func (q *Queries) ListCategories(ctx context.Context, month core.MonthKey) ([]core.Category, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, month_year, name, is_completed, sort_order
		FROM categories
		WHERE month_year = ?
		ORDER BY sort_order ASC, id ASC`,
		month.String())
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory fetches one category scoped to its month. A category id from
// another month is treated as absent.
func (q *Queries) GetCategory(ctx context.Context, id int64, month core.MonthKey) (core.Category, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, month_year, name, is_completed, sort_order
		FROM categories
		WHERE id = ? AND month_year = ?`,
		id, month.String())

	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category %d in %s: %w", id, month, core.ErrNotFound)
	}
	return c, err
}

// CountCategories counts the month's categories; new categories get the count
// as their sort order.
func (q *Queries) CountCategories(ctx context.Context, month core.MonthKey) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE month_year = ?`,
		month.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// InsertCategory stores a new category row and returns its id.
func (q *Queries) InsertCategory(ctx context.Context, c core.Category) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO categories (month_year, name, is_completed, sort_order)
		VALUES (?, ?, ?, ?)`,
		c.Month.String(), c.Name, c.IsCompleted, c.SortOrder)
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert category id: %w", err)
	}
	q.touch(watch.TableCategories)
	return id, nil
}

// UpdateCategory rewrites a category row in place.
func (q *Queries) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, is_completed = ?, sort_order = ?
		WHERE id = ? AND month_year = ?`,
		c.Name, c.IsCompleted, c.SortOrder, c.ID, c.Month.String())
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %d in %s: %w", c.ID, c.Month, core.ErrNotFound)
	}
	q.touch(watch.TableCategories)
	return nil
}

// DeleteCategory removes one month's category row. Budgets, spending rows and
// transactions referencing it go with it through the cascade; other months'
// copies of the same logical category are untouched.
func (q *Queries) DeleteCategory(ctx context.Context, id int64, month core.MonthKey) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND month_year = ?`,
		id, month.String())
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %d in %s: %w", id, month, core.ErrNotFound)
	}
	q.touch(watch.TableCategories, watch.TableBudgets, watch.TableSpending, watch.TableTransactions)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (core.Category, error) {
	var (
		c     core.Category
		month string
	)
	if err := row.Scan(&c.ID, &month, &c.Name, &c.IsCompleted, &c.SortOrder); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("scan category: %w", err)
	}
	key, err := core.ParseMonthKey(month)
	if err != nil {
		return c, fmt.Errorf("scan category month: %w", err)
	}
	c.Month = key
	return c, nil
}
