package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"budget/internal/core"
	"budget/internal/watch"
)

// InsertTransaction stores a new transaction and returns its id.
func (q *Queries) InsertTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO transactions (category_id, amount_cents, merchant, description, date, month_year, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.CategoryID, t.Amount.Cents, t.Merchant, t.Description,
		t.Date.Unix(), t.Month.String(), createdAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert transaction id: %w", err)
	}
	q.touch(watch.TableTransactions)
	return id, nil
}

// GetTransaction fetches one transaction by id.
func (q *Queries) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, category_id, amount_cents, merchant, description, date, month_year, created_at
		FROM transactions
		WHERE id = ?`, id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	return t, err
}

// UpdateTransaction rewrites a transaction row in place.
func (q *Queries) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE transactions
		SET category_id = ?, amount_cents = ?, merchant = ?, description = ?, date = ?, month_year = ?
		WHERE id = ?`,
		t.CategoryID, t.Amount.Cents, t.Merchant, t.Description,
		t.Date.Unix(), t.Month.String(), t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %d: %w", t.ID, core.ErrNotFound)
	}
	q.touch(watch.TableTransactions)
	return nil
}

// DeleteTransaction removes a transaction row.
func (q *Queries) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	q.touch(watch.TableTransactions)
	return nil
}

// ListMonthTransactions returns the month's transactions joined with their
// category name; income transactions get the literal Income label.
func (q *Queries) ListMonthTransactions(ctx context.Context, month core.MonthKey) ([]core.TransactionWithCategory, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT t.id, t.category_id, t.amount_cents, t.merchant, t.description,
		       t.date, t.month_year, t.created_at,
		       COALESCE(c.name, ?) AS category_name
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.month_year = ?
		ORDER BY t.date DESC, t.id DESC`,
		core.IncomeLabel, month.String())
	if err != nil {
		return nil, fmt.Errorf("list month transactions: %w", err)
	}
	defer rows.Close()

	var out []core.TransactionWithCategory
	for rows.Next() {
		var (
			twc        core.TransactionWithCategory
			categoryID sql.NullInt64
			monthStr   string
			date       int64
			createdAt  int64
			cents      int64
		)
		err := rows.Scan(&twc.ID, &categoryID, &cents, &twc.Merchant, &twc.Description,
			&date, &monthStr, &createdAt, &twc.CategoryName)
		if err != nil {
			return nil, fmt.Errorf("scan transaction with category: %w", err)
		}
		if categoryID.Valid {
			id := categoryID.Int64
			twc.CategoryID = &id
		}
		key, err := core.ParseMonthKey(monthStr)
		if err != nil {
			return nil, fmt.Errorf("scan transaction month: %w", err)
		}
		twc.Month = key
		twc.Amount = core.Cents(cents)
		twc.Date = unixTime(date)
		twc.CreatedAt = unixTime(createdAt)
		out = append(out, twc)
	}
	return out, rows.Err()
}

// SumMonthTransactions totals the month's transactions split by kind:
// spent covers category-linked rows, income the nil-category ones.
func (q *Queries) SumMonthTransactions(ctx context.Context, month core.MonthKey) (spent, income core.Money, err error) {
	var spentCents, incomeCents int64
	err = q.db.QueryRowContext(ctx, `
		SELECT
		    COALESCE(SUM(CASE WHEN category_id IS NOT NULL THEN amount_cents ELSE 0 END), 0),
		    COALESCE(SUM(CASE WHEN category_id IS NULL THEN amount_cents ELSE 0 END), 0)
		FROM transactions
		WHERE month_year = ?`,
		month.String()).Scan(&spentCents, &incomeCents)
	if err != nil {
		return core.Money{}, core.Money{}, fmt.Errorf("sum month transactions: %w", err)
	}
	return core.Cents(spentCents), core.Cents(incomeCents), nil
}

// ListTransactionsByDateRange returns transactions dated within [start, end].
func (q *Queries) ListTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, category_id, amount_cents, merchant, description, date, month_year, created_at
		FROM transactions
		WHERE date BETWEEN ? AND ?
		ORDER BY date DESC, id DESC`,
		start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("list transactions by date range: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t          core.Transaction
		categoryID sql.NullInt64
		monthStr   string
		date       int64
		createdAt  int64
		cents      int64
	)
	err := row.Scan(&t.ID, &categoryID, &cents, &t.Merchant, &t.Description,
		&date, &monthStr, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, err
		}
		return t, fmt.Errorf("scan transaction: %w", err)
	}
	if categoryID.Valid {
		id := categoryID.Int64
		t.CategoryID = &id
	}
	key, err := core.ParseMonthKey(monthStr)
	if err != nil {
		return t, fmt.Errorf("scan transaction month: %w", err)
	}
	t.Month = key
	t.Amount = core.Cents(cents)
	t.Date = unixTime(date)
	t.CreatedAt = unixTime(createdAt)
	return t, nil
}
