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

// InsertIncome stores a new income row and returns its id.
func (q *Queries) InsertIncome(ctx context.Context, in core.Income) (int64, error) {
	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO income (transaction_id, amount_cents, source, description, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.TransactionID, in.Amount.Cents, in.Source, in.Description,
		in.Date.Unix(), createdAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("insert income: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert income id: %w", err)
	}
	q.touch(watch.TableIncome)
	return id, nil
}

// GetIncome fetches one income row by id.
func (q *Queries) GetIncome(ctx context.Context, id int64) (core.Income, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, transaction_id, amount_cents, source, description, date, created_at
		FROM income
		WHERE id = ?`, id)

	in, err := scanIncome(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, fmt.Errorf("income %d: %w", id, core.ErrNotFound)
	}
	return in, err
}

// GetIncomeByTransaction resolves the income row mirroring a transaction
// through the explicit link.
func (q *Queries) GetIncomeByTransaction(ctx context.Context, transactionID int64) (core.Income, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, transaction_id, amount_cents, source, description, date, created_at
		FROM income
		WHERE transaction_id = ?`, transactionID)

	in, err := scanIncome(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, fmt.Errorf("income for transaction %d: %w", transactionID, core.ErrNotFound)
	}
	return in, err
}

// UpdateIncome rewrites an income row in place.
func (q *Queries) UpdateIncome(ctx context.Context, in core.Income) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE income
		SET transaction_id = ?, amount_cents = ?, source = ?, description = ?, date = ?
		WHERE id = ?`,
		in.TransactionID, in.Amount.Cents, in.Source, in.Description, in.Date.Unix(), in.ID)
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("income %d: %w", in.ID, core.ErrNotFound)
	}
	q.touch(watch.TableIncome)
	return nil
}

// DeleteIncome removes an income row.
func (q *Queries) DeleteIncome(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM income WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("income %d: %w", id, core.ErrNotFound)
	}
	q.touch(watch.TableIncome)
	return nil
}

// ListIncome returns every income row, newest first.
func (q *Queries) ListIncome(ctx context.Context) ([]core.Income, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, transaction_id, amount_cents, source, description, date, created_at
		FROM income
		ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list income: %w", err)
	}
	defer rows.Close()
	return collectIncome(rows)
}

// ListIncomeByDateRange returns income rows dated within [start, end],
// newest first.
func (q *Queries) ListIncomeByDateRange(ctx context.Context, start, end time.Time) ([]core.Income, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, transaction_id, amount_cents, source, description, date, created_at
		FROM income
		WHERE date >= ? AND date <= ?
		ORDER BY date DESC, id DESC`,
		start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("list income by date range: %w", err)
	}
	defer rows.Close()
	return collectIncome(rows)
}

// SumIncomeByDateRange totals income dated within [start, end].
func (q *Queries) SumIncomeByDateRange(ctx context.Context, start, end time.Time) (core.Money, error) {
	var cents int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM income
		WHERE date >= ? AND date <= ?`,
		start.Unix(), end.Unix()).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum income by date range: %w", err)
	}
	return core.Cents(cents), nil
}

func collectIncome(rows *sql.Rows) ([]core.Income, error) {
	var out []core.Income
	for rows.Next() {
		in, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func scanIncome(row rowScanner) (core.Income, error) {
	var (
		in            core.Income
		transactionID sql.NullInt64
		date          int64
		createdAt     int64
		cents         int64
	)
	err := row.Scan(&in.ID, &transactionID, &cents, &in.Source, &in.Description, &date, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return in, err
		}
		return in, fmt.Errorf("scan income: %w", err)
	}
	if transactionID.Valid {
		id := transactionID.Int64
		in.TransactionID = &id
	}
	in.Amount = core.Cents(cents)
	in.Date = unixTime(date)
	in.CreatedAt = unixTime(createdAt)
	return in, nil
}
