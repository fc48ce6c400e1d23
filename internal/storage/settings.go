package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"budget/internal/core"
	"budget/internal/watch"
)

// startingBalanceKey is the settings row holding the balance carried into the
// currently selected month.
const startingBalanceKey = "starting_balance"

// StartingBalance reads the persisted starting balance; a missing row means
// zero, matching a freshly installed application.
func (q *Queries) StartingBalance(ctx context.Context) (core.Money, error) {
	var value string
	err := q.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, startingBalanceKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Money{}, nil
	}
	if err != nil {
		return core.Money{}, fmt.Errorf("read starting balance: %w", err)
	}
	cents, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return core.Money{}, fmt.Errorf("parse starting balance %q: %w", value, err)
	}
	return core.Cents(cents), nil
}

// SetStartingBalance persists the starting balance. Negative values are
// allowed: an overspent month rolls a deficit forward.
func (q *Queries) SetStartingBalance(ctx context.Context, balance core.Money) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		startingBalanceKey, strconv.FormatInt(balance.Cents, 10))
	if err != nil {
		return fmt.Errorf("set starting balance: %w", err)
	}
	q.touch(watch.TableSettings)
	return nil
}
