package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"budget/internal/core"
	"budget/internal/storage"
)

// fixedClock pins Now so that the selected month and archivability checks
// are deterministic in tests.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// testNow is mid-September 2024; the selected month of freshly built
// services is therefore 2024-09.
var testNow = time.Date(2024, time.September, 15, 12, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "budget.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func insertCategory(t *testing.T, store *storage.Store, month core.MonthKey, name string, sortOrder int) int64 {
	t.Helper()
	var id int64
	err := store.InTx(context.Background(), func(q *storage.Queries) error {
		var err error
		id, err = q.InsertCategory(context.Background(), core.Category{
			Month:     month,
			Name:      name,
			SortOrder: sortOrder,
		})
		return err
	})
	if err != nil {
		t.Fatalf("insert category %q: %v", name, err)
	}
	return id
}

func upsertBudget(t *testing.T, store *storage.Store, categoryID int64, month core.MonthKey, cents int64) {
	t.Helper()
	err := store.InTx(context.Background(), func(q *storage.Queries) error {
		return q.UpsertBudgets(context.Background(), []core.MonthlyBudget{
			{CategoryID: categoryID, Month: month, Budget: core.Cents(cents)},
		})
	})
	if err != nil {
		t.Fatalf("upsert budget for category %d: %v", categoryID, err)
	}
}

func insertTransaction(t *testing.T, store *storage.Store, tx core.Transaction) int64 {
	t.Helper()
	var id int64
	err := store.InTx(context.Background(), func(q *storage.Queries) error {
		var err error
		id, err = q.InsertTransaction(context.Background(), tx)
		return err
	})
	if err != nil {
		t.Fatalf("insert transaction: %v", err)
	}
	return id
}

func setStartingBalance(t *testing.T, store *storage.Store, cents int64) {
	t.Helper()
	err := store.InTx(context.Background(), func(q *storage.Queries) error {
		return q.SetStartingBalance(context.Background(), core.Cents(cents))
	})
	if err != nil {
		t.Fatalf("set starting balance: %v", err)
	}
}
