package seed

import (
	"context"
	"path/filepath"
	"testing"

	"budget/internal/core"
	"budget/internal/storage"
)

func TestRun_SeedsEmptyMonth(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "budget.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	month := core.MonthKey{Year: 2024, Month: 9}

	seeded, err := Run(ctx, store, month)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !seeded {
		t.Fatal("Run = false, want seeding on empty month")
	}

	categories, err := store.ListCategories(ctx, month)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != len(defaultCategories) {
		t.Fatalf("len(categories) = %d, want %d", len(categories), len(defaultCategories))
	}
	if categories[0].Name != "Rent" || categories[0].SortOrder != 0 {
		t.Errorf("first category = %+v, want Rent at sort 0", categories[0])
	}

	budget, err := store.GetBudget(ctx, categories[0].ID, month)
	if err != nil {
		t.Fatalf("GetBudget: %v", err)
	}
	if budget.Budget.Cents != 159500 {
		t.Errorf("Rent budget = %d, want 159500", budget.Budget.Cents)
	}
}

func TestRun_IsIdempotent(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "budget.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	month := core.MonthKey{Year: 2024, Month: 9}

	if _, err := Run(ctx, store, month); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	seeded, err := Run(ctx, store, month)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if seeded {
		t.Error("second Run = true, want skip")
	}

	categories, err := store.ListCategories(ctx, month)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != len(defaultCategories) {
		t.Errorf("len(categories) = %d after rerun, want %d", len(categories), len(defaultCategories))
	}
}
