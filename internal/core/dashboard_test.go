package core

import (
	"testing"
	"time"
)

func catID(id int64) *int64 { return &id }

func TestBuildSnapshot_Totals(t *testing.T) {
	month := MonthKey{2024, 9}
	groceries := Category{ID: 1, Month: month, Name: "Groceries"}
	rent := Category{ID: 2, Month: month, Name: "Rent"}

	categories := []CategorySummary{
		{Category: groceries, Spent: Cents(60000), Budget: Cents(30000)},
		{Category: rent, Spent: Cents(0), Budget: Cents(50000)},
	}
	transactions := []TransactionWithCategory{
		{Transaction: Transaction{ID: 1, CategoryID: catID(1), Amount: Cents(35000), Month: month}},
		{Transaction: Transaction{ID: 2, CategoryID: catID(1), Amount: Cents(25000), Month: month}},
		{Transaction: Transaction{ID: 3, Amount: Cents(100000), Month: month}, CategoryName: IncomeLabel},
		// other month, must not count
		{Transaction: Transaction{ID: 4, CategoryID: catID(1), Amount: Cents(9999), Month: month.Previous()}},
	}

	snap := BuildSnapshot(month, Cents(50000), categories, transactions, nil)

	if snap.TotalBudget.Cents != 80000 {
		t.Errorf("TotalBudget = %d, want 80000", snap.TotalBudget.Cents)
	}
	if snap.TotalSpent.Cents != 60000 {
		t.Errorf("TotalSpent = %d, want 60000", snap.TotalSpent.Cents)
	}
	if snap.TotalIncome.Cents != 100000 {
		t.Errorf("TotalIncome = %d, want 100000", snap.TotalIncome.Cents)
	}
	// 500 + 1000 - 600 = 900
	if snap.CurrentBalance.Cents != 90000 {
		t.Errorf("CurrentBalance = %d, want 90000", snap.CurrentBalance.Cents)
	}

	if len(snap.Completed) != 1 || snap.Completed[0].Category.ID != 1 {
		t.Errorf("Completed = %+v, want groceries only", snap.Completed)
	}
	if len(snap.Active) != 1 || snap.Active[0].Category.ID != 2 {
		t.Errorf("Active = %+v, want rent only", snap.Active)
	}
}

func TestBuildSnapshot_ArchivedMonthIsZeroed(t *testing.T) {
	month := MonthKey{2024, 7}
	categories := []CategorySummary{
		{Category: Category{ID: 1, Month: month, Name: "Rent"}, Spent: Cents(100), Budget: Cents(200)},
	}
	transactions := []TransactionWithCategory{
		{Transaction: Transaction{ID: 1, CategoryID: catID(1), Amount: Cents(100), Month: month}},
	}

	snap := BuildSnapshot(month, Cents(12345), categories, transactions, []MonthKey{{2024, 6}, month})

	if !snap.Archived {
		t.Fatal("snapshot should be marked archived")
	}
	if snap.TotalBudget.Cents != 0 || snap.TotalSpent.Cents != 0 ||
		snap.TotalIncome.Cents != 0 || snap.CurrentBalance.Cents != 0 ||
		snap.StartingBalance.Cents != 0 {
		t.Errorf("archived snapshot not zeroed: %+v", snap)
	}
	if len(snap.Active) != 0 || len(snap.Completed) != 0 {
		t.Errorf("archived snapshot should carry no categories: %+v", snap)
	}
}

func TestBuildSnapshot_Ordering(t *testing.T) {
	month := MonthKey{2024, 9}
	categories := []CategorySummary{
		{Category: Category{ID: 1, Month: month, Name: "Zoo"}, Spent: Cents(10), Budget: Cents(100)},
		{Category: Category{ID: 2, Month: month, Name: "Apples"}, Spent: Cents(10), Budget: Cents(100)},
		{Category: Category{ID: 3, Month: month, Name: "Utilities"}, Spent: Cents(300), Budget: Cents(100)},
		{Category: Category{ID: 4, Month: month, Name: "Books"}, Spent: Cents(100), Budget: Cents(100)},
	}

	snap := BuildSnapshot(month, Money{}, categories, nil, nil)

	if got := len(snap.Active); got != 2 {
		t.Fatalf("len(Active) = %d, want 2", got)
	}
	if snap.Active[0].Category.Name != "Apples" || snap.Active[1].Category.Name != "Zoo" {
		t.Errorf("Active order = %q, %q; want Apples, Zoo",
			snap.Active[0].Category.Name, snap.Active[1].Category.Name)
	}

	if got := len(snap.Completed); got != 2 {
		t.Fatalf("len(Completed) = %d, want 2", got)
	}
	if snap.Completed[0].Category.Name != "Books" || snap.Completed[1].Category.Name != "Utilities" {
		t.Errorf("Completed order = %q, %q; want Books, Utilities",
			snap.Completed[0].Category.Name, snap.Completed[1].Category.Name)
	}
}

func TestCategorySummary_DailyBudget(t *testing.T) {
	// 15 days remain from Sep 16 to Sep 30 inclusive.
	now := time.Date(2024, 9, 16, 9, 0, 0, 0, time.UTC)
	c := CategorySummary{
		Category: Category{Name: "Discretionary"},
		Budget:   Cents(45000),
		Spent:    Cents(15000),
	}
	if got := c.DailyBudget(now); got.Cents != 2000 {
		t.Errorf("DailyBudget = %s, want 20.00", got)
	}
}

func TestCategorySummary_Overspent(t *testing.T) {
	c := CategorySummary{Spent: Cents(150), Budget: Cents(100)}
	if !c.Overspent() {
		t.Error("Overspent() = false, want true")
	}
	if got := c.Remaining(); got.Cents != -50 {
		t.Errorf("Remaining = %d, want -50", got.Cents)
	}
}
