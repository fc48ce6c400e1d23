package core

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyName     = errors.New("empty name")
	ErrInvalidBudget = errors.New("invalid budget")
	ErrKindChange    = errors.New("transaction kind cannot change")
)

// Category is a spending category for one month. A logical category is
// duplicated per month: every month holds its own row with a distinct id,
// so deleting a category only touches that month's copy.
type Category struct {
	ID          int64
	Month       MonthKey
	Name        string
	IsCompleted bool
	SortOrder   int
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	return nil
}

// MonthlyBudget is the budget of one category for one month, keyed by
// (CategoryID, Month). IsArchived is a month-level flag duplicated across
// every budget row of the month; archiving updates all rows together.
type MonthlyBudget struct {
	CategoryID int64
	Month      MonthKey
	Budget     Money
	IsArchived bool
}

func (b MonthlyBudget) Validate() error {
	if b.Budget.Cents <= 0 {
		return ErrInvalidBudget
	}
	return nil
}

// MonthlyCategorySpending is the cached spent total of one category for one
// month. It is always derivable: a full re-sum over the month's transactions
// replaces it after every transaction write.
type MonthlyCategorySpending struct {
	CategoryID int64
	Month      MonthKey
	Spent      Money
}

// Transaction is a single ledger entry. A nil CategoryID marks income; a
// non-nil one marks an expense against that category. Month is assigned from
// the selected month at creation and is the authoritative grouping key, not
// derived from Date.
type Transaction struct {
	ID          int64
	CategoryID  *int64
	Amount      Money
	Merchant    string
	Description string
	Date        time.Time
	Month       MonthKey
	CreatedAt   time.Time
}

// IsIncome reports whether the transaction carries no category.
func (t Transaction) IsIncome() bool { return t.CategoryID == nil }

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.Month.Month < 1 || t.Month.Month > 12 {
		return ErrInvalidMonthKey
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// Income mirrors an income-type transaction in its own table.
// TransactionID links the two rows explicitly; the legacy correlation by
// (amount, date) was ambiguous whenever two entries shared both.
type Income struct {
	ID            int64
	TransactionID *int64
	Amount        Money
	Source        string
	Description   string
	Date          time.Time
	CreatedAt     time.Time
}

func (i Income) Validate() error {
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(i.Source) == "" {
		return ErrEmptyName
	}
	return nil
}

// IncomeLabel is the category name substituted for income transactions in
// joined listings.
const IncomeLabel = "Income"

// TransactionWithCategory is a transaction joined with its category name.
// Income transactions carry IncomeLabel.
type TransactionWithCategory struct {
	Transaction
	CategoryName string
}
