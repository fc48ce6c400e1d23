package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"budget/internal/core"
	"budget/internal/storage"
)

// LedgerService is the command surface of the ledger. Every command validates
// before writing and wraps its multi-table effects in one store transaction,
// so a failure leaves nothing half-applied.
type LedgerService struct {
	store  *storage.Store
	months *MonthService
	clock  core.Clock
}

func NewLedgerService(store *storage.Store, months *MonthService, clock core.Clock) *LedgerService {
	return &LedgerService{store: store, months: months, clock: clock}
}

// AddTransaction records an expense against a category of the selected month
// and refreshes that category's spending total. The transaction's month is
// the selected month, regardless of the transaction date.
func (s *LedgerService) AddTransaction(ctx context.Context, categoryID int64, amount core.Money, merchant, description string, date time.Time) (int64, error) {
	month := s.months.Selected()
	if date.IsZero() {
		date = s.clock.Now()
	}
	t := core.Transaction{
		CategoryID:  &categoryID,
		Amount:      amount,
		Merchant:    merchant,
		Description: description,
		Date:        date,
		Month:       month,
	}
	if err := t.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		if _, err := q.GetCategory(ctx, categoryID, month); err != nil {
			return err
		}
		var err error
		if id, err = q.InsertTransaction(ctx, t); err != nil {
			return err
		}
		return updateSpentInTx(ctx, q, categoryID, month, nil)
	})
	if err != nil {
		return 0, fmt.Errorf("add transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction added",
		"id", id, "category_id", categoryID, "amount", amount.String(), "month", month.String())
	return id, nil
}

// AddIncome records an income entry: an income row plus its nil-category
// mirror transaction in the selected month, linked explicitly, in one
// transaction.
func (s *LedgerService) AddIncome(ctx context.Context, amount core.Money, source, description string, date time.Time) (int64, error) {
	month := s.months.Selected()
	if date.IsZero() {
		date = s.clock.Now()
	}
	in := core.Income{
		Amount:      amount,
		Source:      source,
		Description: description,
		Date:        date,
	}
	if err := in.Validate(); err != nil {
		return 0, err
	}

	var incomeID int64
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		txID, err := q.InsertTransaction(ctx, core.Transaction{
			Amount:      amount,
			Merchant:    source,
			Description: description,
			Date:        date,
			Month:       month,
		})
		if err != nil {
			return err
		}
		in.TransactionID = &txID
		incomeID, err = q.InsertIncome(ctx, in)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("add income: %w", err)
	}
	slog.InfoContext(ctx, "Income added",
		"id", incomeID, "source", source, "amount", amount.String(), "month", month.String())
	return incomeID, nil
}

// UpdateTransaction rewrites a transaction and refreshes the spending totals
// of every category involved, old and new. Income-type updates propagate
// through the link to the mirror income row. The kind is fixed at creation:
// an income entry cannot become an expense or vice versa.
func (s *LedgerService) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		before, err := q.GetTransaction(ctx, t.ID)
		if err != nil {
			return err
		}
		if before.IsIncome() != t.IsIncome() {
			return core.ErrKindChange
		}
		if err := q.UpdateTransaction(ctx, t); err != nil {
			return err
		}
		if err := refreshAffected(ctx, q, before); err != nil {
			return err
		}
		if t.CategoryID != nil && (before.CategoryID == nil || *before.CategoryID != *t.CategoryID || before.Month != t.Month) {
			if err := updateSpentInTx(ctx, q, *t.CategoryID, t.Month, nil); err != nil {
				return err
			}
		}
		if t.IsIncome() {
			return syncLinkedIncome(ctx, q, t)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", t.ID, err)
	}
	return nil
}

// DeleteTransaction removes a transaction, refreshes the affected category's
// spending and deletes the mirror income row of an income-type transaction.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		t, err := q.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		if t.IsIncome() {
			linked, err := q.GetIncomeByTransaction(ctx, id)
			if err == nil {
				if err := q.DeleteIncome(ctx, linked.ID); err != nil {
					return err
				}
			} else if !errors.Is(err, core.ErrNotFound) {
				return err
			}
		}
		if err := q.DeleteTransaction(ctx, id); err != nil {
			return err
		}
		return refreshAffected(ctx, q, t)
	})
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return nil
}

// UpdateIncome rewrites an income row and its mirror transaction together.
func (s *LedgerService) UpdateIncome(ctx context.Context, in core.Income) error {
	if err := in.Validate(); err != nil {
		return err
	}
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		before, err := q.GetIncome(ctx, in.ID)
		if err != nil {
			return err
		}
		in.TransactionID = before.TransactionID
		if err := q.UpdateIncome(ctx, in); err != nil {
			return err
		}
		if before.TransactionID == nil {
			return nil
		}
		mirror, err := q.GetTransaction(ctx, *before.TransactionID)
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		mirror.Amount = in.Amount
		mirror.Merchant = in.Source
		mirror.Description = in.Description
		mirror.Date = in.Date
		return q.UpdateTransaction(ctx, mirror)
	})
	if err != nil {
		return fmt.Errorf("update income %d: %w", in.ID, err)
	}
	return nil
}

// DeleteIncome removes an income row together with its mirror transaction.
func (s *LedgerService) DeleteIncome(ctx context.Context, id int64) error {
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		in, err := q.GetIncome(ctx, id)
		if err != nil {
			return err
		}
		if err := q.DeleteIncome(ctx, id); err != nil {
			return err
		}
		if in.TransactionID == nil {
			return nil
		}
		err = q.DeleteTransaction(ctx, *in.TransactionID)
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("delete income %d: %w", id, err)
	}
	return nil
}

// CreateCategory adds a category to the selected month with its budget. The
// new category sorts after the month's existing ones.
func (s *LedgerService) CreateCategory(ctx context.Context, name string, budget core.Money) (int64, error) {
	month := s.months.Selected()
	c := core.Category{Month: month, Name: name}
	if err := c.Validate(); err != nil {
		return 0, err
	}
	if budget.Cents <= 0 {
		return 0, core.ErrInvalidBudget
	}

	var id int64
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		count, err := q.CountCategories(ctx, month)
		if err != nil {
			return err
		}
		c.SortOrder = count
		if id, err = q.InsertCategory(ctx, c); err != nil {
			return err
		}
		archived, err := monthArchived(ctx, q, month)
		if err != nil {
			return err
		}
		return q.UpsertBudgets(ctx, []core.MonthlyBudget{
			{CategoryID: id, Month: month, Budget: budget, IsArchived: archived},
		})
	})
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	slog.InfoContext(ctx, "Category created",
		"id", id, "name", name, "budget", budget.String(), "month", month.String())
	return id, nil
}

// UpdateCategory rewrites a category of the selected month and replaces its
// budget row. The month's archived flag survives the replacement; every
// budget row of a month carries the same flag.
func (s *LedgerService) UpdateCategory(ctx context.Context, c core.Category, budget core.Money) error {
	c.Month = s.months.Selected()
	if err := c.Validate(); err != nil {
		return err
	}
	if budget.Cents <= 0 {
		return core.ErrInvalidBudget
	}
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		if err := q.UpdateCategory(ctx, c); err != nil {
			return err
		}
		archived, err := monthArchived(ctx, q, c.Month)
		if err != nil {
			return err
		}
		return q.UpsertBudgets(ctx, []core.MonthlyBudget{
			{CategoryID: c.ID, Month: c.Month, Budget: budget, IsArchived: archived},
		})
	})
	if err != nil {
		return fmt.Errorf("update category %d: %w", c.ID, err)
	}
	return nil
}

// DeleteCategory removes the selected month's copy of a category. Other
// months keep theirs.
func (s *LedgerService) DeleteCategory(ctx context.Context, id int64) error {
	month := s.months.Selected()
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		return q.DeleteCategory(ctx, id, month)
	})
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}

// UpdateStartingBalance overwrites the persisted starting balance.
func (s *LedgerService) UpdateStartingBalance(ctx context.Context, balance core.Money) error {
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		return q.SetStartingBalance(ctx, balance)
	})
	if err != nil {
		return fmt.Errorf("update starting balance: %w", err)
	}
	return nil
}

// TransactionKind filters month listings by transaction type.
type TransactionKind int

const (
	AllTransactions TransactionKind = iota
	ExpenseTransactions
	IncomeTransactions
)

// MonthTransactions lists a month's transactions (with category names),
// newest first, optionally filtered to expenses or income.
func (s *LedgerService) MonthTransactions(ctx context.Context, month core.MonthKey, kind TransactionKind) ([]core.TransactionWithCategory, error) {
	all, err := s.store.ListMonthTransactions(ctx, month)
	if err != nil {
		return nil, err
	}
	if kind == AllTransactions {
		return all, nil
	}
	filtered := all[:0:0]
	for _, t := range all {
		switch kind {
		case ExpenseTransactions:
			if !t.IsIncome() {
				filtered = append(filtered, t)
			}
		case IncomeTransactions:
			if t.IsIncome() {
				filtered = append(filtered, t)
			}
		}
	}
	return filtered, nil
}

// IncomeEntries lists every income entry, newest first.
func (s *LedgerService) IncomeEntries(ctx context.Context) ([]core.Income, error) {
	return s.store.ListIncome(ctx)
}

// refreshAffected re-sums the category a transaction pointed at, if any.
func refreshAffected(ctx context.Context, q *storage.Queries, t core.Transaction) error {
	if t.CategoryID == nil {
		return nil
	}
	return updateSpentInTx(ctx, q, *t.CategoryID, t.Month, nil)
}

// monthArchived reports whether the month is flagged archived.
func monthArchived(ctx context.Context, q *storage.Queries, month core.MonthKey) (bool, error) {
	archived, err := q.ArchivedMonths(ctx)
	if err != nil {
		return false, err
	}
	for _, m := range archived {
		if m == month {
			return true, nil
		}
	}
	return false, nil
}

// syncLinkedIncome pushes a mirror transaction's fields onto its income row.
func syncLinkedIncome(ctx context.Context, q *storage.Queries, t core.Transaction) error {
	linked, err := q.GetIncomeByTransaction(ctx, t.ID)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	linked.Amount = t.Amount
	linked.Source = t.Merchant
	linked.Description = t.Description
	linked.Date = t.Date
	return q.UpdateIncome(ctx, linked)
}
