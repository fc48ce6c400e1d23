package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"budget/internal/core"
	"budget/internal/storage"
	"budget/internal/watch"
)

// MonthService owns the selected month and the rollover that runs when the
// selection moves. Selection is the single rollover trigger: budget copy and
// balance carry-over both happen here, in one transaction, with the target
// month computed once. Readers never write.
type MonthService struct {
	store *storage.Store
	clock core.Clock

	mu       sync.Mutex
	selected core.MonthKey
}

func NewMonthService(store *storage.Store, clock core.Clock) *MonthService {
	return &MonthService{
		store:    store,
		clock:    clock,
		selected: core.CurrentMonth(clock.Now()),
	}
}

// Selected returns the currently selected month.
func (s *MonthService) Selected() core.MonthKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Select moves the selection to target and, when target is not archived,
// rolls state forward:
//
//  1. If target has no budget rows yet, every budget row of the outgoing
//     month is copied to target with the archived flag reset.
//  2. If target is strictly after the outgoing month, the outgoing month's
//     ending balance (starting + income - spent) becomes the persisted
//     starting balance.
//
// Both steps commit together or not at all. An archived target gets neither:
// it is a frozen snapshot, selection just moves onto it.
func (s *MonthService) Select(ctx context.Context, target core.MonthKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.selected
	if target == previous {
		return nil
	}

	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		archived, err := q.ArchivedMonths(ctx)
		if err != nil {
			return err
		}
		targetArchived := false
		for _, m := range archived {
			if m == target {
				targetArchived = true
				break
			}
		}

		// Archived months are frozen snapshots: navigating into one runs no
		// rollover at all, neither budget copy nor balance carry.
		if targetArchived {
			return nil
		}

		if err := copyBudgetsForward(ctx, q, previous, target); err != nil {
			return err
		}

		if target.After(previous) {
			ending, err := endingBalance(ctx, q, previous)
			if err != nil {
				return err
			}
			if err := q.SetStartingBalance(ctx, ending); err != nil {
				return err
			}
			slog.InfoContext(ctx, "Starting balance rolled forward",
				"from", previous.String(),
				"to", target.String(),
				"balance", ending.String())
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("select month %s: %w", target, err)
	}

	s.selected = target
	s.store.Notify(watch.TableSelection)
	return nil
}

// Archive flags every budget row of month as archived. Only months strictly
// in the past qualify; anything else is left untouched. Archiving the
// selected month reselects the current one.
func (s *MonthService) Archive(ctx context.Context, month core.MonthKey) error {
	now := s.clock.Now()
	if !month.IsArchivable(now) {
		slog.WarnContext(ctx, "Refusing to archive non-past month", "month", month.String())
		return nil
	}

	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		return q.SetMonthArchived(ctx, month, true)
	})
	if err != nil {
		return fmt.Errorf("archive month %s: %w", month, err)
	}
	slog.InfoContext(ctx, "Month archived", "month", month.String())

	if s.Selected() == month {
		return s.Select(ctx, core.CurrentMonth(now))
	}
	return nil
}

// Unarchive clears the archived flag unconditionally.
func (s *MonthService) Unarchive(ctx context.Context, month core.MonthKey) error {
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		return q.SetMonthArchived(ctx, month, false)
	})
	if err != nil {
		return fmt.Errorf("unarchive month %s: %w", month, err)
	}
	slog.InfoContext(ctx, "Month unarchived", "month", month.String())
	return nil
}

// ArchivedMonths lists the months currently flagged archived.
func (s *MonthService) ArchivedMonths(ctx context.Context) ([]core.MonthKey, error) {
	return s.store.ArchivedMonths(ctx)
}

// copyBudgetsForward seeds target with from's budget rows if target has none
// yet. Category rows are not copied; the dashboard's category listing joins
// budgets by category id across the duplicated rows.
func copyBudgetsForward(ctx context.Context, q *storage.Queries, from, target core.MonthKey) error {
	existing, err := q.ListBudgets(ctx, target)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	source, err := q.ListBudgets(ctx, from)
	if err != nil {
		return err
	}
	if len(source) == 0 {
		return nil
	}
	copied := make([]core.MonthlyBudget, len(source))
	for i, b := range source {
		b.Month = target
		b.IsArchived = false
		copied[i] = b
	}
	return q.UpsertBudgets(ctx, copied)
}

func endingBalance(ctx context.Context, q *storage.Queries, month core.MonthKey) (core.Money, error) {
	starting, err := q.StartingBalance(ctx)
	if err != nil {
		return core.Money{}, err
	}
	spent, income, err := q.SumMonthTransactions(ctx, month)
	if err != nil {
		return core.Money{}, err
	}
	return starting.Add(income).Sub(spent), nil
}
