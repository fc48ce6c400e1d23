package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"budget/internal/core"
	"budget/internal/storage"
)

// DashboardService projects store state into dashboard snapshots for the
// selected month. Snapshots are derived, never persisted: every recompute is
// a read-only pass over the store, so redelivery on unrelated table changes
// is harmless.
type DashboardService struct {
	store  *storage.Store
	months *MonthService
	clock  core.Clock
}

func NewDashboardService(store *storage.Store, months *MonthService, clock core.Clock) *DashboardService {
	return &DashboardService{store: store, months: months, clock: clock}
}

// Snapshot computes the dashboard for the currently selected month. The four
// independent loads run concurrently.
func (d *DashboardService) Snapshot(ctx context.Context) (core.DashboardSnapshot, error) {
	month := d.months.Selected()

	var (
		starting     core.Money
		categories   []core.CategorySummary
		transactions []core.TransactionWithCategory
		archived     []core.MonthKey
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		starting, err = d.store.StartingBalance(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = d.CategorySummaries(gctx, month)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = d.store.ListMonthTransactions(gctx, month)
		return err
	})
	g.Go(func() error {
		var err error
		archived, err = d.store.ArchivedMonths(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.DashboardSnapshot{}, fmt.Errorf("load dashboard for %s: %w", month, err)
	}

	return core.BuildSnapshot(month, starting, categories, transactions, archived), nil
}

// CategorySummaries joins a month's categories with their cached spending
// and budget rows. Categories without a budget or spending row yet read as
// zero, exactly as a fresh month looks.
func (d *DashboardService) CategorySummaries(ctx context.Context, month core.MonthKey) ([]core.CategorySummary, error) {
	categories, err := d.store.ListCategories(ctx, month)
	if err != nil {
		return nil, err
	}
	spending, err := d.store.ListSpending(ctx, month)
	if err != nil {
		return nil, err
	}
	budgets, err := d.store.ListBudgets(ctx, month)
	if err != nil {
		return nil, err
	}

	spentBy := make(map[int64]core.Money, len(spending))
	for _, s := range spending {
		spentBy[s.CategoryID] = s.Spent
	}
	budgetBy := make(map[int64]core.Money, len(budgets))
	for _, b := range budgets {
		budgetBy[b.CategoryID] = b.Budget
	}

	summaries := make([]core.CategorySummary, len(categories))
	for i, c := range categories {
		summaries[i] = core.CategorySummary{
			Category: c,
			Spent:    spentBy[c.ID],
			Budget:   budgetBy[c.ID],
		}
	}
	return summaries, nil
}

// Watch delivers an initial snapshot and then a fresh one after every store
// change, until ctx is done. Deliveries are latest-wins: a slow consumer
// skips intermediate snapshots instead of stalling the pipeline. Watching
// triggers no writes.
func (d *DashboardService) Watch(ctx context.Context) (<-chan core.DashboardSnapshot, error) {
	initial, err := d.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	sub := d.store.Hub().Subscribe(ctx)
	out := make(chan core.DashboardSnapshot, 1)

	go func() {
		defer close(out)
		push(out, initial)

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.C:
				if !ok {
					return
				}
				snap, err := d.Snapshot(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					slog.ErrorContext(ctx, "Dashboard recompute failed", "error", err)
					continue
				}
				push(out, snap)
			}
		}
	}()

	return out, nil
}

// push replaces any undelivered snapshot with the newer one.
func push(out chan core.DashboardSnapshot, snap core.DashboardSnapshot) {
	for {
		select {
		case out <- snap:
			return
		default:
			select {
			case <-out:
			default:
			}
		}
	}
}
