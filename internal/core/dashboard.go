package core

import (
	"sort"
	"time"
)

// CategorySummary is a category together with its monthly spending and
// budget figures.
type CategorySummary struct {
	Category Category
	Spent    Money
	Budget   Money
}

// Overspent reports whether more than the budget was spent.
func (c CategorySummary) Overspent() bool { return c.Spent.Cents > c.Budget.Cents }

// Remaining returns budget minus spent; negative when overspent.
func (c CategorySummary) Remaining() Money { return c.Budget.Sub(c.Spent) }

// DailyBudget spreads the remaining budget over the days left in now's
// calendar month, end of month inclusive.
func (c CategorySummary) DailyBudget(now time.Time) Money {
	return Money{Cents: c.Remaining().Cents / int64(RemainingDays(now))}
}

// DashboardSnapshot is everything the dashboard shows for one month. It is
// recomputed from store state, never persisted.
type DashboardSnapshot struct {
	Month           MonthKey
	Archived        bool
	StartingBalance Money
	TotalBudget     Money
	TotalSpent      Money
	TotalIncome     Money
	CurrentBalance  Money
	Active          []CategorySummary
	Completed       []CategorySummary
}

// BuildSnapshot derives the dashboard state for month from store data. It is
// a pure function: safe to re-run on every change notification.
//
// An archived month yields a zeroed snapshot. Otherwise transactions split on
// their category link (nil = income), categories partition into completed
// (spent >= budget) and active, and the running balance is
// starting + income - spent.
func BuildSnapshot(
	month MonthKey,
	startingBalance Money,
	categories []CategorySummary,
	transactions []TransactionWithCategory,
	archivedMonths []MonthKey,
) DashboardSnapshot {
	for _, m := range archivedMonths {
		if m == month {
			return DashboardSnapshot{Month: month, Archived: true}
		}
	}

	snap := DashboardSnapshot{
		Month:           month,
		StartingBalance: startingBalance,
	}

	for _, c := range categories {
		snap.TotalBudget = snap.TotalBudget.Add(c.Budget)
	}

	for _, t := range transactions {
		if t.Month != month {
			continue
		}
		if t.IsIncome() {
			snap.TotalIncome = snap.TotalIncome.Add(t.Amount)
		} else {
			snap.TotalSpent = snap.TotalSpent.Add(t.Amount)
		}
	}
	snap.CurrentBalance = startingBalance.Add(snap.TotalIncome).Sub(snap.TotalSpent)

	for _, c := range categories {
		if c.Spent.Cents >= c.Budget.Cents {
			snap.Completed = append(snap.Completed, c)
		} else {
			snap.Active = append(snap.Active, c)
		}
	}

	// Overspent entries sort first. An overspent category is always completed,
	// so the key is vacuously false here and the order degrades to name; the
	// behavior is kept as the ordering contract.
	sort.SliceStable(snap.Active, func(i, j int) bool {
		oi, oj := snap.Active[i].Overspent(), snap.Active[j].Overspent()
		if oi != oj {
			return oi
		}
		return snap.Active[i].Category.Name < snap.Active[j].Category.Name
	})
	sort.SliceStable(snap.Completed, func(i, j int) bool {
		return snap.Completed[i].Category.Name < snap.Completed[j].Category.Name
	})

	return snap
}
