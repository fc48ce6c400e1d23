package services

import (
	"context"
	"fmt"
	"sort"

	"budget/internal/core"
	"budget/internal/storage"
)

// IncomeReport summarizes the income entries of one month.
type IncomeReport struct {
	Month    core.MonthKey
	Entries  []core.Income
	Total    core.Money
	Average  core.Money
	BySource map[string]core.Money
}

// MonthlyIncomePoint is one month of the income trend.
type MonthlyIncomePoint struct {
	Month core.MonthKey
	Total core.Money
}

// ReportService builds read-only income summaries from the ledger store.
type ReportService struct {
	store *storage.Store
	clock core.Clock
}

func NewReportService(store *storage.Store, clock core.Clock) *ReportService {
	return &ReportService{store: store, clock: clock}
}

// IncomeReport summarizes the income dated inside the given month: the
// entries newest first, their total, the average per entry and per-source
// totals.
func (r *ReportService) IncomeReport(ctx context.Context, month core.MonthKey) (IncomeReport, error) {
	entries, err := r.store.ListIncomeByDateRange(ctx, month.Start(), month.End())
	if err != nil {
		return IncomeReport{}, fmt.Errorf("income report for %s: %w", month, err)
	}

	report := IncomeReport{
		Month:    month,
		Entries:  entries,
		BySource: make(map[string]core.Money),
	}
	for _, in := range entries {
		report.Total = report.Total.Add(in.Amount)
		report.BySource[in.Source] = report.BySource[in.Source].Add(in.Amount)
	}
	if len(entries) > 0 {
		report.Average = core.Cents(report.Total.Cents / int64(len(entries)))
	}
	return report, nil
}

// IncomeTrend totals income per month for the last n months, oldest first,
// ending with the current month.
func (r *ReportService) IncomeTrend(ctx context.Context, n int) ([]MonthlyIncomePoint, error) {
	if n < 1 {
		return nil, nil
	}

	month := core.CurrentMonth(r.clock.Now())
	points := make([]MonthlyIncomePoint, 0, n)
	for i := 0; i < n; i++ {
		total, err := r.store.SumIncomeByDateRange(ctx, month.Start(), month.End())
		if err != nil {
			return nil, fmt.Errorf("income trend for %s: %w", month, err)
		}
		points = append(points, MonthlyIncomePoint{Month: month, Total: total})
		month = month.Previous()
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Month.Before(points[j].Month)
	})
	return points, nil
}
