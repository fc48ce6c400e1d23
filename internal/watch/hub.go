// Package watch implements the in-process change notification pipeline.
// The store publishes the set of tables a committed write touched; readers
// subscribe once and recompute their views on each delivery.
package watch

import (
	"context"
	"sync"
)

// Table names a source of change notifications.
type Table string

const (
	TableCategories   Table = "categories"
	TableBudgets      Table = "monthly_budgets"
	TableSpending     Table = "monthly_category_spending"
	TableTransactions Table = "transactions"
	TableIncome       Table = "income"
	TableSettings     Table = "settings"

	// TableSelection is a virtual table: the user-selected month changed.
	TableSelection Table = "selection"
)

// Change carries the tables touched by one or more committed writes.
// Deliveries coalesce, so a single Change may cover several writes.
type Change struct {
	Tables map[Table]struct{}
}

// Has reports whether the change touches the given table.
func (c Change) Has(t Table) bool {
	_, ok := c.Tables[t]
	return ok
}

// Hub fans change notifications out to subscribers. Publishing never blocks:
// if a subscriber has not drained its channel yet, new tables merge into the
// pending delivery.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// Subscription is one subscriber's view of the hub. Events arrive on C until
// the subscription's context is cancelled, at which point C is closed.
type Subscription struct {
	C <-chan Change

	hub     *Hub
	ch      chan Change
	mu      sync.Mutex
	pending map[Table]struct{}
	closed  bool
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a new subscriber. The subscription detaches and its
// channel closes when ctx is done; an abandoned reader costs nothing and
// triggers nothing.
func (h *Hub) Subscribe(ctx context.Context) *Subscription {
	ch := make(chan Change, 1)
	sub := &Subscription{hub: h, ch: ch, C: ch}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.unsubscribe(sub)
	}()

	return sub
}

// Publish notifies every subscriber that the given tables changed.
func (h *Hub) Publish(tables ...Table) {
	if len(tables) == 0 {
		return
	}
	h.mu.Lock()
	subs := make([]*Subscription, 0, len(h.subs))
	for s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		s.deliver(tables)
	}
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	delete(h.subs, sub)
	h.mu.Unlock()
	if !ok {
		return
	}

	sub.mu.Lock()
	sub.closed = true
	sub.mu.Unlock()
	close(sub.ch)
}

func (s *Subscription) deliver(tables []Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if s.pending == nil {
		s.pending = make(map[Table]struct{}, len(tables))
	}
	for _, t := range tables {
		s.pending[t] = struct{}{}
	}

	select {
	case s.ch <- Change{Tables: s.pending}:
		s.pending = nil
	default:
		// Channel still holds an undelivered change; swap it out, merge and
		// requeue so the subscriber sees one coalesced event.
		select {
		case prev := <-s.ch:
			for t := range prev.Tables {
				s.pending[t] = struct{}{}
			}
		default:
		}
		select {
		case s.ch <- Change{Tables: s.pending}:
			s.pending = nil
		default:
		}
	}
}
