package service

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/modybick/pos/internal/domain"
	"github.com/modybick/pos/internal/repository"
)

// Snapshot is one consistent view of the ledger: all sales newest first and
// the running total over the non-cancelled ones.
type Snapshot struct {
	Sales       []domain.Sale `json:"sales"`
	ActiveTotal int64         `json:"active_total"`
}

// Ledger owns every durable mutation of the sale history: the atomic
// checkout commit, the cancel/uncancel toggles and the reset paths. After
// each mutation it recomputes the snapshot and pushes it to all subscribers,
// so consumers see the history as a stream rather than polling it.
type Ledger struct {
	repo repository.LedgerRepository

	mu      sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
}

func NewLedger(repo repository.LedgerRepository) *Ledger {
	return &Ledger{
		repo: repo,
		subs: make(map[int]chan Snapshot),
	}
}

// Commit turns a finalized cart into one durable sale. Lines are persisted
// barcode-ascending regardless of scan order. The cart itself is not
// touched; clearing it after a successful commit is the caller's job.
func (l *Ledger) Commit(ctx context.Context, entries []domain.CartEntry, tendered int64, paymentMethod, terminalID string) (*domain.Sale, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCart
	}

	var total int64
	for _, e := range entries {
		total += e.Subtotal()
	}
	if tendered < total {
		return nil, ErrInsufficientTender
	}

	sorted := make([]domain.CartEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Barcode < sorted[j].Barcode
	})

	sale := &domain.Sale{
		TerminalID:     terminalID,
		CreatedAt:      time.Now(),
		PaymentMethod:  paymentMethod,
		TotalAmount:    total,
		TenderedAmount: tendered,
		ChangeAmount:   tendered - total,
	}

	lines := make([]domain.SaleLine, len(sorted))
	for i, e := range sorted {
		lines[i] = domain.SaleLine{
			ProductBarcode: e.Barcode,
			ProductName:    e.Name,
			UnitPrice:      e.UnitPrice,
			Quantity:       e.Quantity,
		}
	}

	saleID, err := l.repo.InsertSaleWithLines(ctx, sale, lines)
	if err != nil {
		return nil, err
	}
	sale.ID = saleID

	l.notify(ctx)
	return sale, nil
}

// Cancel marks a sale cancelled. Cancelling an already cancelled sale is a
// no-op.
func (l *Ledger) Cancel(ctx context.Context, saleID int64) error {
	if err := l.repo.SetSaleCancelled(ctx, saleID, true); err != nil {
		return err
	}
	l.notify(ctx)
	return nil
}

// Uncancel reverses a cancellation; idempotent like Cancel.
func (l *Ledger) Uncancel(ctx context.Context, saleID int64) error {
	if err := l.repo.SetSaleCancelled(ctx, saleID, false); err != nil {
		return err
	}
	l.notify(ctx)
	return nil
}

// Delete removes a sale and, through the cascade, all of its lines.
func (l *Ledger) Delete(ctx context.Context, saleID int64) error {
	if err := l.repo.DeleteSale(ctx, saleID); err != nil {
		return err
	}
	l.notify(ctx)
	return nil
}

// Reset wipes the whole ledger (test teardown / explicit operator reset).
func (l *Ledger) Reset(ctx context.Context) error {
	if err := l.repo.ResetSales(ctx); err != nil {
		return err
	}
	l.notify(ctx)
	return nil
}

func (l *Ledger) Lines(ctx context.Context, saleID int64) ([]domain.SaleLine, error) {
	return l.repo.GetSaleLines(ctx, saleID)
}

// Snapshot recomputes the current view from the store.
func (l *Ledger) Snapshot(ctx context.Context) (Snapshot, error) {
	sales, err := l.repo.ListSales(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	var active int64
	for _, s := range sales {
		if !s.IsCancelled {
			active += s.TotalAmount
		}
	}

	return Snapshot{Sales: sales, ActiveTotal: active}, nil
}

// Subscribe registers a listener for snapshot updates. The channel carries
// the latest snapshot only: a slow consumer sees the newest state, not a
// backlog. The returned func removes the subscription.
func (l *Ledger) Subscribe() (<-chan Snapshot, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextSub
	l.nextSub++
	ch := make(chan Snapshot, 1)
	l.subs[id] = ch

	cancel := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (l *Ledger) notify(ctx context.Context) {
	snapshot, err := l.Snapshot(ctx)
	if err != nil {
		log.Printf("failed to recompute ledger snapshot: %v", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ch := range l.subs {
		// Drop the stale value if the subscriber has not drained it yet.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}
