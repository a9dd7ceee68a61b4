package service

import (
	"context"
	"errors"
	"sync"

	"github.com/modybick/pos/internal/cart"
	"github.com/modybick/pos/internal/catalog"
	"github.com/modybick/pos/internal/domain"
	"github.com/modybick/pos/internal/handoff"
	"github.com/modybick/pos/internal/identity"
)

// Session owns the one active cart of the terminal. Scan callbacks arrive
// from the camera worker while quantity adjustments come from the UI; a
// single mutex serializes every cart mutation so the two can never lose an
// update to each other.
type Session struct {
	mu sync.Mutex

	cart     *cart.Cart
	catalog  *catalog.Service
	ledger   *Ledger
	handoff  *handoff.Store
	identity *identity.Manager
}

func NewSession(cat *catalog.Service, ledger *Ledger, hs *handoff.Store, idm *identity.Manager) *Session {
	return &Session{
		cart:     cart.New(),
		catalog:  cat,
		ledger:   ledger,
		handoff:  hs,
		identity: idm,
	}
}

// OnScan resolves an accepted barcode against the catalog and adds it to the
// cart. repository.ErrProductNotFound leaves the cart unchanged; the caller
// uses it for operator feedback, it is not a session failure.
func (s *Session) OnScan(ctx context.Context, barcode string) (domain.CartEntry, error) {
	product, err := s.catalog.Lookup(ctx, barcode)
	if err != nil {
		return domain.CartEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Add(*product), nil
}

func (s *Session) AdjustQuantity(barcode string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Adjust(barcode, delta)
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

func (s *Session) Entries() []domain.CartEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Entries()
}

func (s *Session) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// Checkout commits the cart as one sale and, only after the commit is
// durable, empties the cart. A failed commit leaves the cart intact so the
// operator can retry or correct the tender.
func (s *Session) Checkout(ctx context.Context, tendered int64, paymentMethod string) (*domain.Sale, error) {
	terminalID, err := s.identity.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sale, err := s.ledger.Commit(ctx, s.cart.Entries(), tendered, paymentMethod, terminalID)
	if err != nil {
		return nil, err
	}

	s.cart.Clear()
	return sale, nil
}

// RestorePending loads a pending cart-reproduction snapshot, if any,
// replacing the current cart contents. Without a pending snapshot the cart
// is left alone and false is returned.
func (s *Session) RestorePending(ctx context.Context) (bool, error) {
	entries, err := s.handoff.ConsumePending(ctx)
	if errors.Is(err, handoff.ErrNoPending) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Restore(entries)
	return true, nil
}
