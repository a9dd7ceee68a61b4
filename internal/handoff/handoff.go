package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modybick/pos/internal/domain"
	"github.com/modybick/pos/internal/repository"
)

const stateKey = "pending_cart_handoff"

var ErrNoPending = errors.New("no pending cart reproduction")

// Store persists a one-shot snapshot of line items so a past sale can be
// reproduced into a fresh cart. A new request overwrites any pending one;
// consumption is read-then-delete in a single transaction, so the snapshot
// is handed out at most once even under concurrent consumers.
type Store struct {
	repo repository.StateRepository
}

func NewStore(repo repository.StateRepository) *Store {
	return &Store{repo: repo}
}

func (s *Store) Request(ctx context.Context, lines []domain.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to marshal handoff snapshot: %w", err)
	}

	return s.repo.PutState(ctx, stateKey, string(data))
}

// ConsumePending returns the pending snapshot as cart entries and deletes it
// in the same transaction. The snapshot's name/price values are
// authoritative; the current catalog is deliberately not consulted.
func (s *Store) ConsumePending(ctx context.Context) ([]domain.CartEntry, error) {
	value, err := s.repo.TakeState(ctx, stateKey)
	if errors.Is(err, repository.ErrStateNotFound) {
		return nil, ErrNoPending
	}
	if err != nil {
		return nil, err
	}

	var lines []domain.SaleLine
	if err := json.Unmarshal([]byte(value), &lines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal handoff snapshot: %w", err)
	}

	entries := make([]domain.CartEntry, 0, len(lines))
	for _, l := range lines {
		entries = append(entries, domain.CartEntry{
			Barcode:   l.ProductBarcode,
			Name:      l.ProductName,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		})
	}

	return entries, nil
}
