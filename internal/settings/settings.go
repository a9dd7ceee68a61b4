package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/modybick/pos/internal/repository"
)

const (
	scanCooldownKey = "scan_cooldown_ms"

	// DefaultScanCooldown suppresses duplicate reads of the same physical
	// barcode across successive camera frames.
	DefaultScanCooldown = 1000 * time.Millisecond
)

// Store holds the terminal's mutable settings. Values are persisted in the
// app_state table and served from an atomic, so readers on the scan hot path
// never touch the database and a change applies on the next evaluation.
type Store struct {
	repo       repository.StateRepository
	cooldownMs atomic.Int64
}

func NewStore(ctx context.Context, repo repository.StateRepository) (*Store, error) {
	s := &Store{repo: repo}

	value, err := repo.GetState(ctx, scanCooldownKey)
	switch {
	case errors.Is(err, repository.ErrStateNotFound):
		s.cooldownMs.Store(DefaultScanCooldown.Milliseconds())
	case err != nil:
		return nil, err
	default:
		ms, errParse := strconv.ParseInt(value, 10, 64)
		if errParse != nil || ms <= 0 {
			s.cooldownMs.Store(DefaultScanCooldown.Milliseconds())
		} else {
			s.cooldownMs.Store(ms)
		}
	}

	return s, nil
}

func (s *Store) ScanCooldown() time.Duration {
	return time.Duration(s.cooldownMs.Load()) * time.Millisecond
}

func (s *Store) SetScanCooldown(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("scan cooldown must be positive, got %v", d)
	}

	if err := s.repo.PutState(ctx, scanCooldownKey, strconv.FormatInt(d.Milliseconds(), 10)); err != nil {
		return err
	}

	s.cooldownMs.Store(d.Milliseconds())
	return nil
}
