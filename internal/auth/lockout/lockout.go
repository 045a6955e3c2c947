// Package lockout implements a sliding-window failure counter with a hard
// lock, guarding the authentication resolver against brute-force attempts.
// The guard is config-gated: when disabled the resolver behaves as plain
// credential verification.
package lockout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"clinicore/internal/platform/config"
	dErrors "clinicore/pkg/domain-errors"
	"clinicore/pkg/requestcontext"
)

// Record tracks authentication failures for one login identifier.
type Record struct {
	FailureCount int       `json:"failure_count"`
	WindowStart  time.Time `json:"window_start"`
	LockedUntil  time.Time `json:"locked_until"` // zero when not locked
}

// IsLockedAt reports whether the record holds a hard lock at the given time.
func (r Record) IsLockedAt(now time.Time) bool {
	return !r.LockedUntil.IsZero() && now.Before(r.LockedUntil)
}

// Store persists lockout records keyed by login identifier. Implementations
// must expire records on their own (TTL) so abandoned identifiers do not
// accumulate.
type Store interface {
	Get(ctx context.Context, key string) (Record, bool, error)
	Put(ctx context.Context, key string, record Record, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Guard evaluates and updates lockout state around authentication attempts.
type Guard struct {
	store  Store
	cfg    config.LockoutConfig
	logger *slog.Logger
}

// New builds a guard over the given store.
func New(store Store, cfg config.LockoutConfig, logger *slog.Logger) (*Guard, error) {
	if store == nil {
		return nil, errors.New("lockout store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{store: store, cfg: cfg, logger: logger}, nil
}

// Allowed reports whether the identifier may attempt authentication now. When
// denied, retryAfter says how long until the lock expires.
func (g *Guard) Allowed(ctx context.Context, identifier string) (allowed bool, retryAfter time.Duration, err error) {
	if !g.cfg.Enabled {
		return true, 0, nil
	}
	record, ok, err := g.store.Get(ctx, identifier)
	if err != nil {
		return false, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read lockout record")
	}
	if !ok {
		return true, 0, nil
	}
	now := requestcontext.Now(ctx)
	if record.IsLockedAt(now) {
		return false, record.LockedUntil.Sub(now), nil
	}
	return true, 0, nil
}

// RecordFailure counts a failed attempt and reports whether it triggered a
// hard lock. The window restarts when the previous one has elapsed.
func (g *Guard) RecordFailure(ctx context.Context, identifier string) (locked bool, err error) {
	if !g.cfg.Enabled {
		return false, nil
	}
	now := requestcontext.Now(ctx)
	record, ok, err := g.store.Get(ctx, identifier)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read lockout record")
	}
	if !ok || now.Sub(record.WindowStart) > g.cfg.Window {
		record = Record{WindowStart: now}
	}
	record.FailureCount++
	if record.FailureCount >= g.cfg.AttemptsPerWindow {
		record.LockedUntil = now.Add(g.cfg.LockDuration)
		locked = true
	}
	ttl := g.cfg.Window
	if g.cfg.LockDuration > ttl {
		ttl = g.cfg.LockDuration
	}
	if err := g.store.Put(ctx, identifier, record, ttl); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist lockout record")
	}
	if locked {
		g.logger.WarnContext(ctx, "authentication lockout triggered",
			"failure_count", record.FailureCount,
			"locked_until", record.LockedUntil,
		)
	}
	return locked, nil
}

// RecordSuccess clears any failure history for the identifier.
func (g *Guard) RecordSuccess(ctx context.Context, identifier string) error {
	if !g.cfg.Enabled {
		return nil
	}
	if err := g.store.Delete(ctx, identifier); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear lockout record")
	}
	return nil
}
