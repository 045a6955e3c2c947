package lockout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"clinicore/internal/platform/config"
	"clinicore/pkg/requestcontext"
)

type LockoutSuite struct {
	suite.Suite
	store *InMemoryStore
	now   time.Time
}

func (s *LockoutSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.now = time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
}

func TestLockoutSuite(t *testing.T) {
	suite.Run(t, new(LockoutSuite))
}

func (s *LockoutSuite) ctxAt(at time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), at)
}

func (s *LockoutSuite) newGuard(cfg config.LockoutConfig) *Guard {
	guard, err := New(s.store, cfg, nil)
	s.Require().NoError(err)
	return guard
}

func (s *LockoutSuite) enabledConfig() config.LockoutConfig {
	return config.LockoutConfig{
		Enabled:           true,
		AttemptsPerWindow: 3,
		Window:            15 * time.Minute,
		LockDuration:      30 * time.Minute,
	}
}

func (s *LockoutSuite) TestDisabledGuardIsTransparent() {
	guard := s.newGuard(config.LockoutConfig{Enabled: false})
	ctx := s.ctxAt(s.now)

	for i := 0; i < 100; i++ {
		locked, err := guard.RecordFailure(ctx, "user")
		s.Require().NoError(err)
		s.False(locked)
	}
	allowed, _, err := guard.Allowed(ctx, "user")
	s.Require().NoError(err)
	s.True(allowed)
}

func (s *LockoutSuite) TestLocksAfterThresholdWithinWindow() {
	guard := s.newGuard(s.enabledConfig())
	ctx := s.ctxAt(s.now)

	for i := 0; i < 2; i++ {
		locked, err := guard.RecordFailure(ctx, "user")
		s.Require().NoError(err)
		s.False(locked)

		allowed, _, err := guard.Allowed(ctx, "user")
		s.Require().NoError(err)
		s.True(allowed)
	}

	locked, err := guard.RecordFailure(ctx, "user")
	s.Require().NoError(err)
	s.True(locked)

	allowed, retryAfter, err := guard.Allowed(ctx, "user")
	s.Require().NoError(err)
	s.False(allowed)
	s.Equal(30*time.Minute, retryAfter)
}

func (s *LockoutSuite) TestWindowRestarts() {
	guard := s.newGuard(s.enabledConfig())

	s.Run("failures in separate windows never lock", func() {
		for i := 0; i < 5; i++ {
			at := s.now.Add(time.Duration(i) * 20 * time.Minute)
			locked, err := guard.RecordFailure(s.ctxAt(at), "slow-guesser")
			s.Require().NoError(err)
			s.False(locked)
		}
	})

	s.Run("lock expires after the lock duration", func() {
		ctx := s.ctxAt(s.now)
		for i := 0; i < 3; i++ {
			_, err := guard.RecordFailure(ctx, "user")
			s.Require().NoError(err)
		}
		allowed, _, err := guard.Allowed(ctx, "user")
		s.Require().NoError(err)
		s.False(allowed)

		later := s.ctxAt(s.now.Add(31 * time.Minute))
		allowed, _, err = guard.Allowed(later, "user")
		s.Require().NoError(err)
		s.True(allowed)
	})
}

func (s *LockoutSuite) TestSuccessClearsHistory() {
	guard := s.newGuard(s.enabledConfig())
	ctx := s.ctxAt(s.now)

	for i := 0; i < 2; i++ {
		_, err := guard.RecordFailure(ctx, "user")
		s.Require().NoError(err)
	}
	s.Require().NoError(guard.RecordSuccess(ctx, "user"))

	// The counter restarted: two more failures still do not lock.
	for i := 0; i < 2; i++ {
		locked, err := guard.RecordFailure(ctx, "user")
		s.Require().NoError(err)
		s.False(locked)
	}
}

func (s *LockoutSuite) TestIdentifiersAreIndependent() {
	guard := s.newGuard(s.enabledConfig())
	ctx := s.ctxAt(s.now)

	for i := 0; i < 3; i++ {
		_, err := guard.RecordFailure(ctx, "locked-user")
		s.Require().NoError(err)
	}

	allowed, _, err := guard.Allowed(ctx, "other-user")
	s.Require().NoError(err)
	s.True(allowed)
}
