// Package testutils holds helpers shared by tests.
package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// T0 is the instant simulated clocks start at
var T0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

// Context returns a context whose logger writes through t. Only use it where
// nothing logs after the test returns.
func Context(t testing.TB) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

// FakeClock returns a simulated clock stopped at T0
func FakeClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(T0)
}
