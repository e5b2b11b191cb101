// Package clockprovider implements the §6.5 time provider collaborator:
// now_ms() -> current Unix time in milliseconds. Wrapping
// github.com/benbjohnson/clock instead of calling time.Now() directly lets
// the miner's block timestamps, and so the retarget window computed from
// them, run against a deterministic mock clock in tests, the way the teacher injects a clock
// dependency rather than reading wall-clock time from inside business logic.
package clockprovider

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Provider returns the current time in Unix milliseconds, matching the
// original's instant_maker.get_now_long().
type Provider interface {
	NowMillis() int64
}

type realProvider struct {
	clock clock.Clock
}

// New wraps a real, wall-clock-backed provider.
func New() Provider {
	return &realProvider{clock: clock.New()}
}

func (p *realProvider) NowMillis() int64 {
	return p.clock.Now().UnixMilli()
}

// Mock is a controllable provider for tests: advance it explicitly instead
// of sleeping real time.
type Mock struct {
	clock *clock.Mock
}

// NewMock constructs a mock provider starting at the Unix epoch.
func NewMock() *Mock {
	return &Mock{clock: clock.NewMock()}
}

func (m *Mock) NowMillis() int64 {
	return m.clock.Now().UnixMilli()
}

// Add advances the mock clock by millis milliseconds.
func (m *Mock) Add(millis int64) {
	m.clock.Add(time.Duration(millis) * time.Millisecond)
}
