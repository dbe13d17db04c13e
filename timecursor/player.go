package timecursor

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the playback interval used when none is given.
const DefaultInterval = 900 * time.Millisecond

// Player paces playback ticks. It never touches a cursor itself: the owner
// steps the cursor on each tick so all mutation stays on one goroutine.
type Player struct {
	interval time.Duration
	limiter  *rate.Limiter
}

// NewPlayer creates a player ticking every interval. A non-positive interval
// selects DefaultInterval.
func NewPlayer(interval time.Duration) *Player {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &Player{interval: interval, limiter: rate.NewLimiter(rate.Every(interval), 1)}
	p.Reset()
	return p
}

// Interval returns the tick interval.
func (p *Player) Interval() time.Duration {
	return p.interval
}

// Reset restarts the interval so the next tick is a full interval away.
func (p *Player) Reset() {
	p.limiter.AllowN(time.Now(), p.limiter.Burst())
}

// Next blocks until the next tick or until ctx is done.
func (p *Player) Next(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Run calls tick on every interval until ctx is done or tick returns false.
func (p *Player) Run(ctx context.Context, tick func() bool) error {
	for {
		if err := p.Next(ctx); err != nil {
			return err
		}
		if !tick() {
			return nil
		}
	}
}
