package collector

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a minimum delay between successive calls to the same
// source, so batch runs respect external service quotas. The clock and
// sleeper are injectable so tests run without real waiting.
type Pacer struct {
	MinDelay time.Duration

	mu   sync.Mutex
	next map[string]time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

const defaultMinDelay = time.Second

func NewPacer(minDelay time.Duration) *Pacer {
	if minDelay <= 0 {
		minDelay = defaultMinDelay
	}
	return &Pacer{
		MinDelay: minDelay,
		next:     make(map[string]time.Time),
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Wait blocks until the source's slot opens, then reserves the next one.
// Concurrent callers for the same source queue up in claim order.
func (p *Pacer) Wait(ctx context.Context, source string) error {
	p.mu.Lock()
	now := p.now()
	at := p.next[source]
	if at.Before(now) {
		at = now
	}
	p.next[source] = at.Add(p.MinDelay)
	p.mu.Unlock()

	if d := at.Sub(now); d > 0 {
		return p.sleep(ctx, d)
	}
	return ctx.Err()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
