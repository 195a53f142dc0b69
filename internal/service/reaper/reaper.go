// Package reaper fails pending order batches that outlived their TTL. There
// is no user-facing cancellation; abandoned checkouts either receive an
// expiry event from the provider or are swept here.
package reaper

import (
	"context"
	"io"
	"log"
	"time"
)

type orderRepo interface {
	FailStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}

type Reaper struct {
	orders   orderRepo
	ttl      time.Duration
	interval time.Duration
	logger   *log.Logger
}

func New(orders orderRepo, ttl, interval time.Duration, logger *log.Logger) *Reaper {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Reaper{orders: orders, ttl: ttl, interval: interval, logger: logger}
}

// Run sweeps on every tick until ctx is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce fails every pending batch older than the TTL.
func (r *Reaper) RunOnce(ctx context.Context) {
	cutoff := time.Now().Add(-r.ttl)
	n, err := r.orders.FailStalePending(ctx, cutoff)
	if err != nil {
		r.logger.Printf("reaper: sweep error=%v", err)
		return
	}
	if n > 0 {
		r.logger.Printf("reaper: failed %d stale pending batches", n)
	}
}
