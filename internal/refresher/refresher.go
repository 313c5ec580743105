// Package refresher keeps an in-memory snapshot of the notice table
// eventually consistent with the store. It pulls on a fixed interval and on
// demand; consumers read the snapshot and apply their own filter, so an
// active filter always survives a reload.
package refresher

import (
	"context"
	"sync"
	"time"

	"github.com/smartboard-dev/smartboard/internal/filter"
	"github.com/smartboard-dev/smartboard/internal/logger"
	"github.com/smartboard-dev/smartboard/internal/models"
)

// DefaultInterval matches the 30-second auto-refresh of the original list
// views.
const DefaultInterval = 30 * time.Second

// LoadFunc produces the full current row set, typically NoticeStore.ListAll.
type LoadFunc func() ([]models.Notice, error)

type Refresher struct {
	load      LoadFunc
	interval  time.Duration
	onRefresh func([]models.Notice)

	reloadMu sync.Mutex // serializes reloads end to end

	mu            sync.Mutex // guards the fields below
	rows          []models.Notice
	lastRefreshed time.Time
	ticker        *time.Ticker
	cancel        context.CancelFunc
	running       bool
}

// New builds a stopped refresher. onRefresh, if non-nil, is invoked after
// every successful reload with the fresh snapshot; it runs on the reload
// path and must return quickly.
func New(load LoadFunc, interval time.Duration, onRefresh func([]models.Notice)) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Refresher{
		load:      load,
		interval:  interval,
		onRefresh: onRefresh,
	}
}

// Start performs one immediate synchronous reload, then arms the timer with
// the full interval, so the first automatic reload happens one whole period
// after the initial load. Calling Start on a running refresher is a no-op.
func (r *Refresher) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.ticker = time.NewTicker(r.interval)

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	ticker := r.ticker
	r.mu.Unlock()

	r.reload()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.reload()
			}
		}
	}()
}

// Stop disarms the timer. No further reloads occur until Start is called
// again; the last snapshot stays readable.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	r.running = false
	r.ticker.Stop()
	r.cancel()
}

// Refresh reloads immediately and resets the countdown, so the next
// automatic reload happens a full interval from now rather than on the
// original schedule.
func (r *Refresher) Refresh() {
	r.reload()

	r.mu.Lock()
	if r.running {
		r.ticker.Reset(r.interval)
	}
	r.mu.Unlock()
}

// reload replaces the snapshot with the store's current row set. Reloads are
// serialized: a tick that fires while another reload is in flight waits its
// turn instead of racing the snapshot. A failed load keeps the previous
// snapshot visible.
func (r *Refresher) reload() {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	rows, err := r.load()
	if err != nil {
		logger.Log.WithError(err).Warn("Notice reload failed, keeping stale snapshot")
		return
	}

	r.mu.Lock()
	r.rows = rows
	r.lastRefreshed = time.Now()
	r.mu.Unlock()

	if r.onRefresh != nil {
		r.onRefresh(rows)
	}
}

// Snapshot returns a copy of the current row set.
func (r *Refresher) Snapshot() []models.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Notice, len(r.rows))
	copy(out, r.rows)
	return out
}

// Visible projects the snapshot through the given filter spec. The snapshot
// itself is never mutated, so callers can refilter as often as they like.
func (r *Refresher) Visible(spec filter.Spec) []models.Notice {
	return filter.Apply(r.Snapshot(), spec)
}

// LastRefreshed is the time of the most recent successful reload, zero if
// none has happened yet.
func (r *Refresher) LastRefreshed() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastRefreshed
}
