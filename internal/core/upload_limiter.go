package core

// upload_limiter.go bounds how many documents are decoded and extracted at
// once. Extraction holds the whole document in memory, so the number of
// concurrent ingests caps memory use. When all slots are taken, callers wait
// up to maxWait and then fail with ErrUploadBusy.
//
// WaitForDrain lets shutdown finish in-flight ingests before closing the
// store.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrUploadBusy is returned when no ingest slot frees up within the wait
// time. Clients should retry after a short delay.
var ErrUploadBusy = errors.New("too many uploads in progress, please try again later")

// Defaults used when the configuration leaves a value unset.
const (
	DefaultMaxConcurrentUploads = 5
	DefaultMaxWaitTime          = 30 * time.Second
)

// UploadLimiter is a counting semaphore over ingest slots.
type UploadLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int32
}

// NewUploadLimiter allows at most maxConcurrent simultaneous ingests.
func NewUploadLimiter(maxConcurrent int, maxWait time.Duration) *UploadLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentUploads
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &UploadLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting at most maxWait. It returns ctx.Err() when
// the caller's context ends first. Every successful Acquire must be paired
// with Release.
func (l *UploadLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-timer.C:
		return ErrUploadBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes a slot only if one is free right now.
func (l *UploadLimiter) TryAcquire() bool {
	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return true
	default:
		return false
	}
}

// Release returns a slot taken by Acquire or TryAcquire.
func (l *UploadLimiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// ActiveCount returns the number of ingests holding a slot.
func (l *UploadLimiter) ActiveCount() int {
	return int(l.active.Load())
}

// WaitForDrain blocks until no ingest holds a slot or ctx ends.
func (l *UploadLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for l.ActiveCount() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// LimiterStatus is a snapshot for the health endpoint.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// Status reports current slot usage.
func (l *UploadLimiter) Status() LimiterStatus {
	return LimiterStatus{
		Active:        l.ActiveCount(),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
