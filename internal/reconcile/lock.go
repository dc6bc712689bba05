package reconcile

import (
	"context"
	"sync"
	"time"
)

// studentLocks serializes reconciliation per student. Different students never
// contend; a second call for the same student waits up to the timeout and
// then fails with ErrBusy instead of queueing indefinitely.
//
// This covers a single service instance. The store additionally takes a
// pg_advisory_xact_lock per student inside each apply transaction, which is
// what keeps multiple instances honest.
type studentLocks struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newStudentLocks() *studentLocks {
	return &studentLocks{slots: make(map[string]chan struct{})}
}

func (l *studentLocks) acquire(ctx context.Context, studentID string, timeout time.Duration) error {
	l.mu.Lock()
	slot, ok := l.slots[studentID]

	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[studentID] = slot
	}
	l.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case slot <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *studentLocks) release(studentID string) {
	l.mu.Lock()
	slot := l.slots[studentID]
	l.mu.Unlock()

	if slot != nil {
		<-slot
	}
}
