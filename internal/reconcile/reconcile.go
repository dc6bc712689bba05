package reconcile

import (
	"errors"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/akademika/feeledger/internal/obligation"
)

var (
	// ErrBusy is returned when another reconciliation for the same student
	// holds the lock past the configured wait.
	ErrBusy = errors.New("student reconciliation in progress")
	// ErrStaleSnapshot is returned when the obligation set changed after
	// the snapshot the edits were made against was taken.
	ErrStaleSnapshot = errors.New("snapshot is stale, reload and retry")
)

// Snapshot is the obligation set handed to the admin UI at the start of an
// edit session. The client edits its copy offline and submits the result
// together with the snapshot; Version lets the server reject edits made
// against state that has since moved.
type Snapshot struct {
	StudentID string
	Version   uint64
	Items     []*obligation.Detail
	TakenAt   time.Time
}

// Entry is the client's edited view of one pair: the target status plus the
// method to record if the target is paid.
type Entry struct {
	FeeItemID string
	Status    obligation.Status
	MethodID  string
}

// Outcome classifies what happened to one changed pair.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

type PairResult struct {
	FeeItemID string
	Outcome   Outcome
	Err       error
}

// Result is the per-pair report of one ApplyChanges call. Nothing is rolled
// back on partial failure; the caller resubmits the failed subset, which the
// next diff recomputes as changed again.
type Result struct {
	StudentID string
	Pairs     []PairResult
}

func (r *Result) Applied() int { return r.count(OutcomeApplied) }
func (r *Result) Failed() int  { return r.count(OutcomeFailed) }

func (r *Result) count(o Outcome) int {
	n := 0

	for _, p := range r.Pairs {
		if p.Outcome == o {
			n++
		}
	}

	return n
}

// SnapshotVersion hashes the ordered obligation rows. Two snapshots of the
// same student agree exactly when no status or paid timestamp moved in
// between.
func SnapshotVersion(items []*obligation.Detail) uint64 {
	h := fnv.New64a()

	for _, it := range items {
		h.Write([]byte(it.FeeItemID))
		h.Write([]byte{0})
		h.Write([]byte(it.Status))
		h.Write([]byte{0})

		if it.PaidAt != nil {
			h.Write([]byte(strconv.FormatInt(it.PaidAt.UnixNano(), 10)))
		}

		h.Write([]byte{0})
	}

	return h.Sum64()
}
