package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akademika/feeledger/internal/ledger"
	"github.com/akademika/feeledger/internal/obligation"
)

// fakeRepo is an in-memory Repository with the same idempotency semantics as
// the SQL store: MarkPaid dedupes on the (student, item, paidAt) triple and
// MarkStatus clears the paid timestamp.
type fakeRepo struct {
	mu   sync.Mutex
	obls map[string]*obligation.Detail
	txs  []*ledger.Transaction

	markPaidErr   map[string]error
	markStatusErr map[string]error

	// listGate, when set, blocks ListObligations until closed. Used to hold
	// the student lock across a concurrent call.
	listGate chan struct{}

	markPaidCalls   int
	markStatusCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		obls:          make(map[string]*obligation.Detail),
		markPaidErr:   make(map[string]error),
		markStatusErr: make(map[string]error),
	}
}

func pairKey(studentID, feeItemID string) string {
	return studentID + "/" + feeItemID
}

func (f *fakeRepo) seed(studentID, feeItemID string, amount int64, status obligation.Status, paidAt *time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.obls[pairKey(studentID, feeItemID)] = &obligation.Detail{
		Obligation: obligation.Obligation{
			StudentID: studentID,
			FeeItemID: feeItemID,
			Status:    status,
			PaidAt:    paidAt,
		},
		Title:  "Fee " + feeItemID,
		Amount: amount,
	}
}

func (f *fakeRepo) ListObligations(_ context.Context, studentID string) ([]*obligation.Detail, error) {
	if f.listGate != nil {
		<-f.listGate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*obligation.Detail

	for _, d := range f.obls {
		if d.StudentID != studentID {
			continue
		}

		cp := *d
		out = append(out, &cp)
	}

	// Stable order, like the store's ORDER BY. Snapshot versions depend on it.
	sort.Slice(out, func(i, j int) bool { return out[i].FeeItemID < out[j].FeeItemID })

	return out, nil
}

func (f *fakeRepo) MarkPaid(_ context.Context, studentID, feeItemID string, paidAt time.Time, methodID string) (*ledger.Transaction, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.markPaidCalls++

	if err := f.markPaidErr[feeItemID]; err != nil {
		return nil, false, err
	}

	d, ok := f.obls[pairKey(studentID, feeItemID)]
	if !ok {
		return nil, false, obligation.ErrNotFound
	}

	d.Status = obligation.StatusPaid
	d.PaidAt = &paidAt

	for _, tx := range f.txs {
		if tx.StudentID == studentID && tx.FeeItemID == feeItemID && tx.PaidAt.Equal(paidAt) {
			return tx, false, nil
		}
	}

	tx := &ledger.Transaction{
		ID:        fmt.Sprintf("TRX-%d-%08d", paidAt.Unix(), len(f.txs)),
		StudentID: studentID,
		FeeItemID: feeItemID,
		Title:     d.Title,
		Amount:    d.Amount,
		MethodID:  methodID,
		PaidAt:    paidAt,
		Status:    ledger.StatusCompleted,
	}
	f.txs = append(f.txs, tx)

	return tx, true, nil
}

func (f *fakeRepo) MarkStatus(_ context.Context, studentID, feeItemID string, status obligation.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.markStatusCalls++

	if err := f.markStatusErr[feeItemID]; err != nil {
		return err
	}

	d, ok := f.obls[pairKey(studentID, feeItemID)]
	if !ok {
		return obligation.ErrNotFound
	}

	d.Status = status
	d.PaidAt = nil

	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []PaidEvent
}

func (n *recordingNotifier) ObligationPaid(_ context.Context, e PaidEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.events = append(n.events, e)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestApplyChanges_MarkPaid(t *testing.T) {
	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	repo := newFakeRepo()
	repo.seed("2024-0001", "semester_fee", 3500000, obligation.StatusUnpaid, nil)
	repo.seed("2024-0001", "exam_fee", 250000, obligation.StatusUnpaid, nil)

	notifier := &recordingNotifier{}
	svc := NewService(repo, WithNotifier(notifier), withClock(fixedClock(now)))

	snap, err := svc.LoadSnapshot(context.Background(), "2024-0001")
	require.NoError(t, err)
	require.Len(t, snap.Items, 2)

	result, err := svc.ApplyChanges(context.Background(), "2024-0001", snap, []Entry{
		{FeeItemID: "semester_fee", Status: obligation.StatusPaid, MethodID: "e_wallet"},
	})
	require.NoError(t, err)

	require.Len(t, result.Pairs, 1)
	assert.Equal(t, OutcomeApplied, result.Pairs[0].Outcome)
	assert.Equal(t, 1, result.Applied())
	assert.Equal(t, 0, result.Failed())

	// Obligation flipped, ledger appended, other pair untouched.
	d := repo.obls[pairKey("2024-0001", "semester_fee")]
	assert.Equal(t, obligation.StatusPaid, d.Status)
	require.NotNil(t, d.PaidAt)
	assert.True(t, d.PaidAt.Equal(now))

	require.Len(t, repo.txs, 1)
	assert.Equal(t, "e_wallet", repo.txs[0].MethodID)
	assert.Equal(t, int64(3500000), repo.txs[0].Amount)
	assert.Equal(t, obligation.StatusUnpaid, repo.obls[pairKey("2024-0001", "exam_fee")].Status)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, "semester_fee", notifier.events[0].FeeItemID)
	assert.Equal(t, repo.txs[0].ID, notifier.events[0].TransactionID)
}

func TestApplyChanges_DefaultMethod(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("2024-0001", "semester_fee", 3500000, obligation.StatusUnpaid, nil)

	svc := NewService(repo)

	snap, err := svc.LoadSnapshot(context.Background(), "2024-0001")
	require.NoError(t, err)

	_, err = svc.ApplyChanges(context.Background(), "2024-0001", snap, []Entry{
		{FeeItemID: "semester_fee", Status: obligation.StatusPaid},
	})
	require.NoError(t, err)

	require.Len(t, repo.txs, 1)
	assert.Equal(t, DefaultMethodID, repo.txs[0].MethodID)
}

func TestApplyChanges_Reversal(t *testing.T) {
	paidAt := time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)

	repo := newFakeRepo()
	repo.seed("2024-0001", "semester_fee", 3500000, obligation.StatusPaid, &paidAt)
	repo.txs = append(repo.txs, &ledger.Transaction{
		ID:        "TRX-1-existing",
		StudentID: "2024-0001",
		FeeItemID: "semester_fee",
		Amount:    3500000,
		PaidAt:    paidAt,
		Status:    ledger.StatusCompleted,
	})

	svc := NewService(repo)

	snap, err := svc.LoadSnapshot(context.Background(), "2024-0001")
	require.NoError(t, err)

	result, err := svc.ApplyChanges(context.Background(), "2024-0001", snap, []Entry{
		{FeeItemID: "semester_fee", Status: obligation.StatusUnpaid},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied())

	// Obligation reversed, ledger entry stays as audit trail.
	d := repo.obls[pairKey("2024-0001", "semester_fee")]
	assert.Equal(t, obligation.StatusUnpaid, d.Status)
	assert.Nil(t, d.PaidAt)
	assert.Len(t, repo.txs, 1)
}

func TestApplyChanges_NoopDiffWritesNothing(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("2024-0001", "semester_fee", 3500000, obligation.StatusUnpaid, nil)
	repo.seed("2024-0001", "exam_fee", 250000, obligation.StatusPending, nil)

	svc := NewService(repo)

	snap, err := svc.LoadSnapshot(context.Background(), "2024-0001")
	require.NoError(t, err)

	// Submitting the unchanged statuses back is a no-op.
	result, err := svc.ApplyChanges(context.Background(), "2024-0001", snap, []Entry{
		{FeeItemID: "semester_fee", Status: obligation.StatusUnpaid},
		{FeeItemID: "exam_fee", Status: obligation.StatusPending},
	})
	require.NoError(t, err)

	assert.Empty(t, result.Pairs)
	assert.Zero(t, repo.markPaidCalls)
	assert.Zero(t, repo.markStatusCalls)
}

func TestApplyChanges_ContinuesPastFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("2024-0001", "registration_fee", 5000000, obligation.StatusUnpaid, nil)
	repo.seed("2024-0001", "semester_fee", 3500000, obligation.StatusUnpaid, nil)
	repo.seed("2024-0001", "exam_fee", 250000, obligation.StatusUnpaid, nil)

	dbErr := errors.New("deadlock detected")
	repo.markPaidErr["registration_fee"] = dbErr

	svc := NewService(repo)

	snap, err := svc.LoadSnapshot(context.Background(), "2024-0001")
	require.NoError(t, err)

	result, err := svc.ApplyChanges(context.Background(), "2024-0001", snap, []Entry{
		{FeeItemID: "registration_fee", Status: obligation.StatusPaid},
		{FeeItemID: "semester_fee", Status: obligation.StatusPaid},
		{FeeItemID: "exam_fee", Status: obligation.StatusPending},
	})
	require.NoError(t, err)

	require.Len(t, result.Pairs, 3)
	assert.Equal(t, 2, result.Applied())
	assert.Equal(t, 1, result.Failed())

	for _, p := range result.Pairs {
		if p.FeeItemID == "registration_fee" {
			assert.Equal(t, OutcomeFailed, p.Outcome)
			assert.ErrorIs(t, p.Err, dbErr)
		}
	}

	// The pairs after the failed one were still applied.
	assert.Equal(t, obligation.StatusPaid, repo.obls[pairKey("2024-0001", "semester_fee")].Status)
	assert.Equal(t, obligation.StatusPending, repo.obls[pairKey("2024-0001", "exam_fee")].Status)
}

func TestApplyChanges_UnknownItemFails(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("2024-0001", "semester_fee", 3500000, obligation.StatusUnpaid, nil)

	svc := NewService(repo)

	snap, err := svc.LoadSnapshot(context.Background(), "2024-0001")
	require.NoError(t, err)

	result, err := svc.ApplyChanges(context.Background(), "2024-0001", snap, []Entry{
		{FeeItemID: "ghost_fee", Status: obligation.StatusPaid},
	})
	require.NoError(t, err)

	require.Len(t, result.Pairs, 1)
	assert.Equal(t, OutcomeFailed, result.Pairs[0].Outcome)
	assert.ErrorIs(t, result.Pairs[0].Err, obligation.ErrNotFound)
}

func TestApplyChanges_InvalidStatusFails(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("2024-0001", "semester_fee", 3500000, obligation.StatusUnpaid, nil)

	svc := NewService(repo)

	snap, err := svc.LoadSnapshot(context.Background(), "2024-0001")
	require.NoError(t, err)

	result, err := svc.ApplyChanges(context.Background(), "2024-0001", snap, []Entry{
		{FeeItemID: "semester_fee", Status: obligation.Status("refunded")},
	})
	require.NoError(t, err)

	require.Len(t, result.Pairs, 1)
	assert.Equal(t, OutcomeFailed, result.Pairs[0].Outcome)
	assert.ErrorIs(t, result.Pairs[0].Err, obligation.ErrInvalidTransition)
}

func TestApplyChanges_PaidToPendingSkipped(t *testing.T) {
	paidAt := time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)

	repo := newFakeRepo()
	repo.seed("2024-0001", "semester_fee", 3500000, obligation.StatusPaid, &paidAt)

	svc := NewService(repo)

	snap, err := svc.LoadSnapshot(context.Background(), "2024-0001")
	require.NoError(t, err)

	result, err := svc.ApplyChanges(context.Background(), "2024-0001", snap, []Entry{
		{FeeItemID: "semester_fee", Status: obligation.StatusPending},
	})
	require.NoError(t, err)

	require.Len(t, result.Pairs, 1)
	assert.Equal(t, OutcomeSkipped, result.Pairs[0].Outcome)
	assert.Equal(t, obligation.StatusPaid, repo.obls[pairKey("2024-0001", "semester_fee")].Status)
	assert.Zero(t, repo.markStatusCalls)
}

func TestApplyChanges_StaleSnapshot(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("2024-0001", "semester_fee", 3500000, obligation.StatusUnpaid, nil)

	svc := NewService(repo)

	snap, err := svc.LoadSnapshot(context.Background(), "2024-0001")
	require.NoError(t, err)

	// Another actor moves the state between snapshot and apply.
	paidAt := time.Now().UTC()
	_, _, err = repo.MarkPaid(context.Background(), "2024-0001", "semester_fee", paidAt, "bank_transfer")
	require.NoError(t, err)

	_, err = svc.ApplyChanges(context.Background(), "2024-0001", snap, []Entry{
		{FeeItemID: "semester_fee", Status: obligation.StatusUnpaid},
	})
	assert.ErrorIs(t, err, ErrStaleSnapshot)
}

func TestApplyChanges_RetryIsIdempotent(t *testing.T) {
	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	repo := newFakeRepo()
	repo.seed("2024-0001", "semester_fee", 3500000, obligation.StatusUnpaid, nil)

	notifier := &recordingNotifier{}
	svc := NewService(repo, WithNotifier(notifier), withClock(fixedClock(now)))

	snap, err := svc.LoadSnapshot(context.Background(), "2024-0001")
	require.NoError(t, err)

	edits := []Entry{{FeeItemID: "semester_fee", Status: obligation.StatusPaid}}

	first, err := svc.ApplyChanges(context.Background(), "2024-0001", snap, edits)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Applied())

	// A client that missed the first response resubmits against a fresh
	// snapshot. The pair is unchanged now, so nothing is written twice.
	snap2, err := svc.LoadSnapshot(context.Background(), "2024-0001")
	require.NoError(t, err)

	second, err := svc.ApplyChanges(context.Background(), "2024-0001", snap2, edits)
	require.NoError(t, err)

	assert.Empty(t, second.Pairs)
	assert.Len(t, repo.txs, 1)
	assert.Len(t, notifier.events, 1)
}

func TestApplyChanges_DuplicateEditsApplyOnce(t *testing.T) {
	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	repo := newFakeRepo()
	repo.seed("2024-0001", "semester_fee", 3500000, obligation.StatusUnpaid, nil)

	notifier := &recordingNotifier{}
	svc := NewService(repo, WithNotifier(notifier), withClock(fixedClock(now)))

	snap, err := svc.LoadSnapshot(context.Background(), "2024-0001")
	require.NoError(t, err)

	// A client bug repeats the same pair in one request. The pair must
	// still be applied exactly once: a second MarkPaid would carry its own
	// timestamp and land a second ledger row.
	result, err := svc.ApplyChanges(context.Background(), "2024-0001", snap, []Entry{
		{FeeItemID: "semester_fee", Status: obligation.StatusPaid},
		{FeeItemID: "semester_fee", Status: obligation.StatusPaid},
	})
	require.NoError(t, err)

	require.Len(t, result.Pairs, 1)
	assert.Equal(t, OutcomeApplied, result.Pairs[0].Outcome)
	assert.Equal(t, 1, repo.markPaidCalls)
	assert.Len(t, repo.txs, 1)
	assert.Len(t, notifier.events, 1)
}

func TestApplyChanges_DuplicateEditsLastWins(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("2024-0001", "semester_fee", 3500000, obligation.StatusUnpaid, nil)

	svc := NewService(repo)

	snap, err := svc.LoadSnapshot(context.Background(), "2024-0001")
	require.NoError(t, err)

	// Toggled paid and back within one request: the final entry equals the
	// snapshot status, so the pair is a no-op.
	result, err := svc.ApplyChanges(context.Background(), "2024-0001", snap, []Entry{
		{FeeItemID: "semester_fee", Status: obligation.StatusPaid},
		{FeeItemID: "semester_fee", Status: obligation.StatusUnpaid},
	})
	require.NoError(t, err)

	assert.Empty(t, result.Pairs)
	assert.Zero(t, repo.markPaidCalls)
	assert.Zero(t, repo.markStatusCalls)
	assert.Empty(t, repo.txs)
}

func TestApplyChanges_SameStudentBusy(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("2024-0001", "semester_fee", 3500000, obligation.StatusUnpaid, nil)

	svc := NewService(repo, WithLockTimeout(20*time.Millisecond))

	snap, err := svc.LoadSnapshot(context.Background(), "2024-0001")
	require.NoError(t, err)

	// Gate the first apply inside the lock so the second one times out.
	gate := make(chan struct{})
	repo.listGate = gate

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.ApplyChanges(context.Background(), "2024-0001", snap, []Entry{
			{FeeItemID: "semester_fee", Status: obligation.StatusPaid},
		})
		firstDone <- err
	}()

	// Wait until the first call holds the student lock.
	require.Eventually(t, func() bool {
		svc.locks.mu.Lock()
		slot := svc.locks.slots["2024-0001"]
		svc.locks.mu.Unlock()

		return slot != nil && len(slot) == 1
	}, time.Second, time.Millisecond)

	_, err = svc.ApplyChanges(context.Background(), "2024-0001", snap, nil)
	assert.ErrorIs(t, err, ErrBusy)

	close(gate)
	require.NoError(t, <-firstDone)
}

func TestApplyChanges_DifferentStudentsRunConcurrently(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("2024-0001", "semester_fee", 3500000, obligation.StatusUnpaid, nil)
	repo.seed("2024-0002", "semester_fee", 3500000, obligation.StatusUnpaid, nil)

	svc := NewService(repo, WithLockTimeout(time.Second))

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	for _, studentID := range []string{"2024-0001", "2024-0002"} {
		wg.Add(1)

		go func() {
			defer wg.Done()

			snap, err := svc.LoadSnapshot(context.Background(), studentID)
			if err != nil {
				errs <- err
				return
			}

			_, err = svc.ApplyChanges(context.Background(), studentID, snap, []Entry{
				{FeeItemID: "semester_fee", Status: obligation.StatusPaid},
			})
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	assert.Len(t, repo.txs, 2)
}

func TestSnapshotVersion(t *testing.T) {
	paidAt := time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)

	items := []*obligation.Detail{
		{
			Obligation: obligation.Obligation{
				FeeItemID: "semester_fee",
				Status:    obligation.StatusUnpaid,
			},
		},
		{
			Obligation: obligation.Obligation{
				FeeItemID: "exam_fee",
				Status:    obligation.StatusPaid,
				PaidAt:    &paidAt,
			},
		},
	}

	v := SnapshotVersion(items)
	assert.Equal(t, v, SnapshotVersion(items))

	// A status flip changes the version.
	items[0].Status = obligation.StatusPending
	assert.NotEqual(t, v, SnapshotVersion(items))

	// Changing only a paid timestamp changes it too.
	items[0].Status = obligation.StatusUnpaid
	require.Equal(t, v, SnapshotVersion(items))

	later := paidAt.Add(time.Hour)
	items[1].PaidAt = &later
	assert.NotEqual(t, v, SnapshotVersion(items))
}
