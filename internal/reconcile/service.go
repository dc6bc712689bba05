package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/akademika/feeledger/internal/ledger"
	"github.com/akademika/feeledger/internal/obligation"
)

// DefaultMethodID is recorded when an admin marks a fee paid without naming a
// method, matching the manual bank-transfer flow this workflow replaces.
const DefaultMethodID = "bank_transfer"

const defaultLockTimeout = 2 * time.Second

type Repository interface {
	ListObligations(ctx context.Context, studentID string) ([]*obligation.Detail, error)

	// MarkPaid flips the obligation to paid and appends the ledger entry in
	// one storage transaction. A pre-existing entry for the same
	// (student, item, paidAt) triple is returned with created=false.
	MarkPaid(ctx context.Context, studentID, feeItemID string, paidAt time.Time, methodID string) (*ledger.Transaction, bool, error)

	// MarkStatus flips the obligation to a non-paid status, clearing
	// paid_at. Ledger entries are left untouched.
	MarkStatus(ctx context.Context, studentID, feeItemID string, status obligation.Status) error
}

// PaidEvent is handed to the Notifier after a paid transition commits.
type PaidEvent struct {
	StudentID     string
	FeeItemID     string
	Title         string
	Amount        int64
	TransactionID string
	PaidAt        time.Time
}

// Notifier is the hook the notification system subscribes through. Delivery
// is best-effort and happens after commit; the workflow never fails because a
// notification did.
type Notifier interface {
	ObligationPaid(ctx context.Context, event PaidEvent)
}

type noopNotifier struct{}

func (noopNotifier) ObligationPaid(context.Context, PaidEvent) {}

type Service struct {
	repo        Repository
	locks       *studentLocks
	notifier    Notifier
	lockTimeout time.Duration
	now         func() time.Time
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithLockTimeout(d time.Duration) Option {
	return func(s *Service) { s.lockTimeout = d }
}

// withClock is used by tests to control paid timestamps.
func withClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		locks:       newStudentLocks(),
		notifier:    noopNotifier{},
		lockTimeout: defaultLockTimeout,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// LoadSnapshot returns the student's current obligations stamped with a
// version. The caller holds this across the edit session and submits it back
// to ApplyChanges; Refresh is the same call under the name the UI uses after
// a save.
func (s *Service) LoadSnapshot(ctx context.Context, studentID string) (*Snapshot, error) {
	items, err := s.repo.ListObligations(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	return &Snapshot{
		StudentID: studentID,
		Version:   SnapshotVersion(items),
		Items:     items,
		TakenAt:   s.now().UTC(),
	}, nil
}

func (s *Service) Refresh(ctx context.Context, studentID string) (*Snapshot, error) {
	return s.LoadSnapshot(ctx, studentID)
}

// ApplyChanges diffs the edited entries against the snapshot they were made
// from and applies only the changed pairs. Each pair commits independently:
// paid targets write the obligation flip and the ledger append atomically,
// reversals flip the obligation and leave the ledger as audit trail. A pair
// failure is reported and the remaining pairs are still attempted; already
// applied pairs stay applied, since each is idempotent on retry.
func (s *Service) ApplyChanges(ctx context.Context, studentID string, snapshot *Snapshot, edits []Entry) (*Result, error) {
	if err := s.locks.acquire(ctx, studentID, s.lockTimeout); err != nil {
		return nil, err
	}
	defer s.locks.release(studentID)

	current, err := s.repo.ListObligations(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("loading current obligations: %w", err)
	}

	if SnapshotVersion(current) != snapshot.Version {
		return nil, ErrStaleSnapshot
	}

	byItem := make(map[string]*obligation.Detail, len(current))
	for _, d := range current {
		byItem[d.FeeItemID] = d
	}

	// One pair, one write: the edit list is the client's final view of each
	// pair, so a fee item appearing twice collapses to its last entry. A
	// duplicated paid edit must not reach MarkPaid a second time, where a
	// fresh timestamp would sidestep the ledger's idempotency key.
	edits = dedupeEdits(edits)

	result := &Result{StudentID: studentID}

	var events []PaidEvent

	for _, edit := range edits {
		cur, ok := byItem[edit.FeeItemID]
		if !ok {
			result.Pairs = append(result.Pairs, PairResult{
				FeeItemID: edit.FeeItemID,
				Outcome:   OutcomeFailed,
				Err:       obligation.ErrNotFound,
			})

			continue
		}

		if !edit.Status.Valid() {
			result.Pairs = append(result.Pairs, PairResult{
				FeeItemID: edit.FeeItemID,
				Outcome:   OutcomeFailed,
				Err:       obligation.ErrInvalidTransition,
			})

			continue
		}

		// Unchanged pairs cost nothing: the diff bounds writes to what
		// the admin actually touched.
		if edit.Status == cur.Status {
			continue
		}

		pair, event := s.applyPair(ctx, studentID, cur, edit)
		result.Pairs = append(result.Pairs, pair)

		if event != nil {
			events = append(events, *event)
		}
	}

	for _, e := range events {
		s.notifier.ObligationPaid(ctx, e)
	}

	return result, nil
}

func dedupeEdits(edits []Entry) []Entry {
	out := make([]Entry, 0, len(edits))
	seen := make(map[string]int, len(edits))

	for _, edit := range edits {
		if i, ok := seen[edit.FeeItemID]; ok {
			out[i] = edit
			continue
		}

		seen[edit.FeeItemID] = len(out)
		out = append(out, edit)
	}

	return out
}

func (s *Service) applyPair(ctx context.Context, studentID string, cur *obligation.Detail, edit Entry) (PairResult, *PaidEvent) {
	res := PairResult{FeeItemID: edit.FeeItemID}

	switch edit.Status {
	case obligation.StatusPaid:
		methodID := edit.MethodID
		if methodID == "" {
			methodID = DefaultMethodID
		}

		paidAt := s.now().UTC()

		tx, created, err := s.repo.MarkPaid(ctx, studentID, edit.FeeItemID, paidAt, methodID)
		if err != nil {
			res.Outcome = OutcomeFailed
			res.Err = err

			return res, nil
		}

		res.Outcome = OutcomeApplied

		// A found pre-existing entry means this is a retried apply;
		// success, but not a new payment, so no notification.
		if !created {
			return res, nil
		}

		return res, &PaidEvent{
			StudentID:     studentID,
			FeeItemID:     edit.FeeItemID,
			Title:         cur.Title,
			Amount:        tx.Amount,
			TransactionID: tx.ID,
			PaidAt:        tx.PaidAt,
		}

	case obligation.StatusPending:
		// Paid money does not drift back to "awaiting confirmation"
		// inside an edit session; the admin meant either a reversal or
		// nothing.
		if cur.Status == obligation.StatusPaid {
			slog.Warn("ignoring paid to pending transition",
				"student_id", studentID,
				"fee_item_id", edit.FeeItemID,
			)

			res.Outcome = OutcomeSkipped

			return res, nil
		}

		fallthrough

	case obligation.StatusUnpaid:
		if err := s.repo.MarkStatus(ctx, studentID, edit.FeeItemID, edit.Status); err != nil {
			res.Outcome = OutcomeFailed
			res.Err = err

			return res, nil
		}

		res.Outcome = OutcomeApplied

		return res, nil
	}

	res.Outcome = OutcomeFailed
	res.Err = obligation.ErrInvalidTransition

	return res, nil
}
