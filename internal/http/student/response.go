package student

import (
	"strconv"
	"time"

	"github.com/akademika/feeledger/internal/obligation"
	"github.com/akademika/feeledger/internal/reconcile"
)

type obligationResponse struct {
	StudentID   string     `json:"student_id"`
	FeeItemID   string     `json:"fee_item_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Amount      int64      `json:"amount"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

func toObligationList(details []*obligation.Detail) []obligationResponse {
	resp := make([]obligationResponse, len(details))
	for i, d := range details {
		resp[i] = obligationResponse{
			StudentID:   d.StudentID,
			FeeItemID:   d.FeeItemID,
			Title:       d.Title,
			Description: d.Description,
			Amount:      d.Amount,
			Status:      string(d.Status),
			DueDate:     d.DueDate,
			PaidAt:      d.PaidAt,
		}
	}

	return resp
}

type snapshotResponse struct {
	StudentID string               `json:"student_id"`
	Version   string               `json:"version"`
	TakenAt   time.Time            `json:"taken_at"`
	Items     []obligationResponse `json:"items"`
}

// Version travels as a decimal string: uint64 does not survive a round trip
// through JSON numbers in every client.
func toSnapshotResponse(snap *reconcile.Snapshot) snapshotResponse {
	return snapshotResponse{
		StudentID: snap.StudentID,
		Version:   strconv.FormatUint(snap.Version, 10),
		TakenAt:   snap.TakenAt,
		Items:     toObligationList(snap.Items),
	}
}

type pairResultResponse struct {
	FeeItemID string `json:"fee_item_id"`
	Outcome   string `json:"outcome"`
	Error     string `json:"error,omitempty"`
}

type resultResponse struct {
	StudentID string               `json:"student_id"`
	Applied   int                  `json:"applied"`
	Failed    int                  `json:"failed"`
	Pairs     []pairResultResponse `json:"pairs"`
}

func toResultResponse(res *reconcile.Result) resultResponse {
	pairs := make([]pairResultResponse, len(res.Pairs))

	for i, p := range res.Pairs {
		pr := pairResultResponse{
			FeeItemID: p.FeeItemID,
			Outcome:   string(p.Outcome),
		}
		if p.Err != nil {
			pr.Error = p.Err.Error()
		}

		pairs[i] = pr
	}

	return resultResponse{
		StudentID: res.StudentID,
		Applied:   res.Applied(),
		Failed:    res.Failed(),
		Pairs:     pairs,
	}
}
