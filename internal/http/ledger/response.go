package ledger

import (
	"time"

	"github.com/akademika/feeledger/internal/ledger"
)

type transactionResponse struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	FeeItemID string    `json:"fee_item_id"`
	Title     string    `json:"title"`
	Amount    int64     `json:"amount"`
	MethodID  string    `json:"method_id"`
	PaidAt    time.Time `json:"paid_at"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(tx *ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:        tx.ID,
		StudentID: tx.StudentID,
		FeeItemID: tx.FeeItemID,
		Title:     tx.Title,
		Amount:    tx.Amount,
		MethodID:  tx.MethodID,
		PaidAt:    tx.PaidAt,
		Status:    string(tx.Status),
		CreatedAt: tx.CreatedAt,
	}
}

func toResponseList(txs []*ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

type receiptResponse struct {
	TransactionID string    `json:"transaction_id"`
	StudentID     string    `json:"student_id"`
	FeeItemID     string    `json:"fee_item_id"`
	Title         string    `json:"title"`
	Amount        int64     `json:"amount"`
	Method        string    `json:"method"`
	PaidAt        time.Time `json:"paid_at"`
}

func toReceiptResponse(r *ledger.Receipt) receiptResponse {
	return receiptResponse{
		TransactionID: r.TransactionID,
		StudentID:     r.StudentID,
		FeeItemID:     r.FeeItemID,
		Title:         r.Title,
		Amount:        r.Amount,
		Method:        r.Method,
		PaidAt:        r.PaidAt,
	}
}

type methodResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsActive    bool   `json:"is_active"`
}

func toMethodList(methods []*ledger.Method) []methodResponse {
	resp := make([]methodResponse, len(methods))
	for i, m := range methods {
		resp[i] = methodResponse{ID: m.ID, DisplayName: m.DisplayName, IsActive: m.IsActive}
	}

	return resp
}
