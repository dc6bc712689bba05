package report

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/akademika/feeledger/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

type overviewResponse struct {
	TotalBilled  int64 `json:"total_billed"`
	TotalPaid    int64 `json:"total_paid"`
	TotalUnpaid  int64 `json:"total_unpaid"`
	TotalPending int64 `json:"total_pending"`
	Students     int64 `json:"students"`
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.svc.Overview(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, overviewResponse{
		TotalBilled:  ov.TotalBilled,
		TotalPaid:    ov.TotalPaid,
		TotalUnpaid:  ov.TotalUnpaid,
		TotalPending: ov.TotalPending,
		Students:     ov.Students,
	})
}

type feeTypeStatResponse struct {
	FeeItemID   string `json:"fee_item_id"`
	Title       string `json:"title"`
	TotalBilled int64  `json:"total_billed"`
	TotalPaid   int64  `json:"total_paid"`
	TotalUnpaid int64  `json:"total_unpaid"`
}

func (h *Handler) FeeTypes(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.FeeTypeBreakdown(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]feeTypeStatResponse, len(stats))
	for i, st := range stats {
		resp[i] = feeTypeStatResponse{
			FeeItemID:   st.FeeItemID,
			Title:       st.Title,
			TotalBilled: st.TotalBilled,
			TotalPaid:   st.TotalPaid,
			TotalUnpaid: st.TotalUnpaid,
		}
	}

	writeJSON(w, resp)
}

type methodStatResponse struct {
	MethodID    string `json:"method_id"`
	DisplayName string `json:"display_name"`
	Count       int64  `json:"count"`
	Total       int64  `json:"total"`
}

func (h *Handler) Methods(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.MethodBreakdown(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]methodStatResponse, len(stats))
	for i, st := range stats {
		resp[i] = methodStatResponse{
			MethodID:    st.MethodID,
			DisplayName: st.DisplayName,
			Count:       st.Count,
			Total:       st.Total,
		}
	}

	writeJSON(w, resp)
}

type recentTransactionResponse struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Title     string    `json:"title"`
	Amount    int64     `json:"amount"`
	MethodID  string    `json:"method_id"`
	PaidAt    time.Time `json:"paid_at"`
	Status    string    `json:"status"`
}

func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	txs, err := h.svc.RecentTransactions(r.Context(), limit)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]recentTransactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = recentTransactionResponse{
			ID:        tx.ID,
			StudentID: tx.StudentID,
			Title:     tx.Title,
			Amount:    tx.Amount,
			MethodID:  tx.MethodID,
			PaidAt:    tx.PaidAt,
			Status:    string(tx.Status),
		}
	}

	writeJSON(w, resp)
}

type studentBalanceResponse struct {
	StudentID     string     `json:"student_id"`
	TotalBilled   int64      `json:"total_billed"`
	Outstanding   int64      `json:"outstanding"`
	LatestPayment *time.Time `json:"latest_payment,omitempty"`
	Settled       bool       `json:"settled"`
}

func (h *Handler) Students(w http.ResponseWriter, r *http.Request) {
	balances, err := h.svc.StudentBalances(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]studentBalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = studentBalanceResponse{
			StudentID:     b.StudentID,
			TotalBilled:   b.TotalBilled,
			Outstanding:   b.Outstanding,
			LatestPayment: b.LatestPayment,
			Settled:       b.Settled,
		}
	}

	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
