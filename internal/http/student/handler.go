package student

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/akademika/feeledger/internal/obligation"
	"github.com/akademika/feeledger/internal/reconcile"
)

var validate = validator.New()

type Handler struct {
	obligations *obligation.Service
	reconciler  *reconcile.Service
}

func NewHandler(obligations *obligation.Service, reconciler *reconcile.Service) *Handler {
	return &Handler{obligations: obligations, reconciler: reconciler}
}

type ensureObligationRequest struct {
	FeeItemID string     `json:"fee_item_id" validate:"required"`
	DueDate   *time.Time `json:"due_date,omitempty"`
}

// EnsureObligation is the enrollment hook: it bills the student for a fee
// item, idempotently.
func (h *Handler) EnsureObligation(w http.ResponseWriter, r *http.Request) {
	var req ensureObligationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.obligations.Ensure(r.Context(), chi.URLParam(r, "studentID"), req.FeeItemID, req.DueDate)
	if err != nil {
		if errors.Is(err, obligation.ErrItemNotFound) {
			http.Error(w, "fee item not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if created {
		w.WriteHeader(http.StatusCreated)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ListObligations(w http.ResponseWriter, r *http.Request) {
	details, err := h.obligations.List(r.Context(), chi.URLParam(r, "studentID"))
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toObligationList(details)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) LoadSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.reconciler.LoadSnapshot(r.Context(), chi.URLParam(r, "studentID"))
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toSnapshotResponse(snap)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type applyChangesRequest struct {
	Version string         `json:"version" validate:"required"`
	Edits   []editedStatus `json:"edits" validate:"required,min=1,dive"`
}

type editedStatus struct {
	FeeItemID string `json:"fee_item_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=unpaid pending paid"`
	MethodID  string `json:"method_id,omitempty"`
}

func (h *Handler) ApplyChanges(w http.ResponseWriter, r *http.Request) {
	var req applyChangesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	version, err := strconv.ParseUint(req.Version, 10, 64)
	if err != nil {
		http.Error(w, "invalid snapshot version", http.StatusBadRequest)
		return
	}

	edits := make([]reconcile.Entry, len(req.Edits))
	for i, e := range req.Edits {
		edits[i] = reconcile.Entry{
			FeeItemID: e.FeeItemID,
			Status:    obligation.Status(e.Status),
			MethodID:  e.MethodID,
		}
	}

	studentID := chi.URLParam(r, "studentID")

	result, err := h.reconciler.ApplyChanges(r.Context(), studentID, &reconcile.Snapshot{
		StudentID: studentID,
		Version:   version,
	}, edits)
	if err != nil {
		switch {
		case errors.Is(err, reconcile.ErrBusy):
			http.Error(w, "another reconciliation is in progress for this student", http.StatusLocked)
		case errors.Is(err, reconcile.ErrStaleSnapshot):
			http.Error(w, "snapshot is stale, reload and retry", http.StatusConflict)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResultResponse(result)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
