package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/propledger/propledger/internal/adapter/http/dto"
	"github.com/propledger/propledger/internal/domain"
	"github.com/propledger/propledger/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	Initiate(ctx context.Context, input usecase.InitiateTransferInput) (*domain.Transfer, error)
	Settle(ctx context.Context, transferID, actor string) (*domain.Transfer, error)
	Reverse(ctx context.Context, transferID, actor string) (*domain.Transfer, error)
	GetTransfer(ctx context.Context, id string) (*domain.Transfer, error)
	ListByLease(ctx context.Context, leaseID string, limit, offset int) ([]*domain.Transfer, error)
	ListAgedPending(ctx context.Context, maxAge time.Duration, limit int) ([]*domain.Transfer, error)
}

// TransferHandler handles cash-in-transit transfer HTTP requests.
type TransferHandler struct {
	transferUC TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService) *TransferHandler {
	return &TransferHandler{transferUC: transferUC}
}

// Initiate records an in-flight payment against Cash in Transit.
func (h *TransferHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	var req dto.InitiateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transfer, err := h.transferUC.Initiate(r.Context(), req.ToUseCaseInput(actor(r)))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to initiate transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(transfer))
}

// Settle moves a pending transfer into Operating Cash.
func (h *TransferHandler) Settle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	transfer, err := h.transferUC.Settle(r.Context(), id, actor(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to settle transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}

// Reverse backs out a pending transfer, restoring the receivable.
func (h *TransferHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	transfer, err := h.transferUC.Reverse(r.Context(), id, actor(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reverse transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}

// Get retrieves a transfer by ID.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	transfer, err := h.transferUC.GetTransfer(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}

// List lists transfers for a lease, or aged pending transfers when
// aged=true.
func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)

	if r.URL.Query().Get("aged") == "true" {
		maxAge := time.Duration(parseIntQuery(r, "max_age_days", 7)) * 24 * time.Hour
		transfers, err := h.transferUC.ListAgedPending(r.Context(), maxAge, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list aged transfers", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, dto.TransfersFromDomain(transfers))
		return
	}

	leaseID := r.URL.Query().Get("lease_id")
	if leaseID == "" {
		writeError(w, http.StatusBadRequest, "missing lease_id", "")
		return
	}

	transfers, err := h.transferUC.ListByLease(r.Context(), leaseID, limit, parseIntQuery(r, "offset", 0))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transfers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransfersFromDomain(transfers))
}
