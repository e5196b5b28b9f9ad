package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/propledger/propledger/internal/adapter/http/dto"
	"github.com/propledger/propledger/internal/domain"
	"github.com/propledger/propledger/internal/usecase"
)

// ReconciliationService defines the behavior needed by ReconciliationHandler.
type ReconciliationService interface {
	ImportStatement(ctx context.Context, input usecase.ImportStatementInput) (*domain.Reconciliation, error)
	RecordEntry(ctx context.Context, input usecase.RecordEntryInput) (*usecase.RecordEntryResult, error)
	Finalize(ctx context.Context, id, by string) (*domain.Reconciliation, error)
	Get(ctx context.Context, id string) (*domain.Reconciliation, error)
	ListLines(ctx context.Context, reconciliationID string) ([]*domain.ReconciliationLine, error)
}

// ReconciliationHandler handles bank reconciliation HTTP requests.
type ReconciliationHandler struct {
	reconUC ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconUC ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconUC: reconUC}
}

// ImportStatement creates a reconciliation from a bank statement.
func (h *ReconciliationHandler) ImportStatement(w http.ResponseWriter, r *http.Request) {
	var req dto.ImportStatementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rec, err := h.reconUC.ImportStatement(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to import statement", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ReconciliationFromDomain(rec))
}

// RecordEntry records a payment or expense against an unmatched line.
func (h *ReconciliationHandler) RecordEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.RecordEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.reconUC.RecordEntry(r.Context(), req.ToUseCaseInput(id, actor(r)))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record entry", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.RecordEntryFromUseCase(result))
}

// Finalize closes a reconciliation against further matching.
func (h *ReconciliationHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.reconUC.Finalize(r.Context(), id, actor(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to finalize reconciliation", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromDomain(rec))
}

// Get retrieves a reconciliation by ID.
func (h *ReconciliationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.reconUC.Get(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get reconciliation", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromDomain(rec))
}

// ListLines lists a reconciliation's statement lines.
func (h *ReconciliationHandler) ListLines(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	lines, err := h.reconUC.ListLines(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list lines", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LinesFromDomain(lines))
}
