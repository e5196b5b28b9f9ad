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

// LedgerService defines the posting behavior needed by LedgerHandler.
type LedgerService interface {
	PostDoubleEntry(ctx context.Context, debit, credit domain.EntrySpec) (*usecase.DoubleEntry, error)
	PostChargeBatch(ctx context.Context, charges []usecase.ChargeSpec) (*usecase.BatchResult, error)
	VoidEntry(ctx context.Context, id, actor string) (*domain.Entry, error)
	GetEntry(ctx context.Context, id string) (*domain.Entry, error)
}

// LedgerHandler handles posting, voiding and entry lookup.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// PostDoubleEntry posts a balanced debit/credit pair atomically.
func (h *LedgerHandler) PostDoubleEntry(w http.ResponseWriter, r *http.Request) {
	var req dto.PostDoubleEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	by := actor(r)
	pair, err := h.ledgerUC.PostDoubleEntry(r.Context(), req.Debit.ToSpec(by), req.Credit.ToSpec(by))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to post entries", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DoubleEntryFromUseCase(pair))
}

// PostChargeBatch posts a batch of scheduled charges. Partial failure is not
// an HTTP error; the response reports each charge's outcome.
func (h *LedgerHandler) PostChargeBatch(w http.ResponseWriter, r *http.Request) {
	var req dto.PostChargeBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.ledgerUC.PostChargeBatch(r.Context(), req.ToSpecs(actor(r)))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to post charge batch", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BatchResultFromUseCase(result))
}

// VoidEntry voids a posted entry.
func (h *LedgerHandler) VoidEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entry, err := h.ledgerUC.VoidEntry(r.Context(), id, actor(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to void entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// GetEntry retrieves an entry by ID.
func (h *LedgerHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entry, err := h.ledgerUC.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}
