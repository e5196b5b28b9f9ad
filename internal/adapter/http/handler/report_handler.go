package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/propledger/propledger/internal/adapter/http/dto"
	"github.com/propledger/propledger/internal/domain"
	"github.com/propledger/propledger/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	AccountBalance(ctx context.Context, q usecase.BalanceQuery) (decimal.Decimal, error)
	LeaseBalance(ctx context.Context, leaseID string) (decimal.Decimal, error)
	GenerateTrialBalance(ctx context.Context, asOf time.Time) (*usecase.TrialBalance, error)
	AgedReceivables(ctx context.Context, asOf time.Time) ([]*usecase.AgedReceivable, error)
	GenerateIncomeStatement(ctx context.Context, from, to time.Time) (*usecase.IncomeStatement, error)
	ListEntries(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error)
}

// ReportHandler handles balance and report HTTP requests.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// AccountBalance returns one account's balance, optionally filtered by lease
// and date range.
func (h *ReportHandler) AccountBalance(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	q := usecase.BalanceQuery{
		AccountCode: code,
		LeaseID:     r.URL.Query().Get("lease_id"),
	}
	if from := r.URL.Query().Get("from"); from != "" {
		t := parseTimeQuery(r, "from", time.Time{})
		q.From = &t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t := parseTimeQuery(r, "to", time.Time{})
		q.To = &t
	}

	balance, err := h.reportUC.AccountBalance(r.Context(), q)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountCode: code,
		LeaseID:     q.LeaseID,
		Balance:     balance,
	})
}

// LeaseBalance returns the outstanding receivable for one lease.
func (h *ReportHandler) LeaseBalance(w http.ResponseWriter, r *http.Request) {
	leaseID := chi.URLParam(r, "leaseID")

	balance, err := h.reportUC.LeaseBalance(r.Context(), leaseID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute lease balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{LeaseID: leaseID, Balance: balance})
}

// TrialBalance returns per-account totals as of a point in time.
func (h *ReportHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	asOf := parseTimeQuery(r, "as_of", time.Now().UTC())

	tb, err := h.reportUC.GenerateTrialBalance(r.Context(), asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate trial balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TrialBalanceFromUseCase(tb))
}

// AgedReceivables returns outstanding receivables bucketed by age.
func (h *ReportHandler) AgedReceivables(w http.ResponseWriter, r *http.Request) {
	asOf := parseTimeQuery(r, "as_of", time.Now().UTC())

	rows, err := h.reportUC.AgedReceivables(r.Context(), asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate aged receivables", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AgedReceivablesFromUseCase(rows))
}

// IncomeStatement returns income and expense totals over a period.
func (h *ReportHandler) IncomeStatement(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	from := parseTimeQuery(r, "from", now.AddDate(0, -1, 0))
	to := parseTimeQuery(r, "to", now)

	stmt, err := h.reportUC.GenerateIncomeStatement(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate income statement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.IncomeStatementFromUseCase(stmt))
}

// ListEntries lists ledger entries matching query filters.
func (h *ReportHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	filter := usecase.EntryFilter{
		AccountCode: r.URL.Query().Get("account_code"),
		LeaseID:     r.URL.Query().Get("lease_id"),
		TransferID:  r.URL.Query().Get("transfer_id"),
		Status:      domain.EntryStatus(r.URL.Query().Get("status")),
		Limit:       parseIntQuery(r, "limit", 50),
		Offset:      parseIntQuery(r, "offset", 0),
	}
	if from := r.URL.Query().Get("from"); from != "" {
		t := parseTimeQuery(r, "from", time.Time{})
		filter.From = &t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t := parseTimeQuery(r, "to", time.Time{})
		filter.To = &t
	}

	entries, err := h.reportUC.ListEntries(r.Context(), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}
