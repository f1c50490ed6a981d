package http

import (
	"encoding/json"
	"log"
	"net/http"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/ledger"
	"horizon/internal/shared/middleware"
)

// AccountHandler serves the portfolio view and per-account ledgers.
type AccountHandler struct {
	portfolio *ledger.PortfolioService
	engine    *ledger.Engine
	banks     *bank.Service
}

func NewAccountHandler(portfolio *ledger.PortfolioService, engine *ledger.Engine, banks *bank.Service) *AccountHandler {
	return &AccountHandler{portfolio: portfolio, engine: engine, banks: banks}
}

// HandlePortfolio returns all linked accounts with live balances and totals.
func (h *AccountHandler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	portfolio, err := h.portfolio.GetPortfolio(r.Context(), userID)
	if err != nil {
		log.Printf("failed to build portfolio for user %s: %v", userID, err)
		http.Error(w, "Failed to fetch accounts", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(portfolio)
}

type ledgerResponse struct {
	Status       ledger.Status `json:"status"`
	Transactions any           `json:"transactions"`
}

// HandleAccountLedger reconciles one account and returns its ordered ledger.
// Sync problems degrade the status field; the response is always 200 with
// whatever ledger could be assembled.
func (h *AccountHandler) HandleAccountLedger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	linkID := r.PathValue("id")
	if linkID == "" {
		http.Error(w, "Account ID is required", http.StatusBadRequest)
		return
	}

	link, err := h.banks.GetByID(r.Context(), linkID)
	if err != nil {
		log.Printf("failed to load bank link %s: %v", linkID, err)
		http.Error(w, "Failed to fetch account", http.StatusInternalServerError)
		return
	}
	if link == nil || link.UserID != userID {
		http.Error(w, "Account not found", http.StatusNotFound)
		return
	}

	result := h.engine.Reconcile(r.Context(), link)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ledgerResponse{
		Status:       result.Status,
		Transactions: result.Transactions,
	})
}
