package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"horizon/internal/domain/transaction"
	"horizon/internal/shared/middleware"
)

const defaultTransactionLimit = 50

// TransactionHandler lists a user's persisted ledger.
type TransactionHandler struct {
	transactions transaction.Repository
}

func NewTransactionHandler(repo transaction.Repository) *TransactionHandler {
	return &TransactionHandler{transactions: repo}
}

// HandleListTransactions returns the newest ledger rows across all of the
// user's accounts.
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := defaultTransactionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	transactions, err := h.transactions.ListByUserID(r.Context(), userID, limit)
	if err != nil {
		log.Printf("failed to list transactions for user %s: %v", userID, err)
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}
	if transactions == nil {
		transactions = []*transaction.LedgerTransaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transactions)
}
