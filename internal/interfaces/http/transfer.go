package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"horizon/internal/domain/transfer"
	"horizon/internal/shared/middleware"
)

// TransferHandler initiates transfers between linked accounts.
type TransferHandler struct {
	transfers *transfer.Service
}

func NewTransferHandler(transfers *transfer.Service) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

func (h *TransferHandler) HandleCreateTransfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var params transfer.Params
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	params.SenderUserID = userID

	result, err := h.transfers.Create(r.Context(), params)
	switch {
	case errors.Is(err, transfer.ErrInvalidAmount),
		errors.Is(err, transfer.ErrSelfTransfer):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, transfer.ErrLinkNotFound):
		http.Error(w, "Bank account not found", http.StatusNotFound)
		return
	case errors.Is(err, transfer.ErrNotLinkOwner):
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	case err != nil:
		log.Printf("transfer failed for user %s: %v", userID, err)
		http.Error(w, "Failed to create transfer", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}
