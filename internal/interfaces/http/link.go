package http

import (
	"encoding/json"
	"log"
	"net/http"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/user"
	"horizon/internal/shared/middleware"
)

// LinkHandler owns the account-linking flow.
type LinkHandler struct {
	banks      *bank.Service
	users      *user.Service
	clientName string
}

func NewLinkHandler(banks *bank.Service, users *user.Service, clientName string) *LinkHandler {
	return &LinkHandler{banks: banks, users: users, clientName: clientName}
}

// HandleCreateLinkToken mints the short-lived token the link UI needs.
func (h *LinkHandler) HandleCreateLinkToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := h.banks.CreateLinkToken(r.Context(), userID, h.clientName)
	if err != nil {
		log.Printf("failed to create link token for user %s: %v", userID, err)
		http.Error(w, "Failed to create link token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"linkToken": token})
}

type exchangeRequest struct {
	PublicToken string `json:"publicToken"`
}

// HandleExchange finishes the link flow with the public token from the UI.
func (h *LinkHandler) HandleExchange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PublicToken == "" {
		http.Error(w, "publicToken is required", http.StatusBadRequest)
		return
	}

	u, err := h.users.GetByID(r.Context(), userID)
	if err != nil || u == nil {
		log.Printf("failed to load user %s: %v", userID, err)
		http.Error(w, "Failed to link account", http.StatusInternalServerError)
		return
	}
	if u.CustomerURL == "" {
		http.Error(w, "Payments profile missing; finish registration first", http.StatusConflict)
		return
	}

	link, err := h.banks.Link(r.Context(), bank.LinkParams{
		UserID:      userID,
		CustomerURL: u.CustomerURL,
		PublicToken: req.PublicToken,
	})
	if err != nil {
		log.Printf("failed to link account for user %s: %v", userID, err)
		http.Error(w, "Failed to link account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(link)
}
