package http

import (
	"encoding/json"
	"log"
	"net/http"

	"horizon/internal/domain/user"
	"horizon/internal/shared/middleware"
)

// UserHandler serves the authenticated user's profile and device state.
type UserHandler struct {
	users *user.Service
}

func NewUserHandler(users *user.Service) *UserHandler {
	return &UserHandler{users: users}
}

// HandleMe returns the authenticated user's profile.
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	u, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		log.Printf("failed to load user %s: %v", userID, err)
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}
	if u == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u)
}

type registerDeviceRequest struct {
	DeviceToken string `json:"deviceToken"`
}

// HandleRegisterDevice records the device's push-notification token.
func (h *UserHandler) HandleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req registerDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DeviceToken == "" {
		http.Error(w, "deviceToken is required", http.StatusBadRequest)
		return
	}

	if err := h.users.RegisterDevice(r.Context(), userID, req.DeviceToken); err != nil {
		log.Printf("failed to register device for user %s: %v", userID, err)
		http.Error(w, "Failed to register device", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
