package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"horizon/internal/domain/user"
	"horizon/internal/shared/auth"
)

// AuthHandler owns registration and login.
type AuthHandler struct {
	users *user.Service
	jwt   *auth.JWT
}

func NewAuthHandler(users *user.Service, jwt *auth.JWT) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// HandleRegister creates a user and opens a session.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var params user.RegisterParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if params.Email == "" || params.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	u, err := h.users.Register(r.Context(), params)
	if errors.Is(err, user.ErrEmailTaken) {
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	}
	if err != nil {
		log.Printf("registration failed: %v", err)
		http.Error(w, "Failed to register", http.StatusInternalServerError)
		return
	}

	h.openSession(w, u)
}

// HandleLogin verifies credentials and opens a session.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.users.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, user.ErrInvalidCredentials) {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Printf("login failed: %v", err)
		http.Error(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	h.openSession(w, u)
}

// HandleLogout clears the session cookie.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) openSession(w http.ResponseWriter, u *user.User) {
	token, err := h.jwt.Generate(u.ID, u.Email)
	if err != nil {
		log.Printf("failed to generate token: %v", err)
		http.Error(w, "Failed to open session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sessionResponse{Token: token, User: u})
}
