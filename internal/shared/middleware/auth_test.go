package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"horizon/internal/shared/auth"
)

func protectedHandler(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := UserID(r.Context()); got != wantUserID {
			t.Errorf("UserID in context = %q, want %q", got, wantUserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_BearerHeader(t *testing.T) {
	jwt := auth.NewJWT("secret")
	token, _ := jwt.Generate("user-1", "ada@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Auth(jwt)(protectedHandler(t, "user-1")).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuth_Cookie(t *testing.T) {
	jwt := auth.NewJWT("secret")
	token, _ := jwt.Generate("user-2", "bo@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	rec := httptest.NewRecorder()

	Auth(jwt)(protectedHandler(t, "user-2")).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuth_Rejections(t *testing.T) {
	jwt := auth.NewJWT("secret")
	otherToken, _ := auth.NewJWT("other-secret").Generate("user-1", "x@example.com")

	tests := []struct {
		name    string
		prepare func(r *http.Request)
	}{
		{name: "no credentials", prepare: func(r *http.Request) {}},
		{name: "malformed header", prepare: func(r *http.Request) {
			r.Header.Set("Authorization", "Token abc")
		}},
		{name: "wrong signing secret", prepare: func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+otherToken)
		}},
		{name: "garbage cookie", prepare: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "access_token", Value: "garbage"})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
			Auth(jwt)(next).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if called {
				t.Error("handler ran without valid credentials")
			}
		})
	}
}
