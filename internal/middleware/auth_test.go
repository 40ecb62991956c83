package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ttportal/internal/auth"
)

func okHandler(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok || userID != wantUserID {
			t.Fatalf("expected user %q in context, got %q (%v)", wantUserID, userID, ok)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMissingHeader(t *testing.T) {
	handler := Auth("secret")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("the handler must not run")
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuthValidBearerToken(t *testing.T) {
	token, err := auth.GenerateToken("secret", "u1", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	handler := Auth("secret")(okHandler(t, "u1"))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestAuthBadToken(t *testing.T) {
	handler := Auth("secret")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("the handler must not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestSessionRedirectsAnonymousVisitor(t *testing.T) {
	handler := Session("secret")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("the handler must not run")
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected a redirect, got %d", rr.Code)
	}
	if location := rr.Header().Get("Location"); location != "/login" {
		t.Fatalf("expected a redirect to /login, got %q", location)
	}
}

func TestSessionAcceptsValidCookie(t *testing.T) {
	token, err := auth.GenerateToken("secret", "u1", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	handler := Session("secret")(okHandler(t, "u1"))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestSessionRejectsTamperedCookie(t *testing.T) {
	token, err := auth.GenerateToken("other-secret", "u1", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	handler := Session("secret")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("the handler must not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected a redirect, got %d", rr.Code)
	}
}
