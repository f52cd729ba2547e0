package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/orbitforum/internal/auth"
)

// --- モック定義 ---

type mockVerifier struct {
	verifyFn func(tokenString string) (*auth.Claims, error)
}

func (m *mockVerifier) Verify(tokenString string) (*auth.Claims, error) {
	if m.verifyFn != nil {
		return m.verifyFn(tokenString)
	}
	return nil, errors.New("not configured")
}

func validClaims() *auth.Claims {
	return &auth.Claims{UserID: "user-id-1", Username: "nova"}
}

// --- テスト ---

func TestAuthMiddleware_NoHeader_Returns401(t *testing.T) {
	mw := NewAuthMiddleware(&mockVerifier{})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_MalformedHeader_Returns401(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"スキームなし", "some-token"},
		{"Bearer以外のスキーム", "Basic dXNlcjpwYXNz"},
		{"トークン部が空", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewAuthMiddleware(&mockVerifier{})
			handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("next handler must not be called")
			}))

			req := httptest.NewRequest(http.MethodGet, "/data", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestAuthMiddleware_InvalidToken_Returns403(t *testing.T) {
	verifier := &mockVerifier{
		verifyFn: func(tokenString string) (*auth.Claims, error) {
			return nil, auth.ErrInvalidToken
		},
	}
	mw := NewAuthMiddleware(verifier)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("Authorization", "Bearer expired-or-forged")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}

	var body ErrorResponseBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Error == "" {
		t.Error("expected error message in response body")
	}
}

func TestAuthMiddleware_ValidToken_InjectsClaims(t *testing.T) {
	verifier := &mockVerifier{
		verifyFn: func(tokenString string) (*auth.Claims, error) {
			if tokenString != "good-token" {
				t.Errorf("token = %q, want %q", tokenString, "good-token")
			}
			return validClaims(), nil
		},
	}
	mw := NewAuthMiddleware(verifier)

	called := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		claims, err := ClaimsFromContext(r.Context())
		if err != nil {
			t.Fatalf("ClaimsFromContext failed: %v", err)
		}
		if claims.UserID != "user-id-1" || claims.Username != "nova" {
			t.Errorf("claims = %+v, want user-id-1/nova", claims)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !called {
		t.Error("next handler was not called")
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestClaimsFromContext_Empty_ReturnsError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := ClaimsFromContext(req.Context()); err == nil {
		t.Error("expected error for context without claims")
	}
}

func TestBearerToken_Parsing(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true}, // スキームは大文字小文字を区別しない
		{"", "", false},
		{"Bearer", "", false},
		{"Token abc", "", false},
	}

	for _, tt := range tests {
		got, ok := bearerToken(tt.header)
		if got != tt.want || ok != tt.ok {
			t.Errorf("bearerToken(%q) = (%q, %v), want (%q, %v)", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}
