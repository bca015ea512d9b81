// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fofanamamadou/affiliation-project/internal/core"
	"github.com/fofanamamadou/affiliation-project/internal/identity"
)

type fakeVerifier struct {
	claims *AccessTokenClaims
	err    error
}

func (f *fakeVerifier) VerifyAccessToken(
	_ context.Context,
	_ string,
) (*AccessTokenClaims, error) {
	return f.claims, f.err
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer", "Bearer abc123", "abc123"},
		{"bearer lowercase", "bearer abc123", "abc123"},
		{"legacy token scheme", "Token abc123", "abc123"},
		{"missing", "", ""},
		{"no scheme", "abc123", ""},
		{"wrong scheme", "Basic abc123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := ExtractToken(r); got != tt.want {
				t.Errorf("ExtractToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthenticatorStoresIdentityAndJTI(t *testing.T) {
	verifier := &fakeVerifier{
		claims: &AccessTokenClaims{
			Subject:     "influenceur:i1",
			JTI:         "token-id",
			Permissions: identity.NewSet(identity.PermViewStatistics),
		},
	}

	var gotIdent identity.Identity
	var gotOK bool
	var gotJTI string

	handler := Authenticator(verifier)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotIdent, gotOK = GetIdentity(r.Context())
			gotJTI = GetJTI(r.Context())
		},
	))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !gotOK {
		t.Fatal("identity missing from context")
	}
	if gotIdent.Kind != identity.KindInfluenceur || gotIdent.ID != "i1" {
		t.Errorf("identity = %+v", gotIdent)
	}
	if !gotIdent.Can(identity.PermViewStatistics) {
		t.Error("permissions not carried over")
	}
	if gotJTI != "token-id" {
		t.Errorf("jti = %q", gotJTI)
	}
}

func TestAuthenticatorRejectsMissingToken(t *testing.T) {
	handler := Authenticator(&fakeVerifier{})(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler must not run")
		},
	))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthenticatorExpiredToken(t *testing.T) {
	handler := Authenticator(&fakeVerifier{err: core.ErrTokenExpired})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler must not run")
		}),
	)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer expired")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthenticatorMalformedSubject(t *testing.T) {
	verifier := &fakeVerifier{
		claims: &AccessTokenClaims{Subject: "nosuchkind:1", JTI: "j"},
	}
	handler := Authenticator(verifier)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler must not run")
		},
	))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequirePermission(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guard := RequirePermission(identity.PermPayRemises)(next)

	t.Run("anonymous gets 401", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		guard.ServeHTTP(w, r)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d", w.Code)
		}
	})

	t.Run("lacking capability gets 403", func(t *testing.T) {
		ident := identity.Influenceur("i1", identity.NewSet(identity.PermViewStatistics))
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = r.WithContext(WithIdentity(r.Context(), ident))
		w := httptest.NewRecorder()
		guard.ServeHTTP(w, r)
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d", w.Code)
		}
	})

	t.Run("admin passes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = r.WithContext(WithIdentity(r.Context(), identity.Admin("a1")))
		w := httptest.NewRecorder()
		guard.ServeHTTP(w, r)
		if w.Code != http.StatusNoContent {
			t.Errorf("status = %d", w.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guard := RequireAdmin(next)

	ident := identity.Influenceur("i1", identity.PermissionsForRole(identity.RoleAdmin))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(WithIdentity(r.Context(), ident))
	w := httptest.NewRecorder()
	guard.ServeHTTP(w, r)

	// role=admin influencers still are not back-office admins
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(WithIdentity(r.Context(), identity.Admin("a1")))
	w = httptest.NewRecorder()
	guard.ServeHTTP(w, r)
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
}
