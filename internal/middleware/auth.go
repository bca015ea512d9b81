// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fofanamamadou/affiliation-project/internal/core"
	"github.com/fofanamamadou/affiliation-project/internal/identity"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	jtiKey      contextKey = "jti"
)

// AccessTokenClaims is the verified content of an access token.
type AccessTokenClaims struct {
	Subject     string
	JTI         string
	Permissions identity.Set
}

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

// Authenticator resolves the bearer token into a tagged identity and stores
// it in the request context.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			kind, id, err := identity.ParseSubject(claims.Subject)
			if err != nil {
				core.JSONError(w, core.TokenInvalidError())
				return
			}

			var ident identity.Identity
			switch kind {
			case identity.KindAdmin:
				ident = identity.Admin(id)
			case identity.KindInfluenceur:
				ident = identity.Influenceur(id, claims.Permissions)
			}

			ctx := context.WithValue(r.Context(), identityKey, ident)
			ctx = context.WithValue(ctx, jtiKey, claims.JTI)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission denies callers lacking the capability. Anonymous callers
// get 401, authenticated callers without the capability get 403.
func RequirePermission(p identity.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := GetIdentity(r.Context())
			if !ok {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			if !ident.Can(p) {
				core.JSONError(w, core.ForbiddenError(""))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := GetIdentity(r.Context())
		if !ok {
			core.JSONError(w, core.UnauthorizedError("authentication required"))
			return
		}

		if !ident.IsAdmin() {
			core.JSONError(w, core.ForbiddenError(""))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ExtractToken reads the Authorization header, accepting the standard
// "Bearer <token>" scheme and the legacy "Token <token>" scheme.
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}

	scheme := parts[0]
	if !strings.EqualFold(scheme, "bearer") && !strings.EqualFold(scheme, "token") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

// GetJTI returns the jti claim of the access token that authenticated the
// request, empty when the request is anonymous.
func GetJTI(ctx context.Context) string {
	if jti, ok := ctx.Value(jtiKey).(string); ok {
		return jti
	}
	return ""
}

func GetIdentity(ctx context.Context) (identity.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(identity.Identity)
	return ident, ok
}

// WithIdentity returns a context carrying the identity. Exposed for handler
// tests.
func WithIdentity(ctx context.Context, ident identity.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}
