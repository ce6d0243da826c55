// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
)

const PrincipalKey contextKey = "principal"

// TokenVerifier resolves an opaque auth token to the caller behind it.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, key string) (access.Principal, error)
}

func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(w, core.UnauthorizedError(""))
				return
			}

			principal, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			core.AnnotateSpan(r.Context(),
				core.AttrUserID.Int64(principal.UserID),
				core.AttrUserRole.String(string(principal.Role)),
			)
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// ExtractToken accepts both "Token <key>" and "Bearer <key>".
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
	if !strings.EqualFold(scheme, "token") && !strings.EqualFold(scheme, "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}
	core.JSONError(w, core.TokenInvalidError())
}

func WithPrincipal(ctx context.Context, p access.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

func GetPrincipal(ctx context.Context) (access.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(access.Principal)
	if !ok || p.Anonymous() {
		return access.Principal{}, false
	}
	return p, true
}

func GetUserID(ctx context.Context) int64 {
	p, _ := GetPrincipal(ctx)
	return p.UserID
}
