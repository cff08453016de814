package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chatleadhq/chatlead-platform/internal/tenancy"
)

type contextKey string

const apiClaimsKey contextKey = "apiClaims"

// APIClaims are the claims carried by ChatLead API tokens. OrgID scopes
// every downstream query to the caller's organization.
type APIClaims struct {
	jwt.RegisteredClaims
	OrgID string `json:"org_id"`
	Role  string `json:"role,omitempty"`
}

// OrgJWT enforces an HMAC-signed JWT on API endpoints and places the
// token's org_id into the request context.
func OrgJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "api auth disabled", http.StatusUnauthorized)
				return
			}
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(auth, "Bearer ")
			claims := &APIClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			if claims.OrgID == "" {
				http.Error(w, "token missing org_id claim", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), apiClaimsKey, *claims)
			ctx = tenancy.WithOrgID(ctx, claims.OrgID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// APIClaimsFromContext returns API JWT claims if present.
func APIClaimsFromContext(ctx context.Context) (APIClaims, bool) {
	claims, ok := ctx.Value(apiClaimsKey).(APIClaims)
	return claims, ok
}
