package auth

import (
	"net/http"
	"strings"

	"github.com/mind-engage/mindengage-rewards/internal/wallet"
)

// JWTMiddleware admits requests carrying a valid wallet session token and
// records the caller address on the request context.
func JWTMiddleware(v *wallet.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			c, err := v.Verify(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				http.Error(w, "bad token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), c.Address)))
		})
	}
}
