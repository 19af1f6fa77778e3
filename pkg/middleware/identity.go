package middleware

import (
	"net/http"
	"strings"

	"cinema-showtime/pkg/utils"

	"go.uber.org/zap"
)

// Identity lifts the caller-supplied requester identity into the request
// context. Authentication itself happens upstream (gateway / auth service);
// this service only needs to know who the requester is for reservation
// ownership checks.
func Identity(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := strings.TrimSpace(r.Header.Get("X-Requester-Email"))
			if email == "" {
				logger.Warn("Request without requester identity",
					zap.String("path", r.URL.Path),
					zap.String("method", r.Method),
				)
				utils.ResponseUnauthorized(w, "Missing X-Requester-Email header")
				return
			}

			ctx := utils.SetRequesterContext(r.Context(), email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
