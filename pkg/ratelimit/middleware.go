package ratelimit

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/tendant/simple-accounts/pkg/response"
)

// Middleware throttles requests per client IP. It is meant for the
// credential endpoints (login, register, password reset), where unlimited
// retries would enable online guessing.
func Middleware(limiter *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiter.Allow(ip) {
				slog.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path, "method", r.Method)
				w.Header().Set("Retry-After", "60")
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Envelope{
					Status:    http.StatusText(http.StatusTooManyRequests),
					ProcessID: middleware.GetReqID(r.Context()),
					Errors: []response.ErrorDetail{
						{
							Description: "RATE_LIMITED",
							Message:     "too many requests, try again later",
							Location:    "server",
						},
					},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client address, preferring proxy headers over the
// socket address
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
