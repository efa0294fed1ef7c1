package api

import (
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"officebook/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return s.requestID(s.rateLimit(next))
}

// requestID tags every request with an id for log correlation, keeping a
// client-supplied one when present.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		logger := s.logger.With().Str("request_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
	})
}

// rateLimit enforces the per-client fixed window, keyed by remote IP.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		client := clientIP(r)
		if !s.limiter.Allow(r.Context(), client) {
			metrics.IncRateLimited()
			s.writeJSON(w, http.StatusTooManyRequests,
				errorResponse{Error: "rate limit exceeded, try again later"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First hop is the original client.
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
