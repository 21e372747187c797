package handler

import (
	"crypto/subtle"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Middleware wraps an http.Handler
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so the first one listed runs first
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// Recover turns a handler panic into a 500 response
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("Panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				writeError(w, "Internal server error", "", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// CORS allows any origin and answers preflight requests
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Token, X-Request-ID")
		h.Set("Access-Control-Expose-Headers", "X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE streaming working through the logger
func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Logger tags each request with an X-Request-ID and logs it on completion
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Printf("%s %s %d %s [%s]", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond), requestID)
	})
}

// TokenVerifier checks the shared API token. The expected value is either
// a plaintext token or a bcrypt hash of it.
type TokenVerifier struct {
	token []byte
	hash  []byte
}

// NewTokenVerifier creates a verifier; with both arguments empty every
// request is allowed. A hash takes precedence over a plaintext token.
func NewTokenVerifier(token, tokenHash string) *TokenVerifier {
	v := &TokenVerifier{}
	if tokenHash != "" {
		v.hash = []byte(tokenHash)
	} else if token != "" {
		v.token = []byte(token)
	}
	return v
}

// Enabled reports whether a token is required
func (v *TokenVerifier) Enabled() bool {
	return v != nil && (len(v.hash) > 0 || len(v.token) > 0)
}

// Verify compares candidate with the configured token
func (v *TokenVerifier) Verify(candidate string) bool {
	if !v.Enabled() {
		return true
	}
	if candidate == "" {
		return false
	}
	if len(v.hash) > 0 {
		return bcrypt.CompareHashAndPassword(v.hash, []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare(v.token, []byte(candidate)) == 1
}

// requestToken reads the token from X-API-Token, a bearer Authorization
// header, or the token query parameter (EventSource cannot set headers).
func requestToken(r *http.Request) string {
	if t := r.Header.Get("X-API-Token"); t != "" {
		return t
	}
	if auth := r.Header.Get("Authorization"); auth != "" {
		if scheme, token, ok := strings.Cut(auth, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("token")
}

// Auth rejects requests without a valid token before they reach routing.
// Preflight requests pass through.
func Auth(v *TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		if !v.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodOptions && !v.Verify(requestToken(r)) {
				writeError(w, "unauthorized", "", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
