package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/logger"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	SessionCookieName = "storefront_session"
	SessionHeader     = "X-Session-ID"
)

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	cartKey      contextKey = "cart"
)

// SessionStore hands out the cart that belongs to a session id.
type SessionStore interface {
	Acquire(id string) (string, *cart.Store)
}

// RequestIDMiddleware echoes the chi request id back to the client.
// It must run after middleware.RequestID.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestID := middleware.GetReqID(r.Context()); requestID != "" {
			w.Header().Set(middleware.RequestIDHeader, requestID)
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger writes one structured log line per request.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.FromContext(r.Context(), log).Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// MaxBodySize limits how much of a request body handlers may read.
func MaxBodySize(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionMiddleware resolves the shopper's cart from the session cookie or the
// X-Session-ID header. Unknown or expired sessions get a new id, which is sent
// back in both places.
func SessionMiddleware(sessions SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requested := r.Header.Get(SessionHeader)
			if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
				requested = c.Value
			}

			id, store := sessions.Acquire(requested)
			if id != requested {
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(SessionHeader, id)

			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), id, store)))
		})
	}
}

func getSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}

func getCart(ctx context.Context) *cart.Store {
	if c, ok := ctx.Value(cartKey).(*cart.Store); ok {
		return c
	}
	return nil
}

func withSession(ctx context.Context, id string, c *cart.Store) context.Context {
	ctx = context.WithValue(ctx, sessionIDKey, id)
	return context.WithValue(ctx, cartKey, c)
}
