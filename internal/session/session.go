// Package session identifies the browser behind a request. The identity is
// an opaque id carried in the sid cookie; it keys conversation memory and
// quiz state.
package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// CookieName is the cookie holding the session id.
const CookieName = "sid"

// Context is the explicit identity passed to every orchestrator call.
// ID doubles as the user id and the LLM conversation id.
type Context struct {
	ID string
}

// New returns a Context with a fresh random id.
func New() Context {
	return Context{ID: uuid.NewString()}
}

// Anonymous reports whether the context carries no id.
func (c Context) Anonymous() bool { return c.ID == "" }

type ctxKey struct{}

// WithContext stores sess in ctx.
func WithContext(ctx context.Context, sess Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext returns the session stored in ctx, or the zero Context.
func FromContext(ctx context.Context) Context {
	sess, _ := ctx.Value(ctxKey{}).(Context)
	return sess
}

// Middleware resolves the session from the sid cookie, issuing a new one
// when the request has none, and stores it in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := fromCookie(r)
		if !ok {
			sess = New()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), sess)))
	})
}

func fromCookie(r *http.Request) (Context, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return Context{}, false
	}
	// Only ids we could have issued are accepted.
	if _, err := uuid.Parse(c.Value); err != nil {
		return Context{}, false
	}
	return Context{ID: c.Value}, true
}
