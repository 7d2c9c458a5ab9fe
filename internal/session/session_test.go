package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureSession(t *testing.T) (http.Handler, *Context) {
	t.Helper()
	var got Context
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))
	return h, &got
}

func TestMiddleware_IssuesCookie(t *testing.T) {
	h, got := captureSession(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/generate", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	_, err := uuid.Parse(c.Value)
	assert.NoError(t, err)
	assert.Equal(t, c.Value, got.ID)
}

func TestMiddleware_ReusesCookie(t *testing.T) {
	h, got := captureSession(t)
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodPost, "/api/result", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: id})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, id, got.ID)
}

func TestMiddleware_ReplacesForeignCookie(t *testing.T) {
	h, got := captureSession(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-uuid"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Len(t, rec.Result().Cookies(), 1)
	assert.NotEqual(t, "not-a-uuid", got.ID)
	assert.False(t, got.Anonymous())
}

func TestFromContext_Empty(t *testing.T) {
	assert.True(t, FromContext(context.Background()).Anonymous())
}

func TestNew_Unique(t *testing.T) {
	assert.NotEqual(t, New().ID, New().ID)
}
