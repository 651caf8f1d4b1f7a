package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	sessionstore "user-console/internal/adapter/session"
	"user-console/internal/domain/session"
	"user-console/internal/domain/user"
	"user-console/pkg/logger"
)

const testCookie = "console_session"

func setupSessionRouter(t *testing.T, store sessionstore.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(store, SessionConfig{
		CookieName:   testCookie,
		TTL:          30 * time.Minute,
		DefaultMode:  user.ModeCards,
		DefaultTheme: session.ThemeDark,
	}, zaptest.NewLogger(t)))

	r.GET("/whoami", func(c *gin.Context) {
		st := SessionState(c)
		assert.Equal(t, st.ID, logger.GetSessionID(c.Request.Context()))
		c.String(http.StatusOK, st.ID)
	})
	r.GET("/search", func(c *gin.Context) {
		SessionState(c).View.SetSearch(c.Query("q"))
		c.Status(http.StatusNoContent)
	})
	return r
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	return nil
}

func TestSession_NewSession(t *testing.T) {
	store := sessionstore.NewMemoryStore(time.Minute)
	r := setupSessionRouter(t, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, w.Body.String(), cookie.Value)
	_, err := uuid.Parse(cookie.Value)
	assert.NoError(t, err)

	st, err := store.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, user.ModeCards, st.View.Mode)
	assert.Equal(t, session.ThemeDark, st.Theme)
}

func TestSession_PersistsAcrossRequests(t *testing.T) {
	store := sessionstore.NewMemoryStore(time.Minute)
	r := setupSessionRouter(t, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search?q=leanne", nil))
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, cookie.Value, w.Body.String())
	st, _ := store.Get(context.Background(), cookie.Value)
	require.NotNil(t, st)
	assert.Equal(t, "leanne", st.View.Search)
}

func TestSession_MalformedCookieStartsFresh(t *testing.T) {
	store := sessionstore.NewMemoryStore(time.Minute)
	r := setupSessionRouter(t, store)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "../../etc/passwd"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEqual(t, "../../etc/passwd", w.Body.String())
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
}

func TestSession_UnknownIDStartsFresh(t *testing.T) {
	store := sessionstore.NewMemoryStore(time.Minute)
	r := setupSessionRouter(t, store)
	stale := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: stale})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEqual(t, stale, w.Body.String())
}
