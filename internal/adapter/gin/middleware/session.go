package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	sessionstore "user-console/internal/adapter/session"
	"user-console/internal/domain/session"
	"user-console/internal/domain/user"
	"user-console/pkg/logger"
)

// sessionContextKey is the gin context key holding *session.State.
const sessionContextKey = "console_session"

// SessionConfig holds the cookie and default presentation settings.
type SessionConfig struct {
	CookieName   string
	TTL          time.Duration
	Secure       bool
	DefaultMode  user.ViewMode
	DefaultTheme session.Theme
}

// Session loads the browser's session before the handler runs and saves it
// afterwards. A missing, expired or malformed cookie starts a new session.
func Session(store sessionstore.Store, cfg SessionConfig, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		st := loadSession(ctx, c, store, cfg, log)

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, st.ID, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)

		c.Request = c.Request.WithContext(context.WithValue(ctx, logger.SessionIDKey, st.ID))
		c.Set(sessionContextKey, st)

		c.Next()

		// saving must outlive a client that went away mid-request
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), 3*time.Second)
		defer cancel()
		if err := store.Save(saveCtx, st); err != nil {
			logger.WithContext(c.Request.Context(), log).Error("failed to save session", zap.Error(err))
		}
	}
}

func loadSession(ctx context.Context, c *gin.Context, store sessionstore.Store, cfg SessionConfig, log *zap.Logger) *session.State {
	if id, err := c.Cookie(cfg.CookieName); err == nil {
		if _, perr := uuid.Parse(id); perr == nil {
			st, gerr := store.Get(ctx, id)
			if gerr != nil {
				log.Warn("failed to load session, starting a new one", zap.String("session_id", id), zap.Error(gerr))
			}
			if st != nil {
				return st
			}
		}
	}

	st := session.New(uuid.NewString(), cfg.DefaultMode, cfg.DefaultTheme)
	log.Debug("new session", zap.String("session_id", st.ID))
	return st
}

// SessionState returns the session loaded by Session. It panics when the
// middleware is not installed on the route.
func SessionState(c *gin.Context) *session.State {
	return c.MustGet(sessionContextKey).(*session.State)
}
