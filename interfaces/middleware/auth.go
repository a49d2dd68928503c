package middleware

import (
	"errors"
	"net/http"
	"time"

	"lustroom-portal/infrastructure/logger"
	"lustroom-portal/infrastructure/utils"
	"lustroom-portal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const (
	LoginPath = "/login"

	sessionKey = "session"
)

// SessionCookie describes the signed cookie that carries the session id.
type SessionCookie struct {
	Name   string
	Secret string
	Secure bool
	TTL    time.Duration
}

// Issue signs sessionID and sets it on the response.
func (s SessionCookie) Issue(ctx *gin.Context, sessionID string) error {
	token, err := utils.GenerateSessionToken(sessionID, s.Secret, s.TTL)
	if err != nil {
		return err
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(s.Name, token, int(s.TTL/time.Second), "/", "", s.Secure, true)
	return nil
}

// Clear expires the cookie in the browser.
func (s SessionCookie) Clear(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(s.Name, "", -1, "/", "", s.Secure, true)
}

// SessionID returns the id carried by the request's cookie, or "" when there is
// no cookie or its signature does not verify.
func (s SessionCookie) SessionID(ctx *gin.Context) string {
	raw, err := ctx.Cookie(s.Name)
	if err != nil || raw == "" {
		return ""
	}
	sid, err := utils.ParseSessionToken(raw, s.Secret)
	if err != nil {
		logger.GetLogger().WithField("reason", describeTokenError(err)).Debug("Ignoring session cookie")
		return ""
	}
	return sid
}

// Auth guards portal pages: it loads the visitor's session and redirects to the
// login page, before any data is fetched, when the stored credential is missing
// or about to expire.
func Auth(auth usecase.IAuthUsecase, cookie SessionCookie, now func() time.Time) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(ctx *gin.Context) {
		sid := cookie.SessionID(ctx)
		if sid == "" {
			RedirectToLogin(ctx)
			return
		}
		state, err := auth.LoadSession(ctx.Request.Context(), sid)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Failed to load session")
			RedirectToLogin(ctx)
			return
		}
		if !state.IsValid(now()) {
			_ = auth.Logout(ctx.Request.Context(), sid)
			cookie.Clear(ctx)
			RedirectToLogin(ctx)
			return
		}
		ctx.Set(sessionKey, state)
		ctx.Next()
	}
}

// Session returns the state stored by Auth.
func Session(ctx *gin.Context) (*usecase.SessionState, bool) {
	v, ok := ctx.Get(sessionKey)
	if !ok {
		return nil, false
	}
	state, ok := v.(*usecase.SessionState)
	return state, ok
}

func RedirectToLogin(ctx *gin.Context) {
	ctx.Redirect(http.StatusSeeOther, LoginPath)
	ctx.Abort()
}

func describeTokenError(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		switch {
		case ve.Errors&jwt.ValidationErrorMalformed != 0:
			return "malformed"
		case ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0:
			return "expired"
		case ve.Errors&jwt.ValidationErrorSignatureInvalid != 0:
			return "bad signature"
		}
	}
	return err.Error()
}
