package http

import (
	"net/http"
	"strings"

	"lustroom-portal/domain/dto"
	"lustroom-portal/infrastructure/logger"
	"lustroom-portal/interfaces/middleware"
	"lustroom-portal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	ErrorUnmarshal = "Error while unmarshal"
)

type IAuthHandler interface {
	LoginPage(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	ActivatePage(c *gin.Context)
	Activate(c *gin.Context)
}

type AuthHandler struct {
	authUsecase usecase.IAuthUsecase
	cookie      middleware.SessionCookie
}

func NewAuthHandler(authUsecase usecase.IAuthUsecase, cookie middleware.SessionCookie) IAuthHandler {
	return &AuthHandler{authUsecase: authUsecase, cookie: cookie}
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// activationFields are echoed back into the form after a failed attempt.
var activationFields = []string{"email", "activation_key"}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title": "Login",
		"Email": "",
		"Error": "",
		"Flash": strings.TrimSpace(c.Query("flash")),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		h.renderLogin(c, http.StatusBadRequest, "", usecase.MsgMissingCredentials)
		return
	}

	// A new login always starts from a clean session.
	if old := h.cookie.SessionID(c); old != "" {
		_ = h.authUsecase.Logout(c.Request.Context(), old)
	}

	sid, err := h.authUsecase.Login(c.Request.Context(), dto.ReqLogin{Email: form.Email, Password: form.Password})
	if err != nil {
		status := http.StatusUnauthorized
		if strings.TrimSpace(form.Email) == "" || strings.TrimSpace(form.Password) == "" {
			status = http.StatusBadRequest
		}
		h.renderLogin(c, status, form.Email, usecase.UserMessage(err, usecase.MsgLoginUnreachable))
		return
	}
	if err := h.cookie.Issue(c, sid); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to issue session cookie")
		_ = h.authUsecase.Logout(c.Request.Context(), sid)
		h.renderLogin(c, http.StatusInternalServerError, form.Email, usecase.MsgLoginUnreachable)
		return
	}
	c.Redirect(http.StatusSeeOther, usecase.LinksPath)
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, email, message string) {
	c.HTML(status, "login.html", gin.H{
		"Title": "Login",
		"Email": email,
		"Error": message,
		"Flash": "",
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if sid := h.cookie.SessionID(c); sid != "" {
		_ = h.authUsecase.Logout(c.Request.Context(), sid)
	}
	h.cookie.Clear(c)
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func (h *AuthHandler) ActivatePage(c *gin.Context) {
	c.HTML(http.StatusOK, "activate.html", gin.H{
		"Title":   "Activate",
		"Form":    map[string]string{},
		"Success": "",
		"Error":   "",
	})
}

func (h *AuthHandler) Activate(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.HTML(http.StatusBadRequest, "activate.html", gin.H{
			"Title": "Activate", "Form": map[string]string{}, "Success": "", "Error": usecase.MsgServerUnreachable,
		})
		return
	}
	form := make(map[string]string, len(c.Request.PostForm))
	for key := range c.Request.PostForm {
		form[key] = strings.TrimSpace(c.Request.PostForm.Get(key))
	}

	msg, err := h.authUsecase.Activate(c.Request.Context(), form)
	if err != nil {
		echo := make(map[string]string, len(activationFields))
		for _, f := range activationFields {
			echo[f] = form[f]
		}
		c.HTML(http.StatusBadRequest, "activate.html", gin.H{
			"Title":   "Activate",
			"Form":    echo,
			"Success": "",
			"Error":   usecase.UserMessage(err, usecase.MsgServerUnreachable),
		})
		return
	}
	c.HTML(http.StatusOK, "activate.html", gin.H{
		"Title":   "Activate",
		"Form":    map[string]string{},
		"Success": msg,
		"Error":   "",
	})
}
