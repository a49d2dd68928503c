package http

import (
	"errors"
	"net/http"

	"lustroom-portal/domain/repository"
	"lustroom-portal/infrastructure/logger"
	"lustroom-portal/interfaces/middleware"
	"lustroom-portal/usecase"

	"github.com/gin-gonic/gin"
)

const msgLoadFailed = "Could not load data. Please try again later."

type IPortalHandler interface {
	Links(c *gin.Context)
	PlatformDetails(c *gin.Context)
}

type PortalHandler struct {
	portalUsecase usecase.IPortalUsecase
	authUsecase   usecase.IAuthUsecase
	cookie        middleware.SessionCookie
}

func NewPortalHandler(portalUsecase usecase.IPortalUsecase, authUsecase usecase.IAuthUsecase, cookie middleware.SessionCookie) IPortalHandler {
	return &PortalHandler{portalUsecase: portalUsecase, authUsecase: authUsecase, cookie: cookie}
}

// Links renders whichever view the query string selects.
func (h *PortalHandler) Links(c *gin.Context) {
	state, ok := middleware.Session(c)
	if !ok {
		middleware.RedirectToLogin(c)
		return
	}

	res, err := h.portalUsecase.Route(c.Request.Context(), state, c.Request.URL.Query())
	if err != nil {
		if h.rejected(c, state, err) {
			return
		}
		c.HTML(http.StatusBadGateway, "links.html", gin.H{
			"Title":  "Links",
			"Email":  state.UserEmail(),
			"Error":  usecase.UserMessage(err, msgLoadFailed),
			"Result": nil,
		})
		return
	}

	c.HTML(http.StatusOK, "links.html", gin.H{
		"Title":  "Links",
		"Email":  state.UserEmail(),
		"Error":  "",
		"Result": res,
	})
}

func (h *PortalHandler) PlatformDetails(c *gin.Context) {
	state, ok := middleware.Session(c)
	if !ok {
		middleware.RedirectToLogin(c)
		return
	}

	details, err := h.portalUsecase.PlatformDetails(c.Request.Context(), state, c.Param("id"))
	if err != nil {
		if h.rejected(c, state, err) {
			return
		}
		status := http.StatusBadGateway
		var apiErr *repository.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			status = http.StatusNotFound
		}
		c.HTML(status, "platform_details.html", gin.H{
			"Title":   "Platform",
			"Email":   state.UserEmail(),
			"Error":   usecase.UserMessage(err, msgLoadFailed),
			"Details": nil,
		})
		return
	}

	c.HTML(http.StatusOK, "platform_details.html", gin.H{
		"Title":   details.Platform.Name,
		"Email":   state.UserEmail(),
		"Error":   "",
		"Details": details,
	})
}

// rejected handles a backend refusal of the credential: the session is cleared
// and the visitor is sent back to the login page.
func (h *PortalHandler) rejected(c *gin.Context, state *usecase.SessionState, err error) bool {
	if !repository.IsUnauthorized(err) {
		return false
	}
	logger.GetLogger().WithField("error", err).Info("Credential rejected by backend, logging out")
	_ = h.authUsecase.Logout(c.Request.Context(), state.ID)
	h.cookie.Clear(c)
	middleware.RedirectToLogin(c)
	return true
}
