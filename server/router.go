package server

import (
	"html/template"
	"net/http"
	"time"

	"lustroom-portal/infrastructure/metrics"
	httpHandler "lustroom-portal/interfaces/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	templates *template.Template,
	allowOrigins []string,
	requireSession gin.HandlerFunc,
	authHandler httpHandler.IAuthHandler,
	portalHandler httpHandler.IPortalHandler,
	healthHandler httpHandler.IHealthHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.Instrument())
	if len(allowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     allowOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	router.SetHTMLTemplate(templates)

	router.GET("/", func(ctx *gin.Context) {
		ctx.Redirect(http.StatusFound, "/links")
	})
	router.GET("/login", authHandler.LoginPage)
	router.POST("/login", authHandler.Login)
	router.POST("/logout", authHandler.Logout)
	router.GET("/activate", authHandler.ActivatePage)
	router.POST("/activate", authHandler.Activate)

	portal := router.Group("/")
	portal.Use(requireSession)
	portal.GET("/links", portalHandler.Links)
	portal.GET("/platforms/:id/details", portalHandler.PlatformDetails)

	router.GET("/healthz", healthHandler.Healthz)
	router.GET("/readyz", healthHandler.Readyz)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return router
}
