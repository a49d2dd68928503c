package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lustroom-portal/domain/repository"
	"lustroom-portal/infrastructure/cache"
	"lustroom-portal/infrastructure/clients/lustroom"
	"lustroom-portal/infrastructure/configuration"
	"lustroom-portal/infrastructure/logger"
	httpHandler "lustroom-portal/interfaces/http"
	"lustroom-portal/interfaces/middleware"
	"lustroom-portal/server"
	"lustroom-portal/usecase"

	"golang.org/x/sync/errgroup"
)

const (
	cacheSweepInterval = 5 * time.Minute
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// OS env keeps precedence over the files.
	envFiles := configuration.LoadEnvFromFile("config.env", ".env")
	configuration.ApplyDefaults(&configuration.C)
	for _, f := range envFiles {
		logger.GetLogger().WithFields(map[string]interface{}{
			"file":     f.Path,
			"applied":  len(f.Applied),
			"shadowed": f.Shadowed,
		}).Info("Loaded env file")
	}
	if len(envFiles) == 0 {
		logger.GetLogger().Debug("No env file found; using process environment only")
	}

	app := configuration.C.App
	sessionTTL := time.Duration(configuration.C.Session.TTLHours) * time.Hour

	store := initiateSessionStore(ctx)

	backend, err := lustroom.NewLustroomClient(
		configuration.C.Backend.BaseURL,
		lustroom.WithTimeout(time.Duration(configuration.C.Backend.TimeoutSeconds)*time.Second),
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Cannot create backend client")
	}
	logger.GetLogger().WithField("backend", configuration.C.Backend.BaseURL).Info("Backend client initialized")

	registry := usecase.NewCacheRegistry(backend, nil)
	authUsecase := usecase.NewAuthUsecase(backend, store, registry, sessionTTL, nil)
	portalUsecase := usecase.NewPortalUsecase(nil)

	cookie := middleware.SessionCookie{
		Name:   configuration.C.Session.CookieName,
		Secret: app.SecretKey,
		Secure: configuration.C.Session.CookieSecure,
		TTL:    sessionTTL,
	}

	templates, err := httpHandler.LoadTemplates()
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Cannot parse templates")
	}

	router := server.InitiateRouter(
		templates,
		configuration.C.Cors.AllowOrigins,
		middleware.Auth(authUsecase, cookie, nil),
		httpHandler.NewAuthHandler(authUsecase, cookie),
		httpHandler.NewPortalHandler(portalUsecase, authUsecase, cookie),
		httpHandler.NewHealthHandler(store),
	)

	// Per-session data caches live in memory; drop the ones nobody has used for a session lifetime.
	g.Go(func() error {
		ticker := time.NewTicker(cacheSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := registry.Sweep(sessionTTL); n > 0 {
					logger.GetLogger().WithField("dropped", n).WithField("remaining", registry.Len()).Debug("Swept idle session caches")
				}
			}
		}
	})

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			} else {
				logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
		} else {
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().WithField("error", err).Warn("HTTP server shutdown incomplete")
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
	logger.GetLogger().Info("Application stopped")
}

// initiateSessionStore prefers Redis and falls back to process memory when Redis
// is not configured or not reachable.
func initiateSessionStore(ctx context.Context) repository.ISessionStore {
	rc := configuration.C.RedisClient
	addr := rc.RedisAddr()
	if addr == "" {
		logger.GetLogger().Info("Redis not configured - keeping sessions in memory")
		return cache.NewMemorySessionStore()
	}
	redisClient, err := cache.NewCache(ctx, addr, rc.Username, rc.Password, rc.Database)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - keeping sessions in memory")
		return cache.NewMemorySessionStore()
	}
	logger.GetLogger().WithField("addr", addr).Info("Redis client initialized successfully.")
	return cache.NewRedisSessionStore(redisClient)
}
