package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomcast-server/internal/auth"
	"github.com/vovakirdan/roomcast-server/internal/config"
	"github.com/vovakirdan/roomcast-server/internal/core"
	"github.com/vovakirdan/roomcast-server/internal/store"
)

// NewServer builds the HTTP server: REST auth endpoints, health probe, and
// the websocket entry point.
func NewServer(coordinator *core.Coordinator, authService *auth.Service, st store.Store, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(coordinator, authService, st, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewRouter assembles the gin engine. Split from NewServer so tests can
// drive the handler directly.
func NewRouter(coordinator *core.Coordinator, authService *auth.Service, st store.Store, logger *zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	apiHandlers := NewAPIHandlers(authService, logger)
	userHandlers := NewUserHandlers(authService, st, logger)

	api := router.Group("/api/auth")
	api.POST("/register", apiHandlers.Register)
	api.POST("/login", apiHandlers.Login)

	protected := api.Group("")
	protected.Use(AuthMiddleware(authService, logger))
	protected.GET("/profile", userHandlers.Profile)
	protected.PUT("/profile/nick", userHandlers.UpdateNick)
	protected.DELETE("/profile", userHandlers.DeleteAccount)

	router.GET("/ws", gin.WrapH(NewWSHandler(coordinator, logger)))

	return router
}
