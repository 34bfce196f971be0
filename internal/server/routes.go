package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/syncstash/syncstash/internal/server/handlers/api"
	"github.com/syncstash/syncstash/internal/server/handlers/object"
	"github.com/syncstash/syncstash/internal/server/middlewares"
)

func SetupRoutes(svc *Services, config *Config) http.Handler {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	rateLimit := config.HTTP.RateLimit
	if rateLimit == "" {
		rateLimit = DefaultRateLimit
	}

	r.Use(middlewares.Logger())
	r.Use(gin.Recovery())
	r.Use(middlewares.Preflight())
	r.Use(middlewares.CORS())
	r.Use(middlewares.RateLimiter(rateLimit))
	r.Use(middlewares.GZIP())
	if config.HTTP.TLSEnabled() {
		r.Use(middlewares.HSTS())
	}

	objectH := object.New(svc.Store, config.HTTP.MaxObjectBytes)

	// The object surface is the entire routing table. Any static route
	// (a /healthz, say) would shadow part of the key space, so there is
	// none; OPTIONS never reaches the router, Preflight answers it first.
	objects := r.Group("/", middlewares.BearerAuth(svc.Auth))
	{
		objects.HEAD("/*key", objectH.Probe)
		objects.GET("/*key", objectH.Read)
		objects.PUT("/*key", objectH.Write)
		objects.DELETE("/*key", objectH.Remove)
	}

	r.NoMethod(func(ctx *gin.Context) {
		api.AbortWithError(ctx, http.StatusMethodNotAllowed, api.CodeMethodNotAllowed, errors.New("method not allowed"))
	})

	return r.Handler()
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}
