package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	allowedVerbs   = "OPTIONS, HEAD, GET, PUT, DELETE"
	allowedHeaders = "Authorization, Content-Type, If-Match, If-None-Match"
	exposedHeaders = "ETag, Last-Modified"
)

// Preflight answers every OPTIONS request with 200 and the verb/header
// advertisement, authenticated or not. It runs before auth and rate
// limiting so clients can always discover the surface. CORS libraries only
// act on Origin-bearing requests, hence the dedicated middleware.
func Preflight() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodOptions {
			ctx.Next()
			return
		}

		header := ctx.Writer.Header()
		header.Set("Allow", allowedVerbs)
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Methods", allowedVerbs)
		header.Set("Access-Control-Allow-Headers", allowedHeaders)
		header.Set("Access-Control-Expose-Headers", exposedHeaders)
		header.Set("Access-Control-Max-Age", "86400")
		ctx.AbortWithStatus(http.StatusOK)
	}
}

// CORS decorates non-OPTIONS responses so browser clients can read the
// revision headers.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"HEAD", "GET", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "If-Match", "If-None-Match"},
		ExposeHeaders: []string{"ETag", "Last-Modified"},
		MaxAge:        24 * time.Hour,
	})
}
