package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"

	"github.com/syncstash/syncstash/internal/server/handlers/api"
)

var rateLimitStore = memory.NewStore()

// RateLimiter enforces a per-client budget in limiter's formatted
// notation ("10-S", "100-M"). Requests carrying a bearer token are
// keyed by it, so machines behind one NAT get separate budgets;
// anonymous traffic shares the client IP.
func RateLimiter(formattedRate string) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(formattedRate)
	if err != nil {
		panic(err)
	}

	return mgin.NewMiddleware(
		limiter.New(rateLimitStore, rate),
		mgin.WithKeyGetter(rateKey),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			api.AbortWithError(c, http.StatusTooManyRequests, api.CodeRateLimited, errors.New("rate limit exceeded"))
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			api.AbortWithError(c, http.StatusInternalServerError, api.CodeInternalError, err)
		}),
	)
}

func rateKey(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return auth
	}
	return c.ClientIP()
}
