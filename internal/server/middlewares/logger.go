package middlewares

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	slogGin "github.com/samber/slog-gin"
)

// Logger emits one line per request through the process-wide slog
// handler, grouped under "http". Clients stamp their build into the
// User-Agent, so keeping it ties every request to a client version.
func Logger() gin.HandlerFunc {
	return slogGin.NewWithConfig(slog.Default().WithGroup("http"), slogGin.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
		WithUserAgent:    true,
	})
}
