package middlewares

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// Object bodies are opaque and frequently compressed already; gzip only
// pays off on text. Keys whose extension says the bytes will not shrink
// are passed through untouched.
var incompressible = []string{
	".gz", ".tgz", ".zip", ".bz2", ".xz", ".zst", ".7z", ".rar",
	".png", ".jpg", ".jpeg", ".webp", ".gif",
	".mp3", ".mp4", ".mkv", ".woff", ".woff2",
}

func GZIP() gin.HandlerFunc {
	return gzip.Gzip(gzip.BestSpeed, gzip.WithExcludedExtensions(incompressible))
}
