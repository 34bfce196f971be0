package middlewares

import (
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

// HSTS is mounted only when the gateway terminates TLS itself. The
// object surface serves no HTML, so the browser-page protections are
// left out; what matters is that bearer tokens never transit plaintext
// and stored bodies are never content-sniffed.
func HSTS() gin.HandlerFunc {
	return secure.New(secure.Config{
		SSLRedirect:          true,
		STSSeconds:           63072000, // two years, the preload-list minimum
		STSIncludeSubdomains: true,
		STSPreload:           true,
		ContentTypeNosniff:   true,
		SSLProxyHeaders:      map[string]string{"X-Forwarded-Proto": "https"},
	})
}
