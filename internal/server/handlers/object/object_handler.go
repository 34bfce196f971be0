package object

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/syncstash/syncstash/internal/server/handlers/api"
	"github.com/syncstash/syncstash/internal/server/store"
)

// ObjectHandler serves the whole object surface: HEAD, GET, PUT and DELETE
// on /<key>. OPTIONS is answered upstream by the preflight middleware and
// unknown verbs get 405 from the router.
type ObjectHandler struct {
	store        store.Backend
	maxBodyBytes int64
}

func New(backend store.Backend, maxBodyBytes int64) *ObjectHandler {
	return &ObjectHandler{
		store:        backend,
		maxBodyBytes: maxBodyBytes,
	}
}

// objectKey extracts the logical key from the wildcard route param. The
// param always carries the single leading slash of the match, nothing else.
func objectKey(ctx *gin.Context) string {
	return strings.TrimPrefix(ctx.Param("key"), "/")
}

// abortStoreError maps store sentinel errors onto wire statuses.
func abortStoreError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrKeyNotFound):
		api.AbortWithError(ctx, http.StatusNotFound, api.CodeObjectNotFound, err)
	case errors.Is(err, store.ErrPreconditionFailed):
		api.AbortWithError(ctx, http.StatusPreconditionFailed, api.CodeRevisionMismatch, err)
	case errors.Is(err, store.ErrInvalidKey):
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidKey, err)
	default:
		api.AbortWithError(ctx, http.StatusInternalServerError, api.CodeInternalError, err)
	}
}

func setRevisionHeaders(ctx *gin.Context, etag string, lastModified time.Time) {
	ctx.Header("ETag", `"`+etag+`"`)
	ctx.Header("Last-Modified", lastModified.UTC().Format(http.TimeFormat))
}
