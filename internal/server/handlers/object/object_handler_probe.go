package object

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/syncstash/syncstash/internal/server/handlers/api"
)

// Probe answers HEAD with the object's revision headers and no body.
func (h *ObjectHandler) Probe(ctx *gin.Context) {
	key := objectKey(ctx)
	if key == "" {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidKey, errors.New("empty object key"))
		return
	}

	info, err := h.store.HeadObject(ctx.Request.Context(), key)
	if err != nil {
		abortStoreError(ctx, err)
		return
	}

	setRevisionHeaders(ctx, info.ETag, info.LastModified)
	ctx.Header("Content-Type", "application/json")
	ctx.Header("Content-Length", strconv.FormatInt(info.Size, 10))
	ctx.Status(http.StatusOK)
}
