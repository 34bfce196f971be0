package object

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/syncstash/syncstash/internal/server/handlers/api"
)

// Read answers GET with the object body and revision headers.
func (h *ObjectHandler) Read(ctx *gin.Context) {
	key := objectKey(ctx)
	if key == "" {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidKey, errors.New("empty object key"))
		return
	}

	resp, err := h.store.GetObject(ctx.Request.Context(), key)
	if err != nil {
		abortStoreError(ctx, err)
		return
	}
	defer resp.Body.Close()

	setRevisionHeaders(ctx, resp.ETag, resp.LastModified)
	ctx.DataFromReader(http.StatusOK, resp.Size, "application/json", resp.Body, nil)
}
