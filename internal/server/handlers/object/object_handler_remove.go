package object

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/syncstash/syncstash/internal/server/handlers/api"
)

// Remove answers DELETE: 204 on success, 404 when the object is absent.
func (h *ObjectHandler) Remove(ctx *gin.Context) {
	key := objectKey(ctx)
	if key == "" {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidKey, errors.New("empty object key"))
		return
	}

	if err := h.store.DeleteObject(ctx.Request.Context(), key); err != nil {
		abortStoreError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
