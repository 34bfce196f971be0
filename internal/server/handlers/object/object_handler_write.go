package object

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/syncstash/syncstash/internal/server/handlers/api"
	"github.com/syncstash/syncstash/internal/server/store"
)

// Write answers PUT. An If-Match header makes the write conditional on the
// current revision; without it the write is a plain create-or-overwrite.
// If-Match against an absent object creates it.
func (h *ObjectHandler) Write(ctx *gin.Context) {
	key := objectKey(ctx)
	if key == "" {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidKey, errors.New("empty object key"))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(ctx.Writer, ctx.Request.Body, h.maxBodyBytes))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			api.AbortWithError(ctx, http.StatusRequestEntityTooLarge, api.CodePayloadTooLarge, err)
			return
		}
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, err)
		return
	}

	result, err := h.store.PutObject(ctx.Request.Context(), &store.PutObjectParams{
		Key:     key,
		Body:    body,
		IfMatch: store.NormalizeRevision(ctx.GetHeader("If-Match")),
	})
	if err != nil {
		abortStoreError(ctx, err)
		return
	}

	setRevisionHeaders(ctx, result.ETag, result.LastModified)
	ctx.PureJSON(http.StatusOK, &WriteResponse{
		Key:          result.Key,
		ETag:         result.ETag,
		Size:         result.Size,
		LastModified: result.LastModified.UTC().Format(time.RFC3339),
	})
}
