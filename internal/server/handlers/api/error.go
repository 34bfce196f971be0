package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// StashAPIError is the JSON error envelope. The body is diagnostic only;
// clients act on status codes.
type StashAPIError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *StashAPIError) Error() string {
	return fmt.Sprintf("stash api error: code=%s, message=%s", e.Code, e.Message)
}

// AbortWithError renders err as the JSON envelope and stops the handler
// chain. PureJSON keeps object keys readable in the payload instead of
// HTML-escaping them.
func AbortWithError(ctx *gin.Context, status int, code string, err error) {
	ctx.Error(err)
	ctx.PureJSON(status, StashAPIError{
		Code:    code,
		Message: err.Error(),
	})
	ctx.Abort()
}
