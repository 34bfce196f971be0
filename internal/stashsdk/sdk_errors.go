package stashsdk

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/imroc/req/v3"
)

var (
	// configuration
	ErrNotConfigured = errors.New("sdk: server url or token missing")

	// object outcomes
	ErrNotFound         = errors.New("sdk: object not found")
	ErrConflict         = errors.New("sdk: revision mismatch")
	ErrMissingRevision  = errors.New("sdk: response carries no revision")
	ErrMalformedPayload = errors.New("sdk: payload is not valid text")
)

// TransportError is any non-success gateway response that falls outside the
// typed outcomes above. Callers branch on StatusCode; Message is diagnostic.
type TransportError struct {
	StatusCode int
	Message    string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: status=%d message=%q", e.StatusCode, e.Message)
}

// apiError mirrors the gateway's JSON error envelope. Outcomes are decided
// by status code alone; the envelope only improves error messages.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

// statusOutcome maps a gateway status code onto the error taxonomy.
func statusOutcome(status int, message string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusPreconditionFailed:
		return ErrConflict
	default:
		return &TransportError{StatusCode: status, Message: message}
	}
}

// errorMessage pulls the most useful diagnostic out of an error response:
// the envelope's message when one parses, otherwise the raw body, otherwise
// the status text.
func errorMessage(resp *req.Response) string {
	body := resp.Bytes()
	if len(body) > 0 {
		var apiErr apiError
		if err := jsonUnmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			return apiErr.Message
		}
		return strings.TrimSpace(string(body))
	}
	return http.StatusText(resp.GetStatusCode())
}

// apiOutcome is a helper that folds a transport-level error or a non-2xx
// response into the taxonomy, tagged with the operation that failed.
func apiOutcome(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("sdk: %s: %w", operation, requestErr)
	}
	if err := statusOutcome(resp.GetStatusCode(), errorMessage(resp)); err != nil {
		return fmt.Errorf("sdk: %s: %w", operation, err)
	}
	return nil
}
