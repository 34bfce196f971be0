package api

const (
	// Generic request/server errors
	CodeInvalidRequest   = "E_INVALID_REQUEST"    // bad or invalid request
	CodeRateLimited      = "E_RATE_LIMITED"       // rate limit exceeded
	CodeInternalError    = "E_INTERNAL_ERROR"     // internal server error
	CodeUnauthorized     = "E_UNAUTHORIZED"       // missing or invalid bearer token
	CodeMethodNotAllowed = "E_METHOD_NOT_ALLOWED" // verb outside the object surface

	// Object errors
	CodeObjectNotFound   = "E_OBJECT_NOT_FOUND"  // the addressed object does not exist
	CodeRevisionMismatch = "E_REVISION_MISMATCH" // If-Match precondition rejected
	CodeInvalidKey       = "E_INVALID_KEY"       // the decoded key is empty or malformed
	CodePayloadTooLarge  = "E_PAYLOAD_TOO_LARGE" // request body exceeds the configured cap
)
