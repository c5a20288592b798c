package exception

import "net/http"

// The factories below capture the stack at their caller, so each one calls
// build directly instead of going through New.

// BadRequest creates a 400 error.
func BadRequest(message string, opts ...Option) *HTTPError {
	return build(http.StatusBadRequest, message, opts)
}

// Unauthorized creates a 401 error.
func Unauthorized(message string, opts ...Option) *HTTPError {
	return build(http.StatusUnauthorized, message, opts)
}

// Forbidden creates a 403 error.
func Forbidden(message string, opts ...Option) *HTTPError {
	return build(http.StatusForbidden, message, opts)
}

// NotFound creates a 404 error.
func NotFound(message string, opts ...Option) *HTTPError {
	return build(http.StatusNotFound, message, opts)
}

// MethodNotAllowed creates a 405 error.
func MethodNotAllowed(message string, opts ...Option) *HTTPError {
	return build(http.StatusMethodNotAllowed, message, opts)
}

// NotAcceptable creates a 406 error.
func NotAcceptable(message string, opts ...Option) *HTTPError {
	return build(http.StatusNotAcceptable, message, opts)
}

// Conflict creates a 409 error.
func Conflict(message string, opts ...Option) *HTTPError {
	return build(http.StatusConflict, message, opts)
}

// Gone creates a 410 error.
func Gone(message string, opts ...Option) *HTTPError {
	return build(http.StatusGone, message, opts)
}

// UnsupportedMediaType creates a 415 error.
func UnsupportedMediaType(message string, opts ...Option) *HTTPError {
	return build(http.StatusUnsupportedMediaType, message, opts)
}

// UnprocessableEntity creates a 422 error.
func UnprocessableEntity(message string, opts ...Option) *HTTPError {
	return build(http.StatusUnprocessableEntity, message, opts)
}

// TooManyRequests creates a 429 error.
func TooManyRequests(message string, opts ...Option) *HTTPError {
	return build(http.StatusTooManyRequests, message, opts)
}

// InternalServerError creates a 500 error.
func InternalServerError(message string, opts ...Option) *HTTPError {
	return build(http.StatusInternalServerError, message, opts)
}

// NotImplemented creates a 501 error.
func NotImplemented(message string, opts ...Option) *HTTPError {
	return build(http.StatusNotImplemented, message, opts)
}

// BadGateway creates a 502 error.
func BadGateway(message string, opts ...Option) *HTTPError {
	return build(http.StatusBadGateway, message, opts)
}

// ServiceUnavailable creates a 503 error.
func ServiceUnavailable(message string, opts ...Option) *HTTPError {
	return build(http.StatusServiceUnavailable, message, opts)
}

// GatewayTimeout creates a 504 error.
func GatewayTimeout(message string, opts ...Option) *HTTPError {
	return build(http.StatusGatewayTimeout, message, opts)
}
