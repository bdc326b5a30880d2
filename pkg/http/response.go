// Package http holds the response envelopes shared by every HTTP handler.
package http

import "github.com/labstack/echo/v4"

// Error is the body of a failed request. Details carries optional
// field-level context, such as which input failed validation.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error   Error  `json:"error"`
	TraceID string `json:"trace_id"`
}

type Response struct {
	Data any `json:"data,omitempty"`
}

// JSON writes a successful payload wrapped in the data envelope.
func JSON(c echo.Context, status int, data any) error {
	return c.JSON(status, Response{Data: data})
}

// ErrorJSON writes the error envelope with the request's trace id.
func ErrorJSON(c echo.Context, status int, code, message, traceID string, details any) error {
	return c.JSON(status, ErrorResponse{Error: Error{Code: code, Message: message, Details: details}, TraceID: traceID})
}
