package httpapi

import "net/http"

// Error is a request failure carrying the HTTP status it should be reported
// with. Handlers raise it and the boundary translation stage in handle()
// writes the response; anything that is not an *Error (and not a store
// not-found) is reported as a generic 500 without leaking detail.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func badRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}