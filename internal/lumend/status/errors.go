package status

import "net/http"

type HTTPError interface {
	error
	StatusCode() int
}

type httpError struct {
	msg  string
	code int
}

func (e *httpError) Error() string {
	return e.msg
}

func (e *httpError) StatusCode() int {
	return e.code
}

func ErrNotFound(msg string) error {
	return &httpError{msg: msg, code: http.StatusNotFound}
}

func ErrUnavailable(msg string) error {
	return &httpError{msg: msg, code: http.StatusServiceUnavailable}
}
