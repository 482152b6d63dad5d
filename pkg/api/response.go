package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Response is the JSON envelope of every API answer.
type Response struct {
	Code    string       `json:"code,omitempty"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Code: "ok", Data: data})
}

// respondError renders err. HTTPError values keep their status; a wrapped
// HTTPError keeps the outer message. Anything else is a 500 with a generic
// message.
func respondError(w http.ResponseWriter, err error) {
	var httpErr HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = ErrInternalServerError
		err = httpErr
	}

	msg := err.Error()
	if msg == httpErr.Key {
		msg = http.StatusText(httpErr.Code)
	}

	writeJSON(w, httpErr.Code, Response{
		Code:  httpErr.Key,
		Error: &ErrorDetail{Code: httpErr.Key, Message: msg},
	})
}
