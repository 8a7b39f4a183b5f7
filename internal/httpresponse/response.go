package httpresponse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	errs "hale/internal/errors"
)

type Response[T any] struct {
	Status int `json:"Status"`
	Body   T   `json:"Body,omitempty"`
}

type ErrorResponse struct {
	ErrorDescription string `json:"ErrorDescription"`
}

const INTERNALERRORJSON = "{\"Status\": 500,\"Body\":{\"ErrorDescription\": \"Internal server error\"}}"

func WriteResponseWithStatus(w http.ResponseWriter, status int, body any) {
	jsonByte, err := marshalStatusJson(status, body)
	if err != nil {
		WriteInternalErrorResponse(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(jsonByte)
}

// WriteError maps err onto a status code and writes it as an ErrorResponse.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	description := err.Error()
	if status == http.StatusInternalServerError {
		description = errs.ErrInternal.Error()
	}
	WriteResponseWithStatus(w, status, ErrorResponse{ErrorDescription: description})
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrStructural):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrEmptyLogDir), errors.Is(err, errs.ErrPathOutsideLogDir):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrHistoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrAlreadyImported):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func marshalStatusJson(status int, body any) ([]byte, error) {
	response := Response[any]{
		Status: status,
		Body:   body,
	}
	marshal, err := json.Marshal(response)
	if err != nil {
		return nil, err
	}
	return marshal, nil
}

func WriteInternalErrorResponse(w http.ResponseWriter) {
	// like http.Error, but with a JSON content type
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = fmt.Fprintln(w, INTERNALERRORJSON)
}
