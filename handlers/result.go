package handlers

import (
	"errors"
	"net/http"
)

type Handler func(http.ResponseWriter, *http.Request) Result

type Result struct {
	Error error
	Code  int
	Body  any
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func BadRequest(message string) Result {
	return Result{
		Code: http.StatusBadRequest,
		Body: ErrorResponse{message},
	}
}

func InternalError(err error, message string) Result {
	return Result{
		Error: errors.Join(errors.New(message), err),
		Code:  http.StatusInternalServerError,
		Body:  ErrorResponse{"Internal error."},
	}
}

func NotFound(message string) Result {
	return Result{
		Code: http.StatusNotFound,
		Body: ErrorResponse{message},
	}
}

func Ok(body any) Result {
	return Result{
		Code: http.StatusOK,
		Body: body,
	}
}

func Created(body any) Result {
	return Result{
		Code: http.StatusCreated,
		Body: body,
	}
}

func Unauthorized(message string) Result {
	return Result{
		Code: http.StatusUnauthorized,
		Body: ErrorResponse{message},
	}
}
