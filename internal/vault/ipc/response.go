// Package ipc defines the message shapes exchanged with the UI process: the
// uniform response envelope and the parameter envelopes of CRUD commands.
package ipc

import (
	"errors"

	"github.com/sabry-awad97/snippet-vault/internal/common"
)

type Status string

const (
	StatusSuccess Status = "Success"
	StatusError   Status = "Error"
)

type SimpleResult[T any] struct {
	Data T `json:"data"`
}

type ErrorBody struct {
	Message string `json:"message"`
}

// Response carries exactly one of Result or Error.
type Response[T any] struct {
	Status Status           `json:"status"`
	Result *SimpleResult[T] `json:"result,omitempty"`
	Error  *ErrorBody       `json:"error,omitempty"`
}

func Ok[T any](data T) Response[T] {
	return Response[T]{Status: StatusSuccess, Result: &SimpleResult[T]{Data: data}}
}

// Fail renders err through the error taxonomy; foreign errors become a
// generic message.
func Fail[T any](err error) Response[T] {
	return Response[T]{Status: StatusError, Error: &ErrorBody{Message: common.Render(err)}}
}

// FromResult converts an operation outcome into an envelope. A non-nil err
// wins over data.
func FromResult[T any](data T, err error) Response[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Ok(data)
}

// IntoResult is the inverse of FromResult for callers reading a reply.
func (r Response[T]) IntoResult() (T, error) {
	var zero T
	switch {
	case r.Status == StatusSuccess && r.Result != nil:
		return r.Result.Data, nil
	case r.Status == StatusError && r.Error != nil:
		return zero, errors.New(r.Error.Message)
	default:
		return zero, errors.New("malformed response envelope")
	}
}

// Erase drops the static payload type so responses of different commands
// can share one channel.
func (r Response[T]) Erase() Response[any] {
	out := Response[any]{Status: r.Status, Error: r.Error}
	if r.Result != nil {
		out.Result = &SimpleResult[any]{Data: r.Result.Data}
	}
	return out
}
