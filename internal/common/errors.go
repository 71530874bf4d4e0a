// Package common defines the closed error taxonomy shared by every layer of
// the vault backend. Callers should use errors.Is against the sentinel values
// or KindOf to classify a failure.
package common

import (
	"errors"
	"fmt"
)

// Kind enumerates the failure classes a command can report.
type Kind int

const (
	KindOther Kind = iota
	KindClientInit
	KindQuery
	KindCredential
	KindToken
	KindValidation
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindClientInit:
		return "ClientInitError"
	case KindQuery:
		return "QueryError"
	case KindCredential:
		return "CredentialError"
	case KindToken:
		return "TokenError"
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFound"
	default:
		return "Other"
	}
}

// Error is a classified failure. Message is safe to show to callers; Err
// keeps the underlying cause for logs and errors.Is/As.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind, and on Message when the target carries one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

var (
	ErrClientInit   = &Error{Kind: KindClientInit}
	ErrQuery        = &Error{Kind: KindQuery}
	ErrCredential   = &Error{Kind: KindCredential}
	ErrToken        = &Error{Kind: KindToken}
	ErrInvalidToken = &Error{Kind: KindToken, Message: MsgInvalidToken}
	ErrTokenExpired = &Error{Kind: KindToken, Message: MsgTokenExpired}
	ErrValidation   = &Error{Kind: KindValidation}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrOther        = &Error{Kind: KindOther}
)

func ClientInit(err error) *Error {
	return &Error{Kind: KindClientInit, Message: MsgClientInit, Err: err}
}

func Query(err error) *Error {
	return &Error{Kind: KindQuery, Message: MsgQuery, Err: err}
}

func Credential() *Error {
	return &Error{Kind: KindCredential, Message: MsgCredential}
}

func InvalidToken(err error) *Error {
	return &Error{Kind: KindToken, Message: MsgInvalidToken, Err: err}
}

func TokenExpired(err error) *Error {
	return &Error{Kind: KindToken, Message: MsgTokenExpired, Err: err}
}

// Validation reports a caller mistake. msg must be safe to display.
func Validation(msg string, err error) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed: " + msg, Err: err}
}

// NotFound reports an absent entity, e.g. NotFound("Snippet").
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

func Other(format string, args ...any) *Error {
	return &Error{Kind: KindOther, Message: fmt.Sprintf(format, args...)}
}

// KindOf classifies err. Errors outside the taxonomy are KindOther.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}

// Render returns the caller-visible message for err. Errors outside the
// taxonomy never leak their text.
func Render(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return MsgUnexpected
}

// Detail renders err together with its cause chain. Log use only.
func Detail(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return err.Error()
}
