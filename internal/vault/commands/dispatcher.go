// Package commands implements the named vault commands. Each command checks
// its parameters, runs against the shared client and always answers with an
// ipc.Response.
package commands

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sabry-awad97/snippet-vault/internal/common"
	"github.com/sabry-awad97/snippet-vault/internal/logging"
	"github.com/sabry-awad97/snippet-vault/internal/vault/auth"
	"github.com/sabry-awad97/snippet-vault/internal/vault/ipc"
	"github.com/sabry-awad97/snippet-vault/internal/vault/state"
	"golang.org/x/crypto/bcrypt"
)

// Dispatcher holds what every command needs.
type Dispatcher struct {
	state      *state.State
	tokens     *auth.TokenService
	validate   *validator.Validate
	logger     logging.Logger
	bcryptCost int
	now        func() time.Time
}

type Option func(*Dispatcher)

// WithBcryptCost sets the cost used for new password hashes.
func WithBcryptCost(cost int) Option {
	return func(d *Dispatcher) { d.bcryptCost = cost }
}

// WithClock replaces time.Now for entity timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

func NewDispatcher(st *state.State, tokens *auth.TokenService, logger logging.Logger, opts ...Option) *Dispatcher {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)

	d := &Dispatcher{
		state:      st,
		tokens:     tokens,
		validate:   v,
		logger:     logger.With("module", "commands"),
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Operation is the business logic of one command.
type Operation[P, T any] func(ctx context.Context, c *state.Client, params P) (T, error)

// Dispatch validates params, runs op with the shared client and wraps the
// outcome. It never panics on operation failure and never returns a
// half-filled envelope.
func Dispatch[P, T any](ctx context.Context, d *Dispatcher, command string, params P, op Operation[P, T]) ipc.Response[T] {
	start := time.Now()

	data, err := run(ctx, d, params, op)
	d.record(ctx, command, time.Since(start), err)

	return ipc.FromResult(data, err)
}

func run[P, T any](ctx context.Context, d *Dispatcher, params P, op Operation[P, T]) (T, error) {
	if err := d.check(params); err != nil {
		var zero T
		return zero, err
	}
	return state.Run(ctx, d.state, func(ctx context.Context, c *state.Client) (T, error) {
		return op(ctx, c, params)
	})
}

func (d *Dispatcher) record(ctx context.Context, command string, elapsed time.Duration, err error) {
	if err == nil {
		d.logger.Debug(ctx, "command handled", "command", command, "duration", elapsed)
		return
	}

	kind := common.KindOf(err)
	switch kind {
	case common.KindValidation, common.KindNotFound, common.KindCredential, common.KindToken:
		d.logger.Warn(ctx, "command rejected",
			"command", command, "kind", kind.String(), "error", common.Detail(err), "duration", elapsed)
	default:
		d.logger.Error(ctx, "command failed",
			"command", command, "kind", kind.String(), "error", common.Detail(err), "duration", elapsed)
	}
}

// check runs struct validation. Non-struct params have nothing to check.
func (d *Dispatcher) check(params any) error {
	err := d.validate.Struct(params)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return common.Validation(describe(fieldErrs[0]), err)
	}
	return common.Validation("invalid parameters", err)
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "hexcolor", "len":
		return field + " must be a color like #1e90ff"
	default:
		return field + " is invalid"
	}
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	default:
		return name
	}
}

func (d *Dispatcher) timestamp() time.Time {
	return d.now().UTC()
}

func (d *Dispatcher) hashPassword(plain string) (string, error) {
	hash, err := auth.HashPassword(plain, d.bcryptCost)
	if err != nil {
		if auth.IsPasswordTooLong(err) {
			return "", common.Validation("password must be at most 72 bytes", err)
		}
		return "", common.Other("Could not secure password")
	}
	return hash, nil
}
