package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"slices"

	"github.com/sabry-awad97/snippet-vault/internal/common"
	"github.com/sabry-awad97/snippet-vault/internal/vault/auth"
	"github.com/sabry-awad97/snippet-vault/internal/vault/ipc"
)

// Request is one named command sent by the UI process.
type Request struct {
	ID      string          `json:"id"`
	Command string          `json:"command"`
	Params  json.RawMessage `json:"params,omitempty"`
	Token   string          `json:"token,omitempty"`
}

// Reply pairs a response with the id of the request it answers.
type Reply struct {
	ID       string            `json:"id"`
	Response ipc.Response[any] `json:"response"`
}

type handler func(ctx context.Context, d *Dispatcher, command string, raw json.RawMessage) ipc.Response[any]

type route struct {
	public bool
	handle handler
}

// bind decodes raw params into P and calls the typed command method.
func bind[P, T any](public bool, method func(*Dispatcher, context.Context, P) ipc.Response[T]) route {
	return route{
		public: public,
		handle: func(ctx context.Context, d *Dispatcher, command string, raw json.RawMessage) ipc.Response[any] {
			var params P
			if len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
				if err := json.Unmarshal(raw, &params); err != nil {
					err = common.Validation("malformed parameters", err)
					d.record(ctx, command, 0, err)
					return ipc.Fail[any](err)
				}
			}
			return method(d, ctx, params).Erase()
		},
	}
}

// Router maps command names to dispatcher methods and gates the protected
// ones behind an access token.
type Router struct {
	d      *Dispatcher
	routes map[string]route
}

func NewRouter(d *Dispatcher) *Router {
	return &Router{
		d: d,
		routes: map[string]route{
			"greet":         bind(true, (*Dispatcher).Greet),
			"register":      bind(true, (*Dispatcher).Register),
			"login":         bind(true, (*Dispatcher).Login),
			"refresh_token": bind(true, (*Dispatcher).RefreshToken),

			"create_user": bind(false, (*Dispatcher).CreateUser),
			"get_user":    bind(false, (*Dispatcher).GetUser),
			"list_users":  bind(false, (*Dispatcher).ListUsers),
			"update_user": bind(false, (*Dispatcher).UpdateUser),
			"delete_user": bind(false, (*Dispatcher).DeleteUser),

			"create_snippet":       bind(false, (*Dispatcher).CreateSnippet),
			"get_snippet":          bind(false, (*Dispatcher).GetSnippet),
			"list_snippets":        bind(false, (*Dispatcher).ListSnippets),
			"update_snippet":       bind(false, (*Dispatcher).UpdateSnippet),
			"delete_snippet":       bind(false, (*Dispatcher).DeleteSnippet),
			"update_snippet_state": bind(false, (*Dispatcher).UpdateSnippetState),

			"create_tag": bind(false, (*Dispatcher).CreateTag),
			"get_tag":    bind(false, (*Dispatcher).GetTag),
			"list_tags":  bind(false, (*Dispatcher).ListTags),
			"update_tag": bind(false, (*Dispatcher).UpdateTag),
			"delete_tag": bind(false, (*Dispatcher).DeleteTag),
		},
	}
}

// Commands lists the routed command names in order.
func (r *Router) Commands() []string {
	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Handle always answers with a well-formed envelope.
func (r *Router) Handle(ctx context.Context, req Request) Reply {
	rt, ok := r.routes[req.Command]
	if !ok {
		err := common.Other("Unknown command: %s", req.Command)
		r.d.record(ctx, req.Command, 0, err)
		return Reply{ID: req.ID, Response: ipc.Fail[any](err)}
	}

	if !rt.public {
		authed, err := r.authorize(ctx, req.Token)
		if err != nil {
			r.d.record(ctx, req.Command, 0, err)
			return Reply{ID: req.ID, Response: ipc.Fail[any](err)}
		}
		ctx = authed
	}

	return Reply{ID: req.ID, Response: rt.handle(ctx, r.d, req.Command, req.Params)}
}

func (r *Router) authorize(ctx context.Context, token string) (context.Context, error) {
	if token == "" {
		return nil, common.InvalidToken(errors.New("missing access token"))
	}
	claim, err := r.d.tokens.VerifyClass(token, auth.Access)
	if err != nil {
		return nil, err
	}
	return auth.WithSubject(ctx, claim.Subject), nil
}
