package commands

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sabry-awad97/snippet-vault/internal/dbx"
	"github.com/sabry-awad97/snippet-vault/internal/logging"
	"github.com/sabry-awad97/snippet-vault/internal/vault/auth"
	"github.com/sabry-awad97/snippet-vault/internal/vault/ipc"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/repotest"
	"github.com/sabry-awad97/snippet-vault/internal/vault/state"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var t0 = time.Unix(1700000000, 0).UTC()

// clock hands out strictly increasing times so createdAt ordering is stable.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	d      *Dispatcher
	router *Router
	state  *state.State
	clock  *clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	client, err := state.Open(ctx, dbx.SQLite, repotest.DSN(t))
	require.NoError(t, err)

	st := state.New()
	require.NoError(t, st.Init(client))
	t.Cleanup(func() { _ = st.Close() })

	clk := &clock{now: t0}
	keys, err := auth.NewKeyring("test-secret")
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(keys, 12*time.Hour, 168*time.Hour, auth.WithClock(clk.Now))
	require.NoError(t, err)

	d := NewDispatcher(st, tokens, logging.Nop(), WithBcryptCost(bcrypt.MinCost), WithClock(clk.Tick))
	return &fixture{d: d, router: NewRouter(d), state: st, clock: clk}
}

func ok[T any](t *testing.T, r ipc.Response[T]) T {
	t.Helper()
	require.Equal(t, ipc.StatusSuccess, r.Status, "unexpected error: %+v", r.Error)
	require.Nil(t, r.Error)
	require.NotNil(t, r.Result)
	return r.Result.Data
}

func failed[T any](t *testing.T, r ipc.Response[T]) string {
	t.Helper()
	require.Equal(t, ipc.StatusError, r.Status)
	require.Nil(t, r.Result)
	require.NotNil(t, r.Error)
	return r.Error.Message
}

func ptr[T any](v T) *T { return &v }
