// Package state owns the single database client shared by all commands and
// lends it out to concurrently running operations.
package state

import (
	"context"
	"errors"
	"sync"

	"github.com/sabry-awad97/snippet-vault/internal/common"
)

// Operation is a unit of work executed against the shared client.
type Operation[T any] func(ctx context.Context, c *Client) (T, error)

// State guards the client handle. The lock covers handle lookup and the
// borrower count only; operations themselves run unlocked and in parallel.
type State struct {
	mu     sync.Mutex
	idle   *sync.Cond
	client *Client
	closed bool
	refs   int
}

func New() *State {
	s := &State{}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// Init installs the client. It succeeds once.
func (s *State) Init(c *Client) error {
	if c == nil {
		return common.ClientInit(errors.New("nil client"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return common.ClientInit(errors.New("state closed"))
	}
	if s.client != nil {
		return common.Other("Database client is already initialized")
	}
	s.client = c
	return nil
}

// Refs reports how many operations currently hold the client.
func (s *State) Refs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs
}

func (s *State) acquire() (*Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil || s.closed {
		return nil, common.ClientInit(nil)
	}
	s.refs++
	return s.client, nil
}

func (s *State) release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		s.idle.Broadcast()
	}
}

// Close refuses new borrowers, waits for the in-flight ones and closes the
// client. Closing twice is a no-op.
func (s *State) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for s.refs > 0 {
		s.idle.Wait()
	}
	c := s.client
	s.client = nil
	s.mu.Unlock()

	if c == nil {
		return nil
	}
	return c.close()
}

// Run borrows the client for the duration of op and returns op's result
// unchanged. Without an initialised client op is not called.
func Run[T any](ctx context.Context, s *State, op Operation[T]) (T, error) {
	c, err := s.acquire()
	if err != nil {
		var zero T
		return zero, err
	}
	defer s.release()

	return op(ctx, c)
}
