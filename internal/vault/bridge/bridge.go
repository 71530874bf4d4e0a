// Package bridge carries commands between the UI process and the vault over
// a pair of pipes. Each line read is one JSON request; each line written is
// one JSON reply. Replies may be written out of request order.
package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/sabry-awad97/snippet-vault/internal/common"
	"github.com/sabry-awad97/snippet-vault/internal/logging"
	"github.com/sabry-awad97/snippet-vault/internal/vault/commands"
	"github.com/sabry-awad97/snippet-vault/internal/vault/ipc"
	"golang.org/x/sync/errgroup"
)

// MaxLineSize bounds a single request line.
const MaxLineSize = 16 << 20

// Handler answers one request. *commands.Router satisfies it.
type Handler interface {
	Handle(ctx context.Context, req commands.Request) commands.Reply
}

type Server struct {
	handler     Handler
	logger      logging.Logger
	maxInFlight int

	mu  sync.Mutex
	enc *json.Encoder
}

// NewServer returns a bridge that runs at most maxInFlight requests at once.
// A non-positive limit means no limit.
func NewServer(h Handler, logger logging.Logger, maxInFlight int) *Server {
	return &Server{handler: h, logger: logger.With("module", "bridge"), maxInFlight: maxInFlight}
}

// Serve reads requests from r until EOF or ctx is done, waits for the
// requests already started and returns. Write failures stop the loop.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	s.enc = json.NewEncoder(w)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g errgroup.Group
	if s.maxInFlight > 0 {
		g.SetLimit(s.maxInFlight)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), MaxLineSize)

	s.logger.Info(ctx, "bridge listening", "max_in_flight", s.maxInFlight)

	for ctx.Err() == nil && scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var req commands.Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn(ctx, "malformed request", "error", err)
			if err := s.write(commands.Reply{Response: ipc.Fail[any](common.Validation("malformed request", err))}); err != nil {
				g.Go(func() error { return err })
				break
			}
			continue
		}

		g.Go(func() error {
			reply := s.handler.Handle(ctx, req)
			if err := s.write(reply); err != nil {
				cancel()
				return err
			}
			return nil
		})
	}

	werr := g.Wait()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read requests: %w", err)
	}
	if werr != nil {
		return fmt.Errorf("write reply: %w", werr)
	}
	s.logger.Info(ctx, "bridge closed")
	return nil
}

func (s *Server) write(reply commands.Reply) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(reply)
}
