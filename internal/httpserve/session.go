// Package httpserve exposes the converter pipeline over HTTP: upload
// raw trace bytes, get back a Perfetto artifact, keyed by a session id
// the client can poll while a large conversion is still in flight.
package httpserve

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/embtrace/embtrace/convert"
	"github.com/embtrace/embtrace/evt"
)

// session holds one in-flight or completed conversion. Its ready
// channel is closed exactly once, when the conversion finishes (with
// or without error); every other field is safe to read only after
// ready is observed closed. This mirrors a common Go pattern for a
// CachedCollection: a channel as a one-shot broadcast instead of a
// condition variable, so both wait() and a non-blocking poll read the
// same signal.
type session struct {
	id uuid.UUID

	ready chan struct{}
	trace []byte
	err   error
}

func newSession() *session {
	return &session{id: uuid.New(), ready: make(chan struct{})}
}

// wait blocks until the session's conversion finishes or ctx ends,
// whichever comes first.
func (s *session) wait(ctx context.Context) ([]byte, error) {
	select {
	case <-s.ready:
		return s.trace, s.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// finish populates the result and unblocks every waiter. Must be
// called exactly once.
func (s *session) finish(trace []byte, err error) {
	s.trace, s.err = trace, err
	close(s.ready)
}

// store is the server's table of sessions, keyed by id.
type store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

func newStore() *store {
	return &store{sessions: make(map[uuid.UUID]*session)}
}

// start creates a new session and converts data against it in the
// background, returning immediately with the session id.
func (st *store) start(coreCount int, mode evt.Mode, data []byte) (uuid.UUID, error) {
	s := newSession()

	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()

	c, err := convert.NewTraceConverter(coreCount, mode)
	if err != nil {
		s.finish(nil, err)
		return s.id, err
	}

	go func() {
		if err := c.AddBinary(data); err != nil {
			s.finish(nil, err)
			return
		}
		out, err := c.GeneratePerfettoTrace()
		s.finish(out, err)
	}()

	return s.id, nil
}

func (st *store) get(id uuid.UUID) (*session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}
