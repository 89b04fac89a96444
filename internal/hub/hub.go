// Package hub bridges the asynchronous driver tasks (internal/eccdriver,
// internal/surveyordriver) with a synchronous front end: per-module
// command fan-out, a shared response intake, and cooperative broadcast
// cancellation. Grounded in
// _examples/original_source/src/envoy/embassy.rs's Embassy struct,
// generalized from a single HashMap<id, Sender> to the explicit
// registered-ids map spec.md §4.3 describes.
package hub

import (
	"errors"
	"sync"

	"github.com/gwm17/attpc-envoy/internal/message"
)

// ErrMessageReceive is returned by Poll when the response channel has
// been closed out from under it — a programming error, since only
// Shutdown (via cancel) should end the drivers' lifetime, and the hub
// itself owns the response channel's only receiving end.
var ErrMessageReceive = errors.New("hub: response channel disconnected")

// Hub owns the sending ends of every per-module command channel, the
// receiving end of the shared response channel, and the broadcast
// cancel's closing side.
type Hub struct {
	commands  map[int]chan message.Envelope
	responses chan message.Envelope
	cancel    chan struct{}
	closeOnce sync.Once
}

// New constructs an empty Hub. Use Connect to also spawn the driver
// tasks that feed it.
func New(responseCapacity int) *Hub {
	return &Hub{
		commands:  make(map[int]chan message.Envelope),
		responses: make(chan message.Envelope, responseCapacity),
		cancel:    make(chan struct{}),
	}
}

// commandCapacity is the bound spec.md §4.3 specifies for each
// per-module command channel.
const commandCapacity = 10

// registerCommandChannel creates and registers module id's command
// channel, returning the receiving end for the driver task to own.
func (h *Hub) registerCommandChannel(id int) <-chan message.Envelope {
	ch := make(chan message.Envelope, commandCapacity)
	h.commands[id] = ch
	return ch
}

// Cancel returns the broadcast cancel channel, closed exactly once by
// Shutdown; driver tasks select on it alongside their own work.
func (h *Hub) Cancel() <-chan struct{} {
	return h.cancel
}

// Responses returns the sending end of the shared response channel,
// cloned to every driver task at connect time.
func (h *Hub) Responses() chan<- message.Envelope {
	return h.responses
}

// Submit performs a blocking send to the command channel of
// message.ModuleID() for ECCOperation-kind messages; messages for an
// unregistered id are silently dropped, and other kinds originating
// from the synchronous side are ignored, per spec.md §4.3.
func (h *Hub) Submit(msg message.Envelope) error {
	if msg.Kind() != message.KindECCOperation {
		return nil
	}
	ch, ok := h.commands[msg.ModuleID()]
	if !ok {
		return nil
	}
	ch <- msg
	return nil
}

// Poll drains the response channel in a non-blocking loop, stopping at
// the first empty read. If the channel has been closed, it fails with
// ErrMessageReceive. Intended to be called at UI frame rate.
func (h *Hub) Poll() ([]message.Envelope, error) {
	var out []message.Envelope
	for {
		select {
		case msg, ok := <-h.responses:
			if !ok {
				return out, ErrMessageReceive
			}
			out = append(out, msg)
		default:
			return out, nil
		}
	}
}

// Shutdown closes the broadcast cancel exactly once. It does not join
// driver tasks; joining is the caller's responsibility.
func (h *Hub) Shutdown() {
	h.closeOnce.Do(func() {
		close(h.cancel)
	})
}
