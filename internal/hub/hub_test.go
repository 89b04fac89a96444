package hub

import (
	"testing"
	"time"

	"github.com/gwm17/attpc-envoy/internal/message"
)

func TestSubmitDeliversToRegisteredModule(t *testing.T) {
	h := New(4)
	cmds := h.registerCommandChannel(2)

	if err := h.Submit(message.NewECCCommand(2, "Start")); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	select {
	case msg := <-cmds:
		if msg.ModuleID() != 2 || msg.Operation() != "Start" {
			t.Errorf("unexpected message: %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for submitted command")
	}
}

func TestSubmitDropsUnregisteredID(t *testing.T) {
	h := New(4)
	// No command channel registered for id 5 — must not block or panic.
	if err := h.Submit(message.NewECCCommand(5, "Start")); err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

func TestSubmitIgnoresNonECCOperationKinds(t *testing.T) {
	h := New(4)
	cmds := h.registerCommandChannel(0)
	if err := h.Submit(message.NewSurveyorResponse(0, message.DefaultSurveyorResponse())); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	select {
	case msg := <-cmds:
		t.Fatalf("expected no delivery, got %+v", msg)
	default:
	}
}

func TestPollDrainsNonBlocking(t *testing.T) {
	h := New(4)
	h.responses <- message.NewECCStatusResponse(0, message.DefaultECCStatusResponse())
	h.responses <- message.NewECCStatusResponse(1, message.DefaultECCStatusResponse())

	msgs, err := h.Poll()
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("Poll returned %d messages, want 2", len(msgs))
	}

	msgs, err = h.Poll()
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("second Poll returned %d messages, want 0", len(msgs))
	}
}

func TestPollFailsOnClosedChannel(t *testing.T) {
	h := New(1)
	close(h.responses)

	_, err := h.Poll()
	if err != ErrMessageReceive {
		t.Fatalf("Poll on closed channel = %v, want ErrMessageReceive", err)
	}
}

func TestShutdownClosesCancelExactlyOnce(t *testing.T) {
	h := New(1)
	h.Shutdown()
	h.Shutdown() // must not panic on double-close

	select {
	case <-h.Cancel():
	default:
		t.Fatal("expected cancel channel to be closed")
	}
}
