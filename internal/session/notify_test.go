package session

import "testing"

func TestNotifications_FIFOSingletonVisible(t *testing.T) {
	var n Notifications

	n.Push("first")
	n.Push("second")
	n.Push("third")

	msg, ok := n.Current()
	if !ok || msg != "first" {
		t.Fatalf("Current() = %q, %v; want first visible", msg, ok)
	}

	// Pushing more never changes the visible message.
	n.Push("fourth")
	if msg, _ := n.Current(); msg != "first" {
		t.Errorf("visible message changed to %q on push", msg)
	}

	if !n.Dismiss() {
		t.Fatal("Dismiss returned false with a visible message")
	}
	if _, ok := n.Current(); ok {
		t.Error("message still visible after Dismiss")
	}

	n.Advance()
	if msg, ok := n.Current(); !ok || msg != "second" {
		t.Errorf("after advance Current() = %q, %v; want second", msg, ok)
	}
}

func TestNotifications_PushDuringAdvanceGapStaysHidden(t *testing.T) {
	var n Notifications
	n.Push("first")
	n.Dismiss()

	// The gap between Dismiss and Advance models the exit animation; a new
	// message must wait for the advance.
	n.Push("second")
	if _, ok := n.Current(); ok {
		t.Error("message surfaced during the advance gap")
	}

	n.Advance()
	if msg, ok := n.Current(); !ok || msg != "second" {
		t.Errorf("Current() = %q, %v; want second after advance", msg, ok)
	}
}

func TestNotifications_DrainsToEmpty(t *testing.T) {
	var n Notifications
	n.Push("only")
	n.Dismiss()
	n.Advance()

	if _, ok := n.Current(); ok {
		t.Error("queue should be empty")
	}
	if n.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", n.Pending())
	}
	if n.Dismiss() {
		t.Error("Dismiss on empty queue should be a no-op")
	}

	// The queue must keep working after draining.
	n.Push("again")
	if msg, ok := n.Current(); !ok || msg != "again" {
		t.Errorf("Current() = %q, %v after refill", msg, ok)
	}
}
