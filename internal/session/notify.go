package session

// Notifications is the FIFO display queue for toast messages. At most one
// message is visible at a time; after a dismissal the queue waits for an
// explicit Advance (the UI inserts a fixed delay for the exit animation)
// before surfacing the next message.
type Notifications struct {
	queue     []string
	visible   bool
	advancing bool // between Dismiss and Advance
}

// Push appends a message. If nothing is visible and no advance is pending,
// the message surfaces immediately.
func (n *Notifications) Push(message string) {
	n.queue = append(n.queue, message)
	if !n.visible && !n.advancing {
		n.visible = true
	}
}

// Current returns the visible message, if any.
func (n *Notifications) Current() (string, bool) {
	if !n.visible || len(n.queue) == 0 {
		return "", false
	}
	return n.queue[0], true
}

// Dismiss hides the visible message without removing it. The caller must
// follow up with Advance after the display delay. It reports whether there
// was anything to dismiss.
func (n *Notifications) Dismiss() bool {
	if !n.visible {
		return false
	}
	n.visible = false
	n.advancing = true
	return true
}

// Advance drops the dismissed head and surfaces the next message, if any.
func (n *Notifications) Advance() {
	n.advancing = false
	if len(n.queue) > 0 {
		n.queue = n.queue[1:]
	}
	n.visible = len(n.queue) > 0
}

// Pending returns the number of queued messages, visible one included.
func (n *Notifications) Pending() int {
	return len(n.queue)
}
