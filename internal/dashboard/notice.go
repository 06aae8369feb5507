package dashboard

import (
	"sync"
	"time"
)

// Notice display durations, matching the dashboard's toast timings.
const (
	RefreshNoticeTTL = 4 * time.Second
	OrderNoticeTTL   = 5 * time.Second
)

// NoticeKind distinguishes success notices from error notices.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient user-facing message.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
	At      time.Time  `json:"at"`
}

// NoticeCenter holds at most one transient notice and clears it after its
// TTL. Showing a new notice replaces the old one and cancels its timer;
// Stop cancels any outstanding timer so nothing fires after teardown.
type NoticeCenter struct {
	mu      sync.Mutex
	current *Notice
	timer   *time.Timer
	seq     uint64
	stopped bool
}

// NewNoticeCenter creates an empty notice center.
func NewNoticeCenter() *NoticeCenter {
	return &NoticeCenter{}
}

// Show displays a notice that auto-clears after ttl.
func (n *NoticeCenter) Show(kind NoticeKind, message string, ttl time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.stopped {
		return
	}

	if n.timer != nil {
		n.timer.Stop()
	}

	n.seq++
	seq := n.seq
	n.current = &Notice{Kind: kind, Message: message, At: time.Now()}
	n.timer = time.AfterFunc(ttl, func() {
		n.clear(seq)
	})
}

// Current returns the active notice, or nil.
func (n *NoticeCenter) Current() *Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Dismiss clears the active notice immediately.
func (n *NoticeCenter) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.current = nil
}

// Stop cancels any pending timer. After Stop the center accepts no further
// notices; used at shutdown so no timer mutates state after teardown.
func (n *NoticeCenter) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopped = true
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.current = nil
}

// clear removes the notice with the given sequence number. A stale sequence
// means a newer notice replaced it before the timer fired.
func (n *NoticeCenter) clear(seq uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.seq != seq {
		return
	}
	n.current = nil
	n.timer = nil
}
