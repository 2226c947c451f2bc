package console

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultNotificationTTL matches the dashboard's auto-dismiss delay.
const DefaultNotificationTTL = 6 * time.Second

type NotificationKind string

const (
	NoticeInfo  NotificationKind = "info"
	NoticeError NotificationKind = "error"
)

type Notification struct {
	ID       string
	Kind     NotificationKind
	Message  string
	PostedAt time.Time
}

// Notifier collects transient status messages. Each message expires after
// the configured TTL; Active prunes expired entries on read so no timer
// goroutine is needed.
type Notifier struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items []Notification
}

func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Notifier{ttl: ttl, now: time.Now}
}

func (n *Notifier) Info(message string) string {
	return n.push(NoticeInfo, message)
}

func (n *Notifier) Error(message string) string {
	return n.push(NoticeError, message)
}

func (n *Notifier) push(kind NotificationKind, message string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	item := Notification{
		ID:       uuid.NewString(),
		Kind:     kind,
		Message:  message,
		PostedAt: n.now(),
	}
	n.items = append(n.items, item)
	return item.ID
}

// Active returns the notifications that have not yet expired or been
// dismissed, oldest first.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	cutoff := n.now().Add(-n.ttl)
	kept := n.items[:0]
	for _, item := range n.items {
		if item.PostedAt.After(cutoff) {
			kept = append(kept, item)
		}
	}
	n.items = kept
	out := make([]Notification, len(kept))
	copy(out, kept)
	return out
}

func (n *Notifier) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, item := range n.items {
		if item.ID == id {
			n.items = append(n.items[:i], n.items[i+1:]...)
			return
		}
	}
}
