package notify

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type Variant string

const (
	VariantSuccess     Variant = "success"
	VariantDestructive Variant = "destructive"
)

// Notification is a short user-facing message about the outcome of an operation.
type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

func Success(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: VariantSuccess}
}

func Destructive(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: VariantDestructive}
}

type Notifier interface {
	Notify(notification Notification)
}

type logNotifier struct{}

// NewLogNotifier writes notifications to the global zerolog logger.
func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) Notify(n Notification) {
	event := log.Info()
	if n.Variant == VariantDestructive {
		event = log.Warn()
	}

	event.Str("variant", string(n.Variant)).Str("description", n.Description).Msg(n.Title)
}

// Recorder keeps every notification in memory, in arrival order.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications = append(r.notifications, n)
}

func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)

	return out
}

func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.notifications) == 0 {
		return Notification{}, false
	}

	return r.notifications[len(r.notifications)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications = nil
}
