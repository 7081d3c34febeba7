package tracker

import "sync"

type ToastVariant string

const (
	ToastDefault     ToastVariant = "default"
	ToastDestructive ToastVariant = "destructive"
)

// Toast is a transient notification shown to the user.
type Toast struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Variant     ToastVariant `json:"variant"`
	DurationMs  int          `json:"durationMs,omitempty"`
}

// Notifier receives the toasts emitted by page operations.
type Notifier interface {
	Notify(toast Toast)
}

// ToastQueue collects toasts until the page is rendered.
type ToastQueue struct {
	mu     sync.Mutex
	toasts []Toast
}

func (q *ToastQueue) Notify(toast Toast) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.toasts = append(q.toasts, toast)
}

// Drain returns the queued toasts in emission order and empties the queue.
func (q *ToastQueue) Drain() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	toasts := q.toasts
	q.toasts = nil
	if toasts == nil {
		return []Toast{}
	}
	return toasts
}

func successToast(title, description string) Toast {
	return Toast{Title: title, Description: description, Variant: ToastDefault}
}

func errorToast(title string, err error) Toast {
	return Toast{Title: title, Description: err.Error(), Variant: ToastDestructive}
}
