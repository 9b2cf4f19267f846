// ABOUTME: Toast notifications emitted by mutations.
// ABOUTME: A Notifier receives exactly one toast per create, update, or delete outcome.

package crud

import "sync"

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is a short user-facing message.
type Toast struct {
	Kind    ToastKind `json:"type"`
	Message string    `json:"message"`
}

// Notifier delivers toasts to the user.
type Notifier interface {
	Notify(Toast)
}

// ToastBuffer collects toasts until the page renders them.
type ToastBuffer struct {
	mu     sync.Mutex
	toasts []Toast
}

func (b *ToastBuffer) Notify(t Toast) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.toasts = append(b.toasts, t)
}

// Drain returns the buffered toasts and empties the buffer.
func (b *ToastBuffer) Drain() []Toast {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.toasts
	b.toasts = nil
	return out
}

// Len returns the number of buffered toasts.
func (b *ToastBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.toasts)
}
