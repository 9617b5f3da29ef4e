package crud

import (
	"context"
	"sync"
)

// Level classifies a notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a user-facing outcome report.
type Notice struct {
	Level Level
	Title string
	Text  string
}

// Notifier delivers notices to whatever surface the user is looking at.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, n Notice) {
	f(ctx, n)
}

// DiscardNotifier drops every notice.
type DiscardNotifier struct{}

// Notify implements Notifier.
func (DiscardNotifier) Notify(context.Context, Notice) {}

// Recorder keeps notices in memory in arrival order.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify implements Notifier.
func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns the recorded notices.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

// Prompt is the question put to the user before a destructive action.
type Prompt struct {
	Title   string
	Text    string
	Confirm string
	Cancel  string
}

// Confirmer asks the user to accept or decline a prompt.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, p Prompt) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) (bool, error) {
	return f(ctx, p)
}

// Answer is a Confirmer with a fixed reply.
type Answer bool

// Confirm implements Confirmer.
func (a Answer) Confirm(context.Context, Prompt) (bool, error) {
	return bool(a), nil
}
