// Package notify is the side channel for transient user-facing status
// messages. The credential flows and the chat engine emit through a Notifier
// so they stay testable without a UI attached.
package notify

import "github.com/rs/zerolog/log"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

type Notification struct {
	Kind   Kind
	Title  string
	Detail string
}

type Notifier interface {
	Notify(kind Kind, title, detail string)
}

// Func adapts a plain function to the Notifier interface.
type Func func(kind Kind, title, detail string)

func (f Func) Notify(kind Kind, title, detail string) {
	f(kind, title, detail)
}

// Logger writes notifications to the zerolog global logger, for headless use.
type Logger struct{}

func (Logger) Notify(kind Kind, title, detail string) {
	ev := log.Info()
	if kind == KindError {
		ev = log.Warn()
	}
	ev.Str("kind", string(kind)).Str("detail", detail).Msg(title)
}
