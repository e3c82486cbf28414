package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunc(t *testing.T) {
	var got Notification
	n := Func(func(kind Kind, title, detail string) {
		got = Notification{Kind: kind, Title: title, Detail: detail}
	})

	n.Notify(KindSuccess, "Logged in", "Welcome back")

	assert.Equal(t, KindSuccess, got.Kind)
	assert.Equal(t, "Logged in", got.Title)
	assert.Equal(t, "Welcome back", got.Detail)
}

func TestChannel(t *testing.T) {
	t.Run("delivers in order", func(t *testing.T) {
		ch := NewChannel(4)
		ch.Notify(KindInfo, "first", "")
		ch.Notify(KindError, "second", "")

		n := <-ch.C()
		assert.Equal(t, "first", n.Title)
		n = <-ch.C()
		assert.Equal(t, "second", n.Title)
	})

	t.Run("drops on overflow instead of blocking", func(t *testing.T) {
		ch := NewChannel(1)
		ch.Notify(KindInfo, "kept", "")
		ch.Notify(KindInfo, "dropped", "")

		n := <-ch.C()
		assert.Equal(t, "kept", n.Title)

		select {
		case n := <-ch.C():
			require.Failf(t, "unexpected notification", "%+v", n)
		default:
		}
	})
}

func TestLogger(t *testing.T) {
	// Smoke check only: must not panic with or without detail.
	var n Notifier = Logger{}
	n.Notify(KindSuccess, "ok", "done")
	n.Notify(KindError, "bad", "")
}
