package notify

// Channel buffers notifications for a consumer loop, dropping on overflow so
// an emitter is never blocked by a stalled reader.
type Channel struct {
	ch chan Notification
}

func NewChannel(size int) *Channel {
	if size <= 0 {
		size = 16
	}
	return &Channel{ch: make(chan Notification, size)}
}

func (c *Channel) Notify(kind Kind, title, detail string) {
	select {
	case c.ch <- Notification{Kind: kind, Title: title, Detail: detail}:
	default:
	}
}

func (c *Channel) C() <-chan Notification {
	return c.ch
}
