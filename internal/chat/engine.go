// Package chat owns the active assistant session: the session id, the message
// log, outbound sends, and the recurring history refresh that keeps the log in
// sync with the server.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cropcure/agrichat/internal/api"
	"github.com/cropcure/agrichat/internal/config"
	"github.com/cropcure/agrichat/internal/model"
	"github.com/cropcure/agrichat/internal/notify"
)

// API is the slice of the remote client the engine calls.
type API interface {
	SendMessage(ctx context.Context, token, sessionID, text string, sc api.SendContext) (string, error)
	FetchHistory(ctx context.Context, token, sessionID string) ([]model.Message, error)
}

// CredentialSource supplies the bearer token and the installation id.
type CredentialSource interface {
	Token() string
	ClientID() string
}

// Engine maintains exactly one active session per instance. The recurring
// refresh is the only background resource it owns; arming a new one always
// cancels the prior handle first, and Close cancels whatever is left.
type Engine struct {
	api      API
	creds    CredentialSource
	notifier notify.Notifier
	interval time.Duration

	mu          sync.Mutex
	sessionID   string
	messages    []model.Message
	cropType    string
	location    string
	busy        bool
	refreshDone chan struct{}
	closed      bool
}

func NewEngine(apiClient API, creds CredentialSource, notifier notify.Notifier, interval time.Duration) *Engine {
	return &Engine{
		api:      apiClient,
		creds:    creds,
		notifier: notifier,
		interval: interval,
	}
}

func (e *Engine) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID
}

// Messages returns a snapshot of the log in server order.
func (e *Engine) Messages() []model.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Message, len(e.messages))
	copy(out, e.messages)
	return out
}

func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

// SetCropType sets the crop hint attached to subsequent sends.
func (e *Engine) SetCropType(cropType string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cropType = cropType
}

// SetLocation sets the location hint attached to subsequent sends.
func (e *Engine) SetLocation(location string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.location = location
}

// Send submits one message. It returns true when the message was accepted,
// which tells the caller to clear the input buffer. On success the engine
// adopts the returned session id, fetches history once so the sender sees
// their own message, and then re-arms the recurring refresh.
func (e *Engine) Send(ctx context.Context, text string) bool {
	token := e.creds.Token()
	if token == "" {
		e.notifier.Notify(notify.KindError, "Not logged in", "Log in to chat with the assistant")
		return false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	e.mu.Lock()
	if e.busy || e.closed {
		e.mu.Unlock()
		return false
	}
	e.busy = true
	sessionID := e.sessionID
	sc := api.SendContext{
		ClientID: e.creds.ClientID(),
		CropType: e.cropType,
		Location: e.location,
	}
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.busy = false
		e.mu.Unlock()
	}()

	newID, err := e.api.SendMessage(ctx, token, sessionID, text, sc)
	if err != nil {
		e.notifier.Notify(notify.KindError, "Send failed", api.UserMessage(err, "Could not send message"))
		return false
	}

	e.mu.Lock()
	if newID != "" {
		e.sessionID = newID
	}
	sessionID = e.sessionID
	e.mu.Unlock()

	e.fetchHistory(ctx, token, sessionID)
	e.armRefresh()
	return true
}

// fetchHistory replaces the whole log with the server's ordered sequence.
// Failures are deliberately silent: the refresh is a best-effort background
// channel and must not spam notifications on every tick.
func (e *Engine) fetchHistory(ctx context.Context, token, sessionID string) {
	messages, err := e.api.FetchHistory(ctx, token, sessionID)
	if err != nil {
		log.Debug().Err(err).Str("sessionId", sessionID).Msg("history fetch missed")
		return
	}

	e.mu.Lock()
	e.messages = messages
	e.mu.Unlock()
}

func (e *Engine) refresh() {
	token := e.creds.Token()
	if token == "" {
		return
	}

	e.mu.Lock()
	sessionID := e.sessionID
	e.mu.Unlock()
	if sessionID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.HistoryFetchTimeout)
	defer cancel()
	e.fetchHistory(ctx, token, sessionID)
}

// armRefresh starts the recurring refresh, canceling any prior handle so at
// most one loop is ever ticking for this engine.
func (e *Engine) armRefresh() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if e.refreshDone != nil {
		close(e.refreshDone)
	}
	done := make(chan struct{})
	e.refreshDone = done
	go e.run(done)

	log.Debug().Dur("interval", e.interval).Str("sessionId", e.sessionID).Msg("history refresh armed")
}

func (e *Engine) run(done chan struct{}) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			e.refresh()
		}
	}
}

// Close tears the engine down, canceling the active refresh handle. It is
// safe to call more than once; a closed engine accepts no further sends.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	done := e.refreshDone
	e.refreshDone = nil
	e.mu.Unlock()

	if done != nil {
		close(done)
		log.Debug().Msg("history refresh stopped")
	}
}
