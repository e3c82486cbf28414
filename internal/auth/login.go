// Package auth holds the client-side credential state machines: the two-step
// password+OTP login flow and the three-step password recovery flow. Each flow
// is created fresh per invocation and discarded once it reaches its terminal
// step; outcomes are reported through the notify side channel.
package auth

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/cropcure/agrichat/internal/api"
	"github.com/cropcure/agrichat/internal/notify"
)

// API is the slice of the remote client the credential flows call.
type API interface {
	Login(ctx context.Context, identifier, password string) (*api.LoginResult, error)
	VerifyLoginOTP(ctx context.Context, email, code string) (*api.VerifyLoginResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyResetOTP(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

// IdentityWriter persists the credentials issued at login completion.
type IdentityWriter interface {
	SetIdentity(ctx context.Context, token, username string) error
}

type LoginStep int

const (
	StepCredentials LoginStep = iota
	StepAwaitingOTP
	StepAuthenticated
)

// LoginFlow drives CollectingCredentials -> AwaitingOtp -> Authenticated.
// Entry points are gated by a busy flag so a second submission cannot start
// while a request is outstanding.
type LoginFlow struct {
	api      API
	store    IdentityWriter
	notifier notify.Notifier

	mu         sync.Mutex
	step       LoginStep
	identifier string
	secret     string
	code       string
	busy       bool
}

func NewLoginFlow(apiClient API, store IdentityWriter, notifier notify.Notifier) *LoginFlow {
	return &LoginFlow{
		api:      apiClient,
		store:    store,
		notifier: notifier,
		step:     StepCredentials,
	}
}

func (f *LoginFlow) Step() LoginStep {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *LoginFlow) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

func (f *LoginFlow) Identifier() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.identifier
}

func (f *LoginFlow) Code() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.code
}

func (f *LoginFlow) SetIdentifier(identifier string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identifier = identifier
}

func (f *LoginFlow) SetSecret(secret string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.secret = secret
}

// EnterCode records OTP input, sanitized keystroke by keystroke.
func (f *LoginFlow) EnterCode(input string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.code = SanitizeOTP(input)
}

// begin atomically claims the flow for one transition. It fails when another
// request is in flight or the flow is not at the expected step.
func (f *LoginFlow) begin(step LoginStep) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy || f.step != step {
		return false
	}
	f.busy = true
	return true
}

func (f *LoginFlow) finish() {
	f.mu.Lock()
	f.busy = false
	f.mu.Unlock()
}

// SubmitCredentials runs the first login step. On success the flow advances to
// AwaitingOTP and adopts the server-normalized email for the OTP call.
func (f *LoginFlow) SubmitCredentials(ctx context.Context) {
	if !f.begin(StepCredentials) {
		return
	}
	defer f.finish()

	f.mu.Lock()
	identifier, secret := f.identifier, f.secret
	f.mu.Unlock()

	if identifier == "" || secret == "" {
		f.notifier.Notify(notify.KindError, "Missing details", "Email and password are required")
		return
	}

	result, err := f.api.Login(ctx, identifier, secret)
	if err != nil {
		f.notifier.Notify(notify.KindError, "Login failed", api.UserMessage(err, "Login failed"))
		return
	}

	if !result.OTPPending {
		// The contract says login always requires an OTP; anything else is a
		// server we do not understand.
		log.Warn().Msg("login succeeded without pending OTP")
		f.notifier.Notify(notify.KindError, "Login failed", "Unexpected response from server")
		return
	}

	f.mu.Lock()
	if result.Email != "" {
		f.identifier = result.Email
	}
	f.secret = ""
	f.step = StepAwaitingOTP
	f.mu.Unlock()

	f.notifier.Notify(notify.KindSuccess, "Code sent", "Check your email for a 6-digit code")
}

// SubmitOTP runs the second login step. It returns true once the flow is
// authenticated, which tells the caller to move to the chat view.
func (f *LoginFlow) SubmitOTP(ctx context.Context) bool {
	if !f.begin(StepAwaitingOTP) {
		return false
	}
	defer f.finish()

	f.mu.Lock()
	email, code := f.identifier, f.code
	f.mu.Unlock()

	if !ValidOTP(code) {
		f.notifier.Notify(notify.KindError, "Invalid code", "Enter the 6-digit code from your email")
		return false
	}

	result, err := f.api.VerifyLoginOTP(ctx, email, code)
	if err != nil {
		f.notifier.Notify(notify.KindError, "Verification failed", api.UserMessage(err, "Invalid code"))
		return false
	}

	if err := f.store.SetIdentity(ctx, result.Token, result.Username); err != nil {
		log.Error().Err(err).Msg("failed to persist identity")
		f.notifier.Notify(notify.KindError, "Login failed", "Could not save your session")
		return false
	}

	f.mu.Lock()
	f.step = StepAuthenticated
	f.mu.Unlock()

	f.notifier.Notify(notify.KindSuccess, "Logged in", "Welcome back, "+result.Username)
	return true
}
