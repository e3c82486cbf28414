package auth

import (
	"context"
	"sync"

	"github.com/cropcure/agrichat/internal/api"
	"github.com/cropcure/agrichat/internal/config"
	"github.com/cropcure/agrichat/internal/notify"
)

type RecoveryStep int

const (
	StepEnterEmail RecoveryStep = iota
	StepVerifyCode
	StepNewPassword
	StepCompleted
)

// RecoveryFlow drives EnterEmail -> VerifyOtp -> SetNewPassword -> Completed.
type RecoveryFlow struct {
	api      API
	notifier notify.Notifier

	mu              sync.Mutex
	step            RecoveryStep
	email           string
	code            string
	newPassword     string
	confirmPassword string
	busy            bool
}

func NewRecoveryFlow(apiClient API, notifier notify.Notifier) *RecoveryFlow {
	return &RecoveryFlow{
		api:      apiClient,
		notifier: notifier,
		step:     StepEnterEmail,
	}
}

func (f *RecoveryFlow) Step() RecoveryStep {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *RecoveryFlow) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

func (f *RecoveryFlow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

func (f *RecoveryFlow) Code() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.code
}

func (f *RecoveryFlow) SetEmail(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email = email
}

func (f *RecoveryFlow) EnterCode(input string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.code = SanitizeOTP(input)
}

func (f *RecoveryFlow) SetNewPassword(password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.newPassword = password
}

func (f *RecoveryFlow) SetConfirmPassword(password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmPassword = password
}

func (f *RecoveryFlow) begin(step RecoveryStep) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy || f.step != step {
		return false
	}
	f.busy = true
	return true
}

func (f *RecoveryFlow) finish() {
	f.mu.Lock()
	f.busy = false
	f.mu.Unlock()
}

// ChangeEmail backs out of the code step, discarding any typed code.
func (f *RecoveryFlow) ChangeEmail() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy || f.step != StepVerifyCode {
		return
	}
	f.code = ""
	f.step = StepEnterEmail
}

func (f *RecoveryFlow) SubmitEmail(ctx context.Context) {
	if !f.begin(StepEnterEmail) {
		return
	}
	defer f.finish()

	f.mu.Lock()
	email := f.email
	f.mu.Unlock()

	if email == "" {
		f.notifier.Notify(notify.KindError, "Missing email", "Enter the email for your account")
		return
	}

	if err := f.api.RequestPasswordReset(ctx, email); err != nil {
		f.notifier.Notify(notify.KindError, "Reset failed", api.UserMessage(err, "Could not send reset code"))
		return
	}

	f.mu.Lock()
	f.step = StepVerifyCode
	f.mu.Unlock()

	f.notifier.Notify(notify.KindSuccess, "Code sent", "Check your email for a 6-digit code")
}

func (f *RecoveryFlow) SubmitCode(ctx context.Context) {
	if !f.begin(StepVerifyCode) {
		return
	}
	defer f.finish()

	f.mu.Lock()
	email, code := f.email, f.code
	f.mu.Unlock()

	if !ValidOTP(code) {
		f.notifier.Notify(notify.KindError, "Invalid code", "Enter the 6-digit code from your email")
		return
	}

	if err := f.api.VerifyResetOTP(ctx, email, code); err != nil {
		f.notifier.Notify(notify.KindError, "Verification failed", api.UserMessage(err, "Invalid code"))
		return
	}

	f.mu.Lock()
	f.step = StepNewPassword
	f.mu.Unlock()

	f.notifier.Notify(notify.KindSuccess, "Code verified", "Choose a new password")
}

// SubmitNewPassword runs the final step. The length check runs before the
// match check; neither reaches the network. Returns true once the flow is
// complete, which tells the caller to go back to the login view.
func (f *RecoveryFlow) SubmitNewPassword(ctx context.Context) bool {
	if !f.begin(StepNewPassword) {
		return false
	}
	defer f.finish()

	f.mu.Lock()
	email, code := f.email, f.code
	newPassword, confirmPassword := f.newPassword, f.confirmPassword
	f.mu.Unlock()

	if len(newPassword) < config.MinPasswordLength {
		f.notifier.Notify(notify.KindError, "Weak password", "Password must be at least 6 characters")
		return false
	}
	if newPassword != confirmPassword {
		f.notifier.Notify(notify.KindError, "Check password", "Passwords do not match")
		return false
	}

	if err := f.api.ResetPassword(ctx, email, code, newPassword); err != nil {
		f.notifier.Notify(notify.KindError, "Reset failed", api.UserMessage(err, "Could not reset password"))
		return false
	}

	f.mu.Lock()
	f.step = StepCompleted
	f.mu.Unlock()

	f.notifier.Notify(notify.KindSuccess, "Password updated", "Log in with your new password")
	return true
}
