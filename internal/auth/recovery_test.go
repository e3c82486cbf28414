package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cropcure/agrichat/internal/api"
	"github.com/cropcure/agrichat/internal/notify"
)

func verifyCodeFlow(t *testing.T, mock *mockAPI, rec *recorder) *RecoveryFlow {
	t.Helper()
	flow := NewRecoveryFlow(mock, rec)
	flow.SetEmail("farmer@example.com")
	flow.SubmitEmail(context.Background())
	require.Equal(t, StepVerifyCode, flow.Step())
	return flow
}

func newPasswordFlow(t *testing.T, mock *mockAPI, rec *recorder) *RecoveryFlow {
	t.Helper()
	flow := verifyCodeFlow(t, mock, rec)
	flow.EnterCode("123456")
	flow.SubmitCode(context.Background())
	require.Equal(t, StepNewPassword, flow.Step())
	return flow
}

func TestSubmitEmail(t *testing.T) {
	t.Run("advances to code step", func(t *testing.T) {
		mock := &mockAPI{}
		rec := &recorder{}
		flow := NewRecoveryFlow(mock, rec)
		flow.SetEmail("farmer@example.com")

		flow.SubmitEmail(context.Background())

		assert.Equal(t, StepVerifyCode, flow.Step())
		assert.Equal(t, 1, mock.requestResetCalls)
		assert.Equal(t, notify.KindSuccess, rec.last().Kind)
	})

	t.Run("empty email rejected locally", func(t *testing.T) {
		mock := &mockAPI{}
		rec := &recorder{}
		flow := NewRecoveryFlow(mock, rec)

		flow.SubmitEmail(context.Background())

		assert.Zero(t, mock.requestResetCalls)
		assert.Equal(t, StepEnterEmail, flow.Step())
		assert.Equal(t, notify.KindError, rec.last().Kind)
	})

	t.Run("server failure stays on email step", func(t *testing.T) {
		mock := &mockAPI{requestResetErr: &api.Error{Op: "POST /api/auth/forgot-password", Message: "Unknown email"}}
		rec := &recorder{}
		flow := NewRecoveryFlow(mock, rec)
		flow.SetEmail("nobody@example.com")

		flow.SubmitEmail(context.Background())

		assert.Equal(t, StepEnterEmail, flow.Step())
		assert.Equal(t, "Unknown email", rec.last().Detail)
	})
}

func TestSubmitCode(t *testing.T) {
	t.Run("short code rejected without a network call", func(t *testing.T) {
		mock := &mockAPI{}
		rec := &recorder{}
		flow := verifyCodeFlow(t, mock, rec)
		flow.EnterCode("12345")

		flow.SubmitCode(context.Background())

		assert.Zero(t, mock.verifyResetCalls)
		assert.Equal(t, StepVerifyCode, flow.Step())
	})

	t.Run("valid code advances to password step", func(t *testing.T) {
		mock := &mockAPI{}
		flow := verifyCodeFlow(t, mock, &recorder{})
		flow.EnterCode("123456")

		flow.SubmitCode(context.Background())

		assert.Equal(t, 1, mock.verifyResetCalls)
		assert.Equal(t, StepNewPassword, flow.Step())
	})

	t.Run("change email returns to the first step and drops the code", func(t *testing.T) {
		flow := verifyCodeFlow(t, &mockAPI{}, &recorder{})
		flow.EnterCode("123456")

		flow.ChangeEmail()

		assert.Equal(t, StepEnterEmail, flow.Step())
		assert.Empty(t, flow.Code())
		assert.Equal(t, "farmer@example.com", flow.Email())
	})
}

func TestSubmitNewPassword(t *testing.T) {
	t.Run("length checked before match", func(t *testing.T) {
		mock := &mockAPI{}
		rec := &recorder{}
		flow := newPasswordFlow(t, mock, rec)
		flow.SetNewPassword("abc")
		flow.SetConfirmPassword("xyz")

		flow.SubmitNewPassword(context.Background())

		assert.Zero(t, mock.resetCalls)
		assert.Equal(t, "Password must be at least 6 characters", rec.last().Detail)
		assert.Equal(t, StepNewPassword, flow.Step())
	})

	t.Run("mismatch rejected even when both satisfy length", func(t *testing.T) {
		mock := &mockAPI{}
		rec := &recorder{}
		flow := newPasswordFlow(t, mock, rec)
		flow.SetNewPassword("abcdef")
		flow.SetConfirmPassword("abcxyz")

		ok := flow.SubmitNewPassword(context.Background())

		assert.False(t, ok)
		assert.Zero(t, mock.resetCalls)
		assert.Equal(t, "Passwords do not match", rec.last().Detail)
		assert.Equal(t, StepNewPassword, flow.Step())
	})

	t.Run("matching pair completes the flow", func(t *testing.T) {
		mock := &mockAPI{}
		rec := &recorder{}
		flow := newPasswordFlow(t, mock, rec)
		flow.SetNewPassword("abcdef")
		flow.SetConfirmPassword("abcdef")

		ok := flow.SubmitNewPassword(context.Background())

		assert.True(t, ok)
		assert.Equal(t, 1, mock.resetCalls)
		assert.Equal(t, "abcdef", mock.resetNewPassword)
		assert.Equal(t, StepCompleted, flow.Step())
		assert.Equal(t, notify.KindSuccess, rec.last().Kind)
	})

	t.Run("server failure keeps the password step", func(t *testing.T) {
		mock := &mockAPI{resetErr: &api.Error{Op: "POST /api/auth/reset-password", Message: "Code expired"}}
		rec := &recorder{}
		flow := newPasswordFlow(t, mock, rec)
		flow.SetNewPassword("abcdef")
		flow.SetConfirmPassword("abcdef")

		ok := flow.SubmitNewPassword(context.Background())

		assert.False(t, ok)
		assert.Equal(t, StepNewPassword, flow.Step())
		assert.Equal(t, "Code expired", rec.last().Detail)
	})
}
