package auth

import (
	"context"
	"sync"

	"github.com/cropcure/agrichat/internal/api"
	"github.com/cropcure/agrichat/internal/notify"
)

// mockAPI records calls and returns canned results per operation.
type mockAPI struct {
	loginCalls        int
	loginResult       *api.LoginResult
	loginErr          error
	verifyLoginCalls  int
	verifyLoginEmail  string
	verifyLoginCode   string
	verifyLoginResult *api.VerifyLoginResult
	verifyLoginErr    error
	requestResetCalls int
	requestResetErr   error
	verifyResetCalls  int
	verifyResetErr    error
	resetCalls        int
	resetNewPassword  string
	resetErr          error
}

func (m *mockAPI) Login(ctx context.Context, identifier, password string) (*api.LoginResult, error) {
	m.loginCalls++
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.loginResult, nil
}

func (m *mockAPI) VerifyLoginOTP(ctx context.Context, email, code string) (*api.VerifyLoginResult, error) {
	m.verifyLoginCalls++
	m.verifyLoginEmail = email
	m.verifyLoginCode = code
	if m.verifyLoginErr != nil {
		return nil, m.verifyLoginErr
	}
	return m.verifyLoginResult, nil
}

func (m *mockAPI) RequestPasswordReset(ctx context.Context, email string) error {
	m.requestResetCalls++
	return m.requestResetErr
}

func (m *mockAPI) VerifyResetOTP(ctx context.Context, email, code string) error {
	m.verifyResetCalls++
	return m.verifyResetErr
}

func (m *mockAPI) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	m.resetCalls++
	m.resetNewPassword = newPassword
	return m.resetErr
}

// mockStore records the identity written on login completion.
type mockStore struct {
	token    string
	username string
	setErr   error
}

func (m *mockStore) SetIdentity(ctx context.Context, token, username string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.token = token
	m.username = username
	return nil
}

// recorder collects emitted notifications.
type recorder struct {
	mu      sync.Mutex
	entries []notify.Notification
}

func (r *recorder) Notify(kind notify.Kind, title, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, notify.Notification{Kind: kind, Title: title, Detail: detail})
}

func (r *recorder) last() notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return notify.Notification{}
	}
	return r.entries[len(r.entries)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
