// Package ui is the interactive terminal front end: a login form, the OTP and
// password recovery steps, and the chat view. All state transitions live in
// internal/auth and internal/chat; this package only collects input and
// renders their state.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cropcure/agrichat/internal/auth"
	"github.com/cropcure/agrichat/internal/chat"
	"github.com/cropcure/agrichat/internal/notify"
)

// Client is everything the UI needs from the remote API.
type Client interface {
	auth.API
	chat.API
}

// Credentials is the slice of the credential store the UI touches.
type Credentials interface {
	Token() string
	Username() string
	ClientID() string
	SetIdentity(ctx context.Context, token, username string) error
	Clear(ctx context.Context) error
}

type Deps struct {
	Client       Client
	Store        Credentials
	Notices      *notify.Channel
	PollInterval time.Duration
}

type view int

const (
	viewLogin view = iota
	viewOTP
	viewRecoverEmail
	viewRecoverCode
	viewRecoverPassword
	viewChat
)

type (
	noticeMsg        notify.Notification
	loginStepMsg     struct{}
	authenticatedMsg struct{ ok bool }
	recoveryStepMsg  struct{}
	recoveryDoneMsg  struct{ ok bool }
	sentMsg          struct{ ok bool }
	redrawMsg        time.Time
)

const redrawInterval = 250 * time.Millisecond

type Model struct {
	deps Deps

	view     view
	login    *auth.LoginFlow
	recovery *auth.RecoveryFlow
	engine   *chat.Engine
	username string

	emailInput    textinput.Model
	passwordInput textinput.Model
	codeInput     textinput.Model
	newPassInput  textinput.Model
	confirmInput  textinput.Model
	chatInput     textinput.Model
	focus         int

	viewport viewport.Model
	spinner  spinner.Model
	status   notify.Notification

	width  int
	height int
	ready  bool
}

func New(deps Deps) *Model {
	email := textinput.New()
	email.Placeholder = "email or username"
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	code := textinput.New()
	code.Placeholder = "6-digit code"
	code.CharLimit = 6

	newPass := textinput.New()
	newPass.Placeholder = "new password"
	newPass.EchoMode = textinput.EchoPassword
	newPass.CharLimit = 128

	confirm := textinput.New()
	confirm.Placeholder = "confirm password"
	confirm.EchoMode = textinput.EchoPassword
	confirm.CharLimit = 128

	chatIn := textinput.New()
	chatIn.Placeholder = "ask about your crops, or /quit"
	chatIn.CharLimit = 1024

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		deps:          deps,
		view:          viewLogin,
		login:         auth.NewLoginFlow(deps.Client, identityWriter{deps.Store}, deps.Notices),
		emailInput:    email,
		passwordInput: password,
		codeInput:     code,
		newPassInput:  newPass,
		confirmInput:  confirm,
		chatInput:     chatIn,
		spinner:       sp,
	}

	// A stored token from a previous run skips the login form.
	if deps.Store.Token() != "" {
		m.enterChat()
	}
	return m
}

// identityWriter narrows Credentials to what the login flow persists.
type identityWriter struct {
	store Credentials
}

func (w identityWriter) SetIdentity(ctx context.Context, token, username string) error {
	return w.store.SetIdentity(ctx, token, username)
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForNotice(), m.redrawTick())
}

func (m *Model) waitForNotice() tea.Cmd {
	ch := m.deps.Notices.C()
	return func() tea.Msg {
		return noticeMsg(<-ch)
	}
}

func (m *Model) redrawTick() tea.Cmd {
	return tea.Tick(redrawInterval, func(t time.Time) tea.Msg {
		return redrawMsg(t)
	})
}

// enterChat builds a fresh engine and switches to the chat view. Any prior
// engine is torn down first so its refresh handle cannot leak.
func (m *Model) enterChat() {
	if m.engine != nil {
		m.engine.Close()
	}
	m.engine = chat.NewEngine(m.deps.Client, m.deps.Store, m.deps.Notices, m.deps.PollInterval)
	m.username = m.deps.Store.Username()
	m.view = viewChat
	m.chatInput.Focus()
}

// resetToLogin discards every flow instance and returns to the login form.
func (m *Model) resetToLogin() {
	if m.engine != nil {
		m.engine.Close()
		m.engine = nil
	}
	m.login = auth.NewLoginFlow(m.deps.Client, identityWriter{m.deps.Store}, m.deps.Notices)
	m.recovery = nil
	m.view = viewLogin
	m.focus = 0
	m.emailInput.SetValue("")
	m.passwordInput.SetValue("")
	m.codeInput.SetValue("")
	m.newPassInput.SetValue("")
	m.confirmInput.SetValue("")
	m.emailInput.Focus()
	m.passwordInput.Blur()
}

// Close releases background resources; main calls it after the program exits.
func (m *Model) Close() {
	if m.engine != nil {
		m.engine.Close()
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		chatHeight := msg.Height - 6
		if chatHeight < 3 {
			chatHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, chatHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = chatHeight
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case redrawMsg:
		if m.view == viewChat && m.engine != nil {
			m.syncTranscript()
		}
		return m, m.redrawTick()

	case noticeMsg:
		m.status = notify.Notification(msg)
		return m, m.waitForNotice()

	case loginStepMsg:
		if m.login.Step() == auth.StepAwaitingOTP {
			m.view = viewOTP
			m.codeInput.SetValue("")
			m.codeInput.Focus()
		}
		return m, nil

	case authenticatedMsg:
		if msg.ok {
			m.enterChat()
		}
		return m, nil

	case recoveryStepMsg:
		m.syncRecoveryView()
		return m, nil

	case recoveryDoneMsg:
		if msg.ok {
			m.resetToLogin()
		}
		return m, nil

	case sentMsg:
		if msg.ok {
			m.chatInput.SetValue("")
			m.syncTranscript()
			m.viewport.GotoBottom()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) syncRecoveryView() {
	if m.recovery == nil {
		return
	}
	switch m.recovery.Step() {
	case auth.StepEnterEmail:
		m.view = viewRecoverEmail
		m.emailInput.Focus()
	case auth.StepVerifyCode:
		m.view = viewRecoverCode
		m.codeInput.SetValue("")
		m.codeInput.Focus()
	case auth.StepNewPassword:
		m.view = viewRecoverPassword
		m.focus = 0
		m.newPassInput.Focus()
		m.confirmInput.Blur()
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.view {
	case viewLogin:
		return m.handleLoginKey(msg)
	case viewOTP:
		return m.handleOTPKey(msg)
	case viewRecoverEmail, viewRecoverCode, viewRecoverPassword:
		return m.handleRecoveryKey(msg)
	case viewChat:
		return m.handleChatKey(msg)
	}
	return m, nil
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.focus = (m.focus + 1) % 2
		if m.focus == 0 {
			m.emailInput.Focus()
			m.passwordInput.Blur()
		} else {
			m.emailInput.Blur()
			m.passwordInput.Focus()
		}
		return m, nil

	case "ctrl+r":
		m.recovery = auth.NewRecoveryFlow(m.deps.Client, m.deps.Notices)
		m.view = viewRecoverEmail
		m.emailInput.Focus()
		return m, nil

	case "enter":
		if m.login.Busy() {
			return m, nil
		}
		m.login.SetIdentifier(m.emailInput.Value())
		m.login.SetSecret(m.passwordInput.Value())
		return m, func() tea.Msg {
			m.login.SubmitCredentials(context.Background())
			return loginStepMsg{}
		}
	}

	var cmds [2]tea.Cmd
	m.emailInput, cmds[0] = m.emailInput.Update(msg)
	m.passwordInput, cmds[1] = m.passwordInput.Update(msg)
	return m, tea.Batch(cmds[0], cmds[1])
}

func (m *Model) handleOTPKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.resetToLogin()
		return m, nil

	case "enter":
		if m.login.Busy() {
			return m, nil
		}
		m.login.EnterCode(m.codeInput.Value())
		return m, func() tea.Msg {
			return authenticatedMsg{ok: m.login.SubmitOTP(context.Background())}
		}
	}

	var cmd tea.Cmd
	m.codeInput, cmd = m.codeInput.Update(msg)
	m.login.EnterCode(m.codeInput.Value())
	m.codeInput.SetValue(m.login.Code())
	return m, cmd
}

func (m *Model) handleRecoveryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.recovery == nil {
		m.resetToLogin()
		return m, nil
	}

	if msg.String() == "esc" {
		if m.view == viewRecoverCode {
			m.recovery.ChangeEmail()
			m.syncRecoveryView()
		} else {
			m.resetToLogin()
		}
		return m, nil
	}

	if msg.String() == "enter" {
		if m.recovery.Busy() {
			return m, nil
		}
		switch m.view {
		case viewRecoverEmail:
			m.recovery.SetEmail(m.emailInput.Value())
			return m, func() tea.Msg {
				m.recovery.SubmitEmail(context.Background())
				return recoveryStepMsg{}
			}
		case viewRecoverCode:
			m.recovery.EnterCode(m.codeInput.Value())
			return m, func() tea.Msg {
				m.recovery.SubmitCode(context.Background())
				return recoveryStepMsg{}
			}
		case viewRecoverPassword:
			m.recovery.SetNewPassword(m.newPassInput.Value())
			m.recovery.SetConfirmPassword(m.confirmInput.Value())
			return m, func() tea.Msg {
				return recoveryDoneMsg{ok: m.recovery.SubmitNewPassword(context.Background())}
			}
		}
	}

	switch m.view {
	case viewRecoverEmail:
		var cmd tea.Cmd
		m.emailInput, cmd = m.emailInput.Update(msg)
		return m, cmd

	case viewRecoverCode:
		var cmd tea.Cmd
		m.codeInput, cmd = m.codeInput.Update(msg)
		m.recovery.EnterCode(m.codeInput.Value())
		m.codeInput.SetValue(m.recovery.Code())
		return m, cmd

	case viewRecoverPassword:
		if msg.String() == "tab" || msg.String() == "shift+tab" {
			m.focus = (m.focus + 1) % 2
			if m.focus == 0 {
				m.newPassInput.Focus()
				m.confirmInput.Blur()
			} else {
				m.newPassInput.Blur()
				m.confirmInput.Focus()
			}
			return m, nil
		}
		var cmds [2]tea.Cmd
		m.newPassInput, cmds[0] = m.newPassInput.Update(msg)
		m.confirmInput, cmds[1] = m.confirmInput.Update(msg)
		return m, tea.Batch(cmds[0], cmds[1])
	}
	return m, nil
}

func (m *Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := m.chatInput.Value()

		switch cmd, arg := parseCommand(text); cmd {
		case cmdCrop:
			m.engine.SetCropType(arg)
			m.chatInput.SetValue("")
			m.status = notify.Notification{Kind: notify.KindInfo, Title: "Crop hint", Detail: cropHint(arg)}
			return m, nil
		case cmdLocation:
			m.engine.SetLocation(arg)
			m.chatInput.SetValue("")
			m.status = notify.Notification{Kind: notify.KindInfo, Title: "Location hint", Detail: locationHint(arg)}
			return m, nil
		case cmdLogout:
			if err := m.deps.Store.Clear(context.Background()); err == nil {
				m.resetToLogin()
			}
			return m, nil
		case cmdQuit:
			return m, tea.Quit
		case cmdUnknown:
			m.status = notify.Notification{Kind: notify.KindError, Title: "Unknown command", Detail: "/" + arg + " is not a command"}
			m.chatInput.SetValue("")
			return m, nil
		}

		if m.engine.Busy() {
			return m, nil
		}
		return m, func() tea.Msg {
			return sentMsg{ok: m.engine.Send(context.Background(), text)}
		}

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func cropHint(arg string) string {
	if arg == "" {
		return "Crop hint cleared"
	}
	return "Answers will assume " + arg
}

func locationHint(arg string) string {
	if arg == "" {
		return "Location hint cleared"
	}
	return "Answers will assume " + arg
}
