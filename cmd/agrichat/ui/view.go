package ui

import (
	"strings"

	"github.com/cropcure/agrichat/internal/model"
	"github.com/cropcure/agrichat/internal/notify"
)

func (m *Model) View() string {
	var b strings.Builder

	switch m.view {
	case viewLogin:
		b.WriteString(titleStyle.Render("Crop Cure") + "\n\n")
		b.WriteString(formStyle.Render(
			labelStyle.Render("Sign in") + "\n\n" +
				m.emailInput.View() + "\n" +
				m.passwordInput.View(),
		))
		b.WriteString("\n" + hintStyle.Render("enter to sign in · ctrl+r to reset password · ctrl+c to quit"))

	case viewOTP:
		b.WriteString(titleStyle.Render("Check your email") + "\n\n")
		b.WriteString(formStyle.Render(
			labelStyle.Render("We sent a 6-digit code to "+m.login.Identifier()) + "\n\n" +
				m.codeInput.View(),
		))
		b.WriteString("\n" + hintStyle.Render("enter to verify · esc to start over"))

	case viewRecoverEmail:
		b.WriteString(titleStyle.Render("Reset password") + "\n\n")
		b.WriteString(formStyle.Render(
			labelStyle.Render("Account email") + "\n\n" +
				m.emailInput.View(),
		))
		b.WriteString("\n" + hintStyle.Render("enter to send code · esc to cancel"))

	case viewRecoverCode:
		b.WriteString(titleStyle.Render("Reset password") + "\n\n")
		b.WriteString(formStyle.Render(
			labelStyle.Render("We sent a 6-digit code to "+m.recovery.Email()) + "\n\n" +
				m.codeInput.View(),
		))
		b.WriteString("\n" + hintStyle.Render("enter to verify · esc to change email"))

	case viewRecoverPassword:
		b.WriteString(titleStyle.Render("Choose a new password") + "\n\n")
		b.WriteString(formStyle.Render(
			m.newPassInput.View() + "\n" +
				m.confirmInput.View(),
		))
		b.WriteString("\n" + hintStyle.Render("tab to switch fields · enter to save · esc to cancel"))

	case viewChat:
		header := titleStyle.Render("Crop Cure")
		if m.username != "" {
			header += hintStyle.Render("  ·  " + m.username)
		}
		b.WriteString(header + "\n")
		if m.ready {
			b.WriteString(m.viewport.View() + "\n")
		}
		b.WriteString(m.chatInput.View() + "\n")
		b.WriteString(hintStyle.Render("/crop /location /logout /quit"))
	}

	if busy := m.busy(); busy {
		b.WriteString("\n" + m.spinner.View() + hintStyle.Render(" working..."))
	}

	if m.status.Title != "" {
		b.WriteString("\n" + renderNotice(m.status))
	}

	return b.String()
}

func (m *Model) busy() bool {
	if m.login != nil && m.login.Busy() {
		return true
	}
	if m.recovery != nil && m.recovery.Busy() {
		return true
	}
	return m.engine != nil && m.engine.Busy()
}

func renderNotice(n notify.Notification) string {
	text := n.Title
	if n.Detail != "" {
		text += ": " + n.Detail
	}
	switch n.Kind {
	case notify.KindSuccess:
		return successStyle.Render(text)
	case notify.KindError:
		return errorStyle.Render(text)
	}
	return hintStyle.Render(text)
}

// syncTranscript rebuilds the viewport content from the engine's snapshot.
// Messages stay in server order; the client never re-sorts.
func (m *Model) syncTranscript() {
	if !m.ready || m.engine == nil {
		return
	}

	atBottom := m.viewport.AtBottom()

	var b strings.Builder
	for i, msg := range m.engine.Messages() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderMessage(msg))
	}
	m.viewport.SetContent(b.String())

	if atBottom {
		m.viewport.GotoBottom()
	}
}

func renderMessage(msg model.Message) string {
	var prefix string
	switch msg.Role {
	case model.RoleUser:
		prefix = userStyle.Render("you")
	case model.RoleAssistant:
		prefix = assistantStyle.Render("crop cure")
	default:
		prefix = systemStyle.Render(string(msg.Role))
	}

	var b strings.Builder
	b.WriteString(prefix)
	if msg.Text() != "" {
		b.WriteString("  " + msg.Text())
	}
	for _, att := range msg.Content.Attachments {
		label := att.DisplayName
		if label == "" {
			label = att.URL
		}
		b.WriteString("\n    " + attachmentStyle.Render(label))
		if att.URL != "" && att.DisplayName != "" {
			b.WriteString(hintStyle.Render("  " + att.URL))
		}
	}
	b.WriteString("\n")
	return b.String()
}
