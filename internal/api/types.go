package api

import (
	"github.com/cropcure/agrichat/internal/model"
)

// envelope is the response shape shared by every endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	envelope
	OTPPending bool   `json:"otpPending"`
	Email      string `json:"email,omitempty"`
}

// LoginResult reports the outcome of a successful first login step. Email is
// the server-normalized address and should replace whatever the user typed.
type LoginResult struct {
	OTPPending bool
	Email      string
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type verifyLoginOTPResponse struct {
	envelope
	Token string `json:"token"`
	User  struct {
		Username string `json:"username"`
	} `json:"user"`
}

// VerifyLoginResult carries the credentials issued once the login OTP checks out.
type VerifyLoginResult struct {
	Token    string
	Username string
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// SendContext is the per-message metadata block sent alongside the text.
// ClientID identifies this installation; crop and location hints help the
// assistant ground its answers.
type SendContext struct {
	ClientID string `json:"clientId,omitempty"`
	CropType string `json:"cropType,omitempty"`
	Location string `json:"location,omitempty"`
}

type sendMessageRequest struct {
	MessageType string             `json:"messageType"`
	Content     sendMessageContent `json:"content"`
	SessionID   *string            `json:"sessionId"`
	Context     SendContext        `json:"context"`
}

type sendMessageContent struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	envelope
	SessionID string `json:"sessionId"`
}

type historyResponse struct {
	envelope
	Messages []model.Message `json:"messages"`
}
