// Package api is the HTTP client for the Crop Cure assistant service. Every
// call is a single JSON request/response exchange; transport failures are
// returned as wrapped errors, success=false responses as *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cropcure/agrichat/internal/model"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", "", loginRequest{
		Identifier: identifier,
		Password:   password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &LoginResult{OTPPending: resp.OTPPending, Email: resp.Email}, nil
}

func (c *Client) VerifyLoginOTP(ctx context.Context, email, code string) (*VerifyLoginResult, error) {
	var resp verifyLoginOTPResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/verify-otp", "", verifyOTPRequest{
		Email: email,
		Code:  code,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &VerifyLoginResult{Token: resp.Token, Username: resp.User.Username}, nil
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	var resp envelope
	return c.do(ctx, http.MethodPost, "/api/auth/forgot-password", "", forgotPasswordRequest{
		Email: email,
	}, &resp)
}

func (c *Client) VerifyResetOTP(ctx context.Context, email, code string) error {
	var resp envelope
	return c.do(ctx, http.MethodPost, "/api/auth/verify-reset-otp", "", verifyOTPRequest{
		Email: email,
		Code:  code,
	}, &resp)
}

func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	var resp envelope
	return c.do(ctx, http.MethodPost, "/api/auth/reset-password", "", resetPasswordRequest{
		Email:       email,
		Code:        code,
		NewPassword: newPassword,
	}, &resp)
}

// SendMessage submits one user message. sessionID may be empty on the first
// send; the server assigns one and returns it either way.
func (c *Client) SendMessage(ctx context.Context, token, sessionID, text string, sc SendContext) (string, error) {
	req := sendMessageRequest{
		MessageType: "user",
		Content:     sendMessageContent{Text: text},
		Context:     sc,
	}
	if sessionID != "" {
		req.SessionID = &sessionID
	}

	var resp sendMessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat/message", token, req, &resp); err != nil {
		return "", err
	}
	return resp.SessionID, nil
}

func (c *Client) FetchHistory(ctx context.Context, token, sessionID string) ([]model.Message, error) {
	var resp historyResponse
	err := c.do(ctx, http.MethodGet, "/api/chat/history/"+sessionID, token, nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// responder is the envelope view of every decoded response type.
type responder interface {
	outcome() (bool, string)
}

func (e *envelope) outcome() (bool, string) {
	return e.Success, e.Message
}

func (c *Client) do(ctx context.Context, method, path, token string, body any, out responder) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		log.Error().Err(err).Str("op", op).Dur("elapsed", elapsed).Msg("api request failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	// Error statuses still carry the {success, message} envelope, so decode
	// before deciding how to fail.
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error().Err(err).Str("op", op).Int("status", resp.StatusCode).Msg("undecodable api response")
		return fmt.Errorf("%s: decode response (status %d): %w", op, resp.StatusCode, err)
	}

	if ok, msg := out.outcome(); !ok {
		log.Debug().Str("op", op).Int("status", resp.StatusCode).Str("message", msg).Dur("elapsed", elapsed).Msg("api call rejected")
		return &Error{Op: op, Message: msg}
	}

	log.Debug().Str("op", op).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("api call ok")
	return nil
}
