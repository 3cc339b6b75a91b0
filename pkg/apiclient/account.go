package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Authenticate submits credentials. On success the bearer credential is in
// the Authorization response header.
func (c *Client) Authenticate(ctx context.Context, creds Credentials) (*Response[JWTToken], error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "api/authenticate", creds)
	if err != nil {
		return nil, err
	}
	return decodeJSON[JWTToken](resp)
}

// GetAccount fetches the account of the current session.
func (c *Client) GetAccount(ctx context.Context) (*Response[Account], error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "api/account", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON[Account](resp)
}

// SaveAccount updates the current account's settings. The API answers with
// an empty body; callers re-fetch the account to see the result.
func (c *Client) SaveAccount(ctx context.Context, account Account) (*Response[struct{}], error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "api/account", account)
	if err != nil {
		return nil, err
	}
	return discardBody(resp)
}

// Register creates a new, not yet activated, account.
func (c *Client) Register(ctx context.Context, reg Registration) (*Response[struct{}], error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "api/register", reg)
	if err != nil {
		return nil, err
	}
	return discardBody(resp)
}

// Activate activates a registered account with the key mailed to its owner.
func (c *Client) Activate(ctx context.Context, key string) (*Response[struct{}], error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "api/activate?key="+url.QueryEscape(key), nil, nil)
	if err != nil {
		return nil, err
	}
	return discardBody(resp)
}

// ResetPasswordInit asks for a reset mail. The address is sent as a
// text/plain body, not JSON.
func (c *Client) ResetPasswordInit(ctx context.Context, email string) (*Response[struct{}], error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "api/account/reset-password/init",
		strings.NewReader(email),
		map[string]string{"Content-Type": "text/plain"},
	)
	if err != nil {
		return nil, err
	}
	return discardBody(resp)
}

// ResetPasswordFinish sets a new password using the mailed reset key.
func (c *Client) ResetPasswordFinish(ctx context.Context, kp KeyAndPassword) (*Response[struct{}], error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "api/account/reset-password/finish", kp)
	if err != nil {
		return nil, err
	}
	return discardBody(resp)
}

// ChangePassword changes the current account's password.
func (c *Client) ChangePassword(ctx context.Context, pc PasswordChange) (*Response[struct{}], error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "api/account/change-password", pc)
	if err != nil {
		return nil, err
	}
	return discardBody(resp)
}
