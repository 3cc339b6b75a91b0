package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListUsers lists public user views (GET api/users).
func (c *Client) ListUsers(ctx context.Context, p ListParams) (*Response[[]Account], error) {
	return c.listUsers(ctx, "api/users", p)
}

// ListUsersAsAdmin lists full user records (GET api/admin/users).
func (c *Client) ListUsersAsAdmin(ctx context.Context, p ListParams) (*Response[[]Account], error) {
	return c.listUsers(ctx, "api/admin/users", p)
}

func (c *Client) listUsers(ctx context.Context, path string, p ListParams) (*Response[[]Account], error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path+p.query(), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON[[]Account](resp)
}

// query renders the page selection. Nothing is sent without a sort key.
func (p ListParams) query() string {
	if p.Sort == "" {
		return ""
	}
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("size", strconv.Itoa(p.Size))
	v.Set("sort", p.Sort)
	return "?" + v.Encode()
}

// GetAuthorities lists the roles that can be granted.
func (c *Client) GetAuthorities(ctx context.Context) (*Response[[]string], error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "api/authorities", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON[[]string](resp)
}

// GetUser fetches one user by login.
func (c *Client) GetUser(ctx context.Context, login string) (*Response[Account], error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "api/admin/users/"+url.PathEscape(login), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON[Account](resp)
}

// CreateUser creates a user. The account must not carry an id.
func (c *Client) CreateUser(ctx context.Context, user Account) (*Response[Account], error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "api/admin/users", user)
	if err != nil {
		return nil, err
	}
	return decodeJSON[Account](resp)
}

// UpdateUser replaces an existing user.
func (c *Client) UpdateUser(ctx context.Context, user Account) (*Response[Account], error) {
	resp, err := c.doJSON(ctx, http.MethodPut, "api/admin/users", user)
	if err != nil {
		return nil, err
	}
	return decodeJSON[Account](resp)
}

// DeleteUser deletes a user by login.
func (c *Client) DeleteUser(ctx context.Context, login string) (*Response[struct{}], error) {
	resp, err := c.doRequest(ctx, http.MethodDelete, "api/admin/users/"+url.PathEscape(login), nil, nil)
	if err != nil {
		return nil, err
	}
	return discardBody(resp)
}
