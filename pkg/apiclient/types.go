package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrMissingTotalCount is returned by TotalCount when the response carries
// no usable X-Total-Count header.
var ErrMissingTotalCount = errors.New("apiclient: missing or invalid x-total-count header")

// Response is a decoded API answer together with its headers.
type Response[T any] struct {
	Data       T
	StatusCode int
	Header     http.Header
}

// TotalCount parses the X-Total-Count header of a paged list response.
func (r *Response[T]) TotalCount() (int, error) {
	raw := r.Header.Get("X-Total-Count")
	if raw == "" {
		return 0, ErrMissingTotalCount
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMissingTotalCount, raw)
	}
	return n, nil
}

// Alert returns the success message key the server put in its
// X-<app>-alert header, if any.
func (r *Response[T]) Alert() string {
	return headerWithSuffix(r.Header, "-alert")
}

// Credentials is the body of POST api/authenticate.
type Credentials struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// JWTToken is the body the authenticate endpoint answers with. The same
// token is also sent in the Authorization header.
type JWTToken struct {
	IDToken string `json:"id_token"`
}

// Account is a user account as the API represents it. The same shape is
// used for the current session and for administered users.
type Account struct {
	ID               int64      `json:"id,omitempty"`
	Login            string     `json:"login"`
	FirstName        string     `json:"firstName,omitempty"`
	LastName         string     `json:"lastName,omitempty"`
	Email            string     `json:"email,omitempty"`
	ImageURL         string     `json:"imageUrl,omitempty"`
	Activated        bool       `json:"activated"`
	LangKey          string     `json:"langKey,omitempty"`
	Authorities      []string   `json:"authorities,omitempty"`
	CreatedBy        string     `json:"createdBy,omitempty"`
	CreatedDate      *time.Time `json:"createdDate,omitempty"`
	LastModifiedBy   string     `json:"lastModifiedBy,omitempty"`
	LastModifiedDate *time.Time `json:"lastModifiedDate,omitempty"`
}

// HasAuthority reports whether the account holds the given role.
func (a Account) HasAuthority(role string) bool {
	for _, r := range a.Authorities {
		if r == role {
			return true
		}
	}
	return false
}

// Roles the API grants.
const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// Registration is the body of POST api/register.
type Registration struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
	LangKey  string `json:"langKey"`
}

// KeyAndPassword is the body of POST api/account/reset-password/finish.
type KeyAndPassword struct {
	Key         string `json:"key"`
	NewPassword string `json:"newPassword"`
}

// PasswordChange is the body of POST api/account/change-password.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ListParams selects a page of a user list. Page is 0-based, as the API
// expects it. Sort is "field,direction"; when empty no query string is sent
// and the server applies its own defaults.
type ListParams struct {
	Page int
	Size int
	Sort string
}
