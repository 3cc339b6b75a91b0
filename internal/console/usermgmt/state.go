// Package usermgmt holds the user-administration slice: the paged user
// list, the selected user, the grantable roles and the create, update and
// delete workflows.
package usermgmt

import (
	"github.com/aussiebroadwan/console/internal/console/lifecycle"
	"github.com/aussiebroadwan/console/pkg/apiclient"
)

const (
	OpGetUsers        lifecycle.Op = "userManagement/fetch_users"
	OpGetUsersAsAdmin lifecycle.Op = "userManagement/fetch_users_as_admin"
	OpGetRoles        lifecycle.Op = "userManagement/fetch_roles"
	OpGetUser         lifecycle.Op = "userManagement/fetch_user"
	OpCreateUser      lifecycle.Op = "userManagement/create_user"
	OpUpdateUser      lifecycle.Op = "userManagement/update_user"
	OpDeleteUser      lifecycle.Op = "userManagement/delete_user"
)

var (
	// ListOps replace the user list when they succeed.
	ListOps = lifecycle.OpSet{OpGetUsers, OpGetUsersAsAdmin}
	// FetchOps set loading while in flight.
	FetchOps = lifecycle.OpSet{OpGetUsers, OpGetUsersAsAdmin, OpGetUser}
	// MutationOps set updating while in flight.
	MutationOps = lifecycle.OpSet{OpCreateUser, OpUpdateUser, OpDeleteUser}
	// TrackedOps all fail the same way.
	TrackedOps = lifecycle.OpSet{
		OpGetUsers, OpGetUsersAsAdmin, OpGetUser, OpGetRoles,
		OpCreateUser, OpUpdateUser, OpDeleteUser,
	}
)

// State is the user-management slice.
type State struct {
	Loading      bool
	ErrorMessage string
	// Users is the page last fetched, replaced whole on every fetch.
	Users       []apiclient.Account
	Authorities []string
	// User is the selected account, zero when none is.
	User          apiclient.Account
	Updating      bool
	UpdateSuccess bool
	// TotalCount is the size of the whole list, from X-Total-Count.
	TotalCount int
	// TotalKnown is set once a list response carried a usable total.
	TotalKnown bool
}

// Initial returns the state the slice starts in and resets to.
func Initial() State { return State{} }

// Reset discards everything fetched.
type Reset struct{}

func (Reset) Type() string { return "userManagement/reset" }

// Reduce applies in to s.
func Reduce(s State, in lifecycle.Intent) State {
	switch in := in.(type) {
	case Reset:
		return Initial()
	case lifecycle.Notification:
		return reduceNotification(s, in)
	}
	return s
}

func reduceNotification(s State, n lifecycle.Notification) State {
	switch n.Phase {
	case lifecycle.Pending:
		switch {
		case FetchOps.Has(n.Op):
			s.ErrorMessage = ""
			s.UpdateSuccess = false
			s.Loading = true
		case MutationOps.Has(n.Op):
			s.ErrorMessage = ""
			s.UpdateSuccess = false
			s.Updating = true
		}

	case lifecycle.Rejected:
		if TrackedOps.Has(n.Op) {
			s.Loading = false
			s.Updating = false
			s.UpdateSuccess = false
			s.ErrorMessage = n.ErrorMessage()
		}

	case lifecycle.Fulfilled:
		switch {
		case n.Op == OpGetRoles:
			if resp, ok := lifecycle.PayloadAs[*apiclient.Response[[]string]](n); ok && resp != nil {
				s.Authorities = resp.Data
			}

		case n.Op == OpGetUser:
			s.Loading = false
			if resp, ok := lifecycle.PayloadAs[*apiclient.Response[apiclient.Account]](n); ok && resp != nil {
				s.User = resp.Data
			}

		case n.Op == OpDeleteUser:
			s.Updating = false
			s.UpdateSuccess = true
			s.User = apiclient.Account{}

		case ListOps.Has(n.Op):
			s.Loading = false
			if resp, ok := lifecycle.PayloadAs[*apiclient.Response[[]apiclient.Account]](n); ok && resp != nil {
				s.Users = resp.Data
				// Without a usable header the previous total stands; the
				// workflow reports the missing header to its caller.
				if total, err := resp.TotalCount(); err == nil {
					s.TotalCount = total
					s.TotalKnown = true
				}
			}

		case MutationOps.Has(n.Op):
			s.Updating = false
			s.Loading = false
			s.UpdateSuccess = true
			if resp, ok := lifecycle.PayloadAs[*apiclient.Response[apiclient.Account]](n); ok && resp != nil {
				s.User = resp.Data
			}
		}
	}
	return s
}
