package usermgmt

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/console/internal/console/lifecycle"
	"github.com/aussiebroadwan/console/internal/console/pagination"
	"github.com/aussiebroadwan/console/pkg/apiclient"
	"github.com/aussiebroadwan/console/pkg/slogx"
)

// API is the user administration part of *apiclient.Client.
type API interface {
	ListUsers(ctx context.Context, p apiclient.ListParams) (*apiclient.Response[[]apiclient.Account], error)
	ListUsersAsAdmin(ctx context.Context, p apiclient.ListParams) (*apiclient.Response[[]apiclient.Account], error)
	GetAuthorities(ctx context.Context) (*apiclient.Response[[]string], error)
	GetUser(ctx context.Context, login string) (*apiclient.Response[apiclient.Account], error)
	CreateUser(ctx context.Context, user apiclient.Account) (*apiclient.Response[apiclient.Account], error)
	UpdateUser(ctx context.Context, user apiclient.Account) (*apiclient.Response[apiclient.Account], error)
	DeleteUser(ctx context.Context, login string) (*apiclient.Response[struct{}], error)
}

// Store is where the slice lives. The workflows read it for the list total
// when choosing the page to re-fetch.
type Store interface {
	lifecycle.Dispatcher
	UserManagement() State
}

type listResult = lifecycle.Outcome[*apiclient.Response[[]apiclient.Account]]

// Service runs the user-management workflows. Pages is the list view's
// query, re-used by every re-fetch after a mutation.
type Service struct {
	Store Store
	API   API
	Pages *pagination.Synchronizer
}

// GetUsers fetches the public user list. A response without a usable
// X-Total-Count header is still applied but reported as an error wrapping
// apiclient.ErrMissingTotalCount.
func (s *Service) GetUsers(ctx context.Context, p apiclient.ListParams) (*apiclient.Response[[]apiclient.Account], error) {
	resp, err := lifecycle.Run(ctx, s.Store, OpGetUsers, p, s.API.ListUsers)
	return checkTotal(resp, err)
}

// GetUsersAsAdmin fetches one page of the full user list.
func (s *Service) GetUsersAsAdmin(ctx context.Context, q pagination.Query) (*apiclient.Response[[]apiclient.Account], error) {
	resp, err := lifecycle.Run(ctx, s.Store, OpGetUsersAsAdmin, q.Params(), s.API.ListUsersAsAdmin)
	return checkTotal(resp, err)
}

// List fetches the page the list view is on.
func (s *Service) List(ctx context.Context) (*apiclient.Response[[]apiclient.Account], error) {
	return s.GetUsersAsAdmin(ctx, s.Pages.Query())
}

// GetRoles fetches the roles an administrator can grant.
func (s *Service) GetRoles(ctx context.Context) (*apiclient.Response[[]string], error) {
	return lifecycle.Run(ctx, s.Store, OpGetRoles, struct{}{},
		func(ctx context.Context, _ struct{}) (*apiclient.Response[[]string], error) {
			return s.API.GetAuthorities(ctx)
		})
}

// GetUser selects the user with login.
func (s *Service) GetUser(ctx context.Context, login string) (*apiclient.Response[apiclient.Account], error) {
	return lifecycle.Run(ctx, s.Store, OpGetUser, login, s.API.GetUser)
}

// Create creates user and re-fetches the list once.
func (s *Service) Create(ctx context.Context, user apiclient.Account) (*apiclient.Response[apiclient.Account], error) {
	return mutate(ctx, s, OpCreateUser, user, 1, s.API.CreateUser)
}

// Update saves user and re-fetches the list once.
func (s *Service) Update(ctx context.Context, user apiclient.Account) (*apiclient.Response[apiclient.Account], error) {
	return mutate(ctx, s, OpUpdateUser, user, 0, s.API.UpdateUser)
}

// Delete deletes the user with login and re-fetches the list once. When
// that empties the last page, the page before it is fetched instead.
func (s *Service) Delete(ctx context.Context, login string) error {
	_, err := mutate(ctx, s, OpDeleteUser, login, -1, s.API.DeleteUser)
	return err
}

// ToggleActivated flips the activation of user.
func (s *Service) ToggleActivated(ctx context.Context, user apiclient.Account) (*apiclient.Response[apiclient.Account], error) {
	user.Activated = !user.Activated
	return s.Update(ctx, user)
}

// Reset drops the list, the selected user and the roles.
func (s *Service) Reset() { s.Store.Dispatch(Reset{}) }

// mutate runs a mutation. Once the server has accepted it, the list
// re-fetch is started before the mutation settles, so the fetch's pending
// phase comes first and cannot clear the mutation's success flag. The
// re-fetch is awaited before returning.
func mutate[In, Out any](ctx context.Context, s *Service, op lifecycle.Op, arg In, delta int, fn lifecycle.Func[In, Out]) (Out, error) {
	var refetch <-chan listResult

	out, err := lifecycle.Run(ctx, s.Store, op, arg, func(ctx context.Context, arg In) (Out, error) {
		v, err := fn(ctx, arg)
		if err == nil {
			refetch = s.startRefetch(ctx, delta)
		}
		return v, err
	})
	if err != nil {
		return out, err
	}

	res := <-refetch
	if _, err := checkTotal(res.Value, res.Err); err != nil {
		return out, fmt.Errorf("re-fetch user list: %w", err)
	}
	return out, nil
}

// startRefetch clamps the list query to the pages that will exist once the
// list has grown by delta, and fetches it. Before any total is known the
// query is fetched as it stands.
func (s *Service) startRefetch(ctx context.Context, delta int) <-chan listResult {
	q := s.Pages.Query()
	if st := s.Store.UserManagement(); st.TotalKnown {
		total := max(st.TotalCount+delta, 0)
		q = s.Pages.Update(func(q pagination.Query) pagination.Query { return q.Clamp(total) })
	}

	slogx.FromContext(ctx).Debug("re-fetching user list", "page", q.Page, "sort", q.Sort, "order", q.Order)
	return lifecycle.Start(ctx, s.Store, OpGetUsersAsAdmin, q.Params(), s.API.ListUsersAsAdmin)
}

func checkTotal(resp *apiclient.Response[[]apiclient.Account], err error) (*apiclient.Response[[]apiclient.Account], error) {
	if err != nil {
		return resp, err
	}
	if _, err := resp.TotalCount(); err != nil {
		return resp, err
	}
	return resp, nil
}
