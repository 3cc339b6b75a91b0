package usermgmt_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/console/internal/console/lifecycle"
	"github.com/aussiebroadwan/console/internal/console/usermgmt"
	"github.com/aussiebroadwan/console/pkg/apiclient"
	"github.com/stretchr/testify/require"
)

func listPayload(total string, users ...apiclient.Account) *apiclient.Response[[]apiclient.Account] {
	h := http.Header{}
	if total != "" {
		h.Set("X-Total-Count", total)
	}
	return &apiclient.Response[[]apiclient.Account]{Data: users, StatusCode: 200, Header: h}
}

func TestListFulfilledReplacesUsers(t *testing.T) {
	u1 := apiclient.Account{Login: "admin", Activated: true}
	u2 := apiclient.Account{Login: "user", Activated: true}

	s := usermgmt.State{Users: []apiclient.Account{{Login: "stale"}}, TotalCount: 9}
	s = usermgmt.Reduce(s, lifecycle.Notification{Op: usermgmt.OpGetUsersAsAdmin, Phase: lifecycle.Pending})
	require.True(t, s.Loading)

	s = usermgmt.Reduce(s, lifecycle.Notification{
		Op:      usermgmt.OpGetUsersAsAdmin,
		Phase:   lifecycle.Fulfilled,
		Payload: listPayload("2", u1, u2),
	})
	require.Equal(t, []apiclient.Account{u1, u2}, s.Users)
	require.Equal(t, 2, s.TotalCount)
	require.True(t, s.TotalKnown)
	require.False(t, s.Loading)
}

func TestListWithoutTotalKeepsPreviousTotal(t *testing.T) {
	s := usermgmt.State{TotalCount: 7}
	for _, total := range []string{"", "seven", "-1"} {
		next := usermgmt.Reduce(s, lifecycle.Notification{
			Op:      usermgmt.OpGetUsers,
			Phase:   lifecycle.Fulfilled,
			Payload: listPayload(total, apiclient.Account{Login: "admin"}),
		})
		require.Equal(t, 7, next.TotalCount, total)
		require.False(t, next.TotalKnown, total)
		require.Len(t, next.Users, 1)
	}
}

func TestPendingGroups(t *testing.T) {
	start := usermgmt.State{ErrorMessage: "old", UpdateSuccess: true}

	for _, op := range usermgmt.FetchOps {
		s := usermgmt.Reduce(start, lifecycle.Notification{Op: op, Phase: lifecycle.Pending})
		require.True(t, s.Loading, op)
		require.False(t, s.Updating, op)
		require.Empty(t, s.ErrorMessage, op)
		require.False(t, s.UpdateSuccess, op)
	}
	for _, op := range usermgmt.MutationOps {
		s := usermgmt.Reduce(start, lifecycle.Notification{Op: op, Phase: lifecycle.Pending})
		require.True(t, s.Updating, op)
		require.False(t, s.Loading, op)
		require.Empty(t, s.ErrorMessage, op)
		require.False(t, s.UpdateSuccess, op)
	}

	// Fetching roles is not tracked as loading.
	s := usermgmt.Reduce(start, lifecycle.Notification{Op: usermgmt.OpGetRoles, Phase: lifecycle.Pending})
	require.Equal(t, start, s)
}

func TestAnyRejectionIsUniform(t *testing.T) {
	users := []apiclient.Account{{Login: "admin"}}
	selected := apiclient.Account{Login: "user"}

	for _, op := range usermgmt.TrackedOps {
		s := usermgmt.State{Loading: true, Updating: true, UpdateSuccess: true, Users: users, User: selected}
		s = usermgmt.Reduce(s, lifecycle.Notification{
			Op:    op,
			Phase: lifecycle.Rejected,
			Err:   &lifecycle.SerializedError{Message: "Request failed with status code 500"},
		})
		require.Equal(t, usermgmt.State{
			ErrorMessage: "Request failed with status code 500",
			Users:        users,
			User:         selected,
		}, s, op)
	}
}

func TestSingleUserOperations(t *testing.T) {
	user := apiclient.Account{Login: "jdoe", Email: "jdoe@example.com"}
	one := &apiclient.Response[apiclient.Account]{Data: user, StatusCode: 200}

	s := usermgmt.Reduce(usermgmt.State{Loading: true}, lifecycle.Notification{
		Op: usermgmt.OpGetUser, Phase: lifecycle.Fulfilled, Payload: one,
	})
	require.Equal(t, usermgmt.State{User: user}, s)

	for _, op := range []lifecycle.Op{usermgmt.OpCreateUser, usermgmt.OpUpdateUser} {
		s = usermgmt.Reduce(usermgmt.State{Updating: true, Loading: true}, lifecycle.Notification{
			Op: op, Phase: lifecycle.Fulfilled, Payload: one,
		})
		require.Equal(t, usermgmt.State{User: user, UpdateSuccess: true}, s, op)
	}

	s = usermgmt.Reduce(usermgmt.State{Updating: true, User: user}, lifecycle.Notification{
		Op: usermgmt.OpDeleteUser, Phase: lifecycle.Fulfilled, Payload: &apiclient.Response[struct{}]{StatusCode: 204},
	})
	require.Equal(t, usermgmt.State{UpdateSuccess: true}, s)

	s = usermgmt.Reduce(usermgmt.State{}, lifecycle.Notification{
		Op: usermgmt.OpGetRoles, Phase: lifecycle.Fulfilled,
		Payload: &apiclient.Response[[]string]{Data: []string{apiclient.RoleAdmin, apiclient.RoleUser}},
	})
	require.Equal(t, []string{apiclient.RoleAdmin, apiclient.RoleUser}, s.Authorities)
}

func TestReset(t *testing.T) {
	dirty := usermgmt.State{Loading: true, TotalCount: 4, TotalKnown: true, Users: []apiclient.Account{{Login: "a"}}, Authorities: []string{"ROLE_USER"}}
	once := usermgmt.Reduce(dirty, usermgmt.Reset{})
	require.Equal(t, usermgmt.Initial(), once)
	require.Equal(t, once, usermgmt.Reduce(once, usermgmt.Reset{}))
}
