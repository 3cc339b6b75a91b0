package notify_test

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/console/internal/console/auth"
	"github.com/aussiebroadwan/console/internal/console/lifecycle"
	"github.com/aussiebroadwan/console/internal/console/notify"
	"github.com/aussiebroadwan/console/internal/console/store"
	"github.com/aussiebroadwan/console/internal/console/usermgmt"
	"github.com/aussiebroadwan/console/pkg/apiclient"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	var toasts []notify.Toast
	s := store.New(store.WithMiddleware(notify.Middleware(
		notify.NotifierFunc(func(t notify.Toast) { toasts = append(toasts, t) }),
		lifecycle.OpSet{auth.OpGetAccount},
	)))

	h := http.Header{}
	h.Set("X-consoleApp-alert", "userManagement.created")

	s.Dispatch(lifecycle.Notification{Op: usermgmt.OpCreateUser, Phase: lifecycle.Pending})
	s.Dispatch(lifecycle.Notification{
		Op: usermgmt.OpCreateUser, Phase: lifecycle.Fulfilled,
		Payload: &apiclient.Response[apiclient.Account]{Data: apiclient.Account{Login: "jdoe"}, Header: h},
	})
	s.Dispatch(lifecycle.Notification{
		Op: usermgmt.OpGetUsersAsAdmin, Phase: lifecycle.Fulfilled,
		Payload: &apiclient.Response[[]apiclient.Account]{Header: http.Header{}},
	})
	s.Dispatch(lifecycle.Notification{
		Op: usermgmt.OpDeleteUser, Phase: lifecycle.Rejected,
		Err: &lifecycle.SerializedError{Message: "Request failed with status code 500"},
	})
	s.Dispatch(lifecycle.Notification{
		Op: auth.OpGetAccount, Phase: lifecycle.Rejected,
		Err: &lifecycle.SerializedError{Message: "Unauthorized"},
	})
	s.Dispatch(usermgmt.Reset{})

	require.Equal(t, []notify.Toast{
		{Level: notify.Success, Op: usermgmt.OpCreateUser, Message: "userManagement.created"},
		{Level: notify.Error, Op: usermgmt.OpDeleteUser, Message: "Request failed with status code 500"},
	}, toasts)

	// The store still saw everything.
	require.Equal(t, usermgmt.Initial(), s.State().UserManagement)
	require.True(t, s.State().Authentication.SessionHasBeenFetched)
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := notify.NewWriter(&buf)
	w.Notify(notify.Toast{Level: notify.Error, Message: "bad credentials"})
	w.Notify(notify.Toast{Level: notify.Success, Message: "Settings saved!"})

	require.Equal(t, "error: bad credentials\nsuccess: Settings saved!\n", buf.String())
}
