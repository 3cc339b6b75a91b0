package settings_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aussiebroadwan/console/internal/console/lifecycle"
	"github.com/aussiebroadwan/console/internal/console/lifecycle/lifecycletest"
	"github.com/aussiebroadwan/console/internal/console/settings"
	"github.com/aussiebroadwan/console/pkg/apiclient"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	saved apiclient.Account
	err   error
}

func (f *fakeAPI) SaveAccount(_ context.Context, a apiclient.Account) (*apiclient.Response[struct{}], error) {
	f.saved = a
	return &apiclient.Response[struct{}]{StatusCode: 200}, f.err
}

// session records the re-fetch in the same intent stream.
type session struct {
	d     lifecycle.Dispatcher
	calls int
}

func (s *session) GetSession(context.Context) error {
	s.calls++
	s.d.Dispatch(lifecycle.Notification{Op: "authentication/get_account", Phase: lifecycle.Pending})
	return nil
}

func TestSaveThenRefetchesSession(t *testing.T) {
	rec := lifecycletest.NewRecorder(nil)
	api := &fakeAPI{}
	sess := &session{d: rec}
	svc := &settings.Service{Dispatcher: rec, API: api, Session: sess}

	require.NoError(t, svc.Save(context.Background(), apiclient.Account{Login: "admin", FirstName: "Ada"}))
	require.Equal(t, "Ada", api.saved.FirstName)
	require.Equal(t, 1, sess.calls)
	require.Equal(t, []string{
		"settings/update_account/pending",
		"settings/update_account/fulfilled",
		"authentication/get_account/pending",
	}, rec.Types())

	s := settings.Initial()
	for _, in := range rec.Intents() {
		s = settings.Reduce(s, in)
	}
	require.Equal(t, settings.State{UpdateSuccess: true, SuccessMessage: settings.SuccessMessage}, s)
}

func TestSaveRejectedStillRefetches(t *testing.T) {
	rec := lifecycletest.NewRecorder(nil)
	sess := &session{d: rec}
	svc := &settings.Service{Dispatcher: rec, API: &fakeAPI{err: errors.New("boom")}, Session: sess}

	require.Error(t, svc.Save(context.Background(), apiclient.Account{Login: "admin"}))
	require.Equal(t, 1, sess.calls)

	s := settings.Initial()
	for _, in := range rec.Intents() {
		s = settings.Reduce(s, in)
	}
	require.True(t, s.UpdateFailure)
	require.False(t, s.UpdateSuccess)
	require.False(t, s.Loading)
}

func TestReset(t *testing.T) {
	dirty := settings.State{UpdateSuccess: true, SuccessMessage: settings.SuccessMessage}
	once := settings.Reduce(dirty, settings.Reset{})
	require.Equal(t, settings.Initial(), once)
	require.Equal(t, once, settings.Reduce(once, settings.Reset{}))
}
