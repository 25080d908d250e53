package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	authdomain "medic-backend/internal/auth/domain"
	notifdomain "medic-backend/internal/notification/domain"
	notifdto "medic-backend/internal/notification/dto"
	"medic-backend/internal/notification/usecase"
	"medic-backend/pkg/fcm"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	users   map[string]*authdomain.User
	lookups int
	err     error
}

func (f *fakeUsers) Create(user *authdomain.User) error { return nil }
func (f *fakeUsers) Update(user *authdomain.User) error { return nil }

func (f *fakeUsers) FindByID(id string) (*authdomain.User, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	return f.users[id], nil
}

type fakeHistory struct {
	records []*notifdomain.NotificationHistory
	err     error
}

func (f *fakeHistory) Create(record *notifdomain.NotificationHistory) error {
	f.records = append(f.records, record)
	return f.err
}

type fakeSender struct {
	sent   []fcm.Message
	result *fcm.Result
	err    error
}

func (f *fakeSender) Send(ctx context.Context, msg fcm.Message) (*fcm.Result, error) {
	f.sent = append(f.sent, msg)
	return f.result, f.err
}

func strPtr(s string) *string { return &s }

type fixture struct {
	users   *fakeUsers
	history *fakeHistory
	sender  *fakeSender
	uc      usecase.DispatchUsecase
}

func newFixture(sender *fakeSender) *fixture {
	f := &fixture{
		users: &fakeUsers{users: map[string]*authdomain.User{
			"E0012345": {ID: "E0012345", Name: "配送員", FCMToken: strPtr("tok_abc")},
			"C0000001": {ID: "C0000001", Name: "田中医院", FCMToken: strPtr("")},
			"C0000002": {ID: "C0000002", Name: "山田クリニック"},
		}},
		history: &fakeHistory{},
		sender:  sender,
	}
	var s fcm.Sender
	if sender != nil {
		s = sender
	}
	f.uc = usecase.NewDispatchUsecase(f.users, f.history, s, fcm.KindWebpush,
		fcm.Presentation{Icon: "/favicon.png", Badge: "/favicon.png"}, zerolog.Nop())
	return f
}

func TestDispatch_SuccessPath(t *testing.T) {
	f := newFixture(&fakeSender{result: &fcm.Result{
		Name: "projects/x/messages/123",
		Raw:  map[string]interface{}{"name": "projects/x/messages/123"},
	}})

	resp, err := f.uc.Dispatch(context.Background(), &notifdto.SendNotificationRequest{
		ReceiverID: "E0012345",
		Title:      "田中医院からメッセージ",
		Body:       "検体あり",
		Data:       map[string]interface{}{"chatId": "C0000001", "count": float64(2)},
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, notifdomain.DeliveryStatusSent, resp.DeliveryStatus)
	assert.Equal(t, "projects/x/messages/123", resp.ProviderResult["name"])

	require.Len(t, f.sender.sent, 1)
	msg := f.sender.sent[0].Firebase()
	assert.Equal(t, "tok_abc", msg.Token)
	assert.Equal(t, "田中医院からメッセージ", msg.Notification.Title)
	assert.Equal(t, map[string]string{"chatId": "C0000001", "count": "2"}, msg.Data)

	require.Len(t, f.history.records, 1)
	rec := f.history.records[0]
	assert.Equal(t, notifdomain.DeliveryStatusSent, rec.DeliveryStatus)
	assert.Equal(t, "E0012345", rec.UserID)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Data, &data))
	assert.Equal(t, "C0000001", data["chatId"])
}

func TestDispatch_NoTokenWritesFailedRecord(t *testing.T) {
	for _, receiver := range []string{"C0000001", "C0000002"} {
		t.Run(receiver, func(t *testing.T) {
			f := newFixture(&fakeSender{})

			resp, err := f.uc.Dispatch(context.Background(), &notifdto.SendNotificationRequest{
				ReceiverID: receiver, Title: "t", Body: "b",
			})
			assert.ErrorIs(t, err, notifdomain.ErrNoToken)
			require.NotNil(t, resp)
			assert.False(t, resp.Success)
			assert.Equal(t, notifdomain.DeliveryStatusFailed, resp.DeliveryStatus)

			assert.Empty(t, f.sender.sent)
			require.Len(t, f.history.records, 1)
			assert.Equal(t, notifdomain.DeliveryStatusFailed, f.history.records[0].DeliveryStatus)
		})
	}
}

func TestDispatch_UnknownUser(t *testing.T) {
	f := newFixture(&fakeSender{})

	_, err := f.uc.Dispatch(context.Background(), &notifdto.SendNotificationRequest{ReceiverID: "nobody", Title: "t", Body: "b"})
	assert.ErrorIs(t, err, notifdomain.ErrUserNotFound)
	assert.Empty(t, f.history.records)
}

func TestDispatch_MissingFieldsNeverTouchRepositories(t *testing.T) {
	cases := []notifdto.SendNotificationRequest{
		{Title: "t", Body: "b"},
		{ReceiverID: "E0012345", Body: "b"},
		{ReceiverID: "E0012345", Title: "t"},
	}
	for _, req := range cases {
		f := newFixture(&fakeSender{})
		req := req
		_, err := f.uc.Dispatch(context.Background(), &req)
		assert.ErrorIs(t, err, notifdomain.ErrInvalidRequest)
		assert.Zero(t, f.users.lookups)
		assert.Empty(t, f.history.records)
	}

	f := newFixture(&fakeSender{})
	_, err := f.uc.Dispatch(context.Background(), nil)
	assert.ErrorIs(t, err, notifdomain.ErrInvalidRequest)
}

func TestDispatch_NotConfigured(t *testing.T) {
	f := newFixture(nil)

	_, err := f.uc.Dispatch(context.Background(), &notifdto.SendNotificationRequest{ReceiverID: "E0012345", Title: "t", Body: "b"})
	assert.ErrorIs(t, err, notifdomain.ErrNotConfigured)
	assert.Zero(t, f.users.lookups)
}

func TestDispatch_ProviderFailureIsRecorded(t *testing.T) {
	f := newFixture(&fakeSender{
		result: &fcm.Result{Raw: map[string]interface{}{"error": map[string]interface{}{"status": "NOT_FOUND"}}},
		err:    &fcm.SendError{StatusCode: 404, Body: "not found"},
	})

	resp, err := f.uc.Dispatch(context.Background(), &notifdto.SendNotificationRequest{ReceiverID: "E0012345", Title: "t", Body: "b"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, notifdomain.DeliveryStatusFailed, resp.DeliveryStatus)
	assert.Contains(t, resp.ProviderResult, "error")

	require.Len(t, f.sender.sent, 1)
	require.Len(t, f.history.records, 1)
	assert.Equal(t, notifdomain.DeliveryStatusFailed, f.history.records[0].DeliveryStatus)
}

func TestDispatch_TransportFailureWithoutResult(t *testing.T) {
	f := newFixture(&fakeSender{err: errors.New("token endpoint unreachable")})

	resp, err := f.uc.Dispatch(context.Background(), &notifdto.SendNotificationRequest{ReceiverID: "E0012345", Title: "t", Body: "b"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "token endpoint unreachable", resp.ProviderResult["error"])
	require.Len(t, f.history.records, 1)
}

func TestDispatch_SuccessWithoutNameCountsAsFailed(t *testing.T) {
	f := newFixture(&fakeSender{result: &fcm.Result{Raw: map[string]interface{}{}}})

	resp, err := f.uc.Dispatch(context.Background(), &notifdto.SendNotificationRequest{ReceiverID: "E0012345", Title: "t", Body: "b"})
	require.NoError(t, err)
	assert.Equal(t, notifdomain.DeliveryStatusFailed, resp.DeliveryStatus)
}

func TestDispatch_HistoryErrorDoesNotFailDispatch(t *testing.T) {
	f := newFixture(&fakeSender{result: &fcm.Result{Name: "projects/x/messages/1", Raw: map[string]interface{}{"name": "projects/x/messages/1"}}})
	f.history.err = errors.New("db down")

	resp, err := f.uc.Dispatch(context.Background(), &notifdto.SendNotificationRequest{ReceiverID: "E0012345", Title: "t", Body: "b"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestDirectNotifier(t *testing.T) {
	ok := newFixture(&fakeSender{result: &fcm.Result{Name: "n", Raw: map[string]interface{}{"name": "n"}}})
	assert.NoError(t, usecase.NewDirectNotifier(ok.uc).Notify(context.Background(),
		&notifdto.SendNotificationRequest{ReceiverID: "E0012345", Title: "t", Body: "b"}))

	failed := newFixture(&fakeSender{err: errors.New("boom")})
	assert.Error(t, usecase.NewDirectNotifier(failed.uc).Notify(context.Background(),
		&notifdto.SendNotificationRequest{ReceiverID: "E0012345", Title: "t", Body: "b"}))
}
