package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/kiekky-matchmaker/internal/config"
)

type memRepository struct {
	mu            sync.Mutex
	notifications []*Notification
	contacts      map[string]*Contact
	createErr     error
}

func newMemRepository() *memRepository {
	return &memRepository{contacts: make(map[string]*Contact)}
}

func (m *memRepository) CreateNotification(ctx context.Context, n *Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	n.CreatedAt = time.Now()
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *memRepository) GetUserNotifications(ctx context.Context, userID string, limit int, unreadOnly bool) ([]*Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*Notification{}
	for _, n := range m.notifications {
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, n)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memRepository) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == notificationID && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return ErrNotificationNotFound
}

func (m *memRepository) GetContact(ctx context.Context, userID string) (*Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contacts[userID]
	if !ok {
		return nil, ErrContactNotFound
	}
	return c, nil
}

type recordingPusher struct {
	events []Event
}

func (p *recordingPusher) Push(ctx context.Context, event Event) error {
	p.events = append(p.events, event)
	return nil
}

type failingSender struct{}

func (failingSender) Channel() Channel { return ChannelEmail }

func (failingSender) Send(ctx context.Context, n *Notification, contact *Contact) error {
	return errors.New("smtp down")
}

func strPtr(s string) *string { return &s }

func TestNotifyMatchSelected_AllChannels(t *testing.T) {
	repo := newMemRepository()
	repo.contacts["bob"] = &Contact{UserID: "bob", Name: "Bob", Email: strPtr("bob@example.com"), Phone: strPtr("+15550100")}

	pusher := &recordingPusher{}
	email := NewMockEmailProvider()
	sms := NewMockSMSProvider()

	svc := NewService(repo,
		NewInAppSender(repo, pusher),
		NewEmailSender(email),
		NewSMSSender(sms),
	)

	require.NoError(t, svc.NotifyMatchSelected(context.Background(), "bob", "alice"))

	require.Len(t, repo.notifications, 1)
	n := repo.notifications[0]
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "bob", n.UserID)
	assert.Equal(t, "alice", n.RelatedUserID)
	assert.Equal(t, TypeMatch, n.Type)
	assert.Equal(t, MatchSelectedContent, n.Content)
	assert.False(t, n.Read)

	require.Len(t, pusher.events, 1)
	assert.Equal(t, EventNotification, pusher.events[0].Type)
	assert.Equal(t, "bob", pusher.events[0].UserID)

	require.Len(t, email.Sent(), 1)
	assert.Equal(t, "bob@example.com", email.Sent()[0].To)
	assert.Equal(t, MatchSelectedContent, email.Sent()[0].Body)

	require.Len(t, sms.Sent(), 1)
	assert.Equal(t, "+15550100", sms.Sent()[0].To)
}

func TestSend_SkipsChannelsWithoutAddress(t *testing.T) {
	repo := newMemRepository()
	repo.contacts["bob"] = &Contact{UserID: "bob", Name: "Bob"}

	email := NewMockEmailProvider()
	sms := NewMockSMSProvider()
	svc := NewService(repo, NewInAppSender(repo, nil), NewEmailSender(email), NewSMSSender(sms))

	require.NoError(t, svc.NotifyMatchSelected(context.Background(), "bob", "alice"))

	assert.Len(t, repo.notifications, 1)
	assert.Empty(t, email.Sent())
	assert.Empty(t, sms.Sent())
}

func TestSend_UnknownContactStillDeliversInApp(t *testing.T) {
	repo := newMemRepository()
	email := NewMockEmailProvider()
	svc := NewService(repo, NewInAppSender(repo, nil), NewEmailSender(email))

	require.NoError(t, svc.NotifyMatchSelected(context.Background(), "ghost", "alice"))

	assert.Len(t, repo.notifications, 1)
	assert.Empty(t, email.Sent())
}

func TestSend_FailuresAreJoinedAndOtherChannelsRun(t *testing.T) {
	repo := newMemRepository()
	repo.contacts["bob"] = &Contact{UserID: "bob", Phone: strPtr("+15550100")}
	sms := NewMockSMSProvider()

	svc := NewService(repo, failingSender{}, NewInAppSender(repo, nil), NewSMSSender(sms))

	err := svc.NotifyMatchSelected(context.Background(), "bob", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "smtp down")

	assert.Len(t, repo.notifications, 1)
	assert.Len(t, sms.Sent(), 1)
}

func TestSend_InAppStoreFailure(t *testing.T) {
	repo := newMemRepository()
	repo.createErr = errors.New("db down")
	pusher := &recordingPusher{}

	svc := NewService(repo, NewInAppSender(repo, pusher))

	err := svc.NotifyMatchSelected(context.Background(), "bob", "alice")
	require.Error(t, err)
	assert.Empty(t, pusher.events)
}

func TestGetNotifications_Limits(t *testing.T) {
	repo := newMemRepository()
	svc := NewService(repo, NewInAppSender(repo, nil))

	for i := 0; i < 25; i++ {
		require.NoError(t, svc.NotifyMatchSelected(context.Background(), "bob", "alice"))
	}

	list, err := svc.GetNotifications(context.Background(), "bob", 0, false)
	require.NoError(t, err)
	assert.Len(t, list, defaultListLimit)

	list, err = svc.GetNotifications(context.Background(), "bob", 1000, false)
	require.NoError(t, err)
	assert.Len(t, list, 25)

	require.NoError(t, svc.MarkAsRead(context.Background(), list[0].ID, "bob"))
	unread, err := svc.GetNotifications(context.Background(), "bob", 100, true)
	require.NoError(t, err)
	assert.Len(t, unread, 24)

	assert.ErrorIs(t, svc.MarkAsRead(context.Background(), list[0].ID, "mallory"), ErrNotificationNotFound)
}

func TestSendersFromConfig(t *testing.T) {
	repo := newMemRepository()

	cfg := &config.Config{
		NotificationChannels: []string{"inapp", "email", "sms"},
		EmailProvider:        "mock",
		SMSProvider:          "mock",
	}
	senders, err := SendersFromConfig(cfg, repo, nil)
	require.NoError(t, err)
	require.Len(t, senders, 3)
	assert.Equal(t, ChannelInApp, senders[0].Channel())
	assert.Equal(t, ChannelEmail, senders[1].Channel())
	assert.Equal(t, ChannelSMS, senders[2].Channel())

	cfg.NotificationChannels = []string{"pigeon"}
	_, err = SendersFromConfig(cfg, repo, nil)
	assert.ErrorIs(t, err, ErrInvalidChannel)
}
