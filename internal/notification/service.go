// internal/notification/service.go

package notification

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
)

var (
	ErrInvalidChannel = errors.New("invalid delivery channel")
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type Service interface {
	// NotifyMatchSelected tells selectedID that ownerID's matching picked them.
	// Delivery is best-effort: every channel is attempted and failures are joined.
	NotifyMatchSelected(ctx context.Context, selectedID, ownerID string) error
	Send(ctx context.Context, n *Notification) error
	GetNotifications(ctx context.Context, userID string, limit int, unreadOnly bool) ([]*Notification, error)
	MarkAsRead(ctx context.Context, notificationID, userID string) error
}

type service struct {
	repo    Repository
	senders []Sender
}

func NewService(repo Repository, senders ...Sender) Service {
	return &service{repo: repo, senders: senders}
}

func (s *service) NotifyMatchSelected(ctx context.Context, selectedID, ownerID string) error {
	return s.Send(ctx, &Notification{
		UserID:        selectedID,
		Type:          TypeMatch,
		RelatedUserID: ownerID,
		Content:       MatchSelectedContent,
	})
}

func (s *service) Send(ctx context.Context, n *Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	var contact *Contact
	if s.needsContact() {
		c, err := s.repo.GetContact(ctx, n.UserID)
		if err != nil && !errors.Is(err, ErrContactNotFound) {
			log.Printf("[notification] contact lookup for %s failed: %v", n.UserID, err)
		}
		contact = c
	}

	var errs []error
	for _, sender := range s.senders {
		if err := sender.Send(ctx, n, contact); err != nil {
			log.Printf("[notification] %s delivery to %s failed: %v", sender.Channel(), n.UserID, err)
			errs = append(errs, fmt.Errorf("%s: %w", sender.Channel(), err))
		}
	}

	return errors.Join(errs...)
}

func (s *service) needsContact() bool {
	for _, sender := range s.senders {
		if sender.Channel() != ChannelInApp {
			return true
		}
	}
	return false
}

func (s *service) GetNotifications(ctx context.Context, userID string, limit int, unreadOnly bool) ([]*Notification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	return s.repo.GetUserNotifications(ctx, userID, limit, unreadOnly)
}

func (s *service) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}
