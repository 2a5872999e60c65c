// internal/notification/channels.go

package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/imadgeboyega/kiekky-matchmaker/internal/config"
)

// Sender delivers a notification over one channel
type Sender interface {
	Channel() Channel
	Send(ctx context.Context, n *Notification, contact *Contact) error
}

// Pusher is the part of the Hub the in-app channel needs
type Pusher interface {
	Push(ctx context.Context, event Event) error
}

type inAppSender struct {
	repo Repository
	hub  Pusher
}

// NewInAppSender persists notifications and pushes them to connected clients. hub may be nil.
func NewInAppSender(repo Repository, hub Pusher) Sender {
	return &inAppSender{repo: repo, hub: hub}
}

func (s *inAppSender) Channel() Channel { return ChannelInApp }

func (s *inAppSender) Send(ctx context.Context, n *Notification, _ *Contact) error {
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if s.hub == nil {
		return nil
	}

	return s.hub.Push(ctx, Event{
		Type:   EventNotification,
		UserID: n.UserID,
		Data:   n,
	})
}

type emailSender struct {
	provider EmailProvider
}

func NewEmailSender(provider EmailProvider) Sender {
	return &emailSender{provider: provider}
}

func (s *emailSender) Channel() Channel { return ChannelEmail }

func (s *emailSender) Send(ctx context.Context, n *Notification, contact *Contact) error {
	if contact == nil || contact.Email == nil || *contact.Email == "" {
		return nil
	}

	return s.provider.SendEmail(ctx, &EmailMessage{
		To:      *contact.Email,
		ToName:  contact.Name,
		Subject: subjectFor(n.Type),
		Body:    n.Content,
	})
}

type smsSender struct {
	provider SMSProvider
}

func NewSMSSender(provider SMSProvider) Sender {
	return &smsSender{provider: provider}
}

func (s *smsSender) Channel() Channel { return ChannelSMS }

func (s *smsSender) Send(ctx context.Context, n *Notification, contact *Contact) error {
	if contact == nil || contact.Phone == nil || *contact.Phone == "" {
		return nil
	}

	return s.provider.SendSMS(ctx, &SMSMessage{
		To:      *contact.Phone,
		Message: n.Content,
	})
}

func subjectFor(t NotificationType) string {
	switch t {
	case TypeMatch:
		return "You have a new potential match"
	default:
		return "New notification"
	}
}

// SendersFromConfig builds the senders for the configured channels
func SendersFromConfig(cfg *config.Config, repo Repository, hub Pusher) ([]Sender, error) {
	var senders []Sender

	for _, name := range cfg.NotificationChannels {
		switch Channel(name) {
		case ChannelInApp:
			senders = append(senders, NewInAppSender(repo, hub))

		case ChannelEmail:
			var provider EmailProvider
			switch cfg.EmailProvider {
			case "sendgrid":
				provider = NewSendGridEmailProvider(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName)
			default:
				log.Println("[notification] using mock email provider")
				provider = NewMockEmailProvider()
			}
			senders = append(senders, NewEmailSender(provider))

		case ChannelSMS:
			var provider SMSProvider
			switch cfg.SMSProvider {
			case "twilio":
				provider = NewTwilioSMSProvider(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
			default:
				log.Println("[notification] using mock SMS provider")
				provider = NewMockSMSProvider()
			}
			senders = append(senders, NewSMSSender(provider))

		default:
			return nil, fmt.Errorf("%w: %s", ErrInvalidChannel, name)
		}
	}

	return senders, nil
}
