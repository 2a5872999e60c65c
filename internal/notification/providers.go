// internal/notification/providers.go

package notification

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// EmailProvider defines the email provider interface
type EmailProvider interface {
	SendEmail(ctx context.Context, message *EmailMessage) error
}

// SMSProvider defines the SMS provider interface
type SMSProvider interface {
	SendSMS(ctx context.Context, message *SMSMessage) error
}

// SendGridEmailProvider implements EmailProvider using SendGrid
type SendGridEmailProvider struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

// NewSendGridEmailProvider creates a new SendGrid email provider
func NewSendGridEmailProvider(apiKey, from, fromName string) EmailProvider {
	return &SendGridEmailProvider{
		client:   sendgrid.NewSendClient(apiKey),
		from:     from,
		fromName: fromName,
	}
}

// SendEmail sends a plain text email using SendGrid
func (p *SendGridEmailProvider) SendEmail(ctx context.Context, message *EmailMessage) error {
	from := mail.NewEmail(p.fromName, p.from)
	to := mail.NewEmail(message.ToName, message.To)

	email := mail.NewSingleEmail(from, message.Subject, to, message.Body, "")

	response, err := p.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid returned error status: %d", response.StatusCode)
	}

	return nil
}

// TwilioSMSProvider implements SMSProvider using Twilio
type TwilioSMSProvider struct {
	client      *twilio.RestClient
	phoneNumber string
}

// NewTwilioSMSProvider creates a new Twilio SMS provider
func NewTwilioSMSProvider(accountSID, authToken, phoneNumber string) SMSProvider {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioSMSProvider{
		client:      client,
		phoneNumber: phoneNumber,
	}
}

// SendSMS sends an SMS using Twilio
func (p *TwilioSMSProvider) SendSMS(ctx context.Context, message *SMSMessage) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(message.To)
	params.SetFrom(p.phoneNumber)
	params.SetBody(message.Message)

	resp, err := p.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS via Twilio: %w", err)
	}

	if resp.Sid != nil {
		log.Printf("[notification] sent SMS %s", *resp.Sid)
	}

	return nil
}

// MockEmailProvider records emails instead of sending them
type MockEmailProvider struct {
	mu         sync.Mutex
	SentEmails []EmailMessage
}

// NewMockEmailProvider creates a new mock email provider
func NewMockEmailProvider() *MockEmailProvider {
	return &MockEmailProvider{SentEmails: make([]EmailMessage, 0)}
}

// SendEmail mocks sending an email
func (p *MockEmailProvider) SendEmail(ctx context.Context, message *EmailMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SentEmails = append(p.SentEmails, *message)
	return nil
}

// Sent returns a copy of the recorded emails
func (p *MockEmailProvider) Sent() []EmailMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]EmailMessage(nil), p.SentEmails...)
}

// MockSMSProvider records texts instead of sending them
type MockSMSProvider struct {
	mu           sync.Mutex
	SentMessages []SMSMessage
}

// NewMockSMSProvider creates a new mock SMS provider
func NewMockSMSProvider() *MockSMSProvider {
	return &MockSMSProvider{SentMessages: make([]SMSMessage, 0)}
}

// SendSMS mocks sending an SMS
func (p *MockSMSProvider) SendSMS(ctx context.Context, message *SMSMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SentMessages = append(p.SentMessages, *message)
	return nil
}

// Sent returns a copy of the recorded texts
func (p *MockSMSProvider) Sent() []SMSMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]SMSMessage(nil), p.SentMessages...)
}
