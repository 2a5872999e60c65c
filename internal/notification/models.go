// internal/notification/models.go

package notification

import (
	"time"
)

// NotificationType represents different notification types
type NotificationType string

const (
	TypeMatch   NotificationType = "match"
	TypeMessage NotificationType = "message"
)

// Channel names a delivery route
type Channel string

const (
	ChannelInApp Channel = "inapp"
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Notification is an in-app notice about another user
type Notification struct {
	ID            string           `json:"id" db:"id"`
	UserID        string           `json:"user_id" db:"user_id"`
	Type          NotificationType `json:"type" db:"type"`
	RelatedUserID string           `json:"related_user_id" db:"related_user_id"`
	Content       string           `json:"content" db:"content"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	Read          bool             `json:"read" db:"read"`
}

// Contact holds the delivery addresses of a user. Email and Phone are optional.
type Contact struct {
	UserID string  `db:"id"`
	Name   string  `db:"name"`
	Email  *string `db:"email"`
	Phone  *string `db:"phone"`
}

// EmailMessage is a single outbound email
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// SMSMessage is a single outbound text
type SMSMessage struct {
	To      string
	Message string
}

// Event is pushed to connected websocket clients
type Event struct {
	Type   string      `json:"type"`
	UserID string      `json:"user_id"`
	Data   interface{} `json:"data"`
}

const (
	EventNotification = "notification"
)

// MatchSelectedContent is shown to a user picked as someone's potential match
const MatchSelectedContent = "You've been selected as a potential match!"
