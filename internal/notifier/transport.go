package notifier

import (
	"context"
	"strings"
)

//go:generate mockgen -source=transport.go -destination=mocks/transport.go -package=mocks Transport

// Transport is the chat capability the notifier needs. The Telegram router implements it.
type Transport interface {
	// SendText posts text to chatID and returns the new message id.
	SendText(ctx context.Context, chatID int64, text string) (int, error)
	PinMessage(ctx context.Context, chatID int64, messageID int) error
	// Member looks up a chat member's public profile.
	Member(ctx context.Context, chatID, userID int64) (Member, error)
}

// Member is the public profile of a chat member.
type Member struct {
	Username  string
	FirstName string
	LastName  string
}

// Handle is how a member is tagged in group messages: @username when set, else the first name.
func (m Member) Handle() string {
	if m.Username != "" {
		return "@" + m.Username
	}
	if m.FirstName != "" {
		return m.FirstName
	}
	return "Unknown"
}

// FullName is @username when set, else "First Last".
func (m Member) FullName() string {
	if m.Username != "" {
		return "@" + m.Username
	}
	name := strings.TrimSpace(m.FirstName + " " + m.LastName)
	if name == "" {
		return "Unknown"
	}
	return name
}
