package domain

import "time"

// PersonalBirthday is a friend's birthday kept in a user's private list.
// Name is free text, not a Telegram identity.
type PersonalBirthday struct {
	OwnerID   int64
	Name      string
	Date      string // DD-MM-YYYY
	CreatedAt time.Time
}

// GroupBirthday is a chat member's own birthday registered inside a group.
// At most one exists per (UserID, ChatID).
type GroupBirthday struct {
	UserID    int64
	ChatID    int64
	Date      string // DD-MM-YYYY
	CreatedAt time.Time
}

// Tracked counts identities that have talked to the bot.
type Tracked struct {
	Users  int
	Groups int
}
