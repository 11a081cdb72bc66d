package store

import (
	"context"

	"github.com/ykvlv/birthday-bot/internal/domain"
)

// Repo defines storage operations for birthdays and tracked identities.
// Add* return domain.ErrAlreadyExists on a uniqueness conflict;
// Delete* return domain.ErrNotFound when nothing matched.
type Repo interface {
	AddPersonal(ctx context.Context, b domain.PersonalBirthday) error
	DeletePersonal(ctx context.Context, ownerID int64, name string) error
	ListPersonal(ctx context.Context, ownerID int64) ([]domain.PersonalBirthday, error)
	FindPersonalByDayMonth(ctx context.Context, key string) ([]domain.PersonalBirthday, error)

	AddGroup(ctx context.Context, b domain.GroupBirthday) error
	DeleteGroup(ctx context.Context, userID, chatID int64) error
	ListGroup(ctx context.Context, chatID int64) ([]domain.GroupBirthday, error)
	FindGroupByDayMonth(ctx context.Context, key string) ([]domain.GroupBirthday, error)

	TrackUser(ctx context.Context, userID int64) error
	TrackGroup(ctx context.Context, chatID int64) error
	CountTracked(ctx context.Context) (domain.Tracked, error)
	ListTrackedUsers(ctx context.Context) ([]int64, error)
	ListTrackedGroups(ctx context.Context) ([]int64, error)

	Close() error
}
