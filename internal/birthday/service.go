// Package birthday validates birthday commands before they reach the store.
package birthday

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ykvlv/birthday-bot/internal/domain"
)

const maxNameLen = 64

var ErrInvalidName = errors.New("invalid name")

// Repo is the subset of store.Repo the service writes through.
type Repo interface {
	AddPersonal(ctx context.Context, b domain.PersonalBirthday) error
	DeletePersonal(ctx context.Context, ownerID int64, name string) error
	ListPersonal(ctx context.Context, ownerID int64) ([]domain.PersonalBirthday, error)
	AddGroup(ctx context.Context, b domain.GroupBirthday) error
	DeleteGroup(ctx context.Context, userID, chatID int64) error
	ListGroup(ctx context.Context, chatID int64) ([]domain.GroupBirthday, error)
}

type Service struct {
	repo Repo
	now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo, now: time.Now}
}

// AddPersonal adds a friend's birthday to owner's private list.
func (s *Service) AddPersonal(ctx context.Context, ownerID int64, name, date string) (domain.PersonalBirthday, error) {
	name, err := ValidateName(name)
	if err != nil {
		return domain.PersonalBirthday{}, err
	}
	d, err := domain.ParseDate(date)
	if err != nil {
		return domain.PersonalBirthday{}, err
	}
	b := domain.PersonalBirthday{
		OwnerID:   ownerID,
		Name:      name,
		Date:      domain.FormatDate(d),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.AddPersonal(ctx, b); err != nil {
		return domain.PersonalBirthday{}, fmt.Errorf("add personal birthday: %w", err)
	}
	return b, nil
}

// AddGroupSelf registers the caller's own birthday in a group chat.
func (s *Service) AddGroupSelf(ctx context.Context, userID, chatID int64, date string) (domain.GroupBirthday, error) {
	d, err := domain.ParseDate(date)
	if err != nil {
		return domain.GroupBirthday{}, err
	}
	b := domain.GroupBirthday{
		UserID:    userID,
		ChatID:    chatID,
		Date:      domain.FormatDate(d),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.AddGroup(ctx, b); err != nil {
		return domain.GroupBirthday{}, fmt.Errorf("add group birthday: %w", err)
	}
	return b, nil
}

func (s *Service) DeletePersonal(ctx context.Context, ownerID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	if err := s.repo.DeletePersonal(ctx, ownerID, name); err != nil {
		return fmt.Errorf("delete personal birthday: %w", err)
	}
	return nil
}

func (s *Service) DeleteGroupSelf(ctx context.Context, userID, chatID int64) error {
	if err := s.repo.DeleteGroup(ctx, userID, chatID); err != nil {
		return fmt.Errorf("delete group birthday: %w", err)
	}
	return nil
}

func (s *Service) ListPersonal(ctx context.Context, ownerID int64) ([]domain.PersonalBirthday, error) {
	return s.repo.ListPersonal(ctx, ownerID)
}

func (s *Service) ListGroup(ctx context.Context, chatID int64) ([]domain.GroupBirthday, error) {
	return s.repo.ListGroup(ctx, chatID)
}

// ValidateName trims a friend's name and checks it fits the single-token command grammar.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidName, maxNameLen)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return "", fmt.Errorf("%w: contains spaces", ErrInvalidName)
	}
	return name, nil
}
