package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ykvlv/birthday-bot/internal/domain"
)

// ErrNameLookup means the member's profile could not be fetched; the record is skipped.
var ErrNameLookup = errors.New("member lookup failed")

const defaultTimeout = 10 * time.Second

// Target is where a reminder goes: a group chat or a user's private chat.
type Target struct {
	ChatID int64
	Group  bool
}

// Delivery describes a sent reminder.
type Delivery struct {
	MessageID int
	Pinned    bool
}

// Notifier composes reminder texts and hands them to the transport.
type Notifier struct {
	tr      Transport
	log     *zap.Logger
	timeout time.Duration
}

// New creates a Notifier. Every transport call is bounded by timeout.
func New(tr Transport, log *zap.Logger, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Notifier{tr: tr, log: log, timeout: timeout}
}

// Notify sends the tier's message to target. A group's day-of wish is also pinned;
// a pin failure is logged and reported through Delivery.Pinned only.
func (n *Notifier) Notify(ctx context.Context, target Target, tier domain.Tier, name string) (Delivery, error) {
	text, err := Compose(target, tier, name)
	if err != nil {
		return Delivery{}, err
	}

	sendCtx, cancel := context.WithTimeout(ctx, n.timeout)
	msgID, err := n.tr.SendText(sendCtx, target.ChatID, text)
	cancel()
	if err != nil {
		return Delivery{}, fmt.Errorf("send to %d: %w", target.ChatID, err)
	}

	d := Delivery{MessageID: msgID}
	if !target.Group || tier != domain.TierToday {
		return d, nil
	}

	pinCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	if err := n.tr.PinMessage(pinCtx, target.ChatID, msgID); err != nil {
		n.log.Warn("pin failed",
			zap.Error(err),
			zap.Int64("chatID", target.ChatID),
			zap.Int("messageID", msgID),
		)
		return d, nil
	}
	d.Pinned = true
	return d, nil
}

// NotifyGroup resolves the member's handle and reminds the group.
func (n *Notifier) NotifyGroup(ctx context.Context, b domain.GroupBirthday, tier domain.Tier) (Delivery, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, n.timeout)
	m, err := n.tr.Member(lookupCtx, b.ChatID, b.UserID)
	cancel()
	if err != nil {
		return Delivery{}, fmt.Errorf("%w: user %d in chat %d: %v", ErrNameLookup, b.UserID, b.ChatID, err)
	}
	return n.Notify(ctx, Target{ChatID: b.ChatID, Group: true}, tier, m.Handle())
}

// NotifyPersonal reminds the list owner in their private chat.
func (n *Notifier) NotifyPersonal(ctx context.Context, b domain.PersonalBirthday, tier domain.Tier) (Delivery, error) {
	return n.Notify(ctx, Target{ChatID: b.OwnerID}, tier, b.Name)
}
