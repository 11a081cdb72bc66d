package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ykvlv/birthday-bot/internal/birthday"
	"github.com/ykvlv/birthday-bot/internal/domain"
)

// --- Core commands ---

func (r *Router) handleStart(ctx context.Context, msg *tgbotapi.Message) string {
	text := privateStartText
	if isGroup(msg.Chat) {
		text = groupStartText
	}
	r.reply(ctx, msg.Chat.ID, text)
	return outcomeOK
}

func (r *Router) handleHelp(ctx context.Context, msg *tgbotapi.Message) string {
	m := tgbotapi.NewMessage(msg.Chat.ID, helpText)
	m.ReplyMarkup = helpKeyboard(r.opts.DocsURL)
	r.send(ctx, msg.Chat.ID, m)
	return outcomeOK
}

// --- Birthday commands ---

// handleAddBirthday: /addbirthday <name> <DD-MM-YYYY>, private chats only.
func (r *Router) handleAddBirthday(ctx context.Context, msg *tgbotapi.Message) string {
	chatID := msg.Chat.ID
	if !msg.Chat.IsPrivate() || msg.From == nil {
		r.reply(ctx, chatID, addWrongContextText)
		return outcomeRejected
	}
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 2 {
		r.reply(ctx, chatID, addUsageText)
		return outcomeRejected
	}
	name, date := args[0], args[1]

	b, err := r.svc.AddPersonal(ctx, msg.From.ID, name, date)
	switch {
	case err == nil:
		r.reply(ctx, chatID, fmt.Sprintf(addOKFmt, b.Name, b.Date))
		return outcomeOK
	case errors.Is(err, domain.ErrInvalidDate):
		r.reply(ctx, chatID, fmt.Sprintf(addInvalidDateFmt, name))
		return outcomeRejected
	case errors.Is(err, birthday.ErrInvalidName):
		r.reply(ctx, chatID, addInvalidNameText)
		return outcomeRejected
	case errors.Is(err, domain.ErrAlreadyExists):
		r.reply(ctx, chatID, fmt.Sprintf(addDuplicateFmt, name, date))
		return outcomeRejected
	default:
		r.log.Error("add personal birthday failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.reply(ctx, chatID, addFailedText)
		return outcomeError
	}
}

// handleMyBirthday: /mybirthday <DD-MM-YYYY>, group chats only.
func (r *Router) handleMyBirthday(ctx context.Context, msg *tgbotapi.Message) string {
	chatID := msg.Chat.ID
	if !isGroup(msg.Chat) || msg.From == nil {
		r.reply(ctx, chatID, myWrongContextText)
		return outcomeRejected
	}
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 1 {
		r.reply(ctx, chatID, myInvalidDateText)
		return outcomeRejected
	}

	_, err := r.svc.AddGroupSelf(ctx, msg.From.ID, chatID, args[0])
	switch {
	case err == nil:
		r.reply(ctx, chatID, myOKText)
		return outcomeOK
	case errors.Is(err, domain.ErrInvalidDate):
		r.reply(ctx, chatID, myInvalidDateText)
		return outcomeRejected
	case errors.Is(err, domain.ErrAlreadyExists):
		r.reply(ctx, chatID, myDuplicateText)
		return outcomeRejected
	default:
		r.log.Error("add group birthday failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.reply(ctx, chatID, myFailedText)
		return outcomeError
	}
}

// handleDeleteBirthday: /deletebirthday <name> in private, /deletebirthday in groups.
func (r *Router) handleDeleteBirthday(ctx context.Context, msg *tgbotapi.Message) string {
	chatID := msg.Chat.ID
	if msg.From == nil {
		return outcomeRejected
	}

	if msg.Chat.IsPrivate() {
		args := strings.Fields(msg.CommandArguments())
		if len(args) == 0 {
			r.reply(ctx, chatID, delMissingNameText)
			return outcomeRejected
		}
		name := args[0]
		err := r.svc.DeletePersonal(ctx, msg.From.ID, name)
		switch {
		case err == nil:
			r.reply(ctx, chatID, fmt.Sprintf(delOKFmt, name))
			return outcomeOK
		case errors.Is(err, domain.ErrNotFound):
			r.reply(ctx, chatID, fmt.Sprintf(delNotFoundFmt, name))
			return outcomeRejected
		default:
			r.log.Error("delete personal birthday failed", zap.Error(err), zap.Int64("chatID", chatID))
			r.reply(ctx, chatID, delFailedText)
			return outcomeError
		}
	}

	err := r.svc.DeleteGroupSelf(ctx, msg.From.ID, chatID)
	switch {
	case err == nil:
		r.reply(ctx, chatID, delGroupOKText)
		return outcomeOK
	case errors.Is(err, domain.ErrNotFound):
		r.reply(ctx, chatID, delGroupNotFoundText)
		return outcomeRejected
	default:
		r.log.Error("delete group birthday failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.reply(ctx, chatID, delFailedText)
		return outcomeError
	}
}

// handleBirthdayList lists the owner's friends in private chats and the members' birthdays in groups.
func (r *Router) handleBirthdayList(ctx context.Context, msg *tgbotapi.Message) string {
	chatID := msg.Chat.ID
	var lines []string

	if isGroup(msg.Chat) {
		list, err := r.svc.ListGroup(ctx, chatID)
		if err != nil {
			r.log.Error("ListGroup failed", zap.Error(err), zap.Int64("chatID", chatID))
			r.reply(ctx, chatID, listFailedText)
			return outcomeError
		}
		for _, b := range list {
			lines = append(lines, fmt.Sprintf("%s: %s", r.memberName(ctx, chatID, b.UserID), b.Date))
		}
	} else {
		if msg.From == nil {
			return outcomeRejected
		}
		list, err := r.svc.ListPersonal(ctx, msg.From.ID)
		if err != nil {
			r.log.Error("ListPersonal failed", zap.Error(err), zap.Int64("chatID", chatID))
			r.reply(ctx, chatID, listFailedText)
			return outcomeError
		}
		for _, b := range list {
			lines = append(lines, fmt.Sprintf("%s: %s", b.Name, b.Date))
		}
	}

	if len(lines) == 0 {
		r.reply(ctx, chatID, listEmptyText)
		return outcomeOK
	}
	r.reply(ctx, chatID, listHeader+strings.Join(lines, "\n"))
	return outcomeOK
}

// memberName resolves a group member for listing; lookup failures degrade to "Unknown".
func (r *Router) memberName(ctx context.Context, chatID, userID int64) string {
	lookupCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()
	m, err := r.client.Member(lookupCtx, chatID, userID)
	if err != nil {
		r.log.Warn("member lookup failed", zap.Error(err), zap.Int64("chatID", chatID), zap.Int64("userID", userID))
		return "Unknown"
	}
	return m.FullName()
}

// --- Owner and analytics commands ---

func (r *Router) handleAnalytics(ctx context.Context, msg *tgbotapi.Message) string {
	chatID := msg.Chat.ID
	if !msg.Chat.IsPrivate() {
		r.reply(ctx, chatID, analyticsWrongContextText)
		return outcomeRejected
	}
	t, err := r.tracker.CountTracked(ctx)
	if err != nil {
		r.log.Error("CountTracked failed", zap.Error(err))
		r.reply(ctx, chatID, analyticsFailedText)
		return outcomeError
	}
	r.metrics.SetTracked(t.Users, t.Groups)
	r.reply(ctx, chatID, fmt.Sprintf(analyticsFmt, t.Users, t.Groups))
	return outcomeOK
}

func (r *Router) isOwner(msg *tgbotapi.Message) bool {
	return msg.Chat.IsPrivate() && msg.From != nil && r.opts.OwnerID != 0 && msg.From.ID == r.opts.OwnerID
}

// handleBroadcast sends the owner's message to every tracked user and group, one at a time.
func (r *Router) handleBroadcast(ctx context.Context, msg *tgbotapi.Message) string {
	chatID := msg.Chat.ID
	if !r.isOwner(msg) {
		r.reply(ctx, chatID, ownerOnlyText)
		return outcomeRejected
	}
	text := strings.TrimSpace(msg.CommandArguments())
	if text == "" {
		r.reply(ctx, chatID, broadcastMissingText)
		return outcomeRejected
	}

	users, err := r.tracker.ListTrackedUsers(ctx)
	if err != nil {
		r.log.Error("ListTrackedUsers failed", zap.Error(err))
		r.reply(ctx, chatID, broadcastFailedText)
		return outcomeError
	}
	groups, err := r.tracker.ListTrackedGroups(ctx)
	if err != nil {
		r.log.Error("ListTrackedGroups failed", zap.Error(err))
		r.reply(ctx, chatID, broadcastFailedText)
		return outcomeError
	}

	id := shortID(uuid.NewString())
	log := r.log.With(zap.String("broadcastID", id))
	var ok, failed int
	for _, target := range append(users, groups...) {
		sendCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
		_, err := r.client.SendText(sendCtx, target, text)
		cancel()
		if err != nil {
			failed++
			log.Warn("broadcast send failed", zap.Error(err), zap.Int64("chatID", target))
			continue
		}
		ok++
	}
	log.Info("broadcast finished", zap.Int("delivered", ok), zap.Int("failed", failed))
	r.reply(ctx, chatID, fmt.Sprintf(broadcastDoneFmt, id, ok, failed))
	return outcomeOK
}

// handleScan runs today's scan immediately; owner only.
func (r *Router) handleScan(ctx context.Context, msg *tgbotapi.Message) string {
	chatID := msg.Chat.ID
	if !r.isOwner(msg) {
		r.reply(ctx, chatID, ownerOnlyText)
		return outcomeRejected
	}
	rep, joined := r.scanner.Trigger(context.WithoutCancel(ctx), r.scanner.Today())
	format := scanDoneFmt
	if joined {
		format = scanJoinedFmt
	}
	r.reply(ctx, chatID, fmt.Sprintf(format,
		shortID(rep.RunID), rep.Date, rep.Matched, rep.Sent, rep.Pinned, rep.Failed, rep.Skipped))
	return outcomeOK
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
