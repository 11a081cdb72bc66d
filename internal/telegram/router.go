package telegram

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ykvlv/birthday-bot/internal/birthday"
	"github.com/ykvlv/birthday-bot/internal/domain"
	"github.com/ykvlv/birthday-bot/internal/metrics"
	"github.com/ykvlv/birthday-bot/internal/scheduler"
)

const (
	callbackAbout   = "about"
	callbackSupport = "support"
)

// Command outcomes reported to metrics.
const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// Tracker persists the identities that talk to the bot.
type Tracker interface {
	TrackUser(ctx context.Context, userID int64) error
	TrackGroup(ctx context.Context, chatID int64) error
	CountTracked(ctx context.Context) (domain.Tracked, error)
	ListTrackedUsers(ctx context.Context) ([]int64, error)
	ListTrackedGroups(ctx context.Context) ([]int64, error)
}

// Scanner runs the daily scan on demand.
type Scanner interface {
	Trigger(ctx context.Context, today time.Time) (scheduler.Report, bool)
	Today() time.Time
}

// Options carry the router's static settings.
type Options struct {
	OwnerID int64
	DocsURL string
	Timeout time.Duration // per outbound call
}

// Router wires Telegram updates to handlers. It keeps no per-chat state.
type Router struct {
	client  *Client
	log     *zap.Logger
	svc     *birthday.Service
	tracker Tracker
	scanner Scanner
	metrics *metrics.Metrics
	opts    Options
}

// NewRouter creates a new Telegram router.
func NewRouter(client *Client, log *zap.Logger, svc *birthday.Service, tracker Tracker, scanner Scanner, m *metrics.Metrics, opts Options) *Router {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Router{
		client:  client,
		log:     log,
		svc:     svc,
		tracker: tracker,
		scanner: scanner,
		metrics: m,
		opts:    opts,
	}
}

// HandleUpdate routes a single update to appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	// Text messages
	if upd.Message != nil {
		msg := upd.Message
		if msg.Chat == nil {
			return
		}
		r.track(ctx, msg)

		if msg.Sticker != nil {
			r.reply(ctx, msg.Chat.ID, "👍")
			return
		}
		if !msg.IsCommand() {
			return
		}

		cmd := strings.ToLower(msg.Command())
		var outcome string
		switch cmd {
		case "start":
			outcome = r.handleStart(ctx, msg)
		case "addbirthday":
			outcome = r.handleAddBirthday(ctx, msg)
		case "mybirthday":
			outcome = r.handleMyBirthday(ctx, msg)
		case "deletebirthday":
			outcome = r.handleDeleteBirthday(ctx, msg)
		case "birthdaylist":
			outcome = r.handleBirthdayList(ctx, msg)
		case "help":
			outcome = r.handleHelp(ctx, msg)
		case "analytics":
			outcome = r.handleAnalytics(ctx, msg)
		case "broadcast":
			outcome = r.handleBroadcast(ctx, msg)
		case "scan":
			outcome = r.handleScan(ctx, msg)
		default:
			// Unknown command: ignore silently
			return
		}
		r.metrics.CommandHandled(cmd, outcome)
		return
	}

	// Callback queries (inline buttons)
	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		if cb.Message == nil || cb.Message.Chat == nil {
			return
		}
		chatID := cb.Message.Chat.ID

		switch cb.Data {
		case callbackAbout:
			r.answerCallback(ctx, cb.ID)
			r.reply(ctx, chatID, aboutText)
		case callbackSupport:
			r.answerCallback(ctx, cb.ID)
			r.reply(ctx, chatID, supportText)
		default:
			// Unknown callback: ignore silently
		}
	}
}

// track upserts the sender and, for groups, the chat.
func (r *Router) track(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From != nil && !msg.From.IsBot {
		if err := r.tracker.TrackUser(ctx, msg.From.ID); err != nil {
			r.log.Warn("TrackUser failed", zap.Error(err), zap.Int64("userID", msg.From.ID))
		}
	}
	if isGroup(msg.Chat) {
		if err := r.tracker.TrackGroup(ctx, msg.Chat.ID); err != nil {
			r.log.Warn("TrackGroup failed", zap.Error(err), zap.Int64("chatID", msg.Chat.ID))
		}
	}
}

func isGroup(c *tgbotapi.Chat) bool {
	return c != nil && (c.IsGroup() || c.IsSuperGroup())
}

// --- Generic helpers ---

func (r *Router) reply(ctx context.Context, chatID int64, text string) {
	r.send(ctx, chatID, tgbotapi.NewMessage(chatID, text))
}

func (r *Router) send(ctx context.Context, chatID int64, msg tgbotapi.Chattable) {
	sendCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()
	if _, err := r.client.Send(sendCtx, msg); err != nil {
		r.log.Warn("reply failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

func (r *Router) answerCallback(ctx context.Context, id string) {
	cbCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()
	if err := r.client.AnswerCallback(cbCtx, id, ""); err != nil {
		r.log.Warn("answer callback failed", zap.Error(err))
	}
}
