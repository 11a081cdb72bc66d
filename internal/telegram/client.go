package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ykvlv/birthday-bot/internal/notifier"
)

// Bot is the part of *tgbotapi.BotAPI the bot uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

// Client adapts the Telegram Bot API to notifier.Transport.
// Calls return when ctx is done even if the HTTP request is still running.
type Client struct {
	bot Bot
}

var _ notifier.Transport = (*Client)(nil)

func NewClient(bot Bot) *Client {
	return &Client{bot: bot}
}

// SendText sends a plain text message and returns its id.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) (int, error) {
	return c.Send(ctx, tgbotapi.NewMessage(chatID, text))
}

// Send sends any message config and returns the new message id.
func (c *Client) Send(ctx context.Context, msg tgbotapi.Chattable) (int, error) {
	m, err := withContext(ctx, func() (tgbotapi.Message, error) {
		return c.bot.Send(msg)
	})
	if err != nil {
		return 0, err
	}
	return m.MessageID, nil
}

// PinMessage pins messageID in chatID, notifying members.
func (c *Client) PinMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := withContext(ctx, func() (*tgbotapi.APIResponse, error) {
		return c.bot.Request(tgbotapi.PinChatMessageConfig{
			ChatID:    chatID,
			MessageID: messageID,
		})
	})
	return err
}

// Member fetches the public profile of userID in chatID.
func (c *Client) Member(ctx context.Context, chatID, userID int64) (notifier.Member, error) {
	cm, err := withContext(ctx, func() (tgbotapi.ChatMember, error) {
		return c.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
			ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: userID},
		})
	})
	if err != nil {
		return notifier.Member{}, err
	}
	if cm.User == nil {
		return notifier.Member{}, nil
	}
	return notifier.Member{
		Username:  cm.User.UserName,
		FirstName: cm.User.FirstName,
		LastName:  cm.User.LastName,
	}, nil
}

// AnswerCallback acknowledges an inline button press.
func (c *Client) AnswerCallback(ctx context.Context, id, text string) error {
	_, err := withContext(ctx, func() (*tgbotapi.APIResponse, error) {
		return c.bot.Request(tgbotapi.NewCallback(id, text))
	})
	return err
}

// withContext runs fn and gives up waiting once ctx is done.
func withContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()
	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
