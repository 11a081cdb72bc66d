package telegram

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/ykvlv/birthday-bot/internal/birthday"
	"github.com/ykvlv/birthday-bot/internal/domain"
	"github.com/ykvlv/birthday-bot/internal/scheduler"
	"github.com/ykvlv/birthday-bot/internal/store"
)

const (
	ownerID     int64 = 99
	privateUser int64 = 1
	groupChat   int64 = -100
)

// fakeBot records outgoing requests and answers member lookups from a table.
type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	members  map[int64]tgbotapi.User
	failSend map[int64]bool
	nextID   int
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok && b.failSend[m.ChatID] {
		return tgbotapi.Message{}, errors.New("Forbidden: bot was blocked by the user")
	}
	b.sent = append(b.sent, c)
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetChatMember(cfg tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error) {
	u, ok := b.members[cfg.UserID]
	if !ok {
		return tgbotapi.ChatMember{}, errors.New("Bad Request: user not found")
	}
	return tgbotapi.ChatMember{User: &u}, nil
}

func (b *fakeBot) texts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, c := range b.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

func (b *fakeBot) lastText() string {
	t := b.texts()
	if len(t) == 0 {
		return ""
	}
	return t[len(t)-1]
}

type fakeScanner struct {
	calls int
}

func (f *fakeScanner) Trigger(_ context.Context, today time.Time) (scheduler.Report, bool) {
	f.calls++
	return scheduler.Report{RunID: "abcdef0123", Date: domain.FormatDate(today), Matched: 2, Sent: 2, Pinned: 1}, false
}

func (f *fakeScanner) Today() time.Time {
	d, _ := domain.ParseDate("13-08-2024")
	return d
}

type RouterSuite struct {
	suite.Suite
	ctx     context.Context
	bot     *fakeBot
	repo    *store.SQLiteRepo
	scanner *fakeScanner
	router  *Router
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.ctx = context.Background()
	repo, err := store.OpenSQLite(s.ctx, filepath.Join(s.T().TempDir(), "router.db"))
	s.Require().NoError(err)
	s.repo = repo
	s.bot = &fakeBot{members: map[int64]tgbotapi.User{
		privateUser: {ID: privateUser, UserName: "neo"},
		2:           {ID: 2, FirstName: "Trinity", LastName: "Smith"},
	}}
	s.scanner = &fakeScanner{}
	s.router = NewRouter(NewClient(s.bot), zaptest.NewLogger(s.T()), birthday.NewService(repo), repo, s.scanner, nil, Options{
		OwnerID: ownerID,
		DocsURL: "https://example.com/docs",
		Timeout: time.Second,
	})
}

func (s *RouterSuite) TearDownTest() {
	s.Require().NoError(s.repo.Close())
}

// command builds an update for text sent by userID in chatID.
func command(chatID, userID int64, text string) tgbotapi.Update {
	chatType := "private"
	if chatID < 0 {
		chatType = "supergroup"
	}
	cmdLen := len(text)
	if i := strings.IndexByte(text, ' '); i >= 0 {
		cmdLen = i
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID, Type: chatType},
		From:     &tgbotapi.User{ID: userID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}}
}

func (s *RouterSuite) handle(chatID, userID int64, text string) string {
	s.router.HandleUpdate(s.ctx, command(chatID, userID, text))
	return s.bot.lastText()
}

func (s *RouterSuite) TestStart_IsContextSpecific() {
	s.Contains(s.handle(privateUser, privateUser, "/start"), "Welcome")
	s.Contains(s.handle(groupChat, privateUser, "/start"), "Hi everyone")
}

func (s *RouterSuite) TestAddBirthday_Flow() {
	s.Equal("Birthday for Aakashuu on 15-08-2006 added successfully!",
		s.handle(privateUser, privateUser, "/addbirthday Aakashuu 15-08-2006"))
	s.Equal("You have already added a birthday for Aakashuu on 15-08-2006.",
		s.handle(privateUser, privateUser, "/addbirthday Aakashuu 15-08-2006"))
	s.Equal("Invalid date format for Mia. Please use DD-MM-YYYY format.",
		s.handle(privateUser, privateUser, "/addbirthday Mia 1-08-2006"))
	s.Equal(addUsageText, s.handle(privateUser, privateUser, "/addbirthday Mia"))
	s.Equal(addWrongContextText, s.handle(groupChat, privateUser, "/addbirthday Mia 01-08-2006"))

	list, err := s.repo.ListPersonal(s.ctx, privateUser)
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *RouterSuite) TestCommandMatchingIgnoresCaseAndBotMention() {
	s.handle(privateUser, privateUser, "/addbirthday Aakashuu 15-08-2006")
	s.Equal("Birthday List:\nAakashuu: 15-08-2006", s.handle(privateUser, privateUser, "/birthdayList"))
	s.Equal("Birthday List:\nAakashuu: 15-08-2006", s.handle(privateUser, privateUser, "/birthdaylist@birthday_bot"))
}

func (s *RouterSuite) TestMyBirthday_Flow() {
	s.Equal(myWrongContextText, s.handle(privateUser, privateUser, "/mybirthday 13-08-1995"))
	s.Equal(myInvalidDateText, s.handle(groupChat, privateUser, "/mybirthday"))
	s.Equal(myInvalidDateText, s.handle(groupChat, privateUser, "/mybirthday 13/08/1995"))
	s.Equal(myOKText, s.handle(groupChat, privateUser, "/mybirthday 13-08-1995"))
	s.Equal(myDuplicateText, s.handle(groupChat, privateUser, "/mybirthday 14-08-1995"))
}

func (s *RouterSuite) TestDeleteBirthday_Flow() {
	s.Equal(delMissingNameText, s.handle(privateUser, privateUser, "/deletebirthday"))
	s.Equal("No birthday found for Ghost to delete.", s.handle(privateUser, privateUser, "/deletebirthday Ghost"))

	s.handle(privateUser, privateUser, "/addbirthday Mia 01-01-2000")
	s.Equal("Birthday for Mia deleted successfully.", s.handle(privateUser, privateUser, "/deletebirthday Mia"))

	s.Equal(delGroupNotFoundText, s.handle(groupChat, privateUser, "/deletebirthday"))
	s.handle(groupChat, privateUser, "/mybirthday 13-08-1995")
	s.Equal(delGroupOKText, s.handle(groupChat, privateUser, "/deletebirthday"))
	s.Equal(myOKText, s.handle(groupChat, privateUser, "/mybirthday 14-08-1995"))
}

func (s *RouterSuite) TestBirthdayList_Group() {
	s.Equal(listEmptyText, s.handle(groupChat, privateUser, "/birthdaylist"))

	s.handle(groupChat, privateUser, "/mybirthday 13-08-1995")
	s.handle(groupChat, 2, "/mybirthday 14-08-2000")
	s.handle(groupChat, 3, "/mybirthday 15-08-2001")

	s.Equal("Birthday List:\n@neo: 13-08-1995\nTrinity Smith: 14-08-2000\nUnknown: 15-08-2001",
		s.handle(groupChat, privateUser, "/birthdaylist"))
}

func (s *RouterSuite) TestHelp_HasButtons() {
	s.router.HandleUpdate(s.ctx, command(privateUser, privateUser, "/help"))

	s.Require().NotEmpty(s.bot.sent)
	m, ok := s.bot.sent[len(s.bot.sent)-1].(tgbotapi.MessageConfig)
	s.Require().True(ok)
	kb, ok := m.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	s.Require().True(ok)
	s.Require().Len(kb.InlineKeyboard, 2)
	s.Equal("https://example.com/docs", *kb.InlineKeyboard[0][0].URL)
	s.Equal(callbackAbout, *kb.InlineKeyboard[1][0].CallbackData)
}

func (s *RouterSuite) TestCallbacks() {
	s.router.HandleUpdate(s.ctx, tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb1",
		Data:    callbackSupport,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: privateUser, Type: "private"}},
	}})
	s.Equal(supportText, s.bot.lastText())
	s.Len(s.bot.requests, 1)
}

func (s *RouterSuite) TestSticker() {
	s.router.HandleUpdate(s.ctx, tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:    &tgbotapi.Chat{ID: privateUser, Type: "private"},
		From:    &tgbotapi.User{ID: privateUser},
		Sticker: &tgbotapi.Sticker{FileID: "x"},
	}})
	s.Equal("👍", s.bot.lastText())
}

func (s *RouterSuite) TestTrackingAndAnalytics() {
	s.handle(privateUser, privateUser, "/start")
	s.handle(groupChat, 2, "/start")
	s.handle(groupChat, 2, "/help")

	s.Equal("📊 Bot analytics:\n• Users: 2\n• Groups: 1", s.handle(privateUser, privateUser, "/analytics"))
	s.Equal(analyticsWrongContextText, s.handle(groupChat, privateUser, "/analytics"))
}

func (s *RouterSuite) TestBroadcast() {
	s.Equal(ownerOnlyText, s.handle(privateUser, privateUser, "/broadcast hi"))
	s.Equal(broadcastMissingText, s.handle(ownerID, ownerID, "/broadcast"))

	s.handle(privateUser, privateUser, "/start")
	s.handle(groupChat, 2, "/start")
	s.bot.failSend = map[int64]bool{groupChat: true}

	reply := s.handle(ownerID, ownerID, "/broadcast Hello everyone!")
	// owner, user 1, user 2 delivered; the group failed.
	s.Contains(reply, "3 delivered, 1 failed")
	s.Contains(s.bot.texts(), "Hello everyone!")
}

func (s *RouterSuite) TestScan_OwnerOnly() {
	s.Equal(ownerOnlyText, s.handle(privateUser, privateUser, "/scan"))
	s.Equal(0, s.scanner.calls)

	reply := s.handle(ownerID, ownerID, "/scan")
	s.Equal(1, s.scanner.calls)
	s.Equal("🔎 Scan abcdef01 for 13-08-2024: 2 matched, 2 sent, 1 pinned, 0 failed, 0 skipped.", reply)
}
