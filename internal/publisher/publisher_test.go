package publisher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"filmnights-bot/internal/database/models"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBot struct {
	mock.Mock
}

func (m *MockBot) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	msg, _ := args.Get(0).(*telego.Message)
	return msg, args.Error(1)
}

func (m *MockBot) SendPhoto(ctx context.Context, params *telego.SendPhotoParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	msg, _ := args.Get(0).(*telego.Message)
	return msg, args.Error(1)
}

func (m *MockBot) SendDocument(ctx context.Context, params *telego.SendDocumentParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	msg, _ := args.Get(0).(*telego.Message)
	return msg, args.Error(1)
}

func (m *MockBot) SendVideo(ctx context.Context, params *telego.SendVideoParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	msg, _ := args.Get(0).(*telego.Message)
	return msg, args.Error(1)
}

func (m *MockBot) EditMessageText(ctx context.Context, params *telego.EditMessageTextParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	msg, _ := args.Get(0).(*telego.Message)
	return msg, args.Error(1)
}

func (m *MockBot) EditMessageReplyMarkup(ctx context.Context, params *telego.EditMessageReplyMarkupParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	msg, _ := args.Get(0).(*telego.Message)
	return msg, args.Error(1)
}

func (m *MockBot) AnswerCallbackQuery(ctx context.Context, params *telego.AnswerCallbackQueryParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *MockBot) SetMyCommands(ctx context.Context, params *telego.SetMyCommandsParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *MockBot) GetFile(ctx context.Context, params *telego.GetFileParams) (*telego.File, error) {
	args := m.Called(ctx, params)
	f, _ := args.Get(0).(*telego.File)
	return f, args.Error(1)
}

func (m *MockBot) FileDownloadURL(path string) string {
	return m.Called(path).String(0)
}

type MockPostLogger struct {
	mock.Mock
}

func (m *MockPostLogger) LogPublishedPost(ctx context.Context, entry models.PostLog) error {
	return m.Called(ctx, entry).Error(0)
}

const channelID = int64(-100500)

func writeBanner(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "news.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg bytes"), 0o644))
	return path
}

func TestSend_Text(t *testing.T) {
	ctx := context.Background()
	bot := new(MockBot)
	bot.On("SendMessage", ctx, mock.MatchedBy(func(p *telego.SendMessageParams) bool {
		return p.ChatID.ID == channelID && p.Text == "<b>hi</b>" && p.ParseMode == telego.ModeHTML
	})).Return(&telego.Message{}, nil).Once()

	assert.True(t, New(bot, channelID, nil).Send(ctx, "<b>hi</b>", ""))
	bot.AssertExpectations(t)
}

func TestSend_Photo(t *testing.T) {
	ctx := context.Background()
	bot := new(MockBot)
	bot.On("SendPhoto", ctx, mock.MatchedBy(func(p *telego.SendPhotoParams) bool {
		return p.ChatID.ID == channelID && p.Caption == "caption" && p.ParseMode == telego.ModeHTML
	})).Return(&telego.Message{}, nil).Once()

	assert.True(t, New(bot, channelID, nil).Send(ctx, "caption", writeBanner(t)))
	bot.AssertExpectations(t)
}

func TestSend_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("no channel", func(t *testing.T) {
		bot := new(MockBot)
		assert.False(t, New(bot, 0, nil).Send(ctx, "x", ""))
		bot.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
	})

	t.Run("missing banner", func(t *testing.T) {
		bot := new(MockBot)
		assert.False(t, New(bot, channelID, nil).Send(ctx, "x", filepath.Join(t.TempDir(), "absent.jpg")))
		bot.AssertNotCalled(t, "SendPhoto", mock.Anything, mock.Anything)
	})

	t.Run("transport error", func(t *testing.T) {
		bot := new(MockBot)
		bot.On("SendMessage", ctx, mock.AnythingOfType("*telego.SendMessageParams")).
			Return(nil, errors.New("chat not found")).Once()
		assert.False(t, New(bot, channelID, nil).Send(ctx, "x", ""))
		bot.AssertExpectations(t)
	})
}

func TestPublish_LogsOnlyOnSuccess(t *testing.T) {
	ctx := context.Background()
	post := Post{Category: "news", Text: "body", SenderID: 7, SenderUsername: "admin"}

	t.Run("success", func(t *testing.T) {
		bot := new(MockBot)
		logger := new(MockPostLogger)
		bot.On("SendMessage", ctx, mock.AnythingOfType("*telego.SendMessageParams")).Return(&telego.Message{}, nil).Once()
		logger.On("LogPublishedPost", ctx, mock.MatchedBy(func(e models.PostLog) bool {
			return e.Category == "news" && e.Content == "body" && e.SenderID == 7 &&
				e.SenderUsername == "admin" && !e.SentAt.IsZero()
		})).Return(nil).Once()

		assert.True(t, New(bot, channelID, logger).Publish(ctx, post))
		bot.AssertExpectations(t)
		logger.AssertExpectations(t)
	})

	t.Run("send failure", func(t *testing.T) {
		bot := new(MockBot)
		logger := new(MockPostLogger)
		bot.On("SendMessage", ctx, mock.AnythingOfType("*telego.SendMessageParams")).Return(nil, errors.New("boom")).Once()

		assert.False(t, New(bot, channelID, logger).Publish(ctx, post))
		logger.AssertNotCalled(t, "LogPublishedPost", mock.Anything, mock.Anything)
	})

	t.Run("log failure still succeeds", func(t *testing.T) {
		bot := new(MockBot)
		logger := new(MockPostLogger)
		bot.On("SendPhoto", ctx, mock.AnythingOfType("*telego.SendPhotoParams")).Return(&telego.Message{}, nil).Once()
		logger.On("LogPublishedPost", ctx, mock.AnythingOfType("models.PostLog")).Return(errors.New("disk full")).Once()

		withBanner := post
		withBanner.BannerPath = writeBanner(t)
		assert.True(t, New(bot, channelID, logger).Publish(ctx, withBanner))
		logger.AssertExpectations(t)
	})
}
