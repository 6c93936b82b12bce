package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"filmnights-bot/internal/auth"
	"filmnights-bot/internal/locales"
	telegoapi "filmnights-bot/pkg/telegoapi"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

const (
	processingTimeout = 30 * time.Second
	defaultRateLimit  = 20
)

// UpdateHandler processes routed updates. It is implemented by handlers.MessageHandler.
type UpdateHandler interface {
	GetCommandHandler(command string) func(context.Context, telego.Message) error
	HandleMessage(ctx context.Context, message telego.Message) error
	HandleCallbackQuery(ctx context.Context, query telego.CallbackQuery) error
}

// CapabilityResolver tells what the sender of an update may do.
type CapabilityResolver interface {
	Resolve(ctx context.Context, userID int64) auth.Capability
}

// Bot represents the main application logic for the Telegram bot.
// It owns the update loop and dispatches every update to the handlers in its own goroutine.
type Bot struct {
	bot          telegoapi.BotAPI
	updatesChan  <-chan telego.Update
	handler      UpdateHandler
	adminChecker CapabilityResolver
	debug        bool
	ratelimiter  ratelimit.Limiter
}

// BotDeps holds the dependencies required by the Bot.
type BotDeps struct {
	Bot          telegoapi.BotAPI
	UpdatesChan  <-chan telego.Update
	Handler      UpdateHandler
	AdminChecker CapabilityResolver
	RateLimit    int // updates per second, defaults to 20
	Debug        bool
}

// New creates a new Bot instance from its dependencies.
// Returns the new Bot instance or an error if dependencies are missing.
func New(deps BotDeps) (*Bot, error) {
	if deps.Bot == nil {
		return nil, errors.New("telego bot (BotAPI) instance cannot be nil")
	}
	if deps.UpdatesChan == nil {
		return nil, errors.New("updates channel cannot be nil")
	}
	if deps.Handler == nil {
		return nil, errors.New("message handler cannot be nil")
	}
	if deps.AdminChecker == nil {
		return nil, errors.New("admin checker cannot be nil")
	}
	rate := deps.RateLimit
	if rate <= 0 {
		rate = defaultRateLimit
	}

	return &Bot{
		bot:          deps.Bot,
		updatesChan:  deps.UpdatesChan,
		handler:      deps.Handler,
		adminChecker: deps.AdminChecker,
		debug:        deps.Debug,
		ratelimiter:  ratelimit.New(rate),
	}, nil
}

// commandName extracts "start" from "/start@film_bot payload".
func commandName(text string) string {
	if len(text) < 2 || !strings.HasPrefix(text, "/") {
		return ""
	}
	name := strings.Fields(text)[0][1:]
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return name
}

func reportError(logPrefix string, err error) {
	log.WithError(err).Errorf("%s Handler error", logPrefix)
	sentry.CaptureException(errors.Wrapf(err, "%s handler error", logPrefix))
}

// handleCommandUpdate processes a message identified as a command.
func (b *Bot) handleCommandUpdate(ctx context.Context, message telego.Message) {
	command := commandName(message.Text)
	logPrefix := fmt.Sprintf("[Cmd:%s User:%d]", command, message.From.ID)

	handlerFunc := b.handler.GetCommandHandler(command)
	if handlerFunc == nil {
		log.Infof("%s No handler found", logPrefix)
		localizer := locales.NewLocalizer(message.From.LanguageCode, locales.GetDefaultLanguageTag().String())
		text := locales.GetMessage(localizer, "MsgErrorUnknownCommand", nil, nil)
		if _, err := b.bot.SendMessage(ctx, tu.Message(tu.ID(message.Chat.ID), text)); err != nil {
			log.WithError(err).Warnf("%s Failed to send unknown command message", logPrefix)
		}
		return
	}

	if b.debug {
		log.Debugf("%s Executing handler", logPrefix)
	}
	if err := handlerFunc(ctx, message); err != nil {
		reportError(logPrefix, err)
		return
	}
	if b.debug {
		log.Debugf("%s Handler finished successfully", logPrefix)
	}
}

// handleMessageUpdate processes menu buttons, flow input and uploads.
func (b *Bot) handleMessageUpdate(ctx context.Context, message telego.Message) {
	logPrefix := fmt.Sprintf("[Msg User:%d Msg:%d]", message.From.ID, message.MessageID)
	if b.debug {
		log.Debugf("%s Processing message", logPrefix)
	}
	if err := b.handler.HandleMessage(ctx, message); err != nil {
		reportError(logPrefix, err)
	}
}

// handleCallbackQuery processes an incoming callback query.
func (b *Bot) handleCallbackQuery(ctx context.Context, query telego.CallbackQuery) {
	logPrefix := fmt.Sprintf("[Callback User:%d QueryID:%s]", query.From.ID, query.ID)
	if b.debug {
		log.Debugf("%s Received callback query with data: %q", logPrefix, query.Data)
	}
	if err := b.handler.HandleCallbackQuery(ctx, query); err != nil {
		reportError(logPrefix, err)
	}
}

// processUpdate routes incoming updates to the appropriate handlers.
func (b *Bot) processUpdate(ctx context.Context, update telego.Update) {
	b.ratelimiter.Take()

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("PANIC recovered in processUpdate: %v\n%s", r, debug.Stack())
			sentry.CurrentHub().Recover(r)
			sentry.Flush(time.Second * 2)
		}
	}()

	processingCtx, cancel := context.WithTimeout(ctx, processingTimeout)
	defer cancel()

	switch {
	case update.Message != nil:
		message := *update.Message
		if message.From == nil {
			log.Debugf("Ignoring message %d from chat %d without sender", message.MessageID, message.Chat.ID)
			return
		}
		processingCtx = auth.WithCapability(processingCtx, b.adminChecker.Resolve(processingCtx, message.From.ID))

		if strings.HasPrefix(message.Text, "/") {
			b.handleCommandUpdate(processingCtx, message)
			return
		}
		b.handleMessageUpdate(processingCtx, message)

	case update.CallbackQuery != nil:
		query := *update.CallbackQuery
		processingCtx = auth.WithCapability(processingCtx, b.adminChecker.Resolve(processingCtx, query.From.ID))
		b.handleCallbackQuery(processingCtx, query)

	default:
		if b.debug {
			log.Debugf("Ignoring unhandled update %d", update.UpdateID)
		}
	}
}

// Start begins the bot's update processing loop. It returns once ctx is done or the
// updates channel is closed and every in-flight update has been processed.
func (b *Bot) Start(ctx context.Context) {
	log.Info("Listening for updates...")

	var wg sync.WaitGroup

	for {
		select {
		case <-ctx.Done():
			log.Info("Context done, stopping update processing...")
			wg.Wait()
			log.Info("All update processing finished.")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				log.Info("Updates channel closed.")
				wg.Wait()
				return
			}
			wg.Add(1)
			go func(up telego.Update) {
				defer wg.Done()
				b.processUpdate(ctx, up)
			}(update)
		}
	}
}
