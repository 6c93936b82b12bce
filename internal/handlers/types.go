package handlers

import (
	"context"

	"filmnights-bot/internal/conversation"
	"filmnights-bot/internal/database"
	telegoapi "filmnights-bot/pkg/telegoapi"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/pkg/errors"
)

// Action types for logging.
const (
	ActionCommandStart   = "command_start"
	ActionCommandAdmin   = "command_admin"
	ActionCommandCancel  = "command_cancel"
	ActionCommandHelp    = "command_help"
	ActionCommandStats   = "command_stats"
	ActionCommandVersion = "command_version"
	ActionPublishPost    = "publish_post"
	ActionMoviePosts     = "movie_posts"
	ActionAddPostType    = "add_post_type"
	ActionDeletePostType = "delete_post_type"
)

// Command represents a bot command, mapping the command string to its description and handler function.
type Command struct {
	Command     string                                      // The command string (e.g., "start").
	Description string                                      // Localization key of the description shown in /help.
	AdminOnly   bool                                        // Whether the admin capability is required.
	Handler     func(context.Context, telego.Message) error // The function to execute when the command is received.
}

// HandlerDeps holds the dependencies required by the MessageHandler.
type HandlerDeps struct {
	Bot             telegoapi.BotAPI
	PostTypes       database.PostTypeRepository
	Stats           database.StatsProvider
	Admins          database.AdminRepository
	Banners         BannerStore
	Publisher       PostPublisher
	Sessions        conversation.Store
	DefaultLanguage string
	Version         string
}

// MessageHandler handles incoming Telegram messages and callbacks.
// It runs the post, movie and admin flows on top of a conversation state machine.
type MessageHandler struct {
	bot         telegoapi.BotAPI
	postTypes   database.PostTypeRepository
	stats       database.StatsProvider
	admins      database.AdminRepository
	banners     BannerStore
	publisher   PostPublisher
	sessions    conversation.Store
	defaultLang string
	version     string

	commands []Command
	machine  *conversation.Machine

	// downloadFile fetches uploaded files from the Telegram file server.
	downloadFile func(url string) ([]byte, error)
}

// NewMessageHandler creates and initializes a new MessageHandler instance.
func NewMessageHandler(deps HandlerDeps) (*MessageHandler, error) {
	switch {
	case deps.Bot == nil:
		return nil, errors.New("bot API cannot be nil")
	case deps.PostTypes == nil:
		return nil, errors.New("post type repository cannot be nil")
	case deps.Stats == nil:
		return nil, errors.New("stats provider cannot be nil")
	case deps.Admins == nil:
		return nil, errors.New("admin repository cannot be nil")
	case deps.Banners == nil:
		return nil, errors.New("banner store cannot be nil")
	case deps.Publisher == nil:
		return nil, errors.New("publisher cannot be nil")
	case deps.Sessions == nil:
		return nil, errors.New("session store cannot be nil")
	}
	h := &MessageHandler{
		bot:          deps.Bot,
		postTypes:    deps.PostTypes,
		stats:        deps.Stats,
		admins:       deps.Admins,
		banners:      deps.Banners,
		publisher:    deps.Publisher,
		sessions:     deps.Sessions,
		defaultLang:  deps.DefaultLanguage,
		version:      deps.Version,
		downloadFile: tu.DownloadFile,
	}
	if h.defaultLang == "" {
		h.defaultLang = "fa"
	}
	if h.version == "" {
		h.version = "dev"
	}
	h.commands = []Command{
		{Command: "start", Description: "CmdStartDesc", AdminOnly: true, Handler: h.HandleStart},
		{Command: "admin", Description: "CmdAdminDesc", AdminOnly: true, Handler: h.HandleAdmin},
		{Command: "cancel", Description: "CmdCancelDesc", AdminOnly: true, Handler: h.HandleCancel},
		{Command: "stats", Description: "CmdStatsDesc", AdminOnly: true, Handler: h.HandleStats},
		{Command: "help", Description: "CmdHelpDesc", Handler: h.HandleHelp},
		{Command: "version", Description: "CmdVersionDesc", Handler: h.HandleVersion},
	}
	h.machine = h.buildMachine()
	return h, nil
}

// GetCommandHandler retrieves the handler function associated with a specific command string (e.g., "start").
// Admin-only commands are wrapped with the capability check. It returns nil if the command is not found.
func (h *MessageHandler) GetCommandHandler(command string) func(context.Context, telego.Message) error {
	for _, cmd := range h.commands {
		if cmd.Command != command {
			continue
		}
		if !cmd.AdminOnly {
			return cmd.Handler
		}
		handler := cmd.Handler
		return func(ctx context.Context, message telego.Message) error {
			if !h.isAdmin(ctx) {
				return h.denyMessage(ctx, message)
			}
			return handler(ctx, message)
		}
	}
	return nil
}

func (h *MessageHandler) buildMachine() *conversation.Machine {
	m := conversation.NewMachine()

	m.On(conversation.StatePostSelectingType, conversation.TriggerCallback, h.onPostTypeSelected)
	m.On(conversation.StatePostAwaitingText, conversation.TriggerText, h.onPostText)
	m.On(conversation.StatePostAwaitingConfirm, conversation.TriggerCallback, h.onPostConfirm)

	m.On(conversation.StateMovieAwaitingPoster, conversation.TriggerPhoto, h.onMoviePoster)
	m.On(conversation.StateMovieAwaitingPoster, conversation.TriggerText, h.onMovieNotPhoto)
	m.On(conversation.StateMovieAwaitingPoster, conversation.TriggerFile, h.onMovieNotPhoto)
	m.On(conversation.StateMovieAwaitingFirstConfirm, conversation.TriggerCallback, h.onMovieFirstConfirm)
	m.On(conversation.StateMovieAwaitingFile, conversation.TriggerFile, h.onMovieFile)
	m.On(conversation.StateMovieAwaitingFile, conversation.TriggerText, h.onMovieNotFile)
	m.On(conversation.StateMovieAwaitingFile, conversation.TriggerPhoto, h.onMovieNotFile)
	m.On(conversation.StateMovieAwaitingFinalConfirm, conversation.TriggerCallback, h.onMovieFinalConfirm)

	m.On(conversation.StateAdminAwaitingTypeName, conversation.TriggerText, h.onTypeName)
	m.On(conversation.StateAdminAwaitingTypeBanner, conversation.TriggerPhoto, h.onTypeBanner)
	m.On(conversation.StateAdminAwaitingTypeBanner, conversation.TriggerText, h.onTypeBannerNotPhoto)
	m.On(conversation.StateAdminAwaitingTypeBanner, conversation.TriggerFile, h.onTypeBannerNotPhoto)
	m.On(conversation.StateAdminAwaitingDeleteName, conversation.TriggerText, h.onDeleteName)

	return m
}
