package handlers

import (
	"context"
	"fmt"
	"strings"

	"filmnights-bot/internal/conversation"
	"filmnights-bot/internal/locales"

	"github.com/mymmrac/telego"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// HandleStart handles the /start command.
// It registers the bot commands, refreshes the admin record, resets the session and shows the main menu.
func (h *MessageHandler) HandleStart(ctx context.Context, message telego.Message) error {
	loc := h.getLocalizer(message.From)
	if err := h.setupCommands(ctx, loc); err != nil {
		return h.sendError(ctx, message.Chat.ID, loc, errors.Wrap(err, "failed to set up commands"))
	}

	if message.From != nil {
		if err := h.admins.AddAdmin(ctx, message.From.ID, message.From.Username); err != nil {
			log.WithError(err).WithField("user_id", message.From.ID).Warn("failed to refresh admin record")
		}
		if err := h.sessions.Delete(ctx, message.From.ID); err != nil {
			log.WithError(err).WithField("user_id", message.From.ID).Warn("failed to reset session")
		}
	}
	logAction(message.From, ActionCommandStart)

	return h.sendText(ctx, message.Chat.ID, locales.GetMessage(loc, "MsgWelcome", nil, nil), mainMenuKeyboard())
}

// HandleAdmin opens the post type management panel.
func (h *MessageHandler) HandleAdmin(ctx context.Context, message telego.Message) error {
	loc := h.getLocalizer(message.From)
	logAction(message.From, ActionCommandAdmin)

	s := conversation.NewSession(message.From.ID)
	s.ChatID = message.Chat.ID
	s.State = conversation.StateAdminMenu
	if err := h.saveSession(ctx, s); err != nil {
		return h.sendError(ctx, message.Chat.ID, loc, err)
	}
	return h.sendText(ctx, message.Chat.ID, locales.GetMessage(loc, "MsgAdminWelcome", nil, nil), adminPanelKeyboard(loc))
}

// HandleCancel aborts the current flow.
// Inside the admin panel the user stays in the panel, anywhere else the main menu is shown.
func (h *MessageHandler) HandleCancel(ctx context.Context, message telego.Message) error {
	loc := h.getLocalizer(message.From)
	logAction(message.From, ActionCommandCancel)

	s, err := h.sessions.Get(ctx, message.From.ID)
	if err != nil {
		return h.sendError(ctx, message.Chat.ID, loc, err)
	}

	if strings.HasPrefix(string(s.State), "admin.") {
		s.Reset()
		s.ChatID = message.Chat.ID
		s.State = conversation.StateAdminMenu
		if err := h.saveSession(ctx, s); err != nil {
			return h.sendError(ctx, message.Chat.ID, loc, err)
		}
		return h.sendText(ctx, message.Chat.ID, locales.GetMessage(loc, "MsgAdminCancelled", nil, nil), adminPanelKeyboard(loc))
	}

	if err := h.sessions.Delete(ctx, message.From.ID); err != nil {
		return h.sendError(ctx, message.Chat.ID, loc, err)
	}
	return h.sendText(ctx, message.Chat.ID, locales.GetMessage(loc, "MsgCancelled", nil, nil), mainMenuKeyboard())
}

// HandleHelp lists the commands available to the caller.
func (h *MessageHandler) HandleHelp(ctx context.Context, message telego.Message) error {
	loc := h.getLocalizer(message.From)
	admin := h.isAdmin(ctx)
	logAction(message.From, ActionCommandHelp)

	var helpText strings.Builder
	helpText.WriteString(locales.GetMessage(loc, "MsgHelpHeader", nil, nil) + "\n")
	for _, cmd := range h.commands {
		if cmd.AdminOnly && !admin {
			continue
		}
		helpText.WriteString(fmt.Sprintf("/%s - %s\n", cmd.Command, locales.GetMessage(loc, cmd.Description, nil, nil)))
	}
	return h.sendText(ctx, message.Chat.ID, strings.TrimRight(helpText.String(), "\n"), nil)
}

// HandleVersion replies with the build version.
func (h *MessageHandler) HandleVersion(ctx context.Context, message telego.Message) error {
	loc := h.getLocalizer(message.From)
	logAction(message.From, ActionCommandVersion)
	return h.sendText(ctx, message.Chat.ID, locales.GetMessage(loc, "MsgVersion", map[string]interface{}{
		"Version": h.version,
	}, nil), nil)
}

// HandleStats replies with the publication report.
func (h *MessageHandler) HandleStats(ctx context.Context, message telego.Message) error {
	loc := h.getLocalizer(message.From)
	logAction(message.From, ActionCommandStats)

	report, err := h.statsReport(ctx, loc)
	if err != nil {
		return h.sendError(ctx, message.Chat.ID, loc, err)
	}
	return h.sendText(ctx, message.Chat.ID, report, mainMenuKeyboard())
}

// setupCommands registers the command list shown by Telegram clients.
func (h *MessageHandler) setupCommands(ctx context.Context, loc *i18n.Localizer) error {
	commands := make([]telego.BotCommand, 0, len(h.commands))
	for _, cmd := range h.commands {
		commands = append(commands, telego.BotCommand{
			Command:     cmd.Command,
			Description: locales.GetMessage(loc, cmd.Description, nil, nil),
		})
	}
	return h.bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{Commands: commands})
}

func logAction(user *telego.User, action string) {
	entry := log.WithField("action", action)
	if user != nil {
		entry = entry.WithFields(log.Fields{"user_id": user.ID, "username": user.Username})
	}
	entry.Info("user action")
}
