package handlers

import (
	"filmnights-bot/internal/database/models"
	"filmnights-bot/internal/locales"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

func mainMenuKeyboard() *telego.ReplyKeyboardMarkup {
	return tu.Keyboard(
		tu.KeyboardRow(tu.KeyboardButton(BtnNewPost), tu.KeyboardButton(BtnMoviePost)),
		tu.KeyboardRow(tu.KeyboardButton(BtnManageTypes), tu.KeyboardButton(BtnStats)),
		tu.KeyboardRow(tu.KeyboardButton(BtnCancel)),
	).WithResizeKeyboard()
}

func postTypesKeyboard(loc *i18n.Localizer, types []models.PostType) *telego.InlineKeyboardMarkup {
	rows := make([][]telego.InlineKeyboardButton, 0, len(types)+1)
	for _, pt := range types {
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(pt.Name).WithCallbackData(CallbackPostTypePrefix+pt.Name),
		))
	}
	rows = append(rows, tu.InlineKeyboardRow(
		tu.InlineKeyboardButton(locales.GetMessage(loc, "BtnBack", nil, nil)).WithCallbackData(CallbackBackToMainMenu),
	))
	return tu.InlineKeyboard(rows...)
}

func confirmKeyboard(loc *i18n.Localizer) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(tu.InlineKeyboardRow(
		tu.InlineKeyboardButton(locales.GetMessage(loc, "BtnConfirmSend", nil, nil)).WithCallbackData(CallbackConfirmSend),
		tu.InlineKeyboardButton(locales.GetMessage(loc, "BtnNo", nil, nil)).WithCallbackData(CallbackCancelAction),
	))
}

func adminPanelKeyboard(loc *i18n.Localizer) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(tu.InlineKeyboardButton(locales.GetMessage(loc, "BtnViewTypes", nil, nil)).WithCallbackData(CallbackViewPostTypes)),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton(locales.GetMessage(loc, "BtnAddType", nil, nil)).WithCallbackData(CallbackAddPostType)),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton(locales.GetMessage(loc, "BtnDeleteType", nil, nil)).WithCallbackData(CallbackDeletePostType)),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton(locales.GetMessage(loc, "BtnBackToMainMenu", nil, nil)).WithCallbackData(CallbackBackToMainMenu)),
	)
}

func backToAdminKeyboard(loc *i18n.Localizer) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(tu.InlineKeyboardRow(
		tu.InlineKeyboardButton(locales.GetMessage(loc, "BtnBackToAdmin", nil, nil)).WithCallbackData(CallbackBackToAdminMenu),
	))
}
