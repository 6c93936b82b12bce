package handlers

import (
	"context"
	"strings"

	"filmnights-bot/internal/locales"

	"github.com/dustin/go-humanize"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pkg/errors"
)

// statsReport renders the per-category publication counts followed by the admin count.
func (h *MessageHandler) statsReport(ctx context.Context, loc *i18n.Localizer) (string, error) {
	stats, err := h.stats.PostStats(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to load post stats")
	}
	admins, err := h.admins.ListAdmins(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to load admins")
	}
	adminsLine := locales.GetMessage(loc, "MsgStatsAdmins", map[string]interface{}{
		"Admins": humanize.Comma(int64(len(admins))),
	}, nil)

	if len(stats) == 0 {
		return locales.GetMessage(loc, "MsgStatsEmpty", nil, nil) + "\n\n" + adminsLine, nil
	}

	var total int64
	for _, s := range stats {
		total += s.Posts
	}

	var b strings.Builder
	b.WriteString(locales.GetMessage(loc, "MsgStatsHeader", map[string]interface{}{
		"Total": humanize.Comma(total),
	}, nil))
	b.WriteString("\n\n")
	for _, s := range stats {
		b.WriteString(locales.GetMessage(loc, "MsgStatsLine", map[string]interface{}{
			"Category": s.Category,
			"Count":    humanize.Comma(s.Posts),
			"LastSent": humanize.Time(s.LastSentAt),
		}, nil))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(adminsLine)
	return b.String(), nil
}
