package middleware

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
)

// AdminOnly пропускает дальше только апдейты от adminID. Для групп adminID
// может быть id чата.
func AdminOnly(adminID int64) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		if adminID != 0 && IsAdmin(update, adminID) {
			return ctx.Next(update)
		}

		return nil
	}
}

func IsAdmin(update telego.Update, adminID int64) bool {
	switch {
	case update.Message != nil:
		if update.Message.From != nil && update.Message.From.ID == adminID {
			return true
		}
		return update.Message.Chat.ID == adminID
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID == adminID
	default:
		return false
	}
}
