package middleware

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"tg_gifts/internal/transport/bot/view"
)

// AdminOnly пропускает только оператора. Чужим пользователям отправляется
// вежливый отказ: бот может дарить им подарки, но не управляться ими.
func AdminOnly(adminID int64) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		var userID int64

		if update.Message != nil {
			userID = update.Message.From.ID
		} else if update.CallbackQuery != nil {
			userID = update.CallbackQuery.From.ID
		} else {
			return ctx.Next(update)
		}

		if userID == adminID {
			return ctx.Next(update)
		}

		if update.Message != nil {
			_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
				ChatID: tu.ID(update.Message.Chat.ID),
				Text:   view.AccessDeniedMessage,
			})
			return err
		}

		return ctx.Bot().AnswerCallbackQuery(ctx,
			tu.CallbackQuery(update.CallbackQuery.ID).WithText(view.AccessDeniedAlert).WithShowAlert())
	}
}
