package middleware

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg_gifts/pkg/contextx"
	"tg_gifts/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// UpdateLogging отладочно логирует каждый входящий апдейт. Тело проходит
// через маскер: в платёжных апдейтах лежат ID транзакций, пригодные для
// возврата звёзд.
func UpdateLogging(masker logx.SensitiveDataMaskerInterface) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		body, err := json.Marshal(update)
		if err != nil {
			body = []byte(err.Error())
		}

		logger(ctx).Debug("update received",
			logx.FieldUpdateID, update.UpdateID,
			logx.FieldUpdateBody, string(masker.Mask(body)),
		)

		return ctx.Next(update)
	}
}
