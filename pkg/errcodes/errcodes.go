package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	// InsufficientFunds — цена подарка выше баланса. Не ретраится:
	// движок выключается до пополнения.
	InsufficientFunds failure.ErrorCode = "InsufficientFunds"

	// TelegramUnavailable — сетевой сбой при вызове Bot API, ретраится с бэкоффом.
	TelegramUnavailable failure.ErrorCode = "TelegramUnavailable"

	// TelegramRejected — Bot API отверг вызов, ретраи бессмысленны.
	TelegramRejected failure.ErrorCode = "TelegramRejected"

	// StorageFailure — не удалось записать документ конфигурации,
	// на диске остаётся прежнее состояние.
	StorageFailure failure.ErrorCode = "StorageFailure"
)
