package logx

const (
	FieldAppName    = "app-name"
	FieldAppVersion = "app-version"
	FieldBalance    = "balance"
	FieldChatID     = "chat-id"
	FieldDurationMs = "duration-ms"
	FieldError      = "error"
	FieldGiftID     = "gift-id"
	FieldMessageID  = "message-id"
	FieldPrice      = "price"
	FieldStack      = "stack"
	FieldTraceID    = "trace-id"
	FieldUpdateID   = "update-id"
	FieldUpdateBody = "update-body"
	FieldUserID     = "user-id"
)
