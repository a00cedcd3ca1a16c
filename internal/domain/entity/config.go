package entity

// Config — единственный персистентный документ оператора. Движок и мастер
// держат только временные копии и пишут обратно через store (read-modify-write).
type Config struct {
	MinPrice    int64 `json:"min_price"`
	MaxPrice    int64 `json:"max_price"`
	MinSupply   int64 `json:"min_supply"`
	MaxSupply   int64 `json:"max_supply"`
	TargetCount int64 `json:"target_count"`

	// Получатель: ровно одно из двух полей задано.
	TargetUserID *int64  `json:"target_user_id"`
	TargetChatID *string `json:"target_chat_id"`

	// Кэш баланса, пересчитывается из леджера. Не авторитетен.
	Balance int64 `json:"balance"`
	Bought  int64 `json:"bought"`
	Active  bool  `json:"active"`
	Done    bool  `json:"done"`

	LastMenuMessageID *int64 `json:"last_menu_message_id"`
}

func (c Config) Recipient() Recipient {
	if c.TargetChatID != nil && *c.TargetChatID != "" {
		return Recipient{ChannelHandle: *c.TargetChatID}
	}
	if c.TargetUserID != nil {
		return Recipient{UserID: *c.TargetUserID}
	}
	return Recipient{}
}
