package store

import (
	jsoniter "github.com/json-iterator/go"

	"tg_gifts/internal/domain/entity"
)

// Patch — частичное обновление документа: применяются только непустые поля,
// последняя запись по полю выигрывает.
type Patch struct {
	MinPrice    *int64
	MaxPrice    *int64
	MinSupply   *int64
	MaxSupply   *int64
	TargetCount *int64

	// Recipient выставляет обе адресные колонки сразу: одна получает
	// значение, вторая — null.
	Recipient *entity.Recipient

	Balance *int64
	Bought  *int64
	Active  *bool
	Done    *bool

	MenuMessageID *int64
}

func (p Patch) apply(doc map[string]jsoniter.RawMessage) {
	set := func(key string, v any) {
		b, _ := json.Marshal(v) //nolint:errcheck,errchkjson
		doc[key] = b
	}

	if p.MinPrice != nil {
		set("min_price", *p.MinPrice)
	}
	if p.MaxPrice != nil {
		set("max_price", *p.MaxPrice)
	}
	if p.MinSupply != nil {
		set("min_supply", *p.MinSupply)
	}
	if p.MaxSupply != nil {
		set("max_supply", *p.MaxSupply)
	}
	if p.TargetCount != nil {
		set("target_count", *p.TargetCount)
	}
	if p.Recipient != nil {
		if p.Recipient.IsChannel() {
			set("target_chat_id", p.Recipient.ChannelHandle)
			set("target_user_id", nil)
		} else {
			set("target_user_id", p.Recipient.UserID)
			set("target_chat_id", nil)
		}
	}
	if p.Balance != nil {
		set("balance", *p.Balance)
	}
	if p.Bought != nil {
		set("bought", *p.Bought)
	}
	if p.Active != nil {
		set("active", *p.Active)
	}
	if p.Done != nil {
		set("done", *p.Done)
	}
	if p.MenuMessageID != nil {
		set("last_menu_message_id", *p.MenuMessageID)
	}
}
