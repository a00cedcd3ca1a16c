package entity

import "fmt"

// Recipient — адресат покупки: либо аккаунт по ID, либо канал по username
// (хранится без ведущей @).
type Recipient struct {
	UserID        int64
	ChannelHandle string
}

func (r Recipient) IsChannel() bool {
	return r.ChannelHandle != ""
}

func (r Recipient) IsZero() bool {
	return r.UserID == 0 && r.ChannelHandle == ""
}

func (r Recipient) String() string {
	if r.IsChannel() {
		return "@" + r.ChannelHandle
	}
	return fmt.Sprint(r.UserID)
}
