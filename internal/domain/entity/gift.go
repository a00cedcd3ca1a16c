package entity

// Gift — позиция каталога подарков. Живёт в пределах одного цикла движка,
// не персистится.
type Gift struct {
	ID        string
	Price     int64
	Supply    int64
	StickerID string
}
