package config

type Bot struct {
	Token string `env:"BOT_TOKEN,required" json:"-"`
	// Единственный оператор, которому доступна панель управления.
	AdminID int64 `env:"BOT_ADMIN_ID,required" validate:"gt=0"`
}
