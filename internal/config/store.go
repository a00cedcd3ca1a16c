package config

type Store struct {
	Path string `env:"CONFIG_PATH" envDefault:"config.json" validate:"required"`
}
