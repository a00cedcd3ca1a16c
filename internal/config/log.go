package config

type Log struct {
	// Выключается только для локальной отладки: в теле апдейтов встречаются
	// платёжные идентификаторы.
	MaskSensitive bool `env:"LOG_MASK_SENSITIVE" envDefault:"true"`
}
