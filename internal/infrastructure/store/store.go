package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"tg_gifts/internal/domain"
	"tg_gifts/internal/domain/entity"
	"tg_gifts/pkg/contextx"
	"tg_gifts/pkg/errcodes"
	"tg_gifts/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Store владеет документом конфигурации на диске. Все записи сериализуются
// одним мьютексом; кросс-задачное взаимодействие идёт только через документ.
type Store struct {
	mu       sync.Mutex
	path     string
	defaults entity.Config
}

// Defaults — документированные значения по умолчанию. Получатель по
// умолчанию — сам оператор.
func Defaults(operatorID int64) entity.Config {
	return entity.Config{
		MinPrice:     5000,
		MaxPrice:     10000,
		MinSupply:    1000,
		MaxSupply:    10000,
		TargetCount:  5,
		TargetUserID: &operatorID,
	}
}

func New(path string, defaults entity.Config) *Store {
	return &Store{
		path:     path,
		defaults: defaults,
	}
}

// Load всегда возвращает полностью валидный документ: отсутствующий файл
// создаётся с дефолтами, битые или отсутствующие поля чинятся по одному,
// починка логируется и персистится. Наружу ошибка уходит только если
// документ не удаётся записать.
func (s *Store) Load(ctx context.Context) (entity.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		logger(ctx).Info("config document created", "path", s.path)
		return s.defaults, s.writeLocked(ctx, s.defaults)
	}
	if err != nil {
		return entity.Config{}, domain.WrapError(err, errcodes.StorageFailure, "read config document")
	}

	var doc map[string]jsoniter.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger(ctx).Warn("config document is not an object, resetting to defaults", logx.Error(err))
		return s.defaults, s.writeLocked(ctx, s.defaults)
	}

	cfg, repaired := s.heal(ctx, doc)
	if repaired {
		logger(ctx).Info("config document repaired")
		return cfg, s.writeLocked(ctx, cfg)
	}

	return cfg, nil
}

// heal пересобирает типизированный документ поле за полем, подставляя
// дефолт вместо каждого отсутствующего, неверно типизированного или
// недопустимо-null значения.
func (s *Store) heal(ctx context.Context, doc map[string]jsoniter.RawMessage) (entity.Config, bool) {
	var (
		cfg      entity.Config
		repaired bool
	)

	repaired = healField(ctx, doc, "min_price", false, s.defaults.MinPrice, &cfg.MinPrice) || repaired
	repaired = healField(ctx, doc, "max_price", false, s.defaults.MaxPrice, &cfg.MaxPrice) || repaired
	repaired = healField(ctx, doc, "min_supply", false, s.defaults.MinSupply, &cfg.MinSupply) || repaired
	repaired = healField(ctx, doc, "max_supply", false, s.defaults.MaxSupply, &cfg.MaxSupply) || repaired
	repaired = healField(ctx, doc, "target_count", false, s.defaults.TargetCount, &cfg.TargetCount) || repaired
	repaired = healField(ctx, doc, "target_user_id", true, s.defaults.TargetUserID, &cfg.TargetUserID) || repaired
	repaired = healField(ctx, doc, "target_chat_id", true, s.defaults.TargetChatID, &cfg.TargetChatID) || repaired
	repaired = healField(ctx, doc, "balance", false, s.defaults.Balance, &cfg.Balance) || repaired
	repaired = healField(ctx, doc, "bought", false, s.defaults.Bought, &cfg.Bought) || repaired
	repaired = healField(ctx, doc, "active", false, s.defaults.Active, &cfg.Active) || repaired
	repaired = healField(ctx, doc, "done", false, s.defaults.Done, &cfg.Done) || repaired
	repaired = healField(ctx, doc, "last_menu_message_id", true, s.defaults.LastMenuMessageID, &cfg.LastMenuMessageID) || repaired

	return cfg, repaired
}

func healField[T any](
	ctx context.Context,
	doc map[string]jsoniter.RawMessage,
	key string,
	allowNull bool,
	def T,
	out *T,
) bool {
	raw, ok := doc[key]
	if !ok {
		logger(ctx).Warn("config field missing, using default", "field", key, "default", def)
		*out = def
		return true
	}

	// jsoniter отдаёт json null как пустой RawMessage, а не как литерал
	// "null", поэтому пустое сырьё тоже считается null-значением.
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		if allowNull {
			var zero T
			*out = zero
			return false
		}
		logger(ctx).Warn("config field is null, using default", "field", key, "default", def)
		*out = def
		return true
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		logger(ctx).Warn("config field has wrong type, using default",
			"field", key, "default", def, logx.Error(err))
		*out = def
		return true
	}

	*out = value
	return false
}

// Save вливает непустые поля патча в документ на диске: читает актуальное
// состояние, применяет патч и атомарно переписывает файл. При сбое на диске
// остаётся прежний документ, ошибка логируется и возвращается.
func (s *Store) Save(ctx context.Context, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := map[string]jsoniter.RawMessage{}

	if raw, err := os.ReadFile(s.path); err == nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			logger(ctx).Warn("config document unreadable on save, rebuilding", logx.Error(err))
			doc = marshalDoc(s.defaults)
		}

		// См. healField: null приходит пустым RawMessage, при обратной
		// сериализации он обязан снова стать литералом null.
		for key, value := range doc {
			if len(bytes.TrimSpace(value)) == 0 {
				doc[key] = jsoniter.RawMessage("null")
			}
		}
	} else {
		doc = marshalDoc(s.defaults)
	}

	patch.apply(doc)

	if err := s.writeRawLocked(doc); err != nil {
		logger(ctx).Error("config save failed", logx.Error(err))
		return domain.WrapError(err, errcodes.StorageFailure, "save config document")
	}

	return nil
}

func (s *Store) writeLocked(ctx context.Context, cfg entity.Config) error {
	if err := s.writeRawLocked(marshalDoc(cfg)); err != nil {
		logger(ctx).Error("config write failed", logx.Error(err))
		return domain.WrapError(err, errcodes.StorageFailure, "write config document")
	}
	return nil
}

// writeRawLocked пишет через временный файл и rename, чтобы частичная
// запись не могла испортить документ.
func (s *Store) writeRawLocked(doc map[string]jsoniter.RawMessage) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace config: %w", err)
	}

	return nil
}

func marshalDoc(cfg entity.Config) map[string]jsoniter.RawMessage {
	set := func(doc map[string]jsoniter.RawMessage, key string, v any) {
		b, _ := json.Marshal(v) //nolint:errcheck,errchkjson
		doc[key] = b
	}

	doc := make(map[string]jsoniter.RawMessage, 12)
	set(doc, "min_price", cfg.MinPrice)
	set(doc, "max_price", cfg.MaxPrice)
	set(doc, "min_supply", cfg.MinSupply)
	set(doc, "max_supply", cfg.MaxSupply)
	set(doc, "target_count", cfg.TargetCount)
	set(doc, "target_user_id", cfg.TargetUserID)
	set(doc, "target_chat_id", cfg.TargetChatID)
	set(doc, "balance", cfg.Balance)
	set(doc, "bought", cfg.Bought)
	set(doc, "active", cfg.Active)
	set(doc, "done", cfg.Done)
	set(doc, "last_menu_message_id", cfg.LastMenuMessageID)

	return doc
}
