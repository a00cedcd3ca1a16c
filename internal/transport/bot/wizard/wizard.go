package wizard

import (
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"

	"tg_gifts/internal/domain/entity"
	"tg_gifts/internal/infrastructure/store"
	"tg_gifts/internal/transport/bot/view"
)

// Kind различает три мастера: полный мастер конфигурации и два
// одношаговых — депозит и возврат.
type Kind int

const (
	KindConfigure Kind = iota
	KindDeposit
	KindRefund
)

// Step — текущее поле строго линейного мастера конфигурации.
type Step int

const (
	StepMinPrice Step = iota
	StepMaxPrice
	StepMinSupply
	StepMaxSupply
	StepTargetCount
	StepRecipient
)

const (
	cancelToken      = "/cancel"
	withdrawAllToken = "/withdraw_all"

	depositMin = 1
	depositMax = 10000

	sessionTTL = 30 * time.Minute
)

// session — частично собранные поля. Живёт только на время редактирования,
// в документ не попадает до финального шага.
type session struct {
	kind Kind
	step Step

	minPrice    int64
	maxPrice    int64
	minSupply   int64
	maxSupply   int64
	targetCount int64
}

// Result — что транспорт должен сделать после обработки ввода.
type Result struct {
	// Reply — следующий промпт или сообщение об ошибке валидации.
	Reply string
	// Done выставлен, когда мастер завершился (успешно или отменой).
	Done      bool
	Cancelled bool

	// Patch заполнен только при успешном коммите мастера конфигурации.
	Patch *store.Patch
	// DepositAmount > 0 — оператор ввёл сумму пополнения.
	DepositAmount int64
	// RefundTxnID непуст — оператор ввёл ID транзакции на возврат.
	RefundTxnID string
	// WithdrawAll — оператор запросил вывод всего баланса из мастера возврата.
	WithdrawAll bool
}

// Manager хранит по одной транзиентной сессии на чат. Сессии протухают
// сами, если оператор бросил мастер на середине.
type Manager struct {
	operatorID int64
	sessions   *cache.Cache
}

func NewManager(operatorID int64) *Manager {
	return &Manager{
		operatorID: operatorID,
		sessions:   cache.New(sessionTTL, sessionTTL/3),
	}
}

func (m *Manager) StartConfigure(chatID int64) string {
	m.sessions.Set(key(chatID), &session{kind: KindConfigure, step: StepMinPrice}, cache.DefaultExpiration)
	return view.PromptMinPrice
}

func (m *Manager) StartDeposit(chatID int64) string {
	m.sessions.Set(key(chatID), &session{kind: KindDeposit}, cache.DefaultExpiration)
	return view.PromptDeposit
}

func (m *Manager) StartRefund(chatID int64) string {
	m.sessions.Set(key(chatID), &session{kind: KindRefund}, cache.DefaultExpiration)
	return view.PromptRefund
}

// Active сообщает, ждёт ли чат ввода мастера.
func (m *Manager) Active(chatID int64) bool {
	_, ok := m.sessions.Get(key(chatID))
	return ok
}

func (m *Manager) Cancel(chatID int64) {
	m.sessions.Delete(key(chatID))
}

// Handle обрабатывает одно текстовое сообщение. Ошибка валидации оставляет
// состояние как было и перепрашивает тот же шаг.
func (m *Manager) Handle(chatID int64, input string) Result {
	raw, ok := m.sessions.Get(key(chatID))
	if !ok {
		return Result{Done: true}
	}
	sess := raw.(*session)

	input = strings.TrimSpace(input)

	// Токен отмены распознаётся на любом шаге любого мастера.
	if strings.EqualFold(input, cancelToken) {
		m.Cancel(chatID)
		return Result{Reply: view.Cancelled, Done: true, Cancelled: true}
	}

	switch sess.kind {
	case KindDeposit:
		return m.handleDeposit(chatID, input)
	case KindRefund:
		return m.handleRefund(chatID, input)
	default:
		return m.handleConfigure(chatID, sess, input)
	}
}

func (m *Manager) handleConfigure(chatID int64, sess *session, input string) Result {
	switch sess.step {
	case StepMinPrice:
		value, ok := parsePositive(input)
		if !ok {
			return Result{Reply: view.ErrNotPositive}
		}
		sess.minPrice = value
		sess.step = StepMaxPrice
		return Result{Reply: view.PromptMaxPrice}

	case StepMaxPrice:
		value, ok := parsePositive(input)
		if !ok {
			return Result{Reply: view.ErrNotPositive}
		}
		if value < sess.minPrice {
			return Result{Reply: view.ErrMaxBelowMinPrice}
		}
		sess.maxPrice = value
		sess.step = StepMinSupply
		return Result{Reply: view.PromptMinSupply}

	case StepMinSupply:
		value, ok := parsePositive(input)
		if !ok {
			return Result{Reply: view.ErrNotPositive}
		}
		sess.minSupply = value
		sess.step = StepMaxSupply
		return Result{Reply: view.PromptMaxSupply}

	case StepMaxSupply:
		value, ok := parsePositive(input)
		if !ok {
			return Result{Reply: view.ErrNotPositive}
		}
		if value < sess.minSupply {
			return Result{Reply: view.ErrMaxBelowMinSupply}
		}
		sess.maxSupply = value
		sess.step = StepTargetCount
		return Result{Reply: view.PromptTargetCount}

	case StepTargetCount:
		value, ok := parsePositive(input)
		if !ok {
			return Result{Reply: view.ErrNotPositive}
		}
		sess.targetCount = value
		sess.step = StepRecipient
		return Result{Reply: view.PromptRecipient(m.operatorID)}

	case StepRecipient:
		recipient, ok := ParseRecipient(input)
		if !ok {
			return Result{Reply: view.ErrBadRecipient}
		}

		// Только финальный шаг коммитит собранные поля одним патчем;
		// частичный прогресс движку не виден.
		patch := &store.Patch{
			MinPrice:    lo.ToPtr(sess.minPrice),
			MaxPrice:    lo.ToPtr(sess.maxPrice),
			MinSupply:   lo.ToPtr(sess.minSupply),
			MaxSupply:   lo.ToPtr(sess.maxSupply),
			TargetCount: lo.ToPtr(sess.targetCount),
			Recipient:   &recipient,
			Bought:      lo.ToPtr(int64(0)),
			Active:      lo.ToPtr(false),
			Done:        lo.ToPtr(false),
		}

		m.Cancel(chatID)

		return Result{Reply: view.ConfigSaved, Done: true, Patch: patch}
	}

	return Result{Done: true}
}

func (m *Manager) handleDeposit(chatID int64, input string) Result {
	amount, err := strconv.ParseInt(input, 10, 64)
	if err != nil || amount < depositMin || amount > depositMax {
		return Result{Reply: view.ErrDepositRange}
	}

	m.Cancel(chatID)

	return Result{Done: true, DepositAmount: amount}
}

func (m *Manager) handleRefund(chatID int64, input string) Result {
	if strings.EqualFold(input, withdrawAllToken) {
		m.Cancel(chatID)
		return Result{Done: true, WithdrawAll: true}
	}

	if input == "" {
		return Result{Reply: view.PromptRefund}
	}

	m.Cancel(chatID)

	return Result{Done: true, RefundTxnID: input}
}

// ParseRecipient различает форму адресата синтаксически: ведущая @ —
// канал (сохраняется без @), только цифры — ID аккаунта.
func ParseRecipient(input string) (entity.Recipient, bool) {
	input = strings.TrimSpace(input)

	if handle, ok := strings.CutPrefix(input, "@"); ok && handle != "" {
		return entity.Recipient{ChannelHandle: handle}, true
	}

	if id, err := strconv.ParseInt(input, 10, 64); err == nil && id > 0 {
		return entity.Recipient{UserID: id}, true
	}

	return entity.Recipient{}, false
}

func parsePositive(input string) (int64, bool) {
	value, err := strconv.ParseInt(input, 10, 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

func key(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
