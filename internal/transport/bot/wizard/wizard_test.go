package wizard_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tg_gifts/internal/domain/entity"
	"tg_gifts/internal/transport/bot/view"
	"tg_gifts/internal/transport/bot/wizard"
)

const (
	operatorID = int64(1217838677)
	chatID     = int64(42)
)

func TestConfigureHappyPath(t *testing.T) {
	rq := require.New(t)

	m := wizard.NewManager(operatorID)
	prompt := m.StartConfigure(chatID)
	rq.Equal(view.PromptMinPrice, prompt)
	rq.True(m.Active(chatID))

	steps := []struct {
		input string
		reply string
	}{
		{"5000", view.PromptMaxPrice},
		{"10000", view.PromptMinSupply},
		{"1000", view.PromptMaxSupply},
		{"10000", view.PromptTargetCount},
		{"5", view.PromptRecipient(operatorID)},
	}
	for _, step := range steps {
		res := m.Handle(chatID, step.input)
		rq.Equal(step.reply, res.Reply)
		rq.False(res.Done)
		rq.Nil(res.Patch)
	}

	res := m.Handle(chatID, "@channel")
	rq.True(res.Done)
	rq.False(res.Cancelled)
	rq.Equal(view.ConfigSaved, res.Reply)
	rq.NotNil(res.Patch)

	rq.Equal(int64(5000), *res.Patch.MinPrice)
	rq.Equal(int64(10000), *res.Patch.MaxPrice)
	rq.Equal(int64(1000), *res.Patch.MinSupply)
	rq.Equal(int64(10000), *res.Patch.MaxSupply)
	rq.Equal(int64(5), *res.Patch.TargetCount)
	rq.Equal(entity.Recipient{ChannelHandle: "channel"}, *res.Patch.Recipient)

	// Новая конфигурация всегда стартует с чистого прогона в выключенном
	// состоянии.
	rq.Equal(int64(0), *res.Patch.Bought)
	rq.False(*res.Patch.Active)
	rq.False(*res.Patch.Done)

	rq.False(m.Active(chatID))
}

func TestConfigureMaxBelowMinRepromptsSameStep(t *testing.T) {
	rq := require.New(t)

	m := wizard.NewManager(operatorID)
	m.StartConfigure(chatID)

	res := m.Handle(chatID, "5000")
	rq.Equal(view.PromptMaxPrice, res.Reply)

	// Ошибка валидации не двигает шаг и не трогает уже введённый минимум.
	res = m.Handle(chatID, "3000")
	rq.Equal(view.ErrMaxBelowMinPrice, res.Reply)
	rq.False(res.Done)

	res = m.Handle(chatID, "7000")
	rq.Equal(view.PromptMinSupply, res.Reply)

	res = m.Handle(chatID, "1000")
	rq.Equal(view.PromptMaxSupply, res.Reply)

	res = m.Handle(chatID, "500")
	rq.Equal(view.ErrMaxBelowMinSupply, res.Reply)

	res = m.Handle(chatID, "2000")
	rq.Equal(view.PromptTargetCount, res.Reply)

	res = m.Handle(chatID, "1")
	res = m.Handle(chatID, "123")
	rq.NotNil(res.Patch)
	rq.Equal(int64(5000), *res.Patch.MinPrice)
	rq.Equal(int64(7000), *res.Patch.MaxPrice)
}

func TestConfigureRejectsNonPositive(t *testing.T) {
	rq := require.New(t)

	m := wizard.NewManager(operatorID)
	m.StartConfigure(chatID)

	for _, input := range []string{"abc", "0", "-5", "1.5", ""} {
		res := m.Handle(chatID, input)
		rq.Equal(view.ErrNotPositive, res.Reply, "input %q", input)
		rq.False(res.Done)
	}

	rq.True(m.Active(chatID))
}

func TestCancelAtAnyStep(t *testing.T) {
	rq := require.New(t)

	m := wizard.NewManager(operatorID)
	m.StartConfigure(chatID)
	m.Handle(chatID, "5000")

	res := m.Handle(chatID, "/cancel")
	rq.True(res.Done)
	rq.True(res.Cancelled)
	rq.Equal(view.Cancelled, res.Reply)
	rq.Nil(res.Patch)
	rq.False(m.Active(chatID))

	// Отмена забывает частичный прогресс: новый мастер начинается с нуля.
	prompt := m.StartConfigure(chatID)
	rq.Equal(view.PromptMinPrice, prompt)
}

func TestHandleWithoutSession(t *testing.T) {
	rq := require.New(t)

	m := wizard.NewManager(operatorID)

	res := m.Handle(chatID, "5000")
	rq.True(res.Done)
	rq.Empty(res.Reply)
}

func TestDeposit(t *testing.T) {
	rq := require.New(t)

	m := wizard.NewManager(operatorID)
	prompt := m.StartDeposit(chatID)
	rq.Equal(view.PromptDeposit, prompt)

	for _, input := range []string{"0", "-1", "10001", "abc"} {
		res := m.Handle(chatID, input)
		rq.Equal(view.ErrDepositRange, res.Reply, "input %q", input)
		rq.False(res.Done)
	}

	res := m.Handle(chatID, "500")
	rq.True(res.Done)
	rq.Equal(int64(500), res.DepositAmount)
	rq.False(m.Active(chatID))
}

func TestRefund(t *testing.T) {
	rq := require.New(t)

	m := wizard.NewManager(operatorID)
	prompt := m.StartRefund(chatID)
	rq.Equal(view.PromptRefund, prompt)

	res := m.Handle(chatID, "txn_abc123")
	rq.True(res.Done)
	rq.Equal("txn_abc123", res.RefundTxnID)
}

func TestRefundWithdrawAllToken(t *testing.T) {
	rq := require.New(t)

	m := wizard.NewManager(operatorID)
	m.StartRefund(chatID)

	res := m.Handle(chatID, "/withdraw_all")
	rq.True(res.Done)
	rq.True(res.WithdrawAll)
	rq.Empty(res.RefundTxnID)
}

func TestParseRecipient(t *testing.T) {
	rq := require.New(t)

	recipient, ok := wizard.ParseRecipient("@channel")
	rq.True(ok)
	rq.Equal(entity.Recipient{ChannelHandle: "channel"}, recipient)

	recipient, ok = wizard.ParseRecipient("12345")
	rq.True(ok)
	rq.Equal(entity.Recipient{UserID: 12345}, recipient)

	recipient, ok = wizard.ParseRecipient(" @handle ")
	rq.True(ok)
	rq.Equal(entity.Recipient{ChannelHandle: "handle"}, recipient)

	for _, input := range []string{"abc", "@", "-1", "0", ""} {
		_, ok = wizard.ParseRecipient(input)
		rq.False(ok, "input %q", input)
	}
}
