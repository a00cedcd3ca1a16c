package logx

import (
	"regexp"
)

type SensitiveDataMaskerInterface interface {
	Mask(input []byte) []byte
}

//nolint:gochecknoglobals
var sensitiveDataPatterns = []*regexp.Regexp{
	// Bot API token appears inside request URLs as "/bot<id>:<secret>/".
	regexp.MustCompile(`(/bot\d+:)[\w-]+(/)`),
	// JSON fields.
	regexp.MustCompile(`(?s)("token":\s?").+?(")`),
	regexp.MustCompile(`(?s)("provider_token":\s?").+?(")`),
	regexp.MustCompile(`(?s)("telegram_payment_charge_id":\s?").+?(")`),
	regexp.MustCompile(`(?s)("provider_payment_charge_id":\s?").+?(")`),
}

type SensitiveDataMasker struct{}

func NewSensitiveDataMasker() SensitiveDataMasker {
	return SensitiveDataMasker{}
}

func (s SensitiveDataMasker) Mask(input []byte) []byte {
	for _, pattern := range sensitiveDataPatterns {
		input = pattern.ReplaceAll(input, []byte("${1}[MASKED]${2}"))
	}

	return input
}
