package moderation

import (
	"strings"
	"unicode"

	"AnonAskBot/internal/domain/errorz"
)

const (
	maxTextLen     = 2000
	capsRatioLimit = 0.7
	capsMinLen     = 20
	maxRepeatRun   = 10
)

var defaultBanned = []string{
	"spam",
	"casino",
	"free money",
	"http://",
	"https://",
}

// Service is the rule-based text gate applied to questions, edits and
// answers alike. Rules run in a fixed order and the first failure wins.
type Service struct {
	banned []string
}

func New(banned []string) *Service {
	if len(banned) == 0 {
		banned = defaultBanned
	}
	lowered := make([]string, len(banned))
	for i, b := range banned {
		lowered[i] = strings.ToLower(b)
	}
	return &Service{banned: lowered}
}

// Evaluate returns nil when the text is acceptable and a
// *errorz.ModerationError with the first failing rule's reason otherwise.
func (s *Service) Evaluate(text string) error {
	lowered := strings.ToLower(text)
	for _, b := range s.banned {
		if strings.Contains(lowered, b) {
			return &errorz.ModerationError{Reason: "contains prohibited content"}
		}
	}

	runes := []rune(text)
	if len(runes) > maxTextLen {
		return &errorz.ModerationError{Reason: "message is too long"}
	}

	if len(runes) > capsMinLen {
		upper := 0
		for _, r := range runes {
			if unicode.IsUpper(r) {
				upper++
			}
		}
		if float64(upper)/float64(len(runes)) > capsRatioLimit {
			return &errorz.ModerationError{Reason: "too many capital letters"}
		}
	}

	run := 0
	var prev rune
	for i, r := range runes {
		if i > 0 && r == prev {
			run++
			if run > maxRepeatRun {
				return &errorz.ModerationError{Reason: "repetitive characters"}
			}
		} else {
			run = 1
		}
		prev = r
	}

	return nil
}
