package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"AnonAskBot/internal/domain/schema"
)

const (
	msgTryAgain     = "Something went wrong, please try again."
	msgStoreDown    = "Storage is temporarily unavailable, please try again in a minute."
	msgUseButtons   = "Please use the buttons under the message."
	msgNoFlow       = "I wasn't expecting a message. Start with /menu."
	msgFlowExpired  = "This flow has expired, please start again."
	msgQuestionGone = "This question is no longer available."
)

func updateFrom(upd *models.Update) (*models.User, bool) {
	switch {
	case upd.CallbackQuery != nil:
		return &upd.CallbackQuery.From, true
	case upd.Message != nil && upd.Message.From != nil:
		return upd.Message.From, true
	}
	return nil, false
}

func chatIDOf(upd *models.Update) int64 {
	switch {
	case upd.CallbackQuery != nil:
		return upd.CallbackQuery.Message.Message.Chat.ID
	case upd.Message != nil:
		return upd.Message.Chat.ID
	}
	return 0
}

func userFromTelegram(from *models.User) schema.User {
	name := strings.TrimSpace(from.FirstName + " " + from.LastName)
	if name == "" {
		name = from.Username
	}
	return schema.User{ID: from.ID, DisplayName: name}
}

func (c *Controller) sendText(ctx context.Context, chatID int64, text string) {
	if chatID == 0 {
		return
	}
	if _, err := c.bot.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		c.log.Warnw("send failed", "chat_id", chatID, "error", err)
	}
}

func (c *Controller) send(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) {
	if _, err := c.bot.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: chatID, Text: text, ReplyMarkup: markup}); err != nil {
		c.log.Warnw("send failed", "chat_id", chatID, "error", err)
	}
}

func (c *Controller) answerCallback(ctx context.Context, callbackID, text string, alert bool) {
	_, _ = c.bot.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
}

func parseInt64Part(data string, idx int) (int64, bool) {
	parts := strings.Split(data, ":")
	if len(parts) <= idx {
		return 0, false
	}
	v, err := strconv.ParseInt(parts[idx], 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseIntPart(data string, idx int) (int, bool) {
	parts := strings.Split(data, ":")
	if len(parts) <= idx {
		return 0, false
	}
	v, err := strconv.Atoi(parts[idx])
	if err != nil {
		return 0, false
	}
	return v, true
}

func shortText(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
