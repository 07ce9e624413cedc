package telegram

import (
	"context"
	"fmt"
	"sync"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"AnonAskBot/internal/domain/schema"
)

// Outbox is the outbound half of the transport: notification delivery,
// operator review prompts and the public channel post. It is created before
// the bot so the domain services can hold it, and bound to the bot once the
// controller is built.
type Outbox struct {
	mu         sync.RWMutex
	bot        *tgbot.Bot
	username   string
	channelID  string
	operatorID int64
}

func NewOutbox(channelID string, operatorID int64) *Outbox {
	return &Outbox{channelID: channelID, operatorID: operatorID}
}

func (o *Outbox) bind(b *tgbot.Bot) {
	o.mu.Lock()
	o.bot = b
	o.mu.Unlock()
}

func (o *Outbox) setUsername(name string) {
	o.mu.Lock()
	o.username = name
	o.mu.Unlock()
}

func (o *Outbox) handles() (*tgbot.Bot, string, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.bot == nil {
		return nil, "", fmt.Errorf("telegram transport not bound yet")
	}
	return o.bot, o.username, nil
}

// Send delivers one notification to the user's private chat.
func (o *Outbox) Send(ctx context.Context, userID int64, n schema.Notification) error {
	b, _, err := o.handles()
	if err != nil {
		return err
	}

	text, err := renderNotification(n)
	if err != nil {
		return err
	}

	var markup models.ReplyMarkup
	if n.Kind == schema.NotificationNewAnswer {
		markup = &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "💬 View answers", CallbackData: fmt.Sprintf("brw:%d:1", n.Payload.QuestionID)}},
		}}
	}

	_, err = b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      userID,
		Text:        text,
		ReplyMarkup: markup,
	})
	return err
}

// NotifyOperator sends the review prompt with the approve/reject pair.
func (o *Outbox) NotifyOperator(ctx context.Context, q schema.Question) error {
	b, _, err := o.handles()
	if err != nil {
		return err
	}
	_, err = b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: o.operatorID,
		Text:   fmt.Sprintf("New question pending review\n\nTopic: %s\n\n%s", q.Topic, q.Text),
		ReplyMarkup: &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "✅ Approve", CallbackData: fmt.Sprintf("mod:ok:%d", q.ID)},
				{Text: "❌ Reject", CallbackData: fmt.Sprintf("mod:no:%d", q.ID)},
			},
		}},
	})
	return err
}

// NotifyRejected tells the author their question was declined, with a
// shortcut to ask another one.
func (o *Outbox) NotifyRejected(ctx context.Context, authorID int64, q schema.Question) error {
	b, _, err := o.handles()
	if err != nil {
		return err
	}
	_, err = b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: authorID,
		Text:   "Your question was not approved by the moderator:\n\n" + q.Text,
		ReplyMarkup: &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "❓ Ask another question", CallbackData: "ask"}},
		}},
	})
	return err
}

// Publish posts the approved question to the channel and returns the message
// id for later counter updates.
func (o *Outbox) Publish(ctx context.Context, q schema.Question) (int, error) {
	b, username, err := o.handles()
	if err != nil {
		return 0, err
	}
	msg, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      o.channelID,
		Text:        fmt.Sprintf("#%s\n\n%s", q.Topic, q.Text),
		ReplyMarkup: channelKeyboard(username, q.ID, q.AnswerCount),
	})
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

// UpdateAnswerCounter refreshes the button labels on the channel post.
// Telegram rejects edits of old or unchanged messages; the caller treats a
// failure here as non-fatal.
func (o *Outbox) UpdateAnswerCounter(ctx context.Context, channelMsgID int, questionID int64, count int) error {
	b, username, err := o.handles()
	if err != nil {
		return err
	}
	_, err = b.EditMessageReplyMarkup(ctx, &tgbot.EditMessageReplyMarkupParams{
		ChatID:      o.channelID,
		MessageID:   channelMsgID,
		ReplyMarkup: channelKeyboard(username, questionID, count),
	})
	return err
}

func channelKeyboard(botUsername string, questionID int64, answerCount int) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{
			{Text: "✍️ Answer", URL: deepLink(botUsername, fmt.Sprintf("a_%d", questionID))},
			{Text: fmt.Sprintf("💬 Answers (%d)", answerCount), URL: deepLink(botUsername, fmt.Sprintf("q_%d", questionID))},
		},
	}}
}

func deepLink(botUsername, payload string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", botUsername, payload)
}
