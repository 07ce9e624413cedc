package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func (c *Controller) start(ctx context.Context, b *tgbot.Bot, upd *models.Update) {
	userID := upd.Message.From.ID
	chatID := upd.Message.Chat.ID

	payload := strings.TrimSpace(strings.TrimPrefix(upd.Message.Text, "/start"))
	switch {
	case strings.HasPrefix(payload, "q_"):
		if id, err := strconv.ParseInt(payload[2:], 10, 64); err == nil {
			c.showAnswers(ctx, chatID, userID, id, 1)
			return
		}
	case strings.HasPrefix(payload, "a_"):
		if id, err := strconv.ParseInt(payload[2:], 10, 64); err == nil {
			c.startAnswerFlow(ctx, chatID, userID, id)
			return
		}
	}

	_ = c.sessions.Cancel(ctx, userID)
	c.send(ctx, chatID, "Welcome! Ask anything anonymously, answer others and earn points.", c.mainMenu(userID))
}

func (c *Controller) menu(ctx context.Context, b *tgbot.Bot, upd *models.Update) {
	userID := upd.Message.From.ID
	_ = c.sessions.Cancel(ctx, userID)
	c.send(ctx, upd.Message.Chat.ID, "Main menu", c.mainMenu(userID))
}

func (c *Controller) ask(ctx context.Context, b *tgbot.Bot, upd *models.Update) {
	c.startAskFlow(ctx, upd.Message.Chat.ID, upd.Message.From.ID)
}

func (c *Controller) showProfile(ctx context.Context, b *tgbot.Bot, upd *models.Update) {
	c.sendProfile(ctx, upd.Message.Chat.ID, upd.Message.From.ID)
}

func (c *Controller) leaderboard(ctx context.Context, b *tgbot.Bot, upd *models.Update) {
	c.sendLeaderboard(ctx, upd.Message.Chat.ID)
}

func (c *Controller) feedback(ctx context.Context, b *tgbot.Bot, upd *models.Update) {
	c.startFeedbackFlow(ctx, upd.Message.Chat.ID, upd.Message.From.ID)
}

func (c *Controller) cancel(ctx context.Context, b *tgbot.Bot, upd *models.Update) {
	userID := upd.Message.From.ID
	if err := c.sessions.Cancel(ctx, userID); err != nil {
		c.log.Errorw("cancel session failed", "user_id", userID, "error", err)
	}
	c.send(ctx, upd.Message.Chat.ID, "Cancelled.", c.mainMenu(userID))
}

func (c *Controller) startAskFlow(ctx context.Context, chatID, userID int64) {
	if err := c.sessions.StartAsk(ctx, userID); err != nil {
		c.log.Errorw("start ask flow failed", "user_id", userID, "error", err)
		c.sendText(ctx, chatID, msgTryAgain)
		return
	}
	c.sendText(ctx, chatID, "Send me your question as a single message.")
}

func (c *Controller) startFeedbackFlow(ctx context.Context, chatID, userID int64) {
	if err := c.sessions.StartFeedback(ctx, userID); err != nil {
		c.log.Errorw("start feedback flow failed", "user_id", userID, "error", err)
		c.sendText(ctx, chatID, msgTryAgain)
		return
	}
	c.sendText(ctx, chatID, "Write your feedback, it goes straight to the operator.")
}

func (c *Controller) startAnswerFlow(ctx context.Context, chatID, userID, questionID int64) {
	q, err := c.question.Get(ctx, questionID)
	if err != nil || !q.Approved {
		c.sendText(ctx, chatID, msgQuestionGone)
		return
	}
	if err := c.sessions.StartAnswer(ctx, userID, questionID); err != nil {
		c.log.Errorw("start answer flow failed", "user_id", userID, "error", err)
		c.sendText(ctx, chatID, msgTryAgain)
		return
	}
	c.sendText(ctx, chatID, "Question:\n"+q.Text+"\n\nSend your answer as a single message.")
}
