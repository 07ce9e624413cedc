package telegram

import (
	"context"
	"errors"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"AnonAskBot/internal/domain/errorz"
	"AnonAskBot/internal/domain/schema"
	answersvc "AnonAskBot/internal/domain/service/answer"
)

func (c *Controller) handleText(ctx context.Context, b *tgbot.Bot, upd *models.Update) {
	msg := upd.Message
	userID := msg.From.ID
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if strings.HasPrefix(text, "/") {
		// Unknown command; registered ones never reach here.
		c.sendText(ctx, chatID, msgNoFlow)
		return
	}

	state, ok, err := c.sessions.Get(ctx, userID)
	if err != nil {
		c.log.Errorw("load session failed", "user_id", userID, "error", err)
		if errors.Is(err, errorz.ErrStoreUnavailable) {
			c.sendText(ctx, chatID, msgStoreDown)
			return
		}
		c.sendText(ctx, chatID, msgTryAgain)
		return
	}
	if !ok {
		c.sendText(ctx, chatID, msgNoFlow)
		return
	}

	switch state.Step {
	case schema.StepAwaitingQuestion:
		if reason, rejected := c.moderate(text); rejected {
			c.sendText(ctx, chatID, "Your question was not accepted: "+reason+"\nTry rephrasing it.")
			return
		}
		state.Draft.Text = text
		state.Step = schema.StepAwaitingTopic
		c.saveSession(ctx, chatID, userID, state)
		c.send(ctx, chatID, "Pick a topic for your question:", topicKeyboard())

	case schema.StepAwaitingCustomTopic:
		state.Draft.Topic = shortText(text, 40)
		state.Step = schema.StepConfirmQuestion
		c.saveSession(ctx, chatID, userID, state)
		c.sendDraftPreview(ctx, chatID, state)

	case schema.StepEditingQuestion:
		if reason, rejected := c.moderate(text); rejected {
			c.sendText(ctx, chatID, "The new wording was not accepted: "+reason)
			return
		}
		state.Draft.Text = text
		state.Step = schema.StepConfirmQuestion
		c.saveSession(ctx, chatID, userID, state)
		c.sendDraftPreview(ctx, chatID, state)

	case schema.StepAwaitingAnswer:
		c.submitAnswer(ctx, chatID, userID, state.QuestionID, text)

	case schema.StepAwaitingFeedback:
		c.forwardFeedback(ctx, chatID, userID, text)

	default:
		c.sendText(ctx, chatID, msgUseButtons)
	}
}

// moderate runs the text gate and returns the surfaced reason on rejection.
func (c *Controller) moderate(text string) (string, bool) {
	err := c.mod.Evaluate(text)
	if err == nil {
		return "", false
	}
	var me *errorz.ModerationError
	if errors.As(err, &me) {
		return me.Reason, true
	}
	return "content check failed", true
}

func (c *Controller) submitAnswer(ctx context.Context, chatID, userID, questionID int64, text string) {
	_, err := c.answer.Create(ctx, userID, questionID, text)
	if err != nil {
		var me *errorz.ModerationError
		switch {
		case errors.As(err, &me):
			// Session stays; the user can retry with better wording.
			c.sendText(ctx, chatID, "Your answer was not accepted: "+me.Reason)
		case errors.Is(err, errorz.ErrNotFound):
			_ = c.sessions.Cancel(ctx, userID)
			c.send(ctx, chatID, msgQuestionGone, c.mainMenu(userID))
		default:
			c.log.Errorw("create answer failed", "user_id", userID, "question_id", questionID, "error", err)
			c.sendText(ctx, chatID, msgTryAgain)
		}
		return
	}

	_ = c.sessions.Cancel(ctx, userID)
	c.send(ctx, chatID, answerAcceptedText(answersvc.CreationPoints), c.mainMenu(userID))
}

func (c *Controller) forwardFeedback(ctx context.Context, chatID, userID int64, text string) {
	_, err := c.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: c.access.OperatorID(),
		Text:   "Feedback from a user:\n\n" + text,
	})
	if err != nil {
		c.log.Errorw("forward feedback failed", "user_id", userID, "error", err)
		c.sendText(ctx, chatID, msgTryAgain)
		return
	}
	_ = c.sessions.Cancel(ctx, userID)
	c.send(ctx, chatID, "Thank you, your feedback was passed on.", c.mainMenu(userID))
}

func (c *Controller) saveSession(ctx context.Context, chatID, userID int64, state schema.Session) {
	if err := c.sessions.Save(ctx, userID, state); err != nil {
		c.log.Errorw("save session failed", "user_id", userID, "error", err)
		c.sendText(ctx, chatID, msgTryAgain)
	}
}
