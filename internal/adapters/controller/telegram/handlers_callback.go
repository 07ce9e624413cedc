package telegram

import (
	"context"
	"errors"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"AnonAskBot/internal/domain/errorz"
	"AnonAskBot/internal/domain/schema"
)

func (c *Controller) handleCallback(ctx context.Context, b *tgbot.Bot, upd *models.Update) {
	cb := upd.CallbackQuery
	userID := cb.From.ID
	chatID := cb.Message.Message.Chat.ID
	data := cb.Data

	switch {
	case data == "noop":
		c.answerCallback(ctx, cb.ID, "", false)

	case data == "menu":
		c.answerCallback(ctx, cb.ID, "", false)
		_ = c.sessions.Cancel(ctx, userID)
		c.send(ctx, chatID, "Main menu", c.mainMenu(userID))

	case data == "ask":
		c.answerCallback(ctx, cb.ID, "", false)
		c.startAskFlow(ctx, chatID, userID)

	case data == "prof":
		c.answerCallback(ctx, cb.ID, "", false)
		c.sendProfile(ctx, chatID, userID)

	case data == "top":
		c.answerCallback(ctx, cb.ID, "", false)
		c.sendLeaderboard(ctx, chatID)

	case data == "fb":
		c.answerCallback(ctx, cb.ID, "", false)
		c.startFeedbackFlow(ctx, chatID, userID)

	case data == "tpc:custom":
		c.answerCallback(ctx, cb.ID, "", false)
		c.pickCustomTopic(ctx, chatID, userID)

	case strings.HasPrefix(data, "tpc:"):
		idx, ok := parseIntPart(data, 1)
		if !ok {
			return
		}
		c.answerCallback(ctx, cb.ID, "", false)
		c.pickTopic(ctx, chatID, userID, idx)

	case data == "q:confirm":
		c.confirmQuestion(ctx, cb, chatID, userID)

	case data == "q:edit":
		c.answerCallback(ctx, cb.ID, "", false)
		c.editQuestion(ctx, chatID, userID)

	case data == "q:cancel":
		c.answerCallback(ctx, cb.ID, "", false)
		_ = c.sessions.Cancel(ctx, userID)
		c.send(ctx, chatID, "Question discarded.", c.mainMenu(userID))

	case strings.HasPrefix(data, "ans:"):
		questionID, ok := parseInt64Part(data, 1)
		if !ok {
			return
		}
		c.answerCallback(ctx, cb.ID, "", false)
		c.startAnswerFlow(ctx, chatID, userID, questionID)

	case strings.HasPrefix(data, "brw:"):
		questionID, ok1 := parseInt64Part(data, 1)
		page, ok2 := parseIntPart(data, 2)
		if !ok1 || !ok2 {
			return
		}
		c.answerCallback(ctx, cb.ID, "", false)
		c.showAnswers(ctx, chatID, userID, questionID, page)

	case strings.HasPrefix(data, "vt:"):
		c.handleVote(ctx, cb, userID, data)

	case strings.HasPrefix(data, "sub:"):
		questionID, ok := parseInt64Part(data, 1)
		if !ok {
			return
		}
		if err := c.subs.Subscribe(ctx, userID, questionID); err != nil {
			c.log.Errorw("subscribe failed", "user_id", userID, "question_id", questionID, "error", err)
			c.answerCallback(ctx, cb.ID, msgTryAgain, true)
			return
		}
		c.answerCallback(ctx, cb.ID, "🔔 You will be notified about new answers", false)

	case strings.HasPrefix(data, "unsub:"):
		questionID, ok := parseInt64Part(data, 1)
		if !ok {
			return
		}
		if err := c.subs.Unsubscribe(ctx, userID, questionID); err != nil {
			c.log.Errorw("unsubscribe failed", "user_id", userID, "question_id", questionID, "error", err)
			c.answerCallback(ctx, cb.ID, msgTryAgain, true)
			return
		}
		c.answerCallback(ctx, cb.ID, "🔕 Notifications off for this question", false)

	case strings.HasPrefix(data, "mod:"):
		c.handleModeration(ctx, cb, chatID, userID, data)

	case data == "ntf:list":
		c.answerCallback(ctx, cb.ID, "", false)
		c.showNotifications(ctx, chatID, userID)

	case data == "ntf:read":
		if err := c.notify.MarkAllRead(ctx, userID); err != nil {
			c.answerCallback(ctx, cb.ID, msgTryAgain, true)
			return
		}
		c.answerCallback(ctx, cb.ID, "All marked as read", false)

	case strings.HasPrefix(data, "ntf:rd:"):
		id := strings.TrimPrefix(data, "ntf:rd:")
		if err := c.notify.MarkRead(ctx, id); err != nil {
			c.answerCallback(ctx, cb.ID, msgTryAgain, true)
			return
		}
		c.answerCallback(ctx, cb.ID, "Marked as read", false)

	case data == "adm:stats":
		c.answerCallback(ctx, cb.ID, "", false)
		c.sendAdminStats(ctx, chatID, userID)
	}
}

func (c *Controller) pickTopic(ctx context.Context, chatID, userID int64, idx int) {
	state, ok, err := c.sessions.Get(ctx, userID)
	if err != nil || !ok || state.Step != schema.StepAwaitingTopic {
		c.sendText(ctx, chatID, msgFlowExpired)
		return
	}
	if idx < 0 || idx >= len(topics) {
		return
	}
	state.Draft.Topic = topics[idx]
	state.Step = schema.StepConfirmQuestion
	c.saveSession(ctx, chatID, userID, state)
	c.sendDraftPreview(ctx, chatID, state)
}

func (c *Controller) pickCustomTopic(ctx context.Context, chatID, userID int64) {
	state, ok, err := c.sessions.Get(ctx, userID)
	if err != nil || !ok || state.Step != schema.StepAwaitingTopic {
		c.sendText(ctx, chatID, msgFlowExpired)
		return
	}
	state.Step = schema.StepAwaitingCustomTopic
	c.saveSession(ctx, chatID, userID, state)
	c.sendText(ctx, chatID, "Type your own topic (a word or two).")
}

func (c *Controller) editQuestion(ctx context.Context, chatID, userID int64) {
	state, ok, err := c.sessions.Get(ctx, userID)
	if err != nil || !ok || state.Step != schema.StepConfirmQuestion {
		c.sendText(ctx, chatID, msgFlowExpired)
		return
	}
	state.Step = schema.StepEditingQuestion
	c.saveSession(ctx, chatID, userID, state)
	c.sendText(ctx, chatID, "Send the new wording of your question.")
}

func (c *Controller) confirmQuestion(ctx context.Context, cb *models.CallbackQuery, chatID, userID int64) {
	state, ok, err := c.sessions.Get(ctx, userID)
	if err != nil || !ok || state.Step != schema.StepConfirmQuestion {
		c.answerCallback(ctx, cb.ID, "", false)
		c.sendText(ctx, chatID, msgFlowExpired)
		return
	}

	_, err = c.question.Submit(ctx, userID, state.Draft)
	if err != nil {
		var me *errorz.ModerationError
		if errors.As(err, &me) {
			c.answerCallback(ctx, cb.ID, "", false)
			c.sendText(ctx, chatID, "Your question was not accepted: "+me.Reason)
			return
		}
		c.log.Errorw("submit question failed", "user_id", userID, "error", err)
		c.answerCallback(ctx, cb.ID, msgTryAgain, true)
		return
	}

	_ = c.sessions.Cancel(ctx, userID)
	c.answerCallback(ctx, cb.ID, "", false)
	c.send(ctx, chatID, "Your question was sent for review. You'll be notified once it is published.", c.mainMenu(userID))
}

func (c *Controller) handleVote(ctx context.Context, cb *models.CallbackQuery, userID int64, data string) {
	answerID, ok := parseInt64Part(data, 2)
	if !ok {
		return
	}

	var err error
	var ack string
	switch {
	case strings.HasPrefix(data, "vt:up:"):
		err = c.vote.Cast(ctx, userID, answerID, 1)
		ack = "👍 Voted up"
	case strings.HasPrefix(data, "vt:dn:"):
		err = c.vote.Cast(ctx, userID, answerID, -1)
		ack = "👎 Voted down"
	case strings.HasPrefix(data, "vt:cl:"):
		err = c.vote.Clear(ctx, userID, answerID)
		ack = "Vote removed"
	default:
		return
	}

	switch {
	case err == nil:
		c.answerCallback(ctx, cb.ID, ack, false)
	case errors.Is(err, errorz.ErrForbidden):
		c.answerCallback(ctx, cb.ID, "You can't vote on your own answer", true)
	case errors.Is(err, errorz.ErrNotFound):
		c.answerCallback(ctx, cb.ID, "This answer is no longer available", true)
	default:
		c.log.Errorw("vote failed", "user_id", userID, "answer_id", answerID, "error", err)
		c.answerCallback(ctx, cb.ID, msgTryAgain, true)
	}
}

func (c *Controller) handleModeration(ctx context.Context, cb *models.CallbackQuery, chatID, userID int64, data string) {
	questionID, ok := parseInt64Part(data, 2)
	if !ok {
		return
	}

	if strings.HasPrefix(data, "mod:ok:") {
		q, err := c.question.Approve(ctx, userID, questionID)
		switch {
		case err == nil:
			c.answerCallback(ctx, cb.ID, "", false)
			c.sendText(ctx, chatID, "✅ Approved and published: "+shortText(q.Text, 60))
		case errors.Is(err, errorz.ErrAlreadyApproved):
			c.answerCallback(ctx, cb.ID, "Already approved", true)
		case errors.Is(err, errorz.ErrForbidden):
			c.answerCallback(ctx, cb.ID, "Operators only", true)
		case errors.Is(err, errorz.ErrNotFound):
			c.answerCallback(ctx, cb.ID, msgQuestionGone, true)
		default:
			c.log.Errorw("approve failed", "question_id", questionID, "error", err)
			c.answerCallback(ctx, cb.ID, msgTryAgain, true)
		}
		return
	}

	if strings.HasPrefix(data, "mod:no:") {
		err := c.question.Reject(ctx, userID, questionID)
		switch {
		case err == nil:
			c.answerCallback(ctx, cb.ID, "", false)
			c.sendText(ctx, chatID, "❌ Question rejected and removed.")
		case errors.Is(err, errorz.ErrForbidden):
			c.answerCallback(ctx, cb.ID, "Operators only", true)
		case errors.Is(err, errorz.ErrNotFound):
			c.answerCallback(ctx, cb.ID, msgQuestionGone, true)
		default:
			c.log.Errorw("reject failed", "question_id", questionID, "error", err)
			c.answerCallback(ctx, cb.ID, msgTryAgain, true)
		}
	}
}
