package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"

	"AnonAskBot/internal/domain/errorz"
	"AnonAskBot/internal/domain/schema"
)

var topics = []string{"General", "Technology", "Relationships", "Work", "Health", "Other"}

const leaderboardSize = 10

func (c *Controller) mainMenu(userID int64) *models.InlineKeyboardMarkup {
	rows := [][]models.InlineKeyboardButton{
		{{Text: "❓ Ask a question", CallbackData: "ask"}},
		{{Text: "👤 My profile", CallbackData: "prof"}, {Text: "🏆 Leaderboard", CallbackData: "top"}},
		{{Text: "🔔 Notifications", CallbackData: "ntf:list"}, {Text: "💬 Feedback", CallbackData: "fb"}},
	}
	if c.access.IsOperator(userID) {
		rows = append(rows, []models.InlineKeyboardButton{{Text: "📊 Stats", CallbackData: "adm:stats"}})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func topicKeyboard() *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(topics)/2+2)
	for i := 0; i < len(topics); i += 2 {
		row := []models.InlineKeyboardButton{{Text: topics[i], CallbackData: fmt.Sprintf("tpc:%d", i)}}
		if i+1 < len(topics) {
			row = append(row, models.InlineKeyboardButton{Text: topics[i+1], CallbackData: fmt.Sprintf("tpc:%d", i+1)})
		}
		rows = append(rows, row)
	}
	rows = append(rows, []models.InlineKeyboardButton{{Text: "✏️ My own topic", CallbackData: "tpc:custom"}})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func (c *Controller) sendDraftPreview(ctx context.Context, chatID int64, state schema.Session) {
	text := fmt.Sprintf("Here is your question:\n\nTopic: %s\n\n%s", state.Draft.Topic, state.Draft.Text)
	c.send(ctx, chatID, text, &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{{Text: "✅ Submit", CallbackData: "q:confirm"}},
		{{Text: "✏️ Edit text", CallbackData: "q:edit"}},
		{{Text: "❌ Discard", CallbackData: "q:cancel"}},
	}})
}

func (c *Controller) sendProfile(ctx context.Context, chatID, userID int64) {
	u, rank, err := c.profile.Profile(ctx, userID)
	if err != nil {
		c.log.Errorw("load profile failed", "user_id", userID, "error", err)
		c.sendText(ctx, chatID, msgTryAgain)
		return
	}
	text := fmt.Sprintf(
		"👤 %s\n\nPoints: %d\nRank: #%d\nQuestions asked: %d\nAnswers given: %d\nJoined: %s",
		u.DisplayName, u.Points, rank, u.QuestionsAsked, u.AnswersGiven, u.JoinedAt.Format("2 Jan 2006"),
	)
	c.send(ctx, chatID, text, c.mainMenu(userID))
}

func (c *Controller) sendLeaderboard(ctx context.Context, chatID int64) {
	top, err := c.profile.Leaderboard(ctx, leaderboardSize)
	if err != nil {
		c.log.Errorw("load leaderboard failed", "error", err)
		c.sendText(ctx, chatID, msgTryAgain)
		return
	}
	if len(top) == 0 {
		c.sendText(ctx, chatID, "No one has scored yet. Be the first!")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 Leaderboard\n\n")
	for i, u := range top {
		fmt.Fprintf(&sb, "%d. %s — %d points\n", i+1, u.DisplayName, u.Points)
	}
	c.sendText(ctx, chatID, sb.String())
}

func (c *Controller) showAnswers(ctx context.Context, chatID, userID, questionID int64, page int) {
	q, err := c.question.Get(ctx, questionID)
	if err != nil || !q.Approved {
		c.sendText(ctx, chatID, msgQuestionGone)
		return
	}

	res, err := c.answer.List(ctx, questionID, page, answersPageSize)
	if err != nil {
		c.log.Errorw("list answers failed", "question_id", questionID, "error", err)
		c.sendText(ctx, chatID, msgTryAgain)
		return
	}

	totalPages := (res.Total + answersPageSize - 1) / answersPageSize
	if totalPages == 0 {
		totalPages = 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "❓ %s\n", q.Text)
	if res.Total == 0 {
		sb.WriteString("\nNo answers yet. Be the first to reply!")
	}

	rows := make([][]models.InlineKeyboardButton, 0, len(res.Items)+3)
	for i, a := range res.Items {
		idx := (page-1)*answersPageSize + i + 1
		fmt.Fprintf(&sb, "\n%d. %s  [%+d]\n", idx, a.Text, a.Votes)
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: fmt.Sprintf("👍 %d", idx), CallbackData: fmt.Sprintf("vt:up:%d", a.ID)},
			{Text: fmt.Sprintf("👎 %d", idx), CallbackData: fmt.Sprintf("vt:dn:%d", a.ID)},
			{Text: fmt.Sprintf("✖️ %d", idx), CallbackData: fmt.Sprintf("vt:cl:%d", a.ID)},
		})
	}

	if totalPages > 1 {
		nav := []models.InlineKeyboardButton{}
		if page > 1 {
			nav = append(nav, models.InlineKeyboardButton{Text: "⬅️ Prev", CallbackData: fmt.Sprintf("brw:%d:%d", questionID, page-1)})
		}
		nav = append(nav, models.InlineKeyboardButton{Text: fmt.Sprintf("Page %d/%d", page, totalPages), CallbackData: "noop"})
		if page < totalPages {
			nav = append(nav, models.InlineKeyboardButton{Text: "➡️ Next", CallbackData: fmt.Sprintf("brw:%d:%d", questionID, page+1)})
		}
		rows = append(rows, nav)
	}

	rows = append(rows,
		[]models.InlineKeyboardButton{{Text: "✍️ Answer this question", CallbackData: fmt.Sprintf("ans:%d", questionID)}},
		[]models.InlineKeyboardButton{
			{Text: "🔔 Subscribe", CallbackData: fmt.Sprintf("sub:%d", questionID)},
			{Text: "🔕 Unsubscribe", CallbackData: fmt.Sprintf("unsub:%d", questionID)},
		},
		[]models.InlineKeyboardButton{{Text: "⬅ Menu", CallbackData: "menu"}},
	)

	c.send(ctx, chatID, sb.String(), &models.InlineKeyboardMarkup{InlineKeyboard: rows})
}

func (c *Controller) showNotifications(ctx context.Context, chatID, userID int64) {
	items, err := c.notify.Unread(ctx, userID)
	if err != nil {
		c.log.Errorw("list notifications failed", "user_id", userID, "error", err)
		c.sendText(ctx, chatID, msgTryAgain)
		return
	}
	if len(items) == 0 {
		c.send(ctx, chatID, "No unread notifications.", c.mainMenu(userID))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔔 You have %d unread notification(s):\n", len(items))
	rows := make([][]models.InlineKeyboardButton, 0, len(items)+2)
	for i, n := range items {
		text, err := renderNotification(n)
		if err != nil {
			c.log.Warnw("render notification failed", "id", n.ID, "error", err)
			continue
		}
		fmt.Fprintf(&sb, "\n%d. %s\n", i+1, text)
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: fmt.Sprintf("✔️ Read %d", i+1), CallbackData: "ntf:rd:" + n.ID},
		})
	}
	rows = append(rows,
		[]models.InlineKeyboardButton{{Text: "✅ Mark all read", CallbackData: "ntf:read"}},
		[]models.InlineKeyboardButton{{Text: "⬅ Menu", CallbackData: "menu"}},
	)

	c.send(ctx, chatID, sb.String(), &models.InlineKeyboardMarkup{InlineKeyboard: rows})
}

func (c *Controller) sendAdminStats(ctx context.Context, chatID, userID int64) {
	stats, err := c.profile.AdminStats(ctx, userID)
	if err != nil {
		if errors.Is(err, errorz.ErrForbidden) {
			c.sendText(ctx, chatID, "Operators only.")
			return
		}
		c.log.Errorw("admin stats failed", "error", err)
		c.sendText(ctx, chatID, msgTryAgain)
		return
	}
	c.sendText(ctx, chatID, fmt.Sprintf(
		"📊 Totals\n\nUsers: %d\nPublished questions: %d\nAnswers: %d",
		stats.Users, stats.Questions, stats.Answers,
	))
}

func answerAcceptedText(points int) string {
	return fmt.Sprintf("Your answer is published, +%d points! You'll be notified about new answers to this question.", points)
}

// renderNotification turns a stored notification into user-facing text. The
// switch is exhaustive over the notification kinds; an unknown kind is a
// programming error surfaced as one.
func renderNotification(n schema.Notification) (string, error) {
	switch n.Kind {
	case schema.NotificationNewAnswer:
		return "💬 New answer to a question you follow:\n" + n.Payload.Preview, nil
	case schema.NotificationQuestionApproved:
		return "🎉 Your question was approved and published:\n" + n.Payload.Preview, nil
	case schema.NotificationVoteReceived:
		if n.Payload.Direction > 0 {
			return "👍 Someone upvoted your answer:\n" + n.Payload.Preview, nil
		}
		return "👎 Someone downvoted your answer:\n" + n.Payload.Preview, nil
	default:
		return "", fmt.Errorf("unknown notification kind %q", n.Kind)
	}
}
