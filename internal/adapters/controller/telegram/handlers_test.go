package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"AnonAskBot/internal/domain/errorz"
	"AnonAskBot/internal/domain/repository/repotest"
	"AnonAskBot/internal/domain/schema"
	"AnonAskBot/internal/domain/service/access"
	answersvc "AnonAskBot/internal/domain/service/answer"
	"AnonAskBot/internal/domain/service/moderation"
	"AnonAskBot/internal/domain/service/notify"
	"AnonAskBot/internal/domain/service/profile"
	questionsvc "AnonAskBot/internal/domain/service/question"
	sessionsvc "AnonAskBot/internal/domain/service/session"
	subscriptionsvc "AnonAskBot/internal/domain/service/subscription"
	votesvc "AnonAskBot/internal/domain/service/vote"
	"AnonAskBot/internal/pkg/keymutex"
)

const testOperatorID = int64(900)

type fakeMessenger struct {
	sent []*tgbot.SendMessageParams
	acks []*tgbot.AnswerCallbackQueryParams
}

func (f *fakeMessenger) SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error) {
	f.sent = append(f.sent, params)
	return &models.Message{ID: len(f.sent)}, nil
}

func (f *fakeMessenger) AnswerCallbackQuery(ctx context.Context, params *tgbot.AnswerCallbackQueryParams) (bool, error) {
	f.acks = append(f.acks, params)
	return true, nil
}

func (f *fakeMessenger) lastText(t *testing.T) string {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("no message was sent")
	}
	return f.sent[len(f.sent)-1].Text
}

// stubGateway stands in for the channel/operator side of the bot.
type stubGateway struct {
	reviewPrompts int
	nextMsgID     int
}

func (g *stubGateway) NotifyOperator(ctx context.Context, q schema.Question) error {
	g.reviewPrompts++
	return nil
}

func (g *stubGateway) NotifyRejected(ctx context.Context, authorID int64, q schema.Question) error {
	return nil
}

func (g *stubGateway) Publish(ctx context.Context, q schema.Question) (int, error) {
	g.nextMsgID++
	return g.nextMsgID, nil
}

func (g *stubGateway) UpdateAnswerCounter(ctx context.Context, channelMsgID int, questionID int64, count int) error {
	return nil
}

func (g *stubGateway) Send(ctx context.Context, userID int64, n schema.Notification) error {
	return nil
}

type botFixture struct {
	ctrl          *Controller
	bot           *fakeMessenger
	gw            *stubGateway
	sessRepo      *repotest.Sessions
	questions     *repotest.Questions
	answers       *repotest.Answers
	notifications *repotest.Notifications
	notify        *notify.Service
}

func newBotFixture(t *testing.T) *botFixture {
	t.Helper()
	log := zap.NewNop().Sugar()
	users := repotest.NewUsers()
	questions := repotest.NewQuestions()
	answers := repotest.NewAnswers()
	subs := repotest.NewSubscriptions()
	notifications := repotest.NewNotifications()
	sessRepo := repotest.NewSessions()

	gw := &stubGateway{}
	accessSvc := access.New(testOperatorID)
	mod := moderation.New(nil)
	notifySvc := notify.New(notifications, subs, gw, log)

	bot := &fakeMessenger{}
	ctrl := &Controller{
		bot:      bot,
		users:    users,
		access:   accessSvc,
		mod:      mod,
		sessions: sessionsvc.New(sessRepo),
		question: questionsvc.New(questions, users, mod, accessSvc, notifySvc, gw, log),
		answer:   answersvc.New(answers, questions, users, subs, mod, notifySvc, gw, log),
		vote:     votesvc.New(repotest.NewVotes(), answers, notifySvc, log),
		subs:     subscriptionsvc.New(subs),
		notify:   notifySvc,
		profile:  profile.New(users, questions, answers, accessSvc),
		locks:    keymutex.New(),
		log:      log,
	}
	return &botFixture{
		ctrl:          ctrl,
		bot:           bot,
		gw:            gw,
		sessRepo:      sessRepo,
		questions:     questions,
		answers:       answers,
		notifications: notifications,
		notify:        notifySvc,
	}
}

func textUpdate(userID int64, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		From: &models.User{ID: userID, FirstName: "user"},
		Chat: models.Chat{ID: userID},
		Text: text,
	}}
}

func callbackUpdate(userID int64, data string) *models.Update {
	return &models.Update{CallbackQuery: &models.CallbackQuery{
		ID:      "cb",
		From:    models.User{ID: userID},
		Data:    data,
		Message: models.MaybeInaccessibleMessage{Message: &models.Message{Chat: models.Chat{ID: userID}}},
	}}
}

func TestAskFlow_WalksToSubmission(t *testing.T) {
	f := newBotFixture(t)
	ctx := context.Background()

	f.ctrl.handleCallback(ctx, nil, callbackUpdate(1, "ask"))
	f.ctrl.handleText(ctx, nil, textUpdate(1, "Why is the sky blue?"))

	state, ok, _ := f.sessRepo.Get(ctx, 1)
	if !ok || state.Step != schema.StepAwaitingTopic || state.Draft.Text != "Why is the sky blue?" {
		t.Fatalf("expected topic step with draft, got %+v ok=%v", state, ok)
	}

	f.ctrl.handleCallback(ctx, nil, callbackUpdate(1, "tpc:1"))
	state, _, _ = f.sessRepo.Get(ctx, 1)
	if state.Step != schema.StepConfirmQuestion || state.Draft.Topic != topics[1] {
		t.Fatalf("expected confirm step with topic %q, got %+v", topics[1], state)
	}

	f.ctrl.handleCallback(ctx, nil, callbackUpdate(1, "q:confirm"))
	q, err := f.questions.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("question not created: %v", err)
	}
	if q.Approved || q.Text != "Why is the sky blue?" || q.Topic != topics[1] {
		t.Fatalf("unexpected stored question %+v", q)
	}
	if f.gw.reviewPrompts != 1 {
		t.Fatalf("expected one operator review prompt, got %d", f.gw.reviewPrompts)
	}
	if _, ok, _ := f.sessRepo.Get(ctx, 1); ok {
		t.Fatal("session must be deleted after submission")
	}
}

func TestText_RejectionKeepsAwaitingQuestion(t *testing.T) {
	f := newBotFixture(t)
	ctx := context.Background()

	f.ctrl.handleCallback(ctx, nil, callbackUpdate(1, "ask"))
	f.ctrl.handleText(ctx, nil, textUpdate(1, "win big at the casino"))

	state, ok, _ := f.sessRepo.Get(ctx, 1)
	if !ok || state.Step != schema.StepAwaitingQuestion {
		t.Fatalf("rejection must keep the question step, got %+v ok=%v", state, ok)
	}
	if state.Draft.Text != "" {
		t.Fatalf("rejected text must not enter the draft, got %q", state.Draft.Text)
	}
	if !strings.Contains(f.bot.lastText(t), "not accepted") {
		t.Fatalf("expected a rejection reply, got %q", f.bot.lastText(t))
	}
}

func TestTopicPick_OutsideFlowExpires(t *testing.T) {
	f := newBotFixture(t)
	ctx := context.Background()

	f.ctrl.handleCallback(ctx, nil, callbackUpdate(1, "tpc:0"))

	if _, ok, _ := f.sessRepo.Get(ctx, 1); ok {
		t.Fatal("a stray topic pick must not create a session")
	}
	if f.bot.lastText(t) != msgFlowExpired {
		t.Fatalf("expected %q, got %q", msgFlowExpired, f.bot.lastText(t))
	}
}

func TestConfirm_AtWrongStepExpires(t *testing.T) {
	f := newBotFixture(t)
	ctx := context.Background()

	f.ctrl.handleCallback(ctx, nil, callbackUpdate(1, "ask"))
	f.ctrl.handleCallback(ctx, nil, callbackUpdate(1, "q:confirm"))

	if f.bot.lastText(t) != msgFlowExpired {
		t.Fatalf("expected %q, got %q", msgFlowExpired, f.bot.lastText(t))
	}
	if _, err := f.questions.GetByID(ctx, 1); !errors.Is(err, errorz.ErrNotFound) {
		t.Fatal("a premature confirm must not create a question")
	}
}

func TestAnswerFlow_RejectionRetriesThenSubmits(t *testing.T) {
	f := newBotFixture(t)
	ctx := context.Background()

	q, _ := f.questions.Create(ctx, schema.Question{AuthorID: 2, Text: "Why?", Topic: "General"})
	if _, err := f.questions.Approve(ctx, q.ID); err != nil {
		t.Fatalf("seed approve: %v", err)
	}

	f.ctrl.handleCallback(ctx, nil, callbackUpdate(1, fmt.Sprintf("ans:%d", q.ID)))
	state, ok, _ := f.sessRepo.Get(ctx, 1)
	if !ok || state.Step != schema.StepAwaitingAnswer || state.QuestionID != q.ID {
		t.Fatalf("expected answer step for question %d, got %+v ok=%v", q.ID, state, ok)
	}

	// A rejected answer leaves the flow open for another try.
	f.ctrl.handleText(ctx, nil, textUpdate(1, "free money for everyone"))
	state, ok, _ = f.sessRepo.Get(ctx, 1)
	if !ok || state.Step != schema.StepAwaitingAnswer {
		t.Fatalf("rejection must keep the answer step, got %+v ok=%v", state, ok)
	}
	if n, _ := f.answers.Count(ctx); n != 0 {
		t.Fatalf("rejected answer must not be stored, got %d", n)
	}

	f.ctrl.handleText(ctx, nil, textUpdate(1, "Because of light scattering."))
	if n, _ := f.answers.Count(ctx); n != 1 {
		t.Fatalf("expected one stored answer, got %d", n)
	}
	if _, ok, _ := f.sessRepo.Get(ctx, 1); ok {
		t.Fatal("session must be deleted after a stored answer")
	}
}

func TestFeedbackFlow_ForwardsAndEnds(t *testing.T) {
	f := newBotFixture(t)
	ctx := context.Background()

	f.ctrl.handleCallback(ctx, nil, callbackUpdate(1, "fb"))
	f.ctrl.handleText(ctx, nil, textUpdate(1, "love the bot"))

	var forwarded bool
	for _, p := range f.bot.sent {
		if id, ok := p.ChatID.(int64); ok && id == testOperatorID && strings.Contains(p.Text, "love the bot") {
			forwarded = true
		}
	}
	if !forwarded {
		t.Fatal("feedback must be forwarded to the operator")
	}
	if _, ok, _ := f.sessRepo.Get(ctx, 1); ok {
		t.Fatal("session must be deleted after feedback")
	}
}

type downSessions struct{}

func (downSessions) Get(ctx context.Context, userID int64) (schema.Session, bool, error) {
	return schema.Session{}, false, fmt.Errorf("%w: connection refused", errorz.ErrStoreUnavailable)
}

func (downSessions) Set(ctx context.Context, userID int64, s schema.Session) error {
	return errorz.ErrStoreUnavailable
}

func (downSessions) Delete(ctx context.Context, userID int64) error {
	return errorz.ErrStoreUnavailable
}

func TestText_SessionStoreDown(t *testing.T) {
	f := newBotFixture(t)
	f.ctrl.sessions = sessionsvc.New(downSessions{})

	f.ctrl.handleText(context.Background(), nil, textUpdate(1, "hello"))

	if f.bot.lastText(t) != msgStoreDown {
		t.Fatalf("expected %q, got %q", msgStoreDown, f.bot.lastText(t))
	}
}

func TestNotifications_PerItemMarkRead(t *testing.T) {
	f := newBotFixture(t)
	ctx := context.Background()

	if err := f.notify.Dispatch(ctx, 1, schema.NotificationNewAnswer, schema.NotificationPayload{Preview: "p"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	f.ctrl.showNotifications(ctx, 1, 1)
	kb, ok := f.bot.sent[len(f.bot.sent)-1].ReplyMarkup.(*models.InlineKeyboardMarkup)
	if !ok {
		t.Fatal("expected an inline keyboard on the notification list")
	}
	data := kb.InlineKeyboard[0][0].CallbackData
	if !strings.HasPrefix(data, "ntf:rd:") {
		t.Fatalf("expected a per-item read button, got %q", data)
	}

	f.ctrl.handleCallback(ctx, nil, callbackUpdate(1, data))
	unread, _ := f.notifications.ListUnread(ctx, 1)
	if len(unread) != 0 {
		t.Fatalf("notification must be read after the button, got %d unread", len(unread))
	}
}
