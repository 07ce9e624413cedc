package answer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"AnonAskBot/internal/domain/errorz"
	"AnonAskBot/internal/domain/repository/repotest"
	"AnonAskBot/internal/domain/schema"
	"AnonAskBot/internal/domain/service/moderation"
	"AnonAskBot/internal/domain/service/notify"
)

type noopSender struct{}

func (noopSender) Send(ctx context.Context, userID int64, n schema.Notification) error { return nil }

type fakeCounter struct {
	mu    sync.Mutex
	calls []int
	err   error
}

func (f *fakeCounter) UpdateAnswerCounter(ctx context.Context, channelMsgID int, questionID int64, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, count)
	return f.err
}

type fixture struct {
	svc           *Service
	questions     *repotest.Questions
	users         *repotest.Users
	subs          *repotest.Subscriptions
	notifications *repotest.Notifications
	counter       *fakeCounter
}

func setup(t *testing.T) (*fixture, schema.Question) {
	t.Helper()
	ctx := context.Background()
	answers := repotest.NewAnswers()
	questions := repotest.NewQuestions()
	users := repotest.NewUsers()
	subs := repotest.NewSubscriptions()
	notifications := repotest.NewNotifications()
	counter := &fakeCounter{}

	notifySvc := notify.New(notifications, subs, noopSender{}, zap.NewNop().Sugar())
	svc := New(answers, questions, users, subs, moderation.New(nil), notifySvc, counter, zap.NewNop().Sugar())

	for _, id := range []int64{1, 2} {
		if _, err := users.Upsert(ctx, schema.User{ID: id}); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	q, err := questions.Create(ctx, schema.Question{AuthorID: 1, Text: "why?", Topic: "General"})
	if err != nil {
		t.Fatalf("seed question: %v", err)
	}
	if q, err = questions.Approve(ctx, q.ID); err != nil {
		t.Fatalf("approve question: %v", err)
	}
	_ = questions.SetChannelMsgID(ctx, q.ID, 42)
	q.ChannelMsgID = 42

	return &fixture{svc: svc, questions: questions, users: users, subs: subs, notifications: notifications, counter: counter}, q
}

func TestCreate_FullSideEffects(t *testing.T) {
	f, q := setup(t)
	ctx := context.Background()
	const bob = int64(2)

	ans, err := f.svc.Create(ctx, bob, q.ID, "because of physics")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ans.ID == 0 || ans.QuestionID != q.ID {
		t.Fatalf("unexpected answer %+v", ans)
	}

	stored, _ := f.questions.GetByID(ctx, q.ID)
	if stored.AnswerCount != 1 {
		t.Fatalf("expected answer_count=1, got %d", stored.AnswerCount)
	}

	u, _ := f.users.GetByID(ctx, bob)
	if u.AnswersGiven != 1 || u.Points != CreationPoints {
		t.Fatalf("expected answers_given=1 and %d points, got %+v", CreationPoints, u)
	}

	// Answerer is auto-subscribed.
	subscribers, _ := f.subs.Subscribers(ctx, q.ID)
	if len(subscribers) != 1 || subscribers[0] != bob {
		t.Fatalf("expected auto-subscription for bob, got %v", subscribers)
	}

	// Alice gets exactly one new_answer notification, Bob none.
	byUser := map[int64]int{}
	for _, n := range f.notifications.All() {
		byUser[n.UserID]++
	}
	if byUser[1] != 1 || byUser[bob] != 0 {
		t.Fatalf("unexpected fan-out %v", byUser)
	}

	// Channel counter refreshed with the new count.
	if len(f.counter.calls) != 1 || f.counter.calls[0] != 1 {
		t.Fatalf("expected counter update with 1, got %v", f.counter.calls)
	}
}

func TestCreate_ModerationGate(t *testing.T) {
	f, q := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, 2, q.ID, "AAAAAAAAAAAAAAA")
	if !errorz.IsModerationRejected(err) {
		t.Fatalf("expected moderation rejection, got %v", err)
	}
	stored, _ := f.questions.GetByID(ctx, q.ID)
	if stored.AnswerCount != 0 {
		t.Fatal("rejected answer must leave the count untouched")
	}
}

func TestCreate_UnapprovedQuestionNotFound(t *testing.T) {
	f, _ := setup(t)
	ctx := context.Background()

	pending, _ := f.questions.Create(ctx, schema.Question{AuthorID: 1, Text: "pending"})
	if _, err := f.svc.Create(ctx, 2, pending.ID, "too early"); !errors.Is(err, errorz.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for pending question, got %v", err)
	}
	if _, err := f.svc.Create(ctx, 2, 999, "nope"); !errors.Is(err, errorz.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing question, got %v", err)
	}
}

func TestCreate_CounterFailureIsNonFatal(t *testing.T) {
	f, q := setup(t)
	f.counter.err = errors.New("message is not modified")

	if _, err := f.svc.Create(context.Background(), 2, q.ID, "still fine"); err != nil {
		t.Fatalf("counter failure must not fail the answer: %v", err)
	}
}
