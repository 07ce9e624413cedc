package question

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"AnonAskBot/internal/domain/errorz"
	"AnonAskBot/internal/domain/repository/repotest"
	"AnonAskBot/internal/domain/schema"
	"AnonAskBot/internal/domain/service/access"
	"AnonAskBot/internal/domain/service/moderation"
	"AnonAskBot/internal/domain/service/notify"
)

const operatorID = int64(1000)

type fakeTransport struct {
	reviewPrompts []schema.Question
	rejections    []int64
	published     []schema.Question
	nextMsgID     int
	publishErr    error
}

func (f *fakeTransport) NotifyOperator(ctx context.Context, q schema.Question) error {
	f.reviewPrompts = append(f.reviewPrompts, q)
	return nil
}

func (f *fakeTransport) NotifyRejected(ctx context.Context, authorID int64, q schema.Question) error {
	f.rejections = append(f.rejections, authorID)
	return nil
}

func (f *fakeTransport) Publish(ctx context.Context, q schema.Question) (int, error) {
	if f.publishErr != nil {
		return 0, f.publishErr
	}
	f.published = append(f.published, q)
	f.nextMsgID++
	return f.nextMsgID, nil
}

type noopSender struct{}

func (noopSender) Send(ctx context.Context, userID int64, n schema.Notification) error { return nil }

type fixture struct {
	svc           *Service
	questions     *repotest.Questions
	users         *repotest.Users
	notifications *repotest.Notifications
	transport     *fakeTransport
}

func setup(t *testing.T) *fixture {
	t.Helper()
	questions := repotest.NewQuestions()
	users := repotest.NewUsers()
	notifications := repotest.NewNotifications()
	transport := &fakeTransport{nextMsgID: 41}
	notifySvc := notify.New(notifications, repotest.NewSubscriptions(), noopSender{}, zap.NewNop().Sugar())
	svc := New(questions, users, moderation.New(nil), access.New(operatorID), notifySvc, transport, zap.NewNop().Sugar())

	if _, err := users.Upsert(context.Background(), schema.User{ID: 1, DisplayName: "alice"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &fixture{svc: svc, questions: questions, users: users, notifications: notifications, transport: transport}
}

func TestSubmit_CreatesPendingAndPromptsOperator(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	q, err := f.svc.Submit(ctx, 1, schema.QuestionDraft{Text: "Is this normal???", Topic: "Technology"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if q.Approved {
		t.Fatal("a new question must be pending")
	}
	if len(f.transport.reviewPrompts) != 1 || f.transport.reviewPrompts[0].ID != q.ID {
		t.Fatalf("expected one review prompt for question %d", q.ID)
	}

	u, _ := f.users.GetByID(ctx, 1)
	if u.QuestionsAsked != 1 {
		t.Fatalf("expected questions_asked=1, got %d", u.QuestionsAsked)
	}
	if u.Points != 0 {
		t.Fatalf("submission must not award points, got %d", u.Points)
	}
}

func TestSubmit_ModerationRejectionCreatesNothing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, 1, schema.QuestionDraft{Text: "AAAAAAAAAAAAAAA", Topic: "General"})
	if !errorz.IsModerationRejected(err) {
		t.Fatalf("expected moderation rejection, got %v", err)
	}
	if _, err := f.questions.GetByID(ctx, 1); !errors.Is(err, errorz.ErrNotFound) {
		t.Fatal("rejected input must not create a question")
	}
	if len(f.transport.reviewPrompts) != 0 {
		t.Fatal("operator must not be prompted")
	}
}

func TestApprove_PublishesAwardsAndNotifiesOnce(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	q, _ := f.svc.Submit(ctx, 1, schema.QuestionDraft{Text: "Is this normal???", Topic: "Technology"})

	approved, err := f.svc.Approve(ctx, operatorID, q.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !approved.Approved {
		t.Fatal("expected approved flag set")
	}
	if approved.ChannelMsgID != 42 {
		t.Fatalf("expected published ref 42, got %d", approved.ChannelMsgID)
	}

	stored, _ := f.questions.GetByID(ctx, q.ID)
	if !stored.Approved || stored.ChannelMsgID != 42 {
		t.Fatalf("stored question not updated: %+v", stored)
	}

	u, _ := f.users.GetByID(ctx, 1)
	if u.Points != ApprovalPoints {
		t.Fatalf("expected %d points, got %d", ApprovalPoints, u.Points)
	}

	unread, _ := f.notifications.ListUnread(ctx, 1)
	if len(unread) != 1 || unread[0].Kind != schema.NotificationQuestionApproved {
		t.Fatalf("expected one question_approved notification, got %+v", unread)
	}
}

func TestApprove_SecondCallFailsAndAwardsNothing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	q, _ := f.svc.Submit(ctx, 1, schema.QuestionDraft{Text: "Is this normal???", Topic: "Technology"})
	if _, err := f.svc.Approve(ctx, operatorID, q.ID); err != nil {
		t.Fatalf("first approve: %v", err)
	}

	_, err := f.svc.Approve(ctx, operatorID, q.ID)
	if !errors.Is(err, errorz.ErrAlreadyApproved) {
		t.Fatalf("expected ErrAlreadyApproved, got %v", err)
	}

	u, _ := f.users.GetByID(ctx, 1)
	if u.Points != ApprovalPoints {
		t.Fatalf("points must not be re-awarded, got %d", u.Points)
	}
	if len(f.transport.published) != 1 {
		t.Fatalf("question must not be re-published, got %d posts", len(f.transport.published))
	}
}

func TestApprove_PublishFailureLeavesPendingForRetry(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	q, _ := f.svc.Submit(ctx, 1, schema.QuestionDraft{Text: "Is this normal???", Topic: "Technology"})
	f.transport.publishErr = errors.New("channel unavailable")

	if _, err := f.svc.Approve(ctx, operatorID, q.ID); err == nil {
		t.Fatal("expected approve to fail when the channel post fails")
	}

	stored, _ := f.questions.GetByID(ctx, q.ID)
	if stored.Approved || stored.ChannelMsgID != 0 {
		t.Fatalf("question must stay pending after a failed publish: %+v", stored)
	}
	u, _ := f.users.GetByID(ctx, 1)
	if u.Points != 0 {
		t.Fatalf("failed approve must not award points, got %d", u.Points)
	}
	if len(f.notifications.All()) != 0 {
		t.Fatal("failed approve must not notify the author")
	}

	// The channel comes back and the operator taps approve again.
	f.transport.publishErr = nil
	approved, err := f.svc.Approve(ctx, operatorID, q.ID)
	if err != nil {
		t.Fatalf("retry approve: %v", err)
	}
	if !approved.Approved || approved.ChannelMsgID != 42 {
		t.Fatalf("retry must publish and record the channel ref: %+v", approved)
	}
	u, _ = f.users.GetByID(ctx, 1)
	if u.Points != ApprovalPoints {
		t.Fatalf("retry must award exactly once, got %d", u.Points)
	}
}

func TestApprove_NonOperatorForbidden(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	q, _ := f.svc.Submit(ctx, 1, schema.QuestionDraft{Text: "Is this normal???", Topic: "General"})
	if _, err := f.svc.Approve(ctx, 1, q.ID); !errors.Is(err, errorz.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestReject_DeletesAndNotifiesAuthor(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	q, _ := f.svc.Submit(ctx, 1, schema.QuestionDraft{Text: "Is this normal???", Topic: "General"})
	if err := f.svc.Reject(ctx, operatorID, q.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	if _, err := f.questions.GetByID(ctx, q.ID); !errors.Is(err, errorz.ErrNotFound) {
		t.Fatal("rejected question must be deleted")
	}
	if len(f.transport.rejections) != 1 || f.transport.rejections[0] != 1 {
		t.Fatalf("author must get the rejection notice, got %v", f.transport.rejections)
	}
}

func TestReject_ApprovedOrMissingIsNotFound(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	q, _ := f.svc.Submit(ctx, 1, schema.QuestionDraft{Text: "Is this normal???", Topic: "General"})
	if _, err := f.svc.Approve(ctx, operatorID, q.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if err := f.svc.Reject(ctx, operatorID, q.ID); !errors.Is(err, errorz.ErrNotFound) {
		t.Fatalf("rejecting an approved question: expected ErrNotFound, got %v", err)
	}
	if err := f.svc.Reject(ctx, operatorID, 999); !errors.Is(err, errorz.ErrNotFound) {
		t.Fatalf("rejecting a missing question: expected ErrNotFound, got %v", err)
	}
}
