package repository

import (
	"AnonAskBot/internal/domain/schema"
	"context"
)

type QuestionRepository interface {
	Create(ctx context.Context, q schema.Question) (schema.Question, error)
	GetByID(ctx context.Context, id int64) (schema.Question, error)
	// Approve flips the pending flag exactly once. A second call returns
	// errorz.ErrAlreadyApproved, a missing id errorz.ErrNotFound.
	Approve(ctx context.Context, id int64) (schema.Question, error)
	SetChannelMsgID(ctx context.Context, id int64, msgID int) error
	// DeletePending removes a still-pending question; approved or missing
	// questions yield errorz.ErrNotFound.
	DeletePending(ctx context.Context, id int64) (schema.Question, error)
	IncAnswerCount(ctx context.Context, id int64) (int, error)
	Count(ctx context.Context) (int, error)
}

type AnswerRepository interface {
	Create(ctx context.Context, a schema.Answer) (schema.Answer, error)
	GetByID(ctx context.Context, id int64) (schema.Answer, error)
	ListByQuestion(ctx context.Context, questionID int64, page, pageSize int) (ListAnswersResult, error)
	AddVotes(ctx context.Context, id int64, delta int) error
	Count(ctx context.Context) (int, error)
}

type ListAnswersResult struct {
	Items []schema.Answer
	Total int
}
