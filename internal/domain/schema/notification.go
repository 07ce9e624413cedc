package schema

import "time"

type NotificationKind string

const (
	NotificationNewAnswer        NotificationKind = "new_answer"
	NotificationQuestionApproved NotificationKind = "question_approved"
	NotificationVoteReceived     NotificationKind = "vote_received"
)

// NotificationPayload is the per-kind data; which fields are set depends on
// Kind and the render switch is exhaustive over the three kinds.
type NotificationPayload struct {
	QuestionID int64  `json:"question_id,omitempty"`
	AnswerID   int64  `json:"answer_id,omitempty"`
	Preview    string `json:"preview,omitempty"`
	Direction  int    `json:"direction,omitempty"`
}

type Notification struct {
	ID        string
	UserID    int64
	Kind      NotificationKind
	Payload   NotificationPayload
	Read      bool
	CreatedAt time.Time
}
