package schema

type Vote struct {
	UserID   int64
	AnswerID int64
	Value    int // +1 or -1
}

type Subscription struct {
	UserID     int64
	QuestionID int64
}
