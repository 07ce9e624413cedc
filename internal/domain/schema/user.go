package schema

import "time"

type User struct {
	ID             int64
	DisplayName    string
	Points         int
	QuestionsAsked int
	AnswersGiven   int
	JoinedAt       time.Time
}
