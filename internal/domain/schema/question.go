package schema

import "time"

type Question struct {
	ID           int64
	AuthorID     int64
	Text         string
	Topic        string
	Approved     bool
	ChannelMsgID int
	AnswerCount  int
	CreatedAt    time.Time
}

type Answer struct {
	ID         int64
	QuestionID int64
	AuthorID   int64
	Text       string
	Votes      int
	CreatedAt  time.Time
}

type QuestionDraft struct {
	Text  string `json:"text"`
	Topic string `json:"topic"`
}
