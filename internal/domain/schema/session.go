package schema

type Step string

const (
	StepAwaitingQuestion    Step = "awaiting_question"
	StepAwaitingTopic       Step = "awaiting_topic"
	StepAwaitingCustomTopic Step = "awaiting_custom_topic"
	StepConfirmQuestion     Step = "confirm_question"
	StepEditingQuestion     Step = "editing_question"
	StepAwaitingAnswer      Step = "awaiting_answer"
	StepAwaitingFeedback    Step = "awaiting_feedback"
)

// Session is the single in-flight conversation state for one user. Draft is
// only meaningful in the question-authoring steps, QuestionID only in
// StepAwaitingAnswer. The controller is the only writer.
type Session struct {
	Step       Step          `json:"step"`
	Draft      QuestionDraft `json:"draft"`
	QuestionID int64         `json:"question_id"`
}
