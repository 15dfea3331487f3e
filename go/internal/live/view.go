package live

import (
	"github.com/mcdev12/livequiz/go/internal/models"
	"github.com/mcdev12/livequiz/go/internal/wire"
)

// BoardSlot is one unanswered question stub on the quiz board. Answered
// questions appear as null in the board payload instead.
type BoardSlot struct {
	ID    int64 `json:"id"`
	Value int   `json:"value"`
}

// QuestionView is the data payload of the question view.
type QuestionView struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// AnswerView is the data payload of the answer view.
type AnswerView struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Answer string `json:"answer"`
}

// BuildView computes the "set view" command for the requested view as a pure
// function of the quiz snapshot and the answered set. questionID is only
// consulted for the question and answer views.
func BuildView(quiz *models.QuizData, answered map[int64]struct{}, view models.ViewName, questionID int64) (wire.Message, error) {
	switch view {
	case models.ViewQuizBoard:
		board := make(map[string][]*BoardSlot, len(quiz.Categories))
		for _, cat := range quiz.Categories {
			slots := make([]*BoardSlot, 0, len(cat.Questions))
			for _, q := range cat.Questions {
				if _, done := answered[q.ID]; done {
					slots = append(slots, nil)
				} else {
					slots = append(slots, &BoardSlot{ID: q.ID, Value: q.Value})
				}
			}
			board[cat.Name] = slots
		}
		return wire.SetView(string(view), board), nil

	case models.ViewQuestion:
		q, ok := quiz.Question(questionID)
		if !ok {
			return wire.Message{}, ErrQuestionNotFound
		}
		return wire.SetView(string(view), QuestionView{ID: q.ID, Text: q.Text}), nil

	case models.ViewAnswer:
		q, ok := quiz.Question(questionID)
		if !ok {
			return wire.Message{}, ErrQuestionNotFound
		}
		return wire.SetView(string(view), AnswerView{ID: q.ID, Text: q.Text, Answer: q.Answer}), nil

	default:
		return wire.Message{}, ErrInvalidView
	}
}
