package models

// Question is a single value/question/answer entry in a quiz.
type Question struct {
	ID     int64  `json:"id"`
	Value  int    `json:"value"`
	Text   string `json:"text"`
	Answer string `json:"answer"`
}

// Category groups questions under a display name, ordered by value.
type Category struct {
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

// QuizData is the read-only quiz content snapshot returned by the content
// repository. Live sessions materialize their own copy of it at launch.
type QuizData struct {
	Name       string     `json:"name"`
	Categories []Category `json:"categories"`
}

// Question looks up a question by ID. The bool reports whether the
// question belongs to this quiz.
func (q *QuizData) Question(id int64) (Question, bool) {
	for _, cat := range q.Categories {
		for _, question := range cat.Questions {
			if question.ID == id {
				return question, true
			}
		}
	}
	return Question{}, false
}

// Clone returns a deep copy of the snapshot so a live session cannot be
// affected by later edits to the source content.
func (q *QuizData) Clone() QuizData {
	out := QuizData{Name: q.Name, Categories: make([]Category, len(q.Categories))}
	for i, cat := range q.Categories {
		questions := make([]Question, len(cat.Questions))
		copy(questions, cat.Questions)
		out.Categories[i] = Category{Name: cat.Name, Questions: questions}
	}
	return out
}
