// Package quizdata provides read-only access to quiz content. The live
// session core treats content as an external collaborator: it is looked up
// once at launch and snapshotted into the session.
package quizdata

import (
	"context"
	"errors"

	"github.com/mcdev12/livequiz/go/internal/models"
)

// ErrQuizNotFound is returned when no quiz content exists for an ID
var ErrQuizNotFound = errors.New("quiz not found")

// ContentRepository looks up quiz content snapshots by identifier.
type ContentRepository interface {
	GetQuiz(ctx context.Context, id int64) (*models.QuizData, error)
}

// StaticRepository serves quiz content from an in-memory table. Used for
// demos and tests.
type StaticRepository struct {
	quizzes map[int64]models.QuizData
}

// NewStaticRepository creates a repository over a fixed content table.
func NewStaticRepository(quizzes map[int64]models.QuizData) *StaticRepository {
	return &StaticRepository{quizzes: quizzes}
}

func (r *StaticRepository) GetQuiz(_ context.Context, id int64) (*models.QuizData, error) {
	data, ok := r.quizzes[id]
	if !ok {
		return nil, ErrQuizNotFound
	}
	snapshot := data.Clone()
	return &snapshot, nil
}
