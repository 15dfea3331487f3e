package quizdata

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcdev12/livequiz/go/internal/models"
)

// PostgresRepository reads quiz content from Postgres. Content is authored
// elsewhere; this repository only ever selects.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a repository over an existing pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetQuiz loads a quiz with its categories and questions, ordered the way
// the board displays them: categories by position, questions by value.
func (r *PostgresRepository) GetQuiz(ctx context.Context, id int64) (*models.QuizData, error) {
	var name string
	err := r.pool.QueryRow(ctx,
		`SELECT name FROM quizzes WHERE id = $1`, id,
	).Scan(&name)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz %d: %w", id, err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT c.name, q.id, q.value, q.question, q.answer
		 FROM categories c
		 JOIN questions q ON q.category_id = c.id
		 WHERE c.quiz_id = $1
		 ORDER BY c.position ASC, q.value ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz %d content: %w", id, err)
	}
	defer rows.Close()

	data := &models.QuizData{Name: name}
	byName := make(map[string]int)

	for rows.Next() {
		var (
			category string
			question models.Question
		)
		if err := rows.Scan(&category, &question.ID, &question.Value, &question.Text, &question.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}

		idx, ok := byName[category]
		if !ok {
			idx = len(data.Categories)
			byName[category] = idx
			data.Categories = append(data.Categories, models.Category{Name: category})
		}
		data.Categories[idx].Questions = append(data.Categories[idx].Questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read quiz %d content: %w", id, err)
	}

	return data, nil
}
