package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/livequiz/go/internal/events"
	"github.com/mcdev12/livequiz/go/internal/gateway"
	"github.com/mcdev12/livequiz/go/internal/live"
	"github.com/mcdev12/livequiz/go/internal/models"
	"github.com/mcdev12/livequiz/go/internal/quizdata"
)

// Services holds every wired component of the process.
type Services struct {
	App     *live.App
	Hub     *gateway.ConnectionManager
	Gateway *gateway.Service

	pool      *pgxpool.Pool
	publisher events.Publisher
}

func setupServices(ctx context.Context, cfg *Config) (*Services, error) {
	svc := &Services{}

	content, err := svc.setupContent(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc.publisher, err = setupPublisher(cfg)
	if err != nil {
		return nil, err
	}

	svc.App = live.NewApp()
	svc.Hub = gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	svc.Gateway = gateway.NewService(svc.App, svc.Hub, content, svc.publisher)

	return svc, nil
}

func (s *Services) setupContent(ctx context.Context, cfg *Config) (quizdata.ContentRepository, error) {
	switch cfg.Content.Source {
	case "postgres":
		pool, err := setupDatabase(ctx)
		if err != nil {
			return nil, err
		}
		s.pool = pool
		log.Info().Msg("quiz content source: postgres")
		return quizdata.NewPostgresRepository(pool), nil

	case "static":
		log.Info().Msg("quiz content source: built-in sample quiz")
		return quizdata.NewStaticRepository(sampleQuizzes()), nil

	default:
		return nil, fmt.Errorf("unknown content source %q", cfg.Content.Source)
	}
}

func setupPublisher(cfg *Config) (events.Publisher, error) {
	if !cfg.Events.Enabled {
		return events.NoopPublisher{}, nil
	}

	jsCfg := events.DefaultJetStreamConfig()
	if cfg.Events.URL != "" {
		jsCfg.URL = cfg.Events.URL
	}
	if cfg.Events.StreamName != "" {
		jsCfg.StreamName = cfg.Events.StreamName
	}
	if cfg.Events.SubjectPrefix != "" {
		jsCfg.SubjectPrefix = cfg.Events.SubjectPrefix
	}

	publisher, err := events.NewJetStreamPublisher(jsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}
	return publisher, nil
}

// Close releases every external resource.
func (s *Services) Close() {
	if s.publisher != nil {
		s.publisher.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}

// sampleQuizzes is the static content table used without a database.
func sampleQuizzes() map[int64]models.QuizData {
	return map[int64]models.QuizData{
		1: {
			Name: "General Knowledge",
			Categories: []models.Category{
				{
					Name: "Math",
					Questions: []models.Question{
						{ID: 1, Value: 100, Text: "2+2", Answer: "4"},
						{ID: 2, Value: 200, Text: "12*12", Answer: "144"},
						{ID: 3, Value: 300, Text: "The square root of 1024", Answer: "32"},
					},
				},
				{
					Name: "Space",
					Questions: []models.Question{
						{ID: 4, Value: 100, Text: "The closest star to Earth", Answer: "The Sun"},
						{ID: 5, Value: 200, Text: "The largest planet in the solar system", Answer: "Jupiter"},
						{ID: 6, Value: 300, Text: "The galaxy containing our solar system", Answer: "The Milky Way"},
					},
				},
			},
		},
	}
}
