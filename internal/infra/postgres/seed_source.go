package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/Geti23/quiz-app/internal/domain"
)

// SeedSource loads quiz seed data (JSONB rows) from Postgres. The server
// feeds these into the quiz store at startup so a fresh process starts with
// curated content instead of an empty collection.
type SeedSource struct {
	pool *pgxpool.Pool
}

func NewSeedSource(pool *pgxpool.Pool) *SeedSource {
	return &SeedSource{pool: pool}
}

// LoadQuizzes returns all seed quizzes in their seeded order.
func (s *SeedSource) LoadQuizzes(ctx context.Context) ([]*domain.Quiz, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM seed_quizzes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query seed quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []*domain.Quiz
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan seed quiz: %w", err)
		}
		var quiz domain.Quiz
		if err := json.Unmarshal(raw, &quiz); err != nil {
			return nil, fmt.Errorf("unmarshal seed quiz: %w", err)
		}
		if quiz.Answers == nil {
			quiz.Answers = make(map[int]string)
		}
		quizzes = append(quizzes, &quiz)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seed quizzes: %w", err)
	}
	return quizzes, nil
}
