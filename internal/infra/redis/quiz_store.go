package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Geti23/quiz-app/internal/domain"
)

const idsKey = "quiz:ids"

// QuizStore is a Redis-backed implementation of app.QuizStore, for running
// several service instances against one shared collection.
//
// Quizzes are stored as JSON snapshots under quiz:{id}; insertion order is
// kept in a list under quiz:ids. The marshal/unmarshal round trip is what
// gives this store the same copy isolation the in-memory store gets from
// explicit cloning.
type QuizStore struct {
	client *redis.Client
}

func NewQuizStore(client *redis.Client) *QuizStore {
	return &QuizStore{client: client}
}

func (s *QuizStore) Add(ctx context.Context, quiz *domain.Quiz) (string, error) {
	id := uuid.NewString()
	data, err := marshalQuiz(quiz, id)
	if err != nil {
		return "", err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, quizKey(id), data, 0)
	pipe.RPush(ctx, idsKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("store quiz: %w", err)
	}
	return id, nil
}

func (s *QuizStore) Get(ctx context.Context, id string) (*domain.Quiz, bool, error) {
	data, err := s.client.Get(ctx, quizKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load quiz: %w", err)
	}
	quiz, err := unmarshalQuiz(data)
	if err != nil {
		return nil, false, err
	}
	return quiz, true, nil
}

func (s *QuizStore) Update(ctx context.Context, id string, quiz *domain.Quiz) (bool, error) {
	exists, err := s.client.Exists(ctx, quizKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("check quiz: %w", err)
	}
	if exists == 0 {
		return false, nil
	}

	data, err := marshalQuiz(quiz, id)
	if err != nil {
		return false, err
	}
	if err := s.client.Set(ctx, quizKey(id), data, 0).Err(); err != nil {
		return false, fmt.Errorf("update quiz: %w", err)
	}
	return true, nil
}

func (s *QuizStore) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.client.Del(ctx, quizKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("delete quiz: %w", err)
	}
	if deleted == 0 {
		return false, nil
	}
	if err := s.client.LRem(ctx, idsKey, 0, id).Err(); err != nil {
		return false, fmt.Errorf("unlist quiz: %w", err)
	}
	return true, nil
}

func (s *QuizStore) List(ctx context.Context) ([]*domain.Quiz, error) {
	ids, err := s.client.LRange(ctx, idsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list quiz ids: %w", err)
	}

	quizzes := make([]*domain.Quiz, 0, len(ids))
	for _, id := range ids {
		quiz, found, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			// Entry vanished between LRange and Get; skip it.
			continue
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, nil
}

func (s *QuizStore) Clear(ctx context.Context) error {
	ids, err := s.client.LRange(ctx, idsKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("list quiz ids: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, quizKey(id))
	}
	keys = append(keys, idsKey)
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("clear quizzes: %w", err)
	}
	return nil
}

func (s *QuizStore) Size(ctx context.Context) (int, error) {
	size, err := s.client.LLen(ctx, idsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count quizzes: %w", err)
	}
	return int(size), nil
}

func quizKey(id string) string {
	return "quiz:" + id
}

func marshalQuiz(quiz *domain.Quiz, id string) ([]byte, error) {
	snapshot := quiz.Clone()
	snapshot.ID = id
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal quiz: %w", err)
	}
	return data, nil
}

func unmarshalQuiz(data []byte) (*domain.Quiz, error) {
	var quiz domain.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return nil, fmt.Errorf("unmarshal quiz: %w", err)
	}
	if quiz.Answers == nil {
		quiz.Answers = make(map[int]string)
	}
	return &quiz, nil
}
