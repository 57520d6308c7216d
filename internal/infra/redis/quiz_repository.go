package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"hunter-quiz-service/internal/domain"
	"hunter-quiz-service/internal/infra/memory"
)

// QuizRepository caches the ordered question set in Redis and falls back to a loader on miss.
// Questions are stored as one JSON document per list element, in quiz order:
// RPUSH quiz:{quizID}:questions {question}...
type QuizRepository struct {
	client *redis.Client
	loader memory.QuizLoader
	ttl    time.Duration
	log    logrus.FieldLogger
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuizRepository(client *redis.Client, loader memory.QuizLoader, ttl time.Duration, log logrus.FieldLogger) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		log:    log,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := r.cached(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := r.cached(ctx, quizID); ok {
			return quiz, nil
		}

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		if err := r.fill(ctx, quiz); err != nil {
			r.log.WithError(err).WithField("quiz", quizID).Warn("quiz cache fill failed")
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (r *QuizRepository) cached(ctx context.Context, quizID string) (domain.Quiz, bool) {
	raw, err := r.client.LRange(ctx, questionsKey(quizID), 0, -1).Result()
	if err != nil || len(raw) == 0 {
		return domain.Quiz{}, false
	}
	quiz := domain.Quiz{ID: quizID, Questions: make([]domain.Question, 0, len(raw))}
	for _, item := range raw {
		var q domain.Question
		if err := json.Unmarshal([]byte(item), &q); err != nil {
			return domain.Quiz{}, false
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	return quiz, true
}

func (r *QuizRepository) fill(ctx context.Context, quiz domain.Quiz) error {
	values := make([]interface{}, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		encoded, err := json.Marshal(q)
		if err != nil {
			return errors.Wrapf(err, "encode question %d", q.ID)
		}
		values = append(values, string(encoded))
	}
	if len(values) == 0 {
		return nil
	}

	key := questionsKey(quiz.ID)
	ttl := r.ttlWithJitter()
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.RPush(ctx, key, values...)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	return errors.Wrap(err, "cache quiz questions")
}

func questionsKey(quizID string) string {
	return "quiz:" + quizID + ":questions"
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
