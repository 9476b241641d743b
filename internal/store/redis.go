package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/mathpath/internal/config"
	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/learner"
	"github.com/abhisek/mathpath/internal/metrics"
)

// RedisStore is the shared remote backend. A class roster on one Redis
// instance lets every device see every learner.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

var _ Backend = (*RedisStore)(nil)

// NewRedisStore wraps an existing client. Keys are namespaced by prefix.
func NewRedisStore(client *redis.Client, prefix string, timeout time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "mathpath"
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &RedisStore{client: client, prefix: prefix, timeout: timeout}
}

// OpenRedis connects using cfg and pings the server.
func OpenRedis(ctx context.Context, cfg config.Redis) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})
	s := NewRedisStore(client, cfg.Prefix, cfg.Timeout)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return s, nil
}

// Name implements Backend.
func (s *RedisStore) Name() string { return "redis" }

// Close closes the client.
func (s *RedisStore) Close() error { return s.client.Close() }

func (s *RedisStore) learnerKey(userID string) string { return s.prefix + ":learner:" + userID }
func (s *RedisStore) rosterKey() string              { return s.prefix + ":learners" }
func (s *RedisStore) problemsKey() string            { return s.prefix + ":problems" }

func (s *RedisStore) observe(op string, err error) {
	metrics.StoreOps.WithLabelValues(s.Name(), op, metrics.Status(err)).Inc()
}

// Load implements LearnerRepo.
func (s *RedisStore) Load(ctx context.Context, userID string) (st *learner.State, err error) {
	defer func() { s.observe("load", ignoreNotFound(err)) }()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.learnerKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load learner %s: %w", userID, err)
	}
	return decodeState(data)
}

// Save implements LearnerRepo. The learner key and roster membership are
// written in one transaction.
func (s *RedisStore) Save(ctx context.Context, st *learner.State) (err error) {
	defer func() { s.observe("save", err) }()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode learner: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.learnerKey(st.UserID), data, 0)
		pipe.SAdd(ctx, s.rosterKey(), st.UserID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save learner %s: %w", st.UserID, err)
	}
	return nil
}

// ListRoster implements LearnerRepo, ordered by points descending.
func (s *RedisStore) ListRoster(ctx context.Context) (states []*learner.State, err error) {
	defer func() { s.observe("roster", err) }()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ids, err := s.client.SMembers(ctx, s.rosterKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.learnerKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue // removed between SMEMBERS and MGET
		}
		st, err := decodeState([]byte(raw))
		if err != nil {
			return nil, err
		}
		states = append(states, st)
	}
	sortRoster(states)
	return states, nil
}

// Delete implements LearnerRepo.
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.learnerKey(userID))
		pipe.SRem(ctx, s.rosterKey(), userID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete learner %s: %w", userID, err)
	}
	return nil
}

// ListCustomProblems implements ProblemRepo, ordered by id.
func (s *RedisStore) ListCustomProblems(ctx context.Context) (problems []*content.Problem, err error) {
	defer func() { s.observe("list_problems", err) }()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	all, err := s.client.HGetAll(ctx, s.problemsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list custom problems: %w", err)
	}
	for _, raw := range all {
		var p content.Problem
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode custom problem: %w", err)
		}
		problems = append(problems, &p)
	}
	sort.Slice(problems, func(i, j int) bool { return problems[i].ID < problems[j].ID })
	return problems, nil
}

// SaveCustomProblem implements ProblemRepo.
func (s *RedisStore) SaveCustomProblem(ctx context.Context, p *content.Problem) (err error) {
	defer func() { s.observe("save_problem", err) }()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := content.ValidateProblem(p); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode problem %s: %w", p.ID, err)
	}
	if err := s.client.HSet(ctx, s.problemsKey(), p.ID, data).Err(); err != nil {
		return fmt.Errorf("save problem %s: %w", p.ID, err)
	}
	return nil
}

func sortRoster(states []*learner.State) {
	sort.SliceStable(states, func(i, j int) bool {
		if states[i].Points != states[j].Points {
			return states[i].Points > states[j].Points
		}
		return states[i].Name < states[j].Name
	})
}
