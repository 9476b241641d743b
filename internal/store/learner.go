package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mathpath/internal/learner"
)

// Load implements LearnerRepo.
func (s *Store) Load(ctx context.Context, userID string) (st *learner.State, err error) {
	defer func() { s.observe("load", ignoreNotFound(err)) }()

	query, args := builder.Select("data").
		From(builder.Table(learnersTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		Query()
	states, err := s.queryStates(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("load learner %s: %w", userID, err)
	}
	if len(states) == 0 {
		return nil, ErrNotFound
	}
	return states[0], nil
}

// Latest returns the most recently saved learner, the one this device
// played as last. It returns ErrNotFound on a fresh database.
func (s *Store) Latest(ctx context.Context) (*learner.State, error) {
	query, args := builder.Select("data").
		From(builder.Table(learnersTable.Name)).
		OrderBy(entsql.Desc("updated_at")).
		Limit(1).
		Query()
	states, err := s.queryStates(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("latest learner: %w", err)
	}
	if len(states) == 0 {
		return nil, ErrNotFound
	}
	return states[0], nil
}

// Save implements LearnerRepo. The row is replaced wholesale.
func (s *Store) Save(ctx context.Context, st *learner.State) (err error) {
	defer func() { s.observe("save", err) }()

	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode learner: %w", err)
	}

	query, args := builder.Insert(learnersTable.Name).
		Columns("user_id", "name", "language", "path", "points", "streak", "data", "updated_at").
		Values(st.UserID, st.Name, string(st.Language), string(st.Path), st.Points, st.Streak, string(data), st.UpdatedAt.UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("user_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save learner %s: %w", st.UserID, err)
	}
	return nil
}

// ListRoster implements LearnerRepo, ordered by points descending.
func (s *Store) ListRoster(ctx context.Context) (states []*learner.State, err error) {
	defer func() { s.observe("roster", err) }()

	query, args := builder.Select("data").
		From(builder.Table(learnersTable.Name)).
		OrderBy(entsql.Desc("points"), "name").
		Query()
	states, err = s.queryStates(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return states, nil
}

// Delete implements LearnerRepo. Deleting an unknown learner is a no-op.
func (s *Store) Delete(ctx context.Context, userID string) error {
	query, args := builder.Delete(learnersTable.Name).
		Where(entsql.EQ("user_id", userID)).
		Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete learner %s: %w", userID, err)
	}
	return nil
}

func (s *Store) queryStates(ctx context.Context, query string, args []any) ([]*learner.State, error) {
	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*learner.State
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		st, err := decodeState([]byte(data))
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func decodeState(data []byte) (*learner.State, error) {
	var st learner.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode learner: %w", err)
	}
	st.Normalize()
	return &st, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
