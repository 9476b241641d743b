package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mathpath/internal/content"
)

// ListCustomProblems implements ProblemRepo, oldest first.
func (s *Store) ListCustomProblems(ctx context.Context) (problems []*content.Problem, err error) {
	defer func() { s.observe("list_problems", err) }()

	query, args := builder.Select("data").
		From(builder.Table(customProblemsTable.Name)).
		OrderBy("created_at", "id").
		Query()
	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("list custom problems: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan custom problem: %w", err)
		}
		var p content.Problem
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("decode custom problem: %w", err)
		}
		problems = append(problems, &p)
	}
	return problems, rows.Err()
}

// SaveCustomProblem implements ProblemRepo.
func (s *Store) SaveCustomProblem(ctx context.Context, p *content.Problem) (err error) {
	defer func() { s.observe("save_problem", err) }()

	if err := content.ValidateProblem(p); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode problem %s: %w", p.ID, err)
	}

	query, args := builder.Insert(customProblemsTable.Name).
		Columns("id", "lesson_id", "data", "created_at").
		Values(p.ID, p.LessonID, string(data), time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("lesson_id")
				u.SetExcluded("data")
			}),
		).
		Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save problem %s: %w", p.ID, err)
	}
	return nil
}
