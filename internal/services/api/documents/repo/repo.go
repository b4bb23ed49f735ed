// Package repo provides postgres access for document history
package repo

import (
	"context"

	"quill/internal/modkit/repokit"
)

// Repo defines the repository contract for document history
type Repo interface {
	InsertCheck(ctx context.Context, row RowCheck) error
	InsertHumanize(ctx context.Context, row RowHumanize) error
	RecentChecks(ctx context.Context, limit int) ([]RowCheck, error)
	RecentHumanizes(ctx context.Context, limit int) ([]RowHumanize, error)
}

// RowCheck represents a check history row
type RowCheck struct {
	ID         string
	DocumentID string
	InputText  string
	Score      float64
	Verdict    string
	WordCount  int
	ChunkCount int
	CreatedAt  string
}

// RowHumanize represents a humanize history row
type RowHumanize struct {
	ID          string
	DocumentID  string
	Mode        string
	InputText   string
	OutputText  string
	BeforeScore float64
	AfterScore  float64
	Verdict     string
	WordCount   int
	CreatedAt   string
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) InsertCheck(ctx context.Context, row RowCheck) error {
	const sql = `
insert into check_history (document_id, input_text, score, verdict, word_count, chunk_count)
values ($1, $2, $3, $4, $5, $6)
`
	_, err := r.q.Exec(ctx, sql,
		row.DocumentID, row.InputText, row.Score, row.Verdict, row.WordCount, row.ChunkCount)
	return err
}

func (r *queries) InsertHumanize(ctx context.Context, row RowHumanize) error {
	const sql = `
insert into humanize_history
(document_id, mode, input_text, output_text, before_score, after_score, verdict, word_count)
values ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err := r.q.Exec(ctx, sql,
		row.DocumentID, row.Mode, row.InputText, row.OutputText,
		row.BeforeScore, row.AfterScore, row.Verdict, row.WordCount)
	return err
}

func (r *queries) RecentChecks(ctx context.Context, limit int) ([]RowCheck, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const sql = `
select id::text, document_id::text, score, verdict, word_count, chunk_count, created_at::text
from check_history
order by created_at desc
limit $1
`
	rows, err := r.q.Query(ctx, sql, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RowCheck
	for rows.Next() {
		var rr RowCheck
		if err := rows.Scan(
			&rr.ID,
			&rr.DocumentID,
			&rr.Score,
			&rr.Verdict,
			&rr.WordCount,
			&rr.ChunkCount,
			&rr.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

func (r *queries) RecentHumanizes(ctx context.Context, limit int) ([]RowHumanize, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const sql = `
select id::text, document_id::text, mode, before_score, after_score, verdict, word_count, created_at::text
from humanize_history
order by created_at desc
limit $1
`
	rows, err := r.q.Query(ctx, sql, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RowHumanize
	for rows.Next() {
		var rr RowHumanize
		if err := rows.Scan(
			&rr.ID,
			&rr.DocumentID,
			&rr.Mode,
			&rr.BeforeScore,
			&rr.AfterScore,
			&rr.Verdict,
			&rr.WordCount,
			&rr.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}
