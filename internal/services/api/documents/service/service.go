// Package service contains documents workflows
package service

import (
	"context"
	"strings"

	"quill/internal/modkit/repokit"
	perr "quill/internal/platform/errors"
	"quill/internal/services/api/documents/domain"
	"quill/internal/services/api/documents/repo"
	pipedom "quill/internal/services/pipeline/domain"
)

// Service defines the service contract for documents
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	pipe   pipedom.ControllerPort
}

// New creates a new documents service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], pipe pipedom.ControllerPort) *Svc {
	if db == nil {
		panic("documents.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("documents.Service requires a non nil Repo binder")
	}
	if pipe == nil {
		panic("documents.Service requires a non nil pipeline")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, pipe: pipe}
}

// Check scores a document and records the run
func (s *Svc) Check(ctx context.Context, in domain.CheckInput) (pipedom.CheckResult, error) {
	res, err := s.pipe.Check(ctx, in.Text)
	if err != nil {
		return pipedom.CheckResult{}, err
	}
	row := repo.RowCheck{
		DocumentID: res.DocumentID,
		InputText:  in.Text,
		Score:      res.DocumentScore,
		Verdict:    string(res.Verdict),
		WordCount:  wordCount(in.Text),
		ChunkCount: len(res.Chunks),
	}
	if err := s.Repo.InsertCheck(ctx, row); err != nil {
		return pipedom.CheckResult{}, perr.Wrapf(err, perr.ErrorCodeDB, "insert check history failed")
	}
	return res, nil
}

// Humanize rewrites a document and records the run
func (s *Svc) Humanize(ctx context.Context, in domain.HumanizeInput) (pipedom.HumanizeResult, error) {
	mode, err := pipedom.ParseMode(in.Mode)
	if err != nil {
		return pipedom.HumanizeResult{}, err
	}
	res, err := s.pipe.Humanize(ctx, in.Text, mode)
	if err != nil {
		return pipedom.HumanizeResult{}, err
	}
	row := repo.RowHumanize{
		DocumentID:  res.DocumentID,
		Mode:        string(res.Mode),
		InputText:   in.Text,
		OutputText:  res.Text,
		BeforeScore: res.Before.DocumentScore,
		AfterScore:  res.After.DocumentScore,
		Verdict:     string(res.After.Verdict),
		WordCount:   wordCount(in.Text),
	}
	if err := s.Repo.InsertHumanize(ctx, row); err != nil {
		return pipedom.HumanizeResult{}, perr.Wrapf(err, perr.ErrorCodeDB, "insert humanize history failed")
	}
	return res, nil
}

// RecentChecks lists recent check runs
func (s *Svc) RecentChecks(ctx context.Context, in domain.HistoryInput) ([]domain.CheckRecord, error) {
	rows, err := s.Repo.RecentChecks(ctx, in.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CheckRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.CheckRecord{
			ID:         r.ID,
			DocumentID: r.DocumentID,
			Score:      r.Score,
			Verdict:    r.Verdict,
			WordCount:  r.WordCount,
			ChunkCount: r.ChunkCount,
			CreatedAt:  r.CreatedAt,
		})
	}
	return out, nil
}

// RecentHumanizes lists recent humanize runs
func (s *Svc) RecentHumanizes(ctx context.Context, in domain.HistoryInput) ([]domain.HumanizeRecord, error) {
	rows, err := s.Repo.RecentHumanizes(ctx, in.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.HumanizeRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.HumanizeRecord{
			ID:          r.ID,
			DocumentID:  r.DocumentID,
			Mode:        r.Mode,
			BeforeScore: r.BeforeScore,
			AfterScore:  r.AfterScore,
			Verdict:     r.Verdict,
			WordCount:   r.WordCount,
			CreatedAt:   r.CreatedAt,
		})
	}
	return out, nil
}

func wordCount(s string) int { return len(strings.Fields(s)) }
