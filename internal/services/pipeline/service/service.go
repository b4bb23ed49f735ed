// Package service contains the document pipeline workflows
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"quill/internal/core/filter"
	"quill/internal/core/segment"
	perr "quill/internal/platform/errors"
	"quill/internal/platform/logger"
	pnet "quill/internal/platform/net"
	"quill/internal/services/pipeline/domain"

	"github.com/google/uuid"
)

// Matches at or above this severity reject the whole document
// Lower severity matches only exclude their chunk from rewriting
const blockSeverity = 3

// Config bounds the pipeline fan-out and chunking
type Config struct {
	MaxChunkChars int
	MinChunkChars int

	// MaxInflight caps concurrent capability calls per document
	MaxInflight int

	// OpTimeout bounds a whole check or humanize run
	OpTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxChunkChars <= 0 {
		c.MaxChunkChars = segment.DefaultMaxChars
	}
	if c.MinChunkChars <= 0 {
		c.MinChunkChars = segment.DefaultMinChars
	}
	if c.MaxInflight <= 0 {
		c.MaxInflight = 4
	}
	if c.OpTimeout <= 0 {
		c.OpTimeout = 2 * time.Minute
	}
	return c
}

// Sink receives per-chunk score events, best effort
type Sink interface {
	ChunkScores(ctx context.Context, documentID, op string, chunks []domain.ChunkReport)
}

// Service defines the pipeline contract
type Service interface{ domain.ControllerPort }

// Svc implements the Service interface
type Svc struct {
	det  domain.Detector
	rew  domain.Rewriter
	flt  *filter.Filter
	seg  *segment.Segmenter
	sink Sink
	cfg  Config
	log  logger.Logger
}

// New creates a pipeline service
// sink may be nil when no event store is configured
func New(det domain.Detector, rew domain.Rewriter, flt *filter.Filter, sink Sink, cfg Config) *Svc {
	if det == nil {
		panic("pipeline.Service requires a non nil Detector")
	}
	if rew == nil {
		panic("pipeline.Service requires a non nil Rewriter")
	}
	if flt == nil {
		panic("pipeline.Service requires a non nil Filter")
	}
	cfg = cfg.withDefaults()
	return &Svc{
		det: det,
		rew: rew,
		flt: flt,
		seg: segment.New(segment.Options{
			MaxChars: cfg.MaxChunkChars,
			MinChars: cfg.MinChunkChars,
		}),
		sink: sink,
		cfg:  cfg,
		log:  *logger.Named("pipeline"),
	}
}

// Check scores a document for AI likelihood
func (s *Svc) Check(ctx context.Context, text string) (domain.CheckResult, error) {
	id := uuid.NewString()
	ctx = pnet.WithRequest(ctx, "", id)

	if strings.TrimSpace(text) == "" {
		return domain.CheckResult{
			DocumentID: id,
			Report:     domain.Report{Verdict: domain.VerdictEmptyInput, Chunks: []domain.ChunkReport{}},
		}, nil
	}

	scan := s.flt.Scan(text)
	if blocked(scan) {
		return domain.CheckResult{}, policyErr(scan)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.OpTimeout)
	defer cancel()

	sg := s.seg.Segment(text)
	reports := s.detectAll(ctx, sg.Chunks)

	rep, err := s.buildReport(reports, sg.Chunks)
	if err != nil {
		return domain.CheckResult{}, err
	}
	s.emit(ctx, id, "check", rep.Chunks)

	logger.C(ctx).Info().
		Int("chunks", len(rep.Chunks)).
		Float64("score", rep.DocumentScore).
		Str("verdict", string(rep.Verdict)).
		Msg("check complete")

	return domain.CheckResult{DocumentID: id, Report: rep}, nil
}

// detectAll scores every chunk with a bounded fan-out
// Failed chunks come back marked Unavailable rather than aborting the run
func (s *Svc) detectAll(ctx context.Context, chunks []segment.Chunk) []domain.ChunkReport {
	out := make([]domain.ChunkReport, len(chunks))
	sem := make(chan struct{}, s.cfg.MaxInflight)
	var wg sync.WaitGroup

	for i, ch := range chunks {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, ch segment.Chunk) {
			defer wg.Done()
			defer func() { <-sem }()

			rep := domain.ChunkReport{
				Index:  ch.Index,
				Start:  ch.Start,
				End:    ch.End,
				Status: domain.StatusUnmodified,
			}
			ds, err := s.det.Detect(ctx, ch.Body)
			if err != nil {
				logger.C(ctx).Warn().Err(err).Int("chunk", ch.Index).Msg("chunk detect failed")
				rep.Unavailable = true
			} else {
				rep.Score = ds.Score
				rep.Rationale = ds.Rationale
			}
			out[i] = rep
		}(i, ch)
	}
	wg.Wait()
	return out
}

// buildReport aggregates chunk scores into a document report
// Errors when every chunk failed detection
func (s *Svc) buildReport(reports []domain.ChunkReport, chunks []segment.Chunk) (domain.Report, error) {
	weights := make([]int, len(chunks))
	for i, ch := range chunks {
		weights[i] = len([]rune(ch.Body))
	}
	score, unavailable, err := aggregate(reports, weights)
	if err != nil {
		return domain.Report{}, err
	}
	return domain.Report{
		DocumentScore: score,
		Verdict:       domain.BandVerdict(score),
		Chunks:        reports,
		Unavailable:   unavailable,
	}, nil
}

func (s *Svc) emit(ctx context.Context, id, op string, chunks []domain.ChunkReport) {
	if s.sink == nil {
		return
	}
	s.sink.ChunkScores(ctx, id, op, chunks)
}

// blocked reports whether any match is at or above the blocking severity
func blocked(res filter.Result) bool {
	for _, m := range res.Matches {
		if m.Severity >= blockSeverity {
			return true
		}
	}
	return false
}

// policyErr names the matched terms, never the surrounding document text
func policyErr(res filter.Result) error {
	return perr.ContentPolicyf(
		"document contains disallowed terms: %s", strings.Join(res.Terms, ", "))
}
