package service

import (
	"context"
	"strings"
	"sync"

	"quill/internal/core/segment"
	perr "quill/internal/platform/errors"
	"quill/internal/platform/logger"
	pnet "quill/internal/platform/net"
	"quill/internal/services/pipeline/domain"

	"github.com/google/uuid"
)

// rwResult is the outcome of rewriting a single chunk
type rwResult struct {
	body        string
	score       float64
	rationale   string
	status      domain.ChunkStatus
	unavailable bool
}

// Humanize rewrites the AI-flagged chunks of a document and re-scores it
func (s *Svc) Humanize(ctx context.Context, text string, mode domain.Mode) (domain.HumanizeResult, error) {
	id := uuid.NewString()
	ctx = pnet.WithRequest(ctx, "", id)

	if strings.TrimSpace(text) == "" {
		empty := domain.Report{Verdict: domain.VerdictEmptyInput, Chunks: []domain.ChunkReport{}}
		return domain.HumanizeResult{
			DocumentID: id,
			Mode:       mode,
			Text:       text,
			Before:     empty,
			After:      empty,
		}, nil
	}

	scan := s.flt.Scan(text)
	if blocked(scan) {
		return domain.HumanizeResult{}, policyErr(scan)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.OpTimeout)
	defer cancel()

	sg := s.seg.Segment(text)
	beforeChunks := s.detectAll(ctx, sg.Chunks)
	before, err := s.buildReport(beforeChunks, sg.Chunks)
	if err != nil {
		return domain.HumanizeResult{}, err
	}

	pol := domain.PolicyFor(mode)
	results := s.orchestrate(ctx, sg.Chunks, beforeChunks, pol)

	if err := allTargetedFailed(results); err != nil {
		return domain.HumanizeResult{}, err
	}

	newText, afterChunks := reassemble(sg, results)

	weights := make([]int, len(results))
	for i, r := range results {
		weights[i] = len([]rune(r.body))
	}
	afterScore, unavailable, err := aggregate(afterChunks, weights)
	if err != nil {
		return domain.HumanizeResult{}, err
	}
	after := domain.Report{
		DocumentScore: afterScore,
		Verdict:       domain.BandVerdict(afterScore),
		Chunks:        afterChunks,
		Unavailable:   unavailable,
	}

	s.emit(ctx, id, "humanize", afterChunks)

	logger.C(ctx).Info().
		Str("mode", string(mode)).
		Float64("before", before.DocumentScore).
		Float64("after", after.DocumentScore).
		Msg("humanize complete")

	return domain.HumanizeResult{
		DocumentID: id,
		Mode:       mode,
		Text:       newText,
		Before:     before,
		After:      after,
	}, nil
}

// orchestrate runs the rewrite pass over targeted chunks with a bounded fan-out
// Non targeted chunks pass through with their before scores
func (s *Svc) orchestrate(
	ctx context.Context,
	chunks []segment.Chunk,
	before []domain.ChunkReport,
	pol domain.Policy,
) []rwResult {
	out := make([]rwResult, len(chunks))
	sem := make(chan struct{}, s.cfg.MaxInflight)
	var wg sync.WaitGroup

	for i, ch := range chunks {
		rep := before[i]

		switch {
		case rep.Unavailable:
			// no score to judge against; leave the chunk alone
			out[i] = rwResult{body: ch.Body, status: domain.StatusUnmodified, unavailable: true}
			continue
		case s.flt.Scan(ch.Body).Matched:
			out[i] = rwResult{
				body:      ch.Body,
				score:     rep.Score,
				rationale: rep.Rationale,
				status:    domain.StatusSkippedFiltered,
			}
			continue
		case rep.Score < pol.Threshold:
			out[i] = rwResult{
				body:      ch.Body,
				score:     rep.Score,
				rationale: rep.Rationale,
				status:    domain.StatusUnmodified,
			}
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, ch segment.Chunk, rep domain.ChunkReport) {
			defer wg.Done()
			defer func() { <-sem }()
			out[i] = s.rewriteChunk(ctx, ch, rep, pol)
		}(i, ch, rep)
	}
	wg.Wait()
	return out
}

// rewriteChunk rewrites one chunk, re-detects it, and escalates one strength
// tier when the first rewrite did not lower the chunk's score
func (s *Svc) rewriteChunk(
	ctx context.Context,
	ch segment.Chunk,
	before domain.ChunkReport,
	pol domain.Policy,
) rwResult {
	clog := logger.C(ctx)

	body, score, unavailable, err := s.rewriteOnce(ctx, ch.Body, pol.Strength)
	if err != nil {
		clog.Warn().Err(err).Int("chunk", ch.Index).Msg("chunk rewrite failed")
		return rwResult{
			body:      ch.Body,
			score:     before.Score,
			rationale: before.Rationale,
			status:    domain.StatusRewriteFailed,
		}
	}
	if unavailable {
		// rewrite landed but re-detection failed; keep the rewrite
		return rwResult{body: body, status: domain.StatusRewritten, unavailable: true}
	}
	if score < before.Score {
		return rwResult{body: body, score: score, status: domain.StatusRewritten}
	}

	next, ok := domain.Escalate(pol.Strength)
	if !ok {
		clog.Debug().Int("chunk", ch.Index).Msg("chunk not improved at ceiling strength")
		return rwResult{body: body, score: score, status: domain.StatusRewriteIneffective}
	}

	clog.Debug().
		Int("chunk", ch.Index).
		Str("strength", string(next)).
		Msg("chunk not improved, escalating")

	body2, score2, unavailable2, err := s.rewriteOnce(ctx, ch.Body, next)
	if err != nil || unavailable2 {
		// keep the first rewrite; it at least changed the text
		return rwResult{body: body, score: score, status: domain.StatusRewriteIneffective}
	}
	// keep whichever attempt scored lower
	if score2 < score {
		body, score = body2, score2
	}
	status := domain.StatusRewritten
	if score >= before.Score {
		status = domain.StatusRewriteIneffective
	}
	return rwResult{body: body, score: score, status: status}
}

// rewriteOnce runs one rewrite plus re-detection round
// unavailable is true when the rewrite landed but re-detection failed
func (s *Svc) rewriteOnce(
	ctx context.Context,
	body string,
	strength domain.Strength,
) (string, float64, bool, error) {
	out, err := s.rew.Rewrite(ctx, body, strength)
	if err != nil {
		return "", 0, false, err
	}
	ds, err := s.det.Detect(ctx, out)
	if err != nil {
		return out, 0, true, nil
	}
	return out, ds.Score, false, nil
}

// allTargetedFailed errors when every chunk sent for rewrite failed
func allTargetedFailed(results []rwResult) error {
	targeted, failed := 0, 0
	for _, r := range results {
		switch r.status {
		case domain.StatusRewriteFailed:
			targeted++
			failed++
		case domain.StatusRewritten, domain.StatusRewriteIneffective:
			targeted++
		}
	}
	if targeted > 0 && failed == targeted {
		return perr.Unavailablef("rewrite unavailable for all targeted chunks")
	}
	return nil
}

// reassemble rebuilds the document in chunk order and recomputes offsets
// against the rewritten text
func reassemble(sg segment.Segmentation, results []rwResult) (string, []domain.ChunkReport) {
	var b strings.Builder
	b.WriteString(sg.Lead)

	chunks := make([]domain.ChunkReport, len(results))
	for i, r := range results {
		start := b.Len()
		b.WriteString(r.body)
		end := b.Len()
		b.WriteString(sg.Chunks[i].Sep)

		chunks[i] = domain.ChunkReport{
			Index:       sg.Chunks[i].Index,
			Start:       start,
			End:         end,
			Score:       r.score,
			Rationale:   r.rationale,
			Status:      r.status,
			Unavailable: r.unavailable,
		}
	}
	return b.String(), chunks
}
