// Package events writes per-chunk score events to clickhouse
package events

import (
	"context"
	"time"

	"quill/internal/platform/logger"
	"quill/internal/platform/store"
	"quill/internal/services/pipeline/domain"
)

const insertChunkScores = `INSERT INTO chunk_scores
(document_id, op, chunk_index, start_offset, end_offset, score, status, unavailable, created_at)`

// Sink records chunk scores, best effort
// A nil Sink or a failed insert never affects the calling pipeline
type Sink struct {
	ch  store.Clickhouse
	log logger.Logger
	now func() time.Time
}

// New creates a Sink over the given clickhouse client
// ch may be nil which yields a no-op sink
func New(ch store.Clickhouse) *Sink {
	return &Sink{
		ch:  ch,
		log: *logger.Named("events"),
		now: time.Now,
	}
}

// ChunkScores writes one row per chunk report
func (s *Sink) ChunkScores(ctx context.Context, documentID, op string, chunks []domain.ChunkReport) {
	if s == nil || s.ch == nil || len(chunks) == 0 {
		return
	}
	ts := s.now().UTC()
	rows := make([][]any, 0, len(chunks))
	for _, c := range chunks {
		rows = append(rows, []any{
			documentID,
			op,
			int32(c.Index),
			int64(c.Start),
			int64(c.End),
			c.Score,
			string(c.Status),
			c.Unavailable,
			ts,
		})
	}
	if err := s.ch.Insert(ctx, insertChunkScores, rows); err != nil {
		s.log.Warn().Err(err).
			Str("document_id", documentID).
			Str("op", op).
			Int("rows", len(rows)).
			Msg("chunk score insert failed")
	}
}
