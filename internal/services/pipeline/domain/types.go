// Package domain holds the pipeline types shared by service, transport, and storage
package domain

import (
	"context"

	perr "quill/internal/platform/errors"
)

// Mode selects how aggressively a document is rewritten
type Mode string

// Modes, ordered by rewrite aggressiveness
const (
	ModeEasy       Mode = "easy"
	ModeMedium     Mode = "medium"
	ModeAggressive Mode = "aggressive"
)

// ParseMode validates a wire mode string
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeEasy, ModeMedium, ModeAggressive:
		return Mode(s), nil
	default:
		return "", perr.WithField(
			perr.InvalidArgf("mode must be one of easy, medium, aggressive"), "mode")
	}
}

// Strength is the rewrite intensity passed to the capability provider
type Strength string

// Strength wire values expected by the rewrite capability
const (
	StrengthQuality   Strength = "Quality"
	StrengthBalanced  Strength = "Balanced"
	StrengthMoreHuman Strength = "More Human"
)

// DetectionScore is an AI-likelihood estimate for a span of text
type DetectionScore struct {
	// Score is in [0,1]; 1 means certainly machine-generated
	Score float64 `json:"score"`

	// Rationale is an optional provider explanation
	Rationale string `json:"rationale,omitempty"`
}

// ChunkStatus describes what happened to a chunk during a pipeline run
type ChunkStatus string

// Chunk statuses
const (
	StatusUnmodified         ChunkStatus = "unmodified"
	StatusRewritten          ChunkStatus = "rewritten"
	StatusRewriteFailed      ChunkStatus = "rewrite-failed"
	StatusRewriteIneffective ChunkStatus = "rewrite-ineffective"
	StatusSkippedFiltered    ChunkStatus = "skipped-filtered"
)

// Verdict is the document-level banding of the aggregate score
type Verdict string

// Verdicts
const (
	VerdictLow        Verdict = "low"
	VerdictMedium     Verdict = "medium"
	VerdictHigh       Verdict = "high"
	VerdictEmptyInput Verdict = "empty-input"
)

// Verdict band boundaries; both cuts are inclusive on the upper band
const (
	VerdictMediumFloor = 0.40
	VerdictHighFloor   = 0.70
)

// BandVerdict maps an aggregate score to a verdict
func BandVerdict(score float64) Verdict {
	switch {
	case score >= VerdictHighFloor:
		return VerdictHigh
	case score >= VerdictMediumFloor:
		return VerdictMedium
	default:
		return VerdictLow
	}
}

// ChunkReport is the per-chunk slice of a detection report
type ChunkReport struct {
	Index     int         `json:"index"`
	Start     int         `json:"start"`
	End       int         `json:"end"`
	Score     float64     `json:"score"`
	Rationale string      `json:"rationale,omitempty"`
	Status    ChunkStatus `json:"status"`

	// Unavailable marks chunks whose detection call failed permanently
	Unavailable bool `json:"unavailable,omitempty"`
}

// Report is a document-level detection report
// Immutable once returned from the pipeline
type Report struct {
	DocumentScore float64       `json:"document_score"`
	Verdict       Verdict       `json:"verdict"`
	Chunks        []ChunkReport `json:"chunks"`

	// Unavailable lists chunk indexes excluded from the aggregate
	Unavailable []int `json:"unavailable,omitempty"`
}

// CheckResult is the outcome of a check operation
type CheckResult struct {
	DocumentID string `json:"document_id"`
	Report
}

// HumanizeResult is the outcome of a humanize operation
type HumanizeResult struct {
	DocumentID string `json:"document_id"`
	Mode       Mode   `json:"mode"`

	// Text is the reassembled document with rewritten chunk bodies
	Text string `json:"text"`

	Before Report `json:"before"`
	After  Report `json:"after"`
}

// Detector scores a span of text for AI likelihood
type Detector interface {
	Detect(ctx context.Context, text string) (DetectionScore, error)
}

// Rewriter rewrites a span of text at the given strength
type Rewriter interface {
	Rewrite(ctx context.Context, text string, strength Strength) (string, error)
}

// BalanceProvider reports remaining provider credit
// A negative balance means the provider is unmetered
type BalanceProvider interface {
	Balance(ctx context.Context) (float64, error)
}

// CapabilityProvider is the full upstream surface the pipeline depends on
type CapabilityProvider interface {
	Detector
	Rewriter
	BalanceProvider
}

// ControllerPort is the pipeline surface exposed to transports
type ControllerPort interface {
	Check(ctx context.Context, text string) (CheckResult, error)
	Humanize(ctx context.Context, text string, mode Mode) (HumanizeResult, error)
}
