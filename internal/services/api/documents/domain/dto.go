// Package domain holds DTOs for documents http and service contracts
package domain

// CheckInput is the input for scoring a document
// Text may be empty; empty documents yield the empty-input verdict
type CheckInput struct {
	Text string `json:"text" validate:"omitempty,max=200000" example:"The essay text to score."`
}

// HumanizeInput is the input for rewriting a document
type HumanizeInput struct {
	Text string `json:"text" validate:"omitempty,max=200000" example:"The essay text to rewrite."`
	Mode string `json:"mode" validate:"required,oneof=easy medium aggressive" example:"medium"`
}

// HistoryInput filters history listings
type HistoryInput struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=200" example:"50"`
}

// CheckRecord is one row of check history
type CheckRecord struct {
	ID         string  `json:"id"`
	DocumentID string  `json:"document_id"`
	Score      float64 `json:"score"`
	Verdict    string  `json:"verdict"`
	WordCount  int     `json:"word_count"`
	ChunkCount int     `json:"chunk_count"`
	CreatedAt  string  `json:"created_at"`
}

// HumanizeRecord is one row of humanize history
type HumanizeRecord struct {
	ID          string  `json:"id"`
	DocumentID  string  `json:"document_id"`
	Mode        string  `json:"mode"`
	BeforeScore float64 `json:"before_score"`
	AfterScore  float64 `json:"after_score"`
	Verdict     string  `json:"verdict"`
	WordCount   int     `json:"word_count"`
	CreatedAt   string  `json:"created_at"`
}
