// Package ollama provides a local capability provider backed by an Ollama
// server, used when no hosted provider is configured
package ollama

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	perr "quill/internal/platform/errors"
	"quill/internal/platform/logger"
	"quill/internal/services/pipeline/domain"

	"github.com/tmc/langchaingo/llms"
	lcollama "github.com/tmc/langchaingo/llms/ollama"
)

const (
	defaultModel   = "llama3.1"
	defaultBaseURL = "http://localhost:11434"
)

// Config configures the local provider
type Config struct {
	Model   string
	BaseURL string

	// Temperature for rewrite generations; detection always runs at zero
	Temperature float64
}

// Provider scores and rewrites text with a local model
type Provider struct {
	cfg Config
	llm llms.Model
	log logger.Logger
}

// New connects to the Ollama server and returns a Provider
func New(cfg Config) (*Provider, error) {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.7
	}
	llm, err := lcollama.New(
		lcollama.WithModel(cfg.Model),
		lcollama.WithServerURL(cfg.BaseURL),
	)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "ollama init failed")
	}
	return &Provider{
		cfg: cfg,
		llm: llm,
		log: *logger.Named("ollama"),
	}, nil
}

const detectSystem = "You estimate how likely a passage was written by a language model. " +
	"Respond with only a single number between 0 and 1, where 1 means certainly machine generated. " +
	"Do not explain."

// Detect scores text by asking the local model for a single number
func (p *Provider) Detect(ctx context.Context, text string) (domain.DetectionScore, error) {
	if strings.TrimSpace(text) == "" {
		return domain.DetectionScore{}, perr.InvalidArgf("detect text is empty")
	}
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, detectSystem),
		llms.TextParts(llms.ChatMessageTypeHuman, text),
	}
	resp, err := p.llm.GenerateContent(ctx, content, llms.WithTemperature(0))
	if err != nil {
		return domain.DetectionScore{}, perr.AsCapability(err, "ollama detect")
	}
	raw := firstChoice(resp)
	score, ok := extractScore(raw)
	if !ok {
		p.log.Warn().Str("raw", truncate(raw, 120)).Msg("ollama detect returned no parseable score")
		return domain.DetectionScore{}, perr.Capabilityf("ollama detect response unparseable")
	}
	return domain.DetectionScore{Score: score}, nil
}

var rewriteSystem = map[domain.Strength]string{
	domain.StrengthQuality: "Rewrite the passage with light edits so it reads naturally. " +
		"Preserve meaning, facts, and length. Output only the rewritten passage.",
	domain.StrengthBalanced: "Rewrite the passage in a natural human voice, varying sentence " +
		"length and word choice. Preserve meaning and facts. Output only the rewritten passage.",
	domain.StrengthMoreHuman: "Aggressively rewrite the passage so it reads like informal human " +
		"writing, with varied rhythm and plain vocabulary. Preserve meaning and facts. " +
		"Output only the rewritten passage.",
}

// Rewrite humanizes text at the given strength
func (p *Provider) Rewrite(ctx context.Context, text string, strength domain.Strength) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", perr.InvalidArgf("rewrite text is empty")
	}
	sys, ok := rewriteSystem[strength]
	if !ok {
		sys = rewriteSystem[domain.StrengthBalanced]
	}
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, sys),
		llms.TextParts(llms.ChatMessageTypeHuman, text),
	}
	resp, err := p.llm.GenerateContent(ctx, content, llms.WithTemperature(p.cfg.Temperature))
	if err != nil {
		return "", perr.AsCapability(err, "ollama rewrite")
	}
	out := strings.TrimSpace(firstChoice(resp))
	if out == "" {
		return "", perr.Capabilityf("ollama rewrite returned empty content")
	}
	return out, nil
}

// Balance reports -1 since local models are unmetered
func (p *Provider) Balance(context.Context) (float64, error) {
	return -1, nil
}

func firstChoice(resp *llms.ContentResponse) string {
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return ""
	}
	return resp.Choices[0].Content
}

var numRe = regexp.MustCompile(`[0-9]*\.?[0-9]+`)

// extractScore pulls the first numeric token out of a model reply and
// clamps it to [0,1]
func extractScore(s string) (float64, bool) {
	m := numRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		// models sometimes answer in percent
		if v <= 100 {
			v = v / 100
		} else {
			v = 1
		}
	}
	return v, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
