package capability

import (
	"context"
	"net/http"
	"strings"

	perr "quill/internal/platform/errors"
	"quill/internal/services/pipeline/domain"
)

// Detect scores text for AI likelihood via POST /check
func (c *Client) Detect(ctx context.Context, text string) (domain.DetectionScore, error) {
	if strings.TrimSpace(text) == "" {
		return domain.DetectionScore{}, perr.InvalidArgf("detect text is empty")
	}
	var out checkResponse
	if err := c.doJSON(ctx, http.MethodPost, "/check", checkRequest{Content: text}, &out); err != nil {
		return domain.DetectionScore{}, err
	}
	return domain.DetectionScore{
		Score:     clamp01(out.Score),
		Rationale: out.Rationale,
	}, nil
}

// Rewrite humanizes text at the given strength via POST /humanize
func (c *Client) Rewrite(ctx context.Context, text string, strength domain.Strength) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", perr.InvalidArgf("rewrite text is empty")
	}
	req := humanizeRequest{
		Content:     text,
		Readability: c.opts.Readability,
		Purpose:     c.opts.Purpose,
		Strength:    string(strength),
	}
	var out humanizeResponse
	if err := c.doJSON(ctx, http.MethodPost, "/humanize", req, &out); err != nil {
		return "", err
	}
	if out.Content == "" {
		return "", perr.Capabilityf("humanize returned empty content")
	}
	return out.Content, nil
}

// Balance returns the remaining provider credit via GET /balance
func (c *Client) Balance(ctx context.Context) (float64, error) {
	var out balanceResponse
	if err := c.doJSON(ctx, http.MethodGet, "/balance", nil, &out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
