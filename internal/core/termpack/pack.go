// Package termpack loads the embedded disallowed-term pack used by the content filter.
// Terms are stored pre-folded (lowercase, single-spaced) in terms.json
package termpack

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

//go:embed terms.json
var embedded []byte

type rawTermV1 struct {
	Term     string `json:"term"`
	Category string `json:"category"`
	Severity int    `json:"severity"`
}

type rawPackV1 struct {
	Version    int            `json:"version"`
	Meta       map[string]any `json:"meta"`
	Categories []string       `json:"categories"`
	Terms      []rawTermV1    `json:"terms"`
	Allowlist  []string       `json:"allowlist"`
}

// Term is a single disallowed term with its policy category
type Term struct {
	Term     string
	Category string
	Severity int
}

// Pack is a compiled term pack for the content filter
type Pack struct {
	Version    int
	Meta       map[string]any
	Categories []string

	// Terms sorted by term for deterministic iteration
	Terms   []Term
	TermSet map[string]Term // folded term -> meta

	// Stopset: tokens that suppress matches inside them (allowlist)
	Stopset map[string]struct{}
}

// Load returns the compiled pack from the embedded terms.json
func Load() (*Pack, error) { return LoadBytes(embedded) }

// LoadBytes compiles a pack from raw JSON; used by the termpacker CLI to validate fragments
func LoadBytes(data []byte) (*Pack, error) {
	var rp rawPackV1
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, fmt.Errorf("termpack: parse terms.json: %w", err)
	}
	if rp.Version != 1 {
		return nil, fmt.Errorf("termpack: unsupported terms.json version %d (want 1)", rp.Version)
	}

	p := &Pack{
		Version:    rp.Version,
		Meta:       rp.Meta,
		Categories: rp.Categories,
		TermSet:    make(map[string]Term, len(rp.Terms)),
		Stopset:    make(map[string]struct{}, len(rp.Allowlist)),
	}

	cats := make(map[string]struct{}, len(rp.Categories))
	for _, c := range rp.Categories {
		cats[c] = struct{}{}
	}

	for _, rt := range rp.Terms {
		term := foldKey(rt.Term)
		if term == "" {
			continue
		}
		if _, ok := cats[rt.Category]; !ok {
			return nil, fmt.Errorf("termpack: term %q references unknown category %q", term, rt.Category)
		}
		if _, dup := p.TermSet[term]; dup {
			return nil, fmt.Errorf("termpack: duplicate term %q", term)
		}
		sev := rt.Severity
		if sev < 1 {
			sev = 1
		}
		t := Term{Term: term, Category: rt.Category, Severity: sev}
		p.Terms = append(p.Terms, t)
		p.TermSet[term] = t
	}

	for _, s := range rp.Allowlist {
		s = foldKey(s)
		if s != "" {
			p.Stopset[s] = struct{}{}
		}
	}

	// Deterministic iteration for tests/debug
	sort.Slice(p.Terms, func(i, j int) bool { return p.Terms[i].Term < p.Terms[j].Term })

	return p, nil
}

// foldKey lowercases, trims, and single-spaces a key the way the filter folds input
func foldKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
