// Package filter implements disallowed-term scanning over folded text
package filter

import (
	"sort"

	"quill/internal/core/fold"
	"quill/internal/core/termpack"
)

// Match is a single disallowed term found in a document
type Match struct {
	Term     string
	Category string
	Severity int
}

// Result is the outcome of a scan
// Terms and Categories are deduped and sorted; never persist document text here
type Result struct {
	Matched    bool
	Matches    []Match
	Terms      []string
	Categories []string
}

// Options controls filter behavior
type Options struct {
	// MaxMatches is the hard cap on collected matches (0 = no cap)
	MaxMatches int
}

// Filter scans folded text for terms from a pack
type Filter struct {
	p    *termpack.Pack
	opts Options

	folder   *fold.Folder
	ac       *acAutomaton
	terms    []termpack.Term
	termLens []int
}

// New creates a Filter with default options
func New(p *termpack.Pack) *Filter {
	return NewWithOptions(p, Options{})
}

// NewWithOptions creates a Filter with custom options
func NewWithOptions(p *termpack.Pack, opts Options) *Filter {
	f := &Filter{p: p, opts: opts, folder: fold.New()}

	ac := newAutomaton()
	termLens := make([]int, len(p.Terms))
	for i, tm := range p.Terms {
		if tm.Term == "" {
			continue
		}
		ac.AddPattern([]byte(tm.Term), i)
		termLens[i] = len(tm.Term)
	}
	ac.Build()
	f.ac = ac
	f.terms = p.Terms
	f.termLens = termLens

	return f
}

// Scan folds the document text and reports any disallowed terms.
// Matches respect token boundaries and the pack allowlist
func (f *Filter) Scan(text string) Result {
	var res Result
	if text == "" {
		return res
	}

	folded := f.folder.Fold(text)
	if folded == "" {
		return res
	}

	seen := make(map[string]struct{}, 4)
	maxMatches := f.opts.MaxMatches

	f.ac.FindAll([]byte(folded), func(end int, id int) bool {
		start := end - f.termLens[id]
		if !boundaryOK(folded, start, end) || f.inStoplist(folded, start, end) {
			return true
		}
		tm := f.terms[id]
		if _, dup := seen[tm.Term]; dup {
			return true
		}
		seen[tm.Term] = struct{}{}
		res.Matches = append(res.Matches, Match{Term: tm.Term, Category: tm.Category, Severity: tm.Severity})
		return maxMatches <= 0 || len(res.Matches) < maxMatches
	})

	if len(res.Matches) == 0 {
		return res
	}

	res.Matched = true
	sort.Slice(res.Matches, func(i, j int) bool { return res.Matches[i].Term < res.Matches[j].Term })

	catSeen := make(map[string]struct{}, 2)
	for _, m := range res.Matches {
		res.Terms = append(res.Terms, m.Term)
		if _, dup := catSeen[m.Category]; !dup {
			catSeen[m.Category] = struct{}{}
			res.Categories = append(res.Categories, m.Category)
		}
	}
	sort.Strings(res.Categories)
	return res
}

// inStoplist suppresses a match when its containing token is allowlisted
func (f *Filter) inStoplist(s string, start, end int) bool {
	ls, rs := expandToToken(s, start, end)
	token := s[ls:rs]
	_, allowed := f.p.Stopset[token]
	return allowed
}
