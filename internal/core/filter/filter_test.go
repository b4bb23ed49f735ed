package filter

import (
	"testing"

	"quill/internal/core/termpack"
)

func testPack(t *testing.T) *termpack.Pack {
	t.Helper()
	p, err := termpack.LoadBytes([]byte(`{
		"version": 1,
		"categories": ["violence", "illicit"],
		"terms": [
			{"term": "bomb", "category": "violence", "severity": 2},
			{"term": "meth", "category": "illicit", "severity": 3},
			{"term": "hire a hitman", "category": "violence", "severity": 3}
		],
		"allowlist": ["photobomb", "methodology", "bombastic"]
	}`))
	if err != nil {
		t.Fatalf("test pack: %v", err)
	}
	return p
}

func TestScan(t *testing.T) {
	f := New(testPack(t))

	cases := []struct {
		name      string
		in        string
		matched   bool
		wantTerms []string
		wantCats  []string
	}{
		{"empty", "", false, nil, nil},
		{"clean", "a perfectly ordinary essay about chemistry", false, nil, nil},
		{"exact term", "they found a bomb in the cellar", true, []string{"bomb"}, []string{"violence"}},
		{"case and width folded", "they found a ＢＯＭＢ in the cellar", true, []string{"bomb"}, []string{"violence"}},
		{"phrase term", "he tried to Hire a   Hitman online", true, []string{"hire a hitman"}, []string{"violence"}},
		{"substring rejected", "the bombardier wrote about bombs", false, nil, nil},
		{"allowlisted token", "her methodology was sound", false, nil, nil},
		{"allowlisted photobomb", "a funny photobomb ruined the shot", false, nil, nil},
		{
			"multiple categories sorted",
			"a bomb recipe next to meth instructions",
			true,
			[]string{"bomb", "meth"},
			[]string{"illicit", "violence"},
		},
		{"dedup repeated term", "bomb bomb bomb", true, []string{"bomb"}, []string{"violence"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := f.Scan(tc.in)
			if res.Matched != tc.matched {
				t.Fatalf("Matched = %v, want %v (terms %v)", res.Matched, tc.matched, res.Terms)
			}
			if len(res.Terms) != len(tc.wantTerms) {
				t.Fatalf("Terms = %v, want %v", res.Terms, tc.wantTerms)
			}
			for i := range tc.wantTerms {
				if res.Terms[i] != tc.wantTerms[i] {
					t.Fatalf("Terms = %v, want %v", res.Terms, tc.wantTerms)
				}
			}
			if len(res.Categories) != len(tc.wantCats) {
				t.Fatalf("Categories = %v, want %v", res.Categories, tc.wantCats)
			}
			for i := range tc.wantCats {
				if res.Categories[i] != tc.wantCats[i] {
					t.Fatalf("Categories = %v, want %v", res.Categories, tc.wantCats)
				}
			}
		})
	}
}

func TestScanMaxMatches(t *testing.T) {
	f := NewWithOptions(testPack(t), Options{MaxMatches: 1})

	res := f.Scan("a bomb and some meth")
	if !res.Matched {
		t.Fatalf("expected a match")
	}
	if len(res.Matches) != 1 {
		t.Fatalf("cap not applied, got %d matches", len(res.Matches))
	}
}

func TestScanSeverityCarried(t *testing.T) {
	f := New(testPack(t))

	res := f.Scan("meth lab notes")
	if !res.Matched || len(res.Matches) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Matches[0].Severity != 3 || res.Matches[0].Category != "illicit" {
		t.Fatalf("match meta lost: %+v", res.Matches[0])
	}
}

func TestScanEmbeddedPack(t *testing.T) {
	p, err := termpack.Load()
	if err != nil {
		t.Fatalf("embedded pack: %v", err)
	}
	f := New(p)

	if res := f.Scan("an essay on the economics of renewable energy"); res.Matched {
		t.Fatalf("clean text flagged: %v", res.Terms)
	}
}
