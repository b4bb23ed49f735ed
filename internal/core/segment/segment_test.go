package segment

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRoundTrip(t *testing.T) {
	sg := New(Options{MaxChars: 40, MinChars: 0})

	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"whitespace only", "  \n\n\t "},
		{"single sentence", "The quick brown fox jumps."},
		{"no trailing newline", "First sentence. Second sentence"},
		{"paragraphs", "Para one, sentence one. Sentence two.\n\nPara two starts here. And ends."},
		{"leading whitespace", "\n\n  Indented start. More text follows here."},
		{"trailing whitespace", "A sentence with a tail.   \n"},
		{"windows newlines", "One line.\r\n\r\nAnother line."},
		{"unicode", "Ēst ūnicode. Šecond sentence? Third — with a dash."},
		{"abbrev run", "A. B. C."},
		{"long unsplittable", strings.Repeat("x", 130)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seg := sg.Segment(tc.in)
			if got := seg.Join(); got != tc.in {
				t.Fatalf("round trip mismatch:\n got %q\nwant %q", got, tc.in)
			}
			for _, c := range seg.Chunks {
				if tc.in[c.Start:c.End] != c.Body {
					t.Fatalf("offsets wrong for chunk %d: [%d,%d) = %q, body %q",
						c.Index, c.Start, c.End, tc.in[c.Start:c.End], c.Body)
				}
				if c.Index != 0 && seg.Chunks[c.Index-1].Index != c.Index-1 {
					t.Fatalf("indices not contiguous at %d", c.Index)
				}
			}
		})
	}
}

func TestWhitespaceOnlyIsLead(t *testing.T) {
	sg := New(Options{})
	seg := sg.Segment(" \n\t ")
	if len(seg.Chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(seg.Chunks))
	}
	if seg.Lead != " \n\t " {
		t.Fatalf("lead = %q", seg.Lead)
	}
}

func TestGreedyPacking(t *testing.T) {
	sg := New(Options{MaxChars: 60, MinChars: 0})
	seg := sg.Segment("Short one. Short two. Short three.")
	if len(seg.Chunks) != 1 {
		t.Fatalf("sentences within budget must pack into one chunk, got %d", len(seg.Chunks))
	}
	if seg.Chunks[0].Body != "Short one. Short two. Short three." {
		t.Fatalf("body = %q", seg.Chunks[0].Body)
	}
}

func TestSentenceSplitOverBudget(t *testing.T) {
	sg := New(Options{MaxChars: 4, MinChars: 0})
	seg := sg.Segment("A. B. C.")
	if len(seg.Chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %+v", len(seg.Chunks), seg.Chunks)
	}
	for i, want := range []string{"A.", "B.", "C."} {
		if seg.Chunks[i].Body != want {
			t.Fatalf("chunk %d body = %q, want %q", i, seg.Chunks[i].Body, want)
		}
		if seg.Chunks[i].Forced {
			t.Fatalf("chunk %d wrongly forced", i)
		}
	}
}

func TestParagraphBreakSplits(t *testing.T) {
	sg := New(Options{MaxChars: 200, MinChars: 0})
	seg := sg.Segment("No terminator here\n\nNext paragraph.")
	if len(seg.Chunks) != 1 {
		// both paragraphs fit one budget; the break is preserved inside
		t.Fatalf("got %d chunks", len(seg.Chunks))
	}
	if seg.Join() != "No terminator here\n\nNext paragraph." {
		t.Fatalf("join mismatch")
	}

	sg = New(Options{MaxChars: 20, MinChars: 0})
	seg = sg.Segment("No terminator here\n\nNext paragraph.")
	if len(seg.Chunks) != 2 {
		t.Fatalf("paragraph break must split over budget, got %d", len(seg.Chunks))
	}
	if seg.Chunks[0].Sep != "\n\n" {
		t.Fatalf("separator lost: %q", seg.Chunks[0].Sep)
	}
}

func TestForcedSplit(t *testing.T) {
	sg := New(Options{MaxChars: 50, MinChars: 0})
	long := strings.Repeat("é", 120) // multibyte, no split points
	seg := sg.Segment(long)

	if len(seg.Chunks) != 3 {
		t.Fatalf("expected 3 forced chunks, got %d", len(seg.Chunks))
	}
	for i, c := range seg.Chunks {
		if !c.Forced {
			t.Fatalf("chunk %d must be forced", i)
		}
		if !utf8.ValidString(c.Body) {
			t.Fatalf("chunk %d cut inside a rune", i)
		}
	}
	if n := utf8.RuneCountInString(seg.Chunks[0].Body); n != 50 {
		t.Fatalf("first piece = %d runes, want 50", n)
	}
	if seg.Join() != long {
		t.Fatalf("forced split lost bytes")
	}
}

func TestTinyTailNeverExceedsBudget(t *testing.T) {
	// a near-budget sentence followed by a tiny tail: merging would
	// produce an oversized chunk, so the tail stays separate
	sg := New(Options{MaxChars: 60, MinChars: 20})
	in := strings.Repeat("a", 56) + ". End."
	seg := sg.Segment(in)

	if len(seg.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(seg.Chunks))
	}
	for _, c := range seg.Chunks {
		if n := utf8.RuneCountInString(c.Body); n > 60 {
			t.Fatalf("chunk %d has %d runes, exceeds MaxChars=60", c.Index, n)
		}
	}
	if seg.Join() != in {
		t.Fatalf("round trip lost bytes")
	}
}

func TestTinyTrailingChunkRebalances(t *testing.T) {
	// the predecessor holds two sentences; the second shifts back to
	// bring the tail up to MinChars while both chunks stay in budget
	sg := New(Options{MaxChars: 60, MinChars: 20})
	in := strings.Repeat("a", 29) + ". " + strings.Repeat("b", 24) + ". Tiny."
	seg := sg.Segment(in)

	if len(seg.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %+v", len(seg.Chunks), seg.Chunks)
	}
	if !strings.HasSuffix(seg.Chunks[1].Body, "Tiny.") || !strings.HasPrefix(seg.Chunks[1].Body, "b") {
		t.Fatalf("tail = %q, want donated sentence plus fragment", seg.Chunks[1].Body)
	}
	for _, c := range seg.Chunks {
		n := utf8.RuneCountInString(c.Body)
		if n > 60 {
			t.Fatalf("chunk %d has %d runes, exceeds MaxChars=60", c.Index, n)
		}
	}
	if n := utf8.RuneCountInString(seg.Chunks[1].Body); n < 20 {
		t.Fatalf("tail has %d runes, want at least MinChars=20", n)
	}
	if seg.Join() != in {
		t.Fatalf("round trip lost bytes")
	}
	for _, c := range seg.Chunks {
		if in[c.Start:c.End] != c.Body {
			t.Fatalf("offsets wrong for chunk %d", c.Index)
		}
	}
}

func TestStableResegmentation(t *testing.T) {
	sg := New(Options{MaxChars: 40, MinChars: 0})
	in := "One full sentence here. Another one follows. A third closes it."

	first := sg.Segment(in)
	second := sg.Segment(first.Join())

	if len(first.Chunks) != len(second.Chunks) {
		t.Fatalf("chunk count changed: %d vs %d", len(first.Chunks), len(second.Chunks))
	}
	for i := range first.Chunks {
		if first.Chunks[i].Body != second.Chunks[i].Body {
			t.Fatalf("chunk %d changed: %q vs %q", i, first.Chunks[i].Body, second.Chunks[i].Body)
		}
	}
}

func TestDefaults(t *testing.T) {
	sg := New(Options{})
	if sg.opts.MaxChars != DefaultMaxChars {
		t.Fatalf("max default = %d", sg.opts.MaxChars)
	}

	sg = New(Options{MaxChars: 10, MinChars: 50})
	if sg.opts.MinChars != 10 {
		t.Fatalf("min must clamp to max, got %d", sg.opts.MinChars)
	}
}
