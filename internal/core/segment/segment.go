// Package segment splits documents into detection-sized chunks.
// Splitting prefers paragraph breaks, then sentence ends, and only
// hard-cuts inside a sentence when a single run exceeds the budget.
// The lead plus every chunk body and trailing separator concatenate
// back to the input byte-for-byte
package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Options controls chunk sizing, both measured in runes
type Options struct {
	// MaxChars is the chunk body budget; longer runs are split
	MaxChars int
	// MinChars folds a trailing undersized chunk into its predecessor
	MinChars int
}

// DefaultMaxChars and DefaultMinChars are the service defaults
const (
	DefaultMaxChars = 2000
	DefaultMinChars = 120
)

// Chunk is one contiguous piece of the original document
type Chunk struct {
	// Index is the chunk position within the document, from 0
	Index int

	// Start and End are byte offsets of Body in the original text
	Start int
	End   int

	// Body is the chunk text sent to detection and rewrite
	Body string

	// Sep is the separator that followed Body in the original text
	Sep string

	// Forced marks a hard cut inside an unsplittable run
	Forced bool
}

// Segmentation is an ordered partition of a document
type Segmentation struct {
	// Lead is whitespace preceding the first chunk, possibly empty
	Lead string

	Chunks []Chunk
}

// Join reassembles the original document (or its rewritten form when
// chunk bodies were replaced; separators are always preserved)
func (s Segmentation) Join() string {
	var b strings.Builder
	b.WriteString(s.Lead)
	for _, c := range s.Chunks {
		b.WriteString(c.Body)
		b.WriteString(c.Sep)
	}
	return b.String()
}

// Segmenter splits text into chunks
type Segmenter struct {
	opts Options
}

// New constructs a Segmenter, applying defaults for zero options
func New(opts Options) *Segmenter {
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}
	if opts.MinChars < 0 {
		opts.MinChars = 0
	}
	if opts.MinChars > opts.MaxChars {
		opts.MinChars = opts.MaxChars
	}
	return &Segmenter{opts: opts}
}

// unit is a sentence (or paragraph tail) plus its trailing separator
type unit struct {
	start int // byte offset of body
	body  string
	sep   string
}

// Segment partitions text. Whitespace-only input yields Lead only
func (sg *Segmenter) Segment(text string) Segmentation {
	var out Segmentation
	if text == "" {
		return out
	}

	// peel leading whitespace into Lead
	lead := 0
	for lead < len(text) {
		r, sz := utf8.DecodeRuneInString(text[lead:])
		if !unicode.IsSpace(r) {
			break
		}
		lead += sz
	}
	out.Lead = text[:lead]
	rest := text[lead:]
	if rest == "" {
		return out
	}

	units := splitUnits(rest, lead)
	out.Chunks = sg.pack(units)
	return out
}

// splitUnits cuts text into sentence units. base is the byte offset of
// text within the original document
func splitUnits(text string, base int) []unit {
	var units []unit
	bodyStart := 0
	i := 0
	for i < len(text) {
		r, sz := utf8.DecodeRuneInString(text[i:])

		if unicode.IsSpace(r) {
			// measure the whitespace run
			wsStart := i
			newlines := 0
			for i < len(text) {
				wr, wsz := utf8.DecodeRuneInString(text[i:])
				if !unicode.IsSpace(wr) {
					break
				}
				if wr == '\n' {
					newlines++
				}
				i += wsz
			}

			endsSentence := sentenceEnd(text[:wsStart])
			if newlines >= 2 || endsSentence || i >= len(text) {
				units = append(units, unit{
					start: base + bodyStart,
					body:  text[bodyStart:wsStart],
					sep:   text[wsStart:i],
				})
				bodyStart = i
			}
			// mid-sentence whitespace stays inside the body
			continue
		}
		i += sz
	}

	if bodyStart < len(text) {
		units = append(units, unit{
			start: base + bodyStart,
			body:  text[bodyStart:],
		})
	}
	return units
}

// sentenceEnd reports whether s ends a sentence, ignoring closing
// quotes and brackets after the terminator
func sentenceEnd(s string) bool {
	for len(s) > 0 {
		r, sz := utf8.DecodeLastRuneInString(s)
		switch r {
		case '"', '\'', ')', ']', '”', '’':
			s = s[:len(s)-sz]
			continue
		case '.', '!', '?', '…':
			return true
		default:
			return false
		}
	}
	return false
}

// group is a run of units destined for one chunk
type group struct {
	units  []unit
	forced bool
}

// pack greedily fills chunks up to MaxChars, hard-cutting oversized
// units. An undersized trailing chunk folds into its predecessor only
// when the merge stays within MaxChars; otherwise the predecessor
// donates trailing units until the tail reaches MinChars
func (sg *Segmenter) pack(units []unit) []Chunk {
	var groups []group

	var cur []unit
	curRunes := 0

	flush := func() {
		if len(cur) > 0 {
			groups = append(groups, group{units: cur})
			cur = nil
			curRunes = 0
		}
	}

	for _, u := range units {
		n := utf8.RuneCountInString(u.body)

		if n > sg.opts.MaxChars {
			// oversized unit: flush whatever is pending, then hard-cut
			flush()
			for _, piece := range hardCut(u, sg.opts.MaxChars) {
				groups = append(groups, group{units: []unit{piece}, forced: true})
			}
			continue
		}

		if len(cur) == 0 {
			cur = []unit{u}
			curRunes = n
			continue
		}

		// joining includes the separator between the two bodies
		joined := curRunes + utf8.RuneCountInString(cur[len(cur)-1].sep) + n
		if joined > sg.opts.MaxChars {
			flush()
			cur = []unit{u}
			curRunes = n
			continue
		}
		cur = append(cur, u)
		curRunes = joined
	}
	flush()

	sg.foldTail(&groups)

	chunks := make([]Chunk, 0, len(groups))
	for _, g := range groups {
		chunks = append(chunks, materialize(len(chunks), g.units, g.forced))
	}
	return chunks
}

// foldTail grows an undersized trailing group toward MinChars without
// ever producing a chunk over MaxChars
func (sg *Segmenter) foldTail(groups *[]group) {
	n := len(*groups)
	if n < 2 || sg.opts.MinChars <= 0 {
		return
	}
	last := &(*groups)[n-1]
	prev := &(*groups)[n-2]
	if last.forced || prev.forced || groupRunes(last.units) >= sg.opts.MinChars {
		return
	}

	sep := utf8.RuneCountInString(prev.units[len(prev.units)-1].sep)
	if groupRunes(prev.units)+sep+groupRunes(last.units) <= sg.opts.MaxChars {
		prev.units = append(prev.units, last.units...)
		*groups = (*groups)[:n-1]
		return
	}

	// shift whole units off the predecessor's tail
	for len(prev.units) > 1 && groupRunes(last.units) < sg.opts.MinChars {
		d := prev.units[len(prev.units)-1]
		grown := utf8.RuneCountInString(d.body) +
			utf8.RuneCountInString(d.sep) +
			groupRunes(last.units)
		if grown > sg.opts.MaxChars {
			break
		}
		prev.units = prev.units[:len(prev.units)-1]
		last.units = append([]unit{d}, last.units...)
	}
}

// groupRunes counts unit bodies plus the separators between them
func groupRunes(us []unit) int {
	n := 0
	for i, u := range us {
		n += utf8.RuneCountInString(u.body)
		if i < len(us)-1 {
			n += utf8.RuneCountInString(u.sep)
		}
	}
	return n
}

// materialize joins a group's units into one chunk; the final unit's
// separator becomes the chunk separator
func materialize(idx int, us []unit, forced bool) Chunk {
	var b strings.Builder
	for i, u := range us {
		b.WriteString(u.body)
		if i < len(us)-1 {
			b.WriteString(u.sep)
		}
	}
	body := b.String()
	return Chunk{
		Index:  idx,
		Start:  us[0].start,
		End:    us[0].start + len(body),
		Body:   body,
		Sep:    us[len(us)-1].sep,
		Forced: forced,
	}
}

// hardCut slices an oversized unit at rune boundaries into maxChars pieces.
// Only the final piece carries the unit separator
func hardCut(u unit, maxChars int) []unit {
	var out []unit
	body := u.body
	off := u.start
	for utf8.RuneCountInString(body) > maxChars {
		cut := 0
		for i := 0; i < maxChars; i++ {
			_, sz := utf8.DecodeRuneInString(body[cut:])
			cut += sz
		}
		out = append(out, unit{start: off, body: body[:cut]})
		off += cut
		body = body[cut:]
	}
	out = append(out, unit{start: off, body: body, sep: u.sep})
	return out
}
