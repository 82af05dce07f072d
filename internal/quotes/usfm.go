package quotes

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	noteRe      = regexp.MustCompile(`(?s)\\f\s.*?\\f\*|\\x\s.*?\\x\*`)
	wordRe      = regexp.MustCompile(`\\\+?w\s+([^|\\]*?)(?:\|[^\\]*)?\\\+?w\*`)
	milestoneRe = regexp.MustCompile(`\\[a-z0-9]+-[se][^\\]*\\\*`)
	markerRe    = regexp.MustCompile(`\\([a-z]+[0-9]*)\*?`)
)

// skipped holds markers whose content is never verse text.
var skipped = map[string]bool{
	"id": true, "ide": true, "usfm": true, "rem": true,
	"h": true, "toc1": true, "toc2": true, "toc3": true,
	"mt": true, "mt1": true, "mt2": true, "mt3": true,
	"ms": true, "ms1": true, "mr": true,
	"s": true, "s1": true, "s2": true, "s3": true, "s5": true, "r": true,
	"cl": true, "d": true, "sp": true,
}

// Text is the verse text of one book, keyed by chapter and verse as written.
type Text struct {
	verses map[string]map[string]string
}

// Verse returns the NFC-normalized text of chapter c, verse v.
func (t *Text) Verse(c, v string) (string, bool) {
	s, ok := t.verses[c][v]
	return s, ok
}

// ParseUSFM extracts verse text from a USFM document. Word attributes,
// alignment milestones, footnotes, cross references and headings are
// dropped. A verse range such as "1-2" is stored under the range and under
// each verse in it.
func ParseUSFM(src string) *Text {
	src = noteRe.ReplaceAllString(src, "")
	src = wordRe.ReplaceAllString(src, "$1")
	src = milestoneRe.ReplaceAllString(src, "")

	builders := make(map[string]map[string]*strings.Builder)
	var chapter, verse string
	write := func(s string) {
		if chapter == "" || verse == "" {
			return
		}
		b := builders[chapter][verse]
		b.WriteString(s)
		b.WriteByte(' ')
	}

	matches := markerRe.FindAllStringSubmatchIndex(src, -1)
	for i, m := range matches {
		marker := src[m[2]:m[3]]
		end := len(src)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		content := src[m[1]:end]

		switch {
		case marker == "c":
			fields := strings.Fields(content)
			if len(fields) == 0 {
				continue
			}
			chapter, verse = fields[0], ""
			if builders[chapter] == nil {
				builders[chapter] = make(map[string]*strings.Builder)
			}
		case marker == "v":
			fields := strings.Fields(content)
			if len(fields) == 0 || chapter == "" {
				continue
			}
			verse = fields[0]
			if builders[chapter][verse] == nil {
				builders[chapter][verse] = &strings.Builder{}
			}
			write(strings.Join(fields[1:], " "))
		case skipped[marker]:
		default:
			write(content)
		}
	}

	t := &Text{verses: make(map[string]map[string]string, len(builders))}
	for c, vs := range builders {
		t.verses[c] = make(map[string]string, len(vs))
		for v, b := range vs {
			text := norm.NFC.String(strings.Join(strings.Fields(b.String()), " "))
			t.verses[c][v] = text
			for _, single := range expandRange(v) {
				if _, exists := t.verses[c][single]; !exists {
					t.verses[c][single] = text
				}
			}
		}
	}
	return t
}

// expandRange returns the verses of a range like "3-5", or nil.
func expandRange(v string) []string {
	lo, hi, ok := strings.Cut(v, "-")
	if !ok {
		return nil
	}
	from, err1 := strconv.Atoi(lo)
	to, err2 := strconv.Atoi(hi)
	if err1 != nil || err2 != nil || from > to {
		return nil
	}
	out := make([]string, 0, to-from+1)
	for n := from; n <= to; n++ {
		out = append(out, strconv.Itoa(n))
	}
	return out
}
