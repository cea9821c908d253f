package ingest

import (
	"strings"
	"unicode/utf8"
)

// defaultSeparators orders split points from strongest to weakest. The
// final empty separator means "between any two characters" and guarantees
// progress on text with no other break points.
var defaultSeparators = []string{"\n\n", "\n", ".", "!", "?", ",", " ", ""}

// Splitter cuts documents into overlapping chunks small enough to embed,
// preferring paragraph and sentence boundaries over hard cuts. Sizes are
// in runes.
type Splitter struct {
	chunkSize int
	overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 5
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}
}

func (s *Splitter) Split(text string) []string {
	return s.split(text, defaultSeparators)
}

// split cuts text on the strongest separator it contains, recursing with
// the weaker separators into any fragment still larger than a chunk.
func (s *Splitter) split(text string, separators []string) []string {
	sep := separators[len(separators)-1]
	var weaker []string
	for i, cand := range separators {
		if cand == "" {
			sep = ""
			weaker = nil
			break
		}
		if strings.Contains(text, cand) {
			sep = cand
			weaker = separators[i+1:]
			break
		}
	}

	var chunks []string
	var small []string
	flush := func() {
		if len(small) > 0 {
			chunks = append(chunks, s.merge(small)...)
			small = nil
		}
	}
	for _, piece := range splitKeep(text, sep) {
		if utf8.RuneCountInString(piece) < s.chunkSize {
			small = append(small, piece)
			continue
		}
		flush()
		if len(weaker) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, s.split(piece, weaker)...)
		}
	}
	flush()
	return chunks
}

// splitKeep splits on sep, keeping the separator attached to the front of
// the fragment that follows it so joining fragments reconstructs the
// text. An empty separator splits between runes.
func splitKeep(text, sep string) []string {
	var parts []string
	if sep == "" {
		for _, r := range text {
			parts = append(parts, string(r))
		}
	} else {
		raw := strings.Split(text, sep)
		parts = append(parts, raw[0])
		for _, p := range raw[1:] {
			parts = append(parts, sep+p)
		}
	}
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return kept
}

// merge packs adjacent fragments into chunks of at most chunkSize runes.
// When a chunk fills up, trailing fragments totalling at most overlap
// runes carry over into the next chunk.
func (s *Splitter) merge(fragments []string) []string {
	var chunks []string
	var window []string
	total := 0
	for _, piece := range fragments {
		n := utf8.RuneCountInString(piece)
		if total+n > s.chunkSize && len(window) > 0 {
			if chunk := strings.TrimSpace(strings.Join(window, "")); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > s.overlap || (total+n > s.chunkSize && total > 0) {
				total -= utf8.RuneCountInString(window[0])
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += n
	}
	if chunk := strings.TrimSpace(strings.Join(window, "")); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}
