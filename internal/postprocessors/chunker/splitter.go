package chunker

import (
	"strings"
	"unicode/utf8"
)

// Split breaks text into trimmed chunks of at most chunkSize characters
// where the separators allow it.
//
// The first separator present in text is used. Pieces shorter than the
// chunk size are merged back together with overlap; longer pieces are
// split again with the remaining, finer separators. Separators stay
// attached to the start of the piece that follows them.
func (p *Processor) Split(text string, separators []string) []string {
	if len(separators) == 0 {
		separators = []string{""}
	}
	return p.splitRecursive(text, separators)
}

func (p *Processor) splitRecursive(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var finer []string
	for i, s := range separators {
		if s == "" {
			separator = s
			break
		}
		if strings.Contains(text, s) {
			separator = s
			finer = separators[i+1:]
			break
		}
	}

	var (
		final []string
		good  []string
	)
	for _, piece := range splitKeepingSeparator(text, separator) {
		if runeLen(piece) < p.chunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, p.merge(good)...)
			good = nil
		}
		if len(finer) == 0 {
			if trimmed := strings.TrimSpace(piece); trimmed != "" {
				final = append(final, trimmed)
			}
			continue
		}
		final = append(final, p.splitRecursive(piece, finer)...)
	}
	if len(good) > 0 {
		final = append(final, p.merge(good)...)
	}
	return final
}

// merge packs consecutive pieces into chunks no longer than chunkSize.
// When a chunk is emitted, pieces are dropped from its front until at most
// overlap characters remain; those carry over into the next chunk.
func (p *Processor) merge(pieces []string) []string {
	var (
		chunks  []string
		current []string
		total   int
	)
	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n > p.chunkSize && len(current) > 0 {
			if chunk := joinTrimmed(current); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > p.overlap || (total+n > p.chunkSize && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}
	if chunk := joinTrimmed(current); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// splitKeepingSeparator splits text on sep, prefixing every piece but the
// first with the separator. An empty sep splits into characters.
// Empty pieces are dropped.
func splitKeepingSeparator(text, sep string) []string {
	var pieces []string
	if sep == "" {
		pieces = make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, sep)
	pieces = make([]string, 0, len(parts))
	if parts[0] != "" {
		pieces = append(pieces, parts[0])
	}
	for _, part := range parts[1:] {
		pieces = append(pieces, sep+part)
	}
	return pieces
}

func joinTrimmed(pieces []string) string {
	return strings.TrimSpace(strings.Join(pieces, ""))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
