package chunker

import (
	"fmt"
	"strings"

	"rag-agent/internal/models"
)

// Splitter cuts text into windows of at most maxChars characters where each
// window starts with the last overlapChars characters of its predecessor.
// Lengths are measured in runes, so cuts never land inside a multibyte
// character.
type Splitter struct {
	maxChars     int
	overlapChars int
}

// Piece is one window of the source text. Overlap is the number of leading
// runes shared with the previous piece; it is zero for the first piece.
type Piece struct {
	Text    string
	Overlap int
}

func New(maxChars, overlapChars int) (*Splitter, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", maxChars)
	}
	if overlapChars < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", overlapChars)
	}
	if overlapChars >= maxChars {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", overlapChars, maxChars)
	}
	return &Splitter{maxChars: maxChars, overlapChars: overlapChars}, nil
}

// Split walks the text left to right, ending each window at the best break
// found near the size limit: paragraph, then sentence, then word, then a
// hard cut. The next window begins overlapChars before the previous end.
func (s *Splitter) Split(text string) []Piece {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= s.maxChars {
		return []Piece{{Text: text}}
	}

	var pieces []Piece
	start, overlap := 0, 0
	for start < len(runes) {
		end := start + s.maxChars
		if end >= len(runes) {
			pieces = append(pieces, Piece{Text: string(runes[start:]), Overlap: overlap})
			break
		}
		cut := s.findBreak(runes, start, end)
		pieces = append(pieces, Piece{Text: string(runes[start:cut]), Overlap: overlap})

		// findBreak keeps cut beyond start+overlapChars, so this always
		// moves forward.
		overlap = s.overlapChars
		start = cut - s.overlapChars
	}
	return pieces
}

// findBreak returns the cut position in (start, end] for the window ending
// at end, preferring a paragraph break, then a sentence end, then a word
// boundary within the trailing part of the window. Cuts never land inside
// the overlap region, so consecutive cuts always move forward.
func (s *Splitter) findBreak(runes []rune, start, end int) int {
	low := end - s.maxChars/5
	if low < start+s.overlapChars {
		low = start + s.overlapChars
	}

	for i := end - 2; i >= low; i-- {
		if runes[i] == '\n' && runes[i+1] == '\n' {
			return i + 2
		}
	}
	for i := end - 1; i > low; i-- {
		c := runes[i-1]
		if (c == '.' || c == '!' || c == '?') && (runes[i] == ' ' || runes[i] == '\n') {
			return i + 1
		}
	}
	for i := end - 1; i > low; i-- {
		if runes[i] == ' ' || runes[i] == '\n' || runes[i] == '\t' {
			return i + 1
		}
	}
	return end
}

// ChunkPages splits every page and flattens the result into chunks carrying
// the source metadata. Chunk IDs number the chunks of a document from 1.
func (s *Splitter) ChunkPages(source string, pages []models.Page) []models.Chunk {
	var chunks []models.Chunk
	id := 0
	for _, page := range pages {
		for _, piece := range s.Split(page.Content) {
			id++
			chunks = append(chunks, models.Chunk{
				Content:        piece.Text,
				SourceFilename: source,
				PageNumber:     page.Number,
				ChunkID:        id,
			})
		}
	}
	return chunks
}

// Reassemble inverts Split: concatenating the pieces minus their recorded
// overlaps yields the original text.
func Reassemble(pieces []Piece) string {
	var b strings.Builder
	for i, p := range pieces {
		if i == 0 {
			b.WriteString(p.Text)
			continue
		}
		b.WriteString(string([]rune(p.Text)[p.Overlap:]))
	}
	return b.String()
}
