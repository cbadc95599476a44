package session

import (
	"strings"

	"github.com/rivo/uniseg"
)

// TextBuffer is a single-line editable string. The cursor and every edit
// work on grapheme clusters, so multi-byte characters are never split.
type TextBuffer struct {
	clusters []string
	cursor   int
}

// NewTextBuffer returns a buffer holding s with the cursor at the end
func NewTextBuffer(s string) TextBuffer {
	var b TextBuffer
	b.Set(s)
	return b
}

func graphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Insert inserts s at the cursor and moves the cursor past it
func (b *TextBuffer) Insert(s string) {
	add := graphemes(s)
	if len(add) == 0 {
		return
	}
	rest := append([]string(nil), b.clusters[b.cursor:]...)
	b.clusters = append(append(b.clusters[:b.cursor], add...), rest...)
	b.cursor += len(add)
}

// Backspace removes the character before the cursor
func (b *TextBuffer) Backspace() bool {
	if b.cursor == 0 {
		return false
	}
	b.clusters = append(b.clusters[:b.cursor-1], b.clusters[b.cursor:]...)
	b.cursor--
	return true
}

// Delete removes the character under the cursor
func (b *TextBuffer) Delete() bool {
	if b.cursor >= len(b.clusters) {
		return false
	}
	b.clusters = append(b.clusters[:b.cursor], b.clusters[b.cursor+1:]...)
	return true
}

func (b *TextBuffer) Left() {
	if b.cursor > 0 {
		b.cursor--
	}
}

func (b *TextBuffer) Right() {
	if b.cursor < len(b.clusters) {
		b.cursor++
	}
}

func (b *TextBuffer) Home() { b.cursor = 0 }
func (b *TextBuffer) End()  { b.cursor = len(b.clusters) }

// Clear empties the buffer
func (b *TextBuffer) Clear() {
	b.clusters = nil
	b.cursor = 0
}

// Set replaces the contents and moves the cursor to the end
func (b *TextBuffer) Set(s string) {
	b.clusters = graphemes(s)
	b.cursor = len(b.clusters)
}

func (b TextBuffer) String() string { return strings.Join(b.clusters, "") }

// Len returns the number of characters
func (b TextBuffer) Len() int { return len(b.clusters) }

// Cursor returns the cursor position in characters
func (b TextBuffer) Cursor() int { return b.cursor }

// Split returns the text before and after the cursor
func (b TextBuffer) Split() (string, string) {
	return strings.Join(b.clusters[:b.cursor], ""), strings.Join(b.clusters[b.cursor:], "")
}
