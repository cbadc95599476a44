package models

import (
	"strings"
	"time"
)

// StarredTag is the reserved tag that floats a prompt to the top of every view
const StarredTag = "starred"

// Prompt represents a prompt record read from a markdown file with a YAML header.
// The body is not kept on the record; it is read on demand by key.
type Prompt struct {
	// Frontmatter fields
	Name        string    `yaml:"title"`
	Description string    `yaml:"description,omitempty"`
	Tags        []string  `yaml:"tags,omitempty"`
	Role        Role      `yaml:"type,omitempty"`
	CreatedAt   time.Time `yaml:"created_at,omitempty"`
	UpdatedAt   time.Time `yaml:"updated_at,omitempty"`

	// Key is the path of the backing file relative to the library root
	Key string `yaml:"-"`
}

// HasTag reports whether the prompt carries tag
func (p *Prompt) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Starred reports whether the prompt carries the reserved starred tag
func (p *Prompt) Starred() bool {
	return p.HasTag(StarredTag)
}

// DisplayName returns a single-line name safe to draw in a list
func (p *Prompt) DisplayName() string {
	if name := cleanString(p.Name); name != "" {
		return name
	}
	return cleanString(p.Key)
}

// NormalizeTags trims tags, drops empties and duplicates, and keeps the
// first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// WithTag returns a copy of tags with tag appended if missing
func WithTag(tags []string, tag string) []string {
	out := append([]string(nil), tags...)
	for _, t := range out {
		if t == tag {
			return out
		}
	}
	return append(out, tag)
}

// WithoutTag returns a copy of tags with every occurrence of tag removed
func WithoutTag(tags []string, tag string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}

// cleanString removes problematic characters that might cause rendering issues
func cleanString(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(' ')
		} else if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
