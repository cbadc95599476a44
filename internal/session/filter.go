package session

import (
	"sort"
	"strings"

	"github.com/dpshade/promptdeck/internal/models"
)

// Filter is the active narrowing of the item list. The zero value keeps
// every record.
type Filter struct {
	Query string
	Tags  []string
}

// Empty reports whether f keeps every record
func (f Filter) Empty() bool {
	return strings.TrimSpace(f.Query) == "" && len(f.Tags) == 0
}

// ComputeView returns the records matching f: a case-insensitive substring
// match on the name and, when tags are requested, at least one of them.
// Starred matches come first; otherwise the input order is kept. An empty
// filter is the identity and returns items in their original order.
func ComputeView(items []*models.Prompt, f Filter) []*models.Prompt {
	if f.Empty() {
		return append([]*models.Prompt(nil), items...)
	}

	// Spaces only count once the query has other characters
	query := ""
	if strings.TrimSpace(f.Query) != "" {
		query = strings.ToLower(f.Query)
	}

	view := make([]*models.Prompt, 0, len(items))
	for _, p := range items {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		if len(f.Tags) > 0 && !hasAnyTag(p, f.Tags) {
			continue
		}
		view = append(view, p)
	}

	sort.SliceStable(view, func(i, j int) bool {
		return view[i].Starred() && !view[j].Starred()
	})
	return view
}

func hasAnyTag(p *models.Prompt, tags []string) bool {
	for _, t := range tags {
		if p.HasTag(t) {
			return true
		}
	}
	return false
}

// AllTags returns every distinct tag in items, sorted
func AllTags(items []*models.Prompt) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, p := range items {
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags
}
