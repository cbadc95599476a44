package models

import "sort"

// SessionState is the slice of session state that survives restarts
type SessionState struct {
	LastSelected string
	LastTags     []string
	LastQuery    string
}

// Equal reports whether two states would persist identically. Tag order
// is not significant.
func (s SessionState) Equal(other SessionState) bool {
	if s.LastSelected != other.LastSelected || s.LastQuery != other.LastQuery {
		return false
	}
	if len(s.LastTags) != len(other.LastTags) {
		return false
	}
	a := append([]string(nil), s.LastTags...)
	b := append([]string(nil), other.LastTags...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
