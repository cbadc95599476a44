// Package session implements the interactive session controller: the item
// store, the filter engine, overlays, the build wizard and the priority
// dispatch that routes each key event to exactly one of them.
package session

import (
	"strings"

	"github.com/dpshade/promptdeck/internal/models"
)

// ItemStore is the ordered list of prompt records with a selection cursor.
// The cursor is always a valid index while the store is non-empty.
type ItemStore struct {
	items  []*models.Prompt
	cursor int
}

// NewItemStore returns a store holding records
func NewItemStore(records []*models.Prompt) *ItemStore {
	s := &ItemStore{}
	s.Load(records)
	return s
}

// Load replaces the records and resets the cursor
func (s *ItemStore) Load(records []*models.Prompt) {
	s.items = records
	s.cursor = 0
}

// Reload replaces the records, keeping the selection on the record with the
// same name when it is still present.
func (s *ItemStore) Reload(records []*models.Prompt) {
	var name string
	if p := s.Selected(); p != nil {
		name = p.Name
	}
	s.Load(records)
	if name != "" {
		s.SelectByName(name)
	}
}

func (s *ItemStore) Next() {
	if len(s.items) == 0 {
		return
	}
	s.cursor = (s.cursor + 1) % len(s.items)
}

func (s *ItemStore) Previous() {
	if len(s.items) == 0 {
		return
	}
	s.cursor = (s.cursor - 1 + len(s.items)) % len(s.items)
}

// Selected returns the record under the cursor, nil when the store is empty
func (s *ItemStore) Selected() *models.Prompt {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[s.cursor]
}

// SelectByName moves the cursor to the first record whose name matches,
// ignoring case.
func (s *ItemStore) SelectByName(name string) bool {
	for i, p := range s.items {
		if strings.EqualFold(p.Name, name) {
			s.cursor = i
			return true
		}
	}
	return false
}

// SelectKey moves the cursor to the record stored under key
func (s *ItemStore) SelectKey(key string) bool {
	for i, p := range s.items {
		if p.Key == key {
			s.cursor = i
			return true
		}
	}
	return false
}

// ByKey returns the record stored under key
func (s *ItemStore) ByKey(key string) *models.Prompt {
	for _, p := range s.items {
		if p.Key == key {
			return p
		}
	}
	return nil
}

func (s *ItemStore) Items() []*models.Prompt { return s.items }
func (s *ItemStore) Len() int                { return len(s.items) }
func (s *ItemStore) Cursor() int             { return s.cursor }
