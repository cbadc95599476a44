package storage

import (
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"github.com/dpshade/promptdeck/internal/models"
)

const (
	stateKeySelected = "last_selected"
	stateKeyTags     = "last_tags"
	stateKeyQuery    = "last_query"
)

// StateStore persists the session state that survives restarts. Each field
// is one diskv key under <root>/state.
type StateStore struct {
	d *diskv.Diskv
}

// NewStateStore creates a state store rooted at dir
func NewStateStore(dir string) *StateStore {
	return &StateStore{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 64 * 1024,
	})}
}

// Load reads the persisted state. Missing keys yield zero values.
func (s *StateStore) Load() (models.SessionState, error) {
	var st models.SessionState

	selected, err := s.read(stateKeySelected)
	if err != nil {
		return st, err
	}
	tags, err := s.read(stateKeyTags)
	if err != nil {
		return st, err
	}
	query, err := s.read(stateKeyQuery)
	if err != nil {
		return st, err
	}

	st.LastSelected = selected
	st.LastQuery = query
	if tags != "" {
		st.LastTags = models.NormalizeTags(strings.Split(tags, "\n"))
	}
	return st, nil
}

// Save writes the state. Empty fields are erased rather than stored.
func (s *StateStore) Save(st models.SessionState) error {
	if err := s.write(stateKeySelected, st.LastSelected); err != nil {
		return err
	}
	if err := s.write(stateKeyTags, strings.Join(st.LastTags, "\n")); err != nil {
		return err
	}
	return s.write(stateKeyQuery, st.LastQuery)
}

func (s *StateStore) read(key string) (string, error) {
	if !s.d.Has(key) {
		return "", nil
	}
	val, err := s.d.Read(key)
	if err != nil {
		return "", err
	}
	return string(val), nil
}

func (s *StateStore) write(key, value string) error {
	if value == "" {
		if s.d.Has(key) {
			return s.d.Erase(key)
		}
		return nil
	}
	return s.d.Write(key, []byte(value))
}
