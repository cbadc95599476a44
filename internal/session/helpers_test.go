package session

import (
	"fmt"
	"io/fs"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dpshade/promptdeck/internal/logging"
	"github.com/dpshade/promptdeck/internal/models"
)

// fakeLibrary is an in-memory prompt library implementing Store and Library
type fakeLibrary struct {
	prompts []*models.Prompt
	content map[string]string

	listErr  error
	writeErr error
	inits    int
	scaffold int
}

func newFakeLibrary(records ...*models.Prompt) *fakeLibrary {
	f := &fakeLibrary{content: make(map[string]string)}
	for _, p := range records {
		f.prompts = append(f.prompts, p)
		f.content[p.Key] = "content of " + p.Name
	}
	return f
}

func rec(name string, role models.Role, tags ...string) *models.Prompt {
	return &models.Prompt{Name: name, Key: "prompts/" + name + ".md", Role: role, Tags: tags}
}

func (f *fakeLibrary) ListAll() ([]*models.Prompt, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Prompt, len(f.prompts))
	for i, p := range f.prompts {
		cp := *p
		cp.Tags = append([]string(nil), p.Tags...)
		out[i] = &cp
	}
	return out, nil
}

func (f *fakeLibrary) ReadContent(key string) (string, error) {
	body, ok := f.content[key]
	if !ok {
		return "", fmt.Errorf("read %s: %w", key, fs.ErrNotExist)
	}
	return body, nil
}

func (f *fakeLibrary) Exists(name string) bool {
	_, ok := f.content[f.KeyFor(name)]
	return ok
}

func (f *fakeLibrary) KeyFor(name string) string {
	return "prompts/" + strings.TrimSpace(name) + ".md"
}

func (f *fakeLibrary) Write(p *models.Prompt, content string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.content[p.Key] = content
	for i, existing := range f.prompts {
		if existing.Key == p.Key {
			f.prompts[i] = p
			return nil
		}
	}
	f.prompts = append(f.prompts, p)
	return nil
}

func (f *fakeLibrary) UpdateTags(key string, tags []string) error {
	for _, p := range f.prompts {
		if p.Key == key {
			p.Tags = tags
			return nil
		}
	}
	return fmt.Errorf("update %s: %w", key, fs.ErrNotExist)
}

func (f *fakeLibrary) Delete(key string) error {
	for i, p := range f.prompts {
		if p.Key == key {
			f.prompts = append(f.prompts[:i], f.prompts[i+1:]...)
			delete(f.content, key)
			return nil
		}
	}
	return fmt.Errorf("delete %s: %w", key, fs.ErrNotExist)
}

func (f *fakeLibrary) InitLibrary() error {
	f.inits++
	return f.Write(rec("example", models.RoleWhole), "example")
}

func (f *fakeLibrary) ScaffoldRoles() error {
	f.scaffold++
	for _, r := range models.ComposeRoles() {
		if err := f.Write(rec("starter-"+r.String(), r), r.Label()); err != nil {
			return err
		}
	}
	return nil
}

type fakeClipboard struct {
	copied []string
	err    error
}

func (c *fakeClipboard) Copy(text string) error {
	if c.err != nil {
		return c.err
	}
	c.copied = append(c.copied, text)
	return nil
}

type fakeStateSaver struct {
	saved []models.SessionState
}

func (s *fakeStateSaver) Save(st models.SessionState) error {
	s.saved = append(s.saved, st)
	return nil
}

func newTestController(lib *fakeLibrary, mode Mode) *Controller {
	c, err := NewController(Options{Store: lib, Mode: mode, Logger: logging.Discard()})
	if err != nil {
		panic(err)
	}
	return c
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter     = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc       = tea.KeyMsg{Type: tea.KeyEsc}
	keyCtrlC     = tea.KeyMsg{Type: tea.KeyCtrlC}
	keyUp        = tea.KeyMsg{Type: tea.KeyUp}
	keyDown      = tea.KeyMsg{Type: tea.KeyDown}
	keyLeft      = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight     = tea.KeyMsg{Type: tea.KeyRight}
	keyTab       = tea.KeyMsg{Type: tea.KeyTab}
	keySpace     = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyBackspace = tea.KeyMsg{Type: tea.KeyBackspace}
)

// typeText sends each character of s as its own key event
func typeText(c *Controller, s string) []Effect {
	var effects []Effect
	for _, r := range s {
		effects = append(effects, c.HandleEvent(runes(string(r)))...)
	}
	return effects
}

func names(prompts []*models.Prompt) []string {
	out := make([]string, len(prompts))
	for i, p := range prompts {
		out[i] = p.Name
	}
	return out
}

func effectsOf[T Effect](effects []Effect) []T {
	var out []T
	for _, e := range effects {
		if t, ok := e.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
