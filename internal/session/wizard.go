package session

import (
	stderrors "errors"
	"sort"
	"strings"

	"github.com/dpshade/promptdeck/internal/models"
)

// ErrNoPromptsSelected is returned when the wizard finishes without a
// single chosen prompt.
var ErrNoPromptsSelected = stderrors.New("no prompts selected")

// WizardStep is a stage of the build wizard
type WizardStep int

const (
	StepSelectInstruction WizardStep = iota
	StepSelectContext
	StepSelectInputIndicator
	StepSelectOutputIndicator
	StepSelectEtc
	StepAddComment
	StepComplete
)

var stepRoles = map[WizardStep]models.Role{
	StepSelectInstruction:     models.RoleInstruction,
	StepSelectContext:         models.RoleContext,
	StepSelectInputIndicator:  models.RoleInputIndicator,
	StepSelectOutputIndicator: models.RoleOutputIndicator,
	StepSelectEtc:             models.RoleEtc,
}

// Role returns the role picked in a select step
func (s WizardStep) Role() (models.Role, bool) {
	r, ok := stepRoles[s]
	return r, ok
}

func (s WizardStep) String() string {
	if r, ok := s.Role(); ok {
		return "Select " + strings.ToLower(r.Label())
	}
	switch s {
	case StepAddComment:
		return "Add comment"
	case StepComplete:
		return "Complete"
	}
	return "Unknown"
}

// BuildWizard walks through one pick per composable role, then an optional
// comment. Steps only move forward.
type BuildWizard struct {
	step       WizardStep
	items      []*models.Prompt
	choices    map[models.Role]string
	comment    TextBuffer
	listCursor int
}

// NewBuildWizard starts a wizard over items
func NewBuildWizard(items []*models.Prompt) *BuildWizard {
	return &BuildWizard{
		step:    StepSelectInstruction,
		items:   items,
		choices: make(map[models.Role]string),
	}
}

// HasCandidates reports whether any record can be composed
func HasCandidates(items []*models.Prompt) bool {
	for _, p := range items {
		if p.Role.Composable() {
			return true
		}
	}
	return false
}

func (w *BuildWizard) Step() WizardStep { return w.step }

// InSelectStep reports whether the wizard is picking a role
func (w *BuildWizard) InSelectStep() bool {
	_, ok := w.step.Role()
	return ok
}

// Candidates returns the records offered by the current select step,
// starred first. The list shown to the user has an extra "None" entry at
// index 0.
func (w *BuildWizard) Candidates() []*models.Prompt {
	role, ok := w.step.Role()
	if !ok {
		return nil
	}
	var out []*models.Prompt
	for _, p := range w.items {
		if p.Role == role {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Starred() && !out[j].Starred()
	})
	return out
}

// ListCursor is the highlighted entry; 0 is "None"
func (w *BuildWizard) ListCursor() int { return w.listCursor }

// MoveCursor moves the highlight with wrap-around
func (w *BuildWizard) MoveCursor(delta int) {
	if !w.InSelectStep() {
		return
	}
	w.listCursor = wrap(w.listCursor, delta, len(w.Candidates())+1)
}

// Choose records the highlighted entry for the current role and advances
func (w *BuildWizard) Choose() {
	role, ok := w.step.Role()
	if !ok {
		return
	}
	candidates := w.Candidates()
	if w.listCursor > 0 && w.listCursor <= len(candidates) {
		w.choices[role] = candidates[w.listCursor-1].Key
	} else {
		w.choices[role] = ""
	}
	w.step++
	w.listCursor = 0
}

// Choice returns the key chosen for role; ok is false when the role has not
// been reached or "None" was picked.
func (w *BuildWizard) Choice(role models.Role) (string, bool) {
	key := w.choices[role]
	return key, key != ""
}

// Comment returns the comment buffer
func (w *BuildWizard) Comment() *TextBuffer { return &w.comment }

// FinishComment moves from the comment step to Complete
func (w *BuildWizard) FinishComment() {
	if w.step == StepAddComment {
		w.step = StepComplete
	}
}

// Compose joins the chosen records in role order, followed by the comment.
// read loads a record's content by key.
func (w *BuildWizard) Compose(read func(key string) (string, error)) (string, error) {
	var sections []string
	for _, role := range models.ComposeRoles() {
		key, ok := w.Choice(role)
		if !ok {
			continue
		}
		content, err := read(key)
		if err != nil {
			return "", err
		}
		sections = append(sections, content)
	}
	if len(sections) == 0 {
		return "", ErrNoPromptsSelected
	}
	if comment := strings.TrimSpace(w.comment.String()); comment != "" {
		sections = append(sections, comment)
	}
	return strings.Join(sections, "\n\n"), nil
}
