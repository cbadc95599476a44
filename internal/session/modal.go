package session

import (
	"github.com/sahilm/fuzzy"

	"github.com/dpshade/promptdeck/internal/models"
)

// OverlayKind identifies the active overlay
type OverlayKind int

const (
	OverlayNone OverlayKind = iota
	OverlayInit
	OverlayTypePrompts
	OverlayConfirm
	OverlayTagFilter
	OverlayTagEditor
	OverlayCreate
)

func (k OverlayKind) String() string {
	switch k {
	case OverlayInit:
		return "init"
	case OverlayTypePrompts:
		return "type-prompts"
	case OverlayConfirm:
		return "confirm"
	case OverlayTagFilter:
		return "tag-filter"
	case OverlayTagEditor:
		return "tag-editor"
	case OverlayCreate:
		return "create"
	default:
		return "none"
	}
}

// Overlay is a modal dialog that owns all input while it is open. At most
// one overlay is open at a time.
type Overlay interface {
	Kind() OverlayKind
}

// InitOverlay offers to create an example library when none exists
type InitOverlay struct{}

// TypePromptsOverlay offers to scaffold one prompt per composable role when
// build mode has nothing to offer.
type TypePromptsOverlay struct{}

// ConfirmAction is what a confirmation overlay guards
type ConfirmAction int

const (
	ConfirmDelete ConfirmAction = iota
	ConfirmOverwrite
)

// ConfirmOverlay asks a yes/no question before a destructive action
type ConfirmOverlay struct {
	Action  ConfirmAction
	Key     string
	Message string

	// pending is the write replayed when an overwrite is confirmed
	pending []Effect
}

// TagFilterOverlay picks the tags the list is narrowed to
type TagFilterOverlay struct {
	Search   TextBuffer
	Cursor   int
	Selected []string

	all []string
}

// Visible returns the tags matching the search text, best match first
func (o *TagFilterOverlay) Visible() []string {
	query := o.Search.String()
	if query == "" {
		return o.all
	}
	matches := fuzzy.Find(query, o.all)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}

// Highlighted returns the tag under the cursor
func (o *TagFilterOverlay) Highlighted() (string, bool) {
	visible := o.Visible()
	if len(visible) == 0 {
		return "", false
	}
	return visible[clamp(o.Cursor, len(visible))], true
}

// IsSelected reports whether tag is part of the pending filter
func (o *TagFilterOverlay) IsSelected(tag string) bool {
	for _, t := range o.Selected {
		if t == tag {
			return true
		}
	}
	return false
}

func (o *TagFilterOverlay) toggle(tag string) {
	if o.IsSelected(tag) {
		o.Selected = models.WithoutTag(o.Selected, tag)
	} else {
		o.Selected = models.WithTag(o.Selected, tag)
	}
}

// TagEditorMode is the sub-state of the tag editor
type TagEditorMode int

const (
	TagView TagEditorMode = iota
	TagAdd
	TagRemove
)

// TagEditorOverlay edits the tags of one record
type TagEditorOverlay struct {
	Mode   TagEditorMode
	Input  TextBuffer
	Cursor int
	Key    string
	Name   string
	Tags   []string
}

// CreateField is the focused field of the create dialog
type CreateField int

const (
	FieldFilename CreateField = iota
	FieldType
	FieldTemplate
)

var createFields = []CreateField{FieldFilename, FieldType, FieldTemplate}

func (f CreateField) Next() CreateField {
	return createFields[(int(f)+1)%len(createFields)]
}

func (f CreateField) Prev() CreateField {
	return createFields[(int(f)-1+len(createFields))%len(createFields)]
}

// CreateOverlay collects the filename, role and template of a new prompt
type CreateOverlay struct {
	Filename TextBuffer
	Field    CreateField
	Role     models.Role
	Template int
}

func (InitOverlay) Kind() OverlayKind        { return OverlayInit }
func (TypePromptsOverlay) Kind() OverlayKind { return OverlayTypePrompts }
func (*ConfirmOverlay) Kind() OverlayKind    { return OverlayConfirm }
func (*TagFilterOverlay) Kind() OverlayKind  { return OverlayTagFilter }
func (*TagEditorOverlay) Kind() OverlayKind  { return OverlayTagEditor }
func (*CreateOverlay) Kind() OverlayKind     { return OverlayCreate }

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// wrap moves i by delta inside [0, n) with wrap-around
func wrap(i, delta, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i+delta)%n + n) % n
}
