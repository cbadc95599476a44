package session

import (
	stderrors "errors"
	"io/fs"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/dpshade/promptdeck/internal/errors"
	"github.com/dpshade/promptdeck/internal/models"
)

// Mode selects which normal-mode commands are available
type Mode int

const (
	QuickSelect Mode = iota
	Management
)

func (m Mode) String() string {
	if m == Management {
		return "Management"
	}
	return "Quick select"
}

// ErrBuildModeActive is returned when an overlay is requested while the
// build wizard owns input.
var ErrBuildModeActive = stderrors.New("build mode is active")

// Store is the read side of the prompt library the controller consults
// while handling events. Mutations go through effects.
type Store interface {
	ListAll() ([]*models.Prompt, error)
	ReadContent(key string) (string, error)
	Exists(name string) bool
	KeyFor(name string) string
}

// BannerKind distinguishes error and success banners
type BannerKind int

const (
	BannerError BannerKind = iota
	BannerSuccess
)

// Banner is a transient message shown until the next key event
type Banner struct {
	Kind BannerKind
	Text string
}

// Options configures a Controller
type Options struct {
	Store     Store
	Mode      Mode
	Templates []*models.Template
	// State seeds the selection, tag filter and query from the last session
	State        models.SessionState
	ErrorHandler errors.ErrorHandler
	Logger       *logrus.Logger
	Keys         *KeyMap
}

// Controller owns all session state and routes each key event to exactly
// one handler: global keys, then the open overlay, then build mode, then
// search, then normal navigation.
type Controller struct {
	store     Store
	keys      KeyMap
	mode      Mode
	templates []*models.Template
	errs      errors.ErrorHandler
	log       *logrus.Logger

	items     *ItemStore
	filter    Filter
	search    TextBuffer
	searching bool
	overlay   Overlay
	wizard    *BuildWizard
	banner    *Banner
	quitting  bool

	persisted models.SessionState
}

// NewController performs the first load of the library. Failing to read it
// is the only fatal session error.
func NewController(opts Options) (*Controller, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	handler := opts.ErrorHandler
	if handler == nil {
		handler = errors.NewTUIErrorHandler(logger, false)
	}
	keys := DefaultKeyMap()
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	templates := opts.Templates
	if len(templates) == 0 {
		templates = models.BuiltinTemplates()
	}

	records, err := opts.Store.ListAll()
	if err != nil {
		return nil, errors.StartupError("load prompt library", err)
	}

	c := &Controller{
		store:     opts.Store,
		keys:      keys,
		mode:      opts.Mode,
		templates: templates,
		errs:      handler,
		log:       logger,
		items:     NewItemStore(records),
	}

	c.filter = Filter{Query: opts.State.LastQuery, Tags: append([]string(nil), opts.State.LastTags...)}
	c.search = NewTextBuffer(opts.State.LastQuery)
	if opts.State.LastSelected != "" {
		c.items.SelectByName(opts.State.LastSelected)
	}
	c.syncSelection()
	c.persisted = c.State()

	if len(records) == 0 {
		c.overlay = InitOverlay{}
	}
	return c, nil
}

// HandleEvent processes one key event and returns the effects it produced
func (c *Controller) HandleEvent(msg tea.KeyMsg) []Effect {
	if key.Matches(msg, c.keys.ForceQuit) {
		c.quitting = true
		return nil
	}
	if c.banner != nil {
		c.banner = nil
		return nil
	}

	var effects []Effect
	switch {
	case c.overlay != nil:
		effects = c.handleOverlay(msg)
	case c.wizard != nil:
		effects = c.handleBuild(msg)
	case c.searching:
		effects = c.handleSearch(msg)
	default:
		effects = c.handleNormal(msg)
	}

	if st := c.State(); !st.Equal(c.persisted) {
		c.persisted = st
		effects = append(effects, PersistEffect{State: st})
	}
	return effects
}

func (c *Controller) handleNormal(msg tea.KeyMsg) []Effect {
	k := c.keys
	switch {
	case key.Matches(msg, k.Up):
		c.move(-1)
	case key.Matches(msg, k.Down):
		c.move(1)
	case key.Matches(msg, k.Quit):
		c.quitting = true
	case key.Matches(msg, k.Search):
		c.searching = true
	case key.Matches(msg, k.Filter):
		c.reportIfFailed(c.OpenTagFilter())
	case key.Matches(msg, k.ClearFilter):
		c.filter.Tags = nil
		c.syncSelection()
	case key.Matches(msg, k.Build):
		c.enterBuild()
	case key.Matches(msg, k.Mode):
		c.ToggleMode()
	case c.mode == QuickSelect:
		if key.Matches(msg, k.Enter) {
			return c.copySelected(true)
		}
	default:
		return c.handleManagement(msg)
	}
	return nil
}

func (c *Controller) handleManagement(msg tea.KeyMsg) []Effect {
	k := c.keys
	switch {
	case key.Matches(msg, k.Copy):
		return c.copySelected(false)
	case key.Matches(msg, k.Edit):
		p := c.Selected()
		if p == nil {
			c.reportNoSelection()
			return nil
		}
		return []Effect{EditEffect{Key: p.Key}}
	case key.Matches(msg, k.Star):
		p := c.Selected()
		if p == nil {
			c.reportNoSelection()
			return nil
		}
		tags := models.WithTag(p.Tags, models.StarredTag)
		if p.Starred() {
			tags = models.WithoutTag(p.Tags, models.StarredTag)
		}
		return []Effect{TagsEffect{Key: p.Key, Tags: tags}}
	case key.Matches(msg, k.Delete):
		c.reportIfFailed(c.OpenDeleteConfirm())
	case key.Matches(msg, k.New):
		c.reportIfFailed(c.OpenCreate())
	case key.Matches(msg, k.Tags):
		c.reportIfFailed(c.OpenTagEditor())
	}
	return nil
}

func (c *Controller) handleSearch(msg tea.KeyMsg) []Effect {
	k := c.keys
	switch {
	case key.Matches(msg, k.Cancel):
		c.search.Clear()
		c.searching = false
	case key.Matches(msg, k.Enter):
		if c.mode == QuickSelect {
			return c.copySelected(true)
		}
		c.searching = false
		return nil
	case key.Matches(msg, k.ListUp):
		c.move(-1)
		return nil
	case key.Matches(msg, k.ListDown):
		c.move(1)
		return nil
	default:
		if !k.editText(&c.search, msg) {
			return nil
		}
	}
	c.filter.Query = c.search.String()
	c.syncSelection()
	return nil
}

func (c *Controller) handleBuild(msg tea.KeyMsg) []Effect {
	k := c.keys
	w := c.wizard

	switch {
	case w.InSelectStep():
		switch {
		case key.Matches(msg, k.Up):
			w.MoveCursor(-1)
		case key.Matches(msg, k.Down):
			w.MoveCursor(1)
		case key.Matches(msg, k.Enter):
			w.Choose()
		case key.Matches(msg, k.Cancel):
			c.wizard = nil
		}
	case w.Step() == StepAddComment:
		switch {
		case key.Matches(msg, k.Enter), key.Matches(msg, k.Cancel):
			w.FinishComment()
		default:
			k.editText(w.Comment(), msg)
		}
	case w.Step() == StepComplete:
		if !key.Matches(msg, k.Finish) {
			return nil
		}
		c.wizard = nil
		text, err := w.Compose(c.store.ReadContent)
		if err != nil {
			if stderrors.Is(err, ErrNoPromptsSelected) {
				err = errors.Wrap(err, errors.ErrCodeNoSelection, "No prompts selected")
			}
			c.reportFailure(err)
			return nil
		}
		return []Effect{CopyEffect{Text: text, Label: "composed prompt", Quit: c.mode == QuickSelect}}
	}
	return nil
}

func (c *Controller) enterBuild() {
	if !HasCandidates(c.items.Items()) {
		c.setOverlay(TypePromptsOverlay{})
		return
	}
	c.searching = false
	c.wizard = NewBuildWizard(c.items.Items())
}

func (c *Controller) copySelected(quit bool) []Effect {
	p := c.Selected()
	if p == nil {
		c.reportNoSelection()
		return nil
	}
	content, err := c.store.ReadContent(p.Key)
	if err != nil {
		c.reportFailure(err)
		return nil
	}
	return []Effect{CopyEffect{Text: content, Label: p.Name, Quit: quit}}
}

// move walks the filtered view with wrap-around
func (c *Controller) move(delta int) {
	view := c.View()
	if len(view) == 0 {
		return
	}
	if c.identity(view) {
		if delta < 0 {
			c.items.Previous()
		} else {
			c.items.Next()
		}
		return
	}
	c.items.SelectKey(view[wrap(c.ViewCursor(), delta, len(view))].Key)
}

// identity reports whether view lists the store in its own order
func (c *Controller) identity(view []*models.Prompt) bool {
	items := c.items.Items()
	if len(view) != len(items) {
		return false
	}
	for i := range view {
		if view[i] != items[i] {
			return false
		}
	}
	return true
}

// syncSelection moves the cursor into the view when the filter hid it
func (c *Controller) syncSelection() {
	view := c.View()
	if len(view) == 0 {
		return
	}
	if c.ViewCursor() < 0 {
		c.items.SelectKey(view[0].Key)
	}
}

func (c *Controller) setOverlay(o Overlay) {
	c.searching = false
	c.overlay = o
}

// OpenTagFilter opens the tag filter, replacing any open overlay
func (c *Controller) OpenTagFilter() error {
	if c.wizard != nil {
		return ErrBuildModeActive
	}
	c.setOverlay(&TagFilterOverlay{
		Selected: append([]string(nil), c.filter.Tags...),
		all:      AllTags(c.items.Items()),
	})
	return nil
}

// OpenTagEditor opens the tag editor for the selection
func (c *Controller) OpenTagEditor() error {
	if c.wizard != nil {
		return ErrBuildModeActive
	}
	p := c.Selected()
	if p == nil {
		return noSelection()
	}
	c.setOverlay(&TagEditorOverlay{
		Key:  p.Key,
		Name: p.Name,
		Tags: append([]string(nil), p.Tags...),
	})
	return nil
}

// OpenCreate opens the create dialog
func (c *Controller) OpenCreate() error {
	if c.wizard != nil {
		return ErrBuildModeActive
	}
	c.setOverlay(&CreateOverlay{Role: models.RoleWhole})
	return nil
}

// OpenDeleteConfirm asks for confirmation before deleting the selection
func (c *Controller) OpenDeleteConfirm() error {
	if c.wizard != nil {
		return ErrBuildModeActive
	}
	p := c.Selected()
	if p == nil {
		return noSelection()
	}
	c.setOverlay(&ConfirmOverlay{
		Action:  ConfirmDelete,
		Key:     p.Key,
		Message: "Delete " + p.DisplayName() + "?",
	})
	return nil
}

// CloseOverlay closes the open overlay, if any
func (c *Controller) CloseOverlay() {
	c.overlay = nil
}

// ToggleMode switches between quick select and management
func (c *Controller) ToggleMode() {
	if c.mode == QuickSelect {
		c.mode = Management
	} else {
		c.mode = QuickSelect
	}
}

// Reload re-reads the library, keeping the selection by name
func (c *Controller) Reload() error {
	records, err := c.store.ListAll()
	if err != nil {
		return errors.StorageError("reload prompt library", err)
	}
	c.items.Reload(records)
	c.syncSelection()
	return nil
}

// SelectKey selects the record stored under key
func (c *Controller) SelectKey(key string) bool {
	return c.items.SelectKey(key)
}

// ReportError logs err and shows it as an error banner
func (c *Controller) ReportError(err error) {
	if err == nil {
		return
	}
	c.errs.HandleError(err)
	c.banner = &Banner{Kind: BannerError, Text: c.errs.FormatError(err)}
}

// ReportSuccess shows a success banner
func (c *Controller) ReportSuccess(text string) {
	c.banner = &Banner{Kind: BannerSuccess, Text: text}
}

// reportFailure shows err as a banner. A record that vanished from storage
// is dropped from the list first so it cannot be acted on again.
func (c *Controller) reportFailure(err error) {
	if vanished(err) {
		if rerr := c.Reload(); rerr != nil {
			c.log.WithError(rerr).Warn("failed to reload after a missing prompt")
		}
	}
	c.ReportError(err)
}

func vanished(err error) bool {
	return errors.HasCode(err, errors.ErrCodeNotFound) || stderrors.Is(err, fs.ErrNotExist)
}

func (c *Controller) reportIfFailed(err error) {
	if err != nil {
		c.ReportError(err)
	}
}

func (c *Controller) reportNoSelection() {
	c.ReportError(noSelection())
}

func noSelection() error {
	return errors.NewAppError(errors.ErrCodeNoSelection, "No prompt selected")
}

// Quit ends the session
func (c *Controller) Quit() { c.quitting = true }

// State returns the part of the session that is persisted across runs
func (c *Controller) State() models.SessionState {
	st := models.SessionState{
		LastTags:  append([]string(nil), c.filter.Tags...),
		LastQuery: c.filter.Query,
	}
	if p := c.Selected(); p != nil {
		st.LastSelected = p.Name
	}
	return st
}

// View returns the filtered, sorted records shown in the list
func (c *Controller) View() []*models.Prompt {
	return ComputeView(c.items.Items(), c.filter)
}

// ViewCursor returns the selection's index in View, or -1
func (c *Controller) ViewCursor() int {
	sel := c.items.Selected()
	if sel == nil {
		return -1
	}
	for i, p := range c.View() {
		if p == sel {
			return i
		}
	}
	return -1
}

// Selected returns the selected record when it is visible
func (c *Controller) Selected() *models.Prompt {
	if c.ViewCursor() < 0 {
		return nil
	}
	return c.items.Selected()
}

func (c *Controller) Mode() Mode                    { return c.mode }
func (c *Controller) Overlay() Overlay              { return c.overlay }
func (c *Controller) Wizard() *BuildWizard          { return c.wizard }
func (c *Controller) BuildActive() bool             { return c.wizard != nil }
func (c *Controller) Searching() bool               { return c.searching }
func (c *Controller) Search() TextBuffer            { return c.search }
func (c *Controller) Filter() Filter                { return c.filter }
func (c *Controller) Banner() *Banner               { return c.banner }
func (c *Controller) Quitting() bool                { return c.quitting }
func (c *Controller) Items() *ItemStore             { return c.items }
func (c *Controller) Templates() []*models.Template { return c.templates }
func (c *Controller) Keys() KeyMap                  { return c.keys }

// OverlayKind returns the kind of the open overlay
func (c *Controller) OverlayKind() OverlayKind {
	if c.overlay == nil {
		return OverlayNone
	}
	return c.overlay.Kind()
}
