package session

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/promptdeck/internal/errors"
	"github.com/dpshade/promptdeck/internal/logging"
	"github.com/dpshade/promptdeck/internal/models"
)

func libraryFixture() *fakeLibrary {
	return newFakeLibrary(
		rec("code-review", models.RoleWhole, "dev"),
		rec("bug-fix", models.RoleInstruction, "dev", models.StarredTag),
		rec("code-gen", models.RoleContext, "gen"),
	)
}

func TestStartupFailureIsFatal(t *testing.T) {
	lib := libraryFixture()
	lib.listErr = stderrors.New("permission denied")

	c, err := NewController(Options{Store: lib, Logger: logging.Discard()})
	assert.Nil(t, c)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeStartupFailure))
	assert.True(t, errors.GetAppError(err).Fatal())
}

func TestEmptyLibraryOffersInit(t *testing.T) {
	c := newTestController(newFakeLibrary(), QuickSelect)
	require.Equal(t, OverlayInit, c.OverlayKind())

	effects := c.HandleEvent(runes("y"))
	assert.Equal(t, []Effect{InitLibraryEffect{}}, effects)
	assert.Equal(t, OverlayNone, c.OverlayKind())

	c = newTestController(newFakeLibrary(), QuickSelect)
	assert.Empty(t, c.HandleEvent(keyEsc))
	assert.Equal(t, OverlayNone, c.OverlayKind())
	assert.False(t, c.Quitting())
}

func TestCtrlCOverridesEverything(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *Controller)
	}{
		{"delete confirmation", func(c *Controller) { c.HandleEvent(runes("d")) }},
		{"build mode", func(c *Controller) { c.HandleEvent(runes("b")) }},
		{"search", func(c *Controller) { c.HandleEvent(runes("/")) }},
		{"banner", func(c *Controller) { c.ReportError(stderrors.New("boom")) }},
		{"create dialog", func(c *Controller) { c.HandleEvent(runes("n")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(libraryFixture(), Management)
			tt.setup(c)

			effects := c.HandleEvent(keyCtrlC)
			assert.Empty(t, effects)
			assert.True(t, c.Quitting())
		})
	}
}

func TestBannerSwallowsOneEvent(t *testing.T) {
	c := newTestController(libraryFixture(), QuickSelect)
	c.ReportError(stderrors.New("boom"))
	require.NotNil(t, c.Banner())
	assert.Equal(t, BannerError, c.Banner().Kind)

	assert.Empty(t, c.HandleEvent(runes("j")))
	assert.Nil(t, c.Banner())
	assert.Equal(t, 0, c.Items().Cursor())

	c.HandleEvent(runes("j"))
	assert.Equal(t, 1, c.Items().Cursor())

	// A banner also swallows the key that would quit
	c.ReportSuccess("done")
	c.HandleEvent(runes("q"))
	assert.False(t, c.Quitting())
}

func TestNavigationWrapsAndPersists(t *testing.T) {
	c := newTestController(libraryFixture(), QuickSelect)

	effects := c.HandleEvent(runes("k"))
	assert.Equal(t, "code-gen", c.Selected().Name)
	persist := effectsOf[PersistEffect](effects)
	require.Len(t, persist, 1)
	assert.Equal(t, "code-gen", persist[0].State.LastSelected)

	c.HandleEvent(keyDown)
	assert.Equal(t, "code-review", c.Selected().Name)

	// Unchanged state is not persisted twice
	assert.Empty(t, effectsOf[PersistEffect](c.HandleEvent(runes("x"))))
}

func TestNavigationFollowsFilteredView(t *testing.T) {
	lib := libraryFixture()
	c, err := NewController(Options{
		Store:  lib,
		State:  models.SessionState{LastTags: []string{"dev"}},
		Logger: logging.Discard(),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"bug-fix", "code-review"}, names(c.View()))
	assert.Equal(t, "code-review", c.Selected().Name)
	assert.Equal(t, 1, c.ViewCursor())

	c.HandleEvent(runes("j"))
	assert.Equal(t, "bug-fix", c.Selected().Name)
	c.HandleEvent(runes("j"))
	assert.Equal(t, "code-review", c.Selected().Name)
	c.HandleEvent(runes("k"))
	assert.Equal(t, "bug-fix", c.Selected().Name)
}

func TestStateSeedsSession(t *testing.T) {
	c, err := NewController(Options{
		Store:  libraryFixture(),
		State:  models.SessionState{LastSelected: "CODE-GEN", LastQuery: "code"},
		Logger: logging.Discard(),
	})
	require.NoError(t, err)

	assert.Equal(t, "code-gen", c.Selected().Name)
	assert.Equal(t, "code", c.Search().String())
	assert.Equal(t, []string{"code-review", "code-gen"}, names(c.View()))
	assert.Equal(t, "code", c.State().LastQuery)
}

func TestQuickSelectEnterCopiesAndQuits(t *testing.T) {
	c := newTestController(libraryFixture(), QuickSelect)

	effects := c.HandleEvent(keyEnter)
	require.Len(t, effects, 1)
	assert.Equal(t, CopyEffect{Text: "content of code-review", Label: "code-review", Quit: true}, effects[0])
	// Quitting waits for the copy to succeed
	assert.False(t, c.Quitting())
}

func TestQuickSelectIgnoresManagementCommands(t *testing.T) {
	for _, k := range []string{"d", "n", "t", "e", "s", "c"} {
		t.Run(k, func(t *testing.T) {
			c := newTestController(libraryFixture(), QuickSelect)
			assert.Empty(t, c.HandleEvent(runes(k)))
			assert.Equal(t, OverlayNone, c.OverlayKind())
			assert.Nil(t, c.Banner())
		})
	}
}

func TestManagementEnterHasNoDefault(t *testing.T) {
	c := newTestController(libraryFixture(), Management)
	assert.Empty(t, c.HandleEvent(keyEnter))
	assert.False(t, c.Quitting())
}

func TestQuitKeys(t *testing.T) {
	for _, mode := range []Mode{QuickSelect, Management} {
		for _, msg := range []string{"q", "esc"} {
			c := newTestController(libraryFixture(), mode)
			if msg == "esc" {
				c.HandleEvent(keyEsc)
			} else {
				c.HandleEvent(runes(msg))
			}
			assert.True(t, c.Quitting(), "%s in %s", msg, mode)
		}
	}
}

func TestModeToggleBothDirections(t *testing.T) {
	c := newTestController(libraryFixture(), QuickSelect)
	c.HandleEvent(runes("m"))
	assert.Equal(t, Management, c.Mode())
	c.HandleEvent(runes("m"))
	assert.Equal(t, QuickSelect, c.Mode())
}

func TestSearch(t *testing.T) {
	t.Run("typing filters the view", func(t *testing.T) {
		c := newTestController(libraryFixture(), QuickSelect)
		c.HandleEvent(runes("/"))
		require.True(t, c.Searching())

		effects := typeText(c, "code")
		assert.Equal(t, []string{"code-review", "code-gen"}, names(c.View()))
		assert.NotEmpty(t, effectsOf[PersistEffect](effects))

		c.HandleEvent(keyDown)
		assert.Equal(t, "code-gen", c.Selected().Name)
	})

	t.Run("navigation letters are text", func(t *testing.T) {
		c := newTestController(libraryFixture(), QuickSelect)
		c.HandleEvent(runes("/"))
		typeText(c, "jk")
		assert.Equal(t, "jk", c.Search().String())
		assert.Equal(t, 0, c.Items().Cursor())
		assert.False(t, c.Quitting())
	})

	t.Run("quick select enter copies the match", func(t *testing.T) {
		c := newTestController(libraryFixture(), QuickSelect)
		c.HandleEvent(runes("/"))
		typeText(c, "gen")
		effects := c.HandleEvent(keyEnter)
		copies := effectsOf[CopyEffect](effects)
		require.Len(t, copies, 1)
		assert.Equal(t, "content of code-gen", copies[0].Text)
		assert.True(t, copies[0].Quit)
	})

	t.Run("management enter keeps the query", func(t *testing.T) {
		c := newTestController(libraryFixture(), Management)
		c.HandleEvent(runes("/"))
		typeText(c, "bug")
		assert.Empty(t, effectsOf[CopyEffect](c.HandleEvent(keyEnter)))
		assert.False(t, c.Searching())
		assert.Equal(t, "bug", c.Filter().Query)
		assert.Equal(t, []string{"bug-fix"}, names(c.View()))
	})

	t.Run("escape clears the query", func(t *testing.T) {
		c := newTestController(libraryFixture(), QuickSelect)
		c.HandleEvent(runes("/"))
		typeText(c, "bug")
		c.HandleEvent(keyBackspace)
		assert.Equal(t, "bu", c.Search().String())

		c.HandleEvent(keyEsc)
		assert.False(t, c.Searching())
		assert.Equal(t, "", c.Filter().Query)
		assert.Len(t, c.View(), 3)
		assert.False(t, c.Quitting())
	})
}

func TestOverlaysAreExclusive(t *testing.T) {
	c := newTestController(libraryFixture(), Management)

	require.NoError(t, c.OpenTagFilter())
	assert.Equal(t, OverlayTagFilter, c.OverlayKind())

	require.NoError(t, c.OpenTagEditor())
	assert.Equal(t, OverlayTagEditor, c.OverlayKind())

	require.NoError(t, c.OpenCreate())
	assert.Equal(t, OverlayCreate, c.OverlayKind())

	require.NoError(t, c.OpenDeleteConfirm())
	assert.Equal(t, OverlayConfirm, c.OverlayKind())
}

func TestOverlayClosesSearch(t *testing.T) {
	c := newTestController(libraryFixture(), Management)
	c.HandleEvent(runes("/"))
	typeText(c, "code")
	require.NoError(t, c.OpenTagFilter())
	assert.False(t, c.Searching())
	assert.Equal(t, "code", c.Filter().Query)
}

func TestBuildModeRejectsOverlays(t *testing.T) {
	c := newTestController(libraryFixture(), Management)
	c.HandleEvent(runes("b"))
	require.True(t, c.BuildActive())

	assert.ErrorIs(t, c.OpenTagFilter(), ErrBuildModeActive)
	assert.ErrorIs(t, c.OpenTagEditor(), ErrBuildModeActive)
	assert.ErrorIs(t, c.OpenCreate(), ErrBuildModeActive)
	assert.ErrorIs(t, c.OpenDeleteConfirm(), ErrBuildModeActive)
	assert.Equal(t, OverlayNone, c.OverlayKind())

	// Keys that open overlays in normal mode belong to the wizard now
	for _, k := range []string{"f", "t", "n", "d", "q"} {
		c.HandleEvent(runes(k))
	}
	assert.Equal(t, OverlayNone, c.OverlayKind())
	assert.True(t, c.BuildActive())
	assert.False(t, c.Quitting())
}

func TestBuildWithoutComposablePromptsOffersScaffold(t *testing.T) {
	lib := newFakeLibrary(rec("whole", models.RoleWhole))
	c := newTestController(lib, QuickSelect)

	c.HandleEvent(runes("b"))
	assert.False(t, c.BuildActive())
	require.Equal(t, OverlayTypePrompts, c.OverlayKind())

	effects := c.HandleEvent(keyEnter)
	assert.Equal(t, []Effect{ScaffoldRolesEffect{}}, effects)
	assert.Equal(t, OverlayNone, c.OverlayKind())
}

func TestBuildFlow(t *testing.T) {
	c := newTestController(libraryFixture(), QuickSelect)
	c.HandleEvent(runes("b"))
	require.True(t, c.BuildActive())

	c.HandleEvent(runes("j"))
	c.HandleEvent(keyEnter) // bug-fix as instruction
	for i := 0; i < 4; i++ {
		c.HandleEvent(keyEnter) // none for the rest
	}
	require.Equal(t, StepAddComment, c.Wizard().Step())

	typeText(c, "ok")
	c.HandleEvent(keyEnter)
	require.Equal(t, StepComplete, c.Wizard().Step())

	// Only confirm keys finish
	assert.Empty(t, c.HandleEvent(runes("x")))
	require.True(t, c.BuildActive())

	effects := c.HandleEvent(keyEnter)
	assert.False(t, c.BuildActive())
	copies := effectsOf[CopyEffect](effects)
	require.Len(t, copies, 1)
	assert.Equal(t, "content of bug-fix\n\nok", copies[0].Text)
	assert.True(t, copies[0].Quit)
}

func TestBuildCancel(t *testing.T) {
	c := newTestController(libraryFixture(), Management)
	c.HandleEvent(runes("b"))
	c.HandleEvent(runes("j"))
	c.HandleEvent(keyEnter)
	c.HandleEvent(keyEsc)
	assert.False(t, c.BuildActive())
	assert.False(t, c.Quitting())

	// Escape in the comment step skips the comment
	c.HandleEvent(runes("b"))
	for i := 0; i < 5; i++ {
		c.HandleEvent(keyEnter)
	}
	typeText(c, "draft")
	c.HandleEvent(keyEsc)
	require.True(t, c.BuildActive())
	assert.Equal(t, StepComplete, c.Wizard().Step())
	assert.Equal(t, "draft", c.Wizard().Comment().String())

	// Escape at Complete does nothing
	c.HandleEvent(keyEsc)
	assert.True(t, c.BuildActive())
}

func TestBuildNothingSelected(t *testing.T) {
	c := newTestController(libraryFixture(), QuickSelect)
	c.HandleEvent(runes("b"))
	for i := 0; i < 6; i++ {
		c.HandleEvent(keyEnter)
	}
	require.Equal(t, StepComplete, c.Wizard().Step())

	effects := c.HandleEvent(runes(" "))
	assert.Empty(t, effectsOf[CopyEffect](effects))
	assert.False(t, c.BuildActive())
	require.NotNil(t, c.Banner())
	assert.Equal(t, BannerError, c.Banner().Kind)
	assert.Equal(t, "No prompts selected", c.Banner().Text)
}

func TestTagFilterOverlay(t *testing.T) {
	t.Run("fuzzy search applies the best match", func(t *testing.T) {
		c := newTestController(libraryFixture(), QuickSelect)
		c.HandleEvent(runes("f"))
		o := c.Overlay().(*TagFilterOverlay)
		assert.Equal(t, []string{"dev", "gen", "starred"}, o.Visible())

		typeText(c, "ge")
		assert.Equal(t, []string{"gen"}, o.Visible())

		c.HandleEvent(keyEnter)
		assert.Equal(t, OverlayNone, c.OverlayKind())
		assert.Equal(t, []string{"gen"}, c.Filter().Tags)
		assert.Equal(t, []string{"code-gen"}, names(c.View()))
		assert.Equal(t, "code-gen", c.Selected().Name)

		c.HandleEvent(runes("F"))
		assert.Empty(t, c.Filter().Tags)
		assert.Len(t, c.View(), 3)
	})

	t.Run("toggle several tags", func(t *testing.T) {
		c := newTestController(libraryFixture(), QuickSelect)
		c.HandleEvent(runes("f"))
		c.HandleEvent(keyDown)
		c.HandleEvent(keySpace)
		c.HandleEvent(keyUp)
		c.HandleEvent(keySpace)
		c.HandleEvent(keyEnter)

		assert.ElementsMatch(t, []string{"gen", "dev"}, c.Filter().Tags)
		assert.Equal(t, []string{"bug-fix", "code-review", "code-gen"}, names(c.View()))
	})

	t.Run("escape keeps the old filter", func(t *testing.T) {
		c := newTestController(libraryFixture(), QuickSelect)
		c.HandleEvent(runes("f"))
		c.HandleEvent(keySpace)
		c.HandleEvent(keyEsc)
		assert.Equal(t, OverlayNone, c.OverlayKind())
		assert.Empty(t, c.Filter().Tags)
		assert.False(t, c.Quitting())
	})
}

func TestTagEditor(t *testing.T) {
	c := newTestController(libraryFixture(), Management)
	c.HandleEvent(runes("t"))
	o, ok := c.Overlay().(*TagEditorOverlay)
	require.True(t, ok)
	assert.Equal(t, "prompts/code-review.md", o.Key)

	c.HandleEvent(runes("a"))
	require.Equal(t, TagAdd, o.Mode)
	typeText(c, "new")
	effects := c.HandleEvent(keyEnter)
	assert.Equal(t, []Effect{TagsEffect{Key: o.Key, Tags: []string{"dev", "new"}}}, effects)
	assert.Equal(t, TagView, o.Mode)

	c.HandleEvent(runes("r"))
	require.Equal(t, TagRemove, o.Mode)
	c.HandleEvent(runes("j"))
	effects = c.HandleEvent(keyEnter)
	assert.Equal(t, []Effect{TagsEffect{Key: o.Key, Tags: []string{"dev"}}}, effects)

	c.HandleEvent(runes("q"))
	assert.Equal(t, OverlayNone, c.OverlayKind())
	assert.False(t, c.Quitting())
}

func TestTagEditorRejectsBadTags(t *testing.T) {
	tests := []struct {
		name string
		tag  string
	}{
		{"whitespace", "a b"},
		{"empty", ""},
		{"duplicate", "dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(libraryFixture(), Management)
			c.HandleEvent(runes("t"))
			c.HandleEvent(runes("a"))
			typeText(c, tt.tag)

			assert.Empty(t, c.HandleEvent(keyEnter))
			require.NotNil(t, c.Banner())
			assert.Equal(t, BannerError, c.Banner().Kind)
			assert.Equal(t, TagAdd, c.Overlay().(*TagEditorOverlay).Mode)
		})
	}
}

func TestCreateDialog(t *testing.T) {
	t.Run("new prompt", func(t *testing.T) {
		c := newTestController(libraryFixture(), Management)
		c.HandleEvent(runes("n"))
		typeText(c, "fresh")
		c.HandleEvent(keyTab)
		c.HandleEvent(keyRight)
		o := c.Overlay().(*CreateOverlay)
		assert.Equal(t, FieldType, o.Field)
		assert.Equal(t, models.RoleInstruction, o.Role)

		effects := c.HandleEvent(keyEnter)
		assert.Equal(t, OverlayNone, c.OverlayKind())
		require.Len(t, effects, 2)
		write := effects[0].(WriteEffect)
		assert.Equal(t, "fresh", write.Prompt.Name)
		assert.Equal(t, "prompts/fresh.md", write.Prompt.Key)
		assert.Equal(t, models.RoleInstruction, write.Prompt.Role)
		assert.Equal(t, "", write.Content)
		assert.Equal(t, EditEffect{Key: "prompts/fresh.md"}, effects[1])
	})

	t.Run("template sets role and body", func(t *testing.T) {
		c := newTestController(libraryFixture(), Management)
		c.HandleEvent(runes("n"))
		typeText(c, "fresh")
		c.HandleEvent(keyTab)
		c.HandleEvent(keyTab)
		c.HandleEvent(keyRight)

		effects := c.HandleEvent(keyEnter)
		require.Len(t, effects, 2)
		write := effects[0].(WriteEffect)
		assert.Equal(t, models.RoleInstruction, write.Prompt.Role)
		assert.Contains(t, write.Content, "# fresh")
	})

	t.Run("field ring wraps", func(t *testing.T) {
		c := newTestController(libraryFixture(), Management)
		c.HandleEvent(runes("n"))
		o := c.Overlay().(*CreateOverlay)
		for i := 0; i < 3; i++ {
			c.HandleEvent(keyTab)
		}
		assert.Equal(t, FieldFilename, o.Field)
		c.HandleEvent(keyTab)
		c.HandleEvent(keyLeft)
		assert.Equal(t, models.RoleEtc, o.Role)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		c := newTestController(libraryFixture(), Management)
		c.HandleEvent(runes("n"))
		assert.Empty(t, c.HandleEvent(keyEnter))
		assert.Equal(t, OverlayCreate, c.OverlayKind())
		require.NotNil(t, c.Banner())
	})

	t.Run("collision asks before overwriting", func(t *testing.T) {
		c := newTestController(libraryFixture(), Management)
		c.HandleEvent(runes("n"))
		typeText(c, "code-review")
		assert.Empty(t, c.HandleEvent(keyEnter))
		o, ok := c.Overlay().(*ConfirmOverlay)
		require.True(t, ok)
		assert.Equal(t, ConfirmOverwrite, o.Action)

		effects := c.HandleEvent(runes("y"))
		require.Len(t, effects, 2)
		assert.IsType(t, WriteEffect{}, effects[0])
		assert.Equal(t, OverlayNone, c.OverlayKind())
	})

	t.Run("declined overwrite reports the collision", func(t *testing.T) {
		c := newTestController(libraryFixture(), Management)
		c.HandleEvent(runes("n"))
		typeText(c, "code-review")
		c.HandleEvent(keyEnter)

		assert.Empty(t, c.HandleEvent(runes("n")))
		assert.Equal(t, OverlayNone, c.OverlayKind())
		require.NotNil(t, c.Banner())
		assert.Contains(t, c.Banner().Text, "already exists")
	})
}

func TestDeleteConfirmation(t *testing.T) {
	c := newTestController(libraryFixture(), Management)
	c.HandleEvent(runes("d"))
	require.Equal(t, OverlayConfirm, c.OverlayKind())
	assert.Empty(t, c.HandleEvent(keyEsc))
	assert.Equal(t, OverlayNone, c.OverlayKind())
	assert.False(t, c.Quitting())

	c.HandleEvent(runes("d"))
	effects := c.HandleEvent(runes("y"))
	assert.Equal(t, []Effect{DeleteEffect{Key: "prompts/code-review.md"}}, effects)
}

func TestManagementCommands(t *testing.T) {
	c := newTestController(libraryFixture(), Management)

	effects := c.HandleEvent(runes("s"))
	assert.Equal(t, []Effect{TagsEffect{Key: "prompts/code-review.md", Tags: []string{"dev", models.StarredTag}}}, effects)

	effects = c.HandleEvent(runes("e"))
	assert.Equal(t, []Effect{EditEffect{Key: "prompts/code-review.md"}}, effects)

	effects = c.HandleEvent(runes("c"))
	assert.Equal(t, []Effect{CopyEffect{Text: "content of code-review", Label: "code-review"}}, effects)

	c.HandleEvent(runes("j"))
	effects = c.HandleEvent(runes("s"))
	tags := effectsOf[TagsEffect](effects)
	require.Len(t, tags, 1)
	assert.Equal(t, []string{"dev"}, tags[0].Tags)
}

func TestCommandsWithoutSelection(t *testing.T) {
	c, err := NewController(Options{
		Store:  libraryFixture(),
		Mode:   Management,
		State:  models.SessionState{LastQuery: "nothing-matches"},
		Logger: logging.Discard(),
	})
	require.NoError(t, err)
	require.Nil(t, c.Selected())

	assert.Empty(t, c.HandleEvent(runes("e")))
	require.NotNil(t, c.Banner())
	assert.Equal(t, "No prompt selected", c.Banner().Text)
}
