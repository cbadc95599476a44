package session

import "github.com/dpshade/promptdeck/internal/models"

// Effect is a command for an external collaborator, produced by the
// controller and run by the host after the event has been handled.
type Effect interface {
	effect()
}

// CopyEffect copies Text to the clipboard. Quit ends the session once the
// copy succeeded.
type CopyEffect struct {
	Text  string
	Label string
	Quit  bool
}

// WriteEffect creates or replaces a prompt file
type WriteEffect struct {
	Prompt  *models.Prompt
	Content string
}

// TagsEffect replaces the tags of the prompt under Key
type TagsEffect struct {
	Key  string
	Tags []string
}

// DeleteEffect removes the prompt under Key
type DeleteEffect struct {
	Key string
}

// EditEffect opens the prompt under Key in the external editor
type EditEffect struct {
	Key string
}

// PersistEffect saves the session state that survives restarts
type PersistEffect struct {
	State models.SessionState
}

// InitLibraryEffect creates the library layout and example prompts
type InitLibraryEffect struct{}

// ScaffoldRolesEffect writes one starter prompt per composable role
type ScaffoldRolesEffect struct{}

func (CopyEffect) effect()          {}
func (WriteEffect) effect()         {}
func (TagsEffect) effect()          {}
func (DeleteEffect) effect()        {}
func (EditEffect) effect()          {}
func (PersistEffect) effect()       {}
func (InitLibraryEffect) effect()   {}
func (ScaffoldRolesEffect) effect() {}
