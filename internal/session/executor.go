package session

import (
	"github.com/sirupsen/logrus"

	"github.com/dpshade/promptdeck/internal/errors"
	"github.com/dpshade/promptdeck/internal/models"
)

// Clipboard copies text to the system clipboard
type Clipboard interface {
	Copy(text string) error
}

// StateSaver persists the session state
type StateSaver interface {
	Save(models.SessionState) error
}

// Library is the write side of the prompt library
type Library interface {
	Write(p *models.Prompt, content string) error
	UpdateTags(key string, tags []string) error
	Delete(key string) error
	InitLibrary() error
	ScaffoldRoles() error
}

// Executor runs effects against the collaborators and feeds the outcome
// back into the controller as banners and reloads.
type Executor struct {
	Controller *Controller
	Library    Library
	Clipboard  Clipboard
	State      StateSaver
	Log        *logrus.Logger
}

// Run executes effects in order. Edit effects need the terminal, so they
// are returned for the host to run.
func (e *Executor) Run(effects []Effect) []EditEffect {
	var edits []EditEffect
	for _, eff := range effects {
		switch eff := eff.(type) {
		case CopyEffect:
			e.copy(eff)
		case WriteEffect:
			if e.mutate(e.Library.Write(eff.Prompt, eff.Content)) {
				e.Controller.SelectKey(eff.Prompt.Key)
				e.Controller.ReportSuccess("Saved " + eff.Prompt.DisplayName())
			}
		case TagsEffect:
			e.mutate(e.Library.UpdateTags(eff.Key, eff.Tags))
		case DeleteEffect:
			if e.mutate(e.Library.Delete(eff.Key)) {
				e.Controller.ReportSuccess("Deleted " + eff.Key)
			}
		case InitLibraryEffect:
			if e.mutate(e.Library.InitLibrary()) {
				e.Controller.ReportSuccess("Library initialized")
			}
		case ScaffoldRolesEffect:
			if e.mutate(e.Library.ScaffoldRoles()) {
				e.Controller.ReportSuccess("Starter prompts created, press b to build")
			}
		case PersistEffect:
			e.persist(eff.State)
		case EditEffect:
			edits = append(edits, eff)
		}
	}
	return edits
}

func (e *Executor) copy(eff CopyEffect) {
	if err := e.Clipboard.Copy(eff.Text); err != nil {
		e.Controller.ReportError(errors.ExternalError("copy to clipboard", err))
		return
	}
	if eff.Quit {
		e.Controller.Quit()
		return
	}
	e.Controller.ReportSuccess("Copied " + eff.Label)
}

// mutate reports err, or reloads the library after a successful change
func (e *Executor) mutate(err error) bool {
	if err != nil {
		e.Controller.reportFailure(err)
		return false
	}
	if err := e.Controller.Reload(); err != nil {
		e.Controller.ReportError(err)
		return false
	}
	return true
}

func (e *Executor) persist(st models.SessionState) {
	if e.State == nil {
		return
	}
	if err := e.State.Save(st); err != nil && e.Log != nil {
		e.Log.WithError(err).Warn("failed to save session state")
	}
}
