package service

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dpshade/promptdeck/internal/errors"
	"github.com/dpshade/promptdeck/internal/models"
	"github.com/dpshade/promptdeck/internal/storage"
)

// Library is the storage collaborator used by the session. It adds
// timestamps, error classification and library bootstrapping on top of
// the file storage.
type Library struct {
	storage *storage.Storage
	log     *logrus.Logger
	now     func() time.Time
}

// NewLibrary creates a library backed by store
func NewLibrary(store *storage.Storage, logger *logrus.Logger) *Library {
	return &Library{
		storage: store,
		log:     logger,
		now:     time.Now,
	}
}

// ListAll returns every prompt in the library
func (l *Library) ListAll() ([]*models.Prompt, error) {
	prompts, err := l.storage.ListPrompts()
	if err != nil {
		return nil, errors.StorageError("list prompts", err)
	}
	return prompts, nil
}

// ReadContent returns the body of the prompt behind key
func (l *Library) ReadContent(key string) (string, error) {
	body, err := l.storage.ReadContent(key)
	if err != nil {
		return "", classify("read", key, err)
	}
	return body, nil
}

// Write creates or replaces the prompt file for p with body
func (l *Library) Write(p *models.Prompt, body string) error {
	now := l.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.Tags = models.NormalizeTags(p.Tags)

	if err := l.storage.SavePrompt(p, body); err != nil {
		return errors.StorageError("write "+p.Key, err)
	}
	l.log.WithField("key", p.Key).Info("prompt written")
	return nil
}

// UpdateTags replaces the tags of the prompt behind key, keeping its body
func (l *Library) UpdateTags(key string, tags []string) error {
	p, body, err := l.storage.LoadPrompt(key)
	if err != nil {
		return classify("update tags of", key, err)
	}
	p.Tags = tags
	return l.Write(p, body)
}

// Delete removes the prompt behind key
func (l *Library) Delete(key string) error {
	if err := l.storage.DeletePrompt(key); err != nil {
		return classify("delete", key, err)
	}
	l.log.WithField("key", key).Info("prompt deleted")
	return nil
}

// Exists reports whether a prompt called name is stored
func (l *Library) Exists(name string) bool {
	return l.storage.Exists(name)
}

// KeyFor returns the key a new prompt called name would be stored under
func (l *Library) KeyFor(name string) string {
	return l.storage.KeyFor(name)
}

// Path returns the absolute file path behind key, for the editor
func (l *Library) Path(key string) string {
	return l.storage.AbsPath(key)
}

// Templates returns the built-in scaffolds followed by user templates
func (l *Library) Templates() []*models.Template {
	templates := models.BuiltinTemplates()
	user, err := l.storage.ListTemplates()
	if err != nil {
		l.log.WithError(err).Warn("failed to list templates")
		return templates
	}
	return append(templates, user...)
}

// InitLibrary creates the library layout and a few example prompts
func (l *Library) InitLibrary() error {
	if err := l.storage.InitLibrary(); err != nil {
		return errors.StorageError("initialize library", err)
	}

	examples := []struct {
		name string
		tags []string
		body string
	}{
		{"code-review", []string{"dev", models.StarredTag}, "Review the following code for bugs, readability and performance. Suggest concrete fixes."},
		{"summarize", []string{"writing"}, "Summarize the following text in three bullet points."},
		{"explain-like-im-five", []string{"writing", "learning"}, "Explain the following concept as if I were five years old."},
	}
	for _, ex := range examples {
		if l.Exists(ex.name) {
			continue
		}
		p := &models.Prompt{Name: ex.name, Tags: ex.tags, Role: models.RoleWhole, Key: l.KeyFor(ex.name)}
		if err := l.Write(p, ex.body); err != nil {
			return err
		}
	}
	return nil
}

// ScaffoldRoles writes one starter prompt per composable role so the build
// wizard has something to offer. Existing files are left alone.
func (l *Library) ScaffoldRoles() error {
	if err := l.storage.InitLibrary(); err != nil {
		return errors.StorageError("initialize library", err)
	}

	bodies := map[models.Role]string{
		models.RoleInstruction:     "You are a senior engineer. Answer precisely.",
		models.RoleContext:         "The project is written in Go and follows the standard library style.",
		models.RoleInputIndicator:  "Input:",
		models.RoleOutputIndicator: "Answer in markdown with a short summary first.",
		models.RoleEtc:             "Ask a clarifying question if anything is ambiguous.",
	}
	for _, role := range models.ComposeRoles() {
		name := "starter-" + role.String()
		if l.Exists(name) {
			continue
		}
		p := &models.Prompt{Name: name, Role: role, Key: l.KeyFor(name)}
		if err := l.Write(p, bodies[role]); err != nil {
			return err
		}
	}
	return nil
}

func classify(op, key string, err error) error {
	if stderrors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(err, errors.ErrCodeNotFound, fmt.Sprintf("prompt %s not found", key)).
			WithContext("key", key)
	}
	return errors.StorageError(op+" "+key, err).WithContext("key", key)
}
