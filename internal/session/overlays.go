package session

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dpshade/promptdeck/internal/errors"
	"github.com/dpshade/promptdeck/internal/models"
	"github.com/dpshade/promptdeck/internal/renderer"
	"github.com/dpshade/promptdeck/internal/validation"
)

func (c *Controller) handleOverlay(msg tea.KeyMsg) []Effect {
	switch o := c.overlay.(type) {
	case InitOverlay:
		return c.handleYesNo(msg, InitLibraryEffect{})
	case TypePromptsOverlay:
		return c.handleYesNo(msg, ScaffoldRolesEffect{})
	case *ConfirmOverlay:
		return c.handleConfirm(o, msg)
	case *TagFilterOverlay:
		return c.handleTagFilter(o, msg)
	case *TagEditorOverlay:
		return c.handleTagEditor(o, msg)
	case *CreateOverlay:
		return c.handleCreate(o, msg)
	}
	return nil
}

func (c *Controller) handleYesNo(msg tea.KeyMsg, yes Effect) []Effect {
	switch {
	case key.Matches(msg, c.keys.Yes):
		c.CloseOverlay()
		return []Effect{yes}
	case key.Matches(msg, c.keys.No):
		c.CloseOverlay()
	}
	return nil
}

func (c *Controller) handleConfirm(o *ConfirmOverlay, msg tea.KeyMsg) []Effect {
	switch {
	case key.Matches(msg, c.keys.Yes):
		c.CloseOverlay()
		if o.Action == ConfirmOverwrite {
			return o.pending
		}
		return []Effect{DeleteEffect{Key: o.Key}}
	case key.Matches(msg, c.keys.No):
		c.CloseOverlay()
		if o.Action == ConfirmOverwrite {
			c.ReportError(errors.AlreadyExistsError("Prompt " + o.Key).WithContext("key", o.Key))
		}
	}
	return nil
}

func (c *Controller) handleTagFilter(o *TagFilterOverlay, msg tea.KeyMsg) []Effect {
	k := c.keys
	switch {
	case key.Matches(msg, k.Cancel):
		c.CloseOverlay()
	case key.Matches(msg, k.Enter):
		tags := o.Selected
		if len(tags) == 0 && o.Search.Len() > 0 {
			if tag, ok := o.Highlighted(); ok {
				tags = []string{tag}
			}
		}
		c.filter.Tags = tags
		c.CloseOverlay()
		c.syncSelection()
	case key.Matches(msg, k.ListUp):
		o.Cursor = wrap(o.Cursor, -1, len(o.Visible()))
	case key.Matches(msg, k.ListDown):
		o.Cursor = wrap(o.Cursor, 1, len(o.Visible()))
	case key.Matches(msg, k.Toggle):
		if tag, ok := o.Highlighted(); ok {
			o.toggle(tag)
		}
	default:
		if k.editText(&o.Search, msg) {
			o.Cursor = 0
		}
	}
	return nil
}

func (c *Controller) handleTagEditor(o *TagEditorOverlay, msg tea.KeyMsg) []Effect {
	k := c.keys
	switch o.Mode {
	case TagView:
		switch {
		case key.Matches(msg, k.AddTag):
			o.Mode = TagAdd
			o.Input.Clear()
		case key.Matches(msg, k.RemoveTag):
			if len(o.Tags) > 0 {
				o.Mode = TagRemove
				o.Cursor = 0
			}
		case key.Matches(msg, k.Quit), key.Matches(msg, k.Enter):
			c.CloseOverlay()
		}

	case TagAdd:
		switch {
		case key.Matches(msg, k.Cancel):
			o.Mode = TagView
		case key.Matches(msg, k.Enter):
			tag := strings.TrimSpace(o.Input.String())
			if err := validation.Tag(tag); err != nil {
				c.ReportError(err)
				return nil
			}
			for _, t := range o.Tags {
				if t == tag {
					c.ReportError(errors.AlreadyExistsError(fmt.Sprintf("Tag %q", tag)))
					return nil
				}
			}
			o.Tags = models.WithTag(o.Tags, tag)
			o.Mode = TagView
			return []Effect{TagsEffect{Key: o.Key, Tags: append([]string(nil), o.Tags...)}}
		default:
			k.editText(&o.Input, msg)
		}

	case TagRemove:
		switch {
		case key.Matches(msg, k.Cancel):
			o.Mode = TagView
		case key.Matches(msg, k.Up):
			o.Cursor = wrap(o.Cursor, -1, len(o.Tags))
		case key.Matches(msg, k.Down):
			o.Cursor = wrap(o.Cursor, 1, len(o.Tags))
		case key.Matches(msg, k.Enter):
			if len(o.Tags) == 0 {
				o.Mode = TagView
				return nil
			}
			o.Tags = models.WithoutTag(o.Tags, o.Tags[clamp(o.Cursor, len(o.Tags))])
			o.Mode = TagView
			return []Effect{TagsEffect{Key: o.Key, Tags: append([]string(nil), o.Tags...)}}
		}
	}
	return nil
}

func (c *Controller) handleCreate(o *CreateOverlay, msg tea.KeyMsg) []Effect {
	k := c.keys
	switch {
	case key.Matches(msg, k.Cancel):
		c.CloseOverlay()
		return nil
	case key.Matches(msg, k.Enter):
		return c.submitCreate(o)
	case key.Matches(msg, k.NextField):
		o.Field = o.Field.Next()
		return nil
	case key.Matches(msg, k.PrevField):
		o.Field = o.Field.Prev()
		return nil
	}

	switch o.Field {
	case FieldFilename:
		k.editText(&o.Filename, msg)
	case FieldType:
		switch {
		case key.Matches(msg, k.Left), key.Matches(msg, k.Up):
			o.Role = o.Role.Prev()
		case key.Matches(msg, k.Right), key.Matches(msg, k.Down):
			o.Role = o.Role.Next()
		}
	case FieldTemplate:
		delta := 0
		switch {
		case key.Matches(msg, k.Left), key.Matches(msg, k.Up):
			delta = -1
		case key.Matches(msg, k.Right), key.Matches(msg, k.Down):
			delta = 1
		}
		if delta != 0 && len(c.templates) > 0 {
			o.Template = wrap(o.Template, delta, len(c.templates))
			o.Role = c.templates[o.Template].Role
		}
	}
	return nil
}

func (c *Controller) submitCreate(o *CreateOverlay) []Effect {
	name := strings.TrimSpace(o.Filename.String())
	if err := validation.Filename(name); err != nil {
		c.ReportError(err)
		return nil
	}

	var content string
	if len(c.templates) > 0 {
		tmpl := c.templates[clamp(o.Template, len(c.templates))]
		body, err := renderer.NewRenderer(tmpl).Scaffold(name, o.Role)
		if err != nil {
			c.ReportError(errors.Wrap(err, errors.ErrCodeValidation, "Template "+tmpl.Name+" is invalid"))
			return nil
		}
		content = body
	}

	p := &models.Prompt{Name: name, Role: o.Role, Key: c.store.KeyFor(name)}
	effects := []Effect{WriteEffect{Prompt: p, Content: content}, EditEffect{Key: p.Key}}

	if c.store.Exists(name) {
		c.setOverlay(&ConfirmOverlay{
			Action:  ConfirmOverwrite,
			Key:     p.Key,
			Message: fmt.Sprintf("%s already exists. Overwrite?", name),
			pending: effects,
		})
		return nil
	}
	c.CloseOverlay()
	return effects
}
