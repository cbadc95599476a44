package renderer

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/dpshade/promptdeck/internal/models"
)

// ScaffoldData is the data available to a create-dialog template
type ScaffoldData struct {
	Name string
	Role string
}

// Renderer renders the body of a new prompt from a template
type Renderer struct {
	template *models.Template
}

// NewRenderer creates a new renderer instance. A nil template renders an
// empty body.
func NewRenderer(tmpl *models.Template) *Renderer {
	return &Renderer{template: tmpl}
}

// Scaffold renders the template body for a prompt called name with role
func (r *Renderer) Scaffold(name string, role models.Role) (string, error) {
	if r.template == nil || r.template.Content == "" {
		return "", nil
	}

	tmpl, err := template.New(r.template.Name).Option("missingkey=zero").Parse(r.template.Content)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	data := ScaffoldData{Name: name, Role: role.Label()}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
