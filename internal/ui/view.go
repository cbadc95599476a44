package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dpshade/promptdeck/internal/models"
	"github.com/dpshade/promptdeck/internal/session"
)

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var body string
	switch {
	case m.ctrl.Overlay() != nil:
		body = CenterModal(m.renderOverlay(), m.width-4, m.bodyHeight())
	case m.ctrl.BuildActive():
		body = m.renderWizard()
	default:
		body = m.renderLibraryView()
	}

	parts := []string{m.renderHeader(), body, m.renderBanner(), m.renderFooter()}
	return AddMainPadding(strings.Join(parts, "\n"))
}

func (m Model) bodyHeight() int {
	return max(m.height-6, 3)
}

func (m Model) renderHeader() string {
	title := StyleTitle.Render("promptdeck")
	badges := []string{title, StyleModeBadge.Render(m.ctrl.Mode().String())}
	if m.ctrl.BuildActive() {
		badges = append(badges, StyleBuildBadge.Render("Build"))
	}
	if tags := m.ctrl.Filter().Tags; len(tags) > 0 {
		badges = append(badges, StyleTag.Render("filter: "+joinTags(tags)))
	}
	return strings.Join(badges, " ")
}

func (m Model) renderSearch() string {
	search := m.ctrl.Search()
	if m.ctrl.Searching() {
		before, after := search.Split()
		return StyleSearch.Render("/ ") + renderCursor(before, after)
	}
	if q := m.ctrl.Filter().Query; q != "" {
		return StyleTextMuted.Render("/ " + q)
	}
	return ""
}

// renderLibraryView draws the filtered list beside the preview
func (m Model) renderLibraryView() string {
	listWidth, previewWidth := m.paneWidths()
	height := m.bodyHeight()

	var list []string
	if search := m.renderSearch(); search != "" {
		list = append(list, search)
	}

	view := m.ctrl.View()
	if len(view) == 0 {
		if m.ctrl.Items().Len() == 0 {
			list = append(list, StyleTextDim.Render("No prompts yet"))
		} else {
			list = append(list, StyleTextDim.Render("No prompts match"))
		}
	}

	rows := height - len(list)
	cursor := m.ctrl.ViewCursor()
	start := scrollStart(cursor, len(view), rows)
	for i := start; i < len(view) && i < start+rows; i++ {
		list = append(list, renderRow(view[i], i == cursor, listWidth))
	}

	left := lipgloss.NewStyle().Width(listWidth).Height(height).Render(strings.Join(list, "\n"))
	if previewWidth == 0 {
		return left
	}
	right := StylePreview.Width(previewWidth - 2).Height(height - 2).Render(m.viewport.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

// scrollStart keeps the cursor inside a window of rows entries
func scrollStart(cursor, total, rows int) int {
	if rows <= 0 || total <= rows || cursor < 0 {
		return 0
	}
	start := cursor - rows/2
	if start < 0 {
		return 0
	}
	if start > total-rows {
		return total - rows
	}
	return start
}

func renderRow(p *models.Prompt, selected bool, width int) string {
	star := "  "
	if p.Starred() {
		star = "★ "
	}
	role := ""
	if p.Role != models.RoleWhole {
		role = " " + p.Role.Label()
	}
	name := truncate(p.DisplayName(), width-2-runewidth.StringWidth(role))

	if selected {
		return StyleFocused.Render(star + name + role)
	}
	if p.Starred() {
		star = StyleStar.Render(star)
	}
	return star + name + StyleTextDim.Render(role)
}

// renderWizard draws the current build step
func (m Model) renderWizard() string {
	w := m.ctrl.Wizard()
	var b strings.Builder
	b.WriteString(StyleSubtitle.Render(fmt.Sprintf("Build · %s", w.Step())))
	b.WriteString("\n\n")

	width := m.width - 6
	switch {
	case w.InSelectStep():
		b.WriteString(CreateOption("None", w.ListCursor() == 0, width))
		for i, p := range w.Candidates() {
			b.WriteString("\n")
			label := p.DisplayName()
			if p.Starred() {
				label = "★ " + label
			}
			b.WriteString(CreateOption(label, w.ListCursor() == i+1, width))
		}
	case w.Step() == session.StepAddComment:
		before, after := w.Comment().Split()
		b.WriteString(StyleTextMuted.Render("Optional note appended to the prompt:"))
		b.WriteString("\n")
		b.WriteString(renderCursor(before, after))
	case w.Step() == session.StepComplete:
		b.WriteString(m.renderChoices(w))
	}
	return b.String()
}

func (m Model) renderChoices(w *session.BuildWizard) string {
	var lines []string
	for _, role := range models.ComposeRoles() {
		name := StyleTextDim.Render("none")
		if key, ok := w.Choice(role); ok {
			if p := m.ctrl.Items().ByKey(key); p != nil {
				name = p.DisplayName()
			} else {
				name = key
			}
		}
		lines = append(lines, fmt.Sprintf("%-18s %s", role.Label()+":", name))
	}
	if comment := strings.TrimSpace(w.Comment().String()); comment != "" {
		lines = append(lines, fmt.Sprintf("%-18s %s", "Comment:", truncate(comment, m.width-26)))
	}
	lines = append(lines, "", StyleText.Render("Press Enter to copy the composed prompt"))
	return strings.Join(lines, "\n")
}

// renderOverlay draws the open dialog
func (m Model) renderOverlay() string {
	width := min(max(m.width-10, 30), 64)
	var content string
	switch o := m.ctrl.Overlay().(type) {
	case session.InitOverlay:
		content = StyleSubtitle.Render("No prompts found") + "\n\n" +
			"Create an example library?\n\n" +
			StyleTextDim.Render("y/Enter create · n/Esc skip")
	case session.TypePromptsOverlay:
		content = StyleSubtitle.Render("Nothing to build") + "\n\n" +
			"No prompt has a composable type.\nCreate one starter prompt per type?\n\n" +
			StyleTextDim.Render("y/Enter create · n/Esc cancel")
	case *session.ConfirmOverlay:
		content = StyleSubtitle.Render("Confirm") + "\n\n" + o.Message + "\n\n" +
			StyleTextDim.Render("y/Enter yes · n/Esc no")
	case *session.TagFilterOverlay:
		content = renderTagFilter(o, width)
	case *session.TagEditorOverlay:
		content = renderTagEditor(o, width)
	case *session.CreateOverlay:
		content = m.renderCreate(o, width)
	}
	return StyleModal.Width(width).Render(content)
}

func renderTagFilter(o *session.TagFilterOverlay, width int) string {
	var b strings.Builder
	b.WriteString(StyleSubtitle.Render("Filter by tags"))
	b.WriteString("\n\n")
	before, after := o.Search.Split()
	b.WriteString(StyleSearch.Render("> ") + renderCursor(before, after))
	b.WriteString("\n\n")

	visible := o.Visible()
	if len(visible) == 0 {
		b.WriteString(StyleTextDim.Render("No tags"))
	}
	for i, tag := range visible {
		mark := "[ ] "
		if o.IsSelected(tag) {
			mark = "[x] "
		}
		b.WriteString(CreateOption(mark+tag, i == o.Cursor, width-6))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(StyleTextDim.Render("Space toggle · Enter apply · Esc cancel"))
	return b.String()
}

func renderTagEditor(o *session.TagEditorOverlay, width int) string {
	var b strings.Builder
	b.WriteString(StyleSubtitle.Render("Tags · " + o.Name))
	b.WriteString("\n\n")

	if len(o.Tags) == 0 {
		b.WriteString(StyleTextDim.Render("No tags"))
		b.WriteString("\n")
	}
	for i, tag := range o.Tags {
		if o.Mode == session.TagRemove {
			b.WriteString(CreateOption(tag, i == o.Cursor, width-6))
		} else {
			b.WriteString(StyleTag.Render("  #" + tag))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch o.Mode {
	case session.TagAdd:
		before, after := o.Input.Split()
		b.WriteString("New tag: " + renderCursor(before, after))
		b.WriteString("\n")
		b.WriteString(StyleTextDim.Render("Enter add · Esc back"))
	case session.TagRemove:
		b.WriteString(StyleTextDim.Render("Enter remove · Esc back"))
	default:
		b.WriteString(StyleTextDim.Render("a add · r remove · q/Enter close"))
	}
	return b.String()
}

func (m Model) renderCreate(o *session.CreateOverlay, width int) string {
	label := func(field session.CreateField, text string) string {
		if o.Field == field {
			return StyleSearch.Render("▶ " + text)
		}
		return StyleTextMuted.Render("  " + text)
	}

	filename := o.Filename.String()
	if o.Field == session.FieldFilename {
		before, after := o.Filename.Split()
		filename = renderCursor(before, after)
	}

	template := "none"
	if templates := m.ctrl.Templates(); len(templates) > 0 && o.Template >= 0 && o.Template < len(templates) {
		template = templates[o.Template].Name
	}

	lines := []string{
		StyleSubtitle.Render("New prompt"),
		"",
		label(session.FieldFilename, "Name:     ") + filename,
		label(session.FieldType, "Type:     ") + "◀ " + o.Role.Label() + " ▶",
		label(session.FieldTemplate, "Template: ") + "◀ " + truncate(template, width-20) + " ▶",
		"",
		StyleTextDim.Render("Tab next field · ←/→ change · Enter create · Esc cancel"),
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderBanner() string {
	banner := m.ctrl.Banner()
	if banner == nil {
		return ""
	}
	return CreateStatus(banner.Text, banner.Kind == session.BannerError, m.width-4)
}

func (m Model) renderFooter() string {
	return CreateGuaranteedHelp(m.help.ShortHelpView(m.bindings()), m.width)
}

// bindings returns the footer help for the current context
func (m Model) bindings() []key.Binding {
	k := m.ctrl.Keys()
	switch {
	case m.ctrl.Overlay() != nil:
		return nil
	case m.ctrl.BuildActive():
		if m.ctrl.Wizard().Step() == session.StepComplete {
			return []key.Binding{k.Finish, k.ForceQuit}
		}
		return []key.Binding{k.Up, k.Down, k.Cancel}
	case m.ctrl.Searching():
		return []key.Binding{k.Enter, k.Cancel}
	case m.ctrl.Mode() == session.Management:
		return []key.Binding{k.Up, k.Down, k.Search, k.Copy, k.Edit, k.New, k.Delete, k.Tags, k.Star, k.Filter, k.Build, k.Mode, k.Quit}
	default:
		return []key.Binding{k.Up, k.Down, k.Enter, k.Search, k.Filter, k.Build, k.Mode, k.Quit}
	}
}
