package tui

import (
	"fmt"
	"strings"

	"devroster/internal/docs"
	"devroster/internal/model"
	"devroster/internal/pager"

	"github.com/charmbracelet/lipgloss"
)

const (
	minFormPaneW = 30
	maxFormPaneW = 44
	colNumW      = 4
	colAgeW      = 6
)

const successMessage = "Success: the information has been updated"

func (m appModel) View() string {
	switch m.modal {
	case modalConfirmDelete:
		return m.placeCentered(m.viewDeleteModal())
	case modalHelp:
		md, _ := docs.Get("keys")
		body := renderMarkdown(md, modalBodyWidth(m.width))
		return m.placeCentered(renderModalBox(m.width, "Help", body+"\n\n"+styleMuted().Render("esc: close")))
	}

	width := m.width
	if width <= 0 {
		width = 100
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorAccentFg).
		Background(colorAccent).
		Padding(0, 1).
		Width(width).
		Render("devroster  " + styleMutedOnAccent(m.runnerBase()))

	var banners []string
	if m.state.SuccessBanner {
		banners = append(banners, lipgloss.NewStyle().
			Width(width).Padding(0, 1).
			Foreground(colorSuccessFg).Background(colorSuccessBg).
			Render("✓ "+successMessage))
	}

	formW := m.formPaneWidth(width)
	tableW := width - formW - 1
	if tableW < 20 {
		tableW = 20
	}
	bodyH := m.bodyHeight()

	form := normalizePane(m.viewForm(formW), formW, bodyH)
	table := normalizePane(m.viewTable(tableW), tableW, bodyH)
	body := lipgloss.JoinHorizontal(lipgloss.Top, form, " ", table)

	footer := m.help.View(m.keys)
	if m.state.Error.Open {
		footer = lipgloss.NewStyle().
			Width(width).Padding(0, 1).
			Foreground(colorErrorFg).Background(colorErrorBg).
			Render("✗ "+oneLine(m.state.Error.Message)+"   (esc: dismiss)") + "\n" + footer
	}

	parts := []string{header}
	parts = append(parts, banners...)
	parts = append(parts, body, footer)
	return strings.Join(parts, "\n")
}

func styleMutedOnAccent(s string) string {
	return lipgloss.NewStyle().Foreground(colorAccentFg).Faint(true).Render(s)
}

func (m appModel) runnerBase() string {
	type baser interface{ BaseURL() string }
	if b, ok := m.runner.Service.(baser); ok {
		return b.BaseURL()
	}
	return ""
}

func (m appModel) formPaneWidth(width int) int {
	w := width / 3
	if w < minFormPaneW {
		w = minFormPaneW
	}
	if w > maxFormPaneW {
		w = maxFormPaneW
	}
	return w
}

func (m appModel) bodyHeight() int {
	h := m.height - 4
	if m.state.SuccessBanner {
		h--
	}
	if m.state.Error.Open {
		h--
	}
	if h < 8 {
		h = 8
	}
	return h
}

func (m *appModel) resizeInputs() {
	w := m.formPaneWidth(m.width) - 4
	if w < 10 {
		w = 10
	}
	for i := range m.inputs {
		m.inputs[i].Width = w
	}
}

func (m appModel) viewForm(width int) string {
	title := "New developer"
	if m.state.Editing() {
		title = "Edit developer #" + m.state.Selection.ID.String()
	}
	titleStyle := lipgloss.NewStyle().Bold(true)
	if m.focus.isField() {
		titleStyle = titleStyle.Foreground(colorAccent)
	}

	lines := []string{titleStyle.Render(title), ""}
	labels := [focusTable]string{"Name", "Age", "Skills"}
	for i := range m.inputs {
		f := focusArea(i)
		label := lipgloss.NewStyle().Foreground(colorChromeFg).Render(labels[i])
		if m.focus == f {
			label = lipgloss.NewStyle().Bold(true).Render("› " + labels[i])
		}
		lines = append(lines, label, renderInputLine(width-2, m.inputs[i].View()))
		if msg := m.state.FieldError(f.field()); msg != "" {
			lines = append(lines, lipgloss.NewStyle().Foreground(colorFieldErr).Render("  "+msg))
		} else {
			lines = append(lines, "")
		}
	}
	lines = append(lines, styleMuted().Render("ctrl+s: save   esc: table"))
	return strings.Join(lines, "\n")
}

// tableColumns splits width into #, name, age and skills columns.
func tableColumns(width int) (num, name, age, skills int) {
	rest := width - colNumW - colAgeW - 3
	if rest < 8 {
		rest = 8
	}
	name = rest * 2 / 5
	return colNumW, name, colAgeW, rest - name
}

func (m appModel) viewTable(width int) string {
	numW, nameW, ageW, skillsW := tableColumns(width)
	row := func(cells ...string) string {
		return strings.Join([]string{
			fitCell(lipgloss.PlaceHorizontal(numW, lipgloss.Right, cells[0]), numW),
			fitCell(cells[1], nameW),
			fitCell(cells[2], ageW),
			fitCell(cells[3], skillsW),
		}, " ")
	}

	title := lipgloss.NewStyle().Bold(true)
	if m.focus == focusTable {
		title = title.Foreground(colorAccent)
	}
	lines := []string{title.Render("Developers")}
	if m.state.Loading {
		lines = append(lines, "", m.spinner.View()+" Loading…")
		return strings.Join(lines, "\n")
	}

	lines = append(lines, lipgloss.NewStyle().Bold(true).Render(row("#", "Name", "Age", "Skills")))
	lines = append(lines, lipgloss.NewStyle().Foreground(colorBorder).Render(strings.Repeat("─", width)))

	vis := m.state.Visible()
	if len(vis) == 0 {
		lines = append(lines, styleMuted().Render("  No developers yet. Fill in the form and press ctrl+s."))
	}
	for i, d := range vis {
		ln := row(fmt.Sprintf("%d", i+1), oneLine(d.Name), model.FormatAge(d.Age), oneLine(d.Skills))
		st := lipgloss.NewStyle()
		switch {
		case m.focus == focusTable && i == m.row:
			st = st.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
		case i%2 == 0:
			st = st.Background(colorStripeBg)
		}
		lines = append(lines, st.Render(ln))
	}
	for i := 0; i < m.state.Padding(); i++ {
		lines = append(lines, "")
	}

	cur := m.state.Cursor
	n := len(m.state.Records)
	pageInfo := fmt.Sprintf("Rows per page: %s   %s", pager.SizeLabel(cur.PageSize), pager.Range(n, cur))
	if !cur.ShowsAll() {
		pageInfo += fmt.Sprintf("   page %d/%d", cur.Page+1, pager.PageCount(n, cur))
	}
	lines = append(lines, "", styleMuted().Render(pageInfo))
	return strings.Join(lines, "\n")
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
