package tui

import (
	"devroster/internal/controller"
	"devroster/internal/model"
	"devroster/internal/pager"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Init() tea.Cmd {
	_, effs := controller.Update(m.state, controller.Load{})
	return tea.Batch(m.spinner.Tick, textinput.Blink, m.effectCmds(effs))
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeInputs()
		return m, nil

	case spinner.TickMsg:
		// Stop ticking once the first load lands.
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case controllerMsg:
		if msg.ev == nil {
			return m, nil
		}
		return m, m.dispatch(msg.ev)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	// Cursor blink and other textinput internals.
	if m.focus.isField() {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.modal {
	case modalConfirmDelete:
		return m.updateConfirmModal(msg)
	case modalHelp:
		switch msg.String() {
		case "esc", "?", "q", "enter", "ctrl+g":
			m.modal = modalNone
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Dismiss) && m.state.Error.Open {
		return m, m.dispatch(controller.DismissError{})
	}

	switch {
	case key.Matches(msg, m.keys.Focus):
		m.setFocus(m.focus + 1)
		return m, nil
	case key.Matches(msg, m.keys.FocusBack):
		m.setFocus(m.focus - 1)
		return m, nil
	case key.Matches(msg, m.keys.Save):
		return m, m.dispatch(controller.Submit{})
	}

	if m.focus.isField() {
		return m.updateForm(msg)
	}
	return m.updateTable(msg)
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.focus == focusSkills {
			return m, m.dispatch(controller.Submit{})
		}
		m.setFocus(m.focus + 1)
		return m, nil
	case "down":
		if m.focus < focusSkills {
			m.setFocus(m.focus + 1)
		}
		return m, nil
	case "up":
		if m.focus > focusName {
			m.setFocus(m.focus - 1)
		}
		return m, nil
	case "esc":
		m.setFocus(focusTable)
		return m, nil
	}

	f := m.focus
	prev := m.inputs[f].Value()
	var cmd tea.Cmd
	m.inputs[f], cmd = m.inputs[f].Update(msg)
	if v := m.inputs[f].Value(); v != prev {
		return m, tea.Batch(cmd, m.dispatch(controller.EditField{Field: f.field(), Value: v}))
	}
	return m, cmd
}

func (m appModel) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	vis := m.state.Visible()
	cur := m.state.Cursor

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.modal = modalHelp
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.row < len(vis)-1 {
			m.row++
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		rec, ok := m.selectedRecord()
		if !ok {
			return m, nil
		}
		cmd := m.dispatch(controller.SelectForEdit{Record: rec})
		m.setFocus(focusName)
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		rec, ok := m.selectedRecord()
		if !ok {
			return m, nil
		}
		cmd := m.dispatch(controller.RequestDelete{Record: rec})
		if m.state.ModalOpen {
			m.modal = modalConfirmDelete
			m.confirmFocus = confirmFocusCancel
			m.deleting = false
		}
		return m, cmd

	case key.Matches(msg, m.keys.Prev):
		if cur.Page == 0 {
			return m, nil
		}
		m.row = 0
		return m, m.dispatch(controller.ChangePage{Page: cur.Page - 1})

	case key.Matches(msg, m.keys.Next):
		if cur.Page >= pager.LastPage(len(m.state.Records), cur) {
			return m, nil
		}
		m.row = 0
		return m, m.dispatch(controller.ChangePage{Page: cur.Page + 1})

	case key.Matches(msg, m.keys.PageSize):
		m.row = 0
		return m, m.dispatch(controller.ChangePageSize{Size: pager.NextSize(cur.PageSize)})

	case key.Matches(msg, m.keys.Refresh):
		return m, m.dispatch(controller.Refresh{})

	case key.Matches(msg, m.keys.New):
		cmd := m.dispatch(controller.ClearSelection{})
		m.setFocus(focusName)
		return m, cmd

	case key.Matches(msg, m.keys.Dismiss):
		if m.state.SuccessBanner {
			return m, m.dispatch(controller.DismissSuccess{})
		}
	}
	return m, nil
}

func (m appModel) updateConfirmModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.deleting {
		// Waiting on the delete call; the completion closes the modal.
		return m, nil
	}
	switch msg.String() {
	case "esc", "ctrl+g", "n":
		cmd := m.dispatch(controller.CancelDelete{})
		m.modal = modalNone
		return m, cmd
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		return m.confirmDelete()
	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return m.confirmDelete()
		}
		cmd := m.dispatch(controller.CancelDelete{})
		m.modal = modalNone
		return m, cmd
	}
	return m, nil
}

func (m appModel) confirmDelete() (tea.Model, tea.Cmd) {
	cmd := m.dispatch(controller.ConfirmDelete{})
	if m.state.ModalOpen {
		m.deleting = true
	}
	return m, cmd
}

// selectedRecord is the record under the table cursor.
func (m appModel) selectedRecord() (model.Developer, bool) {
	vis := m.state.Visible()
	if m.row < 0 || m.row >= len(vis) {
		return model.Developer{}, false
	}
	return vis[m.row], true
}
