package tui

import (
	"context"
	"time"

	"devroster/internal/controller"
	"devroster/internal/pager"
	"devroster/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

type appModel struct {
	ctx         context.Context
	runner      controller.Runner
	state       controller.State
	bannerDelay time.Duration

	// stateDir holds tui_state.json; empty disables persistence.
	stateDir string
	log      zerolog.Logger

	width  int
	height int

	focus  focusArea
	inputs [focusTable]textinput.Model
	// row is the cursor within the visible page.
	row int

	modal        modalKind
	confirmFocus confirmModalFocus
	// deleting is set between confirm and the delete completing.
	deleting bool

	spinner spinner.Model
	keys    keyMap
	help    help.Model
}

func newAppModel(opts Options) appModel {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	delay := opts.BannerDelay
	if delay <= 0 {
		delay = controller.DefaultBannerDelay
	}

	settings := opts.Settings
	if !opts.PageSizeExplicit {
		if st, err := store.LoadTUIState(opts.StateDir); err == nil && st.PageSize != nil && pager.ValidSize(*st.PageSize) {
			settings.PageSize = *st.PageSize
		} else if err != nil {
			opts.Log.Warn().Err(err).Msg("load tui state")
		}
	}

	m := appModel{
		ctx: ctx,
		runner: controller.Runner{
			Service:     opts.Service,
			BannerDelay: delay,
			Log:         opts.Log,
		},
		state:       controller.NewState(settings),
		bannerDelay: delay,
		stateDir:    opts.StateDir,
		log:         opts.Log,
		focus:       focusName,
		keys:        defaultKeyMap(),
		help:        help.New(),
	}

	placeholders := [focusTable]string{"Name", "Age", "Skills"}
	limits := [focusTable]int{120, 12, 300}
	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = limits[i]
		in.Prompt = ""
		in.Width = 30
		m.inputs[i] = in
	}
	m.inputs[focusName].Focus()

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	return m
}

// dispatch applies ev and returns the commands for the resulting effects.
func (m *appModel) dispatch(ev controller.Event) tea.Cmd {
	prevSize := m.state.Cursor.PageSize
	var effs []controller.Effect
	m.state, effs = controller.Update(m.state, ev)

	m.syncInputs()
	m.clampRow()
	if m.state.Cursor.PageSize != prevSize {
		m.saveUIState()
	}
	if m.modal == modalConfirmDelete && !m.state.ModalOpen {
		m.modal = modalNone
		m.deleting = false
	}
	return m.effectCmds(effs)
}

// effectCmds turns effects into commands. Banner timers use tea.Tick so the program
// stays responsive; network effects run in their own command goroutine.
func (m appModel) effectCmds(effs []controller.Effect) tea.Cmd {
	if len(effs) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(effs))
	for _, eff := range effs {
		if t, ok := eff.(controller.StartBannerTimer); ok {
			seq := t.Seq
			cmds = append(cmds, tea.Tick(m.bannerDelay, func(time.Time) tea.Msg {
				return controllerMsg{ev: controller.BannerExpired{Seq: seq}}
			}))
			continue
		}
		eff := eff
		runner, ctx := m.runner, m.ctx
		cmds = append(cmds, func() tea.Msg {
			return controllerMsg{ev: runner.Run(ctx, eff)}
		})
	}
	return tea.Batch(cmds...)
}

// syncInputs makes the text inputs show the current selection. Typing keeps them equal
// through EditField, so this only changes anything after select or reset.
func (m *appModel) syncInputs() {
	for i := range m.inputs {
		want := m.state.Selection.Get(focusArea(i).field())
		if m.inputs[i].Value() != want {
			m.inputs[i].SetValue(want)
			m.inputs[i].CursorEnd()
		}
	}
}

func (m *appModel) clampRow() {
	n := len(m.state.Visible())
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m *appModel) setFocus(f focusArea) {
	if f < 0 {
		f = focusCount - 1
	}
	f %= focusCount
	if f != m.focus {
		m.log.Debug().Str("focus", focusToString(f)).Msg("focus")
	}
	m.focus = f
	for i := range m.inputs {
		if focusArea(i) == f {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m appModel) saveUIState() {
	size := m.state.Cursor.PageSize
	if err := store.SaveTUIState(m.stateDir, &store.TUIState{PageSize: &size}); err != nil {
		m.log.Warn().Err(err).Msg("save tui state")
	}
}
