package tui

import (
	"context"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"devroster/internal/api"
	"devroster/internal/controller"
	"devroster/internal/model"
	"devroster/internal/pager"
	"devroster/internal/server"
	"devroster/internal/store"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testApp struct {
	m     appModel
	store *store.MemoryStore
	dir   string
}

func age(v float64) *float64 { return &v }

func newTestApp(t *testing.T, delay time.Duration, recs ...model.Developer) *testApp {
	t.Helper()
	st := store.NewMemoryStore(recs...)
	srv := httptest.NewServer(server.NewRouter(server.Options{Store: st, Log: zerolog.Nop()}))
	t.Cleanup(srv.Close)

	client, err := api.New(api.Options{BaseURL: srv.URL + server.BasePath + "/", Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	dir := t.TempDir()
	m := newAppModel(Options{
		Context:     context.Background(),
		Service:     client,
		Settings:    controller.Settings{Policy: controller.RefetchOnBannerClear},
		BannerDelay: delay,
		StateDir:    dir,
		Log:         zerolog.Nop(),
	})
	for i := range m.inputs {
		m.inputs[i].Cursor.SetMode(cursor.CursorStatic)
	}
	a := &testApp{m: m, store: st, dir: dir}
	a.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	a.drain(m.Init())
	if a.m.state.Loading {
		t.Fatalf("expected initial load to finish")
	}
	return a
}

// runCmd executes cmd, giving up on commands that block (cursor blink, long timers).
func runCmd(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

// drain runs cmd and feeds controller results back into the model until nothing is left.
func (a *testApp) drain(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 200; steps++ {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := runCmd(c).(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case controllerMsg:
			next, more := a.m.Update(msg)
			a.m = next.(appModel)
			queue = append(queue, more)
		}
	}
}

func (a *testApp) send(msg tea.Msg) tea.Cmd {
	next, cmd := a.m.Update(msg)
	a.m = next.(appModel)
	return cmd
}

func (a *testApp) press(keys ...tea.KeyMsg) {
	for _, k := range keys {
		a.drain(a.send(k))
	}
}

func (a *testApp) typeText(s string) {
	for _, r := range s {
		a.press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func (a *testApp) stored(t *testing.T) []model.Developer {
	t.Helper()
	recs, err := a.store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return recs
}

func TestApp_InitLoadsAndRendersTable(t *testing.T) {
	a := newTestApp(t, time.Millisecond,
		model.Developer{Name: "Ana", Age: age(30), Skills: "Go"},
		model.Developer{Name: "Beto", Skills: "SQL"},
	)
	if got := len(a.m.state.Records); got != 2 {
		t.Fatalf("expected 2 records, got %d", got)
	}
	v := a.m.View()
	for _, want := range []string{"devroster", "New developer", "Ana", "Beto", "30", "Rows per page: All", "1-2 of 2"} {
		if !strings.Contains(v, want) {
			t.Fatalf("expected view to contain %q:\n%s", want, v)
		}
	}
}

func TestApp_TypeAndSaveCreatesDeveloper(t *testing.T) {
	a := newTestApp(t, time.Millisecond)

	a.typeText("Carla")
	a.press(keyTab)
	a.typeText("29")
	a.press(keyTab)
	a.typeText("Go, Rust")
	if got := a.m.state.Selection; got.Name != "Carla" || got.Age != "29" || got.Skills != "Go, Rust" {
		t.Fatalf("unexpected selection: %+v", got)
	}

	a.press(keySave)

	recs := a.stored(t)
	if len(recs) != 1 || recs[0].Name != "Carla" || model.FormatAge(recs[0].Age) != "29" {
		t.Fatalf("unexpected stored records: %+v", recs)
	}
	// The 1ms banner has expired and triggered the refetch.
	if a.m.state.SuccessBanner {
		t.Fatalf("expected banner to be cleared")
	}
	if len(a.m.state.Records) != 1 {
		t.Fatalf("expected refetched table, got %+v", a.m.state.Records)
	}
	if !a.m.state.Selection.IsZero() {
		t.Fatalf("expected form reset, got %+v", a.m.state.Selection)
	}
	for i := range a.m.inputs {
		if v := a.m.inputs[i].Value(); v != "" {
			t.Fatalf("expected input %d cleared, got %q", i, v)
		}
	}
}

func TestApp_InvalidFormShowsFieldErrorsWithoutCalling(t *testing.T) {
	a := newTestApp(t, time.Millisecond)

	a.typeText("A")
	a.press(keyTab)
	a.typeText("x")
	a.press(keySave)

	if len(a.stored(t)) != 0 {
		t.Fatalf("expected no create call")
	}
	if got := a.m.state.FieldError(model.FieldName); got != model.MsgMinLength {
		t.Fatalf("name error: got %q", got)
	}
	if got := a.m.state.FieldError(model.FieldAge); got != model.MsgNumericOnly {
		t.Fatalf("age error: got %q", got)
	}
	v := a.m.View()
	if !strings.Contains(v, model.MsgNumericOnly) || !strings.Contains(v, model.MsgSkillsRequired) {
		t.Fatalf("expected field errors in view:\n%s", v)
	}

	// Fixing a field clears only its error.
	a.press(tea.KeyMsg{Type: tea.KeyBackspace})
	a.typeText("3")
	if got := a.m.state.FieldError(model.FieldAge); got != "" {
		t.Fatalf("expected age error cleared, got %q", got)
	}
	if a.m.state.FieldError(model.FieldName) == "" {
		t.Fatalf("expected name error to remain")
	}
}

func TestApp_EditFromTableUpdatesRecord(t *testing.T) {
	a := newTestApp(t, time.Hour, model.Developer{Name: "Ana", Age: age(30), Skills: "Go"})

	a.press(keyEsc)
	if a.m.focus != focusTable {
		t.Fatalf("expected table focus, got %s", focusToString(a.m.focus))
	}
	a.press(runes("e"))
	if a.m.focus != focusName || a.m.state.Selection.Name != "Ana" || a.m.inputs[focusName].Value() != "Ana" {
		t.Fatalf("expected form filled from row, got focus=%s sel=%+v", focusToString(a.m.focus), a.m.state.Selection)
	}
	if !strings.Contains(a.m.View(), "Edit developer #1") {
		t.Fatalf("expected edit title in view")
	}

	a.typeText("lia")
	a.press(keySave)

	recs := a.stored(t)
	if len(recs) != 1 || recs[0].Name != "Analia" || recs[0].ID != "1" {
		t.Fatalf("unexpected stored records: %+v", recs)
	}
	if !a.m.state.SuccessBanner {
		t.Fatalf("expected success banner")
	}
	if !strings.Contains(a.m.View(), successMessage) {
		t.Fatalf("expected success message in view")
	}
	// Banner policy: the table keeps the old copy until the banner clears.
	if a.m.state.Records[0].Name != "Ana" {
		t.Fatalf("expected no refetch yet, got %+v", a.m.state.Records)
	}
}

func TestApp_DeleteConfirmFlow(t *testing.T) {
	a := newTestApp(t, time.Hour,
		model.Developer{Name: "Ana", Skills: "Go"},
		model.Developer{Name: "Beto", Skills: "SQL"},
	)
	a.press(keyEsc, runes("j"), runes("d"))

	if a.m.modal != modalConfirmDelete || !a.m.state.ModalOpen {
		t.Fatalf("expected delete modal")
	}
	if a.m.confirmFocus != confirmFocusCancel {
		t.Fatalf("expected cancel to be focused first")
	}
	if v := a.m.View(); !strings.Contains(v, "Delete developer: Beto ?") {
		t.Fatalf("expected modal title in view:\n%s", v)
	}

	a.press(runes("y"))

	if a.m.modal != modalNone || a.m.state.ModalOpen || a.m.deleting {
		t.Fatalf("expected modal closed after delete")
	}
	recs := a.stored(t)
	if len(recs) != 1 || recs[0].Name != "Ana" {
		t.Fatalf("unexpected stored records: %+v", recs)
	}
	if len(a.m.state.Records) != 1 {
		t.Fatalf("expected immediate refetch after delete, got %+v", a.m.state.Records)
	}
	if !a.m.state.SuccessBanner || !a.m.state.Selection.IsZero() {
		t.Fatalf("expected banner and cleared selection, got %+v", a.m.state)
	}
}

func TestApp_DeleteCancel(t *testing.T) {
	a := newTestApp(t, time.Millisecond, model.Developer{Name: "Ana", Skills: "Go"})

	a.press(keyEsc, runes("d"), keyEnter)
	if a.m.modal != modalNone || a.m.state.ModalOpen {
		t.Fatalf("expected enter on cancel to close the modal")
	}
	a.press(runes("d"), keyEsc)
	if a.m.modal != modalNone {
		t.Fatalf("expected esc to close the modal")
	}
	if len(a.stored(t)) != 1 {
		t.Fatalf("expected no delete")
	}
}

func TestApp_DeleteFailureShowsError(t *testing.T) {
	a := newTestApp(t, time.Millisecond, model.Developer{Name: "Ana", Skills: "Go"})
	if err := a.store.Delete(context.Background(), "1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	a.press(keyEsc, runes("d"), keyTab, keyEnter)

	if a.m.modal != modalNone {
		t.Fatalf("expected modal closed")
	}
	if !a.m.state.Error.Open || !strings.Contains(a.m.state.Error.Message, "developer 1 not found") {
		t.Fatalf("expected error banner, got %+v", a.m.state.Error)
	}
	if !strings.Contains(a.m.View(), "developer 1 not found") {
		t.Fatalf("expected error in view")
	}
	a.press(keyEsc)
	if a.m.state.Error.Open {
		t.Fatalf("expected esc to dismiss the error")
	}
}

func TestApp_PageSizeCyclesAndPersists(t *testing.T) {
	var recs []model.Developer
	for _, n := range []string{"Ana", "Beto", "Carla", "Dario"} {
		recs = append(recs, model.Developer{Name: n, Skills: "Go"})
	}
	a := newTestApp(t, time.Millisecond, recs...)

	a.press(keyEsc, runes("p"))
	if got := a.m.state.Cursor.PageSize; got != 3 {
		t.Fatalf("expected page size 3, got %d", got)
	}
	if v := a.m.View(); !strings.Contains(v, "1-3 of 4") || !strings.Contains(v, "page 1/2") || strings.Contains(v, "Dario") {
		t.Fatalf("unexpected first page:\n%s", v)
	}

	a.press(runes("l"))
	if a.m.state.Cursor.Page != 1 || len(a.m.state.Visible()) != 1 || a.m.state.Padding() != 2 {
		t.Fatalf("unexpected second page: %+v", a.m.state.Cursor)
	}
	a.press(runes("l"))
	if a.m.state.Cursor.Page != 1 {
		t.Fatalf("expected next to stop at the last page")
	}

	a.press(runes("p"))
	if a.m.state.Cursor.PageSize != 6 || a.m.state.Cursor.Page != 0 {
		t.Fatalf("expected size 6 on first page, got %+v", a.m.state.Cursor)
	}

	st, err := store.LoadTUIState(a.dir)
	if err != nil || st.PageSize == nil || *st.PageSize != 6 {
		t.Fatalf("expected persisted page size 6, got %+v err=%v", st, err)
	}

	restored := newAppModel(Options{Service: a.m.runner.Service, StateDir: a.dir, Log: zerolog.Nop()})
	if restored.state.Cursor.PageSize != 6 {
		t.Fatalf("expected restored page size 6, got %d", restored.state.Cursor.PageSize)
	}
	explicit := newAppModel(Options{
		Service:          a.m.runner.Service,
		Settings:         controller.Settings{PageSize: pager.All},
		PageSizeExplicit: true,
		StateDir:         a.dir,
		Log:              zerolog.Nop(),
	})
	if !explicit.state.Cursor.ShowsAll() {
		t.Fatalf("expected explicit page size to win")
	}
}

func TestApp_StaleBannerTickIgnored(t *testing.T) {
	a := newTestApp(t, time.Hour, model.Developer{Name: "Ana", Skills: "Go"})
	a.press(keyEsc, runes("e"), keySave)
	if !a.m.state.SuccessBanner {
		t.Fatalf("expected success banner")
	}

	a.drain(a.send(controllerMsg{ev: controller.BannerExpired{Seq: a.m.state.BannerSeq() - 1}}))
	if !a.m.state.SuccessBanner {
		t.Fatalf("expected stale tick to be ignored")
	}
	a.drain(a.send(controllerMsg{ev: controller.BannerExpired{Seq: a.m.state.BannerSeq()}}))
	if a.m.state.SuccessBanner {
		t.Fatalf("expected current tick to clear the banner")
	}
}

func TestApp_HelpModal(t *testing.T) {
	a := newTestApp(t, time.Millisecond)
	a.press(keyEsc, runes("?"))
	if a.m.modal != modalHelp {
		t.Fatalf("expected help modal")
	}
	if v := a.m.View(); !strings.Contains(v, "Help") || !strings.Contains(v, "ctrl+s") {
		t.Fatalf("unexpected help view:\n%s", v)
	}
	a.press(keyEsc)
	if a.m.modal != modalNone {
		t.Fatalf("expected help closed")
	}
}

func TestApp_FocusWraps(t *testing.T) {
	a := newTestApp(t, time.Millisecond)
	for i := 0; i < int(focusCount); i++ {
		a.press(keyTab)
	}
	if a.m.focus != focusName {
		t.Fatalf("expected focus to wrap to name, got %s", focusToString(a.m.focus))
	}
	a.press(tea.KeyMsg{Type: tea.KeyShiftTab})
	if a.m.focus != focusTable {
		t.Fatalf("expected shift+tab to wrap to table, got %s", focusToString(a.m.focus))
	}
}
