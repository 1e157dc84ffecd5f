package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"devroster/internal/model"
	"devroster/internal/server"
	"devroster/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// isolate keeps tests away from ~/.devroster and the caller's DEVROSTER_* environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DEVROSTER_CONFIG_DIR", dir)
	for _, k := range []string{
		"DEVROSTER_BASE_URL", "DEVROSTER_TIMEOUT", "DEVROSTER_BANNER_DELAY", "DEVROSTER_PAGE_SIZE",
		"DEVROSTER_REFETCH", "DEVROSTER_LOG_FILE", "DEVROSTER_LOG_LEVEL", "DEVROSTER_SERVER_ADDR",
		"DEVROSTER_SERVER_DB", "DEVROSTER_FORMAT", "DEVROSTER_CONFIG",
	} {
		t.Setenv(k, "")
	}
	withTerminal(t, false)
	return dir
}

func withTerminal(t *testing.T, tty bool) {
	t.Helper()
	old := stdinIsTerminal
	stdinIsTerminal = func() bool { return tty }
	t.Cleanup(func() { stdinIsTerminal = old })
}

type scriptedPrompter struct {
	answers map[string]string
	confirm bool
	asked   []string
}

func (p *scriptedPrompter) Input(message, def string, validate func(string) error) (string, error) {
	p.asked = append(p.asked, message)
	v := p.answers[message]
	if validate != nil {
		if err := validate(v); err != nil {
			return "", err
		}
	}
	return v, nil
}

func (p *scriptedPrompter) Confirm(message string, def bool) (bool, error) {
	p.asked = append(p.asked, message)
	return p.confirm, nil
}

func withPrompter(t *testing.T, p prompter) {
	t.Helper()
	old := newPrompter
	newPrompter = func() prompter { return p }
	t.Cleanup(func() { newPrompter = old })
}

type backend struct {
	url   string
	store *store.MemoryStore
}

func newBackend(t *testing.T, recs ...model.Developer) backend {
	t.Helper()
	st := store.NewMemoryStore(recs...)
	srv := httptest.NewServer(server.NewRouter(server.Options{Store: st, Log: zerolog.Nop()}))
	t.Cleanup(srv.Close)
	return backend{url: srv.URL + server.BasePath + "/", store: st}
}

func (b backend) records(t *testing.T) []model.Developer {
	t.Helper()
	recs, err := b.store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return recs
}

func devs(names ...string) []model.Developer {
	out := make([]model.Developer, 0, len(names))
	for _, n := range names {
		out = append(out, model.Developer{Name: n, Skills: "Go"})
	}
	return out
}

func mustRun(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: devroster %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, stderr, stdout)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s", err, stdout)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return env
}

func TestList_PagesThroughRecords(t *testing.T) {
	isolate(t)
	b := newBackend(t, devs("Ana", "Beto", "Carla", "Dario")...)

	env := mustRun(t, "--base-url", b.url, "list", "--page-size", "3", "--page", "2")
	data, _ := env["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("expected 1 row on page 2, got %v", env["data"])
	}
	if name := data[0].(map[string]any)["nombre"]; name != "Dario" {
		t.Fatalf("expected Dario, got %v", name)
	}
	meta := env["meta"].(map[string]any)
	want := map[string]any{"total": 4.0, "page": 2.0, "pages": 2.0, "pageSize": "3", "range": "4-4 of 4", "padding": 2.0}
	for k, v := range want {
		if meta[k] != v {
			t.Fatalf("meta[%s]: got %v, want %v (meta=%v)", k, meta[k], v, meta)
		}
	}
}

func TestList_DefaultShowsAll(t *testing.T) {
	isolate(t)
	b := newBackend(t, devs("Ana", "Beto", "Carla", "Dario")...)

	env := mustRun(t, "--base-url", b.url, "list")
	if data, _ := env["data"].([]any); len(data) != 4 {
		t.Fatalf("expected all rows, got %v", env["data"])
	}
	if got := env["meta"].(map[string]any)["pageSize"]; got != "all" {
		t.Fatalf("expected pageSize all, got %v", got)
	}
}

func TestList_TableAndEDNFormats(t *testing.T) {
	isolate(t)
	b := newBackend(t, model.Developer{Name: "Ana", Skills: "Go, SQL"})

	stdout, _, err := runCLI(t, []string{"--base-url", b.url, "--format", "table", "list"})
	if err != nil {
		t.Fatalf("list --format table: %v", err)
	}
	for _, want := range []string{"nombre", "habilidades", "Ana", "Go, SQL"} {
		if !strings.Contains(string(stdout), want) {
			t.Fatalf("expected table to contain %q:\n%s", want, stdout)
		}
	}

	stdout, _, err = runCLI(t, []string{"--base-url", b.url, "--format", "edn", "list"})
	if err != nil {
		t.Fatalf("list --format edn: %v", err)
	}
	if !strings.Contains(string(stdout), `:nombre "Ana"`) {
		t.Fatalf("expected edn output, got:\n%s", stdout)
	}
}

func TestList_ServiceDownFails(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(nil)
	dead := srv.URL + "/"
	srv.Close()

	_, stderr, err := runCLI(t, []string{"--base-url", dead, "list"})
	if err == nil {
		t.Fatalf("expected error against a closed server")
	}
	if !strings.Contains(string(stderr), "list") {
		t.Fatalf("expected list failure on stderr, got %q", stderr)
	}
}

func TestShow(t *testing.T) {
	isolate(t)
	b := newBackend(t, devs("Ana", "Beto")...)

	env := mustRun(t, "--base-url", b.url, "show", "2")
	if got := env["data"].(map[string]any)["nombre"]; got != "Beto" {
		t.Fatalf("expected Beto, got %v", got)
	}

	_, stderr, err := runCLI(t, []string{"--base-url", b.url, "show", "9"})
	var nf notFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected notFoundError, got %v", err)
	}
	if !strings.Contains(string(stderr), "developer not found: 9") {
		t.Fatalf("unexpected stderr: %q", stderr)
	}
}

func TestCreate_WithFlags(t *testing.T) {
	isolate(t)
	b := newBackend(t)

	env := mustRun(t, "--base-url", b.url, "create", "--name", "Carla", "--age", "29", "--skills", "Go, Rust")
	data := env["data"].(map[string]any)
	if data["nombre"] != "Carla" || data["edad"] != 29.0 || data["habilidades"] != "Go, Rust" {
		t.Fatalf("unexpected data: %v", data)
	}
	meta := env["meta"].(map[string]any)
	if meta["op"] != "create" || meta["status"] != 201.0 {
		t.Fatalf("unexpected meta: %v", meta)
	}

	recs := b.records(t)
	if len(recs) != 1 || recs[0].Name != "Carla" {
		t.Fatalf("unexpected stored records: %+v", recs)
	}
}

func TestCreate_ValidationFailsWithoutCalling(t *testing.T) {
	isolate(t)
	b := newBackend(t)

	_, stderr, err := runCLI(t, []string{"--base-url", b.url, "create", "--name", "A", "--age", "x"})
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, want := range []string{
		"nombre: " + model.MsgMinLength,
		"edad: " + model.MsgNumericOnly,
		"habilidades: " + model.MsgSkillsRequired,
	} {
		if !strings.Contains(string(stderr), want) {
			t.Fatalf("expected %q on stderr:\n%s", want, stderr)
		}
	}
	if n := len(b.records(t)); n != 0 {
		t.Fatalf("expected no create call, store has %d records", n)
	}
}

func TestCreate_PromptsForMissingFieldsOnTerminal(t *testing.T) {
	isolate(t)
	withTerminal(t, true)
	p := &scriptedPrompter{answers: map[string]string{"Age:": "41", "Skills:": "COBOL"}}
	withPrompter(t, p)
	b := newBackend(t)

	mustRun(t, "--base-url", b.url, "create", "--name", "Grace")

	if got := strings.Join(p.asked, ","); got != "Age:,Skills:" {
		t.Fatalf("expected prompts for age and skills only, got %q", got)
	}
	recs := b.records(t)
	if len(recs) != 1 || recs[0].Name != "Grace" || recs[0].Skills != "COBOL" || model.FormatAge(recs[0].Age) != "41" {
		t.Fatalf("unexpected stored records: %+v", recs)
	}
}

func TestUpdate_KeepsUnsetFields(t *testing.T) {
	isolate(t)
	age := 30.0
	b := newBackend(t, model.Developer{Name: "Ana", Age: &age, Skills: "Go"})

	env := mustRun(t, "--base-url", b.url, "update", "1", "--skills", "Go, SQL")
	if got := env["meta"].(map[string]any)["status"]; got != 200.0 {
		t.Fatalf("expected status 200, got %v", got)
	}
	recs := b.records(t)
	if len(recs) != 1 || recs[0].Name != "Ana" || recs[0].Skills != "Go, SQL" || model.FormatAge(recs[0].Age) != "30" {
		t.Fatalf("unexpected stored records: %+v", recs)
	}

	_, _, err := runCLI(t, []string{"--base-url", b.url, "update", "7", "--name", "Nobody"})
	var nf notFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected notFoundError, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	isolate(t)
	b := newBackend(t, devs("Ana", "Beto")...)

	_, _, err := runCLI(t, []string{"--base-url", b.url, "delete", "1"})
	if !errors.Is(err, errNeedsConfirmation) {
		t.Fatalf("expected confirmation error without a terminal, got %v", err)
	}

	withTerminal(t, true)
	p := &scriptedPrompter{confirm: false}
	withPrompter(t, p)
	_, _, err = runCLI(t, []string{"--base-url", b.url, "delete", "1"})
	if !errors.Is(err, errCancelled) {
		t.Fatalf("expected cancelled, got %v", err)
	}
	if len(p.asked) != 1 || p.asked[0] != "Delete developer: Ana ?" {
		t.Fatalf("unexpected prompt: %v", p.asked)
	}
	if n := len(b.records(t)); n != 2 {
		t.Fatalf("expected nothing deleted, got %d records", n)
	}

	env := mustRun(t, "--base-url", b.url, "delete", "1", "--yes")
	data := env["data"].(map[string]any)
	if data["id"] != 1.0 || !strings.Contains(data["message"].(string), "deleted") {
		t.Fatalf("unexpected data: %v", data)
	}
	if got := env["meta"].(map[string]any)["remaining"]; got != 1.0 {
		t.Fatalf("expected 1 remaining, got %v", got)
	}
	recs := b.records(t)
	if len(recs) != 1 || recs[0].Name != "Beto" {
		t.Fatalf("unexpected stored records: %+v", recs)
	}
}

func TestConfig_FilePrecedence(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	body := "base_url = \"http://example.test/api\"\npage_size = 6\nrefetch = \"immediate\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DEVROSTER_PAGE_SIZE", "12")

	env := mustRun(t, "--config", path, "--refetch", "banner", "config")
	data := env["data"].(map[string]any)
	if data["baseUrl"] != "http://example.test/api/" {
		t.Fatalf("baseUrl from file: got %v", data["baseUrl"])
	}
	if data["pageSize"] != 12.0 {
		t.Fatalf("pageSize from env: got %v", data["pageSize"])
	}
	if data["refetch"] != "banner" {
		t.Fatalf("refetch from flag: got %v", data["refetch"])
	}
	if got := env["meta"].(map[string]any)["path"]; got != path {
		t.Fatalf("unexpected path: %v", got)
	}

	stdout, _, err := runCLI(t, []string{"--config", path, "config", "--toml"})
	if err != nil {
		t.Fatalf("config --toml: %v", err)
	}
	if !strings.Contains(string(stdout), "base_url = 'http://example.test/api/'") && !strings.Contains(string(stdout), `base_url = "http://example.test/api/"`) {
		t.Fatalf("unexpected toml:\n%s", stdout)
	}
}

func TestConfig_MissingExplicitFileFails(t *testing.T) {
	dir := isolate(t)
	_, _, err := runCLI(t, []string{"--config", filepath.Join(dir, "nope.toml"), "config"})
	if err == nil {
		t.Fatalf("expected error for a missing explicit config file")
	}
}

func TestRoot_RejectsUnknownFormat(t *testing.T) {
	isolate(t)
	_, stderr, err := runCLI(t, []string{"--format", "xml", "config"})
	if err == nil || !strings.Contains(string(stderr), "unknown format") {
		t.Fatalf("expected unknown format error, got %v (%s)", err, stderr)
	}
}

func TestRoot_RejectsBadPageSize(t *testing.T) {
	isolate(t)
	if _, _, err := runCLI(t, []string{"--page-size", "0", "config"}); err == nil {
		t.Fatalf("expected invalid page size to fail")
	}
}

func TestDocs(t *testing.T) {
	isolate(t)
	env := mustRun(t, "docs")
	topics, _ := env["data"].(map[string]any)["topics"].([]any)
	if len(topics) != 3 {
		t.Fatalf("unexpected topics: %v", env["data"])
	}

	stdout, _, err := runCLI(t, []string{"docs", "api", "--raw"})
	if err != nil || !strings.Contains(string(stdout), "eliminar/<id>") {
		t.Fatalf("unexpected raw docs: err=%v\n%s", err, stdout)
	}
	if _, _, err := runCLI(t, []string{"docs", "nope"}); err == nil {
		t.Fatalf("expected unknown topic to fail")
	}
}
