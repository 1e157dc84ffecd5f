package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"devroster/internal/api"
	"devroster/internal/controller"
	"devroster/internal/model"
	"devroster/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newRouter(recs ...model.Developer) http.Handler {
	return NewRouter(Options{Store: store.NewMemoryStore(recs...), Log: zerolog.Nop()})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func TestRoutes_CRUD(t *testing.T) {
	h := newRouter()

	w := do(t, h, http.MethodGet, BasePath+"/listado", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(t, h, http.MethodPost, BasePath+"/crear/", `{"nombre":"Ana","edad":"30","habilidades":"Go"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":1,"nombre":"Ana","edad":30,"habilidades":"Go"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	w = do(t, h, http.MethodPost, BasePath+"/actualizar/1", `{"id":1,"nombre":"Ana M","edad":31,"habilidades":"Go, SQL"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":1,"nombre":"Ana M","edad":31,"habilidades":"Go, SQL"}`, w.Body.String())

	w = do(t, h, http.MethodGet, BasePath+"/listado", "")
	recs := decode[[]model.Developer](t, w)
	require.Len(t, recs, 1)
	assert.Equal(t, "Ana M", recs[0].Name)

	w = do(t, h, http.MethodDelete, BasePath+"/eliminar/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[messageBody](t, w).Message)

	w = do(t, h, http.MethodGet, BasePath+"/listado", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestRoutes_Errors(t *testing.T) {
	h := newRouter(model.Developer{Name: "Ana", Skills: "Go"})

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantFields map[string]string
	}{
		{
			name: "update unknown id", method: http.MethodPost, path: BasePath + "/actualizar/42",
			body: `{"nombre":"Lu","habilidades":"Rust"}`, wantStatus: http.StatusNotFound,
		},
		{name: "delete unknown id", method: http.MethodDelete, path: BasePath + "/eliminar/42", wantStatus: http.StatusNotFound},
		{name: "delete non-numeric id", method: http.MethodDelete, path: BasePath + "/eliminar/abc", wantStatus: http.StatusNotFound},
		{
			name: "create missing fields", method: http.MethodPost, path: BasePath + "/crear/",
			body: `{"nombre":"A"}`, wantStatus: http.StatusBadRequest,
			wantFields: map[string]string{model.FieldName: model.MsgMinLength, model.FieldSkills: model.MsgSkillsRequired},
		},
		{
			name: "create malformed json", method: http.MethodPost, path: BasePath + "/crear/",
			body: `{"nombre":`, wantStatus: http.StatusBadRequest,
		},
		{name: "unknown route", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			body := decode[errorBody](t, w)
			assert.NotEmpty(t, body.Message)
			if tt.wantFields != nil {
				assert.Equal(t, tt.wantFields, body.Errors)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	w := do(t, newRouter(), http.MethodOptions, BasePath+"/crear/", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	r := NewRouter(Options{Store: panicStore{}, Log: zerolog.Nop()})
	w := do(t, r, http.MethodGet, BasePath+"/listado", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

type panicStore struct{ store.Store }

func (panicStore) List(context.Context) ([]model.Developer, error) { panic("boom") }

// The controller, the HTTP client and the server agree on the wire contract.
func TestRoundTrip_ControllerOverHTTP(t *testing.T) {
	srv := httptest.NewServer(newRouter(model.Developer{Name: "Ana", Skills: "Go"}))
	defer srv.Close()

	client, err := api.New(api.Options{BaseURL: srv.URL + BasePath + "/", Timeout: 5 * time.Second})
	require.NoError(t, err)

	ctx := context.Background()
	sess := controller.NewSession(controller.Runner{Service: client}, controller.NewState(controller.Settings{}))

	st := sess.Dispatch(ctx, controller.Load{})
	require.False(t, st.Loading)
	require.Len(t, st.Records, 1)

	sess.Dispatch(ctx, controller.EditField{Field: model.FieldName, Value: "Luis"})
	sess.Dispatch(ctx, controller.EditField{Field: model.FieldAge, Value: "41"})
	sess.Dispatch(ctx, controller.EditField{Field: model.FieldSkills, Value: "Rust"})
	st = sess.Dispatch(ctx, controller.Submit{})
	require.False(t, st.Error.Open, st.Error.Message)
	require.True(t, st.SuccessBanner)
	require.NotNil(t, st.Outcome)
	assert.Equal(t, http.StatusCreated, st.Outcome.Status)

	st = sess.Dispatch(ctx, controller.Refresh{})
	require.Len(t, st.Records, 2)
	luis, ok := model.FindByID(st.Records, "2")
	require.True(t, ok)
	assert.Equal(t, "Luis", luis.Name)
	require.NotNil(t, luis.Age)
	assert.Equal(t, 41.0, *luis.Age)

	sess.Dispatch(ctx, controller.RequestDelete{Record: luis})
	st = sess.Dispatch(ctx, controller.ConfirmDelete{})
	require.False(t, st.Error.Open, st.Error.Message)
	assert.False(t, st.ModalOpen)
	assert.Len(t, st.Records, 1)

	// Updating a record that is gone surfaces the server's 404 message.
	sess.Dispatch(ctx, controller.SelectForEdit{Record: luis})
	st = sess.Dispatch(ctx, controller.Submit{})
	require.True(t, st.Error.Open)
	assert.Equal(t, "developer 2 not found", st.Error.Message)
}

func TestServer_RunAndShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{Addr: "127.0.0.1:0", Handler: newRouter(), Log: zerolog.Nop()}

	addrCh := make(chan string, 1)
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, func(addr string) { addrCh <- addr }) }()

	addr := <-addrCh
	resp, err := http.Get("http://" + addr + BasePath + "/listado")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
