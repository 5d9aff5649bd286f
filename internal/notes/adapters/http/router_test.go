package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonotes/internal/notes/adapters/file"
	notesHTTP "gonotes/internal/notes/adapters/http"
	"gonotes/internal/notes/adapters/http/middleware"
	"gonotes/internal/notes/app"
	"gonotes/internal/notes/config"
	"gonotes/internal/notes/domain/entities"
	"gonotes/internal/notes/domain/view"
)

type testServer struct {
	app  *fiber.App
	repo *file.NoteRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		HTTP: config.HTTPConfig{Port: 8002, Environment: "test"},
		Preferences: config.PreferencesConfig{
			ViewMode: "grid", FontSize: "medium", FontFamily: "sans",
		},
	}

	repo := file.NewNoteRepository(filepath.Join(t.TempDir(), "notes.json"))
	useCase := app.NewNoteUseCase(repo, cfg.Preferences.NoteDefaults())

	fiberApp := fiber.New()
	notesHTTP.SetupRouter(fiberApp, useCase, cfg)

	return &testServer{app: fiberApp, repo: repo}
}

func (s *testServer) do(t *testing.T, method, path, body string) (int, []byte, http.Header) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, data, resp.Header
}

func (s *testServer) create(t *testing.T, body string) entities.Note {
	t.Helper()

	status, data, _ := s.do(t, http.MethodPost, "/api/notes", body)
	require.Equal(t, http.StatusCreated, status, string(data))

	var note entities.Note
	require.NoError(t, json.Unmarshal(data, &note))
	return note
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	status, data, header := s.do(t, http.MethodGet, "/api/health", "")

	require.Equal(t, http.StatusOK, status)
	body := decode[map[string]any](t, data)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "test", body["environment"])
	assert.EqualValues(t, 8002, body["port"])
	assert.NotEmpty(t, body["timestamp"])
	assert.NotEmpty(t, header.Get(middleware.HeaderRequestID))
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-123")
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "req-123", resp.Header.Get(middleware.HeaderRequestID))
}

func TestPreferences(t *testing.T) {
	s := newTestServer(t)

	status, data, _ := s.do(t, http.MethodGet, "/api/preferences", "")

	require.Equal(t, http.StatusOK, status)
	body := decode[map[string]any](t, data)
	assert.Equal(t, "grid", body["viewMode"])
	assert.Equal(t, false, body["darkMode"])
	assert.Equal(t, "medium", body["fontSize"])
	assert.Equal(t, "sans", body["fontFamily"])
}

func TestCreateAndList(t *testing.T) {
	s := newTestServer(t)

	status, data, _ := s.do(t, http.MethodGet, "/api/notes", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(data))

	empty := s.create(t, "")
	assert.Equal(t, entities.TypeText, empty.Type)
	assert.Equal(t, entities.ColorDefault, empty.Color)
	assert.Equal(t, entities.FontSizeMedium, empty.FontSize)
	assert.Equal(t, empty.CreatedAt, empty.UpdatedAt)

	list := s.create(t, `{"title":"Groceries","type":"checklist","checklist":[{"text":"Buy milk","completed":false}]}`)
	require.Len(t, list.Checklist, 1)
	assert.NotEmpty(t, list.Checklist[0].ID)

	status, data, _ = s.do(t, http.MethodGet, "/api/notes", "")
	require.Equal(t, http.StatusOK, status)
	notes := decode[[]entities.Note](t, data)
	require.Len(t, notes, 2)
	assert.Equal(t, list.ID, notes[0].ID, "new notes are prepended")

	status, data, _ = s.do(t, http.MethodGet, "/api/notes?q=MILK", "")
	require.Equal(t, http.StatusOK, status)
	found := decode[[]entities.Note](t, data)
	require.Len(t, found, 1)
	assert.Equal(t, list.ID, found[0].ID)

	status, data, _ = s.do(t, http.MethodGet, "/api/notes?q=%20milk", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]entities.Note](t, data), 1)

	status, data, _ = s.do(t, http.MethodGet, "/api/notes?q=%20groc", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]entities.Note](t, data), "leading space is part of the query")

	status, data, _ = s.do(t, http.MethodGet, "/api/notes?q=%20%20", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]entities.Note](t, data), 2, "blank query does not filter")

	status, data, _ = s.do(t, http.MethodGet, "/api/notes/"+list.ID, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, list.ID, decode[entities.Note](t, data).ID)
}

func TestCreateValidation(t *testing.T) {
	s := newTestServer(t)

	status, data, _ := s.do(t, http.MethodPost, "/api/notes", `{"title": 5, "type": "drawing", "fontSize": "huge"}`)

	require.Equal(t, http.StatusBadRequest, status)
	body := decode[map[string]any](t, data)
	assert.Equal(t, "Validation failed", body["error"])
	assert.Equal(t, []any{
		entities.MsgTitleNotString,
		entities.MsgInvalidType,
		entities.MsgInvalidFontSize,
	}, body["details"])

	status, _, _ = s.do(t, http.MethodPost, "/api/notes", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, status)

	notes, err := s.repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notes, "rejected requests must not persist anything")
}

func TestUpdate(t *testing.T) {
	s := newTestServer(t)
	note := s.create(t, `{"title":"old","content":"body"}`)

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		status, data, _ := s.do(t, method, "/api/notes/"+note.ID, `{"title":"new `+method+`","id":"hijack","isDeleted":true}`)
		require.Equal(t, http.StatusOK, status, string(data))

		updated := decode[entities.Note](t, data)
		assert.Equal(t, note.ID, updated.ID)
		assert.Equal(t, "new "+method, updated.Title)
		assert.Equal(t, "body", updated.Content)
		assert.False(t, updated.IsDeleted)
		assert.True(t, updated.UpdatedAt.After(note.UpdatedAt))
		assert.True(t, note.CreatedAt.Equal(updated.CreatedAt))
	}

	status, data, _ := s.do(t, http.MethodPut, "/api/notes/missing", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"Note not found"}`, string(data))

	status, _, _ = s.do(t, http.MethodPut, "/api/notes/"+note.ID, `{"fontFamily":"comic"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLifecycleRoutes(t *testing.T) {
	s := newTestServer(t)
	a := s.create(t, `{"title":"A"}`)
	b := s.create(t, `{"title":"B"}`)
	c := s.create(t, `{"title":"C"}`)

	status, data, _ := s.do(t, http.MethodPut, "/api/notes/"+b.ID+"/archive", "")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[entities.Note](t, data).IsArchived)

	status, data, _ = s.do(t, http.MethodDelete, "/api/notes/"+c.ID, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"Note moved to trash"}`, string(data))

	status, data, _ = s.do(t, http.MethodGet, "/api/notes/counts", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, view.Counts{All: 1, Archive: 1, Trash: 1}, decode[view.Counts](t, data))

	for v, id := range map[string]string{"all": a.ID, "archive": b.ID, "trash": c.ID} {
		status, data, _ = s.do(t, http.MethodGet, "/api/notes?view="+v, "")
		require.Equal(t, http.StatusOK, status)
		projected := decode[[]entities.Note](t, data)
		require.Len(t, projected, 1, v)
		assert.Equal(t, id, projected[0].ID, v)
	}

	status, _, _ = s.do(t, http.MethodGet, "/api/notes?view=starred", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, data, _ = s.do(t, http.MethodPut, "/api/notes/"+b.ID+"/unarchive", "")
	require.Equal(t, http.StatusOK, status)
	assert.False(t, decode[entities.Note](t, data).IsArchived)

	status, data, _ = s.do(t, http.MethodPut, "/api/notes/"+c.ID+"/restore", "")
	require.Equal(t, http.StatusOK, status)
	restored := decode[entities.Note](t, data)
	assert.False(t, restored.IsDeleted)
	assert.False(t, restored.IsArchived)

	for _, path := range []string{"/restore", "/archive", "/unarchive"} {
		status, _, _ = s.do(t, http.MethodPut, "/api/notes/missing"+path, "")
		assert.Equal(t, http.StatusNotFound, status, path)
	}
}

func TestTrashRoutes(t *testing.T) {
	s := newTestServer(t)
	keep := s.create(t, `{"title":"keep"}`)
	t1 := s.create(t, `{"title":"t1"}`)
	t2 := s.create(t, `{"title":"t2"}`)

	for _, id := range []string{t1.ID, t2.ID} {
		status, _, _ := s.do(t, http.MethodDelete, "/api/notes/"+id, "")
		require.Equal(t, http.StatusOK, status)
	}

	status, data, _ := s.do(t, http.MethodDelete, "/api/notes/trash/empty", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"Trash emptied successfully","deletedCount":2}`, string(data))

	status, data, _ = s.do(t, http.MethodDelete, "/api/notes/trash/empty", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"Trash emptied successfully","deletedCount":0}`, string(data))

	status, data, _ = s.do(t, http.MethodDelete, "/api/notes/"+keep.ID+"/permanent", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"Note permanently deleted"}`, string(data))

	status, _, _ = s.do(t, http.MethodDelete, "/api/notes/"+keep.ID+"/permanent", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _, _ = s.do(t, http.MethodDelete, "/api/notes/"+keep.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestToggleChecklistItem(t *testing.T) {
	s := newTestServer(t)
	note := s.create(t, `{"type":"checklist","checklist":[{"id":"i1","text":"Eggs","completed":false}]}`)

	status, data, _ := s.do(t, http.MethodPut, "/api/notes/"+note.ID+"/checklist/i1/toggle", "")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[entities.Note](t, data).Checklist[0].Completed)

	status, _, _ = s.do(t, http.MethodPut, "/api/notes/"+note.ID+"/checklist/nope/toggle", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	status, data, _ := s.do(t, http.MethodGet, "/api/unknown", "")

	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"API endpoint not found"}`, string(data))
}
