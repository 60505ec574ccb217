package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mappamentis/application/commands/bus"
	cmdhandlers "mappamentis/application/commands/handlers"
	"mappamentis/application/queries"
	querybus "mappamentis/application/queries/bus"
	queryhandlers "mappamentis/application/queries/handlers"
	"mappamentis/application/services"
	"mappamentis/infrastructure/messaging/memory"
	persistence "mappamentis/infrastructure/persistence/memory"
	"mappamentis/interfaces/http/rest"
	"mappamentis/pkg/auth"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
}

type errorBody struct {
	Error   bool   `json:"error"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newTestRouter(t *testing.T, opts rest.RouterOptions) http.Handler {
	t.Helper()
	logger := zap.NewNop()

	maps := persistence.NewMindMapRepository()
	timers := persistence.NewTimerRepository()
	events := memory.NewEventBus(nil, logger)

	mapService := services.NewMindMapService(maps, timers, events, nil, logger)
	timerService := services.NewPomodoroService(timers, maps, events, nil, logger)

	commandBus := bus.NewCommandBus(bus.LoggingMiddleware(logger))
	require.NoError(t, cmdhandlers.NewMindMapCommandHandler(mapService, nil, logger).Register(commandBus))
	require.NoError(t, cmdhandlers.NewTimerCommandHandler(timerService, logger).Register(commandBus))

	queryBus := querybus.NewQueryBus()
	require.NoError(t, queryhandlers.NewQueryHandler(mapService, timerService).Register(queryBus))

	return rest.NewRouter(commandBus, queryBus, logger, opts).Setup()
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.True(t, env.Success)
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func createMap(t *testing.T, h http.Handler, title string) queries.MindMapView {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/maps", map[string]string{
		"title":       title,
		"rootContent": "Central idea",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[queries.MindMapView](t, rec)
}

func TestHealthAndReadiness(t *testing.T) {
	h := newTestRouter(t, rest.RouterOptions{})

	rec := do(t, h, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeData[map[string]string](t, rec)["status"])

	rec = do(t, h, http.MethodGet, "/ready", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	failing := newTestRouter(t, rest.RouterOptions{
		Ready: func(context.Context) error { return errors.New("table unreachable") },
	})
	rec = do(t, failing, http.MethodGet, "/ready", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	h := newTestRouter(t, rest.RouterOptions{})

	rec := do(t, h, http.MethodGet, "/api/v1/nowhere", nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMindMapLifecycle(t *testing.T) {
	h := newTestRouter(t, rest.RouterOptions{})

	m := createMap(t, h, "Thesis")
	require.Len(t, m.Nodes, 1)
	assert.Equal(t, "Thesis", m.Title)
	root := m.Nodes[0]
	base := "/api/v1/maps/" + m.ID

	// free-standing node
	rec := do(t, h, http.MethodPost, base+"/nodes", map[string]interface{}{
		"content": "Related work", "x": 300, "y": 40,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	related := decodeData[queries.NodeView](t, rec)
	assert.Equal(t, queries.Position{X: 300, Y: 40}, related.Position)

	// child node is linked from its parent
	rec = do(t, h, http.MethodPost, base+"/nodes/"+root.ID+"/children", map[string]string{
		"content": "Method", "linkLabel": "uses",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	child := decodeData[queries.NodeView](t, rec)

	rec = do(t, h, http.MethodGet, base+"/nodes/"+root.ID+"/children", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	children := decodeData[[]queries.NodeView](t, rec)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)

	// explicit link
	rec = do(t, h, http.MethodPost, base+"/links", map[string]string{
		"sourceId": root.ID, "targetId": related.ID, "label": "cites",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	withLinks := decodeData[queries.MindMapView](t, rec)
	assert.Len(t, withLinks.Links, 2)

	// partial update keeps the position
	rec = do(t, h, http.MethodPut, base+"/nodes/"+related.ID, map[string]string{"content": "Prior art"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeData[queries.NodeView](t, rec)
	assert.Equal(t, "Prior art", updated.Content)
	assert.Equal(t, related.Position, updated.Position)

	rec = do(t, h, http.MethodGet, base+"/nodes/search?q=prior", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decodeData[[]queries.NodeView](t, rec)
	require.Len(t, found, 1)
	assert.Equal(t, related.ID, found[0].ID)

	// notes
	rec = do(t, h, http.MethodPost, base+"/nodes/"+child.ID+"/notes", map[string]string{
		"title": "Sampling", "content": "# Stratified",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	withNote := decodeData[queries.NodeView](t, rec)
	require.Len(t, withNote.Notes, 1)

	rec = do(t, h, http.MethodDelete, base+"/nodes/"+child.ID+"/notes/"+withNote.Notes[0].ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// removing a node drops its incident links
	rec = do(t, h, http.MethodDelete, base+"/nodes/"+related.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, base, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	final := decodeData[queries.MindMapView](t, rec)
	assert.Len(t, final.Nodes, 2)
	assert.Len(t, final.Links, 1)

	rec = do(t, h, http.MethodDelete, base, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, base, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListMapsPagination(t *testing.T) {
	h := newTestRouter(t, rest.RouterOptions{})
	for _, title := range []string{"One", "Two", "Three"} {
		createMap(t, h, title)
	}

	rec := do(t, h, http.MethodGet, "/api/v1/maps?page=2&page_size=2", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data []queries.MindMapSummary `json:"data"`
		Meta struct {
			Pagination struct {
				Page    int  `json:"page"`
				Total   int  `json:"total"`
				HasPrev bool `json:"has_prev"`
				HasNext bool `json:"has_next"`
			} `json:"pagination"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, 3, env.Meta.Pagination.Total)
	assert.True(t, env.Meta.Pagination.HasPrev)
	assert.False(t, env.Meta.Pagination.HasNext)
}

func TestRequestErrors(t *testing.T) {
	h := newTestRouter(t, rest.RouterOptions{})
	m := createMap(t, h, "Errors")

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		kind   string
	}{
		{"empty title", http.MethodPost, "/api/v1/maps", map[string]string{"title": "", "rootContent": "x"}, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"unknown field", http.MethodPost, "/api/v1/maps", map[string]string{"name": "x"}, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"malformed map id", http.MethodGet, "/api/v1/maps/not-a-uuid", nil, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"missing node", http.MethodGet, "/api/v1/maps/" + m.ID + "/nodes/6f1c2a1e-6b0a-4d8e-9d59-0d6f0e6a8c11", nil, http.StatusNotFound, "NOT_FOUND"},
		{"self link", http.MethodPost, "/api/v1/maps/" + m.ID + "/links", map[string]string{"sourceId": m.Nodes[0].ID, "targetId": m.Nodes[0].ID}, http.StatusBadRequest, "INVALID_ARGUMENT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body, nil)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.True(t, body.Error)
			assert.Equal(t, tt.kind, body.Type)
		})
	}
}

func TestTimerWorkflow(t *testing.T) {
	h := newTestRouter(t, rest.RouterOptions{})
	m := createMap(t, h, "Focus")

	rec := do(t, h, http.MethodPost, "/api/v1/maps/"+m.ID+"/timers", map[string]int{}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	timer := decodeData[queries.TimerView](t, rec)
	assert.Equal(t, "Idle", timer.State)
	assert.Equal(t, 25, timer.WorkMinutes)
	assert.Equal(t, 5, timer.BreakMinutes)

	base := "/api/v1/timers/" + timer.ID

	rec = do(t, h, http.MethodPost, base+"/pause", nil, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	steps := []struct {
		action string
		state  string
	}{
		{"start", "Running"},
		{"pause", "Paused"},
		{"resume", "Running"},
		{"complete-work", "OnBreak"},
		{"complete-break", "Idle"},
	}
	for _, step := range steps {
		rec = do(t, h, http.MethodPost, base+"/"+step.action, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code, "%s: %s", step.action, rec.Body.String())
		assert.Equal(t, step.state, decodeData[queries.TimerView](t, rec).State, step.action)
	}

	rec = do(t, h, http.MethodPost, base+"/explode", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, base+"/durations", map[string]int{"workMinutes": 50, "breakMinutes": 10}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 50, decodeData[queries.TimerView](t, rec).WorkMinutes)

	rec = do(t, h, http.MethodGet, "/api/v1/maps/"+m.ID+"/timers", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]queries.TimerView](t, rec), 1)

	// deleting the map takes its timers along
	rec = do(t, h, http.MethodDelete, "/api/v1/maps/"+m.ID, nil, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, base, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthentication(t *testing.T) {
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "test-secret", Issuer: "mappamentis"})
	require.NoError(t, err)
	h := newTestRouter(t, rest.RouterOptions{Validator: validator})

	rec := do(t, h, http.MethodGet, "/api/v1/maps", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/maps", nil, http.Header{"Authorization": {"Bearer garbage"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := validator.GenerateToken("user-1", "ada@example.com", []string{"editor"})
	require.NoError(t, err)
	rec = do(t, h, http.MethodGet, "/api/v1/maps", nil, http.Header{"Authorization": {"Bearer " + token}})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// health stays public
	rec = do(t, h, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	h := newTestRouter(t, rest.RouterOptions{RateLimitPerMinute: 2})

	for i := 0; i < 2; i++ {
		rec := do(t, h, http.MethodGet, "/api/v1/maps", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(t, h, http.MethodGet, "/api/v1/maps", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "RATE_LIMIT", body.Type)
}
