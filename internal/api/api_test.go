package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/combo-chronicle/internal/catalog"
	"github.com/ericogr/combo-chronicle/internal/config"
	"github.com/ericogr/combo-chronicle/internal/engine"
	"github.com/ericogr/combo-chronicle/internal/game"
	"github.com/ericogr/combo-chronicle/internal/service"
	"github.com/ericogr/combo-chronicle/internal/stream"
)

type mockRepo struct {
	tables    catalog.Tables
	results   []game.RunResult
	lastLimit int
	err       error
}

func (m *mockRepo) LoadCatalog() (catalog.Tables, error) { return m.tables, m.err }

func (m *mockRepo) GetSkills() ([]game.SkillTemplate, error) { return m.tables.Skills, m.err }

func (m *mockRepo) GetEnemies() ([]game.Enemy, error) { return m.tables.Enemies, m.err }

func (m *mockRepo) GetPassives() ([]game.Passive, error) { return m.tables.Passives, m.err }

func (m *mockRepo) SaveRunResult(r *game.RunResult) error {
	m.results = append(m.results, *r)
	return nil
}

func (m *mockRepo) GetTopRuns(limit int) ([]game.RunResult, error) {
	m.lastLimit = limit
	return m.results, m.err
}

func setupRouter(t *testing.T, server config.ServerConfig) (*gin.Engine, *mockRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cat, err := catalog.Default()
	require.NoError(t, err)
	repo := &mockRepo{tables: cat.Tables()}
	hub := stream.NewHub(8)
	t.Cleanup(hub.Close)
	runs := service.NewRuns(cat, repo, hub, service.Options{Seed: 5})
	router := gin.New()
	RegisterRoutes(router, NewRunHandler(runs, repo, hub, server))
	return router, repo
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type runBody struct {
	Run     engine.View    `json:"run"`
	Outcome engine.Outcome `json:"outcome"`
	Error   string         `json:"error"`
	Reason  string         `json:"reason"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) runBody {
	t.Helper()
	var b runBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b), w.Body.String())
	return b
}

func createRun(t *testing.T, router http.Handler) engine.View {
	t.Helper()
	w := do(router, http.MethodPost, "/api/runs", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w).Run
}

func TestVersion(t *testing.T) {
	router, _ := setupRouter(t, config.ServerConfig{})
	w := do(router, http.MethodGet, "/api/version", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version"`)
}

func TestCatalogListings(t *testing.T) {
	router, repo := setupRouter(t, config.ServerConfig{})

	for _, path := range []string{"/api/catalog/skills", "/api/catalog/enemies", "/api/catalog/passives"} {
		w := do(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
	var enemies []game.Enemy
	w := do(router, http.MethodGet, "/api/catalog/enemies", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &enemies))
	assert.Len(t, enemies, len(repo.tables.Enemies))

	repo.err = errors.New("db down")
	w = do(router, http.MethodGet, "/api/catalog/skills", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLeaderboardLimit(t *testing.T) {
	router, repo := setupRouter(t, config.ServerConfig{})
	repo.results = []game.RunResult{{RunID: "a", Outcome: game.StateBossVictory, Floor: 7}}

	w := do(router, http.MethodGet, "/api/leaderboard?limit=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, repo.lastLimit)
	assert.Contains(t, w.Body.String(), `"outcome":"BOSS_VICTORY"`)

	do(router, http.MethodGet, "/api/leaderboard?limit=500", "")
	assert.Equal(t, 10, repo.lastLimit)
}

func TestGetRun(t *testing.T) {
	router, _ := setupRouter(t, config.ServerConfig{})
	v := createRun(t, router)
	assert.Equal(t, game.StatePlaying, v.State)
	assert.Len(t, v.Hand, game.BaseHandSize)

	w := do(router, http.MethodGet, "/api/runs/"+v.RunID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, v.RunID, decode(t, w).Run.RunID)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")

	w = do(router, http.MethodGet, "/api/runs/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(router, http.MethodGet, "/api/runs/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlayCardEndpoint(t *testing.T) {
	router, _ := setupRouter(t, config.ServerConfig{})
	v := createRun(t, router)
	path := "/api/runs/" + v.RunID + "/play"

	w := do(router, http.MethodPost, path, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPost, path, `{"card_id":"missing"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(engine.RejectCardNotInHand), decode(t, w).Reason)

	card := v.Hand[0]
	w = do(router, http.MethodPost, path, `{"card_id":"`+card.ID+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	b := decode(t, w)
	assert.True(t, b.Outcome.Accepted)
	assert.Equal(t, card.Delay, b.Run.HasteUsed)
	assert.Equal(t, game.StepIdle, b.Run.Step)
}

func TestStagedPlayEndpoints(t *testing.T) {
	router, _ := setupRouter(t, config.ServerConfig{})
	v := createRun(t, router)

	w := do(router, http.MethodPost, "/api/runs/"+v.RunID+"/play", `{"card_id":"`+v.Hand[0].ID+`","staged":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, game.StepPayCost, decode(t, w).Run.Step)

	w = do(router, http.MethodPost, "/api/runs/"+v.RunID+"/rest", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(engine.RejectResolving), decode(t, w).Reason)

	for i := 0; i < 20; i++ {
		w = do(router, http.MethodPost, "/api/runs/"+v.RunID+"/advance", "")
		require.Equal(t, http.StatusOK, w.Code)
		if !strings.Contains(w.Body.String(), `"resolving":true`) {
			break
		}
	}
	assert.Equal(t, game.StepIdle, decode(t, w).Run.Step)
}

func TestWrongStateEndpoints(t *testing.T) {
	router, _ := setupRouter(t, config.ServerConfig{})
	v := createRun(t, router)
	base := "/api/runs/" + v.RunID

	cases := []struct{ path, body string }{
		{base + "/rewards/card", `{"card_id":"x"}`},
		{base + "/rewards/ability", `{"key":"synergy"}`},
		{base + "/rewards/skip", ""},
		{base + "/shop/card", `{"card_id":"x"}`},
		{base + "/shop/passive", `{"key":"synergy"}`},
		{base + "/shop/remove", `{"card_id":"x"}`},
		{base + "/shop/leave", ""},
		{base + "/restart", ""},
	}
	for _, tc := range cases {
		w := do(router, http.MethodPost, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.path)
		assert.Contains(t, w.Body.String(), "current state", tc.path)
	}

	w := do(router, http.MethodPost, base+"/shop/card", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request")
}

func dialStream(t *testing.T, srv *httptest.Server, runID string, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/runs/" + runID + "/stream"
	return websocket.DefaultDialer.Dial(url, header)
}

func TestStreamPushesSnapshots(t *testing.T) {
	router, _ := setupRouter(t, config.ServerConfig{})
	srv := httptest.NewServer(router)
	defer srv.Close()

	v := createRun(t, router)
	conn, _, err := dialStream(t, srv, v.RunID, nil)
	require.NoError(t, err)
	defer conn.Close()

	var first engine.View
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, v.RunID, first.RunID)
	assert.Zero(t, first.HasteUsed)

	w := do(router, http.MethodPost, "/api/runs/"+v.RunID+"/rest", "")
	require.Equal(t, http.StatusOK, w.Code)

	var next engine.View
	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, game.RestHaste, next.HasteUsed)
}

func TestStreamRejections(t *testing.T) {
	router, _ := setupRouter(t, config.ServerConfig{AllowedOrigins: []string{"http://allowed.example"}})
	srv := httptest.NewServer(router)
	defer srv.Close()

	_, resp, err := dialStream(t, srv, uuid.NewString(), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	v := createRun(t, router)
	_, resp, err = dialStream(t, srv, v.RunID, http.Header{"Origin": {"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := dialStream(t, srv, v.RunID, http.Header{"Origin": {"http://allowed.example"}})
	require.NoError(t, err)
	conn.Close()
}
