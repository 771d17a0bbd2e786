package vizweb

import (
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/pdrpinto/pfield"
	"github.com/pdrpinto/pfield/internal/metrics"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(zap.NewNop(), metrics.New(), time.Millisecond).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestNextBeforeInit(t *testing.T) {
	srv := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/next", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/ws", nil))
}

func TestIndex(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/missing", nil))
}

func TestInitRejectsUnknownDiagonal(t *testing.T) {
	srv := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/init?diagonal=sideways", nil))
}

func TestInitAndStepUntilDone(t *testing.T) {
	srv := newTestServer(t)

	var initResp map[string]any
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/init?w=12&h=8&seed=42&density=0.2&diagonal=always", &initResp))
	assert.Equal(t, true, initResp["ok"])
	assert.Equal(t, 12.0, initResp["w"])

	var snap snapshot
	for i := 0; i < 12*8+1; i++ {
		require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/next", &snap))
		if snap.Done {
			break
		}
	}
	require.True(t, snap.Done)
	assert.Equal(t, 12, snap.W)
	assert.Equal(t, 8, snap.H)
	if snap.Found {
		require.NotEmpty(t, snap.Path)
		assert.Equal(t, snap.Start, snap.Path[0])
		assert.Equal(t, snap.Goal, snap.Path[len(snap.Path)-1])
	} else {
		assert.Empty(t, snap.Path)
	}

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "pfield_queries_total")
}

func TestInitClampsGridSize(t *testing.T) {
	srv := newTestServer(t)

	var initResp map[string]any
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/init?w=100000&h=3&clusters=0&seed=1", &initResp))
	assert.Equal(t, float64(maxSide), initResp["w"])
	assert.Equal(t, 3.0, initResp["h"])

	var snap snapshot
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/next", &snap))
	assert.Equal(t, maxSide, snap.W)
}

func TestIntParam(t *testing.T) {
	assert.Equal(t, 7, intParam("", 7, 2, 10))
	assert.Equal(t, 7, intParam("x", 7, 2, 10))
	assert.Equal(t, 7, intParam("1", 7, 2, 10))
	assert.Equal(t, 5, intParam("5", 7, 2, 10))
	assert.Equal(t, 10, intParam("11", 7, 2, 10))
}

func TestWebsocketStreamsUntilDone(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	srv := httptest.NewServer(New(zap.NewNop(), metrics.New(), time.Millisecond).Handler())
	defer srv.Close()
	defer http.DefaultClient.CloseIdleConnections()

	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/init?w=10&h=10&seed=7", nil))

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	var last snapshot
	steps := 0
	for {
		var snap snapshot
		if err := conn.ReadJSON(&snap); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
			break
		}
		steps++
		assert.Equal(t, steps, snap.Step)
		last = snap
	}
	assert.True(t, last.Done)
	assert.LessOrEqual(t, steps, 100)
}

func TestRandomGridKeepsEndpointsOpen(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	start, goal := randomEndpoints(rng, 20, 20)
	assert.NotEqual(t, start, goal)

	g := randomGrid(rng, 20, 20, 30, 400, 1, start, goal)
	assert.True(t, g.IsWalkableAt(start.X, start.Y))
	assert.True(t, g.IsWalkableAt(goal.X, goal.Y))
	assert.NotEmpty(t, walls(g))
}

func TestPointList(t *testing.T) {
	assert.Nil(t, pointList(nil))
	assert.Equal(t, [][2]int{{1, 2}, {3, 4}}, pointList([]pfield.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}))
}
