// Package vizweb serves a browser view of the greedy walk, one step at a time.
package vizweb

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pdrpinto/pfield"
	"github.com/pdrpinto/pfield/grid"
	"github.com/pdrpinto/pfield/internal/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	defaultWidth    = 40
	defaultHeight   = 24
	defaultClusters = 8
	defaultSteps    = 200
	defaultDensity  = 0.25

	// maxSide bounds both grid dimensions of a visualizer walk.
	maxSide = 500
)

//go:embed static/index.html
var indexHTML []byte

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type snapshot struct {
	Step    int      `json:"step"`
	W       int      `json:"w"`
	H       int      `json:"h"`
	Walls   [][2]int `json:"walls"`
	Visited [][2]int `json:"visited,omitempty"`
	Current [2]int   `json:"current"`
	Start   [2]int   `json:"start"`
	Goal    [2]int   `json:"goal"`
	Done    bool     `json:"done"`
	Found   bool     `json:"found"`
	Path    [][2]int `json:"path,omitempty"`
}

type session struct {
	grid        *grid.Grid
	start, goal pfield.Point
	stepper     *pfield.Stepper
	recorded    bool
}

// Server owns at most one walk at a time. Each /init replaces it.
type Server struct {
	logger   *zap.Logger
	metrics  *metrics.Metrics
	interval time.Duration

	mu      sync.Mutex
	session *session
}

// New creates a server. interval paces the /ws stream.
func New(logger *zap.Logger, m *metrics.Metrics, interval time.Duration) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Server{logger: logger, metrics: m, interval: interval}
}

// Handler routes the visualizer endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/init", s.handleInit)
	mux.HandleFunc("/next", s.handleNext)
	mux.HandleFunc("/ws", s.handleWS)
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	width := intParam(q.Get("w"), defaultWidth, 2, maxSide)
	height := intParam(q.Get("h"), defaultHeight, 2, maxSide)
	clusters := intParam(q.Get("clusters"), defaultClusters, 0, maxSide)
	steps := intParam(q.Get("steps"), defaultSteps, 0, maxSide*maxSide)
	density := defaultDensity
	if v, err := strconv.ParseFloat(q.Get("density"), 64); err == nil && v >= 0 && v <= 1 {
		density = v
	}
	seed := time.Now().UnixNano()
	if v, err := strconv.ParseInt(q.Get("seed"), 10, 64); err == nil {
		seed = v
	}
	diagonal := pfield.Never
	if name := q.Get("diagonal"); name != "" {
		dm, err := pfield.ParseDiagonalMovement(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		diagonal = dm
	}

	rng := rand.New(rand.NewSource(seed))
	start, goal := randomEndpoints(rng, width, height)
	g := randomGrid(rng, width, height, clusters, steps, density, start, goal)

	begin := time.Now()
	stepper, err := pfield.NewStepper(r.Context(), g, start, goal,
		pfield.WithDiagonalMovement(diagonal),
		pfield.WithLogger(s.logger),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.metrics.RecordFieldBuild(time.Since(begin))

	s.mu.Lock()
	s.session = &session{grid: g, start: start, goal: goal, stepper: stepper}
	s.mu.Unlock()

	s.logger.Info("walk initialized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int64("seed", seed),
		zap.Stringer("start", start),
		zap.Stringer("goal", goal),
		zap.Stringer("diagonal", diagonal),
	)
	writeJSON(w, map[string]any{"ok": true, "w": width, "h": height, "seed": seed})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	snap, err := s.step()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, snap)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	initialized := s.session != nil
	s.mu.Unlock()
	if !initialized {
		http.Error(w, "walk not initialized", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(max(s.interval, time.Millisecond))
	defer ticker.Stop()

	for {
		snap, err := s.step()
		if err != nil {
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(snap); err != nil {
			s.logger.Debug("websocket write failed", zap.Error(err))
			return
		}
		if snap.Done {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
			return
		}
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// step advances the current walk and converts the result for the browser.
func (s *Server) step() (snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session
	if sess == nil {
		return snapshot{}, fmt.Errorf("walk not initialized")
	}
	moved := !sess.stepper.Done()
	st := sess.stepper.Step()
	if moved {
		s.metrics.RecordStep()
	}
	if st.Done && !sess.recorded {
		sess.recorded = true
		s.metrics.RecordQuery(sess.stepper.Finder().DiagonalMovement().String(), len(st.Path))
		s.logger.Info("walk finished",
			zap.Bool("found", st.Found),
			zap.Int("steps", st.StepIndex),
			zap.Int("path_length", len(st.Path)),
		)
	}

	return snapshot{
		Step:    st.StepIndex,
		W:       sess.grid.Width(),
		H:       sess.grid.Height(),
		Walls:   walls(sess.grid),
		Visited: pointList(st.Visited),
		Current: pair(st.Current),
		Start:   pair(sess.start),
		Goal:    pair(sess.goal),
		Done:    st.Done,
		Found:   st.Found,
		Path:    pointList(st.Path),
	}, nil
}

func randomEndpoints(rng *rand.Rand, width, height int) (pfield.Point, pfield.Point) {
	for {
		start := pfield.Point{X: rng.Intn(width), Y: rng.Intn(height)}
		goal := pfield.Point{X: rng.Intn(width), Y: rng.Intn(height)}
		if start != goal {
			return start, goal
		}
	}
}

// randomGrid grows clustered walls with random walks, keeping start and goal open.
func randomGrid(rng *rand.Rand, width, height, clusters, steps int, density float64, start, goal pfield.Point) *grid.Grid {
	g := grid.New(width, height)
	for c := 0; c < clusters; c++ {
		p := pfield.Point{X: rng.Intn(width), Y: rng.Intn(height)}
		for i := 0; i < steps; i++ {
			if rng.Float64() < density && p != start && p != goal {
				g.SetWalkableAt(p.X, p.Y, false)
			}
			d := [4]pfield.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}[rng.Intn(4)]
			if next := (pfield.Point{X: p.X + d.X, Y: p.Y + d.Y}); g.IsInside(next.X, next.Y) {
				p = next
			}
		}
	}
	return g
}

func walls(g *grid.Grid) [][2]int {
	res := make([][2]int, 0)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if !g.IsWalkableAt(x, y) {
				res = append(res, [2]int{x, y})
			}
		}
	}
	return res
}

func pair(p pfield.Point) [2]int { return [2]int{p.X, p.Y} }

func pointList(points []pfield.Point) [][2]int {
	if len(points) == 0 {
		return nil
	}
	res := make([][2]int, 0, len(points))
	for _, p := range points {
		res = append(res, pair(p))
	}
	return res
}

// intParam parses raw, falling back below minimum and clamping above maximum.
func intParam(raw string, fallback, minimum, maximum int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < minimum {
		return fallback
	}
	return min(v, maximum)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
