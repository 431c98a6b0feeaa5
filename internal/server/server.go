// Package server exposes a mazepath graph over HTTP for debugging tools and
// renderers.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/paulmach/orb"

	"mazepath"
)

// Options configures a Server.
type Options struct {
	// Level is the name reported by /health.
	Level string
	// Spacing is the distance between points returned by /paths.
	Spacing float64
	Logger  *slog.Logger
}

// Server serves one graph.
type Server struct {
	graph   *mazepath.Graph
	opts    Options
	logger  *slog.Logger
	metrics *metrics
	router  chi.Router
}

// New creates a server for g.
func New(g *mazepath.Graph, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if !(opts.Spacing > 0) {
		opts.Spacing = 0.25
	}

	s := &Server{
		graph:   g,
		opts:    opts,
		logger:  opts.Logger,
		metrics: newMetrics(),
	}
	s.metrics.graphNodes.Set(float64(g.NodeCount()))
	s.metrics.graphPaths.Set(float64(len(g.AllPaths())))

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)
	r.Use(s.metrics.instrument)

	r.Get("/health", s.handleHealth)
	r.Get("/start", s.handleStart)
	r.Get("/paths", s.handlePathLines)
	r.Get("/paths.geojson", s.handlePathsGeoJSON)
	r.Get("/paths/region", s.handlePathsInRegion)
	r.Get("/nodes/closest", s.handleClosestNode)
	r.Get("/random", s.handleRandom)
	r.Post("/query", s.handleQuery)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// point is the wire form of a position.
type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func toWire(points []mazepath.Point) []point {
	out := make([]point, len(points))
	for i, p := range points {
		out[i] = point{X: p.X, Y: p.Y}
	}
	return out
}

// pathResponse describes a path as seen from node At.
type pathResponse struct {
	From              int     `json:"from"`
	To                int     `json:"to"`
	Horizontal        bool    `json:"horizontal"`
	Reversed          bool    `json:"reversed"`
	At                int     `json:"at"`
	Index             int     `json:"index"`
	StartingDirection int     `json:"startingDirection"`
	Points            []point `json:"points"`
}

func describePath(p *mazepath.Path, at mazepath.NodeID) pathResponse {
	return pathResponse{
		From:              int(p.Start()),
		To:                int(p.End()),
		Horizontal:        p.Horizontal(),
		Reversed:          p.Reversed(),
		At:                int(at),
		Index:             p.IndexForNode(at),
		StartingDirection: int(p.StartingDirection(at)),
		Points:            toWire(p.Points()),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps graph errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, mazepath.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, mazepath.ErrInvalidArgument):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// GET /health - Health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ready",
		"level":    s.opts.Level,
		"numNodes": s.graph.NodeCount(),
		"numPaths": len(s.graph.AllPaths()),
	})
}

// GET /start - Player start node and path
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	start := s.graph.StartNode()
	node, err := s.graph.Node(start)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"node":     int(start),
		"position": point{X: node.Position.X, Y: node.Position.Y},
		"path":     describePath(s.graph.StartPath(), start),
	})
}

// GET /paths - Get every path as evenly spaced line strings for drawing
func (s *Server) handlePathLines(w http.ResponseWriter, r *http.Request) {
	spacing := s.opts.Spacing
	if raw := r.URL.Query().Get("spacing"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || !(v > 0) {
			http.Error(w, "Invalid spacing", http.StatusBadRequest)
			return
		}
		spacing = v
	}

	lines, err := s.graph.LineStrings(spacing)
	if err != nil {
		s.logger.Error("❌ failed to build line strings", "error", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	wire := make([][]point, len(lines))
	for i, l := range lines {
		wire[i] = toWire(l)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"lines":    wire,
		"numNodes": s.graph.NodeCount(),
		"numPaths": len(lines),
	})
}

// GET /paths.geojson - Nodes and paths as a GeoJSON FeatureCollection
func (s *Server) handlePathsGeoJSON(w http.ResponseWriter, r *http.Request) {
	fc, err := s.graph.FeatureCollection(0)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		s.logger.Error("❌ failed to marshal geojson", "error", err)
		http.Error(w, "failed to marshal geojson", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(data)
}

// GET /paths/region?minX=&minY=&maxX=&maxY=[&epsilon=] - Paths crossing a box,
// optionally simplified
func (s *Server) handlePathsInRegion(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var coords [4]float64
	for i, key := range []string{"minX", "minY", "maxX", "maxY"} {
		v, err := strconv.ParseFloat(q.Get(key), 64)
		if err != nil {
			http.Error(w, "Invalid "+key, http.StatusBadRequest)
			return
		}
		coords[i] = v
	}
	if coords[0] > coords[2] || coords[1] > coords[3] {
		http.Error(w, "min must not exceed max", http.StatusBadRequest)
		return
	}

	epsilon := 0.0
	if raw := q.Get("epsilon"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			http.Error(w, "Invalid epsilon", http.StatusBadRequest)
			return
		}
		epsilon = v
	}

	paths := s.graph.PathsInRegion(orb.Bound{
		Min: orb.Point{coords[0], coords[1]},
		Max: orb.Point{coords[2], coords[3]},
	})
	simplified := mazepath.SimplifyPaths(paths, epsilon)

	type regionPath struct {
		From   int     `json:"from"`
		To     int     `json:"to"`
		Points []point `json:"points"`
	}
	out := make([]regionPath, len(paths))
	for i, p := range paths {
		out[i] = regionPath{From: int(p.Start()), To: int(p.End()), Points: toWire(simplified[i])}
	}

	writeJSON(w, http.StatusOK, map[string]any{"paths": out})
}

func parsePoint(r *http.Request) (mazepath.Point, error) {
	x, err := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	if err != nil {
		return mazepath.Point{}, fmt.Errorf("x: %w", mazepath.ErrInvalidArgument)
	}
	y, err := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if err != nil {
		return mazepath.Point{}, fmt.Errorf("y: %w", mazepath.ErrInvalidArgument)
	}
	return mazepath.Point{X: x, Y: y}, nil
}

// GET /nodes/closest?x=&y= - Node on the point, or the nearest node
func (s *Server) handleClosestNode(w http.ResponseWriter, r *http.Request) {
	p, err := parsePoint(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if id, ok := s.graph.ClosestNode(p); ok {
		writeJSON(w, http.StatusOK, map[string]any{"exact": true, "node": int(id), "distance": 0.0})
		return
	}

	id, dist, ok := s.graph.NearestNode(p)
	if !ok {
		http.Error(w, "graph has no nodes", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exact": false, "node": int(id), "distance": dist})
}

// GET /random[?from=id] - Random node, or random path leaving a node
func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("from")
	if raw == "" {
		writeJSON(w, http.StatusOK, map[string]any{"node": int(s.graph.RandomNode())})
		return
	}

	from, err := strconv.Atoi(raw)
	if err != nil {
		http.Error(w, "Invalid node", http.StatusBadRequest)
		return
	}
	path, err := s.graph.RandomPath(mazepath.NodeID(from))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"path": describePath(path, mazepath.NodeID(from))})
}

// QueryRequest asks which path to take from node At while on path Path.
type QueryRequest struct {
	// Kind is "continuation", "turn" or "axis".
	Kind string `json:"kind"`
	// Path holds the two endpoints of the current path.
	Path      [2]int `json:"path"`
	At        int    `json:"at"`
	Direction int    `json:"direction,omitempty"`
}

// POST /query - Direction query used by movement controllers
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("❌ invalid request body", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	current, err := s.graph.PathBetween(mazepath.NodeID(req.Path[0]), mazepath.NodeID(req.Path[1]))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	at := mazepath.NodeID(req.At)
	if !current.Has(at) {
		http.Error(w, "at must be an endpoint of path", http.StatusBadRequest)
		return
	}

	var next *mazepath.Path
	switch req.Kind {
	case "continuation":
		next = s.graph.ContinuationPath(current, at)
	case "turn":
		dir := mazepath.Direction(req.Direction)
		if dir != mazepath.Forward && dir != mazepath.Backward {
			http.Error(w, "direction must be 1 or -1", http.StatusBadRequest)
			return
		}
		next = s.graph.TurnPath(current, at, dir)
	case "axis":
		next = s.graph.AnyAxisChangePath(current, at)
	default:
		http.Error(w, fmt.Sprintf("unknown query kind %q", req.Kind), http.StatusBadRequest)
		return
	}

	outcome := "changed"
	if next == current {
		outcome = "unchanged"
	}
	s.metrics.queriesTotal.WithLabelValues(req.Kind, outcome).Inc()
	s.logger.Debug("direction query", "kind", req.Kind, "path", current.String(), "at", at, "outcome", outcome)

	writeJSON(w, http.StatusOK, map[string]any{
		"changed": next != current,
		"path":    describePath(next, at),
	})
}
