package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ChicagoDave/trailworld/pkg/preview"
	"github.com/ChicagoDave/trailworld/pkg/scene"
	"github.com/ChicagoDave/trailworld/pkg/scene2d"
	"github.com/ChicagoDave/trailworld/pkg/spec"
	"github.com/ChicagoDave/trailworld/pkg/world"
)

const (
	cacheLimit       = 8
	subscriberBuffer = 64
)

var errNoWorld = errors.New("no world generated yet")

// Server is the local development server. It keeps the latest world for a
// project and publishes its categories to versioned instance buffers.
type Server struct {
	projectPath string
	port        int
	logger      *log.Logger

	cache    *world.Cache
	buffers  *scene.BufferSet
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	current *world.World
}

// New creates a server for the given project directory.
func New(projectPath string, port int) *Server {
	return &Server{
		projectPath: projectPath,
		port:        port,
		logger:      log.Default(),
		cache:       world.NewCache(cacheLimit, world.Options{}),
		buffers:     scene.NewBufferSet(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}
}

// Buffers exposes the published instance buffers.
func (s *Server) Buffers() *scene.BufferSet {
	return s.buffers
}

// Current returns the latest world, or nil before the first Regenerate.
func (s *Server) Current() *world.World {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Regenerate reloads the project recipe and publishes the resulting world.
// Buffers are only republished when the recipe actually changed.
func (s *Server) Regenerate() (*world.World, bool, error) {
	recipe, err := spec.LoadProject(s.projectPath)
	if err != nil {
		return nil, false, fmt.Errorf("loading recipe: %w", err)
	}
	w, hit, err := s.cache.Get(recipe)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current.Key == w.Key {
		return w, hit, nil
	}
	if err := w.Publish(s.buffers); err != nil {
		return nil, false, err
	}
	// Categories dropped from the recipe publish empty.
	for _, name := range s.buffers.Categories() {
		if _, ok := w.Records[name]; !ok {
			if _, err := s.buffers.Publish(name, nil); err != nil {
				return nil, false, err
			}
		}
	}
	s.current = w
	s.logger.Printf("World %s published (%s)", w.Key[:12], w.Report.Summary)
	return w, hit, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/world", s.handleWorld)
	mux.HandleFunc("GET /api/overview", s.handleOverview)
	mux.HandleFunc("GET /api/buffers/{category}", s.handleBuffer)
	mux.HandleFunc("POST /api/regenerate", s.handleRegenerate)
	mux.HandleFunc("GET /api/preview.png", s.handlePreview)
	mux.HandleFunc("GET /api/ws", s.handleWS)
	mux.HandleFunc("GET /", s.handleIndex)

	return mux
}

// Start generates the initial world and launches the HTTP server.
func (s *Server) Start() error {
	if _, _, err := s.Regenerate(); err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Printf("Trailworld server starting on http://localhost%s", addr)
	s.logger.Printf("Project: %s", s.projectPath)

	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>Trailworld</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>Trailworld</h1>
<p><img src="/api/preview.png?size=640" alt="world preview"></p>
</div>
</body></html>`)
}

func (s *Server) handleWorld(w http.ResponseWriter, _ *http.Request) {
	cur := s.Current()
	if cur == nil {
		writeError(w, http.StatusServiceUnavailable, errNoWorld)
		return
	}
	writeJSON(w, http.StatusOK, cur.Summary())
}

func (s *Server) handleOverview(w http.ResponseWriter, _ *http.Request) {
	cur := s.Current()
	if cur == nil {
		writeError(w, http.StatusServiceUnavailable, errNoWorld)
		return
	}
	writeJSON(w, http.StatusOK, scene2d.Assemble2D(cur))
}

// handleBuffer returns a category's committed batch. With ?after=N it
// blocks until the generation passes N or the client goes away.
func (s *Server) handleBuffer(w http.ResponseWriter, r *http.Request) {
	buf, ok := s.buffers.Lookup(r.PathValue("category"))
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown category %q", r.PathValue("category")))
		return
	}

	after := r.URL.Query().Get("after")
	if after == "" {
		writeJSON(w, http.StatusOK, buf.Batch())
		return
	}

	gen, err := strconv.ParseUint(after, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad after: %w", err))
		return
	}
	batch, err := buf.Wait(r.Context(), gen)
	if err != nil {
		// Client gone; nothing useful to write.
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (s *Server) handleRegenerate(w http.ResponseWriter, _ *http.Request) {
	cur, hit, err := s.Regenerate()
	if err != nil {
		s.logger.Printf("Regenerate failed: %v", err)
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"key":     cur.Key,
		"cached":  hit,
		"summary": cur.Summary(),
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	cur := s.Current()
	if cur == nil {
		writeError(w, http.StatusServiceUnavailable, errNoWorld)
		return
	}
	size := preview.DefaultSize
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("bad size: %w", err))
			return
		}
		size = n
	}
	img, err := preview.Render(scene2d.Assemble2D(cur), size)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := preview.EncodePNG(w, img); err != nil {
		s.logger.Printf("Writing preview: %v", err)
	}
}

// handleWS streams buffer updates. Each connection first receives the
// current generation of every category, then every later publish.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := s.buffers.Subscribe(subscriberBuffer)
	defer cancel()

	for _, name := range s.buffers.Categories() {
		buf, _ := s.buffers.Lookup(name)
		batch := buf.Batch()
		u := scene.Update{Category: name, Generation: batch.Generation, Count: batch.Count}
		if err := conn.WriteJSON(u); err != nil {
			return
		}
	}

	// The read loop only notices the client going away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for u := range updates {
		if err := conn.WriteJSON(u); err != nil {
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
