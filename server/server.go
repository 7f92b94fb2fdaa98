package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/o0olele/navmesh-go/builder"
	"github.com/o0olele/navmesh-go/geometry"
	"github.com/o0olele/navmesh-go/logger"
	"github.com/o0olele/navmesh-go/math32"
)

// DEFAULT_MAX_BODY_BYTES caps request bodies and websocket messages
const DEFAULT_MAX_BODY_BYTES = 32 << 20

// Options 服务配置
type Options struct {
	Addr           string
	AllowedOrigins []string
	Settings       builder.Settings
	// MaxBodyBytes caps request bodies, <= 0 means DEFAULT_MAX_BODY_BYTES.
	MaxBodyBytes int64
}

// Server serves builds and path queries over HTTP and websocket
type Server struct {
	options  Options
	registry *Registry
	router   *mux.Router
	upgrader websocket.Upgrader
}

// New wires the routes
func New(registry *Registry, options Options) *Server {
	if len(options.AllowedOrigins) == 0 {
		options.AllowedOrigins = []string{"*"}
	}
	if options.MaxBodyBytes <= 0 {
		options.MaxBodyBytes = DEFAULT_MAX_BODY_BYTES
	}
	s := &Server{
		options:  options,
		registry: registry,
		router:   mux.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	// API 路由
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/meshes", s.listHandler).Methods("GET")
	api.HandleFunc("/meshes/{name}", s.buildHandler).Methods("POST")
	api.HandleFunc("/meshes/{name}", s.statsHandler).Methods("GET")
	api.HandleFunc("/meshes/{name}", s.deleteHandler).Methods("DELETE")
	api.HandleFunc("/meshes/{name}/path", s.findPathHandler).Methods("POST")
	api.HandleFunc("/meshes/{name}/island", s.islandHandler).Methods("GET")
	api.HandleFunc("/meshes/{name}/nearest", s.nearestHandler).Methods("GET")
	api.HandleFunc("/meshes/{name}/raycast", s.raycastHandler).Methods("GET")
	api.HandleFunc("/cache", s.cacheHandler).Methods("GET")
	s.router.HandleFunc("/ws", s.wsHandler)
	return s
}

// Handler returns the router behind CORS
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.options.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(s.router)
}

// ListenAndServe runs until ctx is done
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.options.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("navmesh server listening on %v", s.options.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("navmesh server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Warn("write response error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// decodeBody reads a json body of at most MaxBodyBytes and writes the error response itself
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.options.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return false
	}
	return true
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrMeshNotFound):
		return http.StatusNotFound
	case errors.Is(err, builder.ErrFailure):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// 构建导航网格
func (s *Server) buildHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var req BuildRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	settings := s.options.Settings
	if req.Precision > 0 {
		settings.Precision = req.Precision
	}
	settings.AllowNonManifold = settings.AllowNonManifold || req.AllowNonManifold

	begTime := time.Now()
	navMesh, err := builder.NewBuilder(settings).Build(req.Vertices, req.Indices)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	if _, err := s.registry.Put(name, navMesh); err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	logger.Info("navmesh %v built in %v", name, time.Since(begTime))

	writeJSON(w, http.StatusCreated, BuildResponse{Name: name, Stats: navMesh.GetStats()})
}

func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	names, err := s.registry.List()
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"meshes": names})
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	nq, err := s.registry.Get(mux.Vars(r)["name"])
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, nq.GetNavMesh().GetStats())
}

func (s *Server) deleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Delete(mux.Vars(r)["name"]); err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) cacheHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.CacheStats())
}

// 路径查找
func (s *Server) findPathHandler(w http.ResponseWriter, r *http.Request) {
	nq, err := s.registry.Get(mux.Vars(r)["name"])
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	var req PathfindRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	resp, err := findPath(nq, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// pointParam reads a point from the query string, x, y and z by default
func pointParam(r *http.Request, keys ...string) (math32.Vector3, error) {
	if len(keys) != 3 {
		keys = []string{"x", "y", "z"}
	}
	var p [3]float32
	for i, key := range keys {
		v, err := strconv.ParseFloat(r.URL.Query().Get(key), 32)
		if err != nil {
			return math32.Vector3{}, fmt.Errorf("invalid %v: %w", key, err)
		}
		p[i] = float32(v)
	}
	return math32.Vector3{X: p[0], Y: p[1], Z: p[2]}, nil
}

func (s *Server) islandHandler(w http.ResponseWriter, r *http.Request) {
	nq, err := s.registry.Get(mux.Vars(r)["name"])
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	point, err := pointParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	fn, err := lookupFunc(r.URL.Query().Get("lookup"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	island, found := nq.GetIsland(point, fn)
	writeJSON(w, http.StatusOK, IslandResponse{Found: found, Island: island})
}

func (s *Server) nearestHandler(w http.ResponseWriter, r *http.Request) {
	nq, err := s.registry.Get(mux.Vars(r)["name"])
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	point, err := pointParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	fn, err := lookupFunc(r.URL.Query().Get("lookup"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	island, found := 0, true
	if v := r.URL.Query().Get("island"); v != "" {
		if island, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid island: %w", err))
			return
		}
	} else {
		island, found = nq.GetIsland(point, fn)
	}

	resp := IslandResponse{Island: island}
	if found {
		resp.Polygon, resp.Distance, resp.Found = nq.FindNearestPolygon(island, point, fn)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) raycastHandler(w http.ResponseWriter, r *http.Request) {
	nq, err := s.registry.Get(mux.Vars(r)["name"])
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	origin, err := pointParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	dir, err := pointParam(r, "dx", "dy", "dz")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	hit, found := nq.Raycast(geometry.Ray{Origin: origin, Dir: dir})
	writeJSON(w, http.StatusOK, map[string]any{"found": found, "hit": hit})
}

// wsHandler answers a stream of PathfindRequest messages. Each message
// names its mesh, or falls back to the mesh query parameter.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	defaultMesh := r.URL.Query().Get("mesh")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.options.MaxBodyBytes)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("websocket read error: %v", err)
			}
			return
		}

		resp := s.handleMessage(defaultMesh, payload)
		data, err := json.Marshal(resp)
		if err != nil {
			logger.Error("failed to marshal response: %v", err)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.Debug("websocket write error: %v", err)
			return
		}
	}
}

func (s *Server) handleMessage(defaultMesh string, payload []byte) *PathfindResponse {
	var req PathfindRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return &PathfindResponse{Island: -1, Error: fmt.Sprintf("invalid json: %v", err)}
	}
	name := req.Mesh
	if name == "" {
		name = defaultMesh
	}
	nq, err := s.registry.Get(name)
	if err != nil {
		return &PathfindResponse{ID: req.ID, Island: -1, Error: err.Error()}
	}
	resp, err := findPath(nq, &req)
	if err != nil {
		return &PathfindResponse{ID: req.ID, Island: -1, Error: err.Error()}
	}
	return resp
}
