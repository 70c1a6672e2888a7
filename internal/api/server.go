// Package api serves the grove over HTTP.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (the gardener's control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/talgya/grove/internal/engine"
	"github.com/talgya/grove/internal/grove"
	"github.com/talgya/grove/internal/world"
)

// Server serves the grove state over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	startedAt time.Time
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	s.startedAt = time.Now()

	r := mux.NewRouter()
	v1 := r.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	v1.HandleFunc("/trees", s.handleListTrees).Methods(http.MethodGet)
	v1.HandleFunc("/trees/{id}", s.handleGetTree).Methods(http.MethodGet)

	v1.HandleFunc("/trees", s.admin(s.handlePlant)).Methods(http.MethodPost)
	v1.HandleFunc("/trees/{id}/water", s.admin(s.treeAction(s.Sim.WaterTree))).Methods(http.MethodPost)
	v1.HandleFunc("/trees/{id}/fertilize", s.admin(s.treeAction(s.Sim.FertilizeTree))).Methods(http.MethodPost)
	v1.HandleFunc("/trees/{id}/prune", s.admin(s.treeAction(s.Sim.PruneTree))).Methods(http.MethodPost)
	v1.HandleFunc("/trees/{id}/chop", s.admin(s.treeAction(s.Sim.ChopTree))).Methods(http.MethodPost)
	v1.HandleFunc("/trees/{id}/harvest", s.admin(s.handleHarvest)).Methods(http.MethodPost)

	addr := fmt.Sprintf(":%d", s.Port)
	go func() {
		slog.Info("api listening", "addr", addr)
		if err := http.ListenAndServe(addr, r); err != nil {
			slog.Error("api server stopped", "error", err)
		}
	}()
}

// admin wraps a handler with bearer-token auth. With no key configured, all
// POST endpoints are disabled.
func (s *Server) admin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			writeErr(w, http.StatusForbidden, "admin endpoints disabled")
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.AdminKey {
			writeErr(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	trees := s.Sim.TreeList()
	ready := 0
	for _, t := range trees {
		if t.Harvest != nil && t.Harvest.Ready {
			ready++
		}
	}
	tick := s.Sim.CurrentTick()
	season := engine.SeasonForTick(tick)
	writeJSON(w, map[string]any{
		"tick":    tick,
		"time":    engine.SimTime(tick),
		"season":  season,
		"weather": s.Sim.Weather.Describe(string(season)),
		"trees":   humanize.Comma(int64(len(trees))),
		"ready":   ready,
		"uptime":  humanize.Time(s.startedAt),
		"running": s.Eng != nil && s.Eng.Running,
	})
}

func (s *Server) handleListTrees(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.TreeList())
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	t := s.Sim.TreeByID(id)
	if t == nil {
		writeErr(w, http.StatusNotFound, "no such tree")
		return
	}
	writeJSON(w, t)
}

func (s *Server) handlePlant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Species string `json:"species"`
		X       int    `json:"x"`
		Z       int    `json:"z"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad request body")
		return
	}
	t, err := s.Sim.Plant(req.Species, world.GridPos{X: req.X, Z: req.Z})
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, t)
}

func (s *Server) handleHarvest(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if s.Sim.TreeByID(id) == nil {
		writeErr(w, http.StatusNotFound, "no such tree")
		return
	}
	collected := s.Sim.CollectTree(id)
	if collected == nil {
		// Not an error — the tree just has nothing to give yet.
		writeJSON(w, map[string]any{"collected": []grove.ResourceAmount{}, "ready": false})
		return
	}
	writeJSON(w, map[string]any{"collected": collected, "ready": true})
}

// treeAction adapts a Simulation action method into a handler.
func (s *Server) treeAction(fn func(uuid.UUID) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		if !fn(id) {
			writeErr(w, http.StatusNotFound, "no such tree")
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, http.StatusBadRequest, "bad tree id")
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("write response", "error", err)
	}
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
