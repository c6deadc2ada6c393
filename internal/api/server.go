// Package api exposes the ride controls over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ride-progress-sim/internal/logger"
	"ride-progress-sim/internal/permission"
	"ride-progress-sim/internal/present"
	"ride-progress-sim/internal/ride"
	"ride-progress-sim/internal/session"
	"ride-progress-sim/internal/sim"
)

const maxBodyBytes = 1 << 16

// Server wires the control routes. Tokens and WS are optional.
type Server struct {
	Ctx     context.Context
	Driver  *sim.Driver
	Session *session.Session
	Gate    *permission.Gate
	Channel present.Channel
	Tokens  *Tokens
	WS      http.HandlerFunc
	Log     *logger.Logger
}

type statusResponse struct {
	Status       *ride.Wire            `json:"status"`
	View         present.View          `json:"view"`
	Notification *present.Notification `json:"notification"`
}

type animateResponse struct {
	RunID string `json:"run_id"`
}

type permissionResponse struct {
	Granted bool `json:"granted"`
}

func (s *Server) Handler() http.Handler {
	v1 := http.NewServeMux()
	v1.HandleFunc("POST /v1/ride/animate", s.handleAnimate)
	v1.HandleFunc("POST /v1/ride/status", s.handleSetStatus)
	v1.HandleFunc("GET /v1/ride/status", s.handleGetStatus)
	v1.HandleFunc("POST /v1/permission/grant", s.handleGrant)
	v1.HandleFunc("POST /v1/permission/deny", s.handleDeny)
	v1.HandleFunc("GET /v1/permission", s.handlePermission)
	if s.WS != nil {
		v1.HandleFunc("GET /v1/ride/ws", s.WS)
	}

	var protected http.Handler = v1
	if s.Tokens != nil {
		protected = s.Tokens.Middleware(v1)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/v1/", protected)
	return s.logRequests(mux)
}

// Serve starts the API on addr in the background.
func (s *Server) Serve(addr string) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Log.Error(logger.Entry{Action: "api_server_failed", Message: err.Error(), Error: logger.Err(err)})
		}
	}()
	s.Log.Info(logger.Entry{Action: "api_listening", Message: addr})
	return srv
}

func (s *Server) handleAnimate(w http.ResponseWriter, r *http.Request) {
	ctx := s.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	// The run outlives the request.
	runID := s.Driver.Animate(ctx)
	writeJSON(w, http.StatusAccepted, animateResponse{RunID: runID})
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var wire ride.Wire
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&wire); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	st, err := ride.Decode(wire)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.Driver.Set(st)
	writeJSON(w, http.StatusOK, present.InApp(st))
}

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	st := s.Session.Current()
	resp := statusResponse{View: present.InApp(st)}
	if st != nil {
		wire := ride.Encode(st)
		n := present.Build(st, s.Channel)
		resp.Status = &wire
		resp.Notification = &n
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGrant(w http.ResponseWriter, r *http.Request) {
	s.Gate.Grant()
	writeJSON(w, http.StatusOK, permissionResponse{Granted: s.Gate.Granted()})
}

func (s *Server) handleDeny(w http.ResponseWriter, r *http.Request) {
	s.Gate.Deny()
	writeJSON(w, http.StatusOK, permissionResponse{Granted: s.Gate.Granted()})
}

func (s *Server) handlePermission(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, permissionResponse{Granted: s.Gate.Granted()})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.Log.Debug(logger.Entry{
			Action:  "http_request",
			Message: r.Method + " " + r.URL.Path,
			Additional: map[string]any{
				"duration_ms": time.Since(start).Milliseconds(),
			},
		})
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
