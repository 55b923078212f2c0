// cmd/mcp-server/main.go — xcalc tools over HTTP
//
// Every request body is one xcalc.ToolRequest; the reply is the matching
// xcalc.ToolResponse. Solve calls without max_iter use the -max-iter cap.
//
// Usage:
//   go run ./cmd/mcp-server -port 8080 -max-iter 10000
//
//   POST /tool    run a tool call
//   GET  /schema  tool schema
//   GET  /health  liveness and server settings
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/pkg/errors"

	"github.com/fuguenot/xcalc"
)

const maxBodyBytes = 1 << 20

type server struct {
	tools   *xcalc.Toolbox
	opts    xcalc.SolveOptions
	started time.Time
}

func newServer(opts xcalc.SolveOptions) *server {
	return &server{
		tools:   xcalc.NewToolbox(xcalc.New(), opts),
		opts:    opts,
		started: time.Now(),
	}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/tool", s.handleTool)
	mux.HandleFunc("/schema", s.handleSchema)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeRequest reads exactly one ToolRequest from the body.
func decodeRequest(w http.ResponseWriter, r *http.Request) (xcalc.ToolRequest, error) {
	var req xcalc.ToolRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	if dec.More() {
		return req, errors.New("invalid JSON: trailing data")
	}
	return req, nil
}

func (s *server) handleTool(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("tool call panicked: %v\n%s", rec, debug.Stack())
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}()
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	req, err := decodeRequest(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, xcalc.ToolResponse{Error: err.Error()})
		return
	}

	start := time.Now()
	resp := s.tools.Handle(req)
	if resp.Error != "" {
		log.Printf("%s: %s (%s)", req.Tool, resp.Error, time.Since(start))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, xcalc.ToolSpec())
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"uptime":   time.Since(s.started).Round(time.Second).String(),
		"max_iter": s.opts.MaxIter,
	})
}

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	maxIter := flag.Int("max-iter", xcalc.DefaultSolveOptions().MaxIter, "Default Newton iteration cap (<= 0 for none)")
	flag.Parse()

	s := newServer(xcalc.SolveOptions{MaxIter: *maxIter})
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("xcalc: serving tools on %s (max-iter %d)", srv.Addr, *maxIter)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
