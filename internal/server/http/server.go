package httpserver

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/rzbill/listx/internal/runtime"
	"github.com/rzbill/listx/internal/services/lists"
	logpkg "github.com/rzbill/listx/pkg/log"
)

type Server struct {
	rt     *runtime.Runtime
	srv    *http.Server
	lis    net.Listener
	svc    *lists.Service
	logger logpkg.Logger
}

func New(rt *runtime.Runtime, logger logpkg.Logger) (*Server, error) {
	if logger == nil {
		logger = rt.Logger()
	}
	svc, err := lists.NewWithLogger(rt, logger)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	s := &Server{
		rt:     rt,
		svc:    svc,
		logger: logger.WithComponent("http"),
		srv: &http.Server{
			Handler:           cors(mux),
			ReadHeaderTimeout: 10 * time.Second,
			ErrorLog:          logpkg.ToStdLogger(logger, logpkg.WarnLevel),
		},
	}
	mux.HandleFunc("/v1/healthz", s.handleHealth)
	mux.HandleFunc("/v1/ns", s.handleNSList)
	mux.HandleFunc("/v1/ns/create", s.handleNSCreate)
	mux.HandleFunc("/v1/commands", s.handleCommand)
	mux.HandleFunc("/v1/lists/filter", s.handleFilter)
	mux.HandleFunc("/v1/replication", s.handleReplication)
	mux.Handle("/metrics", rt.Metrics().Handler())
	return s, nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.rt.CheckHealth(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_serving"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
