package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	listxv1 "github.com/rzbill/listx/api/listx/v1"
	"github.com/rzbill/listx/internal/replog"
	"github.com/rzbill/listx/internal/services/lists"
	logpkg "github.com/rzbill/listx/pkg/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	maxReplicationWait = 30 * time.Second
	maxCommandBody     = 64 << 20
)

// httpStatus maps command error classes onto HTTP status codes.
func httpStatus(c codes.Code) int {
	switch c {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.NotFound, codes.Unimplemented:
		return http.StatusNotFound
	case codes.FailedPrecondition, codes.Aborted:
		return http.StatusConflict
	case codes.ResourceExhausted:
		return http.StatusInsufficientStorage
	case codes.Canceled, codes.DeadlineExceeded:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := lists.ErrorCode(err)
	if code == codes.Internal {
		s.logger.Error("request failed", logpkg.Err(err))
	}
	writeJSON(w, httpStatus(code), map[string]string{"error": err.Error(), "code": code.String()})
}

func (s *Server) handleNSList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	all, err := s.rt.Namespaces()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"namespaces": all})
}

type nsCreateReq struct {
	Namespace string `json:"namespace"`
}

func (s *Server) handleNSCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req nsCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	meta, err := s.rt.EnsureNamespace(req.Namespace)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, meta)
}

// handleCommand accepts the listx.v1 Execute request in protojson form and
// answers {"reply": <value>}.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxCommandBody))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var req structpb.Struct
	if err := protojson.Unmarshal(raw, &req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	ns, argv, err := listxv1.ParseExecuteRequest(&req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	reply, err := s.svc.Execute(r.Context(), ns, argv)
	if err != nil {
		s.writeError(w, err)
		return
	}
	body, err := protojson.Marshal(&structpb.Struct{Fields: map[string]*structpb.Value{
		"reply": lists.ReplyValue(reply),
	}})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

type filterReq struct {
	Namespace   string `json:"namespace"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Min         string `json:"min"`
	Max         string `json:"max"`
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req filterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	n, err := s.svc.Filter(r.Context(), req.Namespace, req.Source, req.Destination, req.Min, req.Max)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": n})
}

type replicationEntry struct {
	Seq       uint64   `json:"seq"`
	ID        string   `json:"id"`
	Namespace string   `json:"namespace"`
	Args      []string `json:"args"`
}

// handleReplication pages through the replication log:
// GET /v1/replication?from=1&limit=100&wait_ms=1000
func (s *Server) handleReplication(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	from, err1 := parseUintParam(q.Get("from"))
	limit, err2 := parseUintParam(q.Get("limit"))
	waitMs, err3 := parseUintParam(q.Get("wait_ms"))
	if err := errors.Join(err1, err2, err3); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if limit == 0 || limit > 1000 {
		limit = 1000
	}
	rl := s.rt.ReplicationLog()
	wait := min(time.Duration(waitMs)*time.Millisecond, maxReplicationWait)
	if wait > 0 && rl.LastSeq() < from {
		rl.WaitForAppend(wait)
	}
	entries, next, err := rl.Read(replog.ReadOptions{From: from, Limit: int(limit)})
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]replicationEntry, 0, len(entries))
	for _, e := range entries {
		args := make([]string, len(e.Argv))
		for i, a := range e.Argv {
			args[i] = string(a)
		}
		out = append(out, replicationEntry{Seq: e.Seq, ID: e.ID.String(), Namespace: e.Namespace, Args: args})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries":  out,
		"next":     next,
		"last_seq": rl.LastSeq(),
	})
}

func parseUintParam(v string) (uint64, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.ParseUint(v, 10, 64)
}
