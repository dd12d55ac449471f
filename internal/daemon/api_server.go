package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"dupescan/internal/analysis"
	"dupescan/internal/api"
	"dupescan/internal/config"
	"dupescan/internal/coordinator"
	"dupescan/internal/logging"
)

type apiServer struct {
	bind      string
	clientDir string
	logger    *slog.Logger
	daemon    *Daemon
	coord     *coordinator.Coordinator
	threshold float64

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, errors.New("api server requires config and daemon")
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, errors.New("api bind address is required")
	}

	mux := http.NewServeMux()
	srv := &apiServer{
		bind:      bind,
		clientDir: cfg.Paths.ClientDir,
		logger:    logger,
		daemon:    d,
		coord:     d.coord,
		threshold: cfg.Analysis.DefaultThreshold,
	}

	mux.HandleFunc("/api/analyze", srv.handleAnalyze)
	mux.HandleFunc("/api/poll", srv.handlePoll)
	mux.HandleFunc("/api/subscribe", srv.handleSubscribe)
	mux.HandleFunc("/api/cancel", srv.handleCancel)
	mux.HandleFunc("/api/list", srv.handleList)
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/media", srv.handleMedia)
	if srv.clientDir != "" {
		mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(srv.clientDir))))
		mux.HandleFunc("/", srv.handleIndex)
	}

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" {
		s.writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	threshold := s.threshold
	if raw := strings.TrimSpace(r.URL.Query().Get("threshold")); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 || parsed > 1 {
			s.writeError(w, http.StatusBadRequest, "threshold must be in (0, 1]")
			return
		}
		threshold = parsed
	}

	id, err := s.coord.Submit(r.Context(), analysis.Request{Root: path, Threshold: threshold})
	if err != nil {
		s.writeTaxonomyError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.AnalyzeAccepted{TaskID: id.String()})
}

func (s *apiServer) handlePoll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}

	resp, err := s.coord.Poll(r.Context(), id)
	if err != nil {
		s.writeTaxonomyError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, taskStateFor(resp))
}

func taskStateFor(resp coordinator.Response) api.TaskState {
	if !resp.Completed {
		return api.TaskState{Type: api.TaskStatePending, Progress: resp.Progress}
	}
	if resp.Result.Err != nil {
		return api.TaskState{Type: api.TaskStateFailed, Error: resp.Result.Err.Error()}
	}
	return api.TaskState{Type: api.TaskStateCompleted, Data: resp.Result.Groups}
}

func (s *apiServer) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}

	rx, err := s.coord.Subscribe(r.Context(), id)
	if err != nil {
		s.writeTaxonomyError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// A dropped subscriber only ends this stream; the task keeps running.
	for {
		value, err := rx.Next(r.Context())
		if err != nil {
			return
		}
		if _, err := fmt.Fprintf(w, "data: %d\n\n", value); err != nil {
			return
		}
		flusher.Flush()
	}
}

func (s *apiServer) handleCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}

	if err := s.coord.Cancel(r.Context(), id); err != nil {
		s.writeTaxonomyError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

func (s *apiServer) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" {
		s.writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	files, err := s.coord.Engine().ListDir(path)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries := make([]api.FileEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, api.FromFileInfo(f.Name, f.Path, f.Kind, f.Size, f.IsDir))
	}
	s.writeJSON(w, http.StatusOK, api.ListResponse{Files: entries})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status()
	payload := api.StatusResponse{
		Running:      status.Running,
		PID:          status.PID,
		LockFilePath: status.LockFilePath,
		CacheEntries: status.CacheEntries,
	}
	if free, total, err := diskUsage(status.LockFilePath); err == nil {
		payload.FreeDiskBytes = free
		payload.TotalDiskBytes = total
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleMedia(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" {
		s.writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	http.ServeFile(w, r, path)
}

func (s *apiServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, s.clientDir+"/index.html")
}

func (s *apiServer) taskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("taskId"))
	if raw == "" {
		s.writeError(w, http.StatusBadRequest, "taskId is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid taskId")
		return uuid.Nil, false
	}
	return id, true
}

// writeTaxonomyError maps the analysis error taxonomy onto HTTP statuses:
// unknown ids are expected 404s, everything else is a server-side failure.
func (s *apiServer) writeTaxonomyError(w http.ResponseWriter, err error) {
	switch analysis.Kind(err) {
	case "not_found":
		s.writeError(w, http.StatusNotFound, "task not found")
	default:
		s.log().Error("request failed", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

func (s *apiServer) log() *slog.Logger {
	return logging.NewComponentLogger(s.logger, "api-server")
}
