package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tunefolder/internal/folder"
	"tunefolder/internal/logging"
	"tunefolder/internal/search"
	"tunefolder/internal/store"
)

// Source is the read side of the build store.
type Source interface {
	Latest(ctx context.Context, folderName string) (*store.Build, error)
	List(ctx context.Context) ([]store.Summary, error)
}

// Server serves folders from a Source.
type Server struct {
	bind          string
	defaultFolder string
	source        Source
	logger        *slog.Logger

	listener net.Listener
	server   *http.Server
}

// New builds a server bound to bind. defaultFolder may be empty.
func New(bind, defaultFolder string, source Source, logger *slog.Logger) (*Server, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, errors.New("api bind address is required")
	}
	if source == nil {
		return nil, errors.New("server requires a folder source")
	}
	s := &Server{
		bind:          bind,
		defaultFolder: strings.TrimSpace(defaultFolder),
		source:        source,
		logger:        logging.NewComponentLogger(logger, "api-server"),
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler returns the route multiplexer.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/folder.json", s.handleFolder)
	mux.HandleFunc("/api/folders", s.handleFolders)
	mux.HandleFunc("/api/sets/{slug}", s.handleSet)
	mux.HandleFunc("/api/search", s.handleSearch)
	return mux
}

// Start listens and serves in the background until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr reports the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

func (s *Server) handleFolder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	build, ok := s.latest(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, build.Folder)
}

func (s *Server) handleFolders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	summaries, err := s.source.List(r.Context())
	if err != nil {
		s.logger.Error("list folders failed", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to list folders")
		return
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"folders": summaries})
}

func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	build, ok := s.latest(w, r)
	if !ok {
		return
	}
	slug := r.PathValue("slug")
	set, found := folder.FindSet(build.Folder, slug)
	if !found {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("set %q not found", slug))
		return
	}
	s.writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	build, ok := s.latest(w, r)
	if !ok {
		return
	}
	hits := search.NewIndex(build.Folder).Query(query, limit)
	if hits == nil {
		hits = []search.Hit{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"query": query, "hits": hits})
}

// latest resolves the requested folder and writes an error response when it
// cannot.
func (s *Server) latest(w http.ResponseWriter, r *http.Request) (*store.Build, bool) {
	name, err := s.folderName(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	build, err := s.source.Latest(r.Context(), name)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	if err != nil {
		s.logger.Error("load folder failed", logging.Folder(name), logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to load folder")
		return nil, false
	}
	return build, true
}

func (s *Server) folderName(r *http.Request) (string, error) {
	if name := strings.TrimSpace(r.URL.Query().Get("folder")); name != "" {
		return name, nil
	}
	if s.defaultFolder != "" {
		return s.defaultFolder, nil
	}
	summaries, err := s.source.List(r.Context())
	if err != nil {
		return "", fmt.Errorf("list folders: %w", err)
	}
	if len(summaries) != 1 {
		return "", errors.New("folder query parameter is required")
	}
	return summaries[0].FolderName, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
