package network

import (
	"context"
	"embed"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/leengari/recordstore/internal/engine"
)

//go:embed web
var webFS embed.FS

// Options configures the HTTP server
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
	StaticDir       string // serve the frontend from disk instead of the embedded copy
}

// Server exposes an Engine over HTTP
type Server struct {
	engine *engine.Engine
	opts   Options
	web    fs.FS
	router *Router
	logger *slog.Logger
}

// NewServer wires the routes for eng
func NewServer(eng *engine.Engine, opts Options) (*Server, error) {
	var web fs.FS
	if opts.StaticDir != "" {
		info, err := os.Stat(opts.StaticDir)
		if err != nil {
			return nil, fmt.Errorf("static dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("static dir %s is not a directory", opts.StaticDir)
		}
		web = os.DirFS(opts.StaticDir)
	} else {
		sub, err := fs.Sub(webFS, "web")
		if err != nil {
			return nil, fmt.Errorf("failed to create sub filesystem: %w", err)
		}
		web = sub
	}

	s := &Server{
		engine: eng,
		opts:   opts,
		web:    web,
		router: NewRouter(),
		logger: slog.Default(),
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	mux := s.router

	mux.Route(http.MethodGet, "/databases", s.handleListDatabases)
	mux.Route(http.MethodPost, "/create_database/{name}", s.handleCreateDatabase)
	mux.Route(http.MethodDelete, "/databases/{name}", s.handleDropDatabase)

	mux.Route(http.MethodPost, "/{db}/tables", s.handleAddTable)
	mux.Route(http.MethodGet, "/{db}/tables_list", s.handleListTables)
	mux.Route(http.MethodDelete, "/{db}/tables/{table}", s.handleDeleteTable)
	mux.Route(http.MethodGet, "/{db}/tables/{table}/schema", s.handleGetSchema)
	mux.Route(http.MethodPost, "/{db}/tables/{table}/rows", s.handleAddRow)
	mux.Route(http.MethodGet, "/{db}/tables/{table}/rows", s.handleGetRows)
	mux.Route(http.MethodDelete, "/{db}/tables/{table}/rows/{index}", s.handleDeleteRow)
	mux.Route(http.MethodGet, "/{db}/tables/{left}/intersect/{right}", s.handleIntersect)

	mux.Route(http.MethodGet, "/", s.handleIndex)
	mux.Route(http.MethodGet, "/static/{path...}", s.handleStatic)
}

// Handler returns the full middleware chain: access log, panic recovery,
// body limit, router
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = LimitBodySize(h, s.opts.MaxBodyBytes)
	h = Recover(h)
	return AccessLog(h, s.logger)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down", "timeout", s.opts.ShutdownTimeout)
	shutdownCtx := context.Background()
	if s.opts.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, s.opts.ShutdownTimeout)
		defer cancel()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, _ Params) {
	s.serveAsset(w, r, "index.html")
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request, p Params) {
	if !fs.ValidPath(p["path"]) {
		notFound(w, r)
		return
	}
	s.serveAsset(w, r, path.Join("static", p["path"]))
}

func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request, name string) {
	if !fs.ValidPath(name) {
		notFound(w, r)
		return
	}
	info, err := fs.Stat(s.web, name)
	if err != nil || info.IsDir() {
		notFound(w, r)
		return
	}
	http.ServeFileFS(w, r, s.web, name)
}
