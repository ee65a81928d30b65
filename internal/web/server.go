// Package web serves the hbnb HTML front: a few text routes and the
// server-rendered state and city listings.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NateMachoka/AirBnB-clone-v2/internal/storage"
	"github.com/NateMachoka/AirBnB-clone-v2/pkg/types"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Server routes requests to handlers that read from a store.
type Server struct {
	store  types.Storage
	engine *gin.Engine
	logger *slog.Logger
}

// NewServer builds the router over store. The store is reloaded after
// every request so each page reflects durable state.
func NewServer(store types.Storage, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	engine := gin.New()
	engine.SetHTMLTemplate(tmpl)

	s := &Server{store: store, engine: engine, logger: logger}
	engine.Use(gin.Recovery(), s.requestLogger(), s.reloadAfter())
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Hello HBNB!") })
	s.engine.GET("/hbnb", func(c *gin.Context) { c.String(http.StatusOK, "HBNB") })
	s.engine.GET("/c/:text", s.handleC)
	s.engine.GET("/python/", s.handlePython)
	s.engine.GET("/python/:text", s.handlePython)
	s.engine.GET("/number/:n", s.handleNumber)
	s.engine.GET("/number_template/:n", s.handleNumberTemplate)
	s.engine.GET("/states", s.handleStates)
	s.engine.GET("/states/:id", s.handleState)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// reloadAfter drops whatever the request left in the store's session.
func (s *Server) reloadAfter() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if err := s.store.Reload(); err != nil {
			s.logger.Error("reloading storage", "error", err)
		}
	}
}

// spaced replaces underscores with spaces and escapes HTML.
func spaced(text string) string {
	return html.EscapeString(strings.ReplaceAll(text, "_", " "))
}

func (s *Server) handleC(c *gin.Context) {
	c.String(http.StatusOK, "C %s", spaced(c.Param("text")))
}

func (s *Server) handlePython(c *gin.Context) {
	text := c.Param("text")
	if text == "" {
		text = "is cool"
	}
	c.String(http.StatusOK, "Python %s", spaced(text))
}

// number parses the :n parameter as a non-negative integer.
func number(c *gin.Context) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param("n"), 10, 64)
	if err != nil {
		c.String(http.StatusNotFound, "404 page not found")
		return 0, false
	}
	return n, true
}

func (s *Server) handleNumber(c *gin.Context) {
	if n, ok := number(c); ok {
		c.String(http.StatusOK, "%d is a number", n)
	}
}

func (s *Server) handleNumberTemplate(c *gin.Context) {
	if n, ok := number(c); ok {
		c.HTML(http.StatusOK, "number.html", n)
	}
}

func (s *Server) handleStates(c *gin.Context) {
	objs, err := s.store.All(types.ClassState)
	if err != nil {
		s.fail(c, err)
		return
	}
	states := make([]*types.State, 0, len(objs))
	for _, m := range objs {
		states = append(states, m.(*types.State))
	}
	storage.SortByName(states, func(st *types.State) string { return st.Name })

	c.HTML(http.StatusOK, "states.html", gin.H{"States": states})
}

func (s *Server) handleState(c *gin.Context) {
	obj, err := s.store.Get(types.ClassState, c.Param("id"))
	if errors.Is(err, types.ErrNotFound) {
		c.HTML(http.StatusOK, "not_found.html", nil)
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	state := obj.(*types.State)

	cities, err := storage.CitiesOf(s.store, state.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	storage.SortByName(cities, func(city *types.City) string { return city.Name })

	c.HTML(http.StatusOK, "state.html", gin.H{"State": state, "Cities": cities})
}

func (s *Server) fail(c *gin.Context, err error) {
	s.logger.Error("handling request", "path", c.Request.URL.Path, "error", err)
	c.String(http.StatusInternalServerError, "internal error")
}
